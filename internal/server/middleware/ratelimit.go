package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/cartkeeper/internal/server/handlers"
)

// RateLimiter rate limiter на основе токен-бакета (token bucket) с фиксированным окном
type RateLimiter struct {
	now      func() time.Time
	buckets  map[string]*bucket
	cleanupC chan struct{}
	stopOnce sync.Once
	rate     int
	window   time.Duration
	mu       sync.Mutex
}

// bucket состояние для конкретного IP
type bucket struct {
	lastRefill time.Time
	tokens     int
}

// NewRateLimiter создает новый rate limiter
// rate - максимальное количество запросов за window
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		now:      time.Now,
		buckets:  make(map[string]*bucket),
		rate:     rate,
		window:   window,
		cleanupC: make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// cleanup периодически удаляет неактивные buckets
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupOldBuckets()
		case <-rl.cleanupC:
			return
		}
	}
}

// cleanupOldBuckets удаляет buckets, которые не использовались дольше двух окон
func (rl *RateLimiter) cleanupOldBuckets() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastRefill) > rl.window*2 {
			delete(rl.buckets, key)
		}
	}
}

// Stop останавливает cleanup goroutine. Повторный вызов безопасен.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.cleanupC) })
}

// Allow проверяет, разрешен ли запрос для ключа.
// При отказе возвращает время до пополнения бакета.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, exists := rl.buckets[key]
	if !exists || now.Sub(b.lastRefill) >= rl.window {
		b = &bucket{tokens: rl.rate, lastRefill: now}
		rl.buckets[key] = b
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}

	return false, rl.window - now.Sub(b.lastRefill)
}

// PathRateLimit отдельный лимит для пути (например, для login)
type PathRateLimit struct {
	Path   string
	Rate   int
	Window time.Duration
}

// RateLimits набор limiter'ов: по точному пути и общий
type RateLimits struct {
	logger    *slog.Logger
	onLimited func()
	byPath    map[string]*RateLimiter
	fallback  *RateLimiter
}

// NewRateLimits создает limiter'ы. onLimited вызывается на каждый отказ (метрики), может быть nil.
func NewRateLimits(logger *slog.Logger, limits []PathRateLimit, defaultRate int, defaultWindow time.Duration, onLimited func()) *RateLimits {
	byPath := make(map[string]*RateLimiter, len(limits))
	for _, limit := range limits {
		byPath[limit.Path] = NewRateLimiter(limit.Rate, limit.Window)
	}
	if onLimited == nil {
		onLimited = func() {}
	}

	return &RateLimits{
		logger:    logger,
		onLimited: onLimited,
		byPath:    byPath,
		fallback:  NewRateLimiter(defaultRate, defaultWindow),
	}
}

// Middleware отвечает 429 с Retry-After при превышении лимита
func (l *RateLimits) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter, exists := l.byPath[r.URL.Path]
		if !exists {
			limiter = l.fallback
		}

		key := getClientIP(r)
		allowed, retryAfter := limiter.Allow(key)
		if !allowed {
			l.logger.Warn("Rate limit exceeded",
				"ip", key,
				"method", r.Method,
				"path", r.URL.Path,
			)
			l.onLimited()

			seconds := int(retryAfter.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			handlers.WriteError(l.logger, w, "rate limit exceeded, please try again later", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Stop останавливает все limiter'ы
func (l *RateLimits) Stop() {
	for _, limiter := range l.byPath {
		limiter.Stop()
	}
	l.fallback.Stop()
}

// getClientIP извлекает IP адрес клиента из запроса
// Проверяет заголовки X-Forwarded-For и X-Real-IP для прокси
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// первый IP из списка (реальный клиент)
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// порт отбрасываем: у каждого соединения он свой
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
