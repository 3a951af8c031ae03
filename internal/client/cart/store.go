// Package cart holds the in-memory cart state of the active identity
// and the eligibility policy for cart operations.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/cartkeeper/internal/models"
)

//go:generate moq -out persister_mock.go . Persister

// Persister сохраняет снапшот корзины identity (LocalCartCache)
type Persister interface {
	Save(ctx context.Context, identityID string, snap models.CartSnapshot) error
}

// Listener получает копию нового состояния корзины
type Listener func(models.CartSnapshot)

// Store единственный источник истины о корзине активной identity.
//
// Каждая смена identity (Reset) увеличивает поколение. Все изменяющие методы
// принимают поколение, под которым была начата операция, и возвращают
// models.ErrStaleSession, если за это время identity сменилась.
//
// Подписчики вызываются синхронно в горутине вызывающего; Read из подписчика
// безопасен, изменять Store из подписчика нельзя.
type Store struct {
	persister Persister
	logger    *slog.Logger
	listeners map[uint64]Listener
	snap      models.CartSnapshot
	owner     string
	gen       uint64
	nextID    uint64
	mu        sync.RWMutex
	// notifyMu сериализует изменение + сохранение + уведомление
	notifyMu sync.Mutex
}

// NewStore creates an empty store without an owner. persister may be nil.
func NewStore(persister Persister, logger *slog.Logger) *Store {
	return &Store{
		persister: persister,
		logger:    logger,
		listeners: make(map[uint64]Listener),
		snap:      models.NewSnapshot(false),
	}
}

// DeltaOption настраивает ApplyDelta
type DeltaOption func(*deltaOptions)

type deltaOptions struct {
	hint    *models.Item
	pending *bool
}

// WithHint задает метаданные для строки, которой еще нет в корзине.
// Существующие строки подсказкой не меняются.
func WithHint(item models.Item) DeltaOption {
	return func(o *deltaOptions) {
		o.hint = &item
	}
}

// WithPending выставляет флаг pending у строки вместе с изменением количества
func WithPending(pending bool) DeltaOption {
	return func(o *deltaOptions) {
		o.pending = &pending
	}
}

// Read returns a copy of the current snapshot. Never blocks on remote calls.
func (s *Store) Read() models.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Owner returns the identity the current snapshot belongs to.
func (s *Store) Owner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

// Generation returns the current generation.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Session returns owner and generation read atomically.
func (s *Store) Session() (owner string, gen uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner, s.gen
}

// Subscribe регистрирует подписчика; возвращает функцию отписки.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Reset очищает корзину и закрепляет ее за ownerID (пустая строка - нет identity).
// Возвращает новое поколение; результаты операций старого поколения отбрасываются.
// Кэш при сбросе не перезаписывается.
func (s *Store) Reset(ownerID string) uint64 {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.gen++
	s.owner = ownerID
	s.snap = models.NewSnapshot(false)
	gen := s.gen
	out, listeners := s.snap.Clone(), s.listenersLocked()
	s.mu.Unlock()

	s.notify(listeners, out)
	return gen
}

// Replace заменяет снапшот целиком
func (s *Store) Replace(ctx context.Context, gen uint64, snap models.CartSnapshot) (models.CartSnapshot, error) {
	return s.update(ctx, gen, func(cur *models.CartSnapshot) bool {
		next := snap.Clone()
		if next.Lines == nil {
			next.Lines = make(map[string]models.CartLine)
		}
		next.Recompute()
		*cur = next
		return true
	})
}

// ApplyDelta добавляет delta к количеству позиции itemID.
// Количество не опускается ниже 0, строка с нулевым количеством удаляется.
// Положительная delta для отсутствующей позиции создает строку (метаданные из WithHint),
// отрицательная для отсутствующей - no-op.
func (s *Store) ApplyDelta(ctx context.Context, gen uint64, itemID string, delta int, opts ...DeltaOption) (models.CartSnapshot, error) {
	var o deltaOptions
	for _, opt := range opts {
		opt(&o)
	}

	return s.update(ctx, gen, func(cur *models.CartSnapshot) bool {
		line, exists := cur.Lines[itemID]
		if !exists {
			if delta <= 0 {
				return false
			}
			line = models.CartLine{ItemID: itemID}
			if o.hint != nil {
				line.UnitPrice = o.hint.UnitPrice
				line.Title = o.hint.Title
				line.ImageRef = o.hint.ImageRef
				line.CachedStock = o.hint.Stock
			}
		}

		line.Quantity = max(line.Quantity+delta, 0)
		if o.pending != nil {
			line.Pending = *o.pending
		}
		cur.Put(line)
		return true
	})
}

// SetPending меняет флаг pending существующей строки
func (s *Store) SetPending(ctx context.Context, gen uint64, itemID string, pending bool) error {
	_, err := s.update(ctx, gen, func(cur *models.CartSnapshot) bool {
		line, ok := cur.Lines[itemID]
		if !ok || line.Pending == pending {
			return false
		}
		line.Pending = pending
		cur.Lines[itemID] = line
		return true
	})
	return err
}

// SetEnabled меняет признак доступности корзины в снапшоте
func (s *Store) SetEnabled(ctx context.Context, gen uint64, enabled bool) error {
	_, err := s.update(ctx, gen, func(cur *models.CartSnapshot) bool {
		if cur.Enabled == enabled {
			return false
		}
		cur.Enabled = enabled
		return true
	})
	return err
}

// ApplyStock обновляет кэшированный остаток строки. Остатки общие для всех identity,
// поэтому поколение не проверяется. Возвращает true, если строка изменилась.
func (s *Store) ApplyStock(ctx context.Context, itemID string, stock int) bool {
	stock = max(stock, 0)

	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	changed := false
	_, err := s.update(ctx, gen, func(cur *models.CartSnapshot) bool {
		line, ok := cur.Lines[itemID]
		if !ok || line.CachedStock == stock {
			return false
		}
		line.CachedStock = stock
		cur.Lines[itemID] = line
		changed = true
		return true
	})
	return err == nil && changed
}

// Modify атомарно применяет fn к текущему снапшоту. fn возвращает false, если
// ничего не изменилось; внутри fn нельзя обращаться к Store и делать I/O.
func (s *Store) Modify(ctx context.Context, gen uint64, fn func(cur *models.CartSnapshot) bool) (models.CartSnapshot, error) {
	return s.update(ctx, gen, fn)
}

// update применяет fn к текущему снапшоту под поколением gen,
// затем сохраняет результат и уведомляет подписчиков.
func (s *Store) update(ctx context.Context, gen uint64, fn func(*models.CartSnapshot) bool) (models.CartSnapshot, error) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return models.CartSnapshot{}, fmt.Errorf("generation %d, current %d: %w", gen, s.gen, models.ErrStaleSession)
	}
	if !fn(&s.snap) {
		out := s.snap.Clone()
		s.mu.Unlock()
		return out, nil
	}
	s.snap.Recompute()
	owner := s.owner
	out, listeners := s.snap.Clone(), s.listenersLocked()
	s.mu.Unlock()

	s.persist(ctx, owner, out)
	s.notify(listeners, out)
	return out, nil
}

func (s *Store) persist(ctx context.Context, owner string, snap models.CartSnapshot) {
	if s.persister == nil || owner == "" {
		return
	}
	if err := s.persister.Save(ctx, owner, snap); err != nil {
		// кэш вторичен, ошибка не должна ломать мутацию
		s.logger.Warn("failed to persist cart snapshot",
			"user_id", owner,
			"error", err)
	}
}

func (s *Store) listenersLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func (s *Store) notify(listeners []Listener, snap models.CartSnapshot) {
	for _, l := range listeners {
		s.deliver(l, snap.Clone())
	}
}

func (s *Store) deliver(l Listener, snap models.CartSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("cart listener panicked", "error", r)
		}
	}()
	l(snap)
}
