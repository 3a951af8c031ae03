// Package api is the HTTP client of the remote cart service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/cartkeeper/internal/client/normalize"
	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/pkg/api"
)

const defaultTimeout = 30 * time.Second

// TokenSource возвращает bearer токен для текущей identity
type TokenSource func(ctx context.Context) (string, error)

// StatusError ответ сервера с кодом не 2xx
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Unwrap сопоставляет HTTP статус с ошибками ядра
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return models.ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return models.ErrConflict
	case e.StatusCode == http.StatusForbidden:
		return models.ErrRemoteForbidden
	case e.StatusCode == http.StatusTooManyRequests, e.StatusCode >= 500:
		return models.ErrTransientRemote
	default:
		return nil
	}
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	tokens     TokenSource
	baseURL    string
	timeout    time.Duration // на все запросы, кроме add/remove; 0 без ограничения
}

// Option настраивает Client
type Option func(*Client)

// WithTimeout задает таймаут запросов чтения, входа и checkout; 0 отключает его.
// Add/remove ограничены только ctx: зависший запрос остается pending.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient подменяет http.Client (тесты, прокси)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient создает новый API клиент. tokens может быть nil для анонимных запросов.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		timeout: defaultTimeout,
		httpClient: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", req, &resp, false); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp, false); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Logout сообщает серверу о завершении сессии
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, true); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// GetCart получает корзину identity
func (c *Client) GetCart(ctx context.Context, identityID string) (normalize.CartPayload, error) {
	body, err := c.do(ctx, http.MethodGet, cartPath(identityID, ""), nil, nil)
	if err != nil {
		return normalize.CartPayload{}, fmt.Errorf("get cart failed: %w", err)
	}
	payload, err := normalize.Cart(body)
	if err != nil {
		return normalize.CartPayload{}, fmt.Errorf("get cart failed: %w", err)
	}
	return payload, nil
}

// AddLine добавляет qty единиц товара. Пустой idempotencyKey генерируется.
func (c *Client) AddLine(ctx context.Context, identityID, itemID string, qty int, idempotencyKey string) (normalize.MutationResult, error) {
	return c.mutateLine(ctx, "add", identityID, itemID, qty, idempotencyKey)
}

// RemoveLine убирает qty единиц товара
func (c *Client) RemoveLine(ctx context.Context, identityID, itemID string, qty int, idempotencyKey string) (normalize.MutationResult, error) {
	return c.mutateLine(ctx, "remove", identityID, itemID, qty, idempotencyKey)
}

func (c *Client) mutateLine(ctx context.Context, op, identityID, itemID string, qty int, key string) (normalize.MutationResult, error) {
	if key == "" {
		key = uuid.NewString()
	}
	req := api.LineRequest{ItemID: itemID, Quantity: qty}
	headers := map[string]string{api.IdempotencyKeyHeader: key}

	body, err := c.authorized(ctx, http.MethodPost, cartPath(identityID, op), req, headers)
	if err != nil {
		var se *StatusError
		// 409 несет актуальный остаток
		if errors.As(err, &se) && se.StatusCode == http.StatusConflict {
			if res, perr := normalize.Mutation(body); perr == nil {
				return res, fmt.Errorf("%s line failed: %w", op, err)
			}
		}
		return normalize.MutationResult{}, fmt.Errorf("%s line failed: %w", op, err)
	}

	// 2xx: изменение на сервере уже применено, тело только уточняет остаток
	res, err := normalize.Mutation(body)
	if err != nil {
		return normalize.MutationResult{}, nil
	}
	return res, nil
}

// GetCartEnabled запрашивает флаг доступности корзины. Неоднозначный ответ дает FlagUnknown.
func (c *Client) GetCartEnabled(ctx context.Context, identityID string) (models.CartFlag, error) {
	body, err := c.do(ctx, http.MethodGet, cartPath(identityID, "enabled"), nil, nil)
	if err != nil {
		return models.FlagUnknown, fmt.Errorf("get cart flag failed: %w", err)
	}
	return normalize.Flag(body), nil
}

// SetCartEnabled включает или отключает корзину пользователя (только admin)
func (c *Client) SetCartEnabled(ctx context.Context, identityID string, enabled bool) error {
	op := "disable"
	if enabled {
		op = "enable"
	}
	if _, err := c.do(ctx, http.MethodPost, cartPath(identityID, op), nil, nil); err != nil {
		return fmt.Errorf("%s cart failed: %w", op, err)
	}
	return nil
}

// GetItem получает позицию каталога
func (c *Client) GetItem(ctx context.Context, itemID string) (models.Item, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/items/"+url.PathEscape(itemID), nil, nil)
	if err != nil {
		return models.Item{}, fmt.Errorf("get item failed: %w", err)
	}
	item, err := normalize.Item(body)
	if err != nil {
		return models.Item{}, fmt.Errorf("get item failed: %w", err)
	}
	return item, nil
}

// Checkout оформляет заказ из корзины identity
func (c *Client) Checkout(ctx context.Context, identityID string) (*api.CheckoutResponse, error) {
	var resp api.CheckoutResponse
	if err := c.doJSON(ctx, http.MethodPost, cartPath(identityID, "checkout"), nil, &resp, true); err != nil {
		return nil, fmt.Errorf("checkout failed: %w", err)
	}
	return &resp, nil
}

func cartPath(identityID, op string) string {
	p := "/api/v1/cart/" + url.PathEscape(identityID)
	if op != "" {
		p += "/" + op
	}
	return p
}

// doJSON выполняет запрос и декодирует фиксированный DTO
func (c *Client) doJSON(ctx context.Context, method, path string, body, result any, auth bool) error {
	ctx, cancel := c.bounded(ctx)
	defer cancel()

	var (
		respBody []byte
		err      error
	)
	if auth {
		respBody, err = c.authorized(ctx, method, path, body, nil)
	} else {
		respBody, err = c.send(ctx, method, path, body, nil, "")
	}
	if err != nil {
		return err
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// do выполняет авторизованный запрос и возвращает тело ответа.
// При ошибке статуса тело тоже возвращается.
func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string) ([]byte, error) {
	ctx, cancel := c.bounded(ctx)
	defer cancel()
	return c.authorized(ctx, method, path, body, headers)
}

// bounded применяет таймаут клиента
func (c *Client) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// authorized выполняет запрос с bearer токеном без таймаута клиента
func (c *Client) authorized(ctx context.Context, method, path string, body any, headers map[string]string) ([]byte, error) {
	token := ""
	if c.tokens != nil {
		t, err := c.tokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get access token: %w", err)
		}
		token = t
	}
	return c.send(ctx, method, path, body, headers, token)
}

func (c *Client) send(ctx context.Context, method, path string, body any, headers map[string]string, token string) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w: %w", models.ErrTransientRemote, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w: %w", models.ErrTransientRemote, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			se.Message = errResp.Message
			if se.Message == "" {
				se.Message = errResp.Error
			}
		} else {
			se.Message = strings.TrimSpace(string(respBody))
		}
		return respBody, se
	}
	return respBody, nil
}
