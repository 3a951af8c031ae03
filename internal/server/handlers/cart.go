package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/internal/server/storage"
	"github.com/iudanet/cartkeeper/internal/validation"
	"github.com/iudanet/cartkeeper/pkg/api"
)

// Исходы операций для метрик
const (
	OutcomeOK           = "ok"
	OutcomeConflict     = "conflict"
	OutcomeDisabled     = "disabled"
	OutcomeNotFound     = "not_found"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
	OutcomeEmpty        = "empty"
	OperationAdd        = "add"
	OperationRemove     = "remove"
	OperationCheckout   = "checkout"
	OperationSetEnabled = "set_enabled"
)

// CartMetrics счетчики операций с корзинами
type CartMetrics interface {
	ObserveCartOperation(op, outcome string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveCartOperation(string, string) {}

// CartHandler обрабатывает запросы к корзинам
type CartHandler struct {
	carts   storage.CartStorage
	metrics CartMetrics
	responder
}

// NewCartHandler создает handler корзин; metrics может быть nil
func NewCartHandler(logger *slog.Logger, carts storage.CartStorage, metrics CartMetrics) *CartHandler {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &CartHandler{
		responder: responder{logger: logger},
		carts:     carts,
		metrics:   metrics,
	}
}

// owner проверяет доступ к корзине {user_id}. Администратор может только читать.
func (h *CartHandler) owner(w http.ResponseWriter, r *http.Request, write bool) (string, bool) {
	userID := r.PathValue("user_id")
	callerID, ok := GetUserID(r.Context())
	if !ok {
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	role, _ := GetRole(r.Context())

	switch {
	case callerID == userID && role == models.RoleShopper:
		return userID, true
	case callerID == userID:
		h.sendError(w, "administrators have no cart", http.StatusForbidden)
	case !write && role == models.RoleAdministrator:
		return userID, true
	default:
		h.logger.WarnContext(r.Context(), "cart access denied",
			slog.String("user_id", callerID),
			slog.String("cart_id", userID))
		h.sendError(w, "access denied", http.StatusForbidden)
	}
	return "", false
}

// GetCart обрабатывает GET /api/v1/cart/{user_id}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.owner(w, r, false)
	if !ok {
		return
	}

	lines, err := h.carts.GetCart(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get cart", slog.String("user_id", userID), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	enabled, err := h.carts.CartEnabled(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get cart flag", slog.String("user_id", userID), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.CartResponse{
		Enabled: &enabled,
		Lines:   make([]api.CartLine, 0, len(lines)),
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, api.CartLine{
			ItemID:   line.ItemID,
			Title:    line.Title,
			ImageRef: line.ImageRef,
			Price:    line.UnitPrice.StringFixed(2),
			Quantity: line.Quantity,
			Stock:    line.CachedStock,
		})
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// AddLine обрабатывает POST /api/v1/cart/{user_id}/add
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	h.changeLine(w, r, OperationAdd, 1)
}

// RemoveLine обрабатывает POST /api/v1/cart/{user_id}/remove
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	h.changeLine(w, r, OperationRemove, -1)
}

func (h *CartHandler) changeLine(w http.ResponseWriter, r *http.Request, op string, sign int) {
	ctx := r.Context()
	userID, ok := h.owner(w, r, true)
	if !ok {
		return
	}

	var req api.LineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.metrics.ObserveCartOperation(op, OutcomeInvalid)
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateItemID(req.ItemID); err != nil {
		h.metrics.ObserveCartOperation(op, OutcomeInvalid)
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	// отсутствующее количество означает одну единицу
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		h.metrics.ObserveCartOperation(op, OutcomeInvalid)
		h.sendError(w, "qty must be positive", http.StatusBadRequest)
		return
	}

	res, err := h.carts.ApplyLineChange(ctx, storage.LineChange{
		UserID:         userID,
		ItemID:         req.ItemID,
		IdempotencyKey: r.Header.Get(api.IdempotencyKeyHeader),
		Delta:          sign * req.Quantity,
	})
	switch {
	case errors.Is(err, storage.ErrInsufficientStock):
		h.metrics.ObserveCartOperation(op, OutcomeConflict)
		h.logger.InfoContext(ctx, "not enough stock",
			slog.String("user_id", userID),
			slog.String("item_id", req.ItemID),
			slog.Int("stock", res.Stock))
		h.sendJSON(w, api.MutationResponse{Quantity: &res.Quantity, NewStock: res.Stock}, http.StatusConflict)
		return
	case errors.Is(err, storage.ErrItemNotFound):
		h.metrics.ObserveCartOperation(op, OutcomeNotFound)
		h.sendError(w, "item not found", http.StatusNotFound)
		return
	case errors.Is(err, storage.ErrCartDisabled):
		h.metrics.ObserveCartOperation(op, OutcomeDisabled)
		h.sendError(w, "cart disabled", http.StatusForbidden)
		return
	case err != nil:
		h.metrics.ObserveCartOperation(op, OutcomeError)
		h.logger.ErrorContext(ctx, "failed to change cart line",
			slog.String("user_id", userID),
			slog.String("item_id", req.ItemID),
			slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveCartOperation(op, OutcomeOK)
	h.logger.DebugContext(ctx, "cart line changed",
		slog.String("op", op),
		slog.String("user_id", userID),
		slog.String("item_id", req.ItemID),
		slog.Int("quantity", res.Quantity))

	h.sendJSON(w, api.MutationResponse{Quantity: &res.Quantity, NewStock: res.Stock}, http.StatusOK)
}

// GetEnabled обрабатывает GET /api/v1/cart/{user_id}/enabled
func (h *CartHandler) GetEnabled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.owner(w, r, false)
	if !ok {
		return
	}

	enabled, err := h.carts.CartEnabled(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get cart flag", slog.String("user_id", userID), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.EnabledResponse{Enabled: enabled}, http.StatusOK)
}

// Enable обрабатывает POST /api/v1/cart/{user_id}/enable (только admin)
func (h *CartHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, true)
}

// Disable обрабатывает POST /api/v1/cart/{user_id}/disable (только admin)
func (h *CartHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, false)
}

func (h *CartHandler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	ctx := r.Context()
	userID := r.PathValue("user_id")

	err := h.carts.SetCartEnabled(ctx, userID, enabled)
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		h.metrics.ObserveCartOperation(OperationSetEnabled, OutcomeNotFound)
		h.sendError(w, "user not found", http.StatusNotFound)
		return
	case err != nil:
		h.metrics.ObserveCartOperation(OperationSetEnabled, OutcomeError)
		h.logger.ErrorContext(ctx, "failed to set cart flag", slog.String("user_id", userID), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveCartOperation(OperationSetEnabled, OutcomeOK)
	adminID, _ := GetUserID(ctx)
	h.logger.InfoContext(ctx, "cart flag changed",
		slog.String("user_id", userID),
		slog.String("admin_id", adminID),
		slog.Bool("enabled", enabled))

	w.WriteHeader(http.StatusNoContent)
}

// Checkout обрабатывает POST /api/v1/cart/{user_id}/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.owner(w, r, true)
	if !ok {
		return
	}

	order, err := h.carts.Checkout(ctx, userID, uuid.New().String())
	switch {
	case errors.Is(err, storage.ErrCartEmpty):
		h.metrics.ObserveCartOperation(OperationCheckout, OutcomeEmpty)
		h.sendError(w, "cart is empty", http.StatusBadRequest)
		return
	case errors.Is(err, storage.ErrInsufficientStock):
		h.metrics.ObserveCartOperation(OperationCheckout, OutcomeConflict)
		h.sendError(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, storage.ErrCartDisabled):
		h.metrics.ObserveCartOperation(OperationCheckout, OutcomeDisabled)
		h.sendError(w, "cart disabled", http.StatusForbidden)
		return
	case err != nil:
		h.metrics.ObserveCartOperation(OperationCheckout, OutcomeError)
		h.logger.ErrorContext(ctx, "checkout failed", slog.String("user_id", userID), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveCartOperation(OperationCheckout, OutcomeOK)
	h.logger.InfoContext(ctx, "order placed",
		slog.String("user_id", userID),
		slog.String("order_id", order.ID),
		slog.Int("items", order.Items))

	h.sendJSON(w, api.CheckoutResponse{
		OrderID: order.ID,
		Total:   order.Total.StringFixed(2),
		Items:   order.Items,
	}, http.StatusOK)
}
