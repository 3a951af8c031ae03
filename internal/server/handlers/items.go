package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/cartkeeper/internal/server/storage"
	"github.com/iudanet/cartkeeper/internal/validation"
	"github.com/iudanet/cartkeeper/pkg/api"
)

// ItemHandler отдает позиции каталога
type ItemHandler struct {
	items storage.ItemStorage
	responder
}

// NewItemHandler создает handler каталога
func NewItemHandler(logger *slog.Logger, items storage.ItemStorage) *ItemHandler {
	return &ItemHandler{
		responder: responder{logger: logger},
		items:     items,
	}
}

// GetItem обрабатывает GET /api/v1/items/{item_id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID := r.PathValue("item_id")
	if err := validation.ValidateItemID(itemID); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.items.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			h.sendError(w, "item not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get item", slog.String("item_id", itemID), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.ItemResponse{
		ID:       item.ID,
		Title:    item.Title,
		ImageRef: item.ImageRef,
		Price:    item.UnitPrice.StringFixed(2),
		Stock:    item.Stock,
	}, http.StatusOK)
}
