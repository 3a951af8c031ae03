package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/internal/server/storage"
)

// GetItem retrieves catalog item by ID
func (s *Storage) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	query := `SELECT id, title, image_ref, price, stock FROM items WHERE id = ?`

	item := &models.Item{}
	var price string

	err := s.db.QueryRowContext(ctx, query, itemID).Scan(
		&item.ID,
		&item.Title,
		&item.ImageRef,
		&price,
		&item.Stock,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	item.UnitPrice, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid price of item %s: %w", itemID, err)
	}

	return item, nil
}

// UpsertItem creates or replaces catalog item
func (s *Storage) UpsertItem(ctx context.Context, item *models.Item) error {
	if item.Stock < 0 {
		return fmt.Errorf("negative stock for item %s", item.ID)
	}

	query := `
		INSERT INTO items (id, title, image_ref, price, stock)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			image_ref = excluded.image_ref,
			price = excluded.price,
			stock = excluded.stock
	`

	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.ImageRef,
		item.UnitPrice.String(),
		item.Stock,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}

	return nil
}
