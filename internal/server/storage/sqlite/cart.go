package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/internal/server/storage"
)

// GetCart returns cart lines in insertion order
func (s *Storage) GetCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	return cartLines(ctx, s.db, userID)
}

// ApplyLineChange adds or removes units of an item in one transaction
func (s *Storage) ApplyLineChange(ctx context.Context, change storage.LineChange) (*storage.LineResult, error) {
	if change.Delta == 0 {
		return nil, fmt.Errorf("zero quantity change")
	}

	var (
		result   *storage.LineResult
		stockErr error
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if change.IdempotencyKey != "" {
			replayed, err := replayMutation(ctx, tx, change)
			if err != nil {
				return err
			}
			if replayed != nil {
				result = replayed
				return nil
			}
		}

		if err := requireEnabled(ctx, tx, change.UserID); err != nil {
			return err
		}

		var stock int
		err := tx.QueryRowContext(ctx, `SELECT stock FROM items WHERE id = ?`, change.ItemID).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrItemNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get stock: %w", err)
		}

		var current int
		err = tx.QueryRowContext(ctx,
			`SELECT quantity FROM cart_lines WHERE user_id = ? AND item_id = ?`,
			change.UserID, change.ItemID,
		).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to get cart line: %w", err)
		}

		next := current + change.Delta
		// остаток резервируется только при оформлении заказа
		if change.Delta > 0 && next > stock {
			result = &storage.LineResult{Quantity: current, Stock: stock}
			stockErr = storage.ErrInsufficientStock
			return nil
		}

		switch {
		case next <= 0:
			next = 0
			_, err = tx.ExecContext(ctx,
				`DELETE FROM cart_lines WHERE user_id = ? AND item_id = ?`,
				change.UserID, change.ItemID)
		case current == 0:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO cart_lines (user_id, item_id, quantity) VALUES (?, ?, ?)`,
				change.UserID, change.ItemID, next)
		default:
			_, err = tx.ExecContext(ctx,
				`UPDATE cart_lines SET quantity = ? WHERE user_id = ? AND item_id = ?`,
				next, change.UserID, change.ItemID)
		}
		if err != nil {
			return fmt.Errorf("failed to update cart line: %w", err)
		}

		result = &storage.LineResult{Quantity: next, Stock: stock}

		if change.IdempotencyKey != "" {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO mutation_keys (key, user_id, quantity, stock, created_at) VALUES (?, ?, ?, ?, ?)`,
				change.IdempotencyKey, change.UserID, result.Quantity, result.Stock, time.Now())
			if err != nil {
				return fmt.Errorf("failed to save idempotency key: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, stockErr
}

// CartEnabled reports the cart flag of a user
func (s *Storage) CartEnabled(ctx context.Context, userID string) (bool, error) {
	return cartEnabled(ctx, s.db, userID)
}

// SetCartEnabled switches the cart of a user
func (s *Storage) SetCartEnabled(ctx context.Context, userID string, enabled bool) error {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}

	query := `
		INSERT INTO cart_settings (user_id, enabled) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET enabled = excluded.enabled
	`
	if _, err := s.db.ExecContext(ctx, query, userID, enabled); err != nil {
		return fmt.Errorf("failed to set cart flag: %w", err)
	}

	return nil
}

// Checkout turns the cart into an order
func (s *Storage) Checkout(ctx context.Context, userID, orderID string) (*models.Order, error) {
	var order *models.Order

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireEnabled(ctx, tx, userID); err != nil {
			return err
		}

		lines, err := cartLines(ctx, tx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return storage.ErrCartEmpty
		}

		order = &models.Order{
			ID:        orderID,
			UserID:    userID,
			Lines:     lines,
			Total:     decimal.Zero,
			CreatedAt: time.Now(),
		}

		for _, line := range lines {
			if line.Quantity > line.CachedStock {
				return fmt.Errorf("%w: %s", storage.ErrInsufficientStock, line.ItemID)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE items SET stock = stock - ? WHERE id = ?`,
				line.Quantity, line.ItemID,
			); err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
			order.Items += line.Quantity
			order.Total = order.Total.Add(line.Subtotal())
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO orders (id, user_id, total, items, created_at) VALUES (?, ?, ?, ?, ?)`,
			order.ID, order.UserID, order.Total.String(), order.Items, order.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for _, line := range lines {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO order_lines (order_id, item_id, quantity, price) VALUES (?, ?, ?, ?)`,
				order.ID, line.ItemID, line.Quantity, line.UnitPrice.String(),
			); err != nil {
				return fmt.Errorf("failed to insert order line: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func cartLines(ctx context.Context, q queryer, userID string) ([]models.CartLine, error) {
	query := `
		SELECT i.id, i.title, i.image_ref, i.price, i.stock, c.quantity
		FROM cart_lines c
		JOIN items i ON i.id = c.item_id
		WHERE c.user_id = ?
		ORDER BY c.rowid
	`

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	lines := []models.CartLine{}
	for rows.Next() {
		var (
			line  models.CartLine
			price string
		)
		if err := rows.Scan(&line.ItemID, &line.Title, &line.ImageRef, &price, &line.CachedStock, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		if line.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid price of item %s: %w", line.ItemID, err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart: %w", err)
	}

	return lines, nil
}

func cartEnabled(ctx context.Context, q queryer, userID string) (bool, error) {
	var enabled bool
	err := q.QueryRowContext(ctx, `SELECT enabled FROM cart_settings WHERE user_id = ?`, userID).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cart flag: %w", err)
	}
	return enabled, nil
}

func requireEnabled(ctx context.Context, q queryer, userID string) error {
	enabled, err := cartEnabled(ctx, q, userID)
	if err != nil {
		return err
	}
	if !enabled {
		return storage.ErrCartDisabled
	}
	return nil
}

// replayMutation возвращает сохраненный результат мутации с тем же ключом
func replayMutation(ctx context.Context, q queryer, change storage.LineChange) (*storage.LineResult, error) {
	res := &storage.LineResult{}
	err := q.QueryRowContext(ctx,
		`SELECT quantity, stock FROM mutation_keys WHERE key = ? AND user_id = ?`,
		change.IdempotencyKey, change.UserID,
	).Scan(&res.Quantity, &res.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	return res, nil
}
