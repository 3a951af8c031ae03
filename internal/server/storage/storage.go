package storage

import (
	"context"
	"time"

	"github.com/iudanet/cartkeeper/internal/models"
)

// UserStorage defines interface for user persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if username is taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error
}

// TokenStorage хранит отозванные access token (logout)
type TokenStorage interface {
	// RevokeToken marks token id as revoked until expiresAt
	RevokeToken(ctx context.Context, tokenID, userID string, expiresAt time.Time) error

	// IsRevoked reports whether token id was revoked
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// DeleteExpiredRevocations removes revocations of tokens that expired anyway
	// Returns number of deleted rows
	DeleteExpiredRevocations(ctx context.Context) (int, error)
}

// ItemStorage каталог и складские остатки
type ItemStorage interface {
	// GetItem returns ErrItemNotFound if item doesn't exist
	GetItem(ctx context.Context, itemID string) (*models.Item, error)

	// UpsertItem creates or replaces a catalog item
	UpsertItem(ctx context.Context, item *models.Item) error
}

// LineChange изменение количества позиции в корзине
type LineChange struct {
	UserID         string
	ItemID         string
	IdempotencyKey string // повтор с тем же ключом возвращает сохраненный результат
	Delta          int    // > 0 добавить, < 0 убрать
}

// LineResult состояние позиции после изменения
type LineResult struct {
	Quantity int // количество в корзине, 0 если строки больше нет
	Stock    int // текущий остаток товара
}

// CartStorage корзины покупателей
type CartStorage interface {
	// GetCart returns lines in insertion order joined with catalog data.
	// CachedStock of every line is the current item stock.
	GetCart(ctx context.Context, userID string) ([]models.CartLine, error)

	// ApplyLineChange adds or removes units of an item. Stock is not reserved.
	// Adding beyond stock returns ErrInsufficientStock together with a result
	// carrying the current stock. Removing an absent line is a no-op.
	// Returns ErrCartDisabled when the cart is switched off.
	ApplyLineChange(ctx context.Context, change LineChange) (*LineResult, error)

	// CartEnabled reports the cart flag; carts are enabled by default
	CartEnabled(ctx context.Context, userID string) (bool, error)

	// SetCartEnabled switches the cart of a user
	// Returns ErrUserNotFound if user doesn't exist
	SetCartEnabled(ctx context.Context, userID string, enabled bool) error

	// Checkout atomically decrements stock for every line, stores the order
	// and empties the cart. Returns ErrCartEmpty, ErrCartDisabled or
	// ErrInsufficientStock (nothing is changed in that case).
	Checkout(ctx context.Context, userID, orderID string) (*models.Order, error)
}
