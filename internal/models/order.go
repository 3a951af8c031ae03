package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order оформленный заказ (reference-сервер)
type Order struct {
	CreatedAt time.Time       `json:"created_at"`
	Total     decimal.Decimal `json:"total"`
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Lines     []CartLine      `json:"lines"`
	Items     int             `json:"items"` // сумма количеств по строкам
}
