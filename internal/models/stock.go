package models

import "github.com/shopspring/decimal"

// StockEvent новое значение остатка товара.
// Не сохраняется; доверять стоит только последнему событию по товару.
type StockEvent struct {
	ItemID   string `json:"item_id"`
	NewStock int    `json:"new_stock"`
}

// Item позиция каталога, используется для заполнения метаданных строки корзины
type Item struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	ImageRef  string          `json:"image_ref"`
	Stock     int             `json:"stock"`
}
