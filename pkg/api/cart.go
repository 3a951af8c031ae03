package api

// CartLine is the line shape the reference server emits.
// Clients must not rely on it: remote carts are parsed by the normalize package,
// which tolerates other envelopes and key spellings.
type CartLine struct {
	ItemID   string `json:"itemId"`
	Title    string `json:"title,omitempty"`
	ImageRef string `json:"imageRef,omitempty"`
	Price    string `json:"price"`
	Quantity int    `json:"qty"`
	Stock    int    `json:"stock"`
}

// CartResponse представляет ответ GET /api/v1/cart/{user_id}
type CartResponse struct {
	Enabled *bool      `json:"enabled,omitempty"`
	Lines   []CartLine `json:"lines"`
}

// LineRequest представляет запрос на добавление/удаление позиции
type LineRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"qty"`
}

// MutationResponse представляет ответ на add/remove.
// Quantity - количество позиции в корзине после операции (по данным сервера).
type MutationResponse struct {
	Quantity *int `json:"quantity,omitempty"`
	NewStock int  `json:"newStock"`
}

// EnabledResponse представляет ответ GET /api/v1/cart/{user_id}/enabled
type EnabledResponse struct {
	Enabled bool `json:"enabled"`
}

// ItemResponse представляет позицию каталога/склада
type ItemResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageRef string `json:"imageRef,omitempty"`
	Price    string `json:"price"`
	Stock    int    `json:"stock"`
}

// CheckoutResponse представляет ответ на оформление заказа
type CheckoutResponse struct {
	OrderID string `json:"order_id"`
	Total   string `json:"total"`
	Items   int    `json:"items"`
}

// IdempotencyKeyHeader заголовок с уникальным ключом мутации
const IdempotencyKeyHeader = "Idempotency-Key"
