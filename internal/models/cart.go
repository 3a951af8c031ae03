package models

import (
	"slices"

	"github.com/shopspring/decimal"
)

// CartLine строка корзины
type CartLine struct {
	UnitPrice   decimal.Decimal `json:"unit_price"`   // цена за единицу
	ItemID      string          `json:"item_id"`      // идентификатор товара
	Title       string          `json:"title"`        // кэшированное название
	ImageRef    string          `json:"image_ref"`    // кэшированная ссылка на изображение
	Quantity    int             `json:"quantity"`     // количество, > 0 для строк в корзине
	CachedStock int             `json:"cached_stock"` // последний известный остаток
	Pending     bool            `json:"pending"`      // последняя мутация не подтверждена сервером
}

// Subtotal returns quantity * unit price.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSnapshot полное состояние корзины одной identity на момент времени.
// TotalPrice и TotalItems производные и пересчитываются через Recompute.
type CartSnapshot struct {
	Lines      map[string]CartLine `json:"lines"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	Order      []string            `json:"order"` // порядок добавления позиций
	TotalItems int                 `json:"total_items"`
	Enabled    bool                `json:"enabled"`
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot(enabled bool) CartSnapshot {
	s := CartSnapshot{
		Lines:   make(map[string]CartLine),
		Enabled: enabled,
	}
	s.Recompute()
	return s
}

// SnapshotFromLines builds a snapshot preserving the order of lines.
// Lines with non-positive quantity are dropped, duplicates are summed.
func SnapshotFromLines(enabled bool, lines []CartLine) CartSnapshot {
	s := NewSnapshot(enabled)
	for _, line := range lines {
		if line.Quantity <= 0 || line.ItemID == "" {
			continue
		}
		if existing, ok := s.Lines[line.ItemID]; ok {
			existing.Quantity += line.Quantity
			s.Lines[line.ItemID] = existing
			continue
		}
		s.Lines[line.ItemID] = line
		s.Order = append(s.Order, line.ItemID)
	}
	s.Recompute()
	return s
}

// Line returns the line for itemID.
func (s CartSnapshot) Line(itemID string) (CartLine, bool) {
	line, ok := s.Lines[itemID]
	return line, ok
}

// OrderedLines returns lines in insertion order.
func (s CartSnapshot) OrderedLines() []CartLine {
	out := make([]CartLine, 0, len(s.Order))
	for _, id := range s.Order {
		if line, ok := s.Lines[id]; ok {
			out = append(out, line)
		}
	}
	return out
}

// Clone создает глубокую копию снапшота
func (s CartSnapshot) Clone() CartSnapshot {
	c := CartSnapshot{
		Lines:      make(map[string]CartLine, len(s.Lines)),
		TotalPrice: s.TotalPrice,
		TotalItems: s.TotalItems,
		Enabled:    s.Enabled,
	}
	for id, line := range s.Lines {
		c.Lines[id] = line
	}
	if len(s.Order) > 0 {
		c.Order = slices.Clone(s.Order)
	}
	return c
}

// Put inserts or replaces a line. A line with quantity <= 0 is removed instead.
func (s *CartSnapshot) Put(line CartLine) {
	s.PutAt(line, len(s.Order))
}

// PutAt как Put, но новая строка вставляется в позицию index порядка.
// Позиция существующей строки не меняется.
func (s *CartSnapshot) PutAt(line CartLine, index int) {
	if s.Lines == nil {
		s.Lines = make(map[string]CartLine)
	}
	if line.Quantity <= 0 {
		s.Remove(line.ItemID)
		return
	}
	if _, ok := s.Lines[line.ItemID]; !ok {
		index = min(max(index, 0), len(s.Order))
		s.Order = slices.Insert(s.Order, index, line.ItemID)
	}
	s.Lines[line.ItemID] = line
	s.Recompute()
}

// Index returns the position of itemID in the order, -1 if absent.
func (s CartSnapshot) Index(itemID string) int {
	return slices.Index(s.Order, itemID)
}

// Remove deletes a line, keeping Order nil when the cart becomes empty.
func (s *CartSnapshot) Remove(itemID string) {
	if _, ok := s.Lines[itemID]; !ok {
		return
	}
	delete(s.Lines, itemID)
	if idx := slices.Index(s.Order, itemID); idx >= 0 {
		s.Order = slices.Delete(s.Order, idx, idx+1)
	}
	if len(s.Order) == 0 {
		s.Order = nil
	}
	s.Recompute()
}

// Recompute пересчитывает производные агрегаты из строк.
// Всегда считает с нуля в порядке Order, чтобы одинаковые строки давали одинаковый результат.
func (s *CartSnapshot) Recompute() {
	total := decimal.Zero
	items := 0
	for _, id := range s.Order {
		line, ok := s.Lines[id]
		if !ok {
			continue
		}
		items += line.Quantity
		total = total.Add(line.Subtotal())
	}
	s.TotalItems = items
	s.TotalPrice = total
}

// HasPending reports whether any line waits for server confirmation.
func (s CartSnapshot) HasPending() bool {
	for _, line := range s.Lines {
		if line.Pending {
			return true
		}
	}
	return false
}
