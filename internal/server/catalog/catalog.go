// Package catalog загружает начальный каталог товаров из YAML.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/internal/server/storage"
	"github.com/iudanet/cartkeeper/internal/validation"
)

// ErrInvalidCatalog файл каталога содержит некорректную позицию
var ErrInvalidCatalog = errors.New("invalid catalog")

// file формат файла:
//
//	items:
//	  - id: sku-1
//	    title: Mug
//	    price: "12.50"
//	    stock: 10
type file struct {
	Items []entry `yaml:"items"`
}

type entry struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	ImageRef string `yaml:"image_ref"`
	Price    string `yaml:"price"`
	Stock    int    `yaml:"stock"`
}

// Parse разбирает YAML каталога. Цена задается строкой, чтобы не терять точность.
func Parse(data []byte) ([]models.Item, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Items))
	items := make([]models.Item, 0, len(f.Items))
	for i, e := range f.Items {
		if err := validation.ValidateItemID(e.ID); err != nil {
			return nil, fmt.Errorf("%w: item #%d: %w", ErrInvalidCatalog, i+1, err)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidCatalog, e.ID)
		}
		seen[e.ID] = true

		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: item %q: bad price %q", ErrInvalidCatalog, e.ID, e.Price)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("%w: item %q: negative price", ErrInvalidCatalog, e.ID)
		}
		if e.Stock < 0 {
			return nil, fmt.Errorf("%w: item %q: negative stock", ErrInvalidCatalog, e.ID)
		}

		items = append(items, models.Item{
			ID:        e.ID,
			Title:     e.Title,
			ImageRef:  e.ImageRef,
			UnitPrice: price,
			Stock:     e.Stock,
		})
	}
	return items, nil
}

// Load читает и разбирает файл каталога
func Load(path string) ([]models.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Seed записывает позиции в хранилище (insert or update)
func Seed(ctx context.Context, items storage.ItemStorage, list []models.Item) error {
	for i := range list {
		if err := items.UpsertItem(ctx, &list[i]); err != nil {
			return fmt.Errorf("failed to seed item %q: %w", list[i].ID, err)
		}
	}
	return nil
}
