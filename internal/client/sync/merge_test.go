package sync

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iudanet/cartkeeper/internal/models"
)

func TestMerge(t *testing.T) {
	price := decimal.NewFromInt(10)

	tests := []struct {
		name      string
		local     models.CartSnapshot
		server    []models.CartLine
		wantOrder []string
		wantQty   map[string]int
		wantStats MergeStats
	}{
		{
			name:      "server replaces local",
			local:     models.SnapshotFromLines(true, []models.CartLine{{ItemID: "A", Quantity: 1, UnitPrice: price}}),
			server:    []models.CartLine{{ItemID: "A", Quantity: 3, UnitPrice: price}},
			wantOrder: []string{"A"},
			wantQty:   map[string]int{"A": 3},
			wantStats: MergeStats{Updated: 1},
		},
		{
			name:      "identical line is not counted",
			local:     models.SnapshotFromLines(true, []models.CartLine{{ItemID: "A", Quantity: 1, UnitPrice: price}}),
			server:    []models.CartLine{{ItemID: "A", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")}},
			wantOrder: []string{"A"},
			wantQty:   map[string]int{"A": 1},
		},
		{
			name:      "empty server clears non pending",
			local:     models.SnapshotFromLines(true, []models.CartLine{{ItemID: "A", Quantity: 1}, {ItemID: "B", Quantity: 1, Pending: true}}),
			wantOrder: []string{"B"},
			wantQty:   map[string]int{"B": 1},
			wantStats: MergeStats{Removed: 1, KeptPending: 1},
		},
		{
			name:  "duplicates in server response are summed",
			local: models.NewSnapshot(true),
			server: []models.CartLine{
				{ItemID: "A", Quantity: 1},
				{ItemID: "A", Quantity: 2},
				{ItemID: "B", Quantity: 0},
			},
			wantOrder: []string{"A"},
			wantQty:   map[string]int{"A": 3},
			wantStats: MergeStats{Added: 1},
		},
		{
			name:  "duplicates of pending line are ignored",
			local: models.SnapshotFromLines(true, []models.CartLine{{ItemID: "A", Quantity: 4, Pending: true}}),
			server: []models.CartLine{
				{ItemID: "A", Quantity: 1},
				{ItemID: "A", Quantity: 2},
			},
			wantOrder: []string{"A"},
			wantQty:   map[string]int{"A": 4},
			wantStats: MergeStats{KeptPending: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats := Merge(tt.local, tt.server, true)

			assert.Equal(t, tt.wantStats, stats)
			assert.Equal(t, tt.wantOrder, got.Order)
			for id, qty := range tt.wantQty {
				assert.Equal(t, qty, got.Lines[id].Quantity, id)
			}
			assert.Len(t, got.Lines, len(tt.wantQty))
		})
	}
}

func TestMerge_KeepsCachedMetadata(t *testing.T) {
	local := models.SnapshotFromLines(true, []models.CartLine{
		{ItemID: "A", Quantity: 1, Title: "Kind of Blue", ImageRef: "a.jpg", UnitPrice: decimal.NewFromInt(10), CachedStock: 5},
	})

	got, _ := Merge(local, []models.CartLine{{ItemID: "A", Quantity: 2, CachedStock: 1}}, false)

	line := got.Lines["A"]
	assert.Equal(t, "Kind of Blue", line.Title)
	assert.Equal(t, "a.jpg", line.ImageRef)
	assert.Equal(t, "10", line.UnitPrice.String())
	assert.Equal(t, 1, line.CachedStock, "stock comes from the server")
	assert.Equal(t, "20", got.TotalPrice.String())
	assert.False(t, got.Enabled)
}
