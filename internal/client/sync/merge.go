package sync

import "github.com/iudanet/cartkeeper/internal/models"

// MergeStats счетчики слияния
type MergeStats struct {
	Added       int
	Updated     int
	Removed     int
	KeptPending int
}

// Merge сливает подтвержденные сервером строки с локальным снапшотом.
//
// Правило: побеждает сервер, кроме строк с незавершенной локальной мутацией
// (Pending) - они сохраняются до ее завершения. Порядок строк берется из
// ответа сервера, оставшиеся pending-строки идут следом в локальном порядке.
func Merge(local models.CartSnapshot, server []models.CartLine, enabled bool) (models.CartSnapshot, MergeStats) {
	var stats MergeStats

	seen := make(map[string]struct{}, len(server))
	merged := make([]models.CartLine, 0, len(server)+len(local.Order))

	for _, line := range server {
		if line.Quantity <= 0 || line.ItemID == "" {
			continue
		}
		cur, ok := local.Lines[line.ItemID]
		if _, dup := seen[line.ItemID]; dup {
			// дубликаты суммирует SnapshotFromLines, pending-строка уже взята целиком
			if !(ok && cur.Pending) {
				merged = append(merged, line)
			}
			continue
		}
		seen[line.ItemID] = struct{}{}

		switch {
		case ok && cur.Pending:
			stats.KeptPending++
			merged = append(merged, cur)
		case ok:
			line = keepMetadata(line, cur)
			if !sameLine(line, cur) {
				stats.Updated++
			}
			merged = append(merged, line)
		default:
			stats.Added++
			merged = append(merged, line)
		}
	}

	for _, cur := range local.OrderedLines() {
		if _, ok := seen[cur.ItemID]; ok {
			continue
		}
		if cur.Pending {
			stats.KeptPending++
			merged = append(merged, cur)
			continue
		}
		stats.Removed++
	}

	return models.SnapshotFromLines(enabled, merged), stats
}

// keepMetadata дополняет серверную строку кэшированными метаданными,
// которых сервер не прислал. Количество и остаток всегда серверные.
func keepMetadata(server, local models.CartLine) models.CartLine {
	if server.Title == "" {
		server.Title = local.Title
	}
	if server.ImageRef == "" {
		server.ImageRef = local.ImageRef
	}
	if server.UnitPrice.IsZero() {
		server.UnitPrice = local.UnitPrice
	}
	return server
}

func sameLine(a, b models.CartLine) bool {
	return a.ItemID == b.ItemID &&
		a.Quantity == b.Quantity &&
		a.UnitPrice.Equal(b.UnitPrice) &&
		a.Title == b.Title &&
		a.ImageRef == b.ImageRef &&
		a.CachedStock == b.CachedStock &&
		a.Pending == b.Pending
}
