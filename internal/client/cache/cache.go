// Package cache keeps a durable per-identity copy of the cart used as a
// placeholder until the first remote sync completes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/cartkeeper/internal/client/storage"
	"github.com/iudanet/cartkeeper/internal/crypto"
	"github.com/iudanet/cartkeeper/internal/models"
)

const (
	keyPrefix      = "cart"
	snapshotSuffix = "snapshot"
	flagSuffix     = "enabled"

	recordVersion = 1
)

// derivedSuffixes все ключи, которые кэш создает для одной identity
var derivedSuffixes = []string{snapshotSuffix, flagSuffix}

type snapshotRecord struct {
	Snapshot models.CartSnapshot `json:"snapshot"`
	Version  int                 `json:"version"`
}

type flagRecord struct {
	Flag    string `json:"flag"`
	Version int    `json:"version"`
}

// Cache LocalCartCache поверх KVStore
type Cache struct {
	kv storage.KVStore
}

// New creates a cache over kv.
func New(kv storage.KVStore) *Cache {
	return &Cache{kv: kv}
}

// Key returns the storage key for identityID and suffix.
func Key(identityID, suffix string) string {
	return strings.Join([]string{keyPrefix, crypto.NamespaceKey(identityID), suffix}, ":")
}

// Save перезаписывает снапшот identity
func (c *Cache) Save(ctx context.Context, identityID string, snap models.CartSnapshot) error {
	if identityID == "" {
		return errors.New("identity id is empty")
	}

	data, err := json.Marshal(snapshotRecord{Version: recordVersion, Snapshot: snap})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.kv.Set(ctx, Key(identityID, snapshotSuffix), data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load возвращает сохраненный снапшот; ok=false если его нет.
// Флаги pending сбрасываются: мутации прошлой сессии уже не завершатся.
func (c *Cache) Load(ctx context.Context, identityID string) (snap models.CartSnapshot, ok bool, err error) {
	data, err := c.kv.Get(ctx, Key(identityID, snapshotSuffix))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return models.CartSnapshot{}, false, nil
	}
	if err != nil {
		return models.CartSnapshot{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var rec snapshotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.CartSnapshot{}, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if rec.Version != recordVersion {
		return models.CartSnapshot{}, false, nil
	}

	lines := rec.Snapshot.OrderedLines()
	for i := range lines {
		lines[i].Pending = false
	}
	return models.SnapshotFromLines(rec.Snapshot.Enabled, lines), true, nil
}

// SaveFlag сохраняет последний известный флаг доступности корзины
func (c *Cache) SaveFlag(ctx context.Context, identityID string, flag models.CartFlag) error {
	data, err := json.Marshal(flagRecord{Version: recordVersion, Flag: flag.String()})
	if err != nil {
		return fmt.Errorf("failed to marshal flag: %w", err)
	}
	if err := c.kv.Set(ctx, Key(identityID, flagSuffix), data); err != nil {
		return fmt.Errorf("failed to save flag: %w", err)
	}
	return nil
}

// LoadFlag returns the persisted flag, FlagUnknown if there is none.
func (c *Cache) LoadFlag(ctx context.Context, identityID string) (models.CartFlag, error) {
	data, err := c.kv.Get(ctx, Key(identityID, flagSuffix))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return models.FlagUnknown, nil
	}
	if err != nil {
		return models.FlagUnknown, fmt.Errorf("failed to load flag: %w", err)
	}

	var rec flagRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.FlagUnknown, fmt.Errorf("failed to unmarshal flag: %w", err)
	}
	switch rec.Flag {
	case models.FlagEnabled.String():
		return models.FlagEnabled, nil
	case models.FlagDisabled.String():
		return models.FlagDisabled, nil
	default:
		return models.FlagUnknown, nil
	}
}

// Clear удаляет все ключи identity (вызывается при logout)
func (c *Cache) Clear(ctx context.Context, identityID string) error {
	var errs []error
	for _, suffix := range derivedSuffixes {
		if err := c.kv.Delete(ctx, Key(identityID, suffix)); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", suffix, err))
		}
	}
	return errors.Join(errs...)
}
