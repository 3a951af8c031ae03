package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/cartkeeper/internal/client/storage"
)

// Get returns the value stored under key in the cart bucket
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var value []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCart)
		if bucket == nil {
			return fmt.Errorf("cart bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrKeyNotFound
		}

		// Данные валидны только внутри транзакции - копируем
		value = make([]byte, len(data))
		copy(value, data)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set stores or overwrites the value under key
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketCart)
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}

		if err := bucket.Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to save value: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// Delete removes key; absent keys are ignored
func (s *Storage) Delete(ctx context.Context, key string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCart)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})

	if err != nil {
		return fmt.Errorf("delete transaction failed: %w", err)
	}

	return nil
}
