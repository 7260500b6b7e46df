package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shareit-backend/internal/model"
)

// GormKV stores a single namespaced blob in the kv_entries table.
type GormKV struct {
	db  *gorm.DB
	key string
}

// NewGormKV returns a KV bound to key.
func NewGormKV(db *gorm.DB, key string) *GormKV {
	return &GormKV{db: db, key: key}
}

// Get returns the stored blob, or nil if nothing was stored yet.
func (k *GormKV) Get(ctx context.Context) ([]byte, error) {
	var entry model.KVEntry
	err := k.db.WithContext(ctx).First(&entry, "namespace = ?", k.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", k.key, err)
	}
	return entry.Value, nil
}

// Set replaces the stored blob.
func (k *GormKV) Set(ctx context.Context, value []byte) error {
	entry := model.KVEntry{Namespace: k.key, Value: value}
	err := k.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", k.key, err)
	}
	return nil
}
