package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shareit-backend/internal/availability"
	"shareit-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	ListItems(ctx context.Context) ([]Record, error)
	FindByID(ctx context.Context, id int64) (Record, error)
	Update(ctx context.Context, id int64, patch Patch) (Record, error)
	SeedItems(ctx context.Context, items []model.Item) (int64, error)
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ListItems returns every item ordered by id.
func (s *gormStore) ListItems(ctx context.Context) ([]Record, error) {
	var rows []model.Item
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	records := make([]Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, decode(r))
	}
	return records, nil
}

// FindByID returns the item with the given id, or ErrNotFound.
func (s *gormStore) FindByID(ctx context.Context, id int64) (Record, error) {
	var row model.Item
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load item %d: %w", id, err)
	}
	return decode(row), nil
}

// Update writes the patch and returns the stored result. The availability is
// always written in its string form and the legacy boolean column is cleared,
// so a row never carries two disagreeing representations after an update.
func (s *gormStore) Update(ctx context.Context, id int64, patch Patch) (Record, error) {
	if !patch.Availability.Valid() {
		return Record{}, fmt.Errorf("invalid availability %q", patch.Availability)
	}
	enc := availability.Encode(patch.Availability)

	var updated model.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.Item{}).Where("id = ?", id)
		if patch.ExpectedVersion > 0 {
			q = q.Where("version = ?", patch.ExpectedVersion)
		}
		res := q.Updates(map[string]any{
			"availability": *enc.Availability,
			"available":    nil,
			"version":      gorm.Expr("version + 1"),
		})
		if res.Error != nil {
			return fmt.Errorf("failed to update item %d: %w", id, res.Error)
		}

		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Item{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check item %d: %w", id, err)
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrStale
		}

		if err := tx.First(&updated, id).Error; err != nil {
			return fmt.Errorf("failed to reload item %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	return decode(updated), nil
}

// SeedItems inserts the given items, leaving existing ids untouched.
// It returns the number of rows actually inserted.
func (s *gormStore) SeedItems(ctx context.Context, items []model.Item) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	for i := range items {
		if items[i].Version <= 0 {
			items[i].Version = 1
		}
	}

	log.Printf("Seeding %d items...", len(items))
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&items)
	if res.Error != nil {
		return 0, fmt.Errorf("seed items failed: %w", res.Error)
	}
	return res.RowsAffected, nil
}
