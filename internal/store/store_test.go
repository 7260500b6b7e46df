package store

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shareit-backend/config"
	"shareit-backend/internal/availability"
	"shareit-backend/internal/db"
	"shareit-backend/internal/model"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return gormDB
}

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func seed(t *testing.T, s Store) {
	t.Helper()
	n, err := s.SeedItems(context.Background(), []model.Item{
		{ID: 1, Name: "Cordless Drill", Availability: strPtr("available")},
		{ID: 2, Name: "Ladder", Availability: strPtr("borrowed")},
		{ID: 3, Name: "Camping Stove", Available: boolPtr(true)},
		{ID: 4, Name: "Tent", Available: boolPtr(false)},
		{ID: 5, Name: "Kayak"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
}

func TestGormStore_DecodesStoredShapes(t *testing.T) {
	s := NewGormStore(newSQLiteDB(t))
	seed(t, s)

	records, err := s.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)

	got := make(map[int64]availability.State, len(records))
	for _, r := range records {
		got[r.ID] = r.Availability
		assert.Equal(t, int64(1), r.Version)
	}
	assert.Equal(t, map[int64]availability.State{
		1: availability.Available,
		2: availability.Borrowed,
		3: availability.Available,
		4: availability.Borrowed,
		5: availability.Available,
	}, got)
}

func TestGormStore_SeedIsIdempotent(t *testing.T) {
	s := NewGormStore(newSQLiteDB(t))
	seed(t, s)

	n, err := s.SeedItems(context.Background(), []model.Item{
		{ID: 2, Name: "Renamed Ladder", Availability: strPtr("available")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	r, err := s.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Ladder", r.Name)
	assert.Equal(t, availability.Borrowed, r.Availability)
}

func TestGormStore_FindByID(t *testing.T) {
	s := NewGormStore(newSQLiteDB(t))
	seed(t, s)

	r, err := s.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Record{ID: 1, Name: "Cordless Drill", Availability: availability.Available, Version: 1}, r)

	_, err = s.FindByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_Update(t *testing.T) {
	ctx := context.Background()
	gormDB := newSQLiteDB(t)
	s := NewGormStore(gormDB)
	seed(t, s)

	t.Run("rewrites legacy boolean column", func(t *testing.T) {
		r, err := s.Update(ctx, 4, Patch{Availability: availability.Available, ExpectedVersion: 1})
		require.NoError(t, err)
		assert.Equal(t, availability.Available, r.Availability)
		assert.Equal(t, int64(2), r.Version)

		var row model.Item
		require.NoError(t, gormDB.First(&row, 4).Error)
		assert.Nil(t, row.Available)
		require.NotNil(t, row.Availability)
		assert.Equal(t, "available", *row.Availability)
	})

	t.Run("stale version", func(t *testing.T) {
		_, err := s.Update(ctx, 1, Patch{Availability: availability.Borrowed, ExpectedVersion: 7})
		assert.ErrorIs(t, err, ErrStale)

		r, err := s.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, availability.Available, r.Availability)
		assert.Equal(t, int64(1), r.Version)
	})

	t.Run("unconditional", func(t *testing.T) {
		r, err := s.Update(ctx, 1, Patch{Availability: availability.Borrowed})
		require.NoError(t, err)
		assert.Equal(t, availability.Borrowed, r.Availability)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Update(ctx, 9999, Patch{Availability: availability.Borrowed})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid state", func(t *testing.T) {
		_, err := s.Update(ctx, 1, Patch{Availability: "lost"})
		assert.Error(t, err)
	})
}

func TestGormStore_UpdateLostRace(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "items" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "items" WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := s.Update(context.Background(), 1, Patch{Availability: availability.Borrowed, ExpectedVersion: 3})
	assert.ErrorIs(t, err, ErrStale)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormKV(t *testing.T) {
	ctx := context.Background()
	kv := NewGormKV(newSQLiteDB(t), "todos")

	v, err := kv.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, kv.Set(ctx, []byte(`[1]`)))
	require.NoError(t, kv.Set(ctx, []byte(`[1,2]`)))

	v, err = kv.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(v))
}
