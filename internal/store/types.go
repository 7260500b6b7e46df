package store

import (
	"errors"

	"shareit-backend/internal/availability"
	"shareit-backend/internal/model"
)

var (
	// ErrNotFound is returned when no item has the requested id.
	ErrNotFound = errors.New("item not found")
	// ErrStale is returned when a conditional update lost against another writer.
	ErrStale = errors.New("item was modified concurrently")
)

// Record is an item with its availability already decoded. Nothing above
// the store looks at the raw availability columns.
type Record struct {
	ID           int64
	Name         string
	Availability availability.State
	ThumbnailURL string
	Version      int64
}

// Patch is a partial update of an item.
type Patch struct {
	Availability availability.State
	// ExpectedVersion makes the update conditional on the stored version.
	// Zero applies the update unconditionally.
	ExpectedVersion int64
}

// decode converts a database row into a Record.
func decode(m model.Item) Record {
	return Record{
		ID:   m.ID,
		Name: m.Name,
		Availability: availability.Normalize(availability.Raw{
			Availability: m.Availability,
			Available:    m.Available,
		}),
		ThumbnailURL: m.ThumbnailURL,
		Version:      m.Version,
	}
}
