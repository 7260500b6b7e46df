package importer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"shareit-backend/internal/availability"
	"shareit-backend/internal/model"
	"shareit-backend/internal/parse"
)

// FeedItem models one record of an upstream catalog feed. The id may be a
// JSON number or a numeric string, and availability comes in either of the
// two legacy shapes.
type FeedItem struct {
	ID           json.RawMessage `json:"id"`
	Name         string          `json:"name"`
	Availability json.RawMessage `json:"availability"`
	Available    json.RawMessage `json:"available"`
	ThumbnailURL string          `json:"thumbnailUrl"`
}

// toModel converts a feed record into a database row.
func (f FeedItem) toModel() (model.Item, error) {
	rawID := string(bytes.Trim(bytes.TrimSpace(f.ID), `"`))
	id, err := parse.ItemID(rawID)
	if err != nil {
		return model.Item{}, fmt.Errorf("feed item %q: %w", f.Name, err)
	}

	raw := availability.FromJSON(f.Availability, f.Available)
	return model.Item{
		ID:           id,
		Name:         f.Name,
		Availability: raw.Availability,
		Available:    raw.Available,
		ThumbnailURL: f.ThumbnailURL,
	}, nil
}
