package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"shareit-backend/config"
	"shareit-backend/internal/model"
)

// Seeder is the part of the store the importer writes to.
type Seeder interface {
	SeedItems(ctx context.Context, items []model.Item) (int64, error)
}

// Service loads the initial catalog from the config file and, when
// configured, from an upstream JSON feed.
type Service struct {
	cfg    *config.SeedConfig
	store  Seeder
	client *http.Client
}

// NewService creates and initializes a new importer service.
func NewService(cfg *config.SeedConfig, store Seeder) *Service {
	return &Service{
		cfg:   cfg,
		store: store,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SeedOnce inserts every configured item that is not stored yet. Existing
// rows are left alone, so running it on every start is safe.
func (s *Service) SeedOnce(ctx context.Context) error {
	items := make([]model.Item, 0, len(s.cfg.Items))
	for _, it := range s.cfg.Items {
		if it.ID <= 0 {
			log.Printf("Warning: skipping seed item %q without a positive id", it.Name)
			continue
		}
		items = append(items, model.Item{
			ID:           it.ID,
			Name:         it.Name,
			Availability: it.Availability,
			Available:    it.Available,
			ThumbnailURL: it.ThumbnailURL,
		})
	}

	if s.cfg.ImportURL != "" {
		feed, err := s.fetchFeed(ctx)
		if err != nil {
			return fmt.Errorf("failed to import catalog feed: %w", err)
		}
		for _, f := range feed {
			item, err := f.toModel()
			if err != nil {
				log.Printf("Warning: %v", err)
				continue
			}
			items = append(items, item)
		}
	}

	inserted, err := s.store.SeedItems(ctx, items)
	if err != nil {
		return err
	}
	log.Printf("Seed finished: %d of %d items inserted.", inserted, len(items))
	return nil
}

func (s *Service) fetchFeed(ctx context.Context) ([]FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.ImportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var feed []FeedItem
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed: %w", err)
	}
	return feed, nil
}
