package lending

import (
	"context"
	"errors"
	"fmt"

	"shareit-backend/internal/availability"
	"shareit-backend/internal/catalog"
	"shareit-backend/internal/parse"
	"shareit-backend/internal/store"
)

// Repository is the part of the item store the service depends on.
type Repository interface {
	ListItems(ctx context.Context) ([]store.Record, error)
	FindByID(ctx context.Context, id int64) (store.Record, error)
	Update(ctx context.Context, id int64, patch store.Patch) (store.Record, error)
}

// Notifier is told about items that became available again.
type Notifier interface {
	Dispatch(itemID int64)
}

type transition struct {
	from     availability.State
	to       availability.State
	conflict *Error
}

var transitions = map[parse.Action]transition{
	parse.ActionBorrow: {from: availability.Available, to: availability.Borrowed, conflict: ErrAlreadyBorrowed},
	parse.ActionReturn: {from: availability.Borrowed, to: availability.Available, conflict: ErrNotBorrowed},
}

// Service enforces the borrow/return rules on top of a Repository.
type Service struct {
	repo     Repository
	notifier Notifier
	metrics  *Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier makes the service dispatch a job for every returned item.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithMetrics records transition outcomes.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a lending service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every item in client-facing form.
func (s *Service) List(ctx context.Context) ([]catalog.ItemView, error) {
	records, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.FormatAll(records), nil
}

// Borrow marks an available item as borrowed.
func (s *Service) Borrow(ctx context.Context, rawID string) (catalog.ItemView, error) {
	return s.Apply(ctx, rawID, parse.ActionBorrow)
}

// Return marks a borrowed item as available.
func (s *Service) Return(ctx context.Context, rawID string) (catalog.ItemView, error) {
	return s.Apply(ctx, rawID, parse.ActionReturn)
}

// Apply runs a transition against the item named by rawID.
//
// Failures that clients can act on are returned as *Error; anything else is
// an internal error. A successful call performs exactly one store update and
// a failed one performs none.
func (s *Service) Apply(ctx context.Context, rawID string, action parse.Action) (catalog.ItemView, error) {
	t, ok := transitions[action]
	if !ok {
		return catalog.ItemView{}, fmt.Errorf("unknown action %q", action)
	}

	id, err := parse.ItemID(rawID)
	if err != nil {
		s.metrics.observe(string(action), outcomeNotFound)
		return catalog.ItemView{}, ErrItemNotFound
	}

	current, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		s.metrics.observe(string(action), outcomeNotFound)
		return catalog.ItemView{}, ErrItemNotFound
	}
	if err != nil {
		s.metrics.observe(string(action), outcomeError)
		return catalog.ItemView{}, fmt.Errorf("%s item %d: %w", action, id, err)
	}

	if current.Availability != t.from {
		s.metrics.observe(string(action), outcomeConflict)
		return catalog.ItemView{}, t.conflict
	}

	updated, err := s.repo.Update(ctx, id, store.Patch{
		Availability:    t.to,
		ExpectedVersion: current.Version,
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.metrics.observe(string(action), outcomeNotFound)
		return catalog.ItemView{}, ErrItemNotFound
	case errors.Is(err, store.ErrStale):
		// Another request changed the item between the read and the write.
		s.metrics.observe(string(action), outcomeConflict)
		return catalog.ItemView{}, t.conflict
	case err != nil:
		s.metrics.observe(string(action), outcomeError)
		return catalog.ItemView{}, fmt.Errorf("%s item %d: %w", action, id, err)
	}

	if t.to == availability.Available && s.notifier != nil {
		s.notifier.Dispatch(id)
	}
	s.metrics.observe(string(action), outcomeOK)
	return catalog.Format(updated), nil
}
