// Package client keeps a local copy of the item list and applies borrow and
// return actions to it optimistically.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"shareit-backend/internal/availability"
	"shareit-backend/internal/catalog"
	"shareit-backend/internal/parse"
)

// Item is the client-facing shape of an item as served by the API.
type Item = catalog.ItemView

// Phase tells an OnChange hook which step of an action it is seeing.
type Phase string

const (
	PhaseLoaded     Phase = "loaded"
	PhaseTentative  Phase = "tentative"
	PhaseReconciled Phase = "reconciled"
	PhaseRolledBack Phase = "rolled_back"
)

// ChangeFunc observes local state changes. It runs without the controller's
// lock held.
type ChangeFunc func(phase Phase, item catalog.ItemView)

// Controller owns the local item list.
type Controller struct {
	baseURL    string
	httpClient *http.Client
	onChange   ChangeFunc

	mu       sync.Mutex
	items    []catalog.ItemView
	inFlight map[string]bool
	lastErr  string
}

// Option configures a Controller.
type Option func(*Controller)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(ctl *Controller) { ctl.httpClient = c }
}

// WithOnChange registers a hook for local state changes.
func WithOnChange(fn ChangeFunc) Option {
	return func(ctl *Controller) { ctl.onChange = fn }
}

// New creates a controller talking to the server at baseURL.
func New(baseURL string, opts ...Option) *Controller {
	c := &Controller{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		inFlight:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the local list with the server's.
func (c *Controller) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/items", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to load items: HTTP %d", resp.StatusCode)
	}
	var items []catalog.ItemView
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return fmt.Errorf("failed to decode items: %w", err)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	for _, item := range items {
		c.notify(PhaseLoaded, item)
	}
	return nil
}

// Items returns a copy of the local list.
func (c *Controller) Items() []catalog.ItemView {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]catalog.ItemView, len(c.items))
	copy(out, c.items)
	return out
}

// Find returns the local copy of an item.
func (c *Controller) Find(id string) (catalog.ItemView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return catalog.ItemView{}, false
	}
	return c.items[i], true
}

// LastError is the message of the most recent failed action, or "" once a
// later action succeeded.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Borrow performs ActionBorrow on id.
func (c *Controller) Borrow(ctx context.Context, id string) (catalog.ItemView, error) {
	return c.Perform(ctx, id, parse.ActionBorrow)
}

// Return performs ActionReturn on id.
func (c *Controller) Return(ctx context.Context, id string) (catalog.ItemView, error) {
	return c.Perform(ctx, id, parse.ActionReturn)
}

// Perform shows the expected result of action locally, sends the request and
// then either adopts the server's item or restores the previous local copy.
// When Perform returns, the local item is never in the tentative state.
func (c *Controller) Perform(ctx context.Context, id string, action parse.Action) (catalog.ItemView, error) {
	expected, err := expectedState(action)
	if err != nil {
		return catalog.ItemView{}, err
	}

	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return catalog.ItemView{}, ErrUnknownItem
	}
	if c.inFlight[id] {
		c.mu.Unlock()
		return catalog.ItemView{}, ErrPending
	}
	snapshot := c.items[i]
	tentative := snapshot
	tentative.Availability = expected
	c.items[i] = tentative
	c.inFlight[id] = true
	c.mu.Unlock()
	c.notify(PhaseTentative, tentative)

	item, actionErr := c.send(ctx, id, action)
	if actionErr != nil {
		c.settle(id, snapshot, actionErr.Message)
		c.notify(PhaseRolledBack, snapshot)
		return snapshot, actionErr
	}

	c.settle(id, item, "")
	c.notify(PhaseReconciled, item)
	return item, nil
}

func (c *Controller) settle(id string, item catalog.ItemView, errMessage string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.items[i] = item
	}
	delete(c.inFlight, id)
	c.lastErr = errMessage
}

// send returns a non-nil *ActionError on any failure.
func (c *Controller) send(ctx context.Context, id string, action parse.Action) (catalog.ItemView, *ActionError) {
	endpoint := fmt.Sprintf("%s/api/items/%s/%s", c.baseURL, url.PathEscape(id), action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return catalog.ItemView{}, &ActionError{Message: "Action failed", Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return catalog.ItemView{}, &ActionError{Message: "Action failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return catalog.ItemView{}, &ActionError{Status: resp.StatusCode, Message: "Action failed", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return catalog.ItemView{}, &ActionError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}

	var item catalog.ItemView
	if err := json.Unmarshal(body, &item); err != nil {
		return catalog.ItemView{}, &ActionError{Status: resp.StatusCode, Message: "Action failed", Err: err}
	}
	return catalog.FormatView(item), nil
}

func (c *Controller) notify(phase Phase, item catalog.ItemView) {
	if c.onChange != nil {
		c.onChange(phase, item)
	}
}

func (c *Controller) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func expectedState(action parse.Action) (availability.State, error) {
	switch action {
	case parse.ActionBorrow:
		return availability.Borrowed, nil
	case parse.ActionReturn:
		return availability.Available, nil
	}
	return "", fmt.Errorf("unknown action %q", action)
}

// errorMessage prefers the server's "error" member, then "message".
func errorMessage(status int, body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}
