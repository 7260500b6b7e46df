package todo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("todo not found")
	ErrEmptyText = errors.New("todo text is empty")
)

// Todo is a single entry. PendingDelete is set while the entry waits out
// its undo window.
type Todo struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	PendingDelete *time.Time `json:"pendingDelete,omitempty"`
}

// Completed reports whether the entry is checked off.
func (t Todo) Completed() bool { return t.CompletedAt != nil }

// List is a to-do list kept in a Storage. Every mutation reads the stored
// list, changes it and writes it back while holding the list's lock.
type List struct {
	storage Storage
	undo    time.Duration
	now     func() time.Time

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewList returns a List whose deletions become permanent after undo.
func NewList(storage Storage, undo time.Duration) *List {
	return &List{
		storage: storage,
		undo:    undo,
		now:     func() time.Time { return time.Now().UTC() },
		timers:  make(map[string]*time.Timer),
	}
}

// Sweep clears pending-deletion markers left behind by a previous process,
// whose timers died with it. Running it twice has no further effect.
func (l *List) Sweep(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	todos, err := l.load(ctx)
	if err != nil {
		return err
	}
	cleared := 0
	for i := range todos {
		if todos[i].PendingDelete != nil {
			todos[i].PendingDelete = nil
			cleared++
		}
	}
	if cleared == 0 {
		return nil
	}
	log.Printf("Cleared %d stale pending deletions", cleared)
	return l.save(ctx, todos)
}

// All returns the list, newest first.
func (l *List) All(ctx context.Context) ([]Todo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// Add prepends a new entry.
func (l *List) Add(ctx context.Context, text string) (Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Todo{}, ErrEmptyText
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	todos, err := l.load(ctx)
	if err != nil {
		return Todo{}, err
	}
	t := Todo{ID: uuid.NewString(), Text: text, CreatedAt: l.now()}
	todos = append([]Todo{t}, todos...)
	return t, l.save(ctx, todos)
}

// Toggle flips the completion state of an entry.
func (l *List) Toggle(ctx context.Context, id string) (Todo, error) {
	return l.mutate(ctx, id, func(t *Todo) {
		if t.CompletedAt != nil {
			t.CompletedAt = nil
			return
		}
		now := l.now()
		t.CompletedAt = &now
	})
}

// MarkForDeletion flags an entry and schedules its removal once the undo
// window has passed. Marking an already pending entry restarts the window.
func (l *List) MarkForDeletion(ctx context.Context, id string) (Todo, error) {
	t, err := l.mutate(ctx, id, func(t *Todo) {
		now := l.now()
		t.PendingDelete = &now
	})
	if err != nil {
		return Todo{}, err
	}

	l.mu.Lock()
	if old, ok := l.timers[id]; ok {
		old.Stop()
	}
	l.timers[id] = time.AfterFunc(l.undo, func() { l.expire(id) })
	l.mu.Unlock()
	return t, nil
}

// CancelDeletion removes the pending marker and stops the countdown.
func (l *List) CancelDeletion(ctx context.Context, id string) (Todo, error) {
	l.mu.Lock()
	if timer, ok := l.timers[id]; ok {
		timer.Stop()
		delete(l.timers, id)
	}
	l.mu.Unlock()

	return l.mutate(ctx, id, func(t *Todo) {
		t.PendingDelete = nil
	})
}

// Delete removes an entry immediately.
func (l *List) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.deleteLocked(ctx, id)
}

// Close stops all pending countdowns. Entries keep their markers and are
// cleared by the next Sweep.
func (l *List) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, timer := range l.timers {
		timer.Stop()
		delete(l.timers, id)
	}
}

// expire runs when an undo window closes. The entry is only removed if it
// is still marked; an undo that raced the timer wins.
func (l *List) expire(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.timers, id)

	todos, err := l.load(ctx)
	if err != nil {
		log.Printf("Failed to load todos for expiry of %s: %v", id, err)
		return
	}
	idx := indexOf(todos, id)
	if idx < 0 || todos[idx].PendingDelete == nil {
		return
	}
	if err := l.deleteLocked(ctx, id); err != nil {
		log.Printf("Failed to delete todo %s: %v", id, err)
	}
}

func (l *List) mutate(ctx context.Context, id string, fn func(*Todo)) (Todo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	todos, err := l.load(ctx)
	if err != nil {
		return Todo{}, err
	}
	idx := indexOf(todos, id)
	if idx < 0 {
		return Todo{}, ErrNotFound
	}
	fn(&todos[idx])
	return todos[idx], l.save(ctx, todos)
}

func (l *List) deleteLocked(ctx context.Context, id string) error {
	todos, err := l.load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(todos, id)
	if idx < 0 {
		return ErrNotFound
	}
	todos = append(todos[:idx], todos[idx+1:]...)
	return l.save(ctx, todos)
}

// load reads the stored list. A corrupt blob is logged and treated as an
// empty list.
func (l *List) load(ctx context.Context) ([]Todo, error) {
	data, err := l.storage.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read todos: %w", err)
	}
	if len(data) == 0 {
		return []Todo{}, nil
	}
	var todos []Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		log.Printf("Warning: stored todos are unreadable, starting empty: %v", err)
		return []Todo{}, nil
	}
	return todos, nil
}

func (l *List) save(ctx context.Context, todos []Todo) error {
	data, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("failed to encode todos: %w", err)
	}
	if err := l.storage.Set(ctx, data); err != nil {
		return fmt.Errorf("failed to save todos: %w", err)
	}
	return nil
}

func indexOf(todos []Todo, id string) int {
	for i := range todos {
		if todos[i].ID == id {
			return i
		}
	}
	return -1
}
