package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// ItemID parses an item identifier taken from a URL path segment.
// Surrounding whitespace is ignored; anything that is not a positive
// base-10 integer is rejected.
func ItemID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty item id")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q: %w", raw, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid item id %q: must be positive", raw)
	}
	return id, nil
}

// Action is one of the two item transitions a client may request.
type Action string

const (
	ActionBorrow Action = "borrow"
	ActionReturn Action = "return"
)

// ParseAction validates a transition name.
func ParseAction(raw string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(raw))); a {
	case ActionBorrow, ActionReturn:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", raw)
}
