package availability

import (
	"bytes"
	"encoding/json"
)

// State is the canonical availability of an item.
type State string

const (
	Available State = "available"
	Borrowed  State = "borrowed"
)

// Raw carries the stored representations of an item's availability.
// A nil field means the representation is absent.
type Raw struct {
	Availability *string
	Available    *bool
}

// Normalize maps a raw stored representation to its canonical State.
// The string field wins when present; otherwise the boolean flag decides;
// a record with neither is available.
func Normalize(r Raw) State {
	if r.Availability != nil {
		if *r.Availability == string(Borrowed) {
			return Borrowed
		}
		return Available
	}
	if r.Available != nil {
		if *r.Available {
			return Available
		}
		return Borrowed
	}
	return Available
}

// FromJSON decodes the "availability" and "available" members of a JSON
// record. Each member only counts when it has the expected JSON type, so
// {"availability": true} is treated as if the member were missing.
func FromJSON(availabilityMember, availableMember json.RawMessage) Raw {
	var r Raw

	if s, ok := jsonString(availabilityMember); ok {
		r.Availability = &s
	}
	if b, ok := jsonBool(availableMember); ok {
		r.Available = &b
	}
	return r
}

// Encode returns the storage representation written for s. Only the
// string form is ever written back.
func Encode(s State) Raw {
	v := string(s)
	return Raw{Availability: &v}
}

// Opposite returns the other state.
func (s State) Opposite() State {
	if s == Borrowed {
		return Available
	}
	return Borrowed
}

// Valid reports whether s is one of the two canonical states.
func (s State) Valid() bool {
	return s == Available || s == Borrowed
}

func jsonString(m json.RawMessage) (string, bool) {
	m = bytes.TrimSpace(m)
	if len(m) == 0 || m[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(m, &s); err != nil {
		return "", false
	}
	return s, true
}

func jsonBool(m json.RawMessage) (bool, bool) {
	switch string(bytes.TrimSpace(m)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
