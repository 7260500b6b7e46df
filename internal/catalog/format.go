package catalog

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"shareit-backend/internal/availability"
	"shareit-backend/internal/store"
)

// ItemView is the client-facing shape of an item.
type ItemView struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Availability availability.State `json:"availability"`
	ThumbnailURL string             `json:"thumbnailUrl"`
}

// Format shapes a stored record for clients.
func Format(r store.Record) ItemView {
	return FormatView(ItemView{
		ID:           strconv.FormatInt(r.ID, 10),
		Name:         r.Name,
		Availability: r.Availability,
		ThumbnailURL: r.ThumbnailURL,
	})
}

// FormatAll formats every record. The result is never nil so that an empty
// catalog encodes as [].
func FormatAll(records []store.Record) []ItemView {
	views := make([]ItemView, 0, len(records))
	for _, r := range records {
		views = append(views, Format(r))
	}
	return views
}

// FormatView normalizes an ItemView. It is idempotent, so formatting an
// already formatted item returns it unchanged.
func FormatView(v ItemView) ItemView {
	if !v.Availability.Valid() {
		s := string(v.Availability)
		v.Availability = availability.Normalize(availability.Raw{Availability: &s})
	}
	if v.ThumbnailURL == "" {
		v.ThumbnailURL = Placeholder(v.Name)
	}
	return v
}

const placeholderSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns='http://www.w3.org/2000/svg' width='120' height='120'>
  <rect width='100%%' height='100%%' fill='#e5e7eb'/>
  <text x='50%%' y='55%%' dominant-baseline='middle' text-anchor='middle' fill='#6b7280' font-size='48' font-family='ui-sans-serif, system-ui'>%s</text>
</svg>`

// Placeholder returns a data URI for a grey square showing the first
// character of name ("I" for an unnamed item).
func Placeholder(name string) string {
	if name == "" {
		name = "Item"
	}
	r, _ := utf8.DecodeRuneInString(name)
	label := html.EscapeString(string(r))
	svg := fmt.Sprintf(placeholderSVG, label)
	return "data:image/svg+xml;charset=UTF-8," + escapeComponent(svg)
}

// componentUnescapes restores the characters that URI components may carry
// literally but url.QueryEscape encodes anyway.
var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent percent-encodes s for use inside a URI, spaces as %20.
// Only A-Z a-z 0-9 and -_.!~*'() are left as they are.
func escapeComponent(s string) string {
	return componentUnescapes.Replace(url.QueryEscape(s))
}
