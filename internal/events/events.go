// internal/events/events.go
//
// Live-music events read model.
// Responsibilities:
//   - Event row shape shared by the hosted table and the local sqlite mirror.
//   - Source abstraction: anything that can list all events.
//   - Client-side filtering (date, genre, free text, date range) and genre listing.
//
// Notes:
//   - Dates are ISO strings; a date filter matches by prefix so both
//     "2025-05-01" and "2025-05-01T20:00:00" rows match "2025-05-01".
//   - Free-text search runs over name, venue and details with HTML removed.

package events

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/net/html"
)

var ErrSourceUnavailable = errors.New("events: source unavailable")

// Event is one listing. Field names follow the hosted table columns.
type Event struct {
	Date         string `json:"date"`
	EventName    string `json:"event_name"`
	Venue        string `json:"venue"`
	EventDetails string `json:"event_details"`
	TicketLink   string `json:"ticket_link"`
	AllAges      bool   `json:"all_ages"`
	EventLink    string `json:"event_link"`
	ImageLink    string `json:"image_link"`
	Genre        string `json:"genre"`
	Subgenre     string `json:"subgenre"`
}

// Key identifies an event for display purposes.
func (e Event) Key() string { return e.EventName + "-" + e.Date }

// Source lists every event.
type Source interface {
	Fetch(ctx context.Context) ([]Event, error)
}

// Filter narrows a list of events. Zero fields are ignored.
type Filter struct {
	Date  string // YYYY-MM-DD, prefix match
	Genre string // exact match
	Query string // case-insensitive substring
	From  string // inclusive lower bound on the date
	To    string // inclusive upper bound on the date (YYYY-MM-DD covers the whole day)
}

// Match reports whether e passes every set criterion.
func (f Filter) Match(e Event) bool {
	if f.Date != "" && !strings.HasPrefix(e.Date, f.Date) {
		return false
	}
	if f.Genre != "" && e.Genre != f.Genre {
		return false
	}
	if f.From != "" && e.Date < f.From {
		return false
	}
	if f.To != "" && e.Date > f.To && !strings.HasPrefix(e.Date, f.To) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(e.EventName), q) &&
			!strings.Contains(strings.ToLower(e.Venue), q) &&
			!strings.Contains(strings.ToLower(PlainText(e.EventDetails)), q) {
			return false
		}
	}
	return true
}

// Apply returns the events matching f, preserving order.
func Apply(list []Event, f Filter) []Event {
	out := make([]Event, 0, len(list))
	for _, e := range list {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Genres lists unique non-empty genres in first-seen order.
func Genres(list []Event) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range list {
		if e.Genre == "" {
			continue
		}
		if _, ok := seen[e.Genre]; ok {
			continue
		}
		seen[e.Genre] = struct{}{}
		out = append(out, e.Genre)
	}
	return out
}

// PlainText strips markup from scraped event details.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			b.WriteByte(' ')
		}
	}
}
