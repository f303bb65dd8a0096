// Package calendar is the authoritative record of official event dates. It
// is read-only once built and answers two questions: does a claimed date
// match the record, and what date does the record hold for an event.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date form every official date uses.
const DateLayout = "2006-01-02"

var (
	ErrEmptyEvent     = errors.New("event name must not be empty")
	ErrInvalidDate    = errors.New("official date must be YYYY-MM-DD")
	ErrDuplicateEvent = errors.New("event listed more than once")
)

// Entry is one official event.
type Entry struct {
	Event string
	Date  string
}

// Store maps event names (case-sensitive) to official dates. It is
// immutable, so concurrent readers need no locking.
type Store struct {
	dates   map[string]string
	entries []Entry
}

// New validates entries and builds a store. Entry order is kept for
// listings.
func New(entries []Entry) (*Store, error) {
	s := &Store{
		dates:   make(map[string]string, len(entries)),
		entries: make([]Entry, 0, len(entries)),
	}
	for _, e := range entries {
		if strings.TrimSpace(e.Event) == "" {
			return nil, ErrEmptyEvent
		}
		if _, err := time.Parse(DateLayout, e.Date); err != nil {
			return nil, fmt.Errorf("%w: %q for %q", ErrInvalidDate, e.Date, e.Event)
		}
		if _, dup := s.dates[e.Event]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEvent, e.Event)
		}
		s.dates[e.Event] = e.Date
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// Default returns the built-in instructor calendar.
func Default() *Store {
	s, err := New(DefaultEntries())
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultEntries is the built-in instructor calendar.
func DefaultEntries() []Entry {
	return []Entry{
		{Event: "Math test", Date: "2025-06-27"},
		{Event: "Science quiz", Date: "2025-07-01"},
		{Event: "Final exam", Date: "2025-08-10"},
	}
}

// Date returns the official date for event.
func (s *Store) Date(event string) (string, bool) {
	d, ok := s.dates[event]
	return d, ok
}

func (s *Store) Has(event string) bool {
	_, ok := s.dates[event]
	return ok
}

// Entries returns a copy of the calendar in configured order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int { return len(s.entries) }
