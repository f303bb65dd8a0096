package calendar

import (
	"fmt"

	"github.com/gzhole/remindshield/internal/audit"
)

const notFoundAnswer = "❌ I can't find this in your instructor's calendar. Please check with your class portal."

// Auditor records security events.
type Auditor interface {
	Record(kind audit.Kind, input string) audit.SecurityEvent
}

// LookupResult is either Found with the official date or not found.
type LookupResult struct {
	Event string
	Date  string
	Found bool
}

// Answer renders the result for the student. A miss never guesses a date.
func (r LookupResult) Answer() string {
	if !r.Found {
		return notFoundAnswer
	}
	return fmt.Sprintf("📅 Your event '%s' is scheduled for %s.", r.Event, r.Date)
}

// Lookup answers "when is X" strictly from the store.
type Lookup struct {
	store   *Store
	auditor Auditor
}

func NewLookup(store *Store, auditor Auditor) *Lookup {
	return &Lookup{store: store, auditor: auditor}
}

// Lookup returns the official date for event. A miss records one
// HallucinationPreventionTriggered event carrying the queried name.
func (l *Lookup) Lookup(event string) LookupResult {
	if date, ok := l.store.Date(event); ok {
		return LookupResult{Event: event, Date: date, Found: true}
	}
	if l.auditor != nil {
		l.auditor.Record(audit.HallucinationPreventionTriggered, event)
	}
	return LookupResult{Event: event}
}
