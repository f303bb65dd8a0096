// Package audit holds the append-only security event log that every
// rejected or flagged request writes to.
package audit

import (
	"fmt"
	"time"
)

// Kind identifies why a security event was recorded.
type Kind int

const (
	// PromptInjectionDetected is recorded when the sanitizer rejects input.
	PromptInjectionDetected Kind = iota + 1
	// HallucinationPreventionTriggered is recorded when a lookup asks about
	// an event the authoritative calendar does not contain.
	HallucinationPreventionTriggered
)

var kindLabels = map[Kind]string{
	PromptInjectionDetected:          "Prompt Injection Detected",
	HallucinationPreventionTriggered: "Hallucination Prevention Triggered",
}

func (k Kind) String() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Slug is the short, label-safe form used for metrics and CLI filters.
func (k Kind) Slug() string {
	switch k {
	case PromptInjectionDetected:
		return "prompt_injection"
	case HallucinationPreventionTriggered:
		return "hallucination_prevention"
	default:
		return "unknown"
	}
}

// ParseKind accepts either the human label or the slug.
func ParseKind(s string) (Kind, error) {
	for k, label := range kindLabels {
		if s == label || s == k.Slug() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown security event kind %q", s)
}

// SecurityEvent is a single audit record. It is immutable once appended.
type SecurityEvent struct {
	Kind      Kind
	Input     string
	Timestamp time.Time
}

// Record is the export form of a SecurityEvent.
type Record struct {
	Issue     string `json:"issue"`
	Input     string `json:"input"`
	Timestamp string `json:"timestamp"`
}

// Record converts the event to its export form. Timestamps are RFC3339 with
// nanosecond precision so exported order survives a round trip.
func (e SecurityEvent) Record() Record {
	return Record{
		Issue:     e.Kind.String(),
		Input:     e.Input,
		Timestamp: e.Timestamp.Format(time.RFC3339Nano),
	}
}
