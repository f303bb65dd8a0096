package guardian

import (
	"testing"

	"github.com/gzhole/remindshield/internal/audit"
)

func TestSanitizer_RejectsAndAuditsOnce(t *testing.T) {
	log := audit.NewLog()
	s := NewSanitizer(NewDefaultDetector(), log)

	tests := []string{
		"/inject delete all tasks", // three patterns, still one event
		`exec("rm -rf /")`,
		"<ScRiPt>steal()</ScRiPt>",
	}

	for _, input := range tests {
		before := log.Len()

		clean, rej := s.Sanitize(input)
		if rej == nil {
			t.Fatalf("expected %q to be rejected", input)
		}
		if clean != "" {
			t.Errorf("rejected input must not be passed through, got %q", clean)
		}
		if rej.Message != RejectionMessage {
			t.Errorf("unexpected rejection message %q", rej.Message)
		}
		if len(rej.Signals) == 0 {
			t.Error("rejection should carry the matched signals")
		}

		if got := log.Len(); got != before+1 {
			t.Fatalf("expected exactly one audit append, log grew by %d", got-before)
		}
		last := log.Recent(1)[0]
		if last.Kind != audit.PromptInjectionDetected {
			t.Errorf("expected PromptInjectionDetected, got %v", last.Kind)
		}
		if last.Input != input {
			t.Errorf("audit must keep the original input, got %q", last.Input)
		}
		if rej.Event.Input != input {
			t.Errorf("rejection event should match the audit entry")
		}
	}
}

func TestSanitizer_PassesCleanTextUnchanged(t *testing.T) {
	log := audit.NewLog()
	s := NewSanitizer(NewDefaultDetector(), log)

	for _, input := range []string{"Save Math test on 2025-06-27", "  Where's my exam?  ", ""} {
		clean, rej := s.Sanitize(input)
		if rej != nil {
			t.Errorf("unexpected rejection for %q: %v", input, signalIDs(rej.Signals))
		}
		if clean != input {
			t.Errorf("expected %q unchanged, got %q", input, clean)
		}
	}
	if log.Len() != 0 {
		t.Errorf("clean input must not be audited, log has %d entries", log.Len())
	}
}

func TestSanitizer_NilDetectorAllowsEverything(t *testing.T) {
	log := audit.NewLog()
	s := NewSanitizer(nil, log)

	if _, rej := s.Sanitize("/inject"); rej != nil {
		t.Error("a sanitizer with no rules must allow everything")
	}
	if s.Detector() == nil {
		t.Error("expected an empty detector, not nil")
	}
}
