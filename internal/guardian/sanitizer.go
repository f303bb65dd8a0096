package guardian

import "github.com/gzhole/remindshield/internal/audit"

// RejectionMessage is the only text a rejected caller ever sees. The
// offending input is never echoed back.
const RejectionMessage = "⚠️ Sorry, that input isn't allowed. Try rephrasing your reminder."

// Auditor records security events.
type Auditor interface {
	Record(kind audit.Kind, input string) audit.SecurityEvent
}

// Rejection describes why input was refused.
type Rejection struct {
	Message string
	Signals []Signal
	Event   audit.SecurityEvent
}

// Sanitizer is a binary allow/deny gate in front of the assistant. It never
// redacts part of the input.
type Sanitizer struct {
	detector *Detector
	auditor  Auditor
}

func NewSanitizer(detector *Detector, auditor Auditor) *Sanitizer {
	if detector == nil {
		detector = NewDetector()
	}
	return &Sanitizer{detector: detector, auditor: auditor}
}

// Sanitize returns text unchanged when it is clean. Otherwise it records
// exactly one PromptInjectionDetected event with the original text and
// returns a rejection.
func (s *Sanitizer) Sanitize(text string) (string, *Rejection) {
	signals := s.detector.Match(text)
	if len(signals) == 0 {
		return text, nil
	}

	rej := &Rejection{Message: RejectionMessage, Signals: signals}
	if s.auditor != nil {
		rej.Event = s.auditor.Record(audit.PromptInjectionDetected, text)
	}
	return "", rej
}

// Detector exposes the underlying detector for dashboards.
func (s *Sanitizer) Detector() *Detector { return s.detector }
