// Package pipeline runs one student request through the guardrail stages:
// sanitize, classify, then verify or look up, and returns a single Outcome.
package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gzhole/remindshield/internal/audit"
	"github.com/gzhole/remindshield/internal/calendar"
	"github.com/gzhole/remindshield/internal/guardian"
	"github.com/gzhole/remindshield/internal/intent"
	"github.com/gzhole/remindshield/internal/metrics"
	"github.com/gzhole/remindshield/internal/redact"
)

// Severity tells the presentation layer how to style an outcome.
type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

const (
	// AcknowledgeMessage answers any request that is neither a save nor a
	// lookup.
	AcknowledgeMessage = "✅ Task received. Awaiting confirmation if needed."

	// EmptyInputMessage is shown by outer surfaces for blank input, which
	// never reaches the pipeline.
	EmptyInputMessage = "Please enter some text to analyze."
)

// Outcome is the single result of handling a request.
type Outcome struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`

	// Intent and Signals are diagnostics for the CLI and tests; they are not
	// part of the wire response.
	Intent  intent.Kind       `json:"-"`
	Signals []guardian.Signal `json:"-"`
}

// Deps are the collaborators a Handler needs. Log is required; nil Detector,
// Calendar and Classifier fall back to the built-in defaults.
type Deps struct {
	Detector   *guardian.Detector
	Calendar   *calendar.Store
	Classifier *intent.Classifier
	Log        *audit.Log
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// Handler is safe for concurrent use: the calendar and rules are read-only
// and the audit log serializes its own writers.
type Handler struct {
	sanitizer  *guardian.Sanitizer
	classifier *intent.Classifier
	verifier   *calendar.Verifier
	lookup     *calendar.Lookup
	store      *calendar.Store
	log        *audit.Log
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// New wires a Handler. It panics if deps.Log is nil since every decision
// path may need to write to it.
func New(deps Deps) *Handler {
	if deps.Log == nil {
		panic("pipeline: audit log is required")
	}
	if deps.Detector == nil {
		deps.Detector = guardian.NewDefaultDetector()
	}
	if deps.Calendar == nil {
		deps.Calendar = calendar.Default()
	}
	if deps.Classifier == nil {
		deps.Classifier = intent.NewDefaultClassifier()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Handler{
		sanitizer:  guardian.NewSanitizer(deps.Detector, deps.Log),
		classifier: deps.Classifier,
		verifier:   calendar.NewVerifier(deps.Calendar),
		lookup:     calendar.NewLookup(deps.Calendar, deps.Log),
		store:      deps.Calendar,
		log:        deps.Log,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// Handle processes one request. event and date are optional; empty means
// not supplied. Every input yields exactly one Outcome.
func (h *Handler) Handle(input, event, date string) Outcome {
	start := time.Now()
	out := h.handle(input, event, date)

	h.metrics.ObserveHandleLatency(time.Since(start))
	h.metrics.IncrementOutcome(string(out.Severity))
	for _, s := range out.Signals {
		h.metrics.IncrementSignal(s.RuleID)
	}

	h.logger.Debug("request handled",
		zap.String("severity", string(out.Severity)),
		zap.String("intent", out.Intent.String()),
		zap.Int("signals", len(out.Signals)),
		zap.String("input_preview", redact.Preview(input)),
		zap.Duration("elapsed", time.Since(start)))

	return out
}

func (h *Handler) handle(input, event, date string) Outcome {
	clean, rej := h.sanitizer.Sanitize(input)
	if rej != nil {
		return Outcome{Message: rej.Message, Severity: SeverityDanger, Signals: rej.Signals}
	}

	m := h.classifier.Classify(clean, event, date)
	switch m.Kind {
	case intent.Save:
		msg := fmt.Sprintf("Are you sure you want me to save this reminder for %s on %s?\n%s",
			m.Event, m.Date, h.verifier.ConfirmationPrompt(m.Event, m.Date))
		return Outcome{Message: msg, Severity: SeverityWarning, Intent: intent.Save}
	case intent.Lookup:
		res := h.lookup.Lookup(m.Event)
		return Outcome{Message: res.Answer(), Severity: SeverityInfo, Intent: intent.Lookup}
	default:
		return Outcome{Message: AcknowledgeMessage, Severity: SeveritySuccess, Intent: intent.Generic}
	}
}

// Verify exposes the fact check without the save prompt, for callers that
// need the raw verdict (e.g. the confirmation gate).
func (h *Handler) Verify(event, date string) calendar.Verdict {
	return h.verifier.Verify(event, date)
}

// AuditRecent returns up to n events, most recent first.
func (h *Handler) AuditRecent(n int) []audit.SecurityEvent {
	return h.log.Recent(n)
}

// AuditExportAll returns the full log in append order.
func (h *Handler) AuditExportAll() []audit.Record {
	return h.log.ExportAll()
}

// AuditClear empties the session log.
func (h *Handler) AuditClear() {
	h.log.Clear()
}

// Log returns the session audit log.
func (h *Handler) Log() *audit.Log { return h.log }

// Calendar returns the authoritative calendar.
func (h *Handler) Calendar() *calendar.Store { return h.store }

// Rules returns the detector's rules in evaluation order.
func (h *Handler) Rules() []guardian.Rule {
	return h.sanitizer.Detector().Rules()
}
