package policy

import (
	"fmt"

	"github.com/gzhole/remindshield/internal/calendar"
	"github.com/gzhole/remindshield/internal/guardian"
	"github.com/gzhole/remindshield/internal/intent"
)

// Compiled is a validated policy ready for the pipeline.
type Compiled struct {
	Policy     *Policy
	Detector   *guardian.Detector
	Calendar   *calendar.Store
	Classifier *intent.Classifier
}

// Compile validates every section and builds the runtime components. Any
// error here is a startup failure, never a per-request one.
func Compile(p *Policy) (*Compiled, error) {
	detector, err := buildDetector(p)
	if err != nil {
		return nil, fmt.Errorf("patterns: %w", err)
	}

	entries := make([]calendar.Entry, 0, len(p.Calendar))
	for _, e := range p.Calendar {
		entries = append(entries, calendar.Entry{Event: e.Event, Date: e.Date})
	}
	store, err := calendar.New(entries)
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}

	rules := make([]intent.Rule, 0, len(p.Intents))
	for _, spec := range p.Intents {
		kind, err := intent.ParseKind(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("intents: rule %q: %w", spec.Name, err)
		}
		rules = append(rules, intent.Rule{
			Name:         spec.Name,
			Kind:         kind,
			Keywords:     spec.Keywords,
			RequireEvent: spec.RequireEvent,
			RequireDate:  spec.RequireDate,
			Event:        spec.Event,
		})
	}
	classifier, err := intent.NewClassifier(rules)
	if err != nil {
		return nil, fmt.Errorf("intents: %w", err)
	}

	return &Compiled{
		Policy:     p,
		Detector:   detector,
		Calendar:   store,
		Classifier: classifier,
	}, nil
}

func buildDetector(p *Policy) (*guardian.Detector, error) {
	var rules []guardian.Rule

	// The length bound goes first so oversized text never reaches a regex.
	switch limit := p.Limits.MaxInputBytes; {
	case limit == 0:
		rules = append(rules, guardian.LengthRule{Max: guardian.DefaultMaxInputBytes})
	case limit > 0:
		rules = append(rules, guardian.LengthRule{Max: limit})
	}
	if p.Limits.HiddenUnicodeBlocked() {
		rules = append(rules, guardian.HiddenTextRule{})
	}

	patterns := make([]guardian.Pattern, 0, len(p.Patterns))
	for _, spec := range p.Patterns {
		patterns = append(patterns, spec.pattern())
	}
	compiled, err := guardian.CompilePatterns(patterns)
	if err != nil {
		return nil, err
	}

	return guardian.NewDetector(append(rules, compiled...)...), nil
}

func (s PatternSpec) pattern() guardian.Pattern {
	return guardian.Pattern{ID: s.ID, Expr: s.Regex, Category: s.Category}
}
