package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gzhole/remindshield/internal/calendar"
	"github.com/gzhole/remindshield/internal/guardian"
	"github.com/gzhole/remindshield/internal/intent"
)

// Load reads a policy file. A missing file yields DefaultPolicy.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPolicy(), nil
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes policy YAML. Sections that are omitted entirely fall back to
// the defaults; a section present but empty (e.g. `patterns: []`) stays
// empty.
func Parse(data []byte) (*Policy, error) {
	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	def := DefaultPolicy()
	if policy.Version == "" {
		policy.Version = def.Version
	}
	if policy.Patterns == nil {
		policy.Patterns = def.Patterns
	}
	if policy.Calendar == nil {
		policy.Calendar = def.Calendar
	}
	if policy.Intents == nil {
		policy.Intents = def.Intents
	}

	return &policy, nil
}

// Marshal renders p as YAML.
func Marshal(p *Policy) ([]byte, error) {
	return yaml.Marshal(p)
}

func DefaultPolicy() *Policy {
	p := &Policy{
		Version: "0.1",
		Limits: Limits{
			MaxInputBytes: guardian.DefaultMaxInputBytes,
		},
	}

	for _, pat := range guardian.DefaultPatterns() {
		p.Patterns = append(p.Patterns, PatternSpec{ID: pat.ID, Regex: pat.Expr, Category: pat.Category})
	}
	for _, e := range calendar.DefaultEntries() {
		p.Calendar = append(p.Calendar, CalendarEntry{Event: e.Event, Date: e.Date})
	}
	for _, r := range intent.DefaultRules() {
		p.Intents = append(p.Intents, IntentSpec{
			Name:         r.Name,
			Kind:         r.Kind.String(),
			Keywords:     r.Keywords,
			RequireEvent: r.RequireEvent,
			RequireDate:  r.RequireDate,
			Event:        r.Event,
		})
	}
	return p
}
