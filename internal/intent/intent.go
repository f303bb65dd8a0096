// Package intent classifies sanitized request text into save, lookup or
// generic intent using an ordered, data-driven rule table.
package intent

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is what the request asks the assistant to do.
type Kind int

const (
	Generic Kind = iota
	Save
	Lookup
)

func (k Kind) String() string {
	switch k {
	case Save:
		return "save"
	case Lookup:
		return "lookup"
	default:
		return "generic"
	}
}

// ParseKind maps a configured kind name to a Kind. Generic is not a valid
// rule kind: it is what remains when nothing matches.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "save":
		return Save, nil
	case "lookup":
		return Lookup, nil
	}
	return Generic, fmt.Errorf("%w: %q", ErrInvalidRule, s)
}

var ErrInvalidRule = errors.New("invalid intent rule")

// Rule maps a keyword set to an intent.
type Rule struct {
	Name string
	Kind Kind
	// Keywords must all appear (case-insensitive substring) in the text.
	Keywords []string
	// RequireEvent and RequireDate demand the structured hints be supplied.
	RequireEvent bool
	RequireDate  bool
	// Event, when set on a lookup rule, is the event the rule resolves to
	// regardless of any supplied hint.
	Event string
}

// Match is the classification result.
type Match struct {
	Kind  Kind
	Rule  string
	Event string
	Date  string
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier validates rules and lowercases keywords once.
func NewClassifier(rules []Rule) (*Classifier, error) {
	c := &Classifier{rules: make([]Rule, 0, len(rules))}
	for i, r := range rules {
		if r.Kind != Save && r.Kind != Lookup {
			return nil, fmt.Errorf("%w: rule %d (%q) has kind %v", ErrInvalidRule, i, r.Name, r.Kind)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("%w: rule %d (%q) has no keywords", ErrInvalidRule, i, r.Name)
		}
		kw := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				return nil, fmt.Errorf("%w: rule %d (%q) has an empty keyword", ErrInvalidRule, i, r.Name)
			}
			kw = append(kw, k)
		}
		r.Keywords = kw
		if r.Name == "" {
			r.Name = fmt.Sprintf("%s-%d", r.Kind, i)
		}
		c.rules = append(c.rules, r)
	}
	return c, nil
}

// DefaultRules reproduces the assistant's built-in behaviour: "save" with
// both hints is a save; "where" plus "exam" looks up the final exam.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:         "save-reminder",
			Kind:         Save,
			Keywords:     []string{"save"},
			RequireEvent: true,
			RequireDate:  true,
		},
		{
			Name:     "exam-lookup",
			Kind:     Lookup,
			Keywords: []string{"where", "exam"},
			Event:    "Final exam",
		},
	}
}

// NewDefaultClassifier builds a classifier from DefaultRules.
func NewDefaultClassifier() *Classifier {
	c, err := NewClassifier(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Classify picks the first matching rule. event and date are optional
// hints; empty means absent.
func (c *Classifier) Classify(text, event, date string) Match {
	lower := strings.ToLower(text)

	for _, r := range c.rules {
		if !containsAll(lower, r.Keywords) {
			continue
		}
		if r.RequireEvent && event == "" {
			continue
		}
		if r.RequireDate && date == "" {
			continue
		}

		m := Match{Kind: r.Kind, Rule: r.Name, Event: event, Date: date}
		if r.Kind == Lookup {
			if r.Event != "" {
				m.Event = r.Event
			}
			if m.Event == "" {
				continue
			}
		}
		return m
	}

	return Match{Kind: Generic, Event: event, Date: date}
}

// Rules returns the normalized rule table.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

func containsAll(text string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(text, k) {
			return false
		}
	}
	return true
}
