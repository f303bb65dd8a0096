package guardian

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPattern is returned when a configured pattern does not compile.
var ErrInvalidPattern = errors.New("invalid threat pattern")

// Pattern is the configuration form of a regex rule.
type Pattern struct {
	ID       string
	Expr     string
	Category string
}

// PatternRule matches a case-insensitive regular expression anywhere in the
// text.
type PatternRule struct {
	pattern Pattern
	re      *regexp.Regexp
}

// CompilePattern validates p and builds its rule. An empty ID defaults to
// the expression itself.
func CompilePattern(p Pattern) (*PatternRule, error) {
	if strings.TrimSpace(p.Expr) == "" {
		return nil, fmt.Errorf("%w: pattern %q has an empty expression", ErrInvalidPattern, p.ID)
	}
	re, err := regexp.Compile("(?i)" + p.Expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, p.Expr, err)
	}
	if p.ID == "" {
		p.ID = p.Expr
	}
	return &PatternRule{pattern: p, re: re}, nil
}

// CompilePatterns compiles patterns in order, stopping at the first error.
func CompilePatterns(patterns []Pattern) ([]Rule, error) {
	rules := make([]Rule, 0, len(patterns))
	seen := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		r, err := CompilePattern(p)
		if err != nil {
			return nil, err
		}
		if seen[r.ID()] {
			return nil, fmt.Errorf("%w: duplicate pattern id %q", ErrInvalidPattern, r.ID())
		}
		seen[r.ID()] = true
		rules = append(rules, r)
	}
	return rules, nil
}

func (r *PatternRule) ID() string       { return r.pattern.ID }
func (r *PatternRule) Category() string { return r.pattern.Category }
func (r *PatternRule) Describe() string { return r.pattern.Expr }

func (r *PatternRule) Matches(text string) bool {
	return r.re.MatchString(text)
}

// DefaultPatterns returns the built-in forbidden constructs.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{ID: "inject-command", Expr: `/inject`, Category: CategoryCommandMarker},
		{ID: "delete-keyword", Expr: `\bdelete\b`, Category: CategoryDestructive},
		{ID: "remind-call", Expr: `remind\(`, Category: CategoryCodeExecution},
		{ID: "shutdown-keyword", Expr: `\bshutdown\b`, Category: CategoryDestructive},
		{ID: "drop-keyword", Expr: `\bdrop\b`, Category: CategoryDestructive},
		{ID: "script-tag", Expr: `<script>`, Category: CategoryScripting},
		{ID: "exec-call", Expr: `exec\(`, Category: CategoryCodeExecution},
		{ID: "system-call", Expr: `system\(`, Category: CategoryCodeExecution},
		{ID: "import-keyword", Expr: `\bimport\b`, Category: CategoryCodeExecution},
	}
}
