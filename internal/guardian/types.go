// Package guardian decides whether a free-text request may reach the
// reminder assistant at all.
//
// Architecture:
//
//	Rule (interface)
//	  ├── PatternRule  : case-insensitive regex, one per forbidden construct
//	  ├── LengthRule   : bounds input size before any regex runs
//	  └── HiddenTextRule: invisible / direction-changing characters
//
//	Detector  : ordered list of Rules, pure and deterministic
//	Sanitizer : allow/deny gate that writes one audit event per rejection
package guardian

// Signal is a single rule hit. Signals are reported in rule order.
type Signal struct {
	// RuleID is a short identifier (e.g., "inject-command").
	RuleID string

	// Category groups related rules (e.g., "command-marker", "code-execution").
	Category string

	// Description is what the rule looks for, suitable for dashboards.
	Description string
}

// Rule is one detection check. Implementations must be safe for concurrent
// use and free of side effects.
type Rule interface {
	ID() string
	Category() string
	Describe() string
	Matches(text string) bool
}

// terminal is implemented by rules that, once matched, make further
// evaluation pointless (e.g., oversized input).
type terminal interface {
	Terminal() bool
}

const (
	CategoryCommandMarker = "command-marker"
	CategoryDestructive   = "destructive"
	CategoryScripting     = "scripting"
	CategoryCodeExecution = "code-execution"
	CategoryResource      = "resource-limit"
	CategoryObfuscation   = "obfuscation"
)
