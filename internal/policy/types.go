package policy

// Policy is the on-disk configuration: what counts as a threat, which dates
// are official, and how request text maps to intents.
type Policy struct {
	Version  string          `yaml:"version"`
	Limits   Limits          `yaml:"limits"`
	Patterns []PatternSpec   `yaml:"patterns"`
	Calendar []CalendarEntry `yaml:"calendar"`
	Intents  []IntentSpec    `yaml:"intents"`
}

type Limits struct {
	// MaxInputBytes bounds request text. 0 means the default; negative
	// disables the bound.
	MaxInputBytes int `yaml:"max_input_bytes"`
	// BlockHiddenUnicode rejects zero-width and bidi characters. Defaults to
	// true when omitted.
	BlockHiddenUnicode *bool `yaml:"block_hidden_unicode,omitempty"`
}

type PatternSpec struct {
	ID       string `yaml:"id"`
	Regex    string `yaml:"regex"`
	Category string `yaml:"category,omitempty"`
}

type CalendarEntry struct {
	Event string `yaml:"event"`
	Date  string `yaml:"date"`
}

type IntentSpec struct {
	Name         string   `yaml:"name"`
	Kind         string   `yaml:"kind"`
	Keywords     []string `yaml:"keywords"`
	RequireEvent bool     `yaml:"require_event,omitempty"`
	RequireDate  bool     `yaml:"require_date,omitempty"`
	Event        string   `yaml:"event,omitempty"`
}

// HiddenUnicodeBlocked resolves the BlockHiddenUnicode default.
func (l Limits) HiddenUnicodeBlocked() bool {
	return l.BlockHiddenUnicode == nil || *l.BlockHiddenUnicode
}
