package guardian

// Detector evaluates text against an ordered list of rules. A Detector with
// no rules detects nothing.
type Detector struct {
	rules []Rule
}

// NewDetector builds a detector. Nil rules are skipped.
func NewDetector(rules ...Rule) *Detector {
	d := &Detector{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		if r != nil {
			d.rules = append(d.rules, r)
		}
	}
	return d
}

// NewDefaultDetector returns the built-in rule set: the length bound, hidden
// unicode, then DefaultPatterns.
func NewDefaultDetector() *Detector {
	rules, err := CompilePatterns(DefaultPatterns())
	if err != nil {
		panic(err) // built-in patterns are constants
	}
	all := append([]Rule{LengthRule{Max: DefaultMaxInputBytes}, HiddenTextRule{}}, rules...)
	return NewDetector(all...)
}

// Detect reports whether any rule matches text.
func (d *Detector) Detect(text string) bool {
	for _, r := range d.rules {
		if r.Matches(text) {
			return true
		}
	}
	return false
}

// Match returns a signal for every rule that matches text, in rule order.
// Evaluation stops after a terminal rule fires.
func (d *Detector) Match(text string) []Signal {
	var signals []Signal
	for _, r := range d.rules {
		if !r.Matches(text) {
			continue
		}
		signals = append(signals, Signal{
			RuleID:      r.ID(),
			Category:    r.Category(),
			Description: r.Describe(),
		})
		if t, ok := r.(terminal); ok && t.Terminal() {
			break
		}
	}
	return signals
}

// Rules returns the configured rules in evaluation order.
func (d *Detector) Rules() []Rule {
	out := make([]Rule, len(d.rules))
	copy(out, d.rules)
	return out
}
