// Package taxonomy maps RemindShield's threat categories and audit event
// kinds onto the OWASP Top 10 for LLM Applications, so dashboards can say
// which class of risk a rejection or refusal belongs to.
package taxonomy

// Entry describes one weakness RemindShield guards against.
type Entry struct {
	// ID is a guardian rule category or an audit kind slug.
	ID             string              `yaml:"id"`
	Name           string              `yaml:"name"`
	RiskLevel      string              `yaml:"risk_level"` // "critical", "high", "medium", "low"
	Abstract       string              `yaml:"abstract"`
	Recommendation string              `yaml:"recommendation"`
	Compliance     map[string][]string `yaml:"compliance"` // standard-id → item IDs
}

// Standard is an industry list that entries map onto.
type Standard struct {
	ID      string         `yaml:"id"`
	Name    string         `yaml:"name"`
	Version string         `yaml:"version"`
	URL     string         `yaml:"url"`
	Items   []StandardItem `yaml:"items"`
}

type StandardItem struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type document struct {
	Standards []Standard `yaml:"standards"`
	Entries   []Entry    `yaml:"entries"`
}
