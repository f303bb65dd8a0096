package taxonomy

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gzhole/remindshield/internal/audit"
)

// OWASPLLM is the standard ID of the OWASP LLM Top 10.
const OWASPLLM = "owasp-llm"

//go:embed catalog.yaml
var builtin []byte

// Catalog indexes entries by ID.
type Catalog struct {
	Standards map[string]Standard
	Entries   []Entry
	ByID      map[string]Entry
}

// Parse loads a catalog document and checks that every compliance mapping
// names a known standard item.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing taxonomy: %w", err)
	}

	cat := &Catalog{
		Standards: make(map[string]Standard, len(doc.Standards)),
		Entries:   doc.Entries,
		ByID:      make(map[string]Entry, len(doc.Entries)),
	}
	for _, std := range doc.Standards {
		cat.Standards[std.ID] = std
	}

	for _, e := range doc.Entries {
		if e.ID == "" {
			return nil, fmt.Errorf("taxonomy entry %q has no id", e.Name)
		}
		if _, dup := cat.ByID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate taxonomy entry %q", e.ID)
		}
		for stdID, items := range e.Compliance {
			std, ok := cat.Standards[stdID]
			if !ok {
				return nil, fmt.Errorf("entry %s: unknown standard %q", e.ID, stdID)
			}
			valid := validItemIDs(std)
			for _, item := range items {
				if !valid[item] {
					return nil, fmt.Errorf("entry %s: unknown %s item %q", e.ID, stdID, item)
				}
			}
		}
		cat.ByID[e.ID] = e
	}

	return cat, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	cat, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return cat
}

// Lookup returns the entry for a rule category or audit kind slug.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	e, ok := c.ByID[id]
	return e, ok
}

// ForKind returns the entry describing an audit event kind.
func (c *Catalog) ForKind(k audit.Kind) (Entry, bool) {
	return c.Lookup(k.Slug())
}

// Refs returns the OWASP LLM items for id joined with commas, or "".
func (c *Catalog) Refs(id string) string {
	e, ok := c.ByID[id]
	if !ok {
		return ""
	}
	return strings.Join(e.Compliance[OWASPLLM], ",")
}

func validItemIDs(std Standard) map[string]bool {
	ids := make(map[string]bool, len(std.Items))
	for _, item := range std.Items {
		ids[item.ID] = true
	}
	return ids
}

// ComplianceIndex maps standard items to the entry IDs that reference them.
type ComplianceIndex struct {
	Standard Standard
	Mappings map[string][]string // item ID → []entry ID
}

// BuildComplianceIndex creates the reverse index for one standard.
func (c *Catalog) BuildComplianceIndex(stdID string) (ComplianceIndex, error) {
	std, ok := c.Standards[stdID]
	if !ok {
		return ComplianceIndex{}, fmt.Errorf("unknown standard %q", stdID)
	}

	idx := ComplianceIndex{Standard: std, Mappings: make(map[string][]string)}
	for _, e := range c.Entries {
		for _, item := range e.Compliance[stdID] {
			idx.Mappings[item] = append(idx.Mappings[item], e.ID)
		}
	}
	for item := range idx.Mappings {
		sort.Strings(idx.Mappings[item])
	}
	return idx, nil
}
