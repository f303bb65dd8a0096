package taxonomy

import (
	"testing"

	"github.com/gzhole/remindshield/internal/audit"
	"github.com/gzhole/remindshield/internal/guardian"
)

func TestDefault_CoversEveryCategory(t *testing.T) {
	cat := Default()

	categories := []string{
		guardian.CategoryCommandMarker,
		guardian.CategoryDestructive,
		guardian.CategoryScripting,
		guardian.CategoryCodeExecution,
		guardian.CategoryResource,
		guardian.CategoryObfuscation,
	}
	for _, c := range categories {
		if _, ok := cat.Lookup(c); !ok {
			t.Errorf("category %q has no taxonomy entry", c)
		}
	}

	for _, k := range []audit.Kind{audit.PromptInjectionDetected, audit.HallucinationPreventionTriggered} {
		if _, ok := cat.ForKind(k); !ok {
			t.Errorf("kind %v has no taxonomy entry", k)
		}
	}
}

func TestRefs(t *testing.T) {
	cat := Default()

	if got := cat.Refs(guardian.CategoryCommandMarker); got != "LLM01" {
		t.Errorf("expected LLM01, got %q", got)
	}
	if got := cat.Refs(guardian.CategoryDestructive); got != "LLM01,LLM06" {
		t.Errorf("expected LLM01,LLM06, got %q", got)
	}
	if got := cat.Refs("hallucination_prevention"); got != "LLM09" {
		t.Errorf("expected LLM09, got %q", got)
	}
	if got := cat.Refs("no-such-category"); got != "" {
		t.Errorf("expected empty refs, got %q", got)
	}
}

func TestBuildComplianceIndex(t *testing.T) {
	cat := Default()

	idx, err := cat.BuildComplianceIndex(OWASPLLM)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(idx.Standard.Items) != 10 {
		t.Errorf("expected 10 OWASP items, got %d", len(idx.Standard.Items))
	}

	want := []string{"code-execution", "command-marker", "destructive", "obfuscation", "prompt_injection", "scripting"}
	got := idx.Mappings["LLM01"]
	if len(got) != len(want) {
		t.Fatalf("LLM01: expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LLM01[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
	if _, ok := idx.Mappings["LLM03"]; ok {
		t.Error("LLM03 should have no mappings")
	}

	if _, err := cat.BuildComplianceIndex("nist"); err == nil {
		t.Error("expected error for unknown standard")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "entries: [oops"},
		{"missing id", "entries:\n  - name: x\n"},
		{"duplicate id", "entries:\n  - id: a\n  - id: a\n"},
		{"unknown standard", "entries:\n  - id: a\n    compliance: {nist: [AC-1]}\n"},
		{
			"unknown item",
			"standards:\n  - id: s\n    items: [{id: X1}]\nentries:\n  - id: a\n    compliance: {s: [X2]}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
