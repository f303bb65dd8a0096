package unicode

import (
	"testing"
)

func TestScan_CleanText(t *testing.T) {
	for _, input := range []string{
		"Save Math test on 2025-06-27",
		"Where's my exam?\n\tThanks",
		"📅 Final exam",
		"",
	} {
		if findings := Scan(input); len(findings) != 0 {
			t.Errorf("Scan(%q) expected clean, got %v", input, findings)
		}
	}
}

func TestScan_HidingCharacters(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		category string
		offset   int
	}{
		{"zero-width space", "save\u200B exam", "zero-width", 4},
		{"zero-width joiner", "de\u200Dlete", "zero-width", 2},
		{"BOM", "\uFEFFWhere's my exam?", "zero-width", 0},
		{"RLO override", "exam \u202Eevas", "bidi-override", 5},
		{"isolate", "x\u2066y", "bidi-override", 1},
		{"tag character", "hi\U000E0041", "tag-char", 2},
		{"escape control", "hi\x1b[2J", "control-char", 2},
		{"invalid utf8", "ok\xff", "invalid-utf8", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := Scan(tt.input)
			if len(findings) != 1 {
				t.Fatalf("expected 1 finding, got %d: %v", len(findings), findings)
			}
			f := findings[0]
			if f.Category != tt.category {
				t.Errorf("expected category %q, got %q", tt.category, f.Category)
			}
			if f.Offset != tt.offset {
				t.Errorf("expected offset %d, got %d", tt.offset, f.Offset)
			}
			if !f.Hiding {
				t.Errorf("expected %s to be hiding", tt.category)
			}
			if _, ok := HasHidden(tt.input); !ok {
				t.Errorf("HasHidden(%q) = false", tt.input)
			}
		})
	}
}

func TestScan_HomoglyphIsReportedButNotHiding(t *testing.T) {
	// Cyrillic 'е' in "exam"
	input := "Where's my еxam?"
	findings := Scan(input)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %v", findings)
	}
	if findings[0].Category != "homoglyph" || findings[0].Hiding {
		t.Errorf("unexpected finding %+v", findings[0])
	}
	if _, ok := HasHidden(input); ok {
		t.Error("homoglyphs alone must not count as hidden content")
	}
}

func TestScan_NonConfusableScriptIsClean(t *testing.T) {
	// only 'а' and 'е' have Latin look-alikes
	if findings := Scan("экзамен"); len(findings) != 2 {
		t.Errorf("expected only the confusable letters to be reported, got %v", findings)
	}
	if findings := Scan("Ж Ф Щ"); len(findings) != 0 {
		t.Errorf("expected no findings, got %v", findings)
	}
}

func TestFinding_String(t *testing.T) {
	f := Finding{Category: "zero-width", Codepoint: "U+200B", Offset: 4}
	if got := f.String(); got != "zero-width U+200B at byte 4" {
		t.Errorf("unexpected String(): %q", got)
	}
}
