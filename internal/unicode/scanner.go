// Package unicode finds invisible or direction-changing characters that can
// hide instructions inside an otherwise harmless-looking request.
package unicode

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Finding is one suspicious code point.
type Finding struct {
	Category  string // "invalid-utf8", "zero-width", "bidi-override", "tag-char", "control-char", "homoglyph"
	Codepoint string // e.g. "U+200B"
	Offset    int    // byte offset in the input
	// Hiding is true for characters that can conceal text from a reader.
	// Homoglyphs are reported but are not hiding: a request written in
	// Cyrillic or Greek is legitimate.
	Hiding bool
}

func (f Finding) String() string {
	return fmt.Sprintf("%s %s at byte %d", f.Category, f.Codepoint, f.Offset)
}

// Scan reports every suspicious code point in input, in order.
func Scan(input string) []Finding {
	var findings []Finding

	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])

		if r == utf8.RuneError && size == 1 {
			findings = append(findings, Finding{
				Category:  "invalid-utf8",
				Codepoint: fmt.Sprintf("0x%02X", input[i]),
				Offset:    i,
				Hiding:    true,
			})
			i++
			continue
		}

		if cat := classify(r); cat != "" {
			findings = append(findings, Finding{
				Category:  cat,
				Codepoint: fmt.Sprintf("U+%04X", r),
				Offset:    i,
				Hiding:    cat != "homoglyph",
			})
		}
		i += size
	}

	return findings
}

// HasHidden reports whether input contains any hiding character.
func HasHidden(input string) (Finding, bool) {
	for _, f := range Scan(input) {
		if f.Hiding {
			return f, true
		}
	}
	return Finding{}, false
}

func classify(r rune) string {
	switch {
	case isZeroWidth(r):
		return "zero-width"
	case isBidiOverride(r):
		return "bidi-override"
	case r >= 0xE0001 && r <= 0xE007F:
		return "tag-char"
	case isUnsafeControl(r):
		return "control-char"
	case isHomoglyph(r):
		return "homoglyph"
	}
	return ""
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200B', // ZERO WIDTH SPACE
		'\u200C', // ZERO WIDTH NON-JOINER
		'\u200D', // ZERO WIDTH JOINER
		'\uFEFF', // ZERO WIDTH NO-BREAK SPACE (BOM)
		'\u2060', // WORD JOINER
		'\u180E', // MONGOLIAN VOWEL SEPARATOR
		'\u200E', // LEFT-TO-RIGHT MARK
		'\u200F': // RIGHT-TO-LEFT MARK
		return true
	}
	return false
}

func isBidiOverride(r rune) bool {
	return (r >= '\u202A' && r <= '\u202E') || (r >= '\u2066' && r <= '\u2069')
}

func isUnsafeControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return r <= 0x1F || r == 0x7F || (r >= 0x80 && r <= 0x9F)
}

// Cyrillic and Greek letters that render like Latin ones.
var homoglyphs = map[rune]bool{
	'а': true, 'А': true, 'В': true, 'с': true, 'С': true, 'е': true, 'Е': true,
	'Н': true, 'і': true, 'І': true, 'К': true, 'М': true, 'о': true, 'О': true,
	'р': true, 'Р': true, 'Т': true, 'х': true, 'Х': true, 'у': true, 'У': true,
	'Α': true, 'Β': true, 'Ε': true, 'Η': true, 'Ι': true, 'Κ': true, 'Μ': true,
	'Ν': true, 'Ο': true, 'ο': true, 'Ρ': true, 'Τ': true, 'Χ': true, 'Υ': true,
	'Ζ': true,
}

func isHomoglyph(r rune) bool {
	if !unicode.In(r, unicode.Cyrillic, unicode.Greek) {
		return false
	}
	return homoglyphs[r]
}
