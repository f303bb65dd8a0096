package guardian

import (
	"fmt"

	unicheck "github.com/gzhole/remindshield/internal/unicode"
)

// DefaultMaxInputBytes bounds request text so regex cost stays predictable.
const DefaultMaxInputBytes = 4096

// LengthRule rejects input longer than Max bytes. It is terminal: once it
// fires no regex runs over the oversized text.
type LengthRule struct {
	Max int
}

func (r LengthRule) ID() string       { return "max-input-length" }
func (r LengthRule) Category() string { return CategoryResource }
func (r LengthRule) Describe() string { return fmt.Sprintf("input longer than %d bytes", r.Max) }
func (r LengthRule) Terminal() bool   { return true }

func (r LengthRule) Matches(text string) bool {
	return r.Max > 0 && len(text) > r.Max
}

// HiddenTextRule rejects zero-width, bidi-override, tag and control
// characters that can hide a payload from whoever reads the request.
type HiddenTextRule struct{}

func (HiddenTextRule) ID() string       { return "hidden-unicode" }
func (HiddenTextRule) Category() string { return CategoryObfuscation }
func (HiddenTextRule) Describe() string {
	return "invisible or direction-changing unicode characters"
}

func (HiddenTextRule) Matches(text string) bool {
	_, found := unicheck.HasHidden(text)
	return found
}
