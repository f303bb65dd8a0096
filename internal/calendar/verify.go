package calendar

// Verdict is the outcome of checking a claimed (event, date) pair.
type Verdict int

const (
	Mismatched Verdict = iota
	Matched
)

func (v Verdict) String() string {
	if v == Matched {
		return "matched"
	}
	return "mismatched"
}

const (
	verifiedPrompt   = "✅ I verified this date against your instructor's calendar. Please confirm before I save it."
	unverifiedPrompt = "⚠️ This date doesn't match the instructor's calendar. Do you still want to continue?"
)

// Verifier checks claimed dates against the store. It never writes to the
// audit log: a wrong date from a student is a data-quality problem, not an
// attack.
type Verifier struct {
	store *Store
}

func NewVerifier(store *Store) *Verifier {
	return &Verifier{store: store}
}

// Verify reports Matched only when event is in the calendar and its official
// date equals date byte for byte. Empty arguments count as absent.
func (v *Verifier) Verify(event, date string) Verdict {
	if event == "" || date == "" {
		return Mismatched
	}
	official, ok := v.store.Date(event)
	if !ok || official != date {
		return Mismatched
	}
	return Matched
}

// ConfirmationPrompt phrases the confirmation request for a claimed date.
func (v *Verifier) ConfirmationPrompt(event, date string) string {
	if v.Verify(event, date) == Matched {
		return verifiedPrompt
	}
	return unverifiedPrompt
}
