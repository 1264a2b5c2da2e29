package similarity

// Context selects the grading policy.
type Context string

const (
	// ContextBattle grades on the acoustic score alone.
	ContextBattle Context = "battle"
	// ContextPractice grades on an exact, case-insensitive text match.
	ContextPractice Context = "practice"
)

// BattleThreshold is the minimum overall score accepted in battle mode.
const BattleThreshold = 0.7

// ParseContext maps a request value to a Context. Anything other than
// exactly "battle" grades as practice.
func ParseContext(s string) Context {
	if Context(s) == ContextBattle {
		return ContextBattle
	}
	return ContextPractice
}

// Decide returns the correctness verdict for one attempt.
func Decide(ctx Context, overall float64, transcript, expected string) bool {
	if ctx == ContextBattle {
		return overall >= BattleThreshold
	}
	return normalize(transcript) == normalize(expected)
}
