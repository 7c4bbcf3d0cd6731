package entity

// Outcome is the result of checking a submitted code against a challenge.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeExpired
	OutcomeAttemptsExceeded
	OutcomeMismatch
	OutcomeVerified
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExpired:
		return "expired"
	case OutcomeAttemptsExceeded:
		return "attempts_exceeded"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeVerified:
		return "verified"
	default:
		return "not_found"
	}
}

// Decision tells a store what to do with a record after inspecting it atomically.
type Decision int

const (
	// DecisionKeep leaves the stored record untouched.
	DecisionKeep Decision = iota
	// DecisionSave writes back the inspected record, including in-place edits.
	DecisionSave
	// DecisionDelete removes the record.
	DecisionDelete
)
