package deploy

// State is one stage of a deployment attempt. Each attempt walks
// Preparing → AwaitingSignature → Submitting → Confirming → Verifying →
// Complete, or drops into Failed from any non-terminal stage.
type State int

const (
	StatePreparing State = iota
	StateAwaitingSignature
	StateSubmitting
	StateConfirming
	StateVerifying
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePreparing:
		return "preparing"
	case StateAwaitingSignature:
		return "awaiting-signature"
	case StateSubmitting:
		return "submitting"
	case StateConfirming:
		return "confirming"
	case StateVerifying:
		return "verifying"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can follow.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateFailed
}
