package engine

// VoteState is the acting user's stance on one target, derived from the
// presence and type of a VoteRecord in the store.
type VoteState int

const (
	StateNone VoteState = iota
	StateUp
	StateDown
)

func (s VoteState) String() string {
	switch s {
	case StateUp:
		return "up"
	case StateDown:
		return "down"
	default:
		return "none"
	}
}

// Direction is a requested vote action.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
)

func (d Direction) String() string {
	if d == DirectionDown {
		return "down"
	}
	return "up"
}

// state returns the vote state a direction lands in when applied from None.
func (d Direction) state() VoteState {
	if d == DirectionDown {
		return StateDown
	}
	return StateUp
}

// Change is the outcome of one vote transition: the next state and the
// count deltas to apply to the target.
type Change struct {
	Next      VoteState
	DeltaUp   int
	DeltaDown int
}

// Transition maps (current state, requested direction) to the next state
// and count deltas. Clicking the active direction again removes the vote;
// clicking the opposite direction switches it. The function is total over
// its input space and has no hidden state, so identical inputs always
// yield identical outputs.
func Transition(current VoteState, requested Direction) Change {
	switch {
	case current == StateNone:
		if requested == DirectionUp {
			return Change{Next: StateUp, DeltaUp: 1}
		}
		return Change{Next: StateDown, DeltaDown: 1}
	case current == StateUp && requested == DirectionUp:
		return Change{Next: StateNone, DeltaUp: -1}
	case current == StateDown && requested == DirectionDown:
		return Change{Next: StateNone, DeltaDown: -1}
	case current == StateUp && requested == DirectionDown:
		return Change{Next: StateDown, DeltaUp: -1, DeltaDown: 1}
	default: // StateDown, DirectionUp
		return Change{Next: StateUp, DeltaUp: 1, DeltaDown: -1}
	}
}
