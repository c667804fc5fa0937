package game

import "fmt"

// Reason identifies why an action was rejected.
type Reason string

const (
	ReasonNotYourTurn    Reason = "not-your-turn"
	ReasonCardNotOwned   Reason = "card-not-owned"
	ReasonSuitViolation  Reason = "suit-violation"
	ReasonIllegalOpening Reason = "must-play-ace-of-spades-first"
)

// ValidationError rejects an action synchronously without mutating state.
// Safe to retry with a different input.
type ValidationError struct {
	Reason Reason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// StateError rejects an action submitted against a room in an incompatible
// status. The action is a no-op.
type StateError struct {
	Status Status
	Action string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s while room is %s", e.Action, e.Status)
}

// IntegrityError flags a broken card-conservation invariant. Not locally
// recoverable; the room refuses further play until it is reset.
type IntegrityError struct {
	RoomID string
	Detail string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("room %s integrity violation: %s", e.RoomID, e.Detail)
}
