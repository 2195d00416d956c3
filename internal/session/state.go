// Package session owns the broadcast lifecycle: the narration cursor, the
// interrupt and resume protocol, and the serialization of speech synthesis.
package session

import "errors"

// State is the session lifecycle phase. Completed and Stopped are terminal.
type State string

const (
	StateIdle              State = "idle"
	StateReading           State = "reading"
	StatePausedForQuestion State = "paused_for_question"
	StateAnswering         State = "answering"
	StateCompleted         State = "completed"
	StateStopped           State = "stopped"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateStopped
}

// ErrInvalidTransition is returned when an operation is called from a state
// that does not permit it. The session state is left unchanged.
var ErrInvalidTransition = errors.New("invalid session state transition")
