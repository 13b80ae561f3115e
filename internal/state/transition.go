package state

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownState      = errors.New("unknown state")
	ErrInvalidTransition = errors.New("invalid state transition")
)

var allowed = map[State][]State{
	Pending:  {Running, Paused, TriggerFailed, Skipped, Failed},
	Paused:   {Resume, Pending},
	Resume:   {Running, Failed},
	Running:  {Success, Failed, TimedOut, Retrying},
	Retrying: {Running, Failed},
}

// Transition validates a move from one state to another.
func Transition(from, to State) error {
	for _, next := range allowed[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
