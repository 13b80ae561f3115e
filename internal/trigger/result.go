package trigger

import (
	"context"

	"github.com/vk/gridgate/internal/state"
)

// Func is the uniform signature shared by every trigger policy.
type Func func(ctx context.Context, upstream state.UpstreamSet) (Result, error)

// Kind is the outcome category of a trigger evaluation.
type Kind int

const (
	// Satisfied means the step may run.
	Satisfied Kind = iota
	// NotSatisfied means the policy's condition is false.
	NotSatisfied
	// PausedPendingResume means the step waits for a manual resume.
	PausedPendingResume
)

func (k Kind) String() string {
	switch k {
	case Satisfied:
		return "Satisfied"
	case NotSatisfied:
		return "NotSatisfied"
	case PausedPendingResume:
		return "PausedPendingResume"
	default:
		return "Unknown"
	}
}

// Result is the verdict of a trigger. Reason is empty when satisfied.
type Result struct {
	Kind   Kind
	Reason string
}

// Satisfy returns a Satisfied result.
func Satisfy() Result {
	return Result{Kind: Satisfied}
}

// Fail returns a NotSatisfied result carrying reason.
func Fail(reason string) Result {
	return Result{Kind: NotSatisfied, Reason: reason}
}

// Pause returns a PausedPendingResume result carrying reason.
func Pause(reason string) Result {
	return Result{Kind: PausedPendingResume, Reason: reason}
}

// Ok reports whether the step may run.
func (r Result) Ok() bool {
	return r.Kind == Satisfied
}

// Err converts a negative result into a *SignalError, or nil when satisfied.
func (r Result) Err() error {
	if r.Kind == Satisfied {
		return nil
	}
	return &SignalError{Kind: r.Kind, Reason: r.Reason}
}
