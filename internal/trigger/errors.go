package trigger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSatisfied matches a SignalError of kind NotSatisfied.
	ErrNotSatisfied = errors.New("trigger not satisfied")
	// ErrPausedForResume matches a SignalError of kind PausedPendingResume.
	ErrPausedForResume = errors.New("paused pending resume")

	ErrInvalidBounds   = errors.New("invalid trigger bounds")
	ErrUnknownTrigger  = errors.New("unknown trigger")
	ErrInvalidUpstream = errors.New("invalid upstream state")
)

// SignalError is the error form of a negative Result, for callers that
// propagate outcomes as errors. Use errors.Is with ErrNotSatisfied or
// ErrPausedForResume to branch on it.
type SignalError struct {
	Kind   Kind
	Reason string
}

func (e *SignalError) Error() string {
	if e.Reason == "" {
		return e.Unwrap().Error()
	}
	return fmt.Sprintf("%s: %s", e.Unwrap().Error(), e.Reason)
}

func (e *SignalError) Unwrap() error {
	if e.Kind == PausedPendingResume {
		return ErrPausedForResume
	}
	return ErrNotSatisfied
}

// AsResult maps an error produced by Result.Err back to its Result. The
// second return value is false for nil and for errors that are not signals.
func AsResult(err error) (Result, bool) {
	var sig *SignalError
	if !errors.As(err, &sig) {
		return Result{}, false
	}
	return Result{Kind: sig.Kind, Reason: sig.Reason}, true
}
