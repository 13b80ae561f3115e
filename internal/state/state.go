// Package state defines the terminal and in-flight states a step can be in,
// and the three capability queries the trigger gate relies on.
//
// # Categories
//
// The gate never looks at a concrete state directly. It asks three questions:
//
//   - IsFinished: the step reached a terminal outcome for this run.
//   - IsSuccessful: the outcome counts as a success for its dependents.
//   - IsFailed: the outcome counts as a failure for its dependents.
//
// Skipped counts as finished and successful. TriggerFailed counts as finished
// and failed. Pending, Running, Retrying, Paused and Resume are not finished.
package state

import (
	"fmt"
	"strings"
)

// Upstream is the read-only view of one predecessor's outcome.
type Upstream interface {
	IsFinished() bool
	IsSuccessful() bool
	IsFailed() bool
}

// UpstreamSet holds one Upstream per direct predecessor. Order is irrelevant.
type UpstreamSet []Upstream

// Count returns how many members satisfy pred.
func (s UpstreamSet) Count(pred func(Upstream) bool) int {
	n := 0
	for _, u := range s {
		if pred(u) {
			n++
		}
	}
	return n
}

// State is the concrete execution state of a step.
type State int32

const (
	// Pending indicates the step is waiting for its dependencies.
	Pending State = iota
	// Running indicates a worker is executing the step.
	Running
	// Retrying indicates the step failed and will be attempted again.
	Retrying
	// Paused indicates the step's trigger requires a manual resume.
	Paused
	// Resume indicates a paused step was released and is about to run.
	Resume
	// Success indicates the step completed successfully.
	Success
	// Cached indicates the step's previous result was reused.
	Cached
	// Skipped indicates the step was deliberately not run.
	Skipped
	// Failed indicates the step's handler returned an error.
	Failed
	// TimedOut indicates the step exceeded its time budget.
	TimedOut
	// TriggerFailed indicates the step's trigger was not satisfied.
	TriggerFailed
)

var names = map[State]string{
	Pending:       "pending",
	Running:       "running",
	Retrying:      "retrying",
	Paused:        "paused",
	Resume:        "resume",
	Success:       "success",
	Cached:        "cached",
	Skipped:       "skipped",
	Failed:        "failed",
	TimedOut:      "timed_out",
	TriggerFailed: "trigger_failed",
}

func (s State) String() string {
	if name, ok := names[s]; ok {
		return name
	}
	return "unknown"
}

// IsFinished reports whether s is a terminal outcome.
func (s State) IsFinished() bool {
	return s.IsSuccessful() || s.IsFailed()
}

// IsSuccessful reports whether s satisfies a dependency as a success.
func (s State) IsSuccessful() bool {
	switch s {
	case Success, Cached, Skipped:
		return true
	default:
		return false
	}
}

// IsFailed reports whether s counts as a failure for dependents.
func (s State) IsFailed() bool {
	switch s {
	case Failed, TimedOut, TriggerFailed:
		return true
	default:
		return false
	}
}

// ParseState returns the State with the given name, ignoring case.
func ParseState(name string) (State, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for s, n := range names {
		if n == key {
			return s, nil
		}
	}
	return Pending, fmt.Errorf("%w: %q", ErrUnknownState, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if _, ok := names[s]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownState, int32(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
