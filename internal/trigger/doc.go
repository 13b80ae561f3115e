// Package trigger implements the upstream-state gate evaluated before a step
// runs.
//
// A trigger receives the states of a step's direct dependencies and returns a
// Result with one of three kinds:
//
//   - Satisfied: the step may run now.
//   - NotSatisfied: the step must not run; the scheduler marks it TriggerFailed.
//   - PausedPendingResume: the step waits for a manual resume.
//
// A non-nil error is never a trigger outcome. It means the gate itself is
// broken (for example malformed bounds) and the step fails as a gate fault.
//
// Every trigger is pure. The only ambient input is the resume flag read from
// the evaluation context by ManualOnly, see runctx.WithResume.
package trigger
