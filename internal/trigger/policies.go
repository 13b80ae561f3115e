package trigger

import (
	"context"
	"fmt"

	"github.com/vk/gridgate/internal/runctx"
	"github.com/vk/gridgate/internal/state"
)

// AllFinished is satisfied when every upstream state is finished, whatever
// its outcome.
func AllFinished(_ context.Context, upstream state.UpstreamSet) (Result, error) {
	if err := validate(upstream); err != nil {
		return Result{}, err
	}
	if !all(upstream, state.Upstream.IsFinished) {
		return Fail(`trigger was "all_finished" but some of the upstream tasks were not finished`), nil
	}
	return Satisfy(), nil
}

// AlwaysRun still waits for every upstream to finish; it is AllFinished under
// another name.
var AlwaysRun Func = AllFinished

// AllSuccessful is satisfied when every upstream state is successful. Skipped
// counts as a success and TriggerFailed as a failure.
func AllSuccessful(_ context.Context, upstream state.UpstreamSet) (Result, error) {
	if err := validate(upstream); err != nil {
		return Result{}, err
	}
	if !all(upstream, state.Upstream.IsSuccessful) {
		return Fail(`trigger was "all_successful" but some of the upstream tasks failed`), nil
	}
	return Satisfy(), nil
}

// AllFailed is satisfied when every upstream state failed.
func AllFailed(_ context.Context, upstream state.UpstreamSet) (Result, error) {
	if err := validate(upstream); err != nil {
		return Result{}, err
	}
	if !all(upstream, state.Upstream.IsFailed) {
		return Fail(`trigger was "all_failed" but some of the upstream tasks succeeded`), nil
	}
	return Satisfy(), nil
}

// AnySuccessful is satisfied when at least one upstream state is successful.
func AnySuccessful(_ context.Context, upstream state.UpstreamSet) (Result, error) {
	if err := validate(upstream); err != nil {
		return Result{}, err
	}
	if upstream.Count(state.Upstream.IsSuccessful) == 0 {
		return Fail(`trigger was "any_successful" but none of the upstream tasks succeeded`), nil
	}
	return Satisfy(), nil
}

// AnyFailed is satisfied when at least one upstream state failed.
func AnyFailed(_ context.Context, upstream state.UpstreamSet) (Result, error) {
	if err := validate(upstream); err != nil {
		return Result{}, err
	}
	if upstream.Count(state.Upstream.IsFailed) == 0 {
		return Fail(`trigger was "any_failed" but none of the upstream tasks failed`), nil
	}
	return Satisfy(), nil
}

// ManualOnly never lets a step run on its own. It pauses unless the
// evaluation context carries the resume flag, and ignores upstream entirely.
func ManualOnly(ctx context.Context, _ state.UpstreamSet) (Result, error) {
	if runctx.Resumed(ctx) {
		return Satisfy(), nil
	}
	return Pause(`trigger function is "manual_only"`), nil
}

// SomeFailed binds b and returns a trigger satisfied when the number of
// failed upstream states falls within b, inclusive.
func SomeFailed(b Bounds) Func {
	return func(_ context.Context, upstream state.UpstreamSet) (Result, error) {
		return EvaluateSomeFailed(b, upstream)
	}
}

// EvaluateSomeFailed resolves b against the size of upstream and checks the
// failure count against it.
func EvaluateSomeFailed(b Bounds, upstream state.UpstreamSet) (Result, error) {
	if err := validate(upstream); err != nil {
		return Result{}, err
	}
	atLeast, atMost, err := b.Resolve(len(upstream))
	if err != nil {
		return Result{}, err
	}

	failed := float64(upstream.Count(state.Upstream.IsFailed))
	if failed < atLeast || failed > atMost {
		return Fail(fmt.Sprintf(
			`trigger was "some_failed" but %d of %d upstream tasks failed, outside [%g, %g]`,
			int(failed), len(upstream), atLeast, atMost,
		)), nil
	}
	return Satisfy(), nil
}

func all(upstream state.UpstreamSet, pred func(state.Upstream) bool) bool {
	return upstream.Count(pred) == len(upstream)
}

func validate(upstream state.UpstreamSet) error {
	for i, u := range upstream {
		if u == nil {
			return fmt.Errorf("%w: member %d is nil", ErrInvalidUpstream, i)
		}
	}
	return nil
}
