package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/gridgate/internal/node"
	"github.com/vk/gridgate/internal/runctx"
	"github.com/vk/gridgate/internal/state"
	"github.com/vk/gridgate/internal/trigger"
)

var (
	ErrNoTrigger   = errors.New("node has no trigger")
	ErrUnknownKind = errors.New("trigger returned an unknown result kind")
)

// Action is what the executor should do with a gated node.
type Action int

const (
	// Run executes the node.
	Run Action = iota
	// NotRun marks the node trigger_failed without executing it.
	NotRun
	// Park leaves the node paused pending a manual resume.
	Park
)

func (a Action) String() string {
	switch a {
	case Run:
		return "run"
	case NotRun:
		return "not_run"
	case Park:
		return "park"
	default:
		return "unknown"
	}
}

// Decision is the outcome of gating one node.
type Decision struct {
	Action Action
	// Reason explains NotRun and Park decisions.
	Reason string
	// Resumed is true when the node paused and was released by the resume set.
	Resumed bool
}

// Gate evaluates n's trigger against its upstream set. When the trigger
// pauses and resume is true, the trigger is evaluated again with the resume
// flag set in ctx.
func Gate(ctx context.Context, n *node.Node, upstream state.UpstreamSet, resume bool) (Decision, error) {
	logger := runctx.Logger(ctx).With("node_id", n.ID(), "trigger", n.TriggerName)
	if n.Trigger == nil {
		return Decision{}, fmt.Errorf("%s: %w", n.ID(), ErrNoTrigger)
	}

	res, err := n.Trigger(ctx, upstream)
	if err != nil {
		return Decision{}, fmt.Errorf("trigger %q of %s: %w", n.TriggerName, n.ID(), err)
	}

	if res.Kind == trigger.PausedPendingResume && resume {
		logger.Debug("Trigger paused, re-evaluating with resume.", "reason", res.Reason)
		res, err = n.Trigger(runctx.WithResume(ctx, true), upstream)
		if err != nil {
			return Decision{}, fmt.Errorf("trigger %q of %s on resume: %w", n.TriggerName, n.ID(), err)
		}
		if res.Kind == trigger.Satisfied {
			logger.Info("▶️ Gate opened by resume.")
			return Decision{Action: Run, Resumed: true}, nil
		}
	}

	d, err := decide(res)
	if err != nil {
		return Decision{}, fmt.Errorf("trigger %q of %s: %w", n.TriggerName, n.ID(), err)
	}
	logger.Debug("Gate verdict.", "action", d.Action, "reason", d.Reason)
	return d, nil
}

func decide(res trigger.Result) (Decision, error) {
	switch res.Kind {
	case trigger.Satisfied:
		return Decision{Action: Run}, nil
	case trigger.NotSatisfied:
		return Decision{Action: NotRun, Reason: res.Reason}, nil
	case trigger.PausedPendingResume:
		return Decision{Action: Park, Reason: res.Reason}, nil
	default:
		return Decision{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(res.Kind))
	}
}
