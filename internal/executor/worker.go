package executor

import (
	"context"
	"fmt"

	"github.com/vk/gridgate/internal/node"
	"github.com/vk/gridgate/internal/runctx"
	"github.com/vk/gridgate/internal/scheduler"
	"github.com/vk/gridgate/internal/state"
	"github.com/vk/gridgate/internal/trigger"
)

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *node.Node, workerID int) {
	logger := runctx.Logger(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for n := range readyChan {
		nodeCtx := runctx.WithLogger(ctx, logger.With("workerID", workerID, "nodeID", n.ID()))
		n.Settle(func() {
			defer e.wg.Done()
			e.process(nodeCtx, n, readyChan)
		})
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// process gates and, if allowed, executes one ready node.
func (e *Executor) process(ctx context.Context, n *node.Node, readyChan chan<- *node.Node) {
	logger := runctx.Logger(ctx)

	if err := ctx.Err(); err != nil {
		logger.Warn("Context canceled, not running node.")
		e.finish(ctx, n, state.Failed, err, readyChan)
		return
	}

	upstream, err := e.upstream(ctx, n)
	if err != nil {
		e.finish(ctx, n, state.Failed, err, readyChan)
		return
	}

	decision, err := scheduler.Gate(ctx, n, upstream, e.resumes(n))
	if err != nil {
		logger.Error("Trigger evaluation failed.", "error", err)
		e.finish(ctx, n, state.Failed, err, readyChan)
		return
	}

	switch decision.Action {
	case scheduler.NotRun:
		logger.Info("⏭️ Trigger not satisfied, step will not run.", "trigger", n.TriggerName, "reason", decision.Reason)
		e.finish(ctx, n, state.TriggerFailed, &trigger.SignalError{Kind: trigger.NotSatisfied, Reason: decision.Reason}, readyChan)
	case scheduler.Park:
		logger.Info("⏸️ Step paused pending resume.", "step", n.Ref, "reason", decision.Reason)
		if err := e.store.Transition(ctx, n.ID(), state.Paused); err != nil {
			e.finish(ctx, n, state.Failed, err, readyChan)
			return
		}
		_ = e.store.SetError(ctx, n.ID(), &trigger.SignalError{Kind: trigger.PausedPendingResume, Reason: decision.Reason})
		e.blockDependents(ctx, n)
	case scheduler.Run:
		if decision.Resumed {
			if err := e.resumeNode(ctx, n); err != nil {
				e.finish(ctx, n, state.Failed, err, readyChan)
				return
			}
		}
		if err := e.store.Transition(ctx, n.ID(), state.Running); err != nil {
			e.finish(ctx, n, state.Failed, err, readyChan)
			return
		}
		final, output, err := e.runStep(ctx, n)
		if final == state.Success {
			_ = e.store.SetOutput(ctx, n.ID(), output)
		}
		e.finish(ctx, n, final, err, readyChan)
	}
}

// upstream collects the current states of n's direct dependencies.
func (e *Executor) upstream(ctx context.Context, n *node.Node) (state.UpstreamSet, error) {
	deps, err := e.graph.Dependencies(n.ID())
	if err != nil {
		return nil, err
	}
	set := make(state.UpstreamSet, 0, len(deps))
	for _, depID := range deps {
		s, err := e.store.GetStatus(ctx, depID)
		if err != nil {
			return nil, fmt.Errorf("failed to read status of %s: %w", depID, err)
		}
		set = append(set, s)
	}
	return set, nil
}

func (e *Executor) resumes(n *node.Node) bool {
	_, ok := e.resume[n.Ref]
	return ok
}

// resumeNode records the pending → paused → resume path of a released node.
func (e *Executor) resumeNode(ctx context.Context, n *node.Node) error {
	if err := e.store.Transition(ctx, n.ID(), state.Paused); err != nil {
		return err
	}
	return e.store.Transition(ctx, n.ID(), state.Resume)
}

// finish records a terminal state and releases the node's dependents.
func (e *Executor) finish(ctx context.Context, n *node.Node, final state.State, nodeErr error, readyChan chan<- *node.Node) {
	logger := runctx.Logger(ctx)

	if err := e.store.Transition(ctx, n.ID(), final); err != nil {
		// Record it anyway so the node is reported as settled.
		logger.Error("Invalid state transition.", "to", final, "error", err)
		_ = e.store.SetStatus(ctx, n.ID(), final)
	}
	if nodeErr != nil {
		_ = e.store.SetError(ctx, n.ID(), nodeErr)
	}

	switch final {
	case state.Success:
		logger.Info("✅ Step succeeded.", "step", n.Ref)
	case state.Failed, state.TimedOut:
		logger.Error("❌ Step failed.", "step", n.Ref, "state", final, "error", nodeErr)
	}

	dependents, err := e.graph.Dependents(n.ID())
	if err != nil {
		logger.Error("Failed to get dependents for settled node.", "error", err)
		return
	}
	for _, id := range dependents {
		dependent, ok := e.graph.Node(id)
		if !ok {
			continue
		}
		if dependent.DecrementDepCount() == 0 {
			logger.Debug("Unlocking dependent node.", "dependentID", id)
			readyChan <- dependent
		}
	}
}

// blockDependents settles every transitive dependent of a paused node
// without gating it. Blocked nodes stay pending.
func (e *Executor) blockDependents(ctx context.Context, n *node.Node) {
	logger := runctx.Logger(ctx)
	dependents, err := e.graph.Dependents(n.ID())
	if err != nil {
		logger.Error("Failed to get dependents for paused node.", "error", err)
		return
	}
	for _, id := range dependents {
		dependent, ok := e.graph.Node(id)
		if !ok {
			continue
		}
		dependent.Settle(func() {
			logger.Warn("Step blocked by paused upstream.", "step", dependent.Ref, "upstream", n.Ref)
			e.wg.Done()
			e.blockDependents(ctx, dependent)
		})
	}
}
