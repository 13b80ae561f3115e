package executor

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/gridgate/internal/state"
)

// Report is the outcome of a run: the final state of every node and the
// error recorded for each node that did not succeed.
type Report struct {
	States map[string]state.State
	Errors map[string]error
}

func (e *Executor) report(ctx context.Context) (*Report, error) {
	states, err := e.store.Statuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read final statuses: %w", err)
	}
	r := &Report{States: make(map[string]state.State), Errors: make(map[string]error)}
	for _, n := range e.graph.Nodes() {
		id := n.ID()
		r.States[id] = states[id]
		nodeErr, err := e.store.GetError(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to read error of %s: %w", id, err)
		}
		if nodeErr != nil {
			r.Errors[id] = nodeErr
		}
	}
	return r, nil
}

// Failed returns the sorted IDs of nodes that failed or timed out.
func (r *Report) Failed() []string {
	return r.where(func(s state.State) bool { return s == state.Failed || s == state.TimedOut })
}

// NotRun returns the sorted IDs of nodes whose trigger was not satisfied.
func (r *Report) NotRun() []string {
	return r.where(func(s state.State) bool { return s == state.TriggerFailed })
}

// Paused returns the sorted IDs of nodes waiting for a manual resume.
func (r *Report) Paused() []string {
	return r.where(func(s state.State) bool { return s == state.Paused })
}

// Blocked returns the sorted IDs of nodes that never became ready because an
// upstream is paused.
func (r *Report) Blocked() []string {
	return r.where(func(s state.State) bool { return s == state.Pending })
}

// Count returns how many nodes ended in s.
func (r *Report) Count(s state.State) int {
	return len(r.where(func(other state.State) bool { return other == s }))
}

func (r *Report) where(pred func(state.State) bool) []string {
	var ids []string
	for id, s := range r.States {
		if pred(s) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
