// Package nodestore defines the interface for storing and retrieving the
// mutable execution state of nodes during a run.
//
// # Why Node Store Exists
//
// The node store isolates execution state (status, outputs, errors) from the
// static DAG structure held by the graph package. The graph is written once
// by graph.Build; the store is written continuously by the executor.
//
// # Lifecycle and Usage
//
// The node store is:
//  1. Created once per run (ephemeral, not persistent across runs)
//  2. Mutated by the executor as nodes move through their states
//  3. Read by the executor to assemble each gate's upstream set and each
//     step's evaluation context
//  4. Snapshotted into the final run report
//
// # State Transitions
//
// Status changes made through Transition are validated by state.Transition:
//
//	pending → running → success | failed | timed_out
//	pending → trigger_failed
//	pending → paused → resume → running
package nodestore

import (
	"context"

	"github.com/vk/gridgate/internal/state"
	"github.com/zclconf/go-cty/cty"
)

// Store manages the mutable execution state of nodes. Implementations must
// be safe for concurrent use by many workers.
type Store interface {
	// SetStatus records status for a node without validation.
	SetStatus(ctx context.Context, id string, status state.State) error

	// GetStatus returns the current status of a node, or state.Pending if
	// none has been recorded.
	GetStatus(ctx context.Context, id string) (state.State, error)

	// Transition atomically moves a node to the given status. It returns an
	// error wrapping state.ErrInvalidTransition if the move is not allowed
	// from the node's current status.
	Transition(ctx context.Context, id string, to state.State) error

	// SetOutput records the output produced by a successful node.
	SetOutput(ctx context.Context, id string, output cty.Value) error

	// GetOutput returns the recorded output, or cty.NilVal if there is none.
	GetOutput(ctx context.Context, id string) (cty.Value, error)

	// SetError records why a node failed.
	SetError(ctx context.Context, id string, nodeErr error) error

	// GetError returns the recorded error, or nil.
	GetError(ctx context.Context, id string) (error, error)

	// Statuses returns a copy of every recorded status keyed by node ID.
	Statuses(ctx context.Context) (map[string]state.State, error)
}
