// Package node defines the runtime vertex of the execution graph: one
// configured step together with its resolved trigger and the counters the
// executor uses to schedule it.
package node

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/gridgate/internal/config"
	"github.com/vk/gridgate/internal/trigger"
)

// Node is a single vertex in the execution graph, representing one step.
// Execution state is not kept here; it lives in a nodestore.Store.
type Node struct {
	// id is the canonical identifier, e.g. "step.print.report".
	id string
	// Ref is the short "<runner_type>.<name>" form used in depends_on and
	// in the --resume flag.
	Ref string
	// Name is the human-readable instance name from the configuration.
	Name string
	// RunnerType names the registered runner that executes this step.
	RunnerType string
	// Arguments holds the unevaluated `arguments` body. It may be nil.
	Arguments hcl.Body
	// Timeout bounds a single execution. Zero means no limit.
	Timeout time.Duration

	// Trigger decides whether the step runs once its upstream is settled.
	Trigger trigger.Func
	// TriggerName is the configured trigger name, for logs and reports.
	TriggerName string

	// depCount is an atomic counter for unsettled dependencies.
	depCount atomic.Int32
	// settleOnce guarantees a node is settled exactly once.
	settleOnce sync.Once
}

// New creates a node for step, gated by fn.
func New(step *config.Step, fn trigger.Func, triggerName string) *Node {
	return &Node{
		id:          step.ID(),
		Ref:         step.Ref(),
		Name:        step.Name,
		RunnerType:  step.RunnerType,
		Arguments:   step.Arguments,
		Timeout:     step.Timeout,
		Trigger:     fn,
		TriggerName: triggerName,
	}
}

// ID returns the canonical string identifier of the node.
func (n *Node) ID() string {
	return n.id
}

// SetDepCount stores the number of dependencies that must settle before the
// node is ready.
func (n *Node) SetDepCount(count int32) {
	n.depCount.Store(count)
}

// DepCount atomically returns the current number of unsettled dependencies.
func (n *Node) DepCount() int32 {
	return n.depCount.Load()
}

// DecrementDepCount atomically decrements the dependency counter and returns the new value.
func (n *Node) DecrementDepCount() int32 {
	return n.depCount.Add(-1)
}

// Settle runs f exactly once for the node's lifetime and reports whether
// this call was the one that ran it.
func (n *Node) Settle(f func()) bool {
	var first bool
	n.settleOnce.Do(func() {
		f()
		first = true
	})
	return first
}
