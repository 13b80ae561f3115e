package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/gridgate/internal/config"
	"github.com/vk/gridgate/internal/graph"
	"github.com/vk/gridgate/internal/node"
	"github.com/vk/gridgate/internal/nodestore"
	"github.com/vk/gridgate/internal/runctx"
	"github.com/vk/gridgate/internal/state"
	"github.com/zclconf/go-cty/cty"
)

// ErrStepsFailed is returned by Run when at least one step failed or timed out.
var ErrStepsFailed = errors.New("steps failed")

// Invoker executes the runner behind a step.
type Invoker interface {
	Invoke(ctx context.Context, runnerType string, body hcl.Body, evalCtx *hcl.EvalContext) (cty.Value, error)
}

// Executor runs the nodes of a graph concurrently.
type Executor struct {
	graph      *graph.Graph
	store      nodestore.Store
	invoker    Invoker
	numWorkers int
	resume     map[string]struct{}

	wg sync.WaitGroup
}

// Option configures an Executor.
type Option func(*Executor)

// WithResume releases paused steps, given as "<runner_type>.<name>" or
// "step.<runner_type>.<name>", when their trigger pauses.
func WithResume(refs ...string) Option {
	return func(e *Executor) {
		for _, ref := range refs {
			e.resume[config.NormalizeRef(ref)] = struct{}{}
		}
	}
}

// New creates an executor. numWorkers below 1 is treated as 1.
func New(g *graph.Graph, store nodestore.Store, invoker Invoker, numWorkers int, opts ...Option) *Executor {
	if numWorkers < 1 {
		numWorkers = 1
	}
	e := &Executor{
		graph:      g,
		store:      store,
		invoker:    invoker,
		numWorkers: numWorkers,
		resume:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the entire graph and returns the final report. The error is
// non-nil when a step failed or timed out; trigger_failed and paused steps
// are not errors.
func (e *Executor) Run(ctx context.Context) (*Report, error) {
	logger := runctx.Logger(ctx)
	nodes := e.graph.Nodes()

	for ref := range e.resume {
		if _, ok := e.graph.Node("step." + ref); !ok {
			logger.Warn("Resume requested for unknown step.", "step", ref)
		}
	}

	readyChan := make(chan *node.Node, len(nodes))

	logger.Debug("Initializing executor, finding root nodes...")
	rootNodeCount := 0
	for _, n := range nodes {
		if err := e.store.SetStatus(ctx, n.ID(), state.Pending); err != nil {
			return nil, fmt.Errorf("failed to initialize status of %s: %w", n.ID(), err)
		}
		if n.DepCount() == 0 {
			logger.Debug("Found root node.", "nodeID", n.ID())
			readyChan <- n
			rootNodeCount++
		}
	}
	logger.Debug("Found all root nodes.", "count", rootNodeCount)

	e.wg.Add(len(nodes))

	logger.Debug("Starting worker pool.", "workers", e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(ctx, readyChan, i)
	}

	logger.Debug("Waiting for all nodes to settle...")
	e.wg.Wait()
	close(readyChan)

	report, err := e.report(ctx)
	if err != nil {
		return nil, err
	}

	failed := report.Failed()
	if len(failed) == 0 {
		return report, nil
	}
	for _, id := range failed {
		logger.Error("Node failed execution.", "nodeID", id, "error", report.Errors[id])
	}
	return report, fmt.Errorf("%w: %s: %w", ErrStepsFailed, strings.Join(failed, ", "), report.Errors[failed[0]])
}
