package graph

import (
	"context"
	"fmt"

	"github.com/vk/gridgate/internal/config"
	"github.com/vk/gridgate/internal/hclgrid"
	"github.com/vk/gridgate/internal/node"
	"github.com/vk/gridgate/internal/runctx"
	"github.com/vk/gridgate/internal/trigger"
)

// Build constructs a complete, validated dependency graph from a config model.
func Build(ctx context.Context, model *config.Model) (*Graph, error) {
	logger := runctx.Logger(ctx)
	logger.Debug("Build: Starting graph construction.")
	g := New()

	if model == nil || model.Grid == nil {
		return g, nil
	}

	// First pass: create all nodes with their resolved triggers.
	for _, step := range model.Grid.Steps {
		fn, name, err := resolveTrigger(step)
		if err != nil {
			return nil, &Error{NodeID: step.ID(), Err: err}
		}
		if err := g.AddNode(node.New(step, fn, name)); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Node creation complete.", "node_count", g.Len())

	// Second pass: link explicit and implicit dependencies.
	for _, step := range model.Grid.Steps {
		if err := linkStep(ctx, g, step); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Node linking complete.")

	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	// Third pass: initialize counters.
	for _, n := range g.Nodes() {
		deps, _ := g.Dependencies(n.ID())
		n.SetDepCount(int32(len(deps)))
	}
	logger.Debug("Build: Graph construction successful.")
	return g, nil
}

// resolveTrigger turns a step's trigger block into a trigger.Func.
func resolveTrigger(step *config.Step) (trigger.Func, string, error) {
	if step.Trigger == nil {
		fn, err := trigger.Lookup(trigger.DefaultName, trigger.Bounds{})
		return fn, trigger.DefaultName, err
	}

	var opts []trigger.BoundOption
	if step.Trigger.AtLeast != nil {
		opts = append(opts, trigger.WithAtLeast(*step.Trigger.AtLeast))
	}
	if step.Trigger.AtMost != nil {
		opts = append(opts, trigger.WithAtMost(*step.Trigger.AtMost))
	}
	bounds, err := trigger.NewBounds(opts...)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidTrigger, err)
	}

	fn, err := trigger.Lookup(step.Trigger.Name, bounds)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidTrigger, err)
	}
	name := step.Trigger.Name
	if name == "" {
		name = trigger.DefaultName
	}
	return fn, name, nil
}

// linkStep adds the edges for one step's depends_on list and for every
// `step.<runner_type>.<name>` traversal in its arguments.
func linkStep(ctx context.Context, g *Graph, step *config.Step) error {
	logger := runctx.Logger(ctx).With("node_id", step.ID())

	implicit, err := hclgrid.StepRefs(step.Arguments)
	if err != nil {
		return &Error{NodeID: step.ID(), Err: err}
	}

	link := func(ref, kind string) error {
		depID := "step." + config.NormalizeRef(ref)
		if _, ok := g.Node(depID); !ok {
			return &Error{NodeID: step.ID(), Err: fmt.Errorf("%w: %s dependency %q does not exist", ErrUnknownDependency, kind, ref)}
		}
		logger.Debug("Linking dependency.", "kind", kind, "from", depID)
		return g.AddEdge(depID, step.ID())
	}

	for _, ref := range step.DependsOn {
		if err := link(ref, "explicit"); err != nil {
			return err
		}
	}
	for _, ref := range implicit {
		if err := link(ref, "implicit"); err != nil {
			return err
		}
	}
	return nil
}
