package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
)

// Model is the unified, format-agnostic representation of a grid.
type Model struct {
	Grid *Grid
}

// Grid represents the user's execution graph definition.
type Grid struct {
	Steps []*Step
}

// Step is the format-agnostic representation of a `step` block.
type Step struct {
	RunnerType string
	Name       string
	// Trigger is nil when the step uses the default trigger.
	Trigger *Trigger
	// Arguments is the raw body of the `arguments` block, decoded into the
	// runner's input struct at execution time. It may be nil.
	Arguments hcl.Body
	// DependsOn lists explicit dependencies as "<runner_type>.<name>".
	DependsOn []string
	// Timeout bounds a single execution of the step. Zero means no limit.
	Timeout time.Duration
}

// Trigger is the format-agnostic representation of a `trigger` block.
type Trigger struct {
	Name    string
	AtLeast *float64
	AtMost  *float64
}

// Ref returns the "<runner_type>.<name>" reference used by depends_on and
// by the --resume flag.
func (s *Step) Ref() string {
	return fmt.Sprintf("%s.%s", s.RunnerType, s.Name)
}

// ID returns the canonical node identifier for the step.
func (s *Step) ID() string {
	return "step." + s.Ref()
}

// NormalizeRef accepts either "<runner>.<name>" or "step.<runner>.<name>"
// and returns the short form.
func NormalizeRef(ref string) string {
	return strings.TrimPrefix(strings.TrimSpace(ref), "step.")
}
