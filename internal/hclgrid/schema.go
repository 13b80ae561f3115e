package hclgrid

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all top-level blocks allowed in a grid file.
type fileRoot struct {
	Steps []*stepBlock `hcl:"step,block"`
}

// stepBlock is a `step "<runner_type>" "<name>" { ... }` block.
type stepBlock struct {
	RunnerType string        `hcl:"runner_type,label"`
	Name       string        `hcl:"instance_name,label"`
	Trigger    *triggerBlock `hcl:"trigger,block"`
	Arguments  *argsBlock    `hcl:"arguments,block"`
	DependsOn  []string      `hcl:"depends_on,optional"`
	Timeout    *string       `hcl:"timeout,optional"`
}

// triggerBlock is a `trigger "<name>" { at_least = ..., at_most = ... }` block.
type triggerBlock struct {
	Name    string   `hcl:"name,label"`
	AtLeast *float64 `hcl:"at_least,optional"`
	AtMost  *float64 `hcl:"at_most,optional"`
}

// argsBlock keeps the `arguments` body undecoded until execution time, when
// upstream outputs are available in the evaluation context.
type argsBlock struct {
	Body hcl.Body `hcl:",remain"`
}
