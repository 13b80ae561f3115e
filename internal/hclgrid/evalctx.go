package hclgrid

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Upstream is what a step's arguments can see of one dependency, as
// `step.<runner_type>.<name>.output` and `step.<runner_type>.<name>.state`.
type Upstream struct {
	RunnerType string
	Name       string
	State      string
	Output     cty.Value
}

// functions are available in every arguments expression.
var functions = map[string]function.Function{
	"upper":      stdlib.UpperFunc,
	"lower":      stdlib.LowerFunc,
	"join":       stdlib.JoinFunc,
	"format":     stdlib.FormatFunc,
	"length":     stdlib.LengthFunc,
	"coalesce":   stdlib.CoalesceFunc,
	"jsonencode": stdlib.JSONEncodeFunc,
}

// Functions returns the functions available in every expression.
func Functions() map[string]function.Function {
	return functions
}

// NewEvalContext builds the evaluation context for a step's arguments.
func NewEvalContext(upstream []Upstream) *hcl.EvalContext {
	byRunner := make(map[string]map[string]cty.Value)
	for _, u := range upstream {
		output := u.Output
		if output == cty.NilVal {
			output = cty.NullVal(cty.DynamicPseudoType)
		}
		if byRunner[u.RunnerType] == nil {
			byRunner[u.RunnerType] = make(map[string]cty.Value)
		}
		byRunner[u.RunnerType][u.Name] = cty.ObjectVal(map[string]cty.Value{
			"output": output,
			"state":  cty.StringVal(u.State),
		})
	}

	steps := make(map[string]cty.Value, len(byRunner))
	for runner, instances := range byRunner {
		steps[runner] = cty.ObjectVal(instances)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"step": cty.ObjectVal(steps)},
		Functions: functions,
	}
}
