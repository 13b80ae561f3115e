// Package template provides the `template` runner: it renders an HCL
// template string, such as "Hello ${name}!", against a map of variables and
// outputs the resulting string.
package template

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/gridgate/internal/hclgrid"
	"github.com/vk/gridgate/internal/registry"
	"github.com/vk/gridgate/internal/runctx"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the template runner.
type Input struct {
	Template string    `hcl:"template"`
	Vars     cty.Value `hcl:"vars,optional"`
}

// OnRunTemplate renders input.Template. Each attribute of input.Vars becomes
// a top-level template variable.
func OnRunTemplate(ctx context.Context, input *Input) (cty.Value, error) {
	logger := runctx.Logger(ctx).With("runner", "template")

	expr, diags := hclsyntax.ParseTemplate([]byte(input.Template), "template", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("failed to parse template: %w", diags)
	}

	vars, err := variables(input.Vars)
	if err != nil {
		return cty.NilVal, err
	}

	val, diags := expr.Value(&hcl.EvalContext{
		Variables: vars,
		Functions: hclgrid.Functions(),
	})
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("failed to render template: %w", diags)
	}

	rendered, err := convert.Convert(val, cty.String)
	if err != nil {
		return cty.NilVal, fmt.Errorf("template did not render to a string: %w", err)
	}
	if rendered.IsNull() {
		return cty.NilVal, fmt.Errorf("template rendered to null")
	}
	logger.Debug("Template rendered.", "length", len(rendered.AsString()))
	return rendered, nil
}

func variables(vars cty.Value) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value)
	if vars == cty.NilVal || vars.IsNull() {
		return out, nil
	}
	ty := vars.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("vars must be an object or map, got %s", ty.FriendlyName())
	}
	for it := vars.ElementIterator(); it.Next(); {
		k, v := it.Element()
		out[k.AsString()] = v
	}
	return out, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("template", &registry.Runner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunTemplate,
	})
}
