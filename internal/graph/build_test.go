package graph

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridgate/internal/config"
	"github.com/vk/gridgate/internal/state"
	"github.com/vk/gridgate/internal/trigger"
)

func args(t *testing.T, src string) hcl.Body {
	t.Helper()
	file, diags := hclsyntax.ParseConfig([]byte(src), "args.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), diags.Error())
	return file.Body
}

func ptr(v float64) *float64 { return &v }

func TestBuild(t *testing.T) {
	model := &config.Model{Grid: &config.Grid{Steps: []*config.Step{
		{RunnerType: "env_vars", Name: "env"},
		{RunnerType: "fail", Name: "boom"},
		{
			RunnerType: "print",
			Name:       "report",
			DependsOn:  []string{"fail.boom"},
			Arguments:  args(t, `value = step.env_vars.env.output`),
			Trigger:    &config.Trigger{Name: "some_failed", AtLeast: ptr(1)},
		},
	}}}

	g, err := Build(context.Background(), model)
	require.NoError(t, err)

	deps, err := g.Dependencies("step.print.report")
	require.NoError(t, err)
	assert.Equal(t, []string{"step.env_vars.env", "step.fail.boom"}, deps)
	assert.Equal(t, []string{"step.env_vars.env", "step.fail.boom"}, g.Roots())

	report, ok := g.Node("step.print.report")
	require.True(t, ok)
	assert.Equal(t, int32(2), report.DepCount())
	assert.Equal(t, "some_failed", report.TriggerName)

	res, err := report.Trigger(context.Background(), state.UpstreamSet{state.Success, state.Failed})
	require.NoError(t, err)
	assert.Equal(t, trigger.Satisfied, res.Kind)

	env, ok := g.Node("step.env_vars.env")
	require.True(t, ok)
	assert.Equal(t, int32(0), env.DepCount())
	assert.Equal(t, trigger.DefaultName, env.TriggerName)
}

func TestBuild_EmptyModel(t *testing.T) {
	g, err := Build(context.Background(), &config.Model{})
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		steps   []*config.Step
		wantErr error
	}{
		{
			name: "unknown explicit dependency",
			steps: []*config.Step{
				{RunnerType: "print", Name: "a", DependsOn: []string{"print.ghost"}},
			},
			wantErr: ErrUnknownDependency,
		},
		{
			name: "unknown implicit dependency",
			steps: []*config.Step{
				{RunnerType: "print", Name: "a", Arguments: args(t, `value = step.print.ghost.output`)},
			},
			wantErr: ErrUnknownDependency,
		},
		{
			name: "cycle",
			steps: []*config.Step{
				{RunnerType: "print", Name: "a", DependsOn: []string{"print.b"}},
				{RunnerType: "print", Name: "b", DependsOn: []string{"step.print.a"}},
			},
			wantErr: ErrCycle,
		},
		{
			name: "self dependency",
			steps: []*config.Step{
				{RunnerType: "print", Name: "a", DependsOn: []string{"print.a"}},
			},
			wantErr: ErrCycle,
		},
		{
			name: "unknown trigger",
			steps: []*config.Step{
				{RunnerType: "print", Name: "a", Trigger: &config.Trigger{Name: "sometimes"}},
			},
			wantErr: trigger.ErrUnknownTrigger,
		},
		{
			name: "negative bound",
			steps: []*config.Step{
				{RunnerType: "print", Name: "a", Trigger: &config.Trigger{Name: "some_failed", AtMost: ptr(-1)}},
			},
			wantErr: trigger.ErrInvalidBounds,
		},
		{
			name: "bounds on a trigger that takes none",
			steps: []*config.Step{
				{RunnerType: "print", Name: "a", Trigger: &config.Trigger{Name: "all_failed", AtLeast: ptr(1)}},
			},
			wantErr: trigger.ErrInvalidBounds,
		},
		{
			name: "duplicate step",
			steps: []*config.Step{
				{RunnerType: "print", Name: "a"},
				{RunnerType: "print", Name: "a"},
			},
			wantErr: ErrDuplicateNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(context.Background(), &config.Model{Grid: &config.Grid{Steps: tt.steps}})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var graphErr *Error
			assert.ErrorAs(t, err, &graphErr)
		})
	}
}
