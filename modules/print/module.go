package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/vk/gridgate/internal/registry"
	"github.com/vk/gridgate/internal/runctx"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the printed lines. Defaults to os.Stdout.
	Out io.Writer
}

// Input defines the arguments for the print runner.
type Input struct {
	Value map[string]string `hcl:"value,optional"`
}

// OnRunPrint writes each key of the input map, sorted, one per line.
func (m *Module) OnRunPrint(ctx context.Context, input *Input) (cty.Value, error) {
	runctx.Logger(ctx).Info("Printing input")
	out := m.Out
	if out == nil {
		out = os.Stdout
	}

	if input.Value == nil {
		fmt.Fprintln(out, "      (null)")
		return cty.NullVal(cty.DynamicPseudoType), nil
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(input.Value))
	for k := range input.Value {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(out, "      %s = %q\n", k, input.Value[k])
	}

	return cty.NullVal(cty.DynamicPseudoType), nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("print", &registry.Runner{
		NewInput: func() any { return new(Input) },
		Fn:       m.OnRunPrint,
	})
}
