package hclgrid

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/gridgate/internal/config"
	"github.com/vk/gridgate/internal/fsutil"
	"github.com/vk/gridgate/internal/runctx"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges their steps into
// a single model. Paths that do not exist are ignored.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := runctx.Logger(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{Grid: &config.Grid{}}
	parser := hclparse.NewParser()
	seen := make(map[string]string)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Steps {
			step, err := translateStep(block)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			if prev, dup := seen[step.Ref()]; dup {
				return nil, fmt.Errorf("%w: step %q defined in %s and %s", ErrDuplicateStep, step.Ref(), prev, file)
			}
			seen[step.Ref()] = file
			model.Grid.Steps = append(model.Grid.Steps, step)
		}
	}

	logger.Debug("HCL loading complete.", "files", len(files), "steps", len(model.Grid.Steps))
	return model, nil
}
