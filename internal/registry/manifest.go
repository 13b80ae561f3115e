package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/gridgate/internal/fsutil"
	"github.com/vk/gridgate/internal/runctx"
	"github.com/zclconf/go-cty/cty"
)

// Manifest is the declared contract of a runner: its description and inputs.
type Manifest struct {
	Type        string
	Description string
	Inputs      map[string]InputDefinition
	// File is where the manifest was loaded from.
	File string
}

// InputDefinition declares one argument a runner accepts.
type InputDefinition struct {
	Type     cty.Type
	Optional bool
}

type manifestFile struct {
	Runners []*manifestRunner `hcl:"runner,block"`
}

type manifestRunner struct {
	Type        string           `hcl:"type,label"`
	Description *string          `hcl:"description,optional"`
	Inputs      []*manifestInput `hcl:"input,block"`
}

type manifestInput struct {
	Name     string         `hcl:"name,label"`
	Type     hcl.Expression `hcl:"type"`
	Optional *bool          `hcl:"optional,optional"`
}

// LoadManifests parses every .hcl file under modulesPath for `runner` blocks.
// A missing path is not an error.
func (r *Registry) LoadManifests(ctx context.Context, modulesPath string) error {
	logger := runctx.Logger(ctx)
	logger.Debug("Registry loading manifests from modules path...", "path", modulesPath)

	files, err := fsutil.FindFiles([]string{modulesPath}, ".hcl")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Debug("No .hcl manifest files found in path.", "path", modulesPath)
		return nil
	}

	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root manifestFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return fmt.Errorf("failed to decode manifest %s: %w", file, diags)
		}

		for _, block := range root.Runners {
			m, err := translateManifest(block, file)
			if err != nil {
				return err
			}
			if prev, dup := r.manifests[m.Type]; dup {
				return fmt.Errorf("runner manifest %q defined in %s and %s", m.Type, prev.File, file)
			}
			r.manifests[m.Type] = m
		}
		logger.Debug("Loaded runner manifests from file.", "file", file, "count", len(root.Runners))
	}
	return nil
}

func translateManifest(block *manifestRunner, file string) (*Manifest, error) {
	m := &Manifest{
		Type:   block.Type,
		Inputs: make(map[string]InputDefinition, len(block.Inputs)),
		File:   file,
	}
	if block.Description != nil {
		m.Description = *block.Description
	}
	for _, in := range block.Inputs {
		ty, diags := typeexpr.TypeConstraint(in.Type)
		if diags.HasErrors() {
			return nil, fmt.Errorf("runner %q input %q in %s: %w", block.Type, in.Name, file, diags)
		}
		if _, dup := m.Inputs[in.Name]; dup {
			return nil, fmt.Errorf("runner %q declares input %q twice in %s", block.Type, in.Name, file)
		}
		m.Inputs[in.Name] = InputDefinition{
			Type:     ty,
			Optional: in.Optional != nil && *in.Optional,
		}
	}
	return m, nil
}
