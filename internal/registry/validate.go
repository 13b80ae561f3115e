package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vk/gridgate/internal/runctx"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	valueType   = reflect.TypeOf(cty.Value{})
)

// Validate checks every registered handler's signature and, for runners
// with a manifest, a strict parity between the manifest's inputs and the Go
// input struct: presence, optionality and type.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := runctx.Logger(ctx)

	for _, runnerType := range r.RunnerTypes() {
		runner := r.runners[runnerType]
		inputType, err := checkSignature(runner)
		if err != nil {
			errs = append(errs, fmt.Sprintf("runner '%s': %v", runnerType, err))
			continue
		}

		manifest, ok := r.manifests[runnerType]
		if !ok {
			logger.Debug("Runner has no manifest, skipping parity check.", "runner", runnerType)
			continue
		}
		errs = append(errs, checkParity(runnerType, manifest, inputType)...)
	}

	for _, runnerType := range sortedManifestTypes(r.manifests) {
		if _, ok := r.runners[runnerType]; !ok {
			errs = append(errs, fmt.Sprintf("runner '%s': manifest in %s has no registered Go handler", runnerType, r.manifests[runnerType].File))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// checkSignature returns the input struct type, or nil when the runner takes
// no input.
func checkSignature(runner *Runner) (reflect.Type, error) {
	if runner == nil || runner.Fn == nil {
		return nil, fmt.Errorf("%w: handler function is nil", ErrInvalidHandler)
	}
	fnType := reflect.TypeOf(runner.Fn)
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: handler is %s, not a function", ErrInvalidHandler, fnType)
	}
	if fnType.NumOut() != 2 || fnType.Out(0) != valueType || fnType.Out(1) != errorType {
		return nil, fmt.Errorf("%w: handler must return (cty.Value, error), got %s", ErrInvalidHandler, fnType)
	}

	if runner.NewInput == nil {
		if fnType.NumIn() != 1 || fnType.In(0) != contextType {
			return nil, fmt.Errorf("%w: handler without input must take only context.Context, got %s", ErrInvalidHandler, fnType)
		}
		return nil, nil
	}

	input := reflect.TypeOf(runner.NewInput())
	if input == nil || input.Kind() != reflect.Pointer || input.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: NewInput must return a pointer to a struct, got %v", ErrInvalidHandler, input)
	}
	if fnType.NumIn() != 2 || fnType.In(0) != contextType || fnType.In(1) != input {
		return nil, fmt.Errorf("%w: handler must take (context.Context, %s), got %s", ErrInvalidHandler, input, fnType)
	}
	return input.Elem(), nil
}

// inputField is an `hcl` tagged attribute of an input struct.
type inputField struct {
	field    reflect.StructField
	optional bool
}

func hclFields(inputType reflect.Type) map[string]inputField {
	fields := make(map[string]inputField)
	if inputType == nil {
		return fields
	}
	for i := 0; i < inputType.NumField(); i++ {
		field := inputType.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("hcl")
		parts := strings.Split(tag, ",")
		if parts[0] == "" {
			continue
		}
		kind := "attr"
		if len(parts) > 1 {
			kind = parts[1]
		}
		switch kind {
		case "attr", "optional":
			fields[parts[0]] = inputField{field: field, optional: kind == "optional"}
		}
	}
	return fields
}

func checkParity(runnerType string, m *Manifest, inputType reflect.Type) []string {
	var errs []string
	goInputs := hclFields(inputType)

	for _, name := range sortedFieldNames(goInputs) {
		if _, ok := m.Inputs[name]; !ok {
			errs = append(errs, fmt.Sprintf("runner '%s': Go struct has field for input '%s' which is not declared in manifest", runnerType, name))
		}
	}

	for _, name := range sortedInputNames(m.Inputs) {
		def := m.Inputs[name]
		goField, ok := goInputs[name]
		if !ok {
			errs = append(errs, fmt.Sprintf("runner '%s': manifest declares input '%s' which is not found in Go struct", runnerType, name))
			continue
		}
		if def.Optional != goField.optional {
			errs = append(errs, fmt.Sprintf("runner '%s', input '%s': manifest optional=%t but Go struct optional=%t", runnerType, name, def.Optional, goField.optional))
		}
		if def.Type.Equals(cty.DynamicPseudoType) {
			continue
		}

		goFieldType, err := gocty.ImpliedType(reflect.Zero(goField.field.Type).Interface())
		if err != nil {
			errs = append(errs, fmt.Sprintf("runner '%s', input '%s': could not imply cty type from Go field type %s: %v", runnerType, name, goField.field.Type, err))
			continue
		}
		if !def.Type.Equals(goFieldType) {
			errs = append(errs, fmt.Sprintf("runner '%s', input '%s': type mismatch. Manifest requires '%s' but Go struct field '%s' provides '%s'",
				runnerType, name, def.Type.FriendlyName(), goField.field.Name, goFieldType.FriendlyName()))
		}
	}
	return errs
}

func sortedFieldNames(m map[string]inputField) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func sortedInputNames(m map[string]InputDefinition) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func sortedManifestTypes(m map[string]*Manifest) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
