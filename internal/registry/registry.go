package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

var (
	ErrUnknownRunner  = errors.New("unknown runner type")
	ErrInvalidHandler = errors.New("invalid runner handler")
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Runner holds the compiled Go parts of a runner.
//
// Fn must have the signature
//
//	func(ctx context.Context, input *T) (cty.Value, error)
//
// where NewInput returns a fresh *T decoded from the step's arguments.
// NewInput may be nil for runners that take no arguments, in which case Fn
// is func(ctx context.Context) (cty.Value, error).
type Runner struct {
	NewInput func() any
	Fn       any
}

// Registry holds all the registered runners and manifests for a single
// application instance.
type Registry struct {
	runners   map[string]*Runner
	manifests map[string]*Manifest
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		runners:   make(map[string]*Runner),
		manifests: make(map[string]*Manifest),
	}
}

// RegisterRunner registers the Go handler for a runner type.
func (r *Registry) RegisterRunner(runnerType string, runner *Runner) {
	if _, exists := r.runners[runnerType]; exists {
		panic(fmt.Sprintf("runner with type '%s' already registered", runnerType))
	}
	slog.Debug("Registering runner handler.", "runner", runnerType)
	r.runners[runnerType] = runner
}

// Runner returns the handler registered for runnerType.
func (r *Registry) Runner(runnerType string) (*Runner, bool) {
	runner, ok := r.runners[runnerType]
	return runner, ok
}

// RunnerTypes lists registered runner types, sorted.
func (r *Registry) RunnerTypes() []string {
	types := make([]string, 0, len(r.runners))
	for t := range r.runners {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Manifest returns the loaded manifest for runnerType, if any.
func (r *Registry) Manifest(runnerType string) (*Manifest, bool) {
	m, ok := r.manifests[runnerType]
	return m, ok
}
