package inmemorystore

import (
	"context"
	"sync"

	"github.com/vk/gridgate/internal/nodestore"
	"github.com/vk/gridgate/internal/state"
	"github.com/zclconf/go-cty/cty"
)

// Store is an in-memory implementation of nodestore.Store using sync.Map
// for fine-grained concurrent access without global lock contention.
//
// The store maintains three independent sync.Maps:
//   - states: node ID to state.State
//   - outputs: node ID to cty.Value
//   - errors: node ID to error
type Store struct {
	states  sync.Map
	outputs sync.Map
	errors  sync.Map
}

var _ nodestore.Store = (*Store)(nil)

// New creates a new, empty in-memory node state store.
func New() *Store {
	return &Store{}
}

// SetStatus updates the execution status of a specific node.
func (s *Store) SetStatus(ctx context.Context, id string, status state.State) error {
	s.states.Store(id, status)
	return nil
}

// GetStatus retrieves the execution status of a specific node.
// If a status has not been set, it returns state.Pending.
func (s *Store) GetStatus(ctx context.Context, id string) (state.State, error) {
	status, ok := s.states.Load(id)
	if !ok {
		return state.Pending, nil
	}
	return status.(state.State), nil
}

// Transition validates and applies a status change. Concurrent transitions
// of the same node are serialized by compare-and-swap; the loser re-validates
// against the winner's status.
func (s *Store) Transition(ctx context.Context, id string, to state.State) error {
	for {
		current, loaded := s.states.Load(id)
		from := state.Pending
		if loaded {
			from = current.(state.State)
		}
		if err := state.Transition(from, to); err != nil {
			return err
		}
		if !loaded {
			if _, raced := s.states.LoadOrStore(id, to); !raced {
				return nil
			}
			continue
		}
		if s.states.CompareAndSwap(id, from, to) {
			return nil
		}
	}
}

// SetOutput records the successful output of a node.
func (s *Store) SetOutput(ctx context.Context, id string, output cty.Value) error {
	s.outputs.Store(id, output)
	return nil
}

// GetOutput retrieves the recorded output of a completed node.
func (s *Store) GetOutput(ctx context.Context, id string) (cty.Value, error) {
	output, ok := s.outputs.Load(id)
	if !ok {
		return cty.NilVal, nil
	}
	return output.(cty.Value), nil
}

// SetError records the failure error of a node.
func (s *Store) SetError(ctx context.Context, id string, nodeErr error) error {
	s.errors.Store(id, nodeErr)
	return nil
}

// GetError retrieves the recorded error of a failed node.
func (s *Store) GetError(ctx context.Context, id string) (error, error) {
	err, ok := s.errors.Load(id)
	if !ok {
		return nil, nil
	}
	return err.(error), nil
}

// Statuses returns a point-in-time copy of every recorded status.
func (s *Store) Statuses(ctx context.Context) (map[string]state.State, error) {
	out := make(map[string]state.State)
	s.states.Range(func(key, value any) bool {
		out[key.(string)] = value.(state.State)
		return true
	})
	return out, nil
}
