package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vk/gridgate/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// MockSleeperModule is a shared, self-contained module for execution tests.
// Its "sleeper" runner sleeps, records when each id ran and echoes the id.
type MockSleeperModule struct {
	ExecutionTimes map[string]*ExecutionRecord
	mu             sync.Mutex
	sleepDuration  time.Duration
}

type sleeperInput struct {
	ID   string `hcl:"id"`
	Fail *bool  `hcl:"fail,optional"`
}

// NewMockSleeperModule creates a new sleeper module for testing.
func NewMockSleeperModule(sleep time.Duration) *MockSleeperModule {
	return &MockSleeperModule{
		ExecutionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  sleep,
	}
}

// Register registers the "sleeper" runner's Go handler.
func (m *MockSleeperModule) Register(r *registry.Registry) {
	r.RegisterRunner("sleeper", &registry.Runner{
		NewInput: func() any { return new(sleeperInput) },
		Fn: func(ctx context.Context, input *sleeperInput) (cty.Value, error) {
			startTime := time.Now()
			select {
			case <-time.After(m.sleepDuration):
			case <-ctx.Done():
				return cty.NilVal, ctx.Err()
			}

			m.mu.Lock()
			m.ExecutionTimes[input.ID] = &ExecutionRecord{Start: startTime, End: time.Now()}
			m.mu.Unlock()

			if input.Fail != nil && *input.Fail {
				return cty.NilVal, errors.New("sleeper " + input.ID + " failed")
			}
			return cty.StringVal(input.ID), nil
		},
	})
}

// Ran returns the sorted ids the runner was invoked with.
func (m *MockSleeperModule) Ran() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.ExecutionTimes))
	for id := range m.ExecutionTimes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
