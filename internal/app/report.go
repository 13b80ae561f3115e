package app

import (
	"fmt"
	"os"

	"github.com/vk/gridgate/internal/state"
	"gopkg.in/yaml.v3"
)

// runSummary is the YAML document written by --report and served on /status.
type runSummary struct {
	RunID string                 `yaml:"run_id"`
	Steps map[string]stepSummary `yaml:"steps"`
}

type stepSummary struct {
	State string `yaml:"state"`
	Error string `yaml:"error,omitempty"`
}

func newRunSummary(runID string, states map[string]state.State, errs map[string]error) runSummary {
	s := runSummary{RunID: runID, Steps: make(map[string]stepSummary, len(states))}
	for id, st := range states {
		entry := stepSummary{State: st.String()}
		if err := errs[id]; err != nil {
			entry.Error = err.Error()
		}
		s.Steps[id] = entry
	}
	return s
}

func writeReport(path string, s runSummary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}
	return nil
}
