package hclgrid

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/gridgate/internal/config"
)

var (
	ErrDuplicateStep  = errors.New("duplicate step definition")
	ErrInvalidTimeout = errors.New("invalid step timeout")
)

// translateStep converts the HCL-specific step schema into the agnostic model.
func translateStep(s *stepBlock) (*config.Step, error) {
	step := &config.Step{
		RunnerType: s.RunnerType,
		Name:       s.Name,
		DependsOn:  make([]string, 0, len(s.DependsOn)),
	}
	for _, dep := range s.DependsOn {
		step.DependsOn = append(step.DependsOn, config.NormalizeRef(dep))
	}
	if s.Arguments != nil {
		step.Arguments = s.Arguments.Body
	}
	if s.Trigger != nil {
		step.Trigger = &config.Trigger{
			Name:    s.Trigger.Name,
			AtLeast: s.Trigger.AtLeast,
			AtMost:  s.Trigger.AtMost,
		}
	}
	if s.Timeout != nil {
		d, err := time.ParseDuration(*s.Timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: step %q: %q", ErrInvalidTimeout, step.Ref(), *s.Timeout)
		}
		step.Timeout = d
	}
	return step, nil
}
