package trigger

import (
	"fmt"
	"sort"
)

// DefaultName is the trigger used by steps that do not configure one.
const DefaultName = "all_successful"

const someFailedName = "some_failed"

var builtin = map[string]Func{
	"all_finished":   AllFinished,
	"always_run":     AlwaysRun,
	"all_successful": AllSuccessful,
	"all_failed":     AllFailed,
	"any_successful": AnySuccessful,
	"any_failed":     AnyFailed,
	"manual_only":    ManualOnly,
}

// Lookup resolves a configured trigger name. Bounds are only accepted by
// some_failed; passing them to any other trigger is a configuration error.
func Lookup(name string, b Bounds) (Func, error) {
	if name == "" {
		name = DefaultName
	}
	if name == someFailedName {
		if err := b.validate(); err != nil {
			return nil, err
		}
		return SomeFailed(b), nil
	}
	fn, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrigger, name)
	}
	if !b.IsZero() {
		return nil, fmt.Errorf("%w: trigger %q does not accept bounds %s", ErrInvalidBounds, name, b)
	}
	return fn, nil
}

// Names lists every trigger name Lookup accepts, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin)+1)
	for name := range builtin {
		names = append(names, name)
	}
	names = append(names, someFailedName)
	sort.Strings(names)
	return names
}
