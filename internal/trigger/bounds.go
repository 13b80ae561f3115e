package trigger

import (
	"fmt"
	"math"
	"strings"
)

// Bounds is the immutable threshold configuration of SomeFailed. A value
// below 1 is a fraction of the upstream set size, anything else an absolute
// count. The zero Bounds means "any number of failures".
type Bounds struct {
	atLeast    float64
	atMost     float64
	hasAtLeast bool
	hasAtMost  bool
}

// BoundOption sets one side of a Bounds.
type BoundOption func(*Bounds)

// WithAtLeast sets the minimum number (or fraction) of failures.
func WithAtLeast(v float64) BoundOption {
	return func(b *Bounds) {
		b.atLeast = v
		b.hasAtLeast = true
	}
}

// WithAtMost sets the maximum number (or fraction) of failures.
func WithAtMost(v float64) BoundOption {
	return func(b *Bounds) {
		b.atMost = v
		b.hasAtMost = true
	}
}

// NewBounds builds and validates a Bounds.
func NewBounds(opts ...BoundOption) (Bounds, error) {
	var b Bounds
	for _, opt := range opts {
		opt(&b)
	}
	if err := b.validate(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

// AtLeast returns the configured lower bound, if any.
func (b Bounds) AtLeast() (float64, bool) {
	return b.atLeast, b.hasAtLeast
}

// AtMost returns the configured upper bound, if any.
func (b Bounds) AtMost() (float64, bool) {
	return b.atMost, b.hasAtMost
}

// IsZero reports whether neither bound is set.
func (b Bounds) IsZero() bool {
	return !b.hasAtLeast && !b.hasAtMost
}

// Resolve converts b into absolute inclusive limits for a set of size n.
// Missing AtLeast resolves to 0 and missing AtMost to n.
func (b Bounds) Resolve(n int) (atLeast, atMost float64, err error) {
	if err := b.validate(); err != nil {
		return 0, 0, err
	}
	size := float64(n)
	atLeast, atMost = 0, size
	if b.hasAtLeast {
		atLeast = scale(b.atLeast, size)
	}
	if b.hasAtMost {
		atMost = scale(b.atMost, size)
	}
	return atLeast, atMost, nil
}

func (b Bounds) String() string {
	var parts []string
	if b.hasAtLeast {
		parts = append(parts, fmt.Sprintf("at_least=%g", b.atLeast))
	}
	if b.hasAtMost {
		parts = append(parts, fmt.Sprintf("at_most=%g", b.atMost))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func (b Bounds) validate() error {
	if b.hasAtLeast {
		if err := checkBound("at_least", b.atLeast); err != nil {
			return err
		}
	}
	if b.hasAtMost {
		if err := checkBound("at_most", b.atMost); err != nil {
			return err
		}
	}
	return nil
}

func checkBound(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a finite, non-negative number, got %v", ErrInvalidBounds, name, v)
	}
	return nil
}

func scale(v, size float64) float64 {
	if v < 1 {
		return v * size
	}
	return v
}
