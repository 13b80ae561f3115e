package graph

import (
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrDuplicateNode     = errors.New("duplicate node")
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrCycle             = errors.New("dependency cycle")
	ErrInvalidTrigger    = errors.New("invalid trigger configuration")
)

// Error reports a problem with one node of the graph.
type Error struct {
	NodeID string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("graph error at %s: %v", e.NodeID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
