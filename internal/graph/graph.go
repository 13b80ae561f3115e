package graph

import (
	"fmt"
	"sort"

	"github.com/vk/gridgate/internal/node"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		vertices: make(map[string]*vertex),
	}
}

// AddNode adds n to the graph. Adding a second node with the same ID is an error.
func (g *Graph) AddNode(n *node.Node) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.vertices[n.ID()]; ok {
		return &Error{NodeID: n.ID(), Err: ErrDuplicateNode}
	}

	g.vertices[n.ID()] = &vertex{
		node:       n,
		deps:       make(map[string]*vertex),
		dependents: make(map[string]*vertex),
	}
	return nil
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. Adding the same
// edge twice is a no-op.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return &Error{NodeID: toID, Err: fmt.Errorf("%w: %s depends on itself", ErrCycle, toID)}
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	from, ok := g.vertices[fromID]
	if !ok {
		return &Error{NodeID: fromID, Err: ErrNodeNotFound}
	}
	to, ok := g.vertices[toID]
	if !ok {
		return &Error{NodeID: toID, Err: ErrNodeNotFound}
	}

	to.deps[fromID] = from
	from.dependents[toID] = to
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*node.Node, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	v, ok := g.vertices[id]
	if !ok {
		return nil, false
	}
	return v.node, true
}

// Nodes returns every node, ordered by ID.
func (g *Graph) Nodes() []*node.Node {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	nodes := make([]*node.Node, 0, len(g.vertices))
	for _, id := range g.sortedIDs() {
		nodes = append(nodes, g.vertices[id].node)
	}
	return nodes
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.vertices)
}

// Dependencies returns the sorted IDs that the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	v, ok := g.vertices[id]
	if !ok {
		return nil, &Error{NodeID: id, Err: ErrNodeNotFound}
	}
	return sortedKeys(v.deps), nil
}

// Dependents returns the sorted IDs that depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	v, ok := g.vertices[id]
	if !ok {
		return nil, &Error{NodeID: id, Err: ErrNodeNotFound}
	}
	return sortedKeys(v.dependents), nil
}

// Roots returns the sorted IDs of nodes without dependencies.
func (g *Graph) Roots() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var roots []string
	for _, id := range g.sortedIDs() {
		if len(g.vertices[id].deps) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// wrapping ErrCycle if one is found, naming a node involved in it.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Classic depth-first search. permanent holds nodes fully visited and
	// known to be acyclic; temporary holds the current recursion stack.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(id string, v *vertex) error
	visit = func(id string, v *vertex) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return &Error{NodeID: id, Err: fmt.Errorf("%w involving node '%s'", ErrCycle, id)}
		}

		temporary[id] = true
		for _, depID := range sortedKeys(v.dependents) {
			if err := visit(depID, v.dependents[depID]); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, id := range g.sortedIDs() {
		if err := visit(id, g.vertices[id]); err != nil {
			return err
		}
	}
	return nil
}

// sortedIDs must be called with the mutex held.
func (g *Graph) sortedIDs() []string {
	return sortedKeys(g.vertices)
}

func sortedKeys(m map[string]*vertex) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
