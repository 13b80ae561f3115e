package graph

import (
	"sync"

	"github.com/vk/gridgate/internal/node"
)

// Graph is a collection of nodes and their dependencies, representing a DAG.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the vertices map during concurrent access.
	mutex sync.RWMutex
	// vertices stores all vertices in the graph, keyed by node ID.
	vertices map[string]*vertex
}

// vertex wraps a node with its adjacency sets. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs).
type vertex struct {
	node *node.Node
	// deps holds the IDs this vertex depends on (predecessors).
	deps map[string]*vertex
	// dependents holds the IDs that depend on this vertex (successors).
	dependents map[string]*vertex
}
