// Package graph holds the static structure of a run: one node per configured
// step and the dependency edges between them.
//
// # Edges
//
// An edge from A to B means B depends on A. Edges come from two places:
//
//   - explicit `depends_on` lists in the step block
//   - implicit references to `step.<runner_type>.<name>` in the step's
//     `arguments` expressions
//
// Build rejects references to unknown steps and any cycle, so a Graph
// returned from Build is always a DAG whose nodes carry their resolved
// trigger and an initialized dependency counter.
package graph
