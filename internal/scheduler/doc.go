// Package scheduler turns a step's trigger verdict into a scheduling
// decision. The executor calls Gate once every upstream of a node has
// settled; Gate runs the node's trigger and tells the executor whether to
// run the node, mark it not-run, or park it until a manual resume.
//
// # Resuming
//
// A trigger that pauses (manual_only) parks the node. If the run was started
// with the node in its resume set, Gate evaluates the trigger a second time
// under runctx.WithResume so the gate opens and the node runs.
//
// # Errors
//
// Any error returned by a trigger is a gate malfunction, not a verdict. It is
// returned wrapped and the executor fails the node.
package scheduler
