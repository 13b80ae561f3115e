// Package executor walks a built graph with a pool of workers.
//
// A node becomes ready once every dependency has settled: finished with any
// outcome. A ready node is passed through scheduler.Gate, which decides from
// the upstream states whether it runs, is marked trigger_failed, or is parked
// as paused. Finished nodes always release their dependents; the dependents'
// own triggers decide what that outcome means for them.
//
// A paused node never finishes within a run, so its dependents are never
// gated. They are left pending and reported as blocked.
package executor
