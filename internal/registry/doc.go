// Package registry provides the central "glue" for the module system.
//
// The Registry maps the runner type used in `step "<runner_type>" "<name>"`
// blocks to the compiled Go handler that implements it. Optionally it also
// holds runner manifests loaded from HCL files, which declare each runner's
// inputs; Validate checks that manifests and Go input structs agree so that
// mismatches surface at startup instead of mid-run.
package registry
