// Package config defines the format-agnostic configuration model for a grid
// of steps, along with the Loader interface used to produce it.
//
// The `config.Model` is the single source of truth for the `graph` and
// `executor` packages. The HCL implementation of Loader lives in
// `internal/hcl`.
package config
