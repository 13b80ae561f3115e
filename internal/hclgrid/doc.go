// Package hclgrid is the HCL implementation of config.Loader. It parses grid
// files, translates them into the format-agnostic config.Model, and provides
// the cty helpers the executor uses to evaluate step arguments against the
// outputs of upstream steps.
package hclgrid
