package hclgrid

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
)

// StepRefs returns the "<runner_type>.<name>" references made by expressions
// in body, sorted and de-duplicated. Each one is an implicit dependency.
func StepRefs(body hcl.Body) ([]string, error) {
	if body == nil {
		return nil, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	seen := make(map[string]struct{})
	for _, attr := range attrs {
		for _, traversal := range attr.Expr.Variables() {
			if ref, ok := stepRef(traversal); ok {
				seen[ref] = struct{}{}
			}
		}
	}

	refs := make([]string, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs, nil
}

// stepRef recognises traversals of the form `step.<runner_type>.<name>...`.
func stepRef(traversal hcl.Traversal) (string, bool) {
	if len(traversal) < 3 || traversal.RootName() != "step" {
		return "", false
	}
	runnerAttr, runnerOk := traversal[1].(hcl.TraverseAttr)
	nameAttr, nameOk := traversal[2].(hcl.TraverseAttr)
	if !runnerOk || !nameOk {
		return "", false
	}
	return fmt.Sprintf("%s.%s", runnerAttr.Name, nameAttr.Name), true
}
