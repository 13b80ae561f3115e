package integration_tests

import (
	"fmt"
	"strings"
)

// sleeperStep renders a sleeper step block. extra is inserted verbatim into
// the block body.
func sleeperStep(name string, fail bool, extra ...string) string {
	return fmt.Sprintf(`
step "sleeper" %q {
  %s
  arguments {
    id   = %q
    fail = %t
  }
}
`, name, strings.Join(extra, "\n  "), name, fail)
}
