// Command gua is the thin CLI shell around internal/eval: it never
// participates in the evaluator core's own import graph, matching
// spec.md §1's framing of the top-level driver as out of scope for the
// language itself (SPEC_FULL.md §10.4).
package main

import (
	"fmt"
	"os"

	"github.com/souzamonteiro/guash/cmd/gua/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
