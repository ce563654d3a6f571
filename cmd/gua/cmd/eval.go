package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/souzamonteiro/guash/internal/errors"
	"github.com/souzamonteiro/guash/internal/eval"
	"github.com/souzamonteiro/guash/internal/namespace"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate a single gua expression and print its value",
	Long: `Evaluate exactly one expression (joined from all positional
arguments) and print its canonical string rendering; an array or
matrix result prints as a "<array>"/"<matrix>" placeholder.

Example:
  gua eval "2**10 + 1"`,
	Args: cobra.MinimumNArgs(1),
	RunE: evalExpression,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func evalExpression(_ *cobra.Command, args []string) error {
	input := strings.Join(args, " ")

	ns := namespace.New()
	e := eval.New(ns, makeClock())

	st, v, err := e.Run(input)
	if err != nil {
		diag := errors.New(st, e.Pos(), err, e.Snippet(), input, "<eval>")
		fmt.Fprint(os.Stderr, diag.Format(true))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("evaluation failed: %s", st)
	}
	if st.IsError() {
		return fmt.Errorf("evaluation failed with status %s", st)
	}

	fmt.Println(v.String())
	return nil
}
