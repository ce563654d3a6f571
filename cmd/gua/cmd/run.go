package cmd

import (
	"fmt"
	"os"

	"github.com/souzamonteiro/guash/internal/errors"
	"github.com/souzamonteiro/guash/internal/eval"
	"github.com/souzamonteiro/guash/internal/namespace"
	"github.com/spf13/cobra"
)

var (
	evalExpr  string
	trace     bool
	clockSeed float64
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a gua script or expression",
	Long: `Execute a gua program from a file or inline expression.

Examples:
  gua run script.gua
  gua run -e "a=1;a=a+1;a"
  gua run --clock-seed 0.5 script.gua`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print the final status and value after execution")
	runCmd.Flags().Float64Var(&clockSeed, "clock-seed", -1, "use a deterministic clock advancing by this many seconds on every reading, instead of the wall clock")
}

func readInput(args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, rerr := os.ReadFile(args[0])
		if rerr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], rerr)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}

func makeClock() eval.Clock {
	if clockSeed >= 0 {
		return newSeededClock(clockSeed)
	}
	return wallClock{}
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readInput(args)
	if err != nil {
		return err
	}

	ns := namespace.New()
	e := eval.New(ns, makeClock())

	st, v, runErr := e.Run(input)
	if runErr != nil {
		diag := errors.New(st, e.Pos(), runErr, e.Snippet(), input, filename)
		fmt.Fprint(os.Stderr, diag.Format(true))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("execution failed: %s", st)
	}

	if st.IsError() {
		return fmt.Errorf("execution failed with status %s", st)
	}

	if trace || st.IsSignal() {
		fmt.Fprintf(os.Stderr, "[%s]\n", st)
	}
	fmt.Println(v.String())
	return nil
}
