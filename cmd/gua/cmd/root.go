// Package cmd implements the gua command-line driver: a cobra command
// tree wrapping internal/eval, grounded on the teacher's
// cmd/dwscript/cmd/{root,run,lex}.go shape (SPEC_FULL.md §10.4).
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set by build flags; unset in local/dev builds.
var Version = "0.1.0-dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gua",
	Short: "gua scripting-language evaluator",
	Long: `gua is a small dynamically-typed scripting language: integers, reals,
complex numbers, strings, associative arrays, and dense matrices, evaluated
by a tree-walking, interleaved parse-and-evaluate core with no persisted
AST.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
