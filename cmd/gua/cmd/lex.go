package cmd

import (
	"fmt"
	"os"

	"github.com/souzamonteiro/guash/internal/lexer"
	"github.com/souzamonteiro/guash/internal/namespace"
	"github.com/souzamonteiro/guash/internal/token"
	"github.com/spf13/cobra"
)

var (
	showPos  bool
	showKind bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a gua script or expression",
	Long: `Tokenize (lex) a gua program and print the resulting tokens, for
debugging the scanner's scan-time Variable/Function/Unknown classification.

Examples:
  gua lex script.gua
  gua lex -e "a=1" --show-kind --show-pos`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showKind, "show-kind", false, "show token kind names")
}

func lexScript(_ *cobra.Command, args []string) error {
	input, _, err := readInput(args)
	if err != nil {
		return err
	}

	ns := namespace.New()
	l := lexer.New(input)

	count := 0
	for {
		tok := l.NextToken(ns)
		count++
		printToken(tok)
		if tok.Kind == token.End || tok.Kind == token.Illegal {
			break
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "%d token(s)\n", count)
	}
	return nil
}

func printToken(tok token.Token) {
	var out string
	if showKind {
		out = fmt.Sprintf("[%-10s]", tok.Kind)
	}
	switch tok.Kind {
	case token.End:
		out += " <end>"
	default:
		out += fmt.Sprintf(" %q", tok.Lexeme)
	}
	if showPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}
