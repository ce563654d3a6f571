// Package eval implements the recursive-descent, precedence-climbing
// expression evaluator and the statement evaluator of spec.md §4.4-§4.6.
// There is no persisted AST: Evaluator advances a lexer cursor and
// evaluates as it parses, recursing into Evaluate for bracketed
// sub-expressions and block bodies, per spec.md §2 and §9's "Interleaved
// parse and evaluate" design note.
package eval

import (
	"fmt"

	"github.com/souzamonteiro/guash/internal/lexer"
	"github.com/souzamonteiro/guash/internal/namespace"
	"github.com/souzamonteiro/guash/internal/status"
	"github.com/souzamonteiro/guash/internal/token"
	"github.com/souzamonteiro/guash/internal/value"
)

// Clock is the injected wall-clock capability the `test` statement needs
// (spec.md §1 "treat the clock as an injected capability", §5).
type Clock interface {
	// NowSeconds returns a monotonic-enough wall-clock reading in
	// fractional seconds, used only to compute elapsed time.
	NowSeconds() float64
}

// Evaluator walks source text against a live Namespace. It is not
// goroutine-safe and is not meant to be reused concurrently: spec.md §5
// states the core is "strictly single-threaded and synchronous".
type Evaluator struct {
	ns    *namespace.Namespace
	clock Clock

	lx  *lexer.Lexer
	cur token.Token

	// depth guards against unbounded recursion through nested Run calls
	// (function calls, bracketed groups); it is not part of the language
	// spec but keeps a runaway script from exhausting the Go call stack.
	depth    int
	maxDepth int
}

const defaultMaxDepth = 2000

// New creates an Evaluator rooted at ns using clock for `test` timing,
// registering the built-in function table (spec.md §6) into ns's global
// frame.
func New(ns *namespace.Namespace, clock Clock) *Evaluator {
	RegisterBuiltins(ns)
	return &Evaluator{ns: ns, clock: clock, maxDepth: defaultMaxDepth}
}

// Namespace returns the evaluator's current (innermost) frame.
func (e *Evaluator) Namespace() *namespace.Namespace { return e.ns }

// Pos returns the source position of the token the evaluator was looking
// at when it last stopped, for diagnostic rendering at the call site
// (internal/errors.Diagnostic).
func (e *Evaluator) Pos() token.Position { return e.cur.Pos }

// Snippet returns up to 64 bytes of the lexeme of the token the
// evaluator was looking at when it last stopped (spec.md §7 "up to 64
// bytes"), for diagnostic rendering at the call site.
func (e *Evaluator) Snippet() string { return e.snippet() }

// parseState snapshots the lexer/token pair so a tentative parse (lvalue
// detection in ParseAssign, lookahead in primaries) can be rolled back.
type parseState struct {
	lx  lexer.Lexer
	cur token.Token
}

func (e *Evaluator) save() parseState {
	return parseState{lx: *e.lx, cur: e.cur}
}

func (e *Evaluator) restore(s parseState) {
	lxCopy := s.lx
	e.lx = &lxCopy
	e.cur = s.cur
}

func (e *Evaluator) next() {
	e.cur = e.lx.NextToken(e.ns)
}

// snippet renders up to 64 bytes of the current token's lexeme for
// error context (spec.md §7 "up to 64 bytes").
func (e *Evaluator) snippet() string {
	s := e.cur.Lexeme
	if len(s) > 64 {
		s = s[:64]
	}
	return s
}

func (e *Evaluator) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if snip := e.snippet(); snip != "" {
		return fmt.Errorf("%s near %q", msg, snip)
	}
	return fmt.Errorf("%s", msg)
}

// checkTokenStatus surfaces a scanner-level error recorded on cur the first
// time the evaluator inspects it (spec.md §7).
func (e *Evaluator) checkTokenStatus() (status.Status, error) {
	switch e.cur.Status {
	case token.OK:
		return status.OK, nil
	case token.OutOfRange:
		return status.OutOfRange, e.errorf("numeric literal out of range")
	case token.Underflow:
		return status.Underflow, e.errorf("numeric literal underflowed to zero")
	case token.Overflow:
		return status.Overflow, e.errorf("numeric literal overflowed")
	case token.UnterminatedString:
		return status.UnterminatedString, e.errorf("unterminated string literal")
	case token.UnclosedExpression:
		return status.UnclosedExpression, e.errorf("unclosed expression")
	default:
		return status.OK, nil
	}
}

func (e *Evaluator) skipSeparators() {
	for e.cur.Kind == token.Separator {
		e.next()
	}
}

// Run evaluates src as a sequence of statements/expressions against e's
// current namespace frame, returning the status/value/error of the last
// one executed, or stopping early on a signal or error (spec.md §2
// "Evaluate(source) repeatedly reads a leading token...").
//
// Run is reentrant: it snapshots and restores the lexer/token cursor, so
// nested calls (bracketed sub-expressions, function bodies, loop bodies)
// compose via ordinary Go call-stack recursion (spec.md §9).
func (e *Evaluator) Run(src string) (status.Status, value.Value, error) {
	e.depth++
	if e.depth > e.maxDepth {
		e.depth--
		return status.Error, value.Unknown(), fmt.Errorf("evaluation depth exceeded")
	}
	defer func() { e.depth-- }()

	saved := (*parseState)(nil)
	if e.lx != nil {
		s := e.save()
		saved = &s
	}
	e.lx = lexer.New(src)
	e.next()
	defer func() {
		if saved != nil {
			e.restore(*saved)
		}
	}()

	result := value.Unknown()
	e.skipSeparators()
	for e.cur.Kind != token.End {
		st, v, err := e.evalStatement()
		if err != nil || st != status.OK {
			return st, v, err
		}
		result = v
		e.skipSeparators()
	}
	return status.OK, result, nil
}

// evalStatement dispatches on the leading token: a statement keyword goes
// to its handler, everything else goes to the assignment-level expression
// parser (spec.md §2, §4.5).
func (e *Evaluator) evalStatement() (status.Status, value.Value, error) {
	if st, err := e.checkTokenStatus(); err != nil {
		return st, value.Unknown(), err
	}
	switch e.cur.Kind {
	case token.If:
		return e.evalIf()
	case token.While:
		return e.evalWhile()
	case token.Do:
		return e.evalDoWhile()
	case token.For:
		return e.evalFor()
	case token.ForEach:
		return e.evalForEach()
	case token.FunctionKw:
		return e.evalFunctionStatement()
	case token.Try:
		return e.evalTry()
	case token.Test:
		return e.evalTest()
	case token.Break:
		return e.evalBreak()
	case token.Continue:
		return e.evalContinue()
	case token.ReturnKw:
		return e.evalReturn()
	case token.ExitKw:
		return e.evalExit()
	default:
		return e.parseAssign()
	}
}

// expectGroup consumes a bracket-group token of the given kind, returning
// its interior text. Used for statement heads like `if (cond) { body }`.
func (e *Evaluator) expectGroup(kind token.Kind, what string) (string, error) {
	if e.cur.Kind != kind {
		return "", e.errorf("expected %s", what)
	}
	text := e.cur.Lexeme
	st := e.cur.Status
	e.next()
	if st == token.UnclosedExpression {
		return text, e.errorf("unclosed %s", what)
	}
	return text, nil
}
