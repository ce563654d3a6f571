package eval

import (
	"github.com/souzamonteiro/guash/internal/namespace"
	"github.com/souzamonteiro/guash/internal/status"
	"github.com/souzamonteiro/guash/internal/token"
	"github.com/souzamonteiro/guash/internal/value"
)

// macroName resolves the identifier following a `$` to a target name:
// `$name` uses the identifier's own lexeme literally; `$(expr)` evaluates
// expr, which must yield a String, and uses its value (spec.md GLOSSARY
// "Macro", example 6 `$("x")`).
func (e *Evaluator) macroName() (status.Status, string, error) {
	switch e.cur.Kind {
	case token.ParenOpen:
		inner := e.cur.Lexeme
		e.next()
		st, v, err := e.Run(inner)
		if err != nil || st != status.OK {
			return st, "", err
		}
		if v.Kind != value.KindString {
			return status.IllegalOperand, "", e.errorf("macro target must evaluate to a string")
		}
		return status.OK, v.Str, nil
	case token.Variable, token.Unknown, token.Function:
		name := e.cur.Lexeme
		e.next()
		return status.OK, name, nil
	default:
		return status.UnexpectedToken, "", e.errorf("expected macro target after $")
	}
}

// readMacro implements the `$name[...]` / `$(expr)[...]` read form
// (spec.md §4.4 primary grammar).
func (e *Evaluator) readMacro() (status.Status, value.Value, error) {
	e.next() // consume '$'
	st, name, err := e.macroName()
	if err != nil || st != status.OK {
		return st, value.Unknown(), err
	}
	base, _ := e.ns.Get(name, namespace.Global)
	if e.cur.Kind != token.BracketOpen {
		return status.OK, base, nil
	}
	idxSrc := e.cur.Lexeme
	e.next()
	return e.indexRead(base, idxSrc)
}

// readIndirect implements the `@var[...]` read form. Per GLOSSARY
// "Indirection": var must itself be a Variable whose String value names
// the target, resolved at Stack scope.
func (e *Evaluator) readIndirect() (status.Status, value.Value, error) {
	e.next() // consume '@'
	if e.cur.Kind != token.Variable && e.cur.Kind != token.Unknown {
		return status.UnexpectedToken, value.Unknown(), e.errorf("expected variable name after @")
	}
	varName := e.cur.Lexeme
	e.next()
	indirected, _ := e.ns.Get(varName, namespace.Stack)
	if indirected.Kind != value.KindString {
		return status.IllegalOperand, value.Unknown(), e.errorf("indirection target %q must hold a string", varName)
	}
	target := indirected.Str
	base, _ := e.ns.Get(target, namespace.Stack)
	if e.cur.Kind != token.BracketOpen {
		return status.OK, base, nil
	}
	idxSrc := e.cur.Lexeme
	e.next()
	return e.indexRead(base, idxSrc)
}
