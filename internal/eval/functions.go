package eval

import (
	"fmt"
	"strings"

	"github.com/souzamonteiro/guash/internal/namespace"
	"github.com/souzamonteiro/guash/internal/status"
	"github.com/souzamonteiro/guash/internal/token"
	"github.com/souzamonteiro/guash/internal/value"
)

// isNullLiteral reports whether t names the Unknown value, either as a
// fresh Unknown-classified identifier or as the NULL constant (spec.md
// §4.4 "function name() = expr — unsets the function (only Unknown RHS is
// allowed here by intent)").
func isNullLiteral(t token.Token) bool {
	return t.Kind == token.Unknown || (t.Kind == token.Variable && t.Lexeme == "NULL")
}

// evalFunctionStatement implements the `function` keyword forms of
// spec.md §4.4/§4.5: `function name(formals) { body }`, the
// `function name(args) = body` script-definition alias, and the
// `function name() = NULL` unset form.
func (e *Evaluator) evalFunctionStatement() (status.Status, value.Value, error) {
	e.next() // consume 'function'

	if e.cur.Kind != token.Variable && e.cur.Kind != token.Unknown && e.cur.Kind != token.Function {
		return status.UnexpectedToken, value.Unknown(), e.errorf("expected function name")
	}
	name := e.cur.Lexeme
	e.next()

	if e.cur.Kind != token.ParenOpen {
		return status.UnexpectedToken, value.Unknown(), e.errorf("expected ( after function name %q", name)
	}
	argsSrc := e.cur.Lexeme
	e.next()

	switch e.cur.Kind {
	case token.BraceOpen:
		body := e.cur.Lexeme
		e.next()
		formals, err := e.parseFormals(argsSrc)
		if err != nil {
			return status.Error, value.Unknown(), err
		}
		e.ns.DefineFunction(&namespace.Function{Name: name, Formals: formals, Script: body})
		return status.OK, value.Unknown(), nil

	case token.Assign:
		e.next()
		if strings.TrimSpace(argsSrc) == "" && isNullLiteral(e.cur) {
			e.next()
			e.ns.UndefineFunction(name)
			return status.OK, value.Unknown(), nil
		}
		formals, err := e.parseFormals(argsSrc)
		if err != nil {
			return status.Error, value.Unknown(), err
		}
		var body string
		if e.cur.Kind == token.BraceOpen {
			body = e.cur.Lexeme
			e.next()
		} else {
			body = e.captureExprText()
		}
		e.ns.DefineFunction(&namespace.Function{Name: name, Formals: formals, Script: body})
		return status.OK, value.Unknown(), nil

	default:
		return status.UnexpectedToken, value.Unknown(), e.errorf("expected { or = after function %q(...)", name)
	}
}

// call implements spec.md §4.6: look up name, enforce arity against its
// formals (builtins take the raw argv and handle their own arity), pad a
// script function's missing trailing arguments with formal defaults, push
// a fresh frame, and run the body.
func (e *Evaluator) call(name string, argv []value.Value) (status.Status, value.Value, error) {
	// eval/expr need to recurse back through the calling Evaluator's Run,
	// which a namespace.BuiltinFunc (ns-only) can't reach; intercept them
	// here rather than through the generic builtin-dispatch path below.
	switch name {
	case "eval":
		return e.biEval(argv)
	case "expr":
		return e.biExpr(argv)
	}

	fn, ok := e.ns.SearchFunction(name)
	if !ok {
		return status.IllegalOperand, value.Unknown(), e.errorf("call to undefined function %q", name)
	}

	if fn.IsBuiltin {
		v, err := fn.Builtin(e.ns, argv)
		if err != nil {
			if name == "error" {
				return status.Error, value.Unknown(), err
			}
			return status.FunctionError, value.Unknown(), err
		}
		return status.OK, v, nil
	}

	if len(argv)-1 > len(fn.Formals) {
		return status.IllegalOperand, value.Unknown(), e.errorf("too many arguments to %q", name)
	}

	full := make([]value.Value, len(fn.Formals)+1)
	full[0] = argv[0]
	for i, formal := range fn.Formals {
		if i+1 < len(argv) {
			full[i+1] = argv[i+1]
		} else if formal.HasDefault {
			full[i+1] = formal.Default
		} else {
			full[i+1] = value.Unknown()
		}
	}

	child := e.ns.Push()
	defer child.Pop()
	for i, formal := range fn.Formals {
		child.Set(formal.Name, full[i+1], namespace.Local)
	}

	prevNs := e.ns
	e.ns = child
	st, v, err := e.Run(fn.Script)
	e.ns = prevNs

	switch st {
	case status.OK, status.Return, status.Exit:
		return status.OK, v, nil
	default:
		if err == nil {
			err = fmt.Errorf("unexpected %s signal escaped function body", st)
		}
		return status.FunctionError, value.Unknown(), fmt.Errorf("function %q: %w", name, err)
	}
}
