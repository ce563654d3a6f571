package eval

import (
	"strings"

	"github.com/souzamonteiro/guash/internal/container"
	"github.com/souzamonteiro/guash/internal/namespace"
	"github.com/souzamonteiro/guash/internal/status"
	"github.com/souzamonteiro/guash/internal/token"
	"github.com/souzamonteiro/guash/internal/value"
)

// parseAssign implements spec.md §4.4 level 16: it tentatively reads a
// candidate left-hand side (a name, optionally followed by a single
// `[idx…]` or `(args)` group) and dispatches to the matching assignment
// form if `=` follows; otherwise it rewinds via save/restore and falls
// through to the ordinary expression ladder, re-scanning the same tokens
// as a read.
func (e *Evaluator) parseAssign() (status.Status, value.Value, error) {
	if st, err := e.checkTokenStatus(); err != nil {
		return st, value.Unknown(), err
	}
	switch e.cur.Kind {
	case token.Macro:
		return e.tryMacroAssign()
	case token.Indirect:
		return e.tryIndirectAssign()
	case token.Variable, token.Unknown, token.Function:
		return e.tryNamedAssign()
	default:
		return e.parseLogicOr()
	}
}

// tryNamedAssign handles the `name = expr`, `name[idx…] = expr`, and
// `name(args) = body` forms (spec.md §4.4 "Assignment forms").
func (e *Evaluator) tryNamedAssign() (status.Status, value.Value, error) {
	saved := e.save()
	name := e.cur.Lexeme
	e.next()

	switch e.cur.Kind {
	case token.BracketOpen:
		idxSrc := e.cur.Lexeme
		e.next()
		if e.cur.Kind != token.Assign {
			e.restore(saved)
			return e.parseLogicOr()
		}
		e.next()
		return e.assignIndexed(name, idxSrc, namespace.Local)

	case token.ParenOpen:
		argsSrc := e.cur.Lexeme
		e.next()
		if e.cur.Kind != token.Assign {
			e.restore(saved)
			return e.parseLogicOr()
		}
		e.next()
		return e.assignFunction(name, argsSrc)

	case token.Assign:
		e.next()
		return e.assignVariable(name, namespace.Local)

	default:
		e.restore(saved)
		return e.parseLogicOr()
	}
}

// assignVariable implements the plain `name = expr` form: Set always
// targets scope regardless of the identifier's scan-time classification
// (spec.md §4.4 "Set at Local...except global via macro").
func (e *Evaluator) assignVariable(name string, scope namespace.Scope) (status.Status, value.Value, error) {
	st, v, err := e.parseAssign()
	if err != nil || st != status.OK {
		return st, v, err
	}
	v.Stored = true
	e.ns.Set(name, v, scope)
	return status.OK, v, nil
}

// assignIndexed implements `name[idx…] = expr` against a variable resolved
// at scope: Array (auto-created from Unknown), Matrix, or String element
// assignment (spec.md §4.4).
func (e *Evaluator) assignIndexed(name, idxSrc string, scope namespace.Scope) (status.Status, value.Value, error) {
	idxParts := splitTopLevel(idxSrc, ',')
	idxVals := make([]value.Value, 0, len(idxParts))
	for _, p := range idxParts {
		st, v, err := e.Run(p)
		if err != nil || st != status.OK {
			return st, v, err
		}
		idxVals = append(idxVals, v)
	}

	st, rhs, err := e.parseAssign()
	if err != nil || st != status.OK {
		return st, rhs, err
	}

	base, _ := e.ns.Get(name, scope)

	switch base.Kind {
	case value.KindMatrix:
		coords, cerr := coordsFromIndices(idxVals)
		if cerr != nil {
			return status.IllegalOperand, value.Unknown(), cerr
		}
		off, ok := base.Mat.Index(coords)
		if !ok {
			return status.OutOfRange, value.Unknown(), e.errorf("matrix index out of bound")
		}
		base.Mat.Cells[off] = rhs
		e.ns.Update(name, base, scope)
		return status.OK, rhs, nil

	case value.KindString:
		if len(idxVals) != 1 || idxVals[0].Kind != value.KindInteger {
			return status.IllegalOperand, value.Unknown(), e.errorf("string index assignment requires a single integer index")
		}
		i := idxVals[0].Int
		bs := []byte(base.Str)
		if i < 0 || i >= int64(len(bs)) {
			return status.OutOfRange, value.Unknown(), e.errorf("index out of bound")
		}
		var b byte
		switch rhs.Kind {
		case value.KindString:
			if len(rhs.Str) != 1 {
				return status.IllegalOperand, value.Unknown(), e.errorf("string index assignment requires a single-byte string")
			}
			b = rhs.Str[0]
		case value.KindInteger:
			b = byte(rhs.Int)
		default:
			return status.IllegalOperand, value.Unknown(), e.errorf("string index assignment requires a string or integer value")
		}
		bs[i] = b
		base.Str = string(bs)
		e.ns.Update(name, base, scope)
		return status.OK, rhs, nil

	case value.KindArray, value.KindUnknown:
		arr := base.Arr
		if arr == nil {
			arr = &value.Array{}
		}
		key := arrayKeyFromIndices(idxVals)
		if rhs.Kind == value.KindUnknown {
			_, nowEmpty := container.ArrayUnset(arr, key)
			if nowEmpty {
				e.ns.Unset(name, scope)
			} else {
				e.ns.Update(name, value.Value{Kind: value.KindArray, Arr: arr}, scope)
			}
			return status.OK, value.Unknown(), nil
		}
		if verr := container.ValidateElementValue(rhs); verr != nil {
			return status.IllegalAssignment, value.Unknown(), verr
		}
		container.ArraySet(arr, key, rhs)
		e.ns.Set(name, value.Value{Kind: value.KindArray, Arr: arr}, scope)
		return status.OK, rhs, nil

	default:
		return status.IllegalOperand, value.Unknown(), e.errorf("cannot index-assign a %s value", base.Kind)
	}
}

// assignFunction implements `name(args) = body`: defines a script function
// whose formals are `name[=default-expr]` specs, each default evaluated
// once here (spec.md §4.4, §4.6).
func (e *Evaluator) assignFunction(name, argsSrc string) (status.Status, value.Value, error) {
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
}

// parseFormals splits a comma-separated `name[=default]` list and
// evaluates each default expression once, in the defining frame.
func (e *Evaluator) parseFormals(argsSrc string) ([]namespace.Argument, error) {
	var formals []namespace.Argument
	for _, p := range splitTopLevel(argsSrc, ',') {
		if p == "" {
			continue
		}
		name, defExpr, hasDefault := splitFormal(p)
		arg := namespace.Argument{Name: name}
		if hasDefault {
			st, v, err := e.Run(defExpr)
			if err != nil {
				return nil, err
			}
			if st != status.OK {
				return nil, e.errorf("non-Ok status evaluating default for formal %q", name)
			}
			arg.Default = v
			arg.HasDefault = true
		}
		formals = append(formals, arg)
	}
	return formals, nil
}

// captureExprText grabs the raw, not-yet-evaluated source of a script
// function body starting at the current token, scanning to the next
// top-level statement terminator (';', newline, or end of source) while
// respecting nested brackets and quoted regions. The lexer cursor is
// advanced past the captured text and refreshed.
func (e *Evaluator) captureExprText() string {
	src := e.lx.Source()
	i := e.cur.Start
	depth := 0
loop:
	for i < len(src) {
		switch c := src[i]; c {
		case '(', '[', '{':
			depth++
			i++
		case ')', ']', '}':
			depth--
			i++
		case '"', '\'':
			quote := c
			i++
			for i < len(src) && src[i] != quote {
				if src[i] == '\\' && i+1 < len(src) {
					i++
				}
				i++
			}
			if i < len(src) {
				i++
			}
		case ';', '\n':
			if depth <= 0 {
				break loop
			}
			i++
		default:
			i++
		}
	}
	text := strings.TrimSpace(src[e.cur.Start:i])
	e.lx.Seek(i)
	e.next()
	return text
}

// tryMacroAssign handles `$name = expr`, `$(expr) = expr`, and their
// `[idx…]` variants, always targeting Global scope (spec.md §4.4).
func (e *Evaluator) tryMacroAssign() (status.Status, value.Value, error) {
	saved := e.save()
	e.next() // consume '$'

	var name string
	switch e.cur.Kind {
	case token.ParenOpen:
		inner := e.cur.Lexeme
		e.next()
		st, v, err := e.Run(inner)
		if err != nil || st != status.OK {
			return st, v, err
		}
		if v.Kind != value.KindString {
			return status.IllegalOperand, value.Unknown(), e.errorf("macro target must evaluate to a string")
		}
		name = v.Str
	case token.Variable, token.Unknown, token.Function:
		name = e.cur.Lexeme
		e.next()
	default:
		e.restore(saved)
		return e.parseLogicOr()
	}

	switch e.cur.Kind {
	case token.BracketOpen:
		idxSrc := e.cur.Lexeme
		e.next()
		if e.cur.Kind != token.Assign {
			e.restore(saved)
			return e.parseLogicOr()
		}
		e.next()
		return e.assignIndexed(name, idxSrc, namespace.Global)
	case token.Assign:
		e.next()
		return e.assignVariable(name, namespace.Global)
	default:
		e.restore(saved)
		return e.parseLogicOr()
	}
}

// tryIndirectAssign implements `@var = expr` and `@var[idx…] = expr`:
// var must hold a String naming the real target, assigned at Stack scope
// (spec.md §4.4).
func (e *Evaluator) tryIndirectAssign() (status.Status, value.Value, error) {
	saved := e.save()
	e.next() // consume '@'

	if e.cur.Kind != token.Variable && e.cur.Kind != token.Unknown {
		e.restore(saved)
		return e.parseLogicOr()
	}
	varName := e.cur.Lexeme
	e.next()

	switch e.cur.Kind {
	case token.BracketOpen:
		idxSrc := e.cur.Lexeme
		e.next()
		if e.cur.Kind != token.Assign {
			e.restore(saved)
			return e.parseLogicOr()
		}
		e.next()
		indirected, _ := e.ns.Get(varName, namespace.Stack)
		if indirected.Kind != value.KindString {
			return status.IllegalOperand, value.Unknown(), e.errorf("indirection target %q must hold a string", varName)
		}
		return e.assignIndexed(indirected.Str, idxSrc, namespace.Stack)

	case token.Assign:
		e.next()
		indirected, _ := e.ns.Get(varName, namespace.Stack)
		if indirected.Kind != value.KindString {
			return status.IllegalOperand, value.Unknown(), e.errorf("indirection target %q must hold a string", varName)
		}
		return e.assignVariable(indirected.Str, namespace.Stack)

	default:
		e.restore(saved)
		return e.parseLogicOr()
	}
}
