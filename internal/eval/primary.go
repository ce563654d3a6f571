package eval

import (
	"fmt"

	"github.com/souzamonteiro/guash/internal/container"
	"github.com/souzamonteiro/guash/internal/lexer"
	"github.com/souzamonteiro/guash/internal/namespace"
	"github.com/souzamonteiro/guash/internal/status"
	"github.com/souzamonteiro/guash/internal/token"
	"github.com/souzamonteiro/guash/internal/value"
)

// parseObject implements the tightest precedence level of spec.md §4.4:
// literals, parenthesized/matrix/array groups, variable and string
// indexing, function calls, and the macro/indirection read forms.
func (e *Evaluator) parseObject() (status.Status, value.Value, error) {
	if st, err := e.checkTokenStatus(); err != nil {
		return st, value.Unknown(), err
	}

	switch e.cur.Kind {
	case token.Integer:
		v := value.Int(e.cur.IntValue)
		e.next()
		return status.OK, v, nil

	case token.Real:
		v := value.RealV(e.cur.RealValue)
		e.next()
		return status.OK, v, nil

	case token.String:
		v := value.Str(lexer.Unescape(e.cur.Lexeme))
		e.next()
		return status.OK, v, nil

	case token.Script:
		v := value.Str(e.cur.Lexeme)
		e.next()
		return status.OK, v, nil

	case token.ParenOpen:
		inner := e.cur.Lexeme
		e.next()
		return e.Run(inner)

	case token.BracketOpen:
		inner := e.cur.Lexeme
		e.next()
		m, err := parseMatrixLiteral(e, inner)
		if err != nil {
			return status.Error, value.Unknown(), err
		}
		return status.OK, value.MatrixValue(m), nil

	case token.BraceOpen:
		inner := e.cur.Lexeme
		e.next()
		arr, err := e.parseArrayLiteral(inner)
		if err != nil {
			return status.Error, value.Unknown(), err
		}
		return status.OK, value.Value{Kind: value.KindArray, Arr: arr, Stored: false}, nil

	case token.Variable, token.Unknown:
		return e.readNamedOrIndexed(e.cur.Lexeme, namespace.Stack)

	case token.Function:
		return e.readCall(e.cur.Lexeme)

	case token.Macro:
		return e.readMacro()

	case token.Indirect:
		return e.readIndirect()

	default:
		return status.UnexpectedToken, value.Unknown(), e.errorf("unexpected token %s", e.cur.Kind)
	}
}

// readNamedOrIndexed reads a Variable/Unknown-classified identifier,
// optionally followed by a single `[idx...]` group.
func (e *Evaluator) readNamedOrIndexed(name string, scope namespace.Scope) (status.Status, value.Value, error) {
	e.next()
	base, _ := e.ns.Get(name, scope)
	if e.cur.Kind != token.BracketOpen {
		return status.OK, base, nil
	}
	idxSrc := e.cur.Lexeme
	e.next()
	return e.indexRead(base, idxSrc)
}

// readCall reads `name(args)` and invokes it (spec.md §4.6).
func (e *Evaluator) readCall(name string) (status.Status, value.Value, error) {
	e.next()
	if e.cur.Kind != token.ParenOpen {
		return status.UnexpectedToken, value.Unknown(), e.errorf("expected ( after function name %q", name)
	}
	argsSrc := e.cur.Lexeme
	e.next()
	argv, st, v, err := e.evalArgs(name, argsSrc)
	if err != nil || st != status.OK {
		return st, v, err
	}
	return e.call(name, argv)
}

// evalArgs evaluates a comma-separated argument list in the caller's
// namespace, producing argv with argv[0] = the called name (spec.md §4.6
// step 1: "slot 0 is the function-name string and slots 1..n are argument
// Values").
func (e *Evaluator) evalArgs(name, argsSrc string) ([]value.Value, status.Status, value.Value, error) {
	argv := []value.Value{value.Str(name)}
	for _, part := range splitTopLevel(argsSrc, ',') {
		if part == "" {
			continue
		}
		st, v, err := e.Run(part)
		if err != nil || st != status.OK {
			return nil, st, v, err
		}
		v.Stored = true
		argv = append(argv, v)
	}
	return argv, status.OK, value.Unknown(), nil
}

// indexRead implements spec.md §4.4 "variable...optionally followed by
// [index…] to read an element of array/matrix/string".
func (e *Evaluator) indexRead(base value.Value, idxSrc string) (status.Status, value.Value, error) {
	idxParts := splitTopLevel(idxSrc, ',')
	idxVals := make([]value.Value, 0, len(idxParts))
	for _, p := range idxParts {
		st, v, err := e.Run(p)
		if err != nil || st != status.OK {
			return st, v, err
		}
		idxVals = append(idxVals, v)
	}

	switch base.Kind {
	case value.KindArray:
		key := arrayKeyFromIndices(idxVals)
		return status.OK, container.ArrayGet(base.Arr, key), nil

	case value.KindMatrix:
		coords, err := coordsFromIndices(idxVals)
		if err != nil {
			return status.IllegalOperand, value.Unknown(), err
		}
		off, ok := base.Mat.Index(coords)
		if !ok {
			return status.OutOfRange, value.Unknown(), e.errorf("matrix index out of bounds")
		}
		return status.OK, base.Mat.Cells[off], nil

	case value.KindString:
		if len(idxVals) != 1 || idxVals[0].Kind != value.KindInteger {
			return status.IllegalOperand, value.Unknown(), e.errorf("string indexing requires a single integer index")
		}
		i := idxVals[0].Int
		if i < 0 || i >= int64(len(base.Str)) {
			return status.OutOfRange, value.Unknown(), e.errorf("index out of bound")
		}
		return status.OK, value.Str(string(base.Str[i])), nil

	case value.KindUnknown:
		return status.OK, value.Unknown(), nil

	default:
		return status.IllegalOperand, value.Unknown(), e.errorf("cannot index a %s value", base.Kind)
	}
}

// arrayKeyFromIndices implements the `a[i]` single-key and `a[i,j,...]`
// composite-key rules shared by index reads and index assignment
// (spec.md §4.4 "multi-index is joined into a composite string key via
// ArgsToString").
func arrayKeyFromIndices(idx []value.Value) value.Value {
	if len(idx) == 1 {
		return idx[0]
	}
	return value.Str(argsToString(idx))
}

func argsToString(vals []value.Value) string {
	s := ""
	for i, v := range vals {
		if i > 0 {
			s += ","
		}
		s += v.String()
	}
	return s
}

func coordsFromIndices(idx []value.Value) ([]int, error) {
	coords := make([]int, len(idx))
	for i, v := range idx {
		if v.Kind != value.KindInteger {
			return nil, fmt.Errorf("matrix index must be an integer")
		}
		coords[i] = int(v.Int)
	}
	return coords, nil
}
