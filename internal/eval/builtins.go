package eval

import (
	"fmt"

	"github.com/souzamonteiro/guash/internal/container"
	"github.com/souzamonteiro/guash/internal/namespace"
	"github.com/souzamonteiro/guash/internal/status"
	"github.com/souzamonteiro/guash/internal/value"
)

// RegisterBuiltins installs the built-in function table of spec.md §6 into
// ns's own frame (conventionally the global frame). `break`, `continue`,
// `return`, and `exit` are reserved keywords (internal/token.Keywords) and
// never reach the scanner's function-classification path, so their
// language-contract behavior lives entirely in statements.go's dedicated
// handlers; no duplicate callable entry is registered here for them.
func RegisterBuiltins(ns *namespace.Namespace) {
	register := func(name string, fn namespace.BuiltinFunc) {
		ns.DefineFunction(&namespace.Function{Name: name, Builtin: fn, IsBuiltin: true})
	}

	register("array", biArray)
	register("arrayToString", biArrayToString)
	register("complex", biComplex)
	register("dim", biDim)
	register("error", biError)
	register("exists", biExists)
	register("getMatrixElement", biGetMatrixElement)
	register("setMatrixElement", biSetMatrixElement)
	register("ident", biIdent)
	register("inv", biInv)
	register("isMatrixApproximatelyEqual", biIsMatrixApproximatelyEqual)
	register("keys", biKeys)
	register("length", biLength)
	register("matrix", biMatrix)
	register("matrix2D", biMatrix2D)
	register("matrixToString", biMatrixToString)
	register("toString", biToString)
	register("type", biType)

	// eval/expr need the calling Evaluator to recurse back through Run, which
	// a BuiltinFunc (ns-only) cannot reach; call() intercepts these two names
	// before the generic builtin-dispatch path. Registration here exists
	// solely so the scanner classifies "eval"/"expr" as token.Function.
	register("eval", biUnreachable)
	register("expr", biUnreachable)
}

func biUnreachable(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	return value.Value{}, fmt.Errorf("internal: builtin dispatched without evaluator context")
}

func renderValue(v value.Value) string { return v.String() }

func wantArgc(argv []value.Value, n int, name string) error {
	if len(argv)-1 != n {
		return fmt.Errorf("%s requires %d argument(s)", name, n)
	}
	return nil
}

// biArray implements the `array(v1,v2,...)` constructor: sequential
// 0-based integer keys, same element-validity rule as the `{...}` literal
// (spec.md §4.3 invariant #2).
func biArray(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	arr := &value.Array{}
	for i, v := range argv[1:] {
		if err := container.ValidateElementValue(v); err != nil {
			return value.Value{}, err
		}
		container.ArraySet(arr, value.Int(int64(i)), v)
	}
	return value.Value{Kind: value.KindArray, Arr: arr}, nil
}

func biArrayToString(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 1, "arrayToString"); err != nil {
		return value.Value{}, err
	}
	if argv[1].Kind != value.KindArray {
		return value.Value{}, fmt.Errorf("arrayToString requires an array argument")
	}
	return value.Str(container.ArrayToString(argv[1].Arr, renderValue)), nil
}

func biComplex(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 2, "complex"); err != nil {
		return value.Value{}, err
	}
	re, ok := toFloat(argv[1])
	if !ok {
		return value.Value{}, fmt.Errorf("complex requires numeric arguments")
	}
	im, ok := toFloat(argv[2])
	if !ok {
		return value.Value{}, fmt.Errorf("complex requires numeric arguments")
	}
	return value.Canonicalize(value.Complex(re, im)), nil
}

// biDim reports a matrix's per-axis extents as an array, or an array's
// length as a plain Integer.
func biDim(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 1, "dim"); err != nil {
		return value.Value{}, err
	}
	switch argv[1].Kind {
	case value.KindMatrix:
		arr := &value.Array{}
		for i, d := range argv[1].Mat.Dims {
			container.ArraySet(arr, value.Int(int64(i)), value.Int(int64(d)))
		}
		return value.Value{Kind: value.KindArray, Arr: arr}, nil
	case value.KindArray:
		return value.Int(int64(argv[1].Arr.Length)), nil
	default:
		return value.Value{}, fmt.Errorf("dim requires a matrix or array argument")
	}
}

// biError returns an error carrying msg, which call() maps to
// status.Error (not the generic FunctionError wrapping) so try/catch sees
// the language-level error status spec.md §4.5 describes for this builtin.
func biError(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 1, "error"); err != nil {
		return value.Value{}, err
	}
	return value.Value{}, fmt.Errorf("%s", coerceToStringForConcat(argv[1]))
}

func biExists(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 1, "exists"); err != nil {
		return value.Value{}, err
	}
	if argv[1].Kind != value.KindString {
		return value.Value{}, fmt.Errorf("exists requires a string argument naming a variable")
	}
	return value.Bool(ns.HasOnStack(argv[1].Str)), nil
}

func biGetMatrixElement(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if len(argv) < 3 || argv[1].Kind != value.KindMatrix {
		return value.Value{}, fmt.Errorf("getMatrixElement requires a matrix and index arguments")
	}
	coords, err := coordsFromIndices(argv[2:])
	if err != nil {
		return value.Value{}, err
	}
	off, ok := argv[1].Mat.Index(coords)
	if !ok {
		return value.Value{}, fmt.Errorf("matrix index out of bound")
	}
	return argv[1].Mat.Cells[off], nil
}

func biSetMatrixElement(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if len(argv) < 4 || argv[1].Kind != value.KindMatrix {
		return value.Value{}, fmt.Errorf("setMatrixElement requires a matrix, index arguments, and a value")
	}
	val := argv[len(argv)-1]
	coords, err := coordsFromIndices(argv[2 : len(argv)-1])
	if err != nil {
		return value.Value{}, err
	}
	off, ok := argv[1].Mat.Index(coords)
	if !ok {
		return value.Value{}, fmt.Errorf("matrix index out of bound")
	}
	argv[1].Mat.Cells[off] = val
	return argv[1], nil
}

func biIdent(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 1, "ident"); err != nil {
		return value.Value{}, err
	}
	if argv[1].Kind != value.KindInteger {
		return value.Value{}, fmt.Errorf("ident requires an integer argument")
	}
	return value.MatrixValue(container.MatrixIdent(int(argv[1].Int))), nil
}

func biInv(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 1, "inv"); err != nil {
		return value.Value{}, err
	}
	if argv[1].Kind != value.KindMatrix {
		return value.Value{}, fmt.Errorf("inv requires a matrix argument")
	}
	m, err := container.MatrixInv(argv[1].Mat)
	if err != nil {
		return value.Value{}, err
	}
	return value.MatrixValue(m), nil
}

func biIsMatrixApproximatelyEqual(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 3, "isMatrixApproximatelyEqual"); err != nil {
		return value.Value{}, err
	}
	if argv[1].Kind != value.KindMatrix || argv[2].Kind != value.KindMatrix {
		return value.Value{}, fmt.Errorf("isMatrixApproximatelyEqual requires two matrices")
	}
	tol, ok := toFloat(argv[3])
	if !ok {
		return value.Value{}, fmt.Errorf("isMatrixApproximatelyEqual tolerance must be numeric")
	}
	return value.Bool(container.IsMatrixApproximatelyEqual(argv[1].Mat, argv[2].Mat, tol)), nil
}

func biKeys(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 1, "keys"); err != nil {
		return value.Value{}, err
	}
	if argv[1].Kind != value.KindArray {
		return value.Value{}, fmt.Errorf("keys requires an array argument")
	}
	return value.Value{Kind: value.KindArray, Arr: container.ArrayKeys(argv[1].Arr)}, nil
}

func biLength(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 1, "length"); err != nil {
		return value.Value{}, err
	}
	switch argv[1].Kind {
	case value.KindArray:
		return value.Int(int64(argv[1].Arr.Length)), nil
	case value.KindMatrix:
		return value.Int(int64(len(argv[1].Mat.Cells))), nil
	case value.KindString:
		return value.Int(int64(len(argv[1].Str))), nil
	default:
		return value.Value{}, fmt.Errorf("length requires an array, matrix, or string argument")
	}
}

// biMatrix implements `matrix(fill, d1, d2, ...)`: every cell set to fill
// (spec.md §4.3 "allocate" semantics, mirroring value.NewMatrix).
func biMatrix(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if len(argv) < 3 {
		return value.Value{}, fmt.Errorf("matrix requires a fill value and at least one dimension")
	}
	dims := make([]int, 0, len(argv)-2)
	for _, d := range argv[2:] {
		if d.Kind != value.KindInteger || d.Int < 1 {
			return value.Value{}, fmt.Errorf("matrix dimensions must be integers >= 1")
		}
		dims = append(dims, int(d.Int))
	}
	return value.MatrixValue(value.NewMatrix(argv[1], dims)), nil
}

// biMatrix2D implements `matrix2D(rows, cols, v0, v1, ...)`: cells given
// explicitly in row-major order.
func biMatrix2D(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if len(argv) < 3 || argv[1].Kind != value.KindInteger || argv[2].Kind != value.KindInteger {
		return value.Value{}, fmt.Errorf("matrix2D requires integer rows and cols")
	}
	rows, cols := int(argv[1].Int), int(argv[2].Int)
	cells := argv[3:]
	if len(cells) != rows*cols {
		return value.Value{}, fmt.Errorf("matrix2D expects %d cell values, got %d", rows*cols, len(cells))
	}
	out := make([]value.Value, len(cells))
	copy(out, cells)
	return value.MatrixValue(&value.Matrix{Dims: []int{rows, cols}, Cells: out}), nil
}

func biMatrixToString(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 1, "matrixToString"); err != nil {
		return value.Value{}, err
	}
	if argv[1].Kind != value.KindMatrix {
		return value.Value{}, fmt.Errorf("matrixToString requires a matrix argument")
	}
	return value.Str(container.MatrixToString(argv[1].Mat, renderValue)), nil
}

func biToString(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 1, "toString"); err != nil {
		return value.Value{}, err
	}
	var render func(value.Value) string
	render = func(v value.Value) string {
		switch v.Kind {
		case value.KindArray:
			return container.ArrayToString(v.Arr, render)
		case value.KindMatrix:
			return container.MatrixToString(v.Mat, render)
		}
		return v.String()
	}
	return value.Str(render(argv[1])), nil
}

func biType(ns *namespace.Namespace, argv []value.Value) (value.Value, error) {
	if err := wantArgc(argv, 1, "type"); err != nil {
		return value.Value{}, err
	}
	return value.Str(value.TypeTag(argv[1])), nil
}

// biEval and biExpr are the evaluator-bound implementations call() reaches
// for directly; both simply re-enter Run over the string argument. spec.md
// draws no behavioral distinction between a full statement sequence and a
// single expression here, so both share this path.
func (e *Evaluator) biEval(argv []value.Value) (status.Status, value.Value, error) {
	if len(argv) != 2 || argv[1].Kind != value.KindString {
		return status.IllegalOperand, value.Unknown(), e.errorf("eval requires a string argument")
	}
	return e.Run(argv[1].Str)
}

func (e *Evaluator) biExpr(argv []value.Value) (status.Status, value.Value, error) {
	if len(argv) != 2 || argv[1].Kind != value.KindString {
		return status.IllegalOperand, value.Unknown(), e.errorf("expr requires a string argument")
	}
	return e.Run(argv[1].Str)
}
