package container

import (
	"errors"
	"fmt"
	"strings"

	"github.com/souzamonteiro/guash/internal/value"
)

// ErrSingular is returned by MatrixInv when the input is not invertible
// (spec.md §4.3 "fails Singular when the diagonal product is 0").
var ErrSingular = errors.New("singular matrix")

// promote implements the numeric promotion rule shared by matrix and scalar
// arithmetic (spec.md §4.3): Int+Int->Int, else Real; any Complex->Complex,
// canonicalizing a zero-imaginary Complex result back to Real.
func promote(a, b value.Value, intOp func(int64, int64) int64, realOp func(float64, float64) float64, complexOp func(ar, ai, br, bi float64) (float64, float64)) (value.Value, error) {
	if a.Kind == value.KindComplex || b.Kind == value.KindComplex {
		ar, ai := complexParts(a)
		br, bi := complexParts(b)
		re, im := complexOp(ar, ai, br, bi)
		return value.Canonicalize(value.Complex(re, im)), nil
	}
	if a.Kind == value.KindInteger && b.Kind == value.KindInteger {
		return value.Int(intOp(a.Int, b.Int)), nil
	}
	af, err := numericFloat(a)
	if err != nil {
		return value.Value{}, err
	}
	bf, err := numericFloat(b)
	if err != nil {
		return value.Value{}, err
	}
	return value.RealV(realOp(af, bf)), nil
}

func complexParts(v value.Value) (float64, float64) {
	switch v.Kind {
	case value.KindComplex:
		return v.Re, v.Im
	case value.KindInteger:
		return float64(v.Int), 0
	case value.KindReal:
		return v.Real, 0
	default:
		return 0, 0
	}
}

func numericFloat(v value.Value) (float64, error) {
	switch v.Kind {
	case value.KindInteger:
		return float64(v.Int), nil
	case value.KindReal:
		return v.Real, nil
	default:
		return 0, fmt.Errorf("illegal operand: expected numeric matrix cell, got %s", v.Kind)
	}
}

func addCell(a, b value.Value) (value.Value, error) {
	return promote(a, b,
		func(x, y int64) int64 { return x + y },
		func(x, y float64) float64 { return x + y },
		func(ar, ai, br, bi float64) (float64, float64) { return ar + br, ai + bi })
}

func subCell(a, b value.Value) (value.Value, error) {
	return promote(a, b,
		func(x, y int64) int64 { return x - y },
		func(x, y float64) float64 { return x - y },
		func(ar, ai, br, bi float64) (float64, float64) { return ar - br, ai - bi })
}

func mulCell(a, b value.Value) (value.Value, error) {
	return promote(a, b,
		func(x, y int64) int64 { return x * y },
		func(x, y float64) float64 { return x * y },
		func(ar, ai, br, bi float64) (float64, float64) {
			return ar*br - ai*bi, ar*bi + ai*br
		})
}

// require2D enforces the dimc <= 2 constraint spec.md §4.3 attaches to
// multiply/inv/ident; MatrixMul, MatrixInv and MatrixAndOr call it. The
// element-wise operators (add/sub and the rest) do not, and accept any
// dimc as long as both shapes match.
func require2D(m *value.Matrix) error {
	if len(m.Dims) > 2 {
		return fmt.Errorf("illegal operand: matrix operator requires dimc <= 2, got %d", len(m.Dims))
	}
	return nil
}

// MatrixAdd implements spec.md §4.3 Add: same Dims required, element-wise.
func MatrixAdd(a, b *value.Matrix) (*value.Matrix, error) {
	return elementwise(a, b, addCell)
}

// MatrixSub implements spec.md §4.3 Sub.
func MatrixSub(a, b *value.Matrix) (*value.Matrix, error) {
	return elementwise(a, b, subCell)
}

func elementwise(a, b *value.Matrix, op func(value.Value, value.Value) (value.Value, error)) (*value.Matrix, error) {
	if !a.SameShape(b) {
		return nil, fmt.Errorf("illegal operand: matrix shapes differ")
	}
	out := &value.Matrix{Dims: append([]int(nil), a.Dims...), Cells: make([]value.Value, len(a.Cells))}
	for i := range a.Cells {
		v, err := op(a.Cells[i], b.Cells[i])
		if err != nil {
			return nil, err
		}
		out.Cells[i] = v
	}
	return out, nil
}

// MatrixNeg implements spec.md §4.3 Negate: element-wise unary minus.
func MatrixNeg(a *value.Matrix) (*value.Matrix, error) {
	out := &value.Matrix{Dims: append([]int(nil), a.Dims...), Cells: make([]value.Value, len(a.Cells))}
	zero := value.Int(0)
	for i, c := range a.Cells {
		v, err := subCell(zero, c)
		if err != nil {
			return nil, err
		}
		out.Cells[i] = v
	}
	return out, nil
}

// MatrixScale multiplies every cell of a by scalar (the broadcast branch of
// spec.md §4.3 Multiply: "if one side is scalar, broadcast").
func MatrixScale(a *value.Matrix, scalar value.Value) (*value.Matrix, error) {
	out := &value.Matrix{Dims: append([]int(nil), a.Dims...), Cells: make([]value.Value, len(a.Cells))}
	for i, c := range a.Cells {
		v, err := mulCell(c, scalar)
		if err != nil {
			return nil, err
		}
		out.Cells[i] = v
	}
	return out, nil
}

// MatrixMul implements spec.md §4.3 Multiply for two matrices: requires
// A.Dims[1] == B.Dims[0] and both dimc <= 2, produces an (m x p) result via
// triple-nested sum with numeric promotion.
func MatrixMul(a, b *value.Matrix) (*value.Matrix, error) {
	if err := require2D(a); err != nil {
		return nil, err
	}
	if err := require2D(b); err != nil {
		return nil, err
	}
	if len(a.Dims) != 2 || len(b.Dims) != 2 || a.Dims[1] != b.Dims[0] {
		return nil, fmt.Errorf("illegal operand: matrix multiply dimension mismatch")
	}
	m, n, p := a.Dims[0], a.Dims[1], b.Dims[1]
	out := &value.Matrix{Dims: []int{m, p}, Cells: make([]value.Value, m*p)}
	for i := 0; i < m; i++ {
		for j := 0; j < p; j++ {
			sum := value.Int(0)
			for k := 0; k < n; k++ {
				term, err := mulCell(a.Cells[i*n+k], b.Cells[k*p+j])
				if err != nil {
					return nil, err
				}
				sum, err = addCell(sum, term)
				if err != nil {
					return nil, err
				}
			}
			out.Cells[i*p+j] = sum
		}
	}
	return out, nil
}

// MatrixIdent returns the n x n real identity matrix (spec.md §4.3 Ident).
func MatrixIdent(n int) *value.Matrix {
	m := value.NewMatrix(value.RealV(0), []int{n, n})
	for i := 0; i < n; i++ {
		m.Cells[i*n+i] = value.RealV(1)
	}
	return m
}

// MatrixInv computes the inverse of a via Gauss-Jordan elimination on an
// in-place copy converted to Real, returning ErrSingular when the diagonal
// pivot product is 0 (spec.md §4.3 Inv).
func MatrixInv(a *value.Matrix) (*value.Matrix, error) {
	if err := require2D(a); err != nil {
		return nil, err
	}
	if len(a.Dims) != 2 || a.Dims[0] != a.Dims[1] {
		return nil, fmt.Errorf("illegal operand: inv requires a square matrix")
	}
	n := a.Dims[0]

	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, 2*n)
		for j := 0; j < n; j++ {
			f, err := numericFloat(a.Cells[i*n+j])
			if err != nil {
				return nil, err
			}
			aug[i][j] = f
		}
		aug[i][n+i] = 1
	}

	pivotProduct := 1.0
	for col := 0; col < n; col++ {
		pivotRow := col
		maxAbs := absF(aug[col][col])
		for r := col + 1; r < n; r++ {
			if absF(aug[r][col]) > maxAbs {
				pivotRow, maxAbs = r, absF(aug[r][col])
			}
		}
		if pivotRow != col {
			aug[col], aug[pivotRow] = aug[pivotRow], aug[col]
		}
		pivot := aug[col][col]
		pivotProduct *= pivot
		if pivot == 0 {
			return nil, ErrSingular
		}
		for j := 0; j < 2*n; j++ {
			aug[col][j] /= pivot
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			for j := 0; j < 2*n; j++ {
				aug[r][j] -= factor * aug[col][j]
			}
		}
	}
	if pivotProduct == 0 {
		return nil, ErrSingular
	}

	out := &value.Matrix{Dims: []int{n, n}, Cells: make([]value.Value, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Cells[i*n+j] = value.RealV(aug[i][n+j])
		}
	}
	return out, nil
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// MatrixPow implements spec.md §4.3 Pow: n=0 -> Ident, n=-1 -> Inv, n<-1 ->
// error, n>0 -> repeated multiply.
func MatrixPow(a *value.Matrix, n int64) (*value.Matrix, error) {
	switch {
	case n == 0:
		if len(a.Dims) != 2 || a.Dims[0] != a.Dims[1] {
			return nil, fmt.Errorf("illegal operand: pow(A,0) requires a square matrix")
		}
		return MatrixIdent(a.Dims[0]), nil
	case n == -1:
		return MatrixInv(a)
	case n < -1:
		return nil, fmt.Errorf("illegal operand: matrix pow exponent < -1 is undefined")
	default:
		result := a
		for i := int64(1); i < n; i++ {
			next, err := MatrixMul(result, a)
			if err != nil {
				return nil, err
			}
			result = next
		}
		return result.Clone(), nil
	}
}

func boolToCell(b bool) value.Value {
	if b {
		return value.Int(1)
	}
	return value.Int(0)
}

// MatrixAnd implements spec.md §4.3 logical And: element-wise on same-shape
// Int/Real operands.
func MatrixAnd(a, b *value.Matrix) (*value.Matrix, error) {
	return elementwiseBool(a, b, func(x, y bool) bool { return x && y })
}

// MatrixOr implements spec.md §4.3 logical Or.
func MatrixOr(a, b *value.Matrix) (*value.Matrix, error) {
	return elementwiseBool(a, b, func(x, y bool) bool { return x || y })
}

func elementwiseBool(a, b *value.Matrix, op func(bool, bool) bool) (*value.Matrix, error) {
	if !a.SameShape(b) {
		return nil, fmt.Errorf("illegal operand: matrix shapes differ")
	}
	out := &value.Matrix{Dims: append([]int(nil), a.Dims...), Cells: make([]value.Value, len(a.Cells))}
	for i := range a.Cells {
		x, err := numericFloat(a.Cells[i])
		if err != nil {
			return nil, err
		}
		y, err := numericFloat(b.Cells[i])
		if err != nil {
			return nil, err
		}
		out.Cells[i] = boolToCell(op(x != 0, y != 0))
	}
	return out, nil
}

// MatrixAndOr implements spec.md §4.3 "And-Or is boolean matrix multiply"
// (same shape constraint as MatrixMul).
func MatrixAndOr(a, b *value.Matrix) (*value.Matrix, error) {
	if err := require2D(a); err != nil {
		return nil, err
	}
	if err := require2D(b); err != nil {
		return nil, err
	}
	if len(a.Dims) != 2 || len(b.Dims) != 2 || a.Dims[1] != b.Dims[0] {
		return nil, fmt.Errorf("illegal operand: matrix and-or dimension mismatch")
	}
	m, n, p := a.Dims[0], a.Dims[1], b.Dims[1]
	out := &value.Matrix{Dims: []int{m, p}, Cells: make([]value.Value, m*p)}
	for i := 0; i < m; i++ {
		for j := 0; j < p; j++ {
			acc := false
			for k := 0; k < n; k++ {
				x, err := numericFloat(a.Cells[i*n+k])
				if err != nil {
					return nil, err
				}
				y, err := numericFloat(b.Cells[k*p+j])
				if err != nil {
					return nil, err
				}
				acc = acc || (x != 0 && y != 0)
			}
			out.Cells[i*p+j] = boolToCell(acc)
		}
	}
	return out, nil
}

// IsMatrixEqual implements spec.md §4.3 Equal: same Dims and element-wise
// equal, with Int/Real cross-equality.
func IsMatrixEqual(a, b *value.Matrix) bool {
	if !a.SameShape(b) {
		return false
	}
	for i := range a.Cells {
		if !scalarEqual(a.Cells[i], b.Cells[i], 0) {
			return false
		}
	}
	return true
}

// IsMatrixApproximatelyEqual implements spec.md §4.3 ApproxEqual: same
// shape and per-element equal within tolerance.
func IsMatrixApproximatelyEqual(a, b *value.Matrix, tolerance float64) bool {
	if !a.SameShape(b) {
		return false
	}
	for i := range a.Cells {
		if !scalarEqual(a.Cells[i], b.Cells[i], tolerance) {
			return false
		}
	}
	return true
}

func scalarEqual(a, b value.Value, tolerance float64) bool {
	af, aerr := numericFloat(a)
	bf, berr := numericFloat(b)
	if aerr == nil && berr == nil {
		if tolerance == 0 {
			return af == bf
		}
		return absF(af-bf) <= tolerance
	}
	if a.Kind == value.KindString && b.Kind == value.KindString {
		return a.Str == b.Str
	}
	return false
}

// MatrixToString renders m in canonical form: ',' between columns, ';'
// between rows for 2-D matrices, ',' between all cells for higher
// dimensions (spec.md §6).
func MatrixToString(m *value.Matrix, renderVal func(value.Value) string) string {
	var b strings.Builder
	b.WriteByte('[')
	if len(m.Dims) == 2 {
		rows, cols := m.Dims[0], m.Dims[1]
		for r := 0; r < rows; r++ {
			if r > 0 {
				b.WriteByte(';')
			}
			for c := 0; c < cols; c++ {
				if c > 0 {
					b.WriteByte(',')
				}
				b.WriteString(renderVal(m.Cells[r*cols+c]))
			}
		}
	} else {
		for i, c := range m.Cells {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(renderVal(c))
		}
	}
	b.WriteByte(']')
	return b.String()
}
