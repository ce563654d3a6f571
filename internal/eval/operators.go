package eval

import (
	"fmt"
	"math"
	"strconv"

	"github.com/souzamonteiro/guash/internal/container"
	"github.com/souzamonteiro/guash/internal/status"
	"github.com/souzamonteiro/guash/internal/token"
	"github.com/souzamonteiro/guash/internal/value"
)

// climb is the shared shape of every binary precedence level: parse the
// next-tighter level, then loop consuming operators at this level
// left-to-right, applying apply to fold each right operand in
// (spec.md §4.4's precedence ladder, levels 4-15).
func (e *Evaluator) climb(next func() (status.Status, value.Value, error), ops map[token.Kind]func(a, b value.Value) (value.Value, error)) (status.Status, value.Value, error) {
	st, left, err := next()
	if err != nil || st != status.OK {
		return st, left, err
	}
	for {
		apply, ok := ops[e.cur.Kind]
		if !ok {
			return status.OK, left, nil
		}
		e.next()
		st, right, err := next()
		if err != nil || st != status.OK {
			return st, right, err
		}
		result, opErr := apply(left, right)
		if opErr != nil {
			if opErr == errDivisionByZero {
				return status.DivisionByZero, value.Unknown(), e.errorf("division by zero")
			}
			return status.IllegalOperand, value.Unknown(), e.errorf("%s", opErr)
		}
		left = result
	}
}

// parseLogicOr is the loosest level below assignment (spec.md level 15).
func (e *Evaluator) parseLogicOr() (status.Status, value.Value, error) {
	return e.climb(e.parseLogicAnd, map[token.Kind]func(a, b value.Value) (value.Value, error){
		token.LogicOr: opLogicOr,
	})
}

func (e *Evaluator) parseLogicAnd() (status.Status, value.Value, error) {
	return e.climb(e.parseLogicAndOr, map[token.Kind]func(a, b value.Value) (value.Value, error){
		token.LogicAnd: opLogicAnd,
	})
}

func (e *Evaluator) parseLogicAndOr() (status.Status, value.Value, error) {
	return e.climb(e.parseBitOr, map[token.Kind]func(a, b value.Value) (value.Value, error){
		token.LogicAndOr: opLogicAndOr,
	})
}

func (e *Evaluator) parseBitOr() (status.Status, value.Value, error) {
	return e.climb(e.parseBitXor, map[token.Kind]func(a, b value.Value) (value.Value, error){
		token.BitOr: intOp(func(a, b int64) int64 { return a | b }),
	})
}

func (e *Evaluator) parseBitXor() (status.Status, value.Value, error) {
	return e.climb(e.parseBitAnd, map[token.Kind]func(a, b value.Value) (value.Value, error){
		token.BitXor: intOp(func(a, b int64) int64 { return a ^ b }),
	})
}

func (e *Evaluator) parseBitAnd() (status.Status, value.Value, error) {
	return e.climb(e.parseEquality, map[token.Kind]func(a, b value.Value) (value.Value, error){
		token.BitAnd: intOp(func(a, b int64) int64 { return a & b }),
	})
}

func (e *Evaluator) parseEquality() (status.Status, value.Value, error) {
	return e.climb(e.parseRelational, map[token.Kind]func(a, b value.Value) (value.Value, error){
		token.Equal:    func(a, b value.Value) (value.Value, error) { return value.Bool(valuesEqual(a, b)), nil },
		token.NotEqual: func(a, b value.Value) (value.Value, error) { return value.Bool(!valuesEqual(a, b)), nil },
	})
}

func (e *Evaluator) parseRelational() (status.Status, value.Value, error) {
	return e.climb(e.parseShift, map[token.Kind]func(a, b value.Value) (value.Value, error){
		token.Less:      relOp(func(c int) bool { return c < 0 }),
		token.LessEq:    relOp(func(c int) bool { return c <= 0 }),
		token.Greater:   relOp(func(c int) bool { return c > 0 }),
		token.GreaterEq: relOp(func(c int) bool { return c >= 0 }),
	})
}

func (e *Evaluator) parseShift() (status.Status, value.Value, error) {
	return e.climb(e.parseAdditive, map[token.Kind]func(a, b value.Value) (value.Value, error){
		token.ShiftLeft:  intOp(func(a, b int64) int64 { return a << uint(b) }),
		token.ShiftRight: intOp(func(a, b int64) int64 { return a >> uint(b) }),
	})
}

func (e *Evaluator) parseAdditive() (status.Status, value.Value, error) {
	return e.climb(e.parseMultiplicative, map[token.Kind]func(a, b value.Value) (value.Value, error){
		token.Plus:  opAdd,
		token.Minus: opSub,
	})
}

func (e *Evaluator) parseMultiplicative() (status.Status, value.Value, error) {
	return e.climb(e.parsePower, map[token.Kind]func(a, b value.Value) (value.Value, error){
		token.Mul: opMul,
		token.Div: opDiv,
		token.Mod: opMod,
	})
}

// parsePower implements spec.md level 4 (`**`). The grammar note says
// "right-associative conceptually but parsed left-folded here" — this
// module follows that literally via the shared left-fold climb helper.
func (e *Evaluator) parsePower() (status.Status, value.Value, error) {
	return e.climb(e.parseUnary, map[token.Kind]func(a, b value.Value) (value.Value, error){
		token.Power: opPower,
	})
}

// parseUnary implements levels 2-3: `!`/`~` (Integer-only) and unary
// `+`/`-` (Int/Real/Complex/Matrix).
func (e *Evaluator) parseUnary() (status.Status, value.Value, error) {
	switch e.cur.Kind {
	case token.Not:
		e.next()
		st, v, err := e.parseUnary()
		if err != nil || st != status.OK {
			return st, v, err
		}
		if v.Kind != value.KindInteger {
			return status.IllegalOperand, value.Unknown(), e.errorf("! requires an integer operand")
		}
		return status.OK, value.Bool(v.Int == 0), nil

	case token.BitNot:
		e.next()
		st, v, err := e.parseUnary()
		if err != nil || st != status.OK {
			return st, v, err
		}
		if v.Kind != value.KindInteger {
			return status.IllegalOperand, value.Unknown(), e.errorf("~ requires an integer operand")
		}
		return status.OK, value.Int(^v.Int), nil

	case token.Minus:
		e.next()
		st, v, err := e.parseUnary()
		if err != nil || st != status.OK {
			return st, v, err
		}
		return negate(v)

	case token.Plus:
		e.next()
		return e.parseUnary()

	default:
		return e.parseObject()
	}
}

func negate(v value.Value) (status.Status, value.Value, error) {
	switch v.Kind {
	case value.KindInteger:
		return status.OK, value.Int(-v.Int), nil
	case value.KindReal:
		return status.OK, value.RealV(-v.Real), nil
	case value.KindComplex:
		return status.OK, value.Complex(-v.Re, -v.Im), nil
	case value.KindMatrix:
		m, err := container.MatrixNeg(v.Mat)
		if err != nil {
			return status.IllegalOperand, value.Unknown(), err
		}
		return status.OK, value.MatrixValue(m), nil
	default:
		return status.IllegalOperand, value.Unknown(), fmt.Errorf("unary - requires a numeric or matrix operand")
	}
}

func intOp(f func(a, b int64) int64) func(a, b value.Value) (value.Value, error) {
	return func(a, b value.Value) (value.Value, error) {
		if a.Kind != value.KindInteger || b.Kind != value.KindInteger {
			return value.Value{}, fmt.Errorf("operator requires integer operands")
		}
		return value.Int(f(a.Int, b.Int)), nil
	}
}

// numericPair promotes two scalar operands per the rule shared by +,-,*,/:
// Int+Int -> Int, else Real; any Complex -> Complex.
func numericPair(a, b value.Value, intF func(int64, int64) int64, realF func(float64, float64) float64, cplxF func(ar, ai, br, bi float64) (float64, float64)) (value.Value, error) {
	if a.Kind == value.KindComplex || b.Kind == value.KindComplex {
		ar, ai := toComplexParts(a)
		br, bi := toComplexParts(b)
		re, im := cplxF(ar, ai, br, bi)
		return value.Canonicalize(value.Complex(re, im)), nil
	}
	if a.Kind == value.KindInteger && b.Kind == value.KindInteger {
		return value.Int(intF(a.Int, b.Int)), nil
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return value.Value{}, fmt.Errorf("operator requires numeric operands")
	}
	return value.RealV(realF(af, bf)), nil
}

func toFloat(v value.Value) (float64, bool) {
	switch v.Kind {
	case value.KindInteger:
		return float64(v.Int), true
	case value.KindReal:
		return v.Real, true
	default:
		return 0, false
	}
}

func toComplexParts(v value.Value) (float64, float64) {
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

// opAdd implements spec.md level 6 `+`: numeric promotion, string
// concatenation, and Int/Real-into-String coercion-then-concatenation.
func opAdd(a, b value.Value) (value.Value, error) {
	if a.Kind == value.KindString || b.Kind == value.KindString {
		return value.Str(coerceToStringForConcat(a) + coerceToStringForConcat(b)), nil
	}
	if a.Kind == value.KindMatrix && b.Kind == value.KindMatrix {
		m, err := container.MatrixAdd(a.Mat, b.Mat)
		if err != nil {
			return value.Value{}, err
		}
		return value.MatrixValue(m), nil
	}
	return numericPair(a, b,
		func(x, y int64) int64 { return x + y },
		func(x, y float64) float64 { return x + y },
		func(ar, ai, br, bi float64) (float64, float64) { return ar + br, ai + bi })
}

// coerceToStringForConcat renders a, rendering numerics per spec.md §4.4
// level 6 ("%ld"/"%g") rather than the quoted canonical form used for
// strings themselves.
func coerceToStringForConcat(v value.Value) string {
	switch v.Kind {
	case value.KindString:
		return v.Str
	case value.KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case value.KindReal:
		return value.FormatReal(v.Real)
	default:
		return v.String()
	}
}

// opSub implements spec.md level 6 `-`: numeric or matrix only.
func opSub(a, b value.Value) (value.Value, error) {
	if a.Kind == value.KindString || b.Kind == value.KindString {
		return value.Value{}, fmt.Errorf("- does not apply to strings")
	}
	if a.Kind == value.KindMatrix && b.Kind == value.KindMatrix {
		m, err := container.MatrixSub(a.Mat, b.Mat)
		if err != nil {
			return value.Value{}, err
		}
		return value.MatrixValue(m), nil
	}
	return numericPair(a, b,
		func(x, y int64) int64 { return x - y },
		func(x, y float64) float64 { return x - y },
		func(ar, ai, br, bi float64) (float64, float64) { return ar - br, ai - bi })
}

// opMul implements spec.md level 5 `*`: numeric promotion, Complex/Complex,
// and the four matrix/scalar combinations.
func opMul(a, b value.Value) (value.Value, error) {
	aMat, bMat := a.Kind == value.KindMatrix, b.Kind == value.KindMatrix
	switch {
	case aMat && bMat:
		m, err := container.MatrixMul(a.Mat, b.Mat)
		if err != nil {
			return value.Value{}, err
		}
		return value.MatrixValue(m), nil
	case aMat && !bMat:
		m, err := container.MatrixScale(a.Mat, b)
		if err != nil {
			return value.Value{}, err
		}
		return value.MatrixValue(m), nil
	case !aMat && bMat:
		m, err := container.MatrixScale(b.Mat, a)
		if err != nil {
			return value.Value{}, err
		}
		return value.MatrixValue(m), nil
	}
	return numericPair(a, b,
		func(x, y int64) int64 { return x * y },
		func(x, y float64) float64 { return x * y },
		func(ar, ai, br, bi float64) (float64, float64) { return ar*br - ai*bi, ar*bi + ai*br })
}

// opDiv implements spec.md level 5 `/`: numeric division (DivisionByZero
// on zero denominator) and matrix division as multiply-by-inverse.
func opDiv(a, b value.Value) (value.Value, error) {
	if a.Kind == value.KindMatrix && b.Kind == value.KindMatrix {
		inv, err := container.MatrixInv(b.Mat)
		if err != nil {
			return value.Value{}, err
		}
		m, err := container.MatrixMul(a.Mat, inv)
		if err != nil {
			return value.Value{}, err
		}
		return value.MatrixValue(m), nil
	}
	if a.Kind == value.KindComplex || b.Kind == value.KindComplex {
		ar, ai := toComplexParts(a)
		br, bi := toComplexParts(b)
		denom := br*br + bi*bi
		if denom == 0 {
			return value.Value{}, errDivisionByZero
		}
		re := (ar*br + ai*bi) / denom
		im := (ai*br - ar*bi) / denom
		return value.Canonicalize(value.Complex(re, im)), nil
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return value.Value{}, fmt.Errorf("/ requires numeric operands")
	}
	if bf == 0 {
		return value.Value{}, errDivisionByZero
	}
	if a.Kind == value.KindInteger && b.Kind == value.KindInteger {
		return value.Int(a.Int / b.Int), nil
	}
	return value.RealV(af / bf), nil
}

// errDivisionByZero is recognized by the evaluator to set
// status.DivisionByZero specifically (spec.md §8 scenario 7 checks the
// message contains "division by zero").
var errDivisionByZero = fmt.Errorf("division by zero")

// opMod implements spec.md level 5 `%`: requires Int/Int.
func opMod(a, b value.Value) (value.Value, error) {
	if a.Kind != value.KindInteger || b.Kind != value.KindInteger {
		return value.Value{}, fmt.Errorf("%% requires integer operands")
	}
	if b.Int == 0 {
		return value.Value{}, errDivisionByZero
	}
	return value.Int(a.Int % b.Int), nil
}

// opPower implements spec.md level 4 `**`.
func opPower(a, b value.Value) (value.Value, error) {
	if b.Kind != value.KindInteger && b.Kind != value.KindReal {
		return value.Value{}, fmt.Errorf("** exponent must be int or real")
	}
	if a.Kind == value.KindMatrix {
		if b.Kind != value.KindInteger {
			return value.Value{}, fmt.Errorf("matrix ** requires an integer exponent")
		}
		m, err := container.MatrixPow(a.Mat, b.Int)
		if err != nil {
			return value.Value{}, err
		}
		return value.MatrixValue(m), nil
	}
	if a.Kind == value.KindComplex && b.Kind == value.KindInteger {
		r := math.Hypot(a.Re, a.Im)
		theta := math.Atan2(a.Im, a.Re)
		rn := math.Pow(r, float64(b.Int))
		return value.Canonicalize(value.Complex(rn*math.Cos(theta*float64(b.Int)), rn*math.Sin(theta*float64(b.Int)))), nil
	}
	if a.Kind == value.KindInteger && b.Kind == value.KindInteger {
		return value.Int(int64(math.Pow(float64(a.Int), float64(b.Int)))), nil
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return value.Value{}, fmt.Errorf("** requires numeric operands")
	}
	return value.RealV(math.Pow(af, bf)), nil
}

func opLogicAnd(a, b value.Value) (value.Value, error) {
	if a.Kind == value.KindMatrix && b.Kind == value.KindMatrix {
		m, err := container.MatrixAnd(a.Mat, b.Mat)
		if err != nil {
			return value.Value{}, err
		}
		return value.MatrixValue(m), nil
	}
	if a.Kind != value.KindInteger || b.Kind != value.KindInteger {
		return value.Value{}, fmt.Errorf("&& requires integer or matrix operands")
	}
	return value.Bool(a.Int != 0 && b.Int != 0), nil
}

func opLogicOr(a, b value.Value) (value.Value, error) {
	if a.Kind == value.KindMatrix && b.Kind == value.KindMatrix {
		m, err := container.MatrixOr(a.Mat, b.Mat)
		if err != nil {
			return value.Value{}, err
		}
		return value.MatrixValue(m), nil
	}
	if a.Kind != value.KindInteger || b.Kind != value.KindInteger {
		return value.Value{}, fmt.Errorf("|| requires integer or matrix operands")
	}
	return value.Bool(a.Int != 0 || b.Int != 0), nil
}

func opLogicAndOr(a, b value.Value) (value.Value, error) {
	if a.Kind != value.KindMatrix || b.Kind != value.KindMatrix {
		return value.Value{}, fmt.Errorf("&| requires matrix operands")
	}
	m, err := container.MatrixAndOr(a.Mat, b.Mat)
	if err != nil {
		return value.Value{}, err
	}
	return value.MatrixValue(m), nil
}

// relOp builds a relational operator from a comparator predicate over the
// tri-state compare() result (spec.md level 8).
func relOp(pred func(cmp int) bool) func(a, b value.Value) (value.Value, error) {
	return func(a, b value.Value) (value.Value, error) {
		c, err := compare(a, b)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(pred(c)), nil
	}
}

// compare implements spec.md level 8: numeric compare; string compare by
// byte-range memcmp; string-vs-number renders the number first;
// array/array and matrix/matrix compare by length; cross-type
// array/matrix with other kinds is an error.
func compare(a, b value.Value) (int, error) {
	if a.Kind == value.KindArray && b.Kind == value.KindArray {
		return cmpInt(a.Arr.Length, b.Arr.Length), nil
	}
	if a.Kind == value.KindMatrix && b.Kind == value.KindMatrix {
		return cmpInt(len(a.Mat.Cells), len(b.Mat.Cells)), nil
	}
	if a.Kind == value.KindArray || a.Kind == value.KindMatrix || b.Kind == value.KindArray || b.Kind == value.KindMatrix {
		return 0, fmt.Errorf("relational operators do not mix containers with scalars")
	}
	if a.Kind == value.KindString || b.Kind == value.KindString {
		as := coerceToStringForConcat(a)
		bs := coerceToStringForConcat(b)
		if as < bs {
			return -1, nil
		}
		if as > bs {
			return 1, nil
		}
		return 0, nil
	}
	if a.Kind == value.KindComplex || b.Kind == value.KindComplex {
		return 0, fmt.Errorf("relational operators do not apply to complex operands")
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return 0, fmt.Errorf("relational operators require numeric, string, or matching container operands")
	}
	return cmpFloat(af, bf), nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// valuesEqual implements spec.md level 9 `==`/`!=`.
func valuesEqual(a, b value.Value) bool {
	if a.Kind == value.KindUnknown || b.Kind == value.KindUnknown {
		return a.Kind == value.KindUnknown && b.Kind == value.KindUnknown
	}
	if a.Kind == value.KindComplex || b.Kind == value.KindComplex {
		if a.Kind != value.KindComplex || b.Kind != value.KindComplex {
			return false
		}
		return a.Re == b.Re && a.Im == b.Im
	}
	if a.Kind == value.KindString || b.Kind == value.KindString {
		if a.Kind != value.KindString || b.Kind != value.KindString {
			return false
		}
		return a.Str == b.Str
	}
	if a.Kind == value.KindArray && b.Kind == value.KindArray {
		return container.IsArrayEqual(a.Arr, b.Arr, valuesEqual)
	}
	if a.Kind == value.KindMatrix && b.Kind == value.KindMatrix {
		return container.IsMatrixEqual(a.Mat, b.Mat)
	}
	if (a.Kind == value.KindArray || a.Kind == value.KindMatrix) != (b.Kind == value.KindArray || b.Kind == value.KindMatrix) {
		return false
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return false
}
