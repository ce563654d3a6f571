package container

import (
	"errors"
	"testing"

	"github.com/souzamonteiro/guash/internal/value"
)

func ident2x2(vals ...int64) *value.Matrix {
	cells := make([]value.Value, len(vals))
	for i, v := range vals {
		cells[i] = value.Int(v)
	}
	return &value.Matrix{Dims: []int{2, 2}, Cells: cells}
}

func TestMatrixAddSub(t *testing.T) {
	a := ident2x2(1, 2, 3, 4)
	b := ident2x2(10, 20, 30, 40)

	sum, err := MatrixAdd(a, b)
	if err != nil {
		t.Fatalf("MatrixAdd: %v", err)
	}
	want := []int64{11, 22, 33, 44}
	for i, w := range want {
		if sum.Cells[i].Int != w {
			t.Errorf("sum.Cells[%d] = %d, want %d", i, sum.Cells[i].Int, w)
		}
	}

	diff, err := MatrixSub(b, a)
	if err != nil {
		t.Fatalf("MatrixSub: %v", err)
	}
	for i := range diff.Cells {
		if diff.Cells[i].Int != b.Cells[i].Int-a.Cells[i].Int {
			t.Errorf("diff.Cells[%d] = %d, want %d", i, diff.Cells[i].Int, b.Cells[i].Int-a.Cells[i].Int)
		}
	}
}

func TestMatrixAddShapeMismatch(t *testing.T) {
	a := ident2x2(1, 2, 3, 4)
	b := &value.Matrix{Dims: []int{1, 2}, Cells: []value.Value{value.Int(1), value.Int(2)}}
	if _, err := MatrixAdd(a, b); err == nil {
		t.Errorf("expected error adding differently-shaped matrices")
	}
}

func TestMatrixMul(t *testing.T) {
	a := &value.Matrix{Dims: []int{2, 3}, Cells: []value.Value{
		value.Int(1), value.Int(2), value.Int(3),
		value.Int(4), value.Int(5), value.Int(6),
	}}
	b := &value.Matrix{Dims: []int{3, 2}, Cells: []value.Value{
		value.Int(7), value.Int(8),
		value.Int(9), value.Int(10),
		value.Int(11), value.Int(12),
	}}
	got, err := MatrixMul(a, b)
	if err != nil {
		t.Fatalf("MatrixMul: %v", err)
	}
	if len(got.Dims) != 2 || got.Dims[0] != 2 || got.Dims[1] != 2 {
		t.Fatalf("result dims = %v, want [2 2]", got.Dims)
	}
	want := []int64{58, 64, 139, 154}
	for i, w := range want {
		if got.Cells[i].Int != w {
			t.Errorf("Cells[%d] = %d, want %d", i, got.Cells[i].Int, w)
		}
	}
}

func TestMatrixMulRequiresDimcLessEqual2(t *testing.T) {
	a := &value.Matrix{Dims: []int{2, 2, 2}, Cells: make([]value.Value, 8)}
	for i := range a.Cells {
		a.Cells[i] = value.Int(0)
	}
	b := ident2x2(1, 0, 0, 1)
	if _, err := MatrixMul(a, b); err == nil {
		t.Errorf("expected error multiplying a 3-dimensional matrix")
	}
}

func TestMatrixIdent(t *testing.T) {
	got := MatrixIdent(3)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			if got.Cells[r*3+c].Real != want {
				t.Errorf("Ident[%d][%d] = %v, want %v", r, c, got.Cells[r*3+c].Real, want)
			}
		}
	}
}

func TestMatrixInv(t *testing.T) {
	a := &value.Matrix{Dims: []int{2, 2}, Cells: []value.Value{
		value.RealV(4), value.RealV(7),
		value.RealV(2), value.RealV(6),
	}}
	inv, err := MatrixInv(a)
	if err != nil {
		t.Fatalf("MatrixInv: %v", err)
	}
	prod, err := MatrixMul(a, inv)
	if err != nil {
		t.Fatalf("MatrixMul(a, inv): %v", err)
	}
	if !IsMatrixApproximatelyEqual(prod, MatrixIdent(2), 1e-9) {
		t.Errorf("a * inv(a) = %#v, want approximately the identity", prod.Cells)
	}
}

func TestMatrixInvSingular(t *testing.T) {
	a := &value.Matrix{Dims: []int{2, 2}, Cells: []value.Value{
		value.RealV(1), value.RealV(2),
		value.RealV(2), value.RealV(4),
	}}
	_, err := MatrixInv(a)
	if !errors.Is(err, ErrSingular) {
		t.Errorf("MatrixInv(singular) error = %v, want ErrSingular", err)
	}
}

func TestMatrixPow(t *testing.T) {
	a := ident2x2(2, 0, 0, 2)

	zero, err := MatrixPow(a, 0)
	if err != nil {
		t.Fatalf("MatrixPow(a, 0): %v", err)
	}
	if !IsMatrixEqual(zero, MatrixIdent(2)) {
		t.Errorf("MatrixPow(a, 0) != Ident")
	}

	squared, err := MatrixPow(a, 2)
	if err != nil {
		t.Fatalf("MatrixPow(a, 2): %v", err)
	}
	want := []int64{4, 0, 0, 4}
	for i, w := range want {
		if squared.Cells[i].Int != w {
			t.Errorf("squared.Cells[%d] = %d, want %d", i, squared.Cells[i].Int, w)
		}
	}

	if _, err := MatrixPow(a, -2); err == nil {
		t.Errorf("expected error for exponent < -1")
	}
}

func TestMatrixToString(t *testing.T) {
	m := &value.Matrix{Dims: []int{2, 2}, Cells: []value.Value{
		value.Int(1), value.Int(2), value.Int(3), value.Int(4),
	}}
	render := func(v value.Value) string { return v.String() }
	got := MatrixToString(m, render)
	want := "[1,2;3,4]"
	if got != want {
		t.Errorf("MatrixToString() = %q, want %q", got, want)
	}
}

func TestMatrixNegAndScale(t *testing.T) {
	a := ident2x2(1, -2, 3, -4)
	neg, err := MatrixNeg(a)
	if err != nil {
		t.Fatalf("MatrixNeg: %v", err)
	}
	want := []int64{-1, 2, -3, 4}
	for i, w := range want {
		if neg.Cells[i].Int != w {
			t.Errorf("neg.Cells[%d] = %d, want %d", i, neg.Cells[i].Int, w)
		}
	}

	scaled, err := MatrixScale(a, value.Int(3))
	if err != nil {
		t.Fatalf("MatrixScale: %v", err)
	}
	wantScaled := []int64{3, -6, 9, -12}
	for i, w := range wantScaled {
		if scaled.Cells[i].Int != w {
			t.Errorf("scaled.Cells[%d] = %d, want %d", i, scaled.Cells[i].Int, w)
		}
	}
}
