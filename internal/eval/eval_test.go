package eval

import (
	"strings"
	"testing"

	"github.com/souzamonteiro/guash/internal/namespace"
	"github.com/souzamonteiro/guash/internal/status"
)

// fixedClock advances by a constant step on every call, so `test`-statement
// timing is deterministic in tests.
type fixedClock struct {
	step float64
	now  float64
}

func (c *fixedClock) NowSeconds() float64 {
	v := c.now
	c.now += c.step
	return v
}

func newEvaluator() *Evaluator {
	return New(namespace.New(), &fixedClock{step: 0.5})
}

func TestRunArithmeticPrecedence(t *testing.T) {
	tests := []struct {
		src     string
		wantInt int64
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"2**10", 1024},
		{"7%3", 1},
		{"10/3", 3},
		{"-5+2", -3},
		{"1<<4", 16},
		{"1==1", 1},
		{"1!=2", 1},
		{"!0", 1},
		{"1&&0", 0},
		{"1||0", 1},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e := newEvaluator()
			st, v, err := e.Run(tt.src)
			if err != nil {
				t.Fatalf("Run(%q) error: %v", tt.src, err)
			}
			if st != status.OK {
				t.Fatalf("Run(%q) status = %s, want ok", tt.src, st)
			}
			if v.Int != tt.wantInt {
				t.Errorf("Run(%q) = %d, want %d", tt.src, v.Int, tt.wantInt)
			}
		})
	}
}

func TestRunForLoopSum(t *testing.T) {
	e := newEvaluator()
	src := "a=0;for(i=1;i<=10;i=i+1){a=a+i};a"
	st, v, err := e.Run(src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if st != status.OK {
		t.Fatalf("status = %s, want ok", st)
	}
	if v.Int != 55 {
		t.Errorf("sum 1..10 = %d, want 55", v.Int)
	}
}

func TestRunWhileLoopWithBreak(t *testing.T) {
	e := newEvaluator()
	src := "a=0;while(1){a=a+1;if(a>=5){break}};a"
	st, v, err := e.Run(src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if st != status.OK {
		t.Fatalf("status = %s, want ok", st)
	}
	if v.Int != 5 {
		t.Errorf("a = %d, want 5", v.Int)
	}
}

func TestRunRecursiveFunction(t *testing.T) {
	e := newEvaluator()
	src := "function fact(n){if(n<=1){return 1};return n*fact(n-1)};fact(6)"
	st, v, err := e.Run(src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if st != status.OK {
		t.Fatalf("status = %s, want ok", st)
	}
	if v.Int != 720 {
		t.Errorf("fact(6) = %d, want 720", v.Int)
	}
}

func TestRunArrayCompositeAssignment(t *testing.T) {
	e := newEvaluator()
	src := `a={1,2,3};a[1]=99;a[1]`
	st, v, err := e.Run(src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if st != status.OK {
		t.Fatalf("status = %s, want ok", st)
	}
	if v.Int != 99 {
		t.Errorf("a[1] = %d, want 99", v.Int)
	}
}

func TestRunArrayKeyedLiteral(t *testing.T) {
	e := newEvaluator()
	src := `a={"x"=1, "y"=2};a["z"] = a["x"] + a["y"];a["z"]`
	st, v, err := e.Run(src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if st != status.OK {
		t.Fatalf("status = %s, want ok", st)
	}
	if v.Int != 3 {
		t.Errorf("a[\"z\"] = %d, want 3", v.Int)
	}
}

func TestRunArrayMixedKeyedAndPositionalLiteral(t *testing.T) {
	e := newEvaluator()
	src := `a={"k"=10, 20, 30};length(a)`
	st, v, err := e.Run(src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if st != status.OK {
		t.Fatalf("status = %s, want ok", st)
	}
	if v.Int != 3 {
		t.Errorf("length(a) = %d, want 3", v.Int)
	}
	st, v, err = e.Run(`a[0]`)
	if err != nil || st != status.OK {
		t.Fatalf("a[0]: status=%s err=%v", st, err)
	}
	if v.Int != 20 {
		t.Errorf("a[0] = %d, want 20 (positional indices are sequential, skipping the keyed element)", v.Int)
	}
}

func TestRunArrayLengthAndKeys(t *testing.T) {
	e := newEvaluator()
	st, v, err := e.Run(`a={10,20,30};length(a)`)
	if err != nil || st != status.OK {
		t.Fatalf("length: status=%s err=%v", st, err)
	}
	if v.Int != 3 {
		t.Errorf("length(a) = %d, want 3", v.Int)
	}
}

func TestRunStringByteIndexMutation(t *testing.T) {
	e := newEvaluator()
	st, v, err := e.Run(`s="hello";s[0]="H";s`)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if st != status.OK {
		t.Fatalf("status = %s, want ok", st)
	}
	if v.Str != "Hello" {
		t.Errorf("s = %q, want %q", v.Str, "Hello")
	}
}

func TestRunTryCatchDivisionByZero(t *testing.T) {
	e := newEvaluator()
	src := `try { a=1/0 } catch { b=1 };GUA_ERROR`
	st, v, err := e.Run(src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if st != status.OK {
		t.Fatalf("status = %s, want ok (try/catch must convert the error back to ok)", st)
	}
	if !strings.Contains(v.Str, "division by zero") {
		t.Errorf("GUA_ERROR = %q, want it to mention division by zero", v.Str)
	}
}

func TestRunMacroGlobalAssignment(t *testing.T) {
	e := newEvaluator()
	src := `function setup(){$x=5};setup();x`
	st, v, err := e.Run(src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if st != status.OK {
		t.Fatalf("status = %s, want ok", st)
	}
	if v.Int != 5 {
		t.Errorf("x = %d, want 5 (macro assignment inside a function must write to the global frame)", v.Int)
	}
}

func TestRunMatrixInverseApproxEqual(t *testing.T) {
	e := newEvaluator()
	src := `a=[4.0,7.0;2.0,6.0];b=inv(a);isMatrixApproximatelyEqual(a*b,ident(2),0.0000001)`
	st, v, err := e.Run(src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if st != status.OK {
		t.Fatalf("status = %s, want ok", st)
	}
	if v.Int != 1 {
		t.Errorf("a * inv(a) ~= ident(2) evaluated to %d, want 1 (true)", v.Int)
	}
}

func TestRunEvalBuiltinRecursesThroughRun(t *testing.T) {
	e := newEvaluator()
	st, v, err := e.Run(`eval("2+2")`)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if st != status.OK {
		t.Fatalf("status = %s, want ok", st)
	}
	if v.Int != 4 {
		t.Errorf("eval(\"2+2\") = %d, want 4", v.Int)
	}
}

func TestRunErrorBuiltinSetsErrorStatus(t *testing.T) {
	e := newEvaluator()
	st, _, err := e.Run(`error("boom")`)
	if st != status.Error {
		t.Errorf("status = %s, want error (the error() builtin maps to status.Error specifically)", st)
	}
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("err = %v, want it to mention \"boom\"", err)
	}
}

func TestRunFunctionErrorStatusForOtherBuiltins(t *testing.T) {
	e := newEvaluator()
	st, _, err := e.Run(`length(1)`)
	if st != status.FunctionError {
		t.Errorf("status = %s, want function error", st)
	}
	if err == nil {
		t.Errorf("expected an error for length(1)")
	}
}

func TestRunTestStatementReportsGlobals(t *testing.T) {
	e := newEvaluator()
	src := `test(3) { 1+1 };GUA_TRIES`
	st, v, err := e.Run(src)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if st != status.OK {
		t.Fatalf("status = %s, want ok", st)
	}
	if v.Int != 3 {
		t.Errorf("GUA_TRIES = %d, want 3", v.Int)
	}
}

func TestComplexRelationalComparisonIsIllegalOperand(t *testing.T) {
	e := newEvaluator()
	st, _, err := e.Run(`complex(1,1) < complex(2,2)`)
	if st != status.IllegalOperand {
		t.Errorf("status = %s, want illegal operand (complex has no defined ordering)", st)
	}
	if err == nil {
		t.Errorf("expected an error comparing complex operands")
	}
}

func TestRunTypeBuiltinMatchesItsOwnTag(t *testing.T) {
	tests := []struct {
		expr string
		tag  string
	}{
		{"1", "GUA_INTEGER"},
		{"1.5", "GUA_REAL"},
		{"complex(1,2)", "GUA_COMPLEX"},
		{`"s"`, "GUA_STRING"},
		{"{1,2}", "GUA_ARRAY"},
		{"ident(2)", "GUA_MATRIX"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			e := newEvaluator()
			st, v, err := e.Run("type(" + tt.expr + ") == " + tt.tag)
			if err != nil {
				t.Fatalf("Run error: %v", err)
			}
			if st != status.OK {
				t.Fatalf("status = %s, want ok", st)
			}
			if v.Int != 1 {
				t.Errorf("type(%s) == %s evaluated to %d, want 1 (true)", tt.expr, tt.tag, v.Int)
			}
		})
	}
}

func TestNamespaceAccessor(t *testing.T) {
	ns := namespace.New()
	e := New(ns, &fixedClock{step: 1})
	if e.Namespace() != ns {
		t.Errorf("Namespace() did not return the root namespace passed to New")
	}
}
