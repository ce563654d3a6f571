package value

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want Value
	}{
		{"zero imaginary collapses to real", Complex(3, 0), RealV(3)},
		{"nonzero imaginary stays complex", Complex(3, 1), Complex(3, 1)},
		{"non-complex passes through", Int(5), Int(5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonicalize(tt.in)
			if got.Kind != tt.want.Kind || got.Re != tt.want.Re || got.Im != tt.want.Im || got.Int != tt.want.Int || got.Real != tt.want.Real {
				t.Errorf("Canonicalize(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Int(0), false},
		{Int(1), true},
		{Int(-1), true},
		{RealV(0), false},
		{RealV(0.1), true},
		{Str("nonempty"), false}, // only Integer/Real are valid boolean operands
		{Unknown(), false},
	}
	for _, tt := range tests {
		if got := IsTruthy(tt.v); got != tt.want {
			t.Errorf("IsTruthy(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestSameIdentity(t *testing.T) {
	arr := NewArray()
	aliasOfArr := arr
	otherArr := NewArray()

	if !SameIdentity(arr, aliasOfArr) {
		t.Errorf("expected alias of same *Array to share identity")
	}
	if SameIdentity(arr, otherArr) {
		t.Errorf("distinct *Array payloads must not share identity")
	}
	if SameIdentity(Int(1), Int(1)) {
		t.Errorf("scalars never share identity, even when equal by value")
	}
}

func TestTypeTag(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Int(1), "GUA_INTEGER"},
		{RealV(1), "GUA_REAL"},
		{Complex(1, 1), "GUA_COMPLEX"},
		{Str("x"), "GUA_STRING"},
		{NewArray(), "GUA_ARRAY"},
		{Unknown(), "GUA_UNKNOWN"},
	}
	for _, tt := range tests {
		if got := TypeTag(tt.v); got != tt.want {
			t.Errorf("TypeTag(%s) = %q, want %q", tt.v.Kind, got, tt.want)
		}
	}
}

func TestValueStringScalars(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Unknown(), ""},
		{Int(42), "42"},
		{RealV(1.5), "1.5"},
		{RealV(1e-13), "0"},
		{Complex(1, 2), "1+2*i"},
		{Str(`say "hi"`), `"say \"hi\""`},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("Value{%s}.String() = %q, want %q", tt.v.Kind, got, tt.want)
		}
	}
}

func TestBool(t *testing.T) {
	if Bool(true).Int != 1 {
		t.Errorf("Bool(true).Int = %d, want 1", Bool(true).Int)
	}
	if Bool(false).Int != 0 {
		t.Errorf("Bool(false).Int = %d, want 0", Bool(false).Int)
	}
}
