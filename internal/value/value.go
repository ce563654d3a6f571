// Package value implements the tagged Value variants of spec.md §3: the
// evaluator's sole runtime representation for integers, reals, complex
// numbers, strings, associative arrays, dense matrices, and opaque file and
// handle resources.
package value

import "fmt"

// Kind discriminates the variant held by a Value.
type Kind int

const (
	KindUnknown Kind = iota
	KindInteger
	KindReal
	KindComplex
	KindString
	KindArray
	KindMatrix
	KindFile
	KindHandle
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindComplex:
		return "complex"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMatrix:
		return "matrix"
	case KindFile:
		return "file"
	case KindHandle:
		return "handle"
	default:
		return "invalid"
	}
}

// Value is a tagged sum of the variants in spec.md §3. Only the fields
// relevant to Kind are meaningful; the rest are zero.
//
// Stored discriminates ownership per spec.md's invariant #1 and the
// "Lifecycle" note: Stored=true means the heap payload referenced by Str,
// Arr, Mat, or Handle is owned by some variable or container cell and must
// not be released when this Value goes out of scope; Stored=false means the
// Value currently holding it is the sole owner and is responsible for either
// adopting it (flipping the flag on assignment) or letting it be collected
// by Go's GC once no reference remains. Go's garbage collector performs the
// actual reclamation; Stored exists to mirror the spec's ownership
// discipline for the "no owner, no alias" determinism the test suite checks
// (spec.md §8 property 5), not to drive manual frees.
type Value struct {
	Kind Kind

	Int  int64
	Real float64
	Re   float64 // Complex real part
	Im   float64 // Complex imaginary part

	Str string // byte sequence; may contain NULs, length is len(Str)

	Arr *Array
	Mat *Matrix

	File   *FileHandle
	Handle *GenericHandle

	Stored bool
}

// FileHandle wraps an externally-owned file resource. spec.md §5: "File and
// Handle values wrap opaque pointers whose lifecycle is owned by extension
// modules; the evaluator only clones the pointer... via callbacks registered
// on the file/handle object." Backend is a test double / host-supplied
// implementation; the core never constructs one itself.
type FileHandle struct {
	Backend any
}

// GenericHandle wraps an opaque host resource tagged with a type name.
type GenericHandle struct {
	TypeTag string
	Pointer any
}

// Unknown is the null/absent value (spec.md §3).
func Unknown() Value { return Value{Kind: KindUnknown, Stored: true} }

// Int constructs an owned Integer value.
func Int(i int64) Value { return Value{Kind: KindInteger, Int: i, Stored: true} }

// RealV constructs an owned Real value.
func RealV(f float64) Value { return Value{Kind: KindReal, Real: f, Stored: true} }

// Complex constructs an owned Complex value. Per spec.md invariant #6,
// callers performing arithmetic should call Canonicalize afterwards.
func Complex(re, im float64) Value {
	return Value{Kind: KindComplex, Re: re, Im: im, Stored: true}
}

// Str constructs an owned String value.
func Str(s string) Value { return Value{Kind: KindString, Str: s, Stored: true} }

// Bool renders a truthy Integer per the language's 0/1 boolean convention.
func Bool(b bool) Value {
	if b {
		return Int(1)
	}
	return Int(0)
}

// Canonicalize applies invariant #6: a Complex value whose imaginary part is
// exactly zero after an arithmetic operation collapses to Real.
func Canonicalize(v Value) Value {
	if v.Kind == KindComplex && v.Im == 0 {
		return RealV(v.Re)
	}
	return v
}

// IsTruthy evaluates a Value in boolean context (conditions, !, &&, ||).
// Only Integer and Real are valid boolean operands in this language; callers
// must reject other kinds before calling IsTruthy where spec.md requires it.
func IsTruthy(v Value) bool {
	switch v.Kind {
	case KindInteger:
		return v.Int != 0
	case KindReal:
		return v.Real != 0
	default:
		return false
	}
}

// IdentityKey returns a comparable key for the payload an owning Value
// references, used by Namespace.Set's no-op-on-same-identity rule (spec.md
// §4.2). Scalars have no shared payload and never compare equal by
// identity; Array/Matrix/Handle compare by pointer.
func IdentityKey(v Value) any {
	switch v.Kind {
	case KindArray:
		return v.Arr
	case KindMatrix:
		return v.Mat
	case KindFile:
		return v.File
	case KindHandle:
		return v.Handle
	default:
		return nil
	}
}

// SameIdentity reports whether a and b share the same underlying heap
// payload (used to implement the Set no-op-on-identity rule).
func SameIdentity(a, b Value) bool {
	ka, kb := IdentityKey(a), IdentityKey(b)
	return ka != nil && ka == kb
}

// TypeTag renders the GUA_* constant name for a Value's Kind, per spec.md §6.
func TypeTag(v Value) string {
	switch v.Kind {
	case KindInteger:
		return "GUA_INTEGER"
	case KindReal:
		return "GUA_REAL"
	case KindComplex:
		return "GUA_COMPLEX"
	case KindString:
		return "GUA_STRING"
	case KindArray:
		return "GUA_ARRAY"
	case KindMatrix:
		return "GUA_MATRIX"
	case KindHandle:
		return "GUA_HANDLE"
	case KindFile:
		return "GUA_FILE"
	default:
		return "GUA_UNKNOWN"
	}
}

// GoString supports %#v-style debugging without leaking into canonical
// rendering, which lives in string.go's String().
func (v Value) GoString() string {
	return fmt.Sprintf("Value{Kind:%s}", v.Kind)
}
