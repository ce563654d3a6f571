// Package container implements the associative-array and matrix operations
// of spec.md §4.3: element get/set/unset/copy/keys/equal for arrays, and
// allocate/copy/get/set/arithmetic for matrices.
package container

import (
	"fmt"
	"strings"

	"github.com/souzamonteiro/guash/internal/value"
)

// KeysEqual compares two array keys by type-then-value, per spec.md §4.3
// ("Integer by integer, String by byte-range memcmp").
func KeysEqual(a, b value.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case value.KindInteger:
		return a.Int == b.Int
	case value.KindString:
		return a.Str == b.Str
	default:
		return false
	}
}

// Find returns the Element in arr matching key, or nil.
func Find(arr *value.Array, key value.Value) *value.Element {
	for e := arr.Head; e != nil; e = e.Next {
		if KeysEqual(e.Key, key) {
			return e
		}
	}
	return nil
}

// ArraySet implements spec.md §4.3 Array.Set: replace on key match, append
// on miss. val must not itself be an Array or Matrix (invariant #2);
// callers are expected to have rejected that case already via
// ValidateElementValue.
func ArraySet(arr *value.Array, key, val value.Value) {
	val.Stored = true
	if e := Find(arr, key); e != nil {
		e.Val = val
		return
	}
	e := &value.Element{Key: key, Val: val}
	if arr.Head == nil {
		arr.Head = e
		arr.Tail = e
	} else {
		arr.Tail.Next = e
		e.Prev = arr.Tail
		arr.Tail = e
	}
	arr.Length++
}

// ValidateElementValue enforces invariant #2: an array element's value may
// be any non-Array, non-Matrix Value.
func ValidateElementValue(v value.Value) error {
	if v.Kind == value.KindArray || v.Kind == value.KindMatrix {
		return fmt.Errorf("illegal assignment: array elements cannot hold %s values", v.Kind)
	}
	return nil
}

// ArrayGet returns the value stored under key, or Unknown if absent.
func ArrayGet(arr *value.Array, key value.Value) value.Value {
	if e := Find(arr, key); e != nil {
		return e.Val
	}
	return value.Unknown()
}

// ArrayUnset removes key from arr. Spec.md §4.4: "deleting the last element
// deletes the variable" is the assignment layer's responsibility, signaled
// by the returned bool reporting whether arr is now empty.
func ArrayUnset(arr *value.Array, key value.Value) (removed, nowEmpty bool) {
	e := Find(arr, key)
	if e == nil {
		return false, arr.Length == 0
	}
	if e.Prev != nil {
		e.Prev.Next = e.Next
	} else {
		arr.Head = e.Next
	}
	if e.Next != nil {
		e.Next.Prev = e.Prev
	} else {
		arr.Tail = e.Prev
	}
	arr.Length--
	return true, arr.Length == 0
}

// ArrayCopy performs a deep copy of src: a fresh Array value with its own
// Element chain. Element Values are copied by field (none may be
// Array/Matrix per invariant #2, so no further recursion is needed).
func ArrayCopy(src *value.Array) *value.Array {
	dst := &value.Array{}
	for e := src.Head; e != nil; e = e.Next {
		ArraySet(dst, e.Key, e.Val)
	}
	return dst
}

// ArrayKeys returns a new Array keyed 0..n-1 holding src's original keys,
// in insertion order (spec.md §4.3 "Keys").
func ArrayKeys(src *value.Array) *value.Array {
	dst := &value.Array{}
	i := int64(0)
	for e := src.Head; e != nil; e = e.Next {
		ArraySet(dst, value.Int(i), e.Key)
		i++
	}
	return dst
}

// IsArrayEqual compares a and b order-sensitively: equal length, then
// pairwise key-and-value equality (spec.md §4.3). eq is the scalar/array/
// matrix equality predicate from internal/eval, injected to avoid a cyclic
// import back onto the evaluator's comparison rules.
func IsArrayEqual(a, b *value.Array, eq func(x, y value.Value) bool) bool {
	if a.Length != b.Length {
		return false
	}
	ea, eb := a.Head, b.Head
	for ea != nil && eb != nil {
		if !KeysEqual(ea.Key, eb.Key) || !eq(ea.Val, eb.Val) {
			return false
		}
		ea, eb = ea.Next, eb.Next
	}
	return true
}

// ArrayToString renders arr in canonical literal form {v1,v2,...}
// (spec.md §6). renderVal renders a single element value using the same
// canonical rules as value.Value.String, injected to keep container free of
// a dependency on the evaluator's full value-to-string policy.
func ArrayToString(arr *value.Array, renderVal func(value.Value) string) string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for e := arr.Head; e != nil; e = e.Next {
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(renderVal(e.Val))
	}
	b.WriteByte('}')
	return b.String()
}
