package namespace

import (
	"testing"

	"github.com/souzamonteiro/guash/internal/value"
)

func TestSetLocalAndGet(t *testing.T) {
	ns := New()
	ns.Set("a", value.Int(1), Local)

	got, ok := ns.Get("a", Local)
	if !ok || got.Int != 1 {
		t.Fatalf("Get(a, Local) = %v, %v, want 1, true", got, ok)
	}
}

func TestSetStackFallsBackToGlobal(t *testing.T) {
	root := New()
	frame := root.Push()

	frame.Set("a", value.Int(5), Stack)

	// not found locally in frame...
	if frame.HasLocal("a") {
		t.Errorf("expected 'a' to be created in the global frame, not locally")
	}
	// ...but visible from the root.
	got, ok := root.Get("a", Local)
	if !ok || got.Int != 5 {
		t.Errorf("root.Get(a, Local) = %v, %v, want 5, true", got, ok)
	}
}

func TestGetStackWalksPreviousChain(t *testing.T) {
	root := New()
	root.Set("x", value.Int(10), Local)
	frame := root.Push()

	got, ok := frame.Get("x", Stack)
	if !ok || got.Int != 10 {
		t.Errorf("Get(x, Stack) = %v, %v, want 10, true", got, ok)
	}

	if _, ok := frame.Get("x", Local); ok {
		t.Errorf("Get(x, Local) should not see a parent-frame variable")
	}
}

func TestSetNoOpOnSameIdentity(t *testing.T) {
	ns := New()
	av := value.NewArray()
	ns.Set("arr", av, Local)

	v1, _ := ns.Get("arr", Local)
	ns.Set("arr", av, Local) // same underlying *Array
	v2, _ := ns.Get("arr", Local)

	if v1.Arr != v2.Arr {
		t.Errorf("Set with same identity should be a no-op, payload pointer changed")
	}
}

func TestUnset(t *testing.T) {
	ns := New()
	ns.Set("a", value.Int(1), Local)
	ns.Unset("a", Local)

	if ns.HasLocal("a") {
		t.Errorf("expected 'a' to be removed after Unset")
	}
}

func TestConstantsAreImmutable(t *testing.T) {
	ns := New()
	ns.Set("TRUE", value.Int(99), Local)

	got, ok := ns.Get("TRUE", Local)
	if !ok {
		t.Fatalf("TRUE should resolve via the constants table")
	}
	if got.Int != 1 {
		t.Errorf("TRUE = %d after attempted overwrite, want 1 (constants cannot be set)", got.Int)
	}

	ns.Unset("TRUE", Local)
	if _, ok := ns.Get("TRUE", Local); !ok {
		t.Errorf("TRUE should still resolve after an attempted Unset")
	}
}

func TestPushPopChain(t *testing.T) {
	root := New()
	child := root.Push()

	if child.Previous != root {
		t.Errorf("child.Previous = %p, want %p", child.Previous, root)
	}
	if root.Next != child {
		t.Errorf("root.Next = %p, want %p", root.Next, child)
	}

	child.Pop()
	if root.Next != nil {
		t.Errorf("root.Next should be nil after child.Pop()")
	}
}

func TestGlobalWalksToRoot(t *testing.T) {
	root := New()
	mid := root.Push()
	leaf := mid.Push()

	if got := leaf.Global(); got != root {
		t.Errorf("leaf.Global() = %p, want root %p", got, root)
	}
}

func TestDefineAndSearchFunction(t *testing.T) {
	ns := New()
	ns.DefineFunction(&Function{Name: "double", IsBuiltin: true, Builtin: func(ns *Namespace, argv []value.Value) (value.Value, error) {
		return value.Int(argv[1].Int * 2), nil
	}})

	child := ns.Push()
	fn, ok := child.SearchFunction("double")
	if !ok {
		t.Fatalf("SearchFunction(double) from child frame should find the global function")
	}
	got, err := fn.Builtin(ns, []value.Value{value.Unknown(), value.Int(21)})
	if err != nil {
		t.Fatalf("Builtin call failed: %v", err)
	}
	if got.Int != 42 {
		t.Errorf("double(21) = %d, want 42", got.Int)
	}
}
