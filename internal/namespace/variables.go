package namespace

import "github.com/souzamonteiro/guash/internal/value"

// findLocal returns the Variable named name in ns's own bucket, or nil.
func (ns *Namespace) findLocal(name string) *Variable {
	for v := ns.variables[slot(name)]; v != nil; v = v.next {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// findStack walks Previous links starting at ns until name is found.
func (ns *Namespace) findStack(name string) (*Namespace, *Variable) {
	for frame := ns; frame != nil; frame = frame.Previous {
		if v := frame.findLocal(name); v != nil {
			return frame, v
		}
	}
	return nil, nil
}

// Get resolves name according to scope. Local searches only ns; Stack walks
// Previous links; Global jumps to the root frame then searches Local there.
// Lookup failure falls back to the constants table before reporting
// "not found" (spec.md §4.2).
func (ns *Namespace) Get(name string, scope Scope) (value.Value, bool) {
	switch scope {
	case Local:
		if v := ns.findLocal(name); v != nil {
			return v.Value, true
		}
	case Stack:
		if _, v := ns.findStack(name); v != nil {
			return v.Value, true
		}
	case Global:
		if v := ns.Global().findLocal(name); v != nil {
			return v.Value, true
		}
	}
	if cv, ok := LookupConstant(name); ok {
		return cv, true
	}
	return value.Unknown(), false
}

// linkVariable appends v to ns's bucket for name.
func (ns *Namespace) linkVariable(name string, val value.Value) *Variable {
	s := slot(name)
	v := &Variable{Name: name, Value: val}
	head := ns.variables[s]
	if head == nil {
		ns.variables[s] = v
		return v
	}
	tail := head
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = v
	v.prev = tail
	return v
}

// unlinkVariable removes v from its owning bucket's list.
func (ns *Namespace) unlinkVariable(v *Variable) {
	s := slot(v.Name)
	if v.prev != nil {
		v.prev.next = v.next
	} else {
		ns.variables[s] = v.next
	}
	if v.next != nil {
		v.next.prev = v.prev
	}
	v.prev, v.next = nil, nil
}

// Set stores val under name according to scope (spec.md §4.2):
//
//   - Local: overwrite in bucket if present, else append a new Variable.
//   - Stack: overwrite wherever found on the Previous chain; if not found
//     anywhere, create in the deepest (global) frame.
//   - Global: create/overwrite directly in the root frame.
//
// If val shares underlying payload identity with the variable's current
// value, Set is a no-op (spec.md §4.2 "the operation is a no-op"). The
// incoming value is marked Stored so the caller does not also own it.
func (ns *Namespace) Set(name string, val value.Value, scope Scope) {
	val.Stored = true

	if IsConstant(name) {
		return
	}

	switch scope {
	case Local:
		if v := ns.findLocal(name); v != nil {
			if value.SameIdentity(v.Value, val) {
				return
			}
			v.Value = val
			return
		}
		ns.linkVariable(name, val)
	case Stack:
		if _, v := ns.findStack(name); v != nil {
			if value.SameIdentity(v.Value, val) {
				return
			}
			v.Value = val
			return
		}
		ns.Global().linkVariable(name, val)
	case Global:
		root := ns.Global()
		if v := root.findLocal(name); v != nil {
			if value.SameIdentity(v.Value, val) {
				return
			}
			v.Value = val
			return
		}
		root.linkVariable(name, val)
	}
}

// Update relinks an existing variable's payload in place without treating
// the write as a fresh Set, used when a container's internal state changed
// through an alias and the owner slot must reflect the same (possibly
// identical) payload (spec.md §4.2 "Update").
func (ns *Namespace) Update(name string, val value.Value, scope Scope) {
	val.Stored = true
	switch scope {
	case Local:
		if v := ns.findLocal(name); v != nil {
			v.Value = val
		}
	case Stack:
		if _, v := ns.findStack(name); v != nil {
			v.Value = val
		}
	case Global:
		if v := ns.Global().findLocal(name); v != nil {
			v.Value = val
		}
	}
}

// Unset removes name from scope, per spec.md §4.2. Constant-table names
// cannot be unset (invariant #5).
func (ns *Namespace) Unset(name string, scope Scope) {
	if IsConstant(name) {
		return
	}
	switch scope {
	case Local:
		if v := ns.findLocal(name); v != nil {
			ns.unlinkVariable(v)
		}
	case Stack:
		if frame, v := ns.findStack(name); v != nil {
			frame.unlinkVariable(v)
		}
	case Global:
		root := ns.Global()
		if v := root.findLocal(name); v != nil {
			root.unlinkVariable(v)
		}
	}
}

// HasLocal reports whether name is bound in ns's own frame; enclosing
// frames and the constants table are not consulted.
func (ns *Namespace) HasLocal(name string) bool {
	return ns.findLocal(name) != nil
}

// HasOnStack reports whether name is bound anywhere on the Previous chain.
func (ns *Namespace) HasOnStack(name string) bool {
	_, v := ns.findStack(name)
	return v != nil
}
