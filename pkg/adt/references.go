package adt

// References accumulates the remote objects touched while processing one
// dependency group. The same remote identity is never held twice.
type References struct {
	refs []ObjectReference
	seen map[string]bool
}

// NewReferences returns an empty reference set.
func NewReferences() *References {
	return &References{seen: make(map[string]bool)}
}

// Add registers an object for activation.
func (r *References) Add(obj Object) {
	r.AddReference(obj.Reference())
}

// AddReference registers a reference, ignoring duplicates of the same URI.
func (r *References) AddReference(ref ObjectReference) {
	if r.seen[ref.URI] {
		return
	}
	r.seen[ref.URI] = true
	r.refs = append(r.refs, ref)
}

// Empty reports whether no object has been registered.
func (r *References) Empty() bool {
	return len(r.refs) == 0
}

// Len returns the number of registered references.
func (r *References) Len() int {
	return len(r.refs)
}

// List returns the references in registration order.
func (r *References) List() []ObjectReference {
	return r.refs
}
