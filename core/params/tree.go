package params

import (
	"maps"
	"slices"
)

// Tree is a parsed parameter set.
// Values are string, bool (true for valueless keys), []any or map[string]any.
type Tree map[string]any

// Has reports whether key is present.
func (t Tree) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// Keys returns the top-level keys in sorted order.
func (t Tree) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}

// String returns the scalar string stored at key.
func (t Tree) String(key string) (string, bool) {
	s, ok := t[key].(string)
	return s, ok
}

// Bool reports whether key holds a valueless flag.
func (t Tree) Bool(key string) bool {
	b, ok := t[key].(bool)
	return ok && b
}

// List returns the list stored at key.
func (t Tree) List(key string) ([]any, bool) {
	l, ok := t[key].([]any)
	return l, ok
}

// Map returns the nested map stored at key as a Tree.
func (t Tree) Map(key string) (Tree, bool) {
	m, ok := t[key].(map[string]any)
	return Tree(m), ok
}

// Delete removes key and reports whether it was present.
func (t Tree) Delete(key string) bool {
	if _, ok := t[key]; !ok {
		return false
	}
	delete(t, key)
	return true
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	return Tree(cloneMap(t))
}

// Merge copies every top-level entry of src into t under prefix+key.
// An existing destination key wraps ErrCollision.
func (t Tree) Merge(src Tree, prefix string) error {
	for _, k := range src.Keys() {
		dst := prefix + k
		if _, ok := t[dst]; ok {
			return collision(dst)
		}
		t[dst] = src[k]
	}
	return nil
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
