package params

import (
	"regexp"
)

var (
	bracketKey  = regexp.MustCompile(`^([^\[]*)(\[.*\])`)
	bracketPart = regexp.MustCompile(`\[([^\]]*)\]`)
)

// Pair is one raw key/value item in arrival order.
// HasValue is false for valueless keys such as "?flag".
type Pair struct {
	Key      string
	Value    string
	HasValue bool
}

// P returns a pair with a value.
func P(key, value string) Pair {
	return Pair{Key: key, Value: value, HasValue: true}
}

// Flag returns a valueless pair.
func Flag(key string) Pair {
	return Pair{Key: key}
}

func (p Pair) value() any {
	if !p.HasValue {
		return true
	}
	return p.Value
}

// SplitKey splits "base[s1][s2]" into "base" and its bracket segments.
// A key without a bracket suffix returns no segments.
func SplitKey(key string) (string, []string) {
	m := bracketKey.FindStringSubmatch(key)
	if m == nil {
		return key, nil
	}
	parts := bracketPart.FindAllStringSubmatch(m[2], -1)
	subs := make([]string, 0, len(parts))
	for _, p := range parts {
		subs = append(subs, p[1])
	}
	return m[1], subs
}

// Parse builds a tree from pairs in order.
func Parse(pairs []Pair) (Tree, error) {
	tree := make(Tree, len(pairs))
	for _, p := range pairs {
		if err := tree.insert(p); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func (t Tree) insert(p Pair) error {
	key, subs := SplitKey(p.Key)
	if len(subs) == 0 {
		if _, ok := t[key]; ok {
			return collision(p.Key)
		}
		t[key] = p.value()
		return nil
	}

	last := len(subs) - 1
	appendMode := subs[last] == ""

	// containers[i] is the path element that holds containers[i+1];
	// the final one holds the terminal field or list.
	path := append([]string{key}, subs[:last]...)

	var parent map[string]any = t
	for i, name := range path {
		wantList := appendMode && i == len(path)-1

		existing, ok := parent[name]
		if !ok {
			if wantList {
				parent[name] = []any{}
			} else {
				parent[name] = map[string]any{}
			}
		} else if !sameContainer(existing, wantList) {
			if i == 0 {
				return conflict(key)
			}
			return subConflict(key, name)
		}

		if wantList {
			parent[name] = append(parent[name].([]any), p.value())
			return nil
		}
		parent = parent[name].(map[string]any)
	}

	field := subs[last]
	if _, ok := parent[field]; ok {
		return subCollision(key, field)
	}
	parent[field] = p.value()
	return nil
}

func sameContainer(v any, list bool) bool {
	switch v.(type) {
	case []any:
		return list
	case map[string]any:
		return !list
	default:
		return false
	}
}
