package params

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// Flatten turns a tree back into pairs that Parse accepts.
// Map keys are emitted in sorted order and list order is kept. Empty maps and lists
// have no flat form and are omitted. Lists of containers, and keys containing
// brackets, cannot be expressed and wrap ErrMalformed.
func Flatten(t Tree) ([]Pair, error) {
	var pairs []Pair
	for _, k := range t.Keys() {
		if strings.ContainsAny(k, "[]") {
			return nil, fmt.Errorf("%w: key %q contains brackets", ErrMalformed, k)
		}
		var err error
		pairs, err = flattenValue(pairs, k, t[k])
		if err != nil {
			return nil, err
		}
	}
	return pairs, nil
}

func flattenValue(pairs []Pair, key string, v any) ([]Pair, error) {
	switch x := v.(type) {
	case map[string]any:
		for _, sub := range slices.Sorted(maps.Keys(x)) {
			if strings.ContainsAny(sub, "[]") || (sub == "" && !isContainer(x[sub])) {
				return nil, fmt.Errorf("%w: subkey %q of %s", ErrMalformed, sub, key)
			}
			var err error
			pairs, err = flattenValue(pairs, key+"["+sub+"]", x[sub])
			if err != nil {
				return nil, err
			}
		}
		return pairs, nil
	case []any:
		for _, e := range x {
			if isContainer(e) {
				return nil, fmt.Errorf("%w: list %s holds a container", ErrMalformed, key)
			}
			pairs = append(pairs, scalarPair(key+"[]", e))
		}
		return pairs, nil
	default:
		return append(pairs, scalarPair(key, v)), nil
	}
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

func scalarPair(key string, v any) Pair {
	switch x := v.(type) {
	case bool:
		if x {
			return Flag(key)
		}
		return P(key, "false")
	case string:
		return P(key, x)
	default:
		return P(key, fmt.Sprint(x))
	}
}

// Encode serializes a tree as a query string.
func Encode(t Tree) (string, error) {
	pairs, err := Flatten(t)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		if p.HasValue {
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(p.Value))
		}
	}
	return b.String(), nil
}
