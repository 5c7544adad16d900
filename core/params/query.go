package params

import (
	"fmt"
	"net/url"
	"strings"
)

// SplitQuery splits a raw query string into pairs in arrival order.
// Segments are separated by '&' and split once on '='; keys and values are
// query-unescaped so '+' decodes to a space. Empty segments are skipped.
func SplitQuery(raw string) ([]Pair, error) {
	if raw == "" {
		return nil, nil
	}

	segments := strings.Split(raw, "&")
	pairs := make([]Pair, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}

		rawKey, rawValue, hasValue := strings.Cut(seg, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrMalformed, rawKey, err)
		}

		p := Pair{Key: key, HasValue: hasValue}
		if hasValue {
			p.Value, err = url.QueryUnescape(rawValue)
			if err != nil {
				return nil, fmt.Errorf("%w: value of %q: %v", ErrMalformed, key, err)
			}
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// ParseQuery splits and parses a raw query string.
func ParseQuery(raw string) (Tree, error) {
	pairs, err := SplitQuery(raw)
	if err != nil {
		return nil, err
	}
	return Parse(pairs)
}

// CheckReserved rejects pairs whose raw key starts with prefix.
// It runs on the raw pairs so a reserved key can never reach the parser,
// including one that names only the prefix itself.
func CheckReserved(pairs []Pair, prefix string) error {
	if prefix == "" {
		return nil
	}
	for _, p := range pairs {
		if strings.HasPrefix(p.Key, prefix) {
			return fmt.Errorf("%w: %s", ErrReservedKey, p.Key)
		}
	}
	return nil
}
