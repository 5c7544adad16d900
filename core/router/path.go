package router

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizePath turns a raw request path into the form patterns are matched against.
// The path must start with a slash. One leading and one trailing slash are removed and
// the rest is percent-decoded.
func NormalizePath(raw string) (string, error) {
	if !strings.HasPrefix(raw, "/") {
		return "", fmt.Errorf("%w: %q", ErrMalformedPath, raw)
	}

	p := strings.TrimPrefix(raw, "/")
	p = strings.TrimSuffix(p, "/")

	decoded, err := url.PathUnescape(p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPath, err)
	}
	return decoded, nil
}
