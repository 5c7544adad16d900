package handler

import "github.com/dmitrymomot/pagekit/core/diag"

// Kind tags an Outcome.
type Kind uint8

const (
	// KindValue carries a value to render.
	KindValue Kind = iota
	// KindDone keeps what the handler printed and stops.
	KindDone
	// KindRedirect sends the client elsewhere.
	KindRedirect
	// KindFailure carries an error.
	KindFailure
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindDone:
		return "done"
	case KindRedirect:
		return "redirect"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is the result of a handler call.
type Outcome struct {
	kind     Kind
	value    any
	location string
	err      error
	stack    []uintptr
}

// Value returns an outcome rendering v through the handler's view.
func Value(v any) Outcome {
	return Outcome{kind: KindValue, value: v}
}

// Done returns an outcome that keeps the printed output as the body.
func Done() Outcome {
	return Outcome{kind: KindDone}
}

// Redirect returns an outcome redirecting the client to location.
func Redirect(location string) Outcome {
	return Outcome{kind: KindRedirect, location: location}
}

// Fail returns a failed outcome. A nil error is treated as Done.
// The call site is recorded for diagnostics.
func Fail(err error) Outcome {
	if err == nil {
		return Done()
	}
	return Outcome{kind: KindFailure, err: err, stack: diag.Callers(1)}
}

// Kind returns the variant tag.
func (o Outcome) Kind() Kind { return o.kind }

// Value returns the value of a KindValue outcome.
func (o Outcome) Value() any { return o.value }

// Location returns the redirect target of a KindRedirect outcome.
func (o Outcome) Location() string { return o.location }

// Err returns the error of a KindFailure outcome.
func (o Outcome) Err() error { return o.err }
