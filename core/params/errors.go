package params

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeConflict is returned when a key is redeclared with another container type.
	ErrTypeConflict = errors.New("type conflict")
	// ErrCollision is returned when a terminal field is written twice.
	ErrCollision = errors.New("collision")
	// ErrMalformed is returned for raw pairs that cannot be decoded.
	ErrMalformed = errors.New("malformed parameter")
	// ErrReservedKey is returned when a raw key uses the reserved form prefix.
	ErrReservedKey = errors.New("reserved parameter key")
	// ErrUnsupportedMediaType is returned for request bodies that are not forms.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrFailedToParseForm is returned when a form body cannot be read.
	ErrFailedToParseForm = errors.New("failed to parse form data")
)

// Error describes a structural failure on a specific key.
type Error struct {
	Err    error
	Key    string
	SubKey string
	// Nested is set when SubKey identifies a bracket segment.
	Nested bool
}

func (e *Error) Error() string {
	if e.Nested {
		return fmt.Sprintf("%s on query key %s, subkey %s", e.Err, e.Key, e.SubKey)
	}
	return fmt.Sprintf("%s on query key %s", e.Err, e.Key)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func conflict(key string) error {
	return &Error{Err: ErrTypeConflict, Key: key}
}

func subConflict(key, sub string) error {
	return &Error{Err: ErrTypeConflict, Key: key, SubKey: sub, Nested: true}
}

func collision(key string) error {
	return &Error{Err: ErrCollision, Key: key}
}

func subCollision(key, sub string) error {
	return &Error{Err: ErrCollision, Key: key, SubKey: sub, Nested: true}
}
