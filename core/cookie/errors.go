package cookie

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSecret is returned when signing is requested without secrets.
	ErrNoSecret = errors.New("no secret provided for cookie manager")
	// ErrSecretTooShort is returned for secrets under the minimum length.
	ErrSecretTooShort = errors.New("secret must be at least 32 characters long")
	// ErrInvalidSignature indicates a signed value failed verification.
	ErrInvalidSignature = errors.New("cookie signature verification failed")
	// ErrCookieNotFound indicates the request has no such cookie.
	ErrCookieNotFound = errors.New("cookie not found in request")
	// ErrInvalidFormat indicates a signed value is not in value|signature form.
	ErrInvalidFormat = errors.New("invalid cookie format")
)

// ErrCookieTooLarge indicates the cookie exceeds the maximum allowed size.
type ErrCookieTooLarge struct {
	Name string
	Size int
	Max  int
}

func (e ErrCookieTooLarge) Error() string {
	return fmt.Sprintf("cookie %q size %d exceeds maximum %d bytes", e.Name, e.Size, e.Max)
}
