package handler

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/dmitrymomot/pagekit/core/params"
	"github.com/dmitrymomot/pagekit/core/router"
	"github.com/dmitrymomot/pagekit/core/session"
	"github.com/dmitrymomot/pagekit/core/view"
)

// Class is the category of a request failure.
type Class uint8

const (
	ClassUnhandled Class = iota
	ClassRouting
	ClassParameter
	ClassForbidden
	ClassViewNotFound
	ClassDatastore
)

func (c Class) String() string {
	switch c {
	case ClassRouting:
		return "routing"
	case ClassParameter:
		return "parameter"
	case ClassForbidden:
		return "forbidden"
	case ClassViewNotFound:
		return "view_not_found"
	case ClassDatastore:
		return "datastore"
	default:
		return "unhandled"
	}
}

// StatusCode maps the class to an HTTP status.
func (c Class) StatusCode() int {
	switch c {
	case ClassRouting:
		return http.StatusNotFound
	case ClassParameter:
		return http.StatusBadRequest
	case ClassForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Title is the default heading shown for the class.
func (c Class) Title() string {
	switch c {
	case ClassRouting, ClassParameter:
		return "Invalid request"
	case ClassForbidden:
		return "Forbidden"
	case ClassViewNotFound:
		return "View not found"
	case ClassDatastore:
		return "Database Error"
	default:
		return "Unhandled Error"
	}
}

// Error is a classified request failure.
type Error struct {
	Class Class
	Title string
	// Message is plain text; it is escaped when rendered.
	Message string
	// HTML replaces Message when set and is rendered verbatim.
	HTML string
	Err  error
	// Stack holds the program counters of a recovered panic.
	Stack []uintptr
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		return e.Title
	}
	return e.Title + ": " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode implements the status code interface used by error handlers.
func (e *Error) StatusCode() int {
	return e.Class.StatusCode()
}

// Body returns the message as HTML.
func (e *Error) Body() string {
	if e.HTML != "" {
		return e.HTML
	}
	if e.Message != "" {
		return html.EscapeString(e.Message)
	}
	if e.Err != nil {
		return html.EscapeString(e.Err.Error())
	}
	return ""
}

func newError(class Class, message string, err error) *Error {
	return &Error{Class: class, Title: class.Title(), Message: message, Err: err}
}

// NewRoutingError reports that no handler matched.
func NewRoutingError(method, path, action string) *Error {
	if path == "" {
		path = "/"
	}
	target := html.EscapeString(path)
	if action != "" {
		target += " [" + html.EscapeString(action) + "]"
	}
	e := newError(ClassRouting, fmt.Sprintf("Unknown %s action %s", method, path), router.ErrNotFound)
	e.HTML = fmt.Sprintf("Unknown %s action <b>%s</b>", html.EscapeString(method), target)
	return e
}

// NewParameterError reports a malformed or invalid request parameter.
func NewParameterError(message string, err error) *Error {
	return newError(ClassParameter, message, err)
}

// NewForbiddenError reports that the client may not use the handler.
func NewForbiddenError(message string) *Error {
	return newError(ClassForbidden, message, nil)
}

// BadRequest is a handler-facing shorthand for a parameter error.
func BadRequest(format string, args ...any) *Error {
	return NewParameterError(fmt.Sprintf(format, args...), nil)
}

// Classify turns any error into an *Error.
// Session datastore failures become ClassDatastore, view lookups ClassViewNotFound and
// parameter parsing failures ClassParameter; anything else is unhandled.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, session.ErrDatastore):
		return newError(ClassDatastore, err.Error(), err)
	case errors.Is(err, view.ErrViewNotFound):
		return newError(ClassViewNotFound, err.Error(), err)
	case errors.Is(err, params.ErrTypeConflict),
		errors.Is(err, params.ErrCollision),
		errors.Is(err, params.ErrMalformed),
		errors.Is(err, params.ErrReservedKey),
		errors.Is(err, params.ErrFailedToParseForm),
		errors.Is(err, params.ErrUnsupportedMediaType):
		return newError(ClassParameter, err.Error(), err)
	case errors.Is(err, router.ErrNotFound):
		return newError(ClassRouting, err.Error(), err)
	case errors.Is(err, router.ErrMalformedPath):
		return newError(ClassParameter, err.Error(), err)
	default:
		return newError(ClassUnhandled, err.Error(), err)
	}
}
