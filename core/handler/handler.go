package handler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/pagekit/core/params"
)

// RawDataKey is the flag that asks for the handler value as JSON instead of its view.
const RawDataKey = "view-data"

// Func is a request handler.
type Func func(c *Context, args params.Tree) Outcome

// Manifest lists the parameters a handler takes.
type Manifest struct {
	Required []string
	Optional []string
	// AcceptsAny disables validation.
	AcceptsAny bool
}

// Handler is a registered handler with its metadata.
type Handler struct {
	Fn       Func
	Manifest Manifest
	// View names the renderer for values; empty prints the value as is.
	View string
	// AllowGuests lets the handler run without passing the guest check.
	AllowGuests bool
	Name        string
}

// Option configures a Handler.
type Option func(*Handler)

// Required declares required parameter names.
func Required(names ...string) Option {
	return func(h *Handler) { h.Manifest.Required = append(h.Manifest.Required, names...) }
}

// Optional declares optional parameter names.
func Optional(names ...string) Option {
	return func(h *Handler) { h.Manifest.Optional = append(h.Manifest.Optional, names...) }
}

// AcceptAnyArgs disables parameter validation.
func AcceptAnyArgs() Option {
	return func(h *Handler) { h.Manifest.AcceptsAny = true }
}

// View sets the view the handler value is rendered through.
func View(name string) Option {
	return func(h *Handler) { h.View = name }
}

// AllowGuests marks the handler as reachable by guests.
func AllowGuests() Option {
	return func(h *Handler) { h.AllowGuests = true }
}

// Named sets a name used in logs and metrics.
func Named(name string) Option {
	return func(h *Handler) { h.Name = name }
}

// New builds a Handler. It panics when fn is nil.
func New(fn Func, opts ...Option) *Handler {
	if fn == nil {
		panic("handler: nil handler func")
	}
	h := &Handler{Fn: fn}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Validate checks args against the manifest.
func Validate(m Manifest, args params.Tree) error {
	if m.AcceptsAny {
		return nil
	}

	var unexpected []string
	for _, k := range args.Keys() {
		if !slices.Contains(m.Required, k) && !slices.Contains(m.Optional, k) {
			unexpected = append(unexpected, k)
		}
	}
	if len(unexpected) > 0 {
		return NewParameterError(argumentMessage("Unexpected request", unexpected), nil)
	}

	var missing []string
	for _, k := range m.Required {
		if !args.Has(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return NewParameterError(argumentMessage("Missing expected request", missing), nil)
	}
	return nil
}

func argumentMessage(prefix string, names []string) string {
	noun := "argument"
	if len(names) > 1 {
		noun = "arguments"
	}
	return fmt.Sprintf("%s %s: %s", prefix, noun, strings.Join(names, ", "))
}
