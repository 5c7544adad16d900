package handler

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/dmitrymomot/pagekit/core/capture"
	"github.com/dmitrymomot/pagekit/core/diag"
	"github.com/dmitrymomot/pagekit/core/params"
	"github.com/dmitrymomot/pagekit/core/view"
)

// Result is what Invoke produced.
type Result struct {
	Kind     Kind
	Body     []byte
	Location string
	Err      *Error
}

// Failed reports whether the invocation ended in an error.
func (r Result) Failed() bool { return r.Kind == KindFailure }

// InvokeOption configures Invoke.
type InvokeOption func(*invokeConfig)

type invokeConfig struct {
	views *view.Registry
	raw   bool
}

// WithViews sets the registry views are looked up in.
func WithViews(views *view.Registry) InvokeOption {
	return func(c *invokeConfig) { c.views = views }
}

// WithRawData renders the handler value as JSON instead of through its view.
func WithRawData(raw bool) InvokeOption {
	return func(c *invokeConfig) { c.raw = raw }
}

// Invoke validates args, runs h inside a fresh sink and renders its outcome.
// The sink takes the mode of the current top sink, Text when there is none.
// The handler body does not run when validation fails.
func Invoke(c *Context, h *Handler, args params.Tree, opts ...InvokeOption) Result {
	cfg := &invokeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := Validate(h.Manifest, args); err != nil {
		return Result{Kind: KindFailure, Err: Classify(err)}
	}

	reg := c.capture
	base := reg.Depth(c.ctx)
	mode := capture.Text
	if top := reg.Top(c.ctx); top != nil {
		mode = top.Mode()
	}
	if err := reg.Start(c.ctx, capture.NewSink(mode)); err != nil {
		return Result{Kind: KindFailure, Err: Classify(err)}
	}

	out, herr := call(c, h, args)
	if herr == nil {
		herr = render(c, h, out, cfg)
	}

	// Drop sinks a handler left open, then collect its own.
	for reg.Depth(c.ctx) > base+1 {
		_, _ = reg.End(c.ctx)
	}
	body, endErr := reg.End(c.ctx)

	switch {
	case herr != nil:
		return Result{Kind: KindFailure, Err: herr}
	case out.kind == KindRedirect:
		return Result{Kind: KindRedirect, Location: out.location}
	case endErr != nil:
		return Result{Kind: KindFailure, Err: Classify(endErr)}
	}
	return Result{Kind: out.kind, Body: body}
}

// call runs the handler and turns a panic into an unhandled error.
func call(c *Context, h *Handler, args params.Tree) (out Outcome, err *Error) {
	defer func() {
		if v := recover(); v != nil {
			perr, ok := v.(error)
			if !ok {
				perr = fmt.Errorf("panic: %v", v)
			}
			err = withStack(Classify(perr), diag.Callers(1))
		}
	}()

	out = h.Fn(c, args)
	if out.kind == KindFailure {
		return out, withStack(Classify(out.err), out.stack)
	}
	return out, nil
}

// withStack attaches pcs to an unhandled error without mutating shared values.
func withStack(e *Error, pcs []uintptr) *Error {
	if e.Class != ClassUnhandled || e.Stack != nil || len(pcs) == 0 {
		return e
	}
	cp := *e
	cp.Stack = pcs
	return &cp
}

func render(c *Context, h *Handler, out Outcome, cfg *invokeConfig) *Error {
	if out.kind != KindValue {
		return nil
	}

	w := c.Writer()
	if cfg.raw {
		c.SetContentType("application/json")
		if err := json.NewEncoder(w).Encode(out.value); err != nil {
			return Classify(fmt.Errorf("encode view data: %w", err))
		}
		return nil
	}

	if h.View != "" {
		if cfg.views == nil {
			return Classify(fmt.Errorf("%w: %s", view.ErrViewNotFound, h.View))
		}
		if err := cfg.views.Render(c.ctx, w, h.View, out.value); err != nil {
			return Classify(err)
		}
		return nil
	}

	switch v := out.value.(type) {
	case nil:
	case []byte:
		_, _ = w.Write(v)
	case string:
		_, _ = fmt.Fprint(w, v)
	case template.HTML:
		_, _ = fmt.Fprint(w, string(v))
	default:
		_, _ = fmt.Fprint(w, v)
	}
	return nil
}
