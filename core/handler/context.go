package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrymomot/pagekit/core/box"
	"github.com/dmitrymomot/pagekit/core/capture"
	"github.com/dmitrymomot/pagekit/core/params"
	"github.com/dmitrymomot/pagekit/core/session"
)

// Context is what a handler sees of the request it serves.
// Output printed through it lands in the request's active capture sink.
type Context struct {
	ctx     context.Context
	request *http.Request
	session *session.Session
	capture *capture.Registry
	uploads []params.Upload
	header  http.Header

	status      int
	contentType string
	download    string
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithSession attaches the client session.
func WithSession(s *session.Session) ContextOption {
	return func(c *Context) { c.session = s }
}

// WithCapture sets the capture registry; the default is capture.Default.
func WithCapture(reg *capture.Registry) ContextOption {
	return func(c *Context) {
		if reg != nil {
			c.capture = reg
		}
	}
}

// WithUploads attaches files received with a multipart body.
func WithUploads(uploads []params.Upload) ContextOption {
	return func(c *Context) { c.uploads = uploads }
}

// NewContext creates a handler context. ctx must carry the capture scope of the request.
func NewContext(ctx context.Context, r *http.Request, opts ...ContextOption) *Context {
	c := &Context{
		ctx:         ctx,
		request:     r,
		capture:     capture.Default,
		header:      make(http.Header),
		status:      http.StatusOK,
		contentType: "text/html; charset=utf-8",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Context returns the request context carrying the capture scope.
func (c *Context) Context() context.Context { return c.ctx }

// Request returns the HTTP request.
func (c *Context) Request() *http.Request { return c.request }

// Session returns the client session; nil when the dispatcher runs without one.
func (c *Context) Session() *session.Session { return c.session }

// Uploads returns files sent with a multipart body.
func (c *Context) Uploads() []params.Upload { return c.uploads }

// Capture returns the registry output is written through.
func (c *Context) Capture() *capture.Registry { return c.capture }

// Writer returns a writer bound to the active sink.
func (c *Context) Writer() io.Writer { return c.capture.Writer(c.ctx) }

// Print writes to the active sink.
func (c *Context) Print(a ...any) { _, _ = c.capture.Print(c.ctx, a...) }

// Printf writes to the active sink.
func (c *Context) Printf(format string, a ...any) { _, _ = c.capture.Printf(c.ctx, format, a...) }

// Println writes to the active sink.
func (c *Context) Println(a ...any) { _, _ = c.capture.Println(c.ctx, a...) }

// Render runs fn inside a nested sink and returns what it printed.
func (c *Context) Render(fn func() error) ([]byte, error) {
	return c.capture.Capture(c.ctx, func(context.Context) error { return fn() })
}

// Error prints an error box and ends the handler keeping the output so far.
func (c *Context) Error(title, text string) Outcome {
	_ = box.New(box.Error, title, text).Render(c.Writer())
	return Done()
}

// Errorf is like Error with a formatted body.
func (c *Context) Errorf(title, format string, a ...any) Outcome {
	return c.Error(title, fmt.Sprintf(format, a...))
}

// SetStatus sets the response status.
func (c *Context) SetStatus(code int) { c.status = code }

// Status returns the response status.
func (c *Context) Status() int { return c.status }

// SetContentType sets the response content type.
func (c *Context) SetContentType(ct string) { c.contentType = ct }

// ContentType returns the response content type.
func (c *Context) ContentType() string { return c.contentType }

// ForceDownload asks the client to save the body as filename.
func (c *Context) ForceDownload(filename string) { c.download = filename }

// Download returns the forced download filename, if any.
func (c *Context) Download() string { return c.download }

// Header returns extra response headers.
func (c *Context) Header() http.Header { return c.header }

// Defer queues an HTML fragment for the next rendered page of this session.
func (c *Context) Defer(fragment string) error {
	if c.session == nil {
		return nil
	}
	return c.session.Defer(c.ctx, fragment)
}

// ShowDeferred prints and clears the fragments queued by earlier requests.
func (c *Context) ShowDeferred() error {
	if c.session == nil {
		return nil
	}
	items, err := c.session.TakeDeferred(c.ctx)
	for _, item := range items {
		c.Println(item)
	}
	return err
}
