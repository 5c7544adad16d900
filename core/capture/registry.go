package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// ID identifies a capture scope within a registry.
type ID uint64

type scope struct {
	id       ID
	owner    *Registry
	mu       sync.Mutex
	sinks    []*Sink
	released bool
}

type scopeKey struct{}

// Registry tracks capture scopes and routes ambient writes to them.
type Registry struct {
	mu     sync.Mutex
	scopes map[ID]*scope
	next   atomic.Uint64

	fallbackMu sync.Mutex
	fallback   io.Writer
}

// Option configures a Registry.
type Option func(*Registry)

// WithFallback sets the writer that receives output when no sink is active.
func WithFallback(w io.Writer) Option {
	return func(r *Registry) {
		if w != nil {
			r.fallback = w
		}
	}
}

// New creates a registry that falls back to os.Stdout.
func New(opts ...Option) *Registry {
	r := &Registry{
		scopes:   make(map[ID]*scope),
		fallback: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewScope registers a fresh scope and returns a context carrying it.
// The caller must call Release when the scope is finished.
func (r *Registry) NewScope(ctx context.Context) context.Context {
	s := &scope{
		id:    ID(r.next.Add(1)),
		owner: r,
	}

	r.mu.Lock()
	r.scopes[s.id] = s
	r.mu.Unlock()

	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeID returns the scope identifier carried by ctx.
func (r *Registry) ScopeID(ctx context.Context) (ID, bool) {
	s := r.lookup(ctx)
	if s == nil {
		return 0, false
	}
	return s.id, true
}

// Start pushes sink onto the scope carried by ctx.
func (r *Registry) Start(ctx context.Context, sink *Sink) error {
	s := r.lookup(ctx)
	if s == nil {
		return ErrNoScope
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}
	s.sinks = append(s.sinks, sink)
	return nil
}

// Write appends p to the top sink of the scope carried by ctx.
// Without a scope or an active sink, p goes to the fallback writer.
func (r *Registry) Write(ctx context.Context, p []byte) (int, error) {
	if s := r.lookup(ctx); s != nil {
		s.mu.Lock()
		if n := len(s.sinks); n > 0 && !s.released {
			written, err := s.sinks[n-1].Write(p)
			s.mu.Unlock()
			return written, err
		}
		s.mu.Unlock()
	}

	r.fallbackMu.Lock()
	defer r.fallbackMu.Unlock()
	return r.fallback.Write(p)
}

// End pops the top sink of the scope and returns its contents.
// It returns ErrNoActiveSink when there is nothing to pop.
func (r *Registry) End(ctx context.Context) ([]byte, error) {
	s := r.lookup(ctx)
	if s == nil {
		return nil, ErrNoActiveSink
	}

	s.mu.Lock()
	n := len(s.sinks)
	if n == 0 || s.released {
		s.mu.Unlock()
		return nil, ErrNoActiveSink
	}
	sink := s.sinks[n-1]
	s.sinks[n-1] = nil
	s.sinks = s.sinks[:n-1]
	s.mu.Unlock()

	if err := sink.flush(); err != nil {
		return nil, fmt.Errorf("capture: flush sink: %w", err)
	}
	return bytes.Clone(sink.Bytes()), nil
}

// Top returns the active sink of the scope, or nil.
func (r *Registry) Top(ctx context.Context) *Sink {
	s := r.lookup(ctx)
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sinks) == 0 || s.released {
		return nil
	}
	return s.sinks[len(s.sinks)-1]
}

// Depth returns the number of active sinks in the scope carried by ctx.
func (r *Registry) Depth(ctx context.Context) int {
	s := r.lookup(ctx)
	if s == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return 0
	}
	return len(s.sinks)
}

// Release drops the scope and every sink still on its stack.
// Releasing twice is a no-op.
func (r *Registry) Release(ctx context.Context) {
	s := r.lookup(ctx)
	if s == nil {
		return
	}

	s.mu.Lock()
	s.released = true
	s.sinks = nil
	s.mu.Unlock()

	r.mu.Lock()
	delete(r.scopes, s.id)
	r.mu.Unlock()
}

// Active returns the number of registered scopes.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scopes)
}

// Writer returns an io.Writer bound to ctx.
func (r *Registry) Writer(ctx context.Context) io.Writer {
	return scopedWriter{r: r, ctx: ctx}
}

// Capture runs fn inside a nested sink and returns what fn printed.
// The nested sink inherits the mode of the current top sink, Text otherwise.
func (r *Registry) Capture(ctx context.Context, fn func(context.Context) error) ([]byte, error) {
	mode := Text
	if top := r.Top(ctx); top != nil {
		mode = top.Mode()
	}
	if err := r.Start(ctx, NewSink(mode)); err != nil {
		return nil, err
	}

	runErr := fn(ctx)
	out, endErr := r.End(ctx)
	if runErr != nil {
		return out, runErr
	}
	return out, endErr
}

// Print formats using the default formats and writes to the scope.
func (r *Registry) Print(ctx context.Context, a ...any) (int, error) {
	return fmt.Fprint(r.Writer(ctx), a...)
}

// Printf formats according to format and writes to the scope.
func (r *Registry) Printf(ctx context.Context, format string, a ...any) (int, error) {
	return fmt.Fprintf(r.Writer(ctx), format, a...)
}

// Println formats using the default formats, appends a newline and writes to the scope.
func (r *Registry) Println(ctx context.Context, a ...any) (int, error) {
	return fmt.Fprintln(r.Writer(ctx), a...)
}

func (r *Registry) lookup(ctx context.Context) *scope {
	if ctx == nil {
		return nil
	}
	s, ok := ctx.Value(scopeKey{}).(*scope)
	if !ok || s.owner != r {
		return nil
	}
	return s
}

type scopedWriter struct {
	r   *Registry
	ctx context.Context
}

func (w scopedWriter) Write(p []byte) (int, error) {
	return w.r.Write(w.ctx, p)
}
