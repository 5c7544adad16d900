// Package view maps view names to renderers that turn handler values into markup.
//
// Handlers declare a view name at registration; after the handler returns a value the
// invocation layer looks the name up here and renders the value into the current
// output sink. Renderers exist for html/template and templ components:
//
//	views := view.NewRegistry()
//	views.MustRegister("user", view.Template(tmpl, "user.html"))
//	views.MustRegister("card", view.Typed(func(u User) templ.Component { return UserCard(u) }))
//
// Render buffers the output and writes nothing when rendering fails.
package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/a-h/templ"
)

var (
	ErrViewNotFound  = errors.New("view not found")
	ErrDuplicateView = errors.New("view already registered")
	ErrInvalidName   = errors.New("invalid view name")
	ErrDataType      = errors.New("unexpected view data type")
	ErrNilRenderer   = errors.New("nil renderer")
)

// Renderer writes the markup for data to w.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, data any) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, w io.Writer, data any) error

func (f RendererFunc) Render(ctx context.Context, w io.Writer, data any) error {
	return f(ctx, w, data)
}

// Registry holds named renderers.
type Registry struct {
	mu    sync.RWMutex
	views map[string]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{views: make(map[string]Renderer)}
}

// Register adds a renderer under name.
func (r *Registry) Register(name string, v Renderer) error {
	if name == "" {
		return ErrInvalidName
	}
	if v == nil {
		return fmt.Errorf("%w: %s", ErrNilRenderer, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.views[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateView, name)
	}
	r.views[name] = v
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, v Renderer) {
	if err := r.Register(name, v); err != nil {
		panic(err)
	}
}

// Lookup returns the renderer registered under name.
func (r *Registry) Lookup(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, name)
	}
	return v, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Names returns registered view names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.views))
}

// Render renders data through the named view into w.
func (r *Registry) Render(ctx context.Context, w io.Writer, name string, data any) error {
	v, err := r.Lookup(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := v.Render(ctx, &buf, data); err != nil {
		return fmt.Errorf("render view %s: %w", name, err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// Template renders with html/template. An empty name executes the root template.
func Template(t *template.Template, name string) Renderer {
	return RendererFunc(func(_ context.Context, w io.Writer, data any) error {
		if t == nil {
			return ErrNilRenderer
		}
		if name != "" {
			return t.ExecuteTemplate(w, name, data)
		}
		return t.Execute(w, data)
	})
}

// Component renders the templ component built from data.
func Component(fn func(data any) templ.Component) Renderer {
	return RendererFunc(func(ctx context.Context, w io.Writer, data any) error {
		c := fn(data)
		if c == nil {
			return ErrNilRenderer
		}
		return c.Render(ctx, w)
	})
}

// Typed renders a templ component that expects data of type T.
func Typed[T any](fn func(T) templ.Component) Renderer {
	return Component(func(data any) templ.Component {
		v, ok := data.(T)
		if !ok {
			return templ.ComponentFunc(func(context.Context, io.Writer) error {
				var want T
				return fmt.Errorf("%w: got %T, want %T", ErrDataType, data, want)
			})
		}
		return fn(v)
	})
}
