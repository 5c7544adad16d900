package dispatch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/pagekit/core/capture"
	"github.com/dmitrymomot/pagekit/core/cookie"
	"github.com/dmitrymomot/pagekit/core/params"
	"github.com/dmitrymomot/pagekit/core/session"
	"github.com/dmitrymomot/pagekit/core/view"
)

// Config is the environment configuration of a Dispatcher.
type Config struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"session"`
	CookieTTL  time.Duration `env:"SESSION_COOKIE_TTL" envDefault:"168h"`
	FormPrefix string        `env:"DISPATCH_FORM_PREFIX" envDefault:"p_"`
	MaxMemory  int64         `env:"DISPATCH_MAX_MEMORY" envDefault:"10485760"`
	// BasePath bounds the source files shown in unhandled-error diagnostics.
	BasePath string `env:"DISPATCH_BASE_PATH"`
}

// Metrics receives one observation per served request.
type Metrics interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// GuestFunc reports whether the client behind r is a guest.
type GuestFunc func(r *http.Request, s *session.Session) bool

// Hooks are optional callbacks around the dispatch pipeline.
type Hooks struct {
	// Before runs once the session is loaded.
	Before func(r *http.Request, s *session.Session)
	// Preprocess may rewrite the argument tree after routing and before validation.
	Preprocess func(r *http.Request, args params.Tree) (params.Tree, error)
	// After runs when the response has been written.
	After func(r *http.Request, status int)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithViews sets the registry handler views are rendered from.
func WithViews(views *view.Registry) Option {
	return func(d *Dispatcher) { d.views = views }
}

// WithMetrics sets the request metrics sink.
func WithMetrics(m Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithCookie sets the manager used for the session cookie.
func WithCookie(m *cookie.Manager) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.cookies = m
		}
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.cookieName = name
		}
	}
}

// WithCookieTTL sets the session cookie lifetime.
func WithCookieTTL(ttl time.Duration) Option {
	return func(d *Dispatcher) {
		if ttl > 0 {
			d.cookieTTL = ttl
		}
	}
}

// WithFormPrefix sets the prefix form fields are merged under.
func WithFormPrefix(prefix string) Option {
	return func(d *Dispatcher) {
		if prefix != "" {
			d.formPrefix = prefix
		}
	}
}

// WithBasePath sets the directory whose sources unhandled-error diagnostics may show.
func WithBasePath(dir string) Option {
	return func(d *Dispatcher) {
		if dir != "" {
			d.basePath = dir
		}
	}
}

// WithGuestCheck rejects guests on routes not declared with handler.AllowGuests.
func WithGuestCheck(fn GuestFunc) Option {
	return func(d *Dispatcher) { d.guest = fn }
}

// WithHooks sets the pipeline callbacks.
func WithHooks(h Hooks) Option {
	return func(d *Dispatcher) { d.hooks = h }
}

// WithCapture sets the capture registry. The default is capture.Default.
func WithCapture(reg *capture.Registry) Option {
	return func(d *Dispatcher) {
		if reg != nil {
			d.capture = reg
		}
	}
}

// WithMaxMemory limits the size of a parsed request body.
func WithMaxMemory(n int64) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxMemory = n
		}
	}
}

// WithConfig applies cfg. Zero values keep the defaults.
func WithConfig(cfg Config) Option {
	return func(d *Dispatcher) {
		for _, opt := range []Option{
			WithCookieName(cfg.CookieName),
			WithCookieTTL(cfg.CookieTTL),
			WithFormPrefix(cfg.FormPrefix),
			WithMaxMemory(cfg.MaxMemory),
			WithBasePath(cfg.BasePath),
		} {
			opt(d)
		}
	}
}
