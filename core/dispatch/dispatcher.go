package dispatch

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dmitrymomot/pagekit/core/capture"
	"github.com/dmitrymomot/pagekit/core/cookie"
	"github.com/dmitrymomot/pagekit/core/handler"
	"github.com/dmitrymomot/pagekit/core/params"
	"github.com/dmitrymomot/pagekit/core/router"
	"github.com/dmitrymomot/pagekit/core/session"
	"github.com/dmitrymomot/pagekit/core/view"
)

const (
	DefaultCookieName = "session"
	DefaultCookieTTL  = 7 * 24 * time.Hour
	DefaultFormPrefix = "p_"
)

// Dispatcher is an http.Handler serving registered handlers.
type Dispatcher struct {
	routes  *router.Registry[*handler.Handler]
	store   *session.Store
	views   *view.Registry
	capture *capture.Registry
	cookies *cookie.Manager
	metrics Metrics
	guest   GuestFunc
	hooks   Hooks
	logger  *slog.Logger

	cookieName string
	cookieTTL  time.Duration
	formPrefix string
	maxMemory  int64
	basePath   string

	now func() time.Time
}

// New creates a dispatcher backed by store.
// Without a store requests run without a session and no cookie is set.
func New(store *session.Store, opts ...Option) *Dispatcher {
	cookies, _ := cookie.New(nil)
	basePath, _ := os.Getwd()

	d := &Dispatcher{
		routes:     router.New[*handler.Handler](),
		store:      store,
		capture:    capture.Default,
		cookies:    cookies,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		cookieName: DefaultCookieName,
		cookieTTL:  DefaultCookieTTL,
		formPrefix: DefaultFormPrefix,
		maxMemory:  params.DefaultMaxMemory,
		basePath:   basePath,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle registers a prepared handler. An empty action registers a route
// without a discriminator.
func (d *Dispatcher) Handle(method, pattern, action string, h *handler.Handler) error {
	var opts []router.RouteOption
	if action != "" {
		opts = append(opts, router.WithAction(action))
	}
	return d.routes.Handle(method, pattern, h, opts...)
}

// Route builds a handler from fn and registers it.
func (d *Dispatcher) Route(method, pattern, action string, fn handler.Func, opts ...handler.Option) error {
	return d.Handle(method, pattern, action, handler.New(fn, opts...))
}

// Get registers a GET route. It panics on an invalid pattern.
func (d *Dispatcher) Get(pattern string, fn handler.Func, opts ...handler.Option) {
	d.mustRoute(http.MethodGet, pattern, fn, opts...)
}

// Post registers a POST route. It panics on an invalid pattern.
func (d *Dispatcher) Post(pattern string, fn handler.Func, opts ...handler.Option) {
	d.mustRoute(http.MethodPost, pattern, fn, opts...)
}

func (d *Dispatcher) mustRoute(method, pattern string, fn handler.Func, opts ...handler.Option) {
	if err := d.Route(method, pattern, "", fn, opts...); err != nil {
		panic(err)
	}
}

// Routes lists the registered routes in registration order.
func (d *Dispatcher) Routes() []router.RouteInfo {
	return d.routes.Routes()
}
