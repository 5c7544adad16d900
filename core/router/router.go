package router

import (
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"sync"
)

// Route is a registered entry.
type Route[H any] struct {
	Method  string
	Pattern string
	// Action is the discriminator; empty means the route ignores the action hint.
	Action  string
	Handler H

	re *regexp.Regexp
}

// RouteInfo describes a route for introspection.
type RouteInfo struct {
	Method  string
	Pattern string
	Action  string
}

// Match is the result of a successful lookup.
type Match[H any] struct {
	Route *Route[H]
	// Params holds the named capture groups of the pattern.
	Params map[string]string
	// ActionConsumed is true when the route matched through its action discriminator.
	ActionConsumed bool
}

// Option configures a Registry.
type Option func(*config)

type config struct {
	methods []string
}

// WithMethods sets the methods routes may be registered for.
// The default is GET and POST.
func WithMethods(methods ...string) Option {
	return func(c *config) {
		c.methods = methods
	}
}

// RouteOption configures a single route.
type RouteOption func(*routeConfig)

type routeConfig struct {
	action string
}

// WithAction sets the action discriminator of a route.
func WithAction(name string) RouteOption {
	return func(c *routeConfig) {
		c.action = name
	}
}

// Registry is an ordered set of routes per method.
type Registry[H any] struct {
	mu      sync.RWMutex
	methods []string
	routes  map[string][]*Route[H]
	order   []*Route[H]
}

// New creates an empty registry.
func New[H any](opts ...Option) *Registry[H] {
	cfg := &config{methods: []string{http.MethodGet, http.MethodPost}}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Registry[H]{
		methods: cfg.methods,
		routes:  make(map[string][]*Route[H], len(cfg.methods)),
	}
}

// Handle registers h for method and pattern.
// Duplicate patterns are allowed; the earlier registration wins on match.
func (r *Registry[H]) Handle(method, pattern string, h H, opts ...RouteOption) error {
	if !slices.Contains(r.methods, method) {
		return fmt.Errorf("%w: %s", ErrInvalidMethod, method)
	}

	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPattern, pattern, err)
	}

	cfg := &routeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	route := &Route[H]{
		Method:  method,
		Pattern: pattern,
		Action:  cfg.action,
		Handler: h,
		re:      re,
	}

	r.mu.Lock()
	r.routes[method] = append(r.routes[method], route)
	r.order = append(r.order, route)
	r.mu.Unlock()

	return nil
}

// Get registers a GET route and panics on invalid input.
func (r *Registry[H]) Get(pattern string, h H, opts ...RouteOption) {
	r.mustHandle(http.MethodGet, pattern, h, opts...)
}

// Post registers a POST route and panics on invalid input.
func (r *Registry[H]) Post(pattern string, h H, opts ...RouteOption) {
	r.mustHandle(http.MethodPost, pattern, h, opts...)
}

func (r *Registry[H]) mustHandle(method, pattern string, h H, opts ...RouteOption) {
	if err := r.Handle(method, pattern, h, opts...); err != nil {
		panic(err)
	}
}

// Match finds the first route for method whose pattern matches rawPath.
// Routes with an action discriminator only match when it equals actionHint.
func (r *Registry[H]) Match(method, rawPath, actionHint string) (Match[H], error) {
	path, err := NormalizePath(rawPath)
	if err != nil {
		return Match[H]{}, err
	}

	r.mu.RLock()
	routes := r.routes[method]
	r.mu.RUnlock()

	for _, route := range routes {
		sub := route.re.FindStringSubmatch(path)
		if sub == nil {
			continue
		}
		if route.Action != "" && route.Action != actionHint {
			continue
		}

		return Match[H]{
			Route:          route,
			Params:         namedGroups(route.re, sub),
			ActionConsumed: route.Action != "",
		}, nil
	}

	return Match[H]{}, ErrNotFound
}

// Routes returns every registered route in registration order.
func (r *Registry[H]) Routes() []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RouteInfo, 0, len(r.order))
	for _, route := range r.order {
		out = append(out, RouteInfo{
			Method:  route.Method,
			Pattern: route.Pattern,
			Action:  route.Action,
		})
	}
	return out
}

func namedGroups(re *regexp.Regexp, sub []string) map[string]string {
	params := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		params[name] = sub[i]
	}
	return params
}
