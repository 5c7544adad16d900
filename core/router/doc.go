// Package router keeps an ordered registry of regular-expression routes.
//
// Routes are registered per HTTP method and tried in registration order; the first
// pattern that matches the whole normalized path wins. A route may carry an action
// discriminator, in which case it only matches when the request's action hint equals
// it. This lets several handlers share one path and be told apart by an "action"
// parameter:
//
//	reg := router.New[*handler.Handler]()
//	reg.Get(`users/(?P<id>\d+)`, show)
//	reg.Get(`users/(?P<id>\d+)`, edit, router.WithAction("edit"))
//
//	m, err := reg.Match(http.MethodGet, "/users/42/", "")
//	// m.Route.Handler == show, m.Params["id"] == "42"
//
// Patterns are anchored as ^(?:pattern)$ against the path with its leading slash and
// one trailing slash removed, after percent-decoding. Named groups become path
// parameters.
//
// The registry is generic over the handler metadata it stores and knows nothing about
// how handlers run. Registration and matching are safe for concurrent use.
package router
