// Package dispatch turns HTTP requests into handler invocations.
//
// A Dispatcher owns the route registry and serves every request through the same
// pipeline: it opens a capture scope, loads the client session from its cookie,
// parses the query string and form body into one parameter tree, matches a route,
// validates the arguments against the handler manifest, invokes the handler inside
// a captured-output sink and finally serializes the captured body with its headers.
//
// Form fields are merged into the tree under a reserved prefix (p_ by default), so a
// query key carrying the prefix is rejected before parsing.
//
//	store, err := session.NewStore(ctx, session.NewFileBackend("session.json"))
//	d := dispatch.New(store, dispatch.WithLogger(log), dispatch.WithViews(views))
//
//	d.Get(`users/(?P<id>\d+)`, func(c *handler.Context, args params.Tree) handler.Outcome {
//		id, _ := args.String("id")
//		return handler.Value(loadUser(id))
//	}, handler.Required("id"), handler.View("user"))
//
//	d.Route(http.MethodPost, `users/(?P<id>\d+)`, "delete", deleteUser, handler.Required("id"))
//
//	http.ListenAndServe(":8080", d)
//
// Errors never escape as Go errors: routing and parameter failures become error boxes
// with 404 and 400 statuses, session datastore failures render "Database Error" and
// anything else renders the unhandled-error diagnostic with a source excerpt.
package dispatch
