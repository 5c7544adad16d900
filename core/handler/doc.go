// Package handler defines pagekit request handlers and runs them.
//
// A handler is a function of a request Context and the request's parameter tree that
// returns an Outcome: a value to render, Done to keep what it printed, a Redirect, or a
// failure. Control flow never uses panics; a panic inside a handler is recovered and
// reported as an unhandled error.
//
//	show := handler.New(func(c *handler.Context, args params.Tree) handler.Outcome {
//		id, _ := args.String("id")
//		u, err := users.Find(c.Context(), id)
//		if err != nil {
//			return handler.Fail(err)
//		}
//		return handler.Value(u)
//	}, handler.Required("id"), handler.Optional("tab"), handler.View("user"))
//
// # Parameter manifests
//
// Each handler declares the parameter names it takes when it is registered. Validate
// rejects unknown keys with one aggregated "unexpected argument" error and reports
// absent required keys as "missing argument", unless the handler accepts any keys.
//
// # Invocation
//
// Invoke validates the tree, pushes a text sink on the request's capture scope, calls
// the handler and renders its value through the declared view (or as JSON when raw
// data was requested). A redirect discards the captured output. A failure discards it
// as well and is classified into an *Error whose class carries the HTTP status.
package handler
