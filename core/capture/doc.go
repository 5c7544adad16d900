// Package capture implements a per-request stack of output sinks.
//
// Handlers and the components they call print through an ambient writer instead of
// threading an io.Writer through every function. Each request gets its own scope,
// identified by the context it carries, and a stack of sinks inside that scope. Writes
// land in the top sink of the caller's scope; when the context has no scope, or the
// scope has no active sink, output goes to the registry's fallback writer (os.Stdout by
// default). Nested sinks let a component render a fragment and get it back as bytes
// while the outer sink keeps accumulating the page.
//
// # Usage
//
//	ctx = capture.NewScope(ctx)
//	defer capture.Release(ctx)
//
//	_ = capture.Start(ctx, capture.NewSink(capture.Text))
//	capture.Print(ctx, "X")
//	inner, _ := capture.Capture(ctx, func(ctx context.Context) error {
//		capture.Print(ctx, "Y")
//		return nil
//	})
//	capture.Print(ctx, "Z")
//	page, _ := capture.End(ctx) // "XZ", inner == "Y"
//
// # Modes
//
// A Text sink replaces invalid UTF-8 with U+FFFD as bytes arrive, keeping multi-byte
// sequences that straddle two writes intact. A Binary sink stores bytes verbatim and is
// used for the top-level response body.
//
// # Concurrency
//
// The registry lock is held only while scopes are registered or released. The write
// path resolves the scope from the context and locks only that scope, so requests never
// contend with each other. A single scope may be shared by goroutines spawned for the
// same request; writes are serialized by the scope lock.
package capture
