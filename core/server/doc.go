// Package server runs an http.Handler with graceful shutdown.
//
//	srv := server.New(":8080", server.WithLogger(log))
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, dispatcher))
//
// Start blocks until the context ends or the listener fails; Stop drains in-flight
// requests within the shutdown timeout. Run combines both for errgroup-style
// lifecycles and treats context cancellation as a clean exit.
//
// Configuration can come from the environment through Config:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//
// TLS termination is left to a proxy in front of the process.
package server
