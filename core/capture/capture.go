package capture

import (
	"context"
	"io"
)

// Default is the process-wide registry used by the package-level functions.
var Default = New()

// NewScope registers a scope in Default.
func NewScope(ctx context.Context) context.Context { return Default.NewScope(ctx) }

// Start pushes sink onto the Default scope carried by ctx.
func Start(ctx context.Context, sink *Sink) error { return Default.Start(ctx, sink) }

// Write writes p through Default.
func Write(ctx context.Context, p []byte) (int, error) { return Default.Write(ctx, p) }

// End pops the top sink of the Default scope.
func End(ctx context.Context) ([]byte, error) { return Default.End(ctx) }

// Release drops the Default scope carried by ctx.
func Release(ctx context.Context) { Default.Release(ctx) }

// Depth reports the stack depth of the Default scope.
func Depth(ctx context.Context) int { return Default.Depth(ctx) }

// Writer returns an io.Writer bound to ctx in Default.
func Writer(ctx context.Context) io.Writer { return Default.Writer(ctx) }

// Capture runs fn inside a nested Default sink.
func Capture(ctx context.Context, fn func(context.Context) error) ([]byte, error) {
	return Default.Capture(ctx, fn)
}

// Print writes to the Default scope.
func Print(ctx context.Context, a ...any) (int, error) { return Default.Print(ctx, a...) }

// Printf writes to the Default scope.
func Printf(ctx context.Context, format string, a ...any) (int, error) {
	return Default.Printf(ctx, format, a...)
}

// Println writes to the Default scope.
func Println(ctx context.Context, a ...any) (int, error) { return Default.Println(ctx, a...) }
