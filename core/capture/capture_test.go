package capture_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/capture"
)

func TestRegistry_Nesting(t *testing.T) {
	t.Parallel()

	r := capture.New(capture.WithFallback(&bytes.Buffer{}))
	ctx := r.NewScope(context.Background())
	defer r.Release(ctx)

	require.NoError(t, r.Start(ctx, capture.NewSink(capture.Text)))
	_, _ = r.Print(ctx, "X")

	require.NoError(t, r.Start(ctx, capture.NewSink(capture.Text)))
	_, _ = r.Print(ctx, "Y")
	inner, err := r.End(ctx)
	require.NoError(t, err)

	_, _ = r.Print(ctx, "Z")
	outer, err := r.End(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Y", string(inner))
	assert.Equal(t, "XZ", string(outer))
	assert.Equal(t, 0, r.Depth(ctx))
}

func TestRegistry_Capture(t *testing.T) {
	t.Parallel()

	r := capture.New(capture.WithFallback(&bytes.Buffer{}))
	ctx := r.NewScope(context.Background())
	defer r.Release(ctx)

	require.NoError(t, r.Start(ctx, capture.NewSink(capture.Binary)))
	_, _ = r.Print(ctx, "<page>")

	fragment, err := r.Capture(ctx, func(ctx context.Context) error {
		_, _ = r.Printf(ctx, "<b>%d</b>", 7)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "<b>7</b>", string(fragment))

	t.Run("error from fn still pops the sink", func(t *testing.T) {
		boom := errors.New("boom")
		out, err := r.Capture(ctx, func(ctx context.Context) error {
			_, _ = r.Print(ctx, "partial")
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, "partial", string(out))
		assert.Equal(t, 1, r.Depth(ctx))
	})

	_, _ = r.Print(ctx, "</page>")
	page, err := r.End(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<page></page>", string(page))
}

func TestRegistry_Fallback(t *testing.T) {
	t.Parallel()

	t.Run("no scope", func(t *testing.T) {
		var stdout bytes.Buffer
		r := capture.New(capture.WithFallback(&stdout))

		_, err := r.Print(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", stdout.String())
	})

	t.Run("scope without sinks", func(t *testing.T) {
		var stdout bytes.Buffer
		r := capture.New(capture.WithFallback(&stdout))
		ctx := r.NewScope(context.Background())
		defer r.Release(ctx)

		_, _ = r.Println(ctx, "line")
		assert.Equal(t, "line\n", stdout.String())
	})

	t.Run("scope of another registry", func(t *testing.T) {
		var stdout bytes.Buffer
		r := capture.New(capture.WithFallback(&stdout))
		other := capture.New(capture.WithFallback(&bytes.Buffer{}))
		ctx := other.NewScope(context.Background())
		defer other.Release(ctx)
		require.NoError(t, other.Start(ctx, capture.NewSink(capture.Text)))

		_, _ = r.Print(ctx, "mine")
		assert.Equal(t, "mine", stdout.String())
		assert.Equal(t, 0, r.Depth(ctx))
	})
}

func TestRegistry_EndWithoutSink(t *testing.T) {
	t.Parallel()

	r := capture.New(capture.WithFallback(&bytes.Buffer{}))

	_, err := r.End(context.Background())
	assert.ErrorIs(t, err, capture.ErrNoActiveSink)

	ctx := r.NewScope(context.Background())
	defer r.Release(ctx)
	_, err = r.End(ctx)
	assert.ErrorIs(t, err, capture.ErrNoActiveSink)
}

func TestRegistry_StartWithoutScope(t *testing.T) {
	t.Parallel()

	r := capture.New()
	err := r.Start(context.Background(), capture.NewSink(capture.Text))
	assert.ErrorIs(t, err, capture.ErrNoScope)
}

func TestRegistry_Release(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	r := capture.New(capture.WithFallback(&stdout))
	ctx := r.NewScope(context.Background())
	require.NoError(t, r.Start(ctx, capture.NewSink(capture.Text)))
	require.NoError(t, r.Start(ctx, capture.NewSink(capture.Text)))
	assert.Equal(t, 1, r.Active())

	r.Release(ctx)
	r.Release(ctx)

	assert.Equal(t, 0, r.Active())
	assert.Equal(t, 0, r.Depth(ctx))
	assert.ErrorIs(t, r.Start(ctx, capture.NewSink(capture.Text)), capture.ErrReleased)

	_, _ = r.Print(ctx, "after")
	assert.Equal(t, "after", stdout.String())
}

func TestRegistry_ConcurrentScopes(t *testing.T) {
	t.Parallel()

	r := capture.New(capture.WithFallback(&bytes.Buffer{}))

	const workers = 32
	results := make([]string, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx := r.NewScope(context.Background())
			defer r.Release(ctx)

			if err := r.Start(ctx, capture.NewSink(capture.Text)); err != nil {
				return
			}
			for j := range 50 {
				_, _ = r.Printf(ctx, "%d.%d;", i, j)
			}
			out, _ := r.End(ctx)
			results[i] = string(out)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		var want bytes.Buffer
		for j := range 50 {
			fmt.Fprintf(&want, "%d.%d;", i, j)
		}
		assert.Equal(t, want.String(), got, "worker %d", i)
	}
	assert.Equal(t, 0, r.Active())
}

func TestSink_TextMode(t *testing.T) {
	t.Parallel()

	t.Run("invalid bytes become replacement characters", func(t *testing.T) {
		r := capture.New()
		ctx := r.NewScope(context.Background())
		defer r.Release(ctx)

		require.NoError(t, r.Start(ctx, capture.NewSink(capture.Text)))
		_, _ = r.Write(ctx, []byte{'a', 0xff, 'b'})
		out, err := r.End(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a�b", string(out))
	})

	t.Run("rune split across writes survives", func(t *testing.T) {
		r := capture.New()
		ctx := r.NewScope(context.Background())
		defer r.Release(ctx)

		euro := []byte("€")
		require.NoError(t, r.Start(ctx, capture.NewSink(capture.Text)))
		_, _ = r.Write(ctx, euro[:1])
		_, _ = r.Write(ctx, euro[1:])
		out, err := r.End(ctx)
		require.NoError(t, err)
		assert.Equal(t, "€", string(out))
	})

	t.Run("binary keeps bytes verbatim", func(t *testing.T) {
		r := capture.New()
		ctx := r.NewScope(context.Background())
		defer r.Release(ctx)

		require.NoError(t, r.Start(ctx, capture.NewSink(capture.Binary)))
		_, _ = r.Write(ctx, []byte{0x00, 0xff, 0xfe})
		out, err := r.End(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xff, 0xfe}, out)
	})
}

func TestSink_Reset(t *testing.T) {
	t.Parallel()

	s := capture.NewSink(capture.Text)
	_, _ = s.WriteString("discard me")
	s.Reset()
	_, _ = s.WriteString("keep")
	assert.Equal(t, "keep", s.String())
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, "text", s.Mode().String())
}

func TestPackageLevel(t *testing.T) {
	t.Parallel()

	ctx := capture.NewScope(context.Background())
	defer capture.Release(ctx)

	require.NoError(t, capture.Start(ctx, capture.NewSink(capture.Text)))
	_, _ = capture.Print(ctx, "a")
	_, _ = fmt.Fprint(capture.Writer(ctx), "b")
	assert.Equal(t, 1, capture.Depth(ctx))

	out, err := capture.End(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(out))
}
