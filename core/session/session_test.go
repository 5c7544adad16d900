package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/session"
)

func TestSession_Deferred(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := session.NewStore(ctx, session.NewMemoryBackend())
	require.NoError(t, err)
	sess, err := store.Load(ctx, "k")
	require.NoError(t, err)

	items, err := sess.TakeDeferred(ctx)
	require.NoError(t, err)
	assert.Nil(t, items)

	require.NoError(t, sess.Defer(ctx, "<p>saved</p>"))
	require.NoError(t, sess.Defer(ctx, "<p>again</p>"))

	items, err = sess.TakeDeferred(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"<p>saved</p>", "<p>again</p>"}, items)
	assert.False(t, sess.Has("delayed"))
}

func TestSession_DeferredSurvivesReloadWhenRemembered(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := session.NewMemoryBackend()
	store, err := session.NewStore(ctx, backend)
	require.NoError(t, err)
	sess, err := store.Load(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, sess.Defer(ctx, "note"))
	require.NoError(t, sess.Remember(ctx, "delayed"))

	reloaded, err := session.NewStore(ctx, backend)
	require.NoError(t, err)
	again, err := reloaded.Load(ctx, "k")
	require.NoError(t, err)

	items, err := again.TakeDeferred(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"note"}, items)
}

func TestSession_GetString(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := session.NewStore(ctx, session.NewMemoryBackend())
	require.NoError(t, err)
	sess, err := store.Load(ctx, "k")
	require.NoError(t, err)

	require.NoError(t, sess.Set(ctx, "name", "ann"))
	require.NoError(t, sess.Set(ctx, "n", 3))
	assert.Equal(t, "ann", sess.GetString("name"))
	assert.Equal(t, "", sess.GetString("n"))
	assert.Equal(t, "", sess.GetString("missing"))
	assert.Equal(t, "k", sess.Key())
}
