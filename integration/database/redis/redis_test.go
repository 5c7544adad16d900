package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/session"
	"github.com/dmitrymomot/pagekit/integration/database/redis"
)

func connect(t *testing.T, mr *miniredis.Miniredis) redis.Config {
	t.Helper()
	return redis.Config{
		ConnectionURL:  "redis://" + mr.Addr() + "/0",
		RetryAttempts:  1,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: time.Second,
	}
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)
		client, err := redis.Connect(context.Background(), connect(t, mr))
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		assert.NoError(t, redis.Healthcheck(client)(context.Background()))
	})

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("malformed url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://localhost"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("not ready", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)
		cfg := connect(t, mr)
		cfg.RetryAttempts = 2
		mr.Close()

		_, err := redis.Connect(context.Background(), cfg)
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	})
}

func TestSessionBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client, err := redis.Connect(ctx, connect(t, mr))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	backend := redis.NewSessionBackend(client, "")

	data, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	store, err := session.NewStore(ctx, backend)
	require.NoError(t, err)
	sess, err := store.Load(ctx, "k1")
	require.NoError(t, err)
	require.NoError(t, sess.Set(ctx, "theme", "dark"))
	require.NoError(t, sess.Remember(ctx, "theme"))

	raw, err := mr.Get(redis.DefaultSessionKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"theme":"dark"`)

	reloaded, err := session.NewStore(ctx, backend)
	require.NoError(t, err)
	again, err := reloaded.Load(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "dark", again.GetString("theme"))

	require.NoError(t, backend.Ping(ctx))
	mr.Close()
	assert.ErrorIs(t, backend.Ping(ctx), redis.ErrHealthcheckFailed)
	_, err = store.Load(ctx, "k2")
	assert.ErrorIs(t, err, session.ErrDatastore)
}
