package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/session"
)

type failingBackend struct {
	session.MemoryBackend
	mu   sync.Mutex
	fail bool
}

func (b *failingBackend) setFail(v bool) {
	b.mu.Lock()
	b.fail = v
	b.mu.Unlock()
}

func (b *failingBackend) Save(ctx context.Context, data []byte) error {
	b.mu.Lock()
	fail := b.fail
	b.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return b.MemoryBackend.Save(ctx, data)
}

func TestStore_PersistenceAcrossReload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := session.NewMemoryBackend()
	store, err := session.NewStore(ctx, backend)
	require.NoError(t, err)

	sess, err := store.Load(ctx, "k1")
	require.NoError(t, err)
	require.NoError(t, sess.Set(ctx, "user", "ann"))
	require.NoError(t, sess.Remember(ctx, "user"))
	require.NoError(t, sess.Set(ctx, "scratch", "temp"))

	reloaded, err := session.NewStore(ctx, backend)
	require.NoError(t, err)

	again, err := reloaded.Load(ctx, "k1")
	require.NoError(t, err)

	v, ok := again.Get("user")
	assert.True(t, ok)
	assert.Equal(t, "ann", v)
	assert.False(t, again.Has("scratch"), "non-persistent fields are not saved")
	assert.True(t, again.IsPersistent("user"), "restored fields are persistent")
	assert.Equal(t, []string{"user"}, again.Fields())
}

func TestStore_LoadCreatesAndPersists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := session.NewMemoryBackend()
	store, err := session.NewStore(ctx, backend)
	require.NoError(t, err)

	first, err := store.Load(ctx, "fresh")
	require.NoError(t, err)
	second, err := store.Load(ctx, "fresh")
	require.NoError(t, err)
	assert.Same(t, first, second)

	reloaded, err := session.NewStore(ctx, backend)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, reloaded.Keys())
}

func TestStore_InvalidKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := session.NewStore(ctx, session.NewMemoryBackend())
	require.NoError(t, err)

	for _, key := range []string{"", "has space", "semi;colon", string(make([]byte, 200))} {
		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, session.ErrInvalidKey)
	}
}

func TestStore_Destroy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := session.NewStore(ctx, session.NewMemoryBackend())
	require.NoError(t, err)

	_, err = store.Load(ctx, "gone")
	require.NoError(t, err)
	require.NoError(t, store.Destroy(ctx, "gone"))
	assert.Equal(t, 0, store.Len())
	assert.ErrorIs(t, store.Destroy(ctx, "gone"), session.ErrNotFound)
}

func TestStore_GenerateKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := session.NewStore(ctx, session.NewMemoryBackend())
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for range 100 {
		key, err := store.GenerateKey()
		require.NoError(t, err)
		assert.True(t, session.ValidKey(key))
		assert.Len(t, key, 43)
		_, dup := seen[key]
		assert.False(t, dup)
		seen[key] = struct{}{}
	}
}

func TestStore_SaveFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := &failingBackend{}
	var saves, failures int
	store, err := session.NewStore(ctx, backend, session.WithOnSave(func(_ time.Duration, err error) {
		saves++
		if err != nil {
			failures++
		}
	}))
	require.NoError(t, err)

	sess, err := store.Load(ctx, "k")
	require.NoError(t, err)

	backend.setFail(true)
	err = sess.Set(ctx, "a", "1")
	assert.ErrorIs(t, err, session.ErrDatastore)

	v, ok := sess.Get("a")
	assert.True(t, ok, "in-memory state keeps the change")
	assert.Equal(t, "1", v)

	backend.setFail(false)
	require.NoError(t, sess.Delete(ctx, "a"))
	require.NoError(t, sess.Delete(ctx, "missing"))

	assert.Equal(t, 3, saves)
	assert.Equal(t, 1, failures)
}

func TestStore_CorruptSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := session.NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, []byte("not json")))
	_, err := session.NewStore(ctx, backend)
	assert.ErrorIs(t, err, session.ErrDatastore)

	require.NoError(t, backend.Save(ctx, []byte(`{"version":9,"sessions":{}}`)))
	_, err = session.NewStore(ctx, backend)
	assert.ErrorIs(t, err, session.ErrSnapshotVersion)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := session.NewMemoryBackend()
	store, err := session.NewStore(ctx, backend)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key, err := store.GenerateKey()
			if err != nil {
				return
			}
			sess, err := store.Load(ctx, key)
			if err != nil {
				return
			}
			_ = sess.Set(ctx, "n", i)
			_ = sess.Remember(ctx, "n")
		}()
	}
	wg.Wait()

	reloaded, err := session.NewStore(ctx, backend)
	require.NoError(t, err)
	assert.Equal(t, 16, reloaded.Len())
}

func TestFileBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "session.json")
	backend := session.NewFileBackend(path)

	data, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
	require.NoError(t, backend.Ping(ctx))

	store, err := session.NewStore(ctx, backend)
	require.NoError(t, err)
	sess, err := store.Load(ctx, "file-key")
	require.NoError(t, err)
	require.NoError(t, sess.Set(ctx, "theme", "dark"))
	require.NoError(t, sess.Remember(ctx, "theme"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"sessions":{"file-key":{"theme":"dark"}}}`, string(raw))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	assert.Error(t, session.NewFileBackend(filepath.Join(t.TempDir(), "missing", "s.json")).Ping(ctx))
}

func TestBackendFromConfig(t *testing.T) {
	t.Parallel()

	b, err := session.BackendFromConfig(session.Config{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &session.MemoryBackend{}, b)

	b, err = session.BackendFromConfig(session.Config{Backend: "file", FilePath: "x.json"})
	require.NoError(t, err)
	assert.IsType(t, &session.FileBackend{}, b)

	_, err = session.BackendFromConfig(session.Config{Backend: "redis"})
	assert.ErrorIs(t, err, session.ErrUnknownBackend)
}
