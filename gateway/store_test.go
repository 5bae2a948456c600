package gateway

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeCase builds a fresh Store for the shared contract tests.
type storeCase struct {
	name string
	open func(t *testing.T) Store
}

func storeCases() []storeCase {
	return []storeCase{
		{"memory", func(t *testing.T) Store { return NewMemoryStore() }},
		{"file", func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "docs"))
			require.NoError(t, err)
			return s
		}},
		{"sqlite", func(t *testing.T) Store {
			s, err := OpenSQLite(":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
		{"sqlite file", func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "pinboard.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
		{"redis", func(t *testing.T) Store {
			mr, err := miniredis.Run()
			require.NoError(t, err)
			t.Cleanup(mr.Close)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return NewRedisStore(client, "test:")
		}},
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for _, sc := range storeCases() {
		t.Run(sc.name, func(t *testing.T) {
			s := sc.open(t)

			_, err := s.Get(ctx, "board")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put(ctx, "board", []byte(`{"items":[]}`)))
			got, err := s.Get(ctx, "board")
			require.NoError(t, err)
			assert.JSONEq(t, `{"items":[]}`, string(got))

			require.NoError(t, s.Put(ctx, "board", []byte(`{"items":[{"id":"a"}]}`)))
			got, err = s.Get(ctx, "board")
			require.NoError(t, err)
			assert.JSONEq(t, `{"items":[{"id":"a"}]}`, string(got))

			_, err = s.Get(ctx, "other")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFileStoreRejectsBadKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	for _, key := range []string{"", "../escape", "a/b", "white space"} {
		assert.Error(t, s.Put(context.Background(), key, []byte("{}")), "key %q", key)
	}
}

func TestFileStoreConcurrentWriters(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		s, err := NewFileStore(dir)
		require.NoError(t, err)
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Put(ctx, "board", []byte(`{"items":[]}`)))
		}()
	}
	wg.Wait()

	s, _ := NewFileStore(dir)
	got, err := s.Get(ctx, "board")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(got))
}

func TestRedisStorePrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s, err := DialRedis(context.Background(), "redis://"+mr.Addr()+"/0", "pinboard:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Put(context.Background(), "board", []byte("{}")))
	raw, err := mr.Get("pinboard:board")
	require.NoError(t, err)
	assert.Equal(t, "{}", raw)
}

func TestDialRedisFailure(t *testing.T) {
	_, err := DialRedis(context.Background(), "not a url", "")
	assert.Error(t, err)
}
