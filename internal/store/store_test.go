package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	impls := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			return NewFileStore(filepath.Join(t.TempDir(), "nested", "prefs.json"))
		},
	}

	for name, mk := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := mk(t)

			muted := true
			ok, err := s.Get(ctx, "isMuted", &muted)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.True(t, muted, "absent key leaves dst untouched")

			require.NoError(t, s.Set(ctx, "isMuted", false))
			ok, err = s.Get(ctx, "isMuted", &muted)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.False(t, muted)

			require.NoError(t, s.Set(ctx, "isMuted", true))
			require.NoError(t, s.Set(ctx, "volume", 0.5))
			ok, err = s.Get(ctx, "isMuted", &muted)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.True(t, muted)

			var wrong string
			_, err = s.Get(ctx, "volume", &wrong)
			assert.Error(t, err)
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.json")

	require.NoError(t, NewFileStore(path).Set(ctx, "isMuted", true))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"isMuted": true}`, string(b))

	var muted bool
	ok, err := NewFileStore(path).Get(ctx, "isMuted", &muted)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, muted)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var muted bool
	_, err := NewFileStore(path).Get(context.Background(), "isMuted", &muted)
	assert.Error(t, err)
}
