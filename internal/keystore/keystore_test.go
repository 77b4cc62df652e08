package keystore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSentinels(t *testing.T) {
	tests := []struct {
		raw    string
		wantOK bool
	}{
		{raw: "", wantOK: false},
		{raw: "null", wantOK: false},
		{raw: "undefined", wantOK: false},
		{raw: "abc123", wantOK: true},
		{raw: "NULL", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			key, ok := normalize(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.raw, key)
			} else {
				assert.Empty(t, key)
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemory("undefined")

	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "sentinel must read as absent")

	require.NoError(t, s.Save(ctx, "abc123"))
	key, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", key)

	require.NoError(t, s.Clear(ctx))
	_, ok, _ = s.Load(ctx)
	assert.False(t, ok)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	s := NewFile(path, "admin_api_key")

	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "missing file means no key")

	require.NoError(t, s.Save(ctx, "abc123"))

	// новый экземпляр читает то, что записал предыдущий
	key, ok, err := NewFile(path, "admin_api_key").Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", key)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Clear(ctx))
	_, ok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreKeepsForeignEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark","admin_api_key":"null"}`), 0o600))

	s := NewFile(path, "admin_api_key")
	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, `"null" written by an old client is not a key`)

	require.NoError(t, s.Save(ctx, "k1"))
	require.NoError(t, s.Clear(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"theme": "dark"`)
	assert.NotContains(t, string(data), "admin_api_key")
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFile(path, "admin_api_key").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt store")
}
