package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "nested", "token"))

	require.NoError(t, store.Save("abc.def.ghi"))

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	require.NoError(t, store.Clear())

	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenStoreLoadMissingFile(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))

	token, err := store.Load()
	require.NoError(t, err, "a missing token file is not an error")
	assert.Empty(t, token)
}

func TestTokenStoreClearIsIdempotent(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}

func TestTokenStoreLoadTrimsTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("tok\n"), 0o600))

	token, err := NewTokenStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}
