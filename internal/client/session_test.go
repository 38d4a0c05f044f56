package client_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/eventsphere/internal/client"
)

func TestLoadSession_MissingFile(t *testing.T) {
	s, err := client.LoadSession(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Empty(t, s.Token())
	_, ok := s.User()
	assert.False(t, ok)
}

func TestSession_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s, err := client.LoadSession(path)
	require.NoError(t, err)

	s.Set("tok", client.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, s.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := client.LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.Token())
	u, ok := loaded.User()
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", u.Email)

	require.NoError(t, loaded.Clear())
	assert.Empty(t, loaded.Token())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, loaded.Clear(), "clearing twice is fine")
}

func TestLoadSession_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := client.LoadSession(path)
	assert.Error(t, err)
}

func TestSession_InMemory(t *testing.T) {
	var s client.Session
	s.Set("tok", client.User{Email: "a@example.com"})
	require.NoError(t, s.Save())
	assert.Equal(t, "tok", s.Token())
	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())
}
