package credential

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreAt(filepath.Join(t.TempDir(), "nested", "credentials.json"))
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := testStore(t)

	creds, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, creds.GeminiAPIKey)
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save(&Credentials{GeminiAPIKey: "AIza-test-key"}))

	creds, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "AIza-test-key", creds.GeminiAPIKey)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePermission), info.Mode().Perm())
}

func TestStore_LoadInvalidJSON(t *testing.T) {
	s := testStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("not json"), 0600))

	_, err := s.Load()
	assert.Error(t, err)
}

func TestStore_Clear(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(&Credentials{GeminiAPIKey: "AIza-test-key"}))

	require.NoError(t, s.Clear())
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))

	// Clearing again is fine.
	require.NoError(t, s.Clear())
}

func TestMask(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "empty", key: "", want: "(not set)"},
		{name: "short", key: "abc", want: "****"},
		{name: "normal", key: "AIzaSyD-1234", want: "****1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.key))
		})
	}
}
