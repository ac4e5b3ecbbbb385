package credentials

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_UsesXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	s, err := NewStore()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultConfigDir, ConfigFileName), s.Path())
	assert.Empty(t, s.List())
}

func TestStore_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl", "config.json")
	s, err := Open(path)
	require.NoError(t, err)

	_, _, err = s.Current()
	assert.ErrorIs(t, err, ErrNoCurrentContext)

	require.NoError(t, s.Save("local", &Context{ServerURL: "http://localhost:3000", APIKey: "k1"}))
	require.NoError(t, s.Save("prod", &Context{ServerURL: "https://files.example.com", APIKey: "k2"}))
	assert.Equal(t, []string{"local", "prod"}, s.List())

	name, ctx, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "prod", name)
	assert.Equal(t, "k2", ctx.APIKey)

	require.NoError(t, s.Use("local"))
	assert.ErrorIs(t, s.Use("missing"), ErrContextNotFound)

	// Reopen from disk.
	s, err = Open(path)
	require.NoError(t, err)
	name, ctx, err = s.Current()
	require.NoError(t, err)
	assert.Equal(t, "local", name)
	assert.Equal(t, "http://localhost:3000", ctx.ServerURL)

	require.NoError(t, s.Delete("local"))
	_, _, err = s.Current()
	assert.ErrorIs(t, err, ErrNoCurrentContext)
	assert.ErrorIs(t, s.Delete("local"), ErrContextNotFound)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(FilePermissions), info.Mode().Perm())
	}
}

func TestStore_Preferences(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	require.NoError(t, s.SetPreferences(Preferences{DefaultOutput: "json"}))

	s, err = Open(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "json", s.Preferences().DefaultOutput)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open(path)
	assert.Error(t, err)
}
