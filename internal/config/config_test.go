package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, 3, cfg.Context)
	require.Equal(t, 8, cfg.TabWidth)
	require.Equal(t, "side-by-side", cfg.Display)
	require.True(t, cfg.SyntaxHighlight)
	require.Equal(t, "auto", cfg.Theme.Color)
	require.Equal(t, 300, cfg.Watch.DebounceMs)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "sidediff", cfg.Tracing.ServiceName)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Defaults()
	cfg.Context = 7
	cfg.Theme.Mode = "dark"

	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Config
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	require.Equal(t, cfg, loaded)
}

func TestSave_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "config.yaml")

	require.NoError(t, Save(path, Defaults()))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(path))
	require.Equal(t, "config.yaml", filepath.Base(path))
}
