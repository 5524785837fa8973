package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, path string) Config {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestSetValue_UpdatesTemplateAndKeepsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SetValue(path, "window.line_radius", "25"))
	require.NoError(t, SetValue(path, "resolver.reserved_words", "[and, or]"))
	require.NoError(t, SetValue(path, "tracing.enabled", "true"))

	cfg := load(t, path)
	require.Equal(t, 25, cfg.Window.LineRadius)
	require.Equal(t, 4000, cfg.Window.ByteRadius)
	require.Equal(t, []string{"and", "or"}, cfg.Resolver.ReservedWords)
	require.True(t, cfg.Tracing.Enabled)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# Lines before and after the cursor line")
	require.Contains(t, string(data), "# Playground settings")
}

func TestSetValue_CreatesFileAndSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir", "config.yaml")

	require.NoError(t, SetValue(path, "tracing.exporter", "otlp"))
	require.NoError(t, SetValue(path, "tracing.otlp_endpoint", "collector:4317"))
	require.NoError(t, SetValue(path, "ui.show_status_bar", "false"))

	cfg := load(t, path)
	require.Equal(t, "otlp", cfg.Tracing.Exporter)
	require.Equal(t, "collector:4317", cfg.Tracing.OTLPEndpoint)
	require.False(t, cfg.UI.ShowStatusBar)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(data), "tracing:"))
}

func TestSetValue_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.ErrorContains(t, SetValue(path, "window.radius", "3"), "unknown config key")
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestSetValue_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [unclosed"), 0o600))
	require.ErrorContains(t, SetValue(path, "window.multiline", "true"), "parsing config")
}

func TestSetValue_NonMappingRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))
	require.ErrorContains(t, SetValue(path, "window.multiline", "true"), "not a mapping")
}

func TestSetValue_ReplacesScalarSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: off\n"), 0o600))
	require.NoError(t, SetValue(path, "window.byte_radius", "100"))

	cfg := load(t, path)
	require.Equal(t, 100, cfg.Window.ByteRadius)
}
