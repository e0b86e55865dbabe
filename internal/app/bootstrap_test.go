package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_YAMLOverlay(t *testing.T) {
	chdir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "koralai.yaml")
	raw := "window_title: Custom\ninitial_width: 800\ndefault_homepage: https://example.com\nbackend: system\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "Custom", cfg.WindowTitle)
	require.Equal(t, 800, cfg.Width)
	// 未出现在 YAML 里的字段保持默认值
	require.Equal(t, 720, cfg.Height)
	require.Equal(t, "https://example.com", cfg.DefaultHomepage)
	require.Equal(t, BackendSystem, cfg.Backend)
	require.Equal(t, "index.html", cfg.EntryPoint)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	chdir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "koralai.yaml")
	require.NoError(t, os.WriteFile(path, []byte("initial_width: [oops"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("KORALAI_HOMEPAGE", "https://env.example")
	t.Setenv("KORALAI_HEIGHT", "600")
	t.Setenv("KORALAI_WIDTH", "not-a-number")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "https://env.example", cfg.DefaultHomepage)
	require.Equal(t, 600, cfg.Height)
	require.Equal(t, 1280, cfg.Width)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Width = 0
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Backend = "qt"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.EntryPoint = " "
	require.Error(t, bad.Validate())
}
