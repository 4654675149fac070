package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhell/xhell/internal/cap"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".xhell_history"), cfg.History.Path)
	assert.Equal(t, 1000, cfg.History.Max)
	assert.Equal(t, filepath.Join(home, ".xhell_log"), cfg.Journal.Path)
	assert.Equal(t, "auto", cfg.Prompt.Color)
	assert.Equal(t, TierConfig{Read: true, Write: true, Dangerous: true}, cfg.Tiers)
	assert.Empty(t, cfg.Rules)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeConfig(t, `
history:
  max: 50
journal:
  path: ""
prompt:
  color: never
tiers:
  dangerous: false
rules:
  xcat:
    reject_flags: [-v]
`)
	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.History.Max)
	assert.Equal(t, filepath.Join(home, ".xhell_history"), cfg.History.Path)
	assert.Empty(t, cfg.Journal.Path)
	assert.Equal(t, "never", cfg.Prompt.Color)
	assert.Equal(t, TierConfig{Read: true, Write: true, Dangerous: false}, cfg.Tiers)
	assert.Equal(t, []string{"-v"}, cfg.Rules["xcat"].RejectFlags)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, "# nothing here\n"))
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.History.Max)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad yaml", "history: [", "parse config"},
		{"unknown key", "histroy:\n  max: 5\n", "histroy"},
		{"max too small", "history:\n  max: 0\n", "max"},
		{"max too large", "history:\n  max: 100001\n", "max"},
		{"bad color", "prompt:\n  color: sometimes\n", "color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPathOverride(t *testing.T) {
	t.Setenv(EnvPath, "/etc/xhell.yaml")
	assert.Equal(t, "/etc/xhell.yaml", Path())

	home := t.TempDir()
	t.Setenv(EnvPath, "")
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".config", "xhell", "config.yaml"), Path())
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/u")
	assert.Equal(t, "/home/u", expandHome("~"))
	assert.Equal(t, "/home/u/log", expandHome("~/log"))
	assert.Equal(t, "~other/log", expandHome("~other/log"))
	assert.Equal(t, "/abs", expandHome("/abs"))
	assert.Equal(t, "", expandHome(""))
}

func TestUseColor(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.UseColor(true))
	assert.False(t, cfg.UseColor(false))

	cfg.Prompt.Color = "always"
	assert.True(t, cfg.UseColor(false))
	cfg.Prompt.Color = "never"
	assert.False(t, cfg.UseColor(true))
}

func TestApply(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, `
tiers:
  write: false
rules:
  xcat:
    reject_paths: [/etc/shadow]
`))
	require.NoError(t, err)

	reg := cap.NewRegistry()
	cfg.ApplyTiers(reg)
	cfg.ApplyRules(reg)

	assert.NoError(t, reg.CheckTier(cap.TierRead))
	assert.Error(t, reg.CheckTier(cap.TierWrite))
	assert.NoError(t, reg.CheckTier(cap.TierDangerous))

	assert.Error(t, reg.CheckRules("xcat", []string{"/etc/shadow"}))
	assert.NoError(t, reg.CheckRules("xcat", []string{"/etc/hosts"}))
	assert.Error(t, reg.CheckRules("xrm", []string{"-r", "/"}))
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(defaultData), string(data))

	_, err = LoadFrom(path)
	assert.NoError(t, err)

	assert.ErrorIs(t, WriteDefault(path), os.ErrExist)
}
