package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ignite-laboratories/portal"
	"github.com/ignite-laboratories/portal/portaltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	portal.Register("config-test", func() (portal.Backend, error) {
		return portaltest.NewBackend("config-test"), nil
	})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "portal.toml", `
backend = "config-test"
use_fullscreen_desktop = false
`)
	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "config-test", cfg.Backend)
	assert.False(t, cfg.UseFullscreenDesktop)
}

func TestReadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "portal.yaml", "backend: config-test\nuse_fullscreen_desktop: false\n")
	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "config-test", cfg.Backend)
	assert.False(t, cfg.UseFullscreenDesktop)
}

func TestReadKeepsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "portal.yml", "backend: config-test\n")
	cfg, err := Read(path)
	require.NoError(t, err)
	assert.True(t, cfg.UseFullscreenDesktop)
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	_, err = Read(writeFile(t, dir, "portal.json", "{}"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Read(writeFile(t, dir, "broken.toml", "backend = "))
	assert.ErrorContains(t, err, "parse TOML config")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvBackend, "config-test")
	t.Setenv(EnvFullscreenDesktop, "false")

	cfg, err := ApplyEnv(portal.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "config-test", cfg.Backend)
	assert.False(t, cfg.UseFullscreenDesktop)

	t.Setenv(EnvFullscreenDesktop, "sometimes")
	_, err = ApplyEnv(portal.DefaultConfig())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(portal.Config{}))
	assert.NoError(t, Validate(portal.Config{Backend: "config-test"}))
	assert.Error(t, Validate(portal.Config{Backend: "wayland"}))
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeFile(t, t.TempDir(), "portal.toml", `backend = "wayland"`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "validation failed")
}

func TestLoaderBindFollowsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "portal.toml", "use_fullscreen_desktop = true\n")

	l := NewLoader(path)
	l.Debounce = 10 * time.Millisecond
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.True(t, cfg.UseFullscreenDesktop)

	f, err := portal.New(portaltest.NewBackend(""), portal.Config{UseFullscreenDesktop: false})
	require.NoError(t, err)
	defer f.Close()

	l.Bind(f)
	assert.True(t, f.UseFullscreenDesktop())

	require.NoError(t, l.Watch())
	defer l.Close()

	writeFile(t, dir, "portal.toml", "use_fullscreen_desktop = false\n")
	require.Eventually(t, func() bool {
		return !f.UseFullscreenDesktop()
	}, 5*time.Second, 10*time.Millisecond)
	assert.False(t, l.Config().UseFullscreenDesktop)
}

func TestLoaderReportsReloadErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "portal.toml", "use_fullscreen_desktop = true\n")

	l := NewLoader(path)
	l.Debounce = 10 * time.Millisecond
	_, err := l.Load()
	require.NoError(t, err)
	require.NoError(t, l.Watch())
	defer l.Close()

	writeFile(t, dir, "portal.toml", "use_fullscreen_desktop = ")
	select {
	case err := <-l.Errors():
		assert.ErrorContains(t, err, "reload config")
	case <-time.After(5 * time.Second):
		t.Fatal("no reload error reported")
	}
	assert.True(t, l.Config().UseFullscreenDesktop)
}
