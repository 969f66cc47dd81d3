package portal_test

import (
	"errors"
	"testing"

	"github.com/ignite-laboratories/portal"
	"github.com/ignite-laboratories/portal/portaltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errHeadless = errors.New("no display server")
	errNoInput  = errors.New("no input devices")
)

func init() {
	portal.Register("headless", func() (portal.Backend, error) {
		return nil, errHeadless
	})
	portal.Register("no-input", func() (portal.Backend, error) {
		b := portaltest.NewBackend("no-input")
		b.InputErr = errNoInput
		return b, nil
	})
	portal.Register("fake", func() (portal.Backend, error) {
		return portaltest.NewBackend("fake"), nil
	})
}

func TestBackends(t *testing.T) {
	assert.Equal(t, []string{"headless", "no-input", "fake"}, portal.Backends())
	assert.True(t, portal.Registered("fake"))
	assert.False(t, portal.Registered("sdl2"))
}

func TestOpenByName(t *testing.T) {
	f, err := portal.Open(portal.Config{Backend: "fake", UseFullscreenDesktop: false})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "fake", f.Backend())
	assert.False(t, f.UseFullscreenDesktop())
}

func TestOpenFirstAvailable(t *testing.T) {
	f, err := portal.Open(portal.DefaultConfig())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "fake", f.Backend())
}

func TestOpenSkipsBackendThatCannotCreateFactory(t *testing.T) {
	// "no-input" opens but cannot create its input subsystem, so "fake" is used.
	f, err := portal.Open(portal.DefaultConfig())
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "fake", f.Backend())

	_, err = portal.Open(portal.Config{Backend: "no-input"})
	assert.ErrorIs(t, err, errNoInput)
	assert.ErrorIs(t, err, portal.ErrPlatform)
}

func TestOpenUnavailable(t *testing.T) {
	_, err := portal.Open(portal.Config{Backend: "headless"})
	assert.ErrorIs(t, err, errHeadless)
	assert.ErrorIs(t, err, portal.ErrPlatform)
}

func TestOpenUnknown(t *testing.T) {
	_, err := portal.Open(portal.Config{Backend: "wayland"})
	assert.ErrorIs(t, err, portal.ErrNotSupported)
}

func TestRegisterTwicePanics(t *testing.T) {
	assert.Panics(t, func() {
		portal.Register("fake", func() (portal.Backend, error) { return nil, nil })
	})
	assert.Panics(t, func() {
		portal.Register("nil-opener", nil)
	})
}
