package sdl2

import (
	"errors"
	"testing"

	"github.com/ignite-laboratories/core/std"
	"github.com/ignite-laboratories/portal"
	"github.com/ignite-laboratories/portal/internal/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"
)

func TestRegistered(t *testing.T) {
	assert.True(t, portal.Registered(ModuleName))
}

func TestWindowFlags(t *testing.T) {
	flags := windowFlags(portal.WindowSpec{})
	assert.NotZero(t, flags&uint32(sdl.WINDOW_OPENGL))
	assert.NotZero(t, flags&uint32(sdl.WINDOW_RESIZABLE))
	assert.NotZero(t, flags&uint32(sdl.WINDOW_SHOWN))
	assert.Zero(t, flags&uint32(sdl.WINDOW_FULLSCREEN))

	flags = windowFlags(portal.WindowSpec{Flags: portal.FixedWindow | portal.Hidden})
	assert.Zero(t, flags&uint32(sdl.WINDOW_RESIZABLE))
	assert.NotZero(t, flags&uint32(sdl.WINDOW_HIDDEN))

	flags = windowFlags(portal.WindowSpec{Flags: portal.Fullscreen, Fullscreen: portal.FullscreenDesktop})
	assert.Equal(t, uint32(sdl.WINDOW_FULLSCREEN_DESKTOP), flags&uint32(sdl.WINDOW_FULLSCREEN_DESKTOP))

	// exclusive fullscreen is entered after the display mode is applied
	flags = windowFlags(portal.WindowSpec{Flags: portal.Fullscreen, Fullscreen: portal.FullscreenExclusive})
	assert.Zero(t, flags&uint32(sdl.WINDOW_FULLSCREEN))
}

func TestPlacement(t *testing.T) {
	x, y := placement(portal.WindowSpec{Position: &std.XY[int]{X: 5, Y: 7}})
	assert.Equal(t, int32(5), x)
	assert.Equal(t, int32(7), y)

	display := &Display{position: std.XY[int]{X: 1920}, size: std.XY[int]{X: 1920, Y: 1080}}
	x, y = placement(portal.WindowSpec{Size: std.XY[int]{X: 640, Y: 480}, Display: display})
	assert.Equal(t, int32(1920+640), x)
	assert.Equal(t, int32(300), y)

	x, y = placement(portal.WindowSpec{})
	assert.Equal(t, int32(sdl.WINDOWPOS_UNDEFINED), x)
	assert.Equal(t, int32(sdl.WINDOWPOS_UNDEFINED), y)
}

func TestClosest(t *testing.T) {
	modes := []sdl.DisplayMode{
		{W: 1920, H: 1080, RefreshRate: 60},
		{W: 1920, H: 1080, RefreshRate: 144},
		{W: 1280, H: 720, RefreshRate: 60},
		{W: 800, H: 600, RefreshRate: 60},
	}

	best, ok := closest(portal.Resolution{Width: 1024, Height: 700}, modes)
	require.True(t, ok)
	assert.Equal(t, int32(1280), best.W)

	best, ok = closest(portal.Resolution{Width: 1920, Height: 1080}, modes)
	require.True(t, ok)
	assert.Equal(t, int32(144), best.RefreshRate)

	best, ok = closest(portal.Resolution{Width: 1920, Height: 1080, RefreshRate: 60}, modes)
	require.True(t, ok)
	assert.Equal(t, int32(60), best.RefreshRate)

	_, ok = closest(portal.Resolution{Width: 3840, Height: 2160}, modes)
	assert.False(t, ok)
}

func TestDisplayPendingMode(t *testing.T) {
	d := &Display{current: portal.Resolution{Width: 1920, Height: 1080}}
	d.pending = &sdl.DisplayMode{W: 800, H: 600, RefreshRate: 60}
	assert.Equal(t, 800, d.Resolution().Width)

	mode := d.takePending()
	require.NotNil(t, mode)
	assert.Nil(t, d.takePending())
	assert.Equal(t, 1920, d.Resolution().Width)

	d.pending = mode
	require.NoError(t, d.RestoreResolution())
	assert.Nil(t, d.takePending())
}

func TestBitsPerPixel(t *testing.T) {
	assert.Equal(t, 32, bitsPerPixel(uint32(sdl.PIXELFORMAT_RGBA8888)))
	assert.Equal(t, 24, bitsPerPixel(uint32(sdl.PIXELFORMAT_RGB888)))
}

func TestButtonMask(t *testing.T) {
	assert.Equal(t, uint32(1), buttonMask(portal.MouseLeft))
	assert.Equal(t, uint32(2), buttonMask(portal.MouseMiddle))
	assert.Equal(t, uint32(4), buttonMask(portal.MouseRight))
}

func TestNormalizeAxis(t *testing.T) {
	assert.Equal(t, float32(-1), normalizeAxis(-32768))
	assert.Equal(t, float32(1), normalizeAxis(32767))
	assert.Equal(t, float32(0), normalizeAxis(0))
}

func attributeMap(attrs []attribute) map[sdl.GLattr]int {
	m := make(map[sdl.GLattr]int, len(attrs))
	for _, a := range attrs {
		m[a.attr] = a.value
	}
	return m
}

func TestModeAttributes(t *testing.T) {
	mode := portal.DefaultMode
	mode.Samples = 4
	attrs := attributeMap(modeAttributes(mode))

	assert.Equal(t, 8, attrs[sdl.GL_RED_SIZE])
	assert.Equal(t, 24, attrs[sdl.GL_DEPTH_SIZE])
	assert.Equal(t, 1, attrs[sdl.GL_DOUBLEBUFFER])
	assert.Equal(t, 1, attrs[sdl.GL_MULTISAMPLEBUFFERS])
	assert.Equal(t, 4, attrs[sdl.GL_MULTISAMPLESAMPLES])
	assert.Equal(t, 0, attrs[sdl.GL_STEREO])
}

func TestContextAttributes(t *testing.T) {
	attrs := attributeMap(contextAttributes(portal.ContextSpec{
		Version: portal.Version{Major: 4, Minor: 1},
		Flags:   portal.Debug | portal.ForwardCompatible,
	}))
	assert.Equal(t, 4, attrs[sdl.GL_CONTEXT_MAJOR_VERSION])
	assert.Equal(t, 1, attrs[sdl.GL_CONTEXT_MINOR_VERSION])
	assert.Equal(t, int(sdl.GL_CONTEXT_PROFILE_CORE), attrs[sdl.GL_CONTEXT_PROFILE_MASK])
	assert.Equal(t, int(sdl.GL_CONTEXT_DEBUG_FLAG)|int(sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG), attrs[sdl.GL_CONTEXT_FLAGS])
	assert.Equal(t, 0, attrs[sdl.GL_SHARE_WITH_CURRENT_CONTEXT])

	attrs = attributeMap(contextAttributes(portal.ContextSpec{
		Version: portal.Version{Major: 3},
		Flags:   portal.Embedded,
		Share:   &Context{},
	}))
	assert.Equal(t, int(sdl.GL_CONTEXT_PROFILE_ES), attrs[sdl.GL_CONTEXT_PROFILE_MASK])
	assert.Equal(t, 1, attrs[sdl.GL_SHARE_WITH_CURRENT_CONTEXT])

	attrs = attributeMap(contextAttributes(portal.ContextSpec{}))
	_, hasMajor := attrs[sdl.GL_CONTEXT_MAJOR_VERSION]
	assert.False(t, hasMajor)
	assert.Equal(t, 0, attrs[sdl.GL_CONTEXT_PROFILE_MASK])
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(errors.New("Couldn't find matching GLX visual")), portal.ErrUnsupportedConfiguration)

	cause := errors.New("No available video device")
	assert.Same(t, cause, classify(cause))
}

func TestCallWhenStopped(t *testing.T) {
	require.Zero(t, Thread.Users())
	assert.ErrorIs(t, call(func() {}), driver.ErrStopped)
}

func TestHandleContextsNotSupported(t *testing.T) {
	var b portal.Backend = &Backend{}
	_, ok := b.(portal.HandleContextBackend)
	assert.False(t, ok)
}

type foreignContext struct{ portal.GraphicsContext }

func TestForeignShareRejectedBeforeProbeWindow(t *testing.T) {
	b := &Backend{contexts: make(map[sdl.GLContext]*Context)}

	// The SDL2 thread is not running, so reaching the probe window would fail with ErrStopped.
	_, err := b.newContext(portal.ContextSpec{Flags: portal.Offscreen, Share: foreignContext{}})
	assert.ErrorIs(t, err, portal.ErrUnsupportedConfiguration)
	assert.NotErrorIs(t, err, driver.ErrStopped)
	assert.Zero(t, Thread.Users())
}
