package portal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Nil(t, KindOf(nil))
	assert.Equal(t, ErrPlatform, KindOf(errors.New("driver crashed")))
	assert.Equal(t, ErrUnsupportedConfiguration, KindOf(Unsupported("samples %d", 64)))
	assert.Equal(t, ErrNotSupported, KindOf(fmt.Errorf("wrapped: %w", ErrNotSupported)))
	assert.Equal(t, ErrUseAfterDispose, KindOf(&Error{Op: "close", Kind: ErrUseAfterDispose}))
}

func TestErrorMessage(t *testing.T) {
	err := wrap("create window", "sdl2", Unsupported("stereo buffers"))
	assert.EqualError(t, err, "portal: sdl2 create window: unsupported configuration: stereo buffers")

	err = wrap("create window", "sdl2", errors.New("no video device"))
	assert.EqualError(t, err, "portal: sdl2 create window: platform error: no video device")

	err = &Error{Op: "close", Backend: "glfw", Kind: ErrUseAfterDispose}
	assert.EqualError(t, err, "portal: glfw close: use after dispose")
}

func TestWrapKeepsExistingError(t *testing.T) {
	inner := &Error{Op: "create context", Backend: "sdl2", Kind: ErrNotSupported}
	assert.Same(t, inner, wrap("open", "sdl2", inner))
	assert.Nil(t, wrap("open", "sdl2", nil))
}

func TestVersionAtLeast(t *testing.T) {
	assert.True(t, Version{Major: 4, Minor: 1}.AtLeast(Version{Major: 3, Minor: 3}))
	assert.True(t, Version{Major: 3, Minor: 3}.AtLeast(Version{Major: 3, Minor: 3}))
	assert.False(t, Version{Major: 3, Minor: 2}.AtLeast(Version{Major: 3, Minor: 3}))
	assert.True(t, Version{Major: 2}.AtLeast(Version{}))
}

func TestModeValid(t *testing.T) {
	assert.True(t, DefaultMode.Valid())
	assert.True(t, Mode{}.Valid())
	assert.False(t, Mode{Samples: -4}.Valid())
	assert.Equal(t, 32, DefaultMode.Color.BitsPerPixel())
}

func TestParseGLVersion(t *testing.T) {
	cases := map[string]Version{
		"4.6.0 NVIDIA 535.113.01":         {Major: 4, Minor: 6},
		"4.6 (Core Profile) Mesa 23.2.1":  {Major: 4, Minor: 6},
		"OpenGL ES 3.2 Mesa 23.2.1":       {Major: 3, Minor: 2},
		"3.1":                             {Major: 3, Minor: 1},
		"2.1 INTEL-20.6.4":                {Major: 2, Minor: 1},
	}
	for in, want := range cases {
		got, err := ParseGLVersion(in)
		if assert.NoError(t, err, in) {
			assert.Equal(t, want, got, in)
		}
	}

	_, err := ParseGLVersion("OpenGL ES")
	assert.Error(t, err)
}
