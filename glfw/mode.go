package glfw

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/ignite-laboratories/portal"
)

// GraphicsMode negotiates pixel formats by creating a hidden probe window.
type GraphicsMode struct{}

func (m *GraphicsMode) Backend() string {
	return ModuleName
}

// Select creates a hidden probe window with want. GLFW treats most framebuffer hints as
// preferences, so only the multisample count is read back from the driver.
func (m *GraphicsMode) Select(want portal.Mode) (portal.Mode, error) {
	if !want.Valid() {
		return portal.Mode{}, portal.Unsupported("invalid pixel format %+v", want)
	}

	got := want
	var err error
	if callErr := Thread.Do(func() {
		applyHints(append(modeHints(want), hint{glfw.Visible, glfw.False}))
		var probe *glfw.Window
		probe, err = glfw.CreateWindow(1, 1, "", nil, nil)
		if err != nil {
			return
		}
		defer probe.Destroy()

		previous := glfw.GetCurrentContext()
		probe.MakeContextCurrent()
		if err = gl.Init(); err != nil {
			return
		}
		var samples int32
		gl.GetIntegerv(gl.SAMPLES, &samples)
		got.Samples = int(samples)

		if previous != nil {
			previous.MakeContextCurrent()
		} else {
			glfw.DetachCurrentContext()
		}
	}); callErr != nil {
		return portal.Mode{}, callErr
	}
	if err != nil {
		return portal.Mode{}, classify(err)
	}
	return got, nil
}
