package sdl2

import (
	"github.com/ignite-laboratories/portal"
	"github.com/veandco/go-sdl2/sdl"
)

type attribute struct {
	attr  sdl.GLattr
	value int
}

func boolAttr(b bool) int {
	if b {
		return 1
	}
	return 0
}

// modeAttributes returns the GL attributes describing m. They must be set before the window
// or context they apply to is created.
func modeAttributes(m portal.Mode) []attribute {
	attrs := []attribute{
		{sdl.GL_RED_SIZE, m.Color.Red},
		{sdl.GL_GREEN_SIZE, m.Color.Green},
		{sdl.GL_BLUE_SIZE, m.Color.Blue},
		{sdl.GL_ALPHA_SIZE, m.Color.Alpha},
		{sdl.GL_DEPTH_SIZE, m.Depth},
		{sdl.GL_STENCIL_SIZE, m.Stencil},
		{sdl.GL_DOUBLEBUFFER, boolAttr(m.Buffers > 1)},
		{sdl.GL_STEREO, boolAttr(m.Stereo)},
		{sdl.GL_FRAMEBUFFER_SRGB_CAPABLE, boolAttr(m.SRGB)},
		{sdl.GL_MULTISAMPLEBUFFERS, boolAttr(m.Samples > 0)},
		{sdl.GL_MULTISAMPLESAMPLES, m.Samples},
	}
	return attrs
}

// contextAttributes returns the GL attributes for the version, profile and flags of spec.
func contextAttributes(spec portal.ContextSpec) []attribute {
	var attrs []attribute
	if !spec.Version.IsZero() {
		attrs = append(attrs,
			attribute{sdl.GL_CONTEXT_MAJOR_VERSION, spec.Version.Major},
			attribute{sdl.GL_CONTEXT_MINOR_VERSION, spec.Version.Minor},
		)
	}

	switch {
	case spec.Flags.Has(portal.Embedded):
		attrs = append(attrs, attribute{sdl.GL_CONTEXT_PROFILE_MASK, int(sdl.GL_CONTEXT_PROFILE_ES)})
	case spec.Version.AtLeast(portal.Version{Major: 3, Minor: 2}):
		attrs = append(attrs, attribute{sdl.GL_CONTEXT_PROFILE_MASK, int(sdl.GL_CONTEXT_PROFILE_CORE)})
	default:
		attrs = append(attrs, attribute{sdl.GL_CONTEXT_PROFILE_MASK, 0})
	}

	flags := 0
	if spec.Flags.Has(portal.Debug) {
		flags |= int(sdl.GL_CONTEXT_DEBUG_FLAG)
	}
	if spec.Flags.Has(portal.ForwardCompatible) {
		flags |= int(sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG)
	}
	attrs = append(attrs,
		attribute{sdl.GL_CONTEXT_FLAGS, flags},
		attribute{sdl.GL_SHARE_WITH_CURRENT_CONTEXT, boolAttr(spec.Share != nil)},
	)
	return attrs
}

func setAttributes(attrs []attribute) error {
	for _, a := range attrs {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			return err
		}
	}
	return nil
}

// GraphicsMode negotiates pixel formats by creating a hidden probe window.
type GraphicsMode struct{}

func (m *GraphicsMode) Backend() string {
	return ModuleName
}

// Select creates a hidden 1x1 window and context with want and reports the attributes the
// driver actually provided.
func (m *GraphicsMode) Select(want portal.Mode) (portal.Mode, error) {
	if !want.Valid() {
		return portal.Mode{}, portal.Unsupported("invalid pixel format %+v", want)
	}

	var got portal.Mode
	var err error
	if callErr := Thread.Do(func() {
		got, err = probe(want)
	}); callErr != nil {
		return portal.Mode{}, callErr
	}
	return got, classify(err)
}

func probe(want portal.Mode) (portal.Mode, error) {
	if err := setAttributes(modeAttributes(want)); err != nil {
		return portal.Mode{}, err
	}

	window, err := sdl.CreateWindow("", int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED), 1, 1, uint32(sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN))
	if err != nil {
		return portal.Mode{}, err
	}
	defer window.Destroy()

	context, err := window.GLCreateContext()
	if err != nil {
		return portal.Mode{}, err
	}
	defer sdl.GLDeleteContext(context)

	read := func(attr sdl.GLattr) int {
		v, _ := sdl.GLGetAttribute(attr)
		return v
	}
	got := portal.Mode{
		Color: portal.ColorFormat{
			Red:   read(sdl.GL_RED_SIZE),
			Green: read(sdl.GL_GREEN_SIZE),
			Blue:  read(sdl.GL_BLUE_SIZE),
			Alpha: read(sdl.GL_ALPHA_SIZE),
		},
		Depth:   read(sdl.GL_DEPTH_SIZE),
		Stencil: read(sdl.GL_STENCIL_SIZE),
		Buffers: 1 + read(sdl.GL_DOUBLEBUFFER),
		Stereo:  read(sdl.GL_STEREO) != 0,
		SRGB:    read(sdl.GL_FRAMEBUFFER_SRGB_CAPABLE) != 0,
	}
	if read(sdl.GL_MULTISAMPLEBUFFERS) != 0 {
		got.Samples = read(sdl.GL_MULTISAMPLESAMPLES)
	}
	return got, nil
}
