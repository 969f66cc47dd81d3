package portal

import "github.com/ignite-laboratories/core/std"

// DefaultSize sets the default window size for new windows.
//
// If not overridden, it defaults to 640x480px
var DefaultSize = std.XY[int]{
	X: 640,
	Y: 480,
}

// ColorFormat describes the bits per channel of a color buffer.
type ColorFormat struct {
	Red   int
	Green int
	Blue  int
	Alpha int
}

// BitsPerPixel returns the sum of all channel sizes.
func (c ColorFormat) BitsPerPixel() int {
	return c.Red + c.Green + c.Blue + c.Alpha
}

// Mode is a pixel-format descriptor shared by a window and the context created for it.
type Mode struct {
	Color   ColorFormat
	Depth   int
	Stencil int
	Samples int
	// Buffers is the number of color buffers, 2 for double buffering.
	Buffers int
	Stereo  bool
	SRGB    bool
}

// DefaultMode is a 32bpp double-buffered mode with a 24-bit depth buffer.
var DefaultMode = Mode{
	Color:   ColorFormat{Red: 8, Green: 8, Blue: 8, Alpha: 8},
	Depth:   24,
	Stencil: 8,
	Buffers: 2,
}

// Valid reports whether every size in the mode is non-negative.
func (m Mode) Valid() bool {
	return m.Color.Red >= 0 && m.Color.Green >= 0 && m.Color.Blue >= 0 && m.Color.Alpha >= 0 &&
		m.Depth >= 0 && m.Stencil >= 0 && m.Samples >= 0 && m.Buffers >= 0
}

// Version is a requested or reported GL version.
type Version struct {
	Major int
	Minor int
}

// AtLeast reports whether v is the same as or newer than other.
func (v Version) AtLeast(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

// IsZero reports whether no version was requested.
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

// WindowFlags control how a native window is created.
type WindowFlags uint8

const (
	Fullscreen WindowFlags = 1 << iota
	// FixedWindow disables user resizing.
	FixedWindow
	Hidden
)

// Has reports whether every bit of flag is set.
func (f WindowFlags) Has(flag WindowFlags) bool {
	return f&flag == flag
}

// ContextFlags control how a GL context is created.
type ContextFlags uint8

const (
	Debug ContextFlags = 1 << iota
	ForwardCompatible
	// Embedded requests an OpenGL ES context.
	Embedded
	Offscreen
)

// Has reports whether every bit of flag is set.
func (f ContextFlags) Has(flag ContextFlags) bool {
	return f&flag == flag
}

// FullscreenMode is the fullscreen behavior resolved by the factory for a new window.
type FullscreenMode uint8

const (
	Windowed FullscreenMode = iota
	// FullscreenDesktop covers the display at its current resolution.
	FullscreenDesktop
	// FullscreenExclusive switches the display to the window's resolution.
	FullscreenExclusive
)

func (m FullscreenMode) String() string {
	switch m {
	case FullscreenDesktop:
		return "fullscreen-desktop"
	case FullscreenExclusive:
		return "fullscreen-exclusive"
	default:
		return "windowed"
	}
}

// Resolution is a display mode.
type Resolution struct {
	Width        int
	Height       int
	BitsPerPixel int
	RefreshRate  int
}

// Size returns the resolution as a std.XY.
func (r Resolution) Size() std.XY[int] {
	return std.XY[int]{X: r.Width, Y: r.Height}
}

// ContextHandle is an opaque native GL context handle.
type ContextHandle uintptr
