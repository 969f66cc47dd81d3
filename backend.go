package portal

import "github.com/ignite-laboratories/core/std"

// Owned is implemented by every object a backend creates so that a factory can refuse
// objects from another backend.
type Owned interface {
	// Backend returns the name of the backend that created the object.
	Backend() string
}

// NativeWindow is a window created by a backend.
type NativeWindow interface {
	Owned
	ID() uint64
	Title() string
	SetTitle(title string) error
	Position() std.XY[int]
	Size() std.XY[int]
	Fullscreen() FullscreenMode
	Mode() Mode
	Show() error
	Hide() error
	Destroy() error
}

// Display is one connected display device.
type Display interface {
	Owned
	Index() int
	Name() string
	Primary() bool
	Bounds() (pos std.XY[int], size std.XY[int])
	Resolution() Resolution
	Resolutions() ([]Resolution, error)
	// ChangeResolution requests that the display switch to r for exclusive fullscreen use.
	ChangeResolution(r Resolution) error
	RestoreResolution() error
}

// DisplayDriver enumerates the connected displays.
type DisplayDriver interface {
	Owned
	Displays() ([]Display, error)
	Primary() (Display, error)
}

// GraphicsContext is a GL rendering context bound to a window.
type GraphicsContext interface {
	Owned
	Handle() ContextHandle
	Version() Version
	Flags() ContextFlags
	Mode() Mode
	// MakeCurrent binds the context to window on the calling thread; a nil window releases it.
	MakeCurrent(window NativeWindow) error
	IsCurrent() bool
	SwapBuffers() error
	SetSwapInterval(interval int) error
	Destroy() error
}

// GraphicsMode negotiates pixel formats with the backend.
type GraphicsMode interface {
	Owned
	// Select returns the closest mode the backend can provide for want.
	Select(want Mode) (Mode, error)
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
)

// KeyboardDriver reports the aggregate keyboard state.
type KeyboardDriver interface {
	// KeyDown reports whether the key with the given scancode is held.
	KeyDown(scancode int) bool
}

// MouseDriver reports the aggregate mouse state.
type MouseDriver interface {
	Position() std.XY[int]
	ButtonDown(button MouseButton) bool
}

// GamePadDriver reports the state of connected gamepads.
type GamePadDriver interface {
	Count() int
	Name(index int) string
	ButtonDown(index int, button int) bool
	// Axis returns the axis value normalized to [-1, 1].
	Axis(index int, axis int) float32
}

// InputDriver owns the keyboard, mouse and gamepad drivers of one backend.
type InputDriver interface {
	Keyboard() KeyboardDriver
	Mouse() MouseDriver
	GamePad() GamePadDriver
	// Release frees every native input resource. A factory calls it exactly once.
	Release() error
}

// WindowSpec is the request a factory hands to its backend for a new window.
type WindowSpec struct {
	Title string
	// Position is nil when the backend should place the window.
	Position   *std.XY[int]
	Size       std.XY[int]
	Mode       Mode
	Flags      WindowFlags
	Fullscreen FullscreenMode
	// Display is nil for the backend's default display.
	Display Display
}

// ContextSpec is the request a factory hands to its backend for a new GL context.
type ContextSpec struct {
	Mode    Mode
	Window  NativeWindow
	Share   GraphicsContext
	Direct  bool
	Version Version
	Flags   ContextFlags
}

// Backend constructs the native objects of one platform integration.
type Backend interface {
	Name() string
	NewWindow(spec WindowSpec) (NativeWindow, error)
	NewDisplayDriver() (DisplayDriver, error)
	NewContext(spec ContextSpec) (GraphicsContext, error)
	// CurrentContext returns the context current on the calling thread, or nil.
	CurrentContext() GraphicsContext
	NewGraphicsMode() (GraphicsMode, error)
	NewInputDriver() (InputDriver, error)
}

// HandleContextBackend is implemented by backends that can adopt an existing native context.
type HandleContextBackend interface {
	Backend
	NewContextFromHandle(handle ContextHandle, spec ContextSpec) (GraphicsContext, error)
}
