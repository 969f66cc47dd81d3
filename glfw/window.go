package glfw

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/core/std"
	"github.com/ignite-laboratories/portal"
)

// GLVersion is the context every window is created with. GLFW fixes a window's context at
// creation, so contexts requested later can only be checked against it.
var GLVersion struct {
	Major int
	Minor int
	Core  bool
}

func init() {
	GLVersion.Major = 3
	GLVersion.Minor = 3
	GLVersion.Core = true
}

// Window is a GLFW native window.
type Window struct {
	*portal.Head[*glfw.Window]
	backend *Backend

	once sync.Once
}

type hint struct {
	target glfw.Hint
	value  int
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// modeHints returns the framebuffer hints describing m.
func modeHints(m portal.Mode) []hint {
	return []hint{
		{glfw.RedBits, m.Color.Red},
		{glfw.GreenBits, m.Color.Green},
		{glfw.BlueBits, m.Color.Blue},
		{glfw.AlphaBits, m.Color.Alpha},
		{glfw.DepthBits, m.Depth},
		{glfw.StencilBits, m.Stencil},
		{glfw.Samples, m.Samples},
		{glfw.Stereo, boolHint(m.Stereo)},
		{glfw.SRGBCapable, boolHint(m.SRGB)},
		{glfw.DoubleBuffer, boolHint(m.Buffers != 1)},
	}
}

// windowHints returns every hint for spec. Windows are always created hidden so they can be
// positioned before they are shown.
func windowHints(spec portal.WindowSpec) []hint {
	hints := modeHints(spec.Mode)
	hints = append(hints,
		hint{glfw.Visible, glfw.False},
		hint{glfw.Resizable, boolHint(!spec.Flags.Has(portal.FixedWindow))},
		hint{glfw.ContextVersionMajor, GLVersion.Major},
		hint{glfw.ContextVersionMinor, GLVersion.Minor},
	)
	if GLVersion.Core {
		hints = append(hints,
			hint{glfw.OpenGLProfile, glfw.OpenGLCoreProfile},
			hint{glfw.OpenGLForwardCompatible, glfw.True},
		)
	} else {
		hints = append(hints, hint{glfw.OpenGLProfile, glfw.OpenGLAnyProfile})
	}
	return hints
}

func applyHints(hints []hint) {
	glfw.DefaultWindowHints()
	for _, h := range hints {
		glfw.WindowHint(h.target, h.value)
	}
}

// centered returns the position that centers size within a display.
func centered(displayPos, displaySize, size std.XY[int]) std.XY[int] {
	return std.XY[int]{
		X: displayPos.X + (displaySize.X-size.X)/2,
		Y: displayPos.Y + (displaySize.Y-size.Y)/2,
	}
}

// NewWindow creates a window and its context. The window keeps the GLFW thread running
// until it is destroyed.
func (b *Backend) NewWindow(spec portal.WindowSpec) (portal.NativeWindow, error) {
	if err := Thread.Acquire(); err != nil {
		return nil, err
	}

	var handle *glfw.Window
	var err error
	if callErr := call(func() {
		handle, err = b.create(spec)
	}); callErr != nil {
		err = callErr
	}
	if err != nil {
		Thread.Release()
		return nil, classify(err)
	}

	w := &Window{Head: portal.NewHead(ModuleName, handle, Thread.Synchro(), spec), backend: b}
	_ = call(func() {
		x, y := handle.GetPos()
		width, height := handle.GetSize()
		w.SetGeometry(std.XY[int]{X: x, Y: y}, std.XY[int]{X: width, Y: height})
	})

	b.mutex.Lock()
	b.windows[handle] = w
	input := b.input
	b.mutex.Unlock()
	if input != nil {
		_ = call(func() { input.attach(handle) })
	}

	core.Verbosef(ModuleName, "window [%d] created\n", w.ID())
	return w, nil
}

func (b *Backend) create(spec portal.WindowSpec) (*glfw.Window, error) {
	hints := windowHints(spec)

	var display *Display
	if d, ok := spec.Display.(*Display); ok {
		display = d
	}

	width, height := spec.Size.X, spec.Size.Y
	var monitor *glfw.Monitor
	if spec.Fullscreen != portal.Windowed {
		if display != nil {
			monitor = display.monitor
		} else {
			monitor = glfw.GetPrimaryMonitor()
		}
		if monitor == nil {
			return nil, portal.Unsupported("no monitor for fullscreen window")
		}

		mode := monitor.GetVideoMode()
		if spec.Fullscreen == portal.FullscreenExclusive && display != nil {
			if pending := display.takePending(); pending != nil {
				mode = pending
			}
		} else {
			// Matching the current mode makes GLFW keep the desktop resolution.
			hints = append(hints,
				hint{glfw.RedBits, mode.RedBits},
				hint{glfw.GreenBits, mode.GreenBits},
				hint{glfw.BlueBits, mode.BlueBits},
			)
		}
		hints = append(hints, hint{glfw.RefreshRate, mode.RefreshRate})
		width, height = mode.Width, mode.Height
	}

	applyHints(hints)
	handle, err := glfw.CreateWindow(width, height, spec.Title, monitor, nil)
	if err != nil {
		return nil, err
	}

	if monitor == nil {
		switch {
		case spec.Position != nil:
			handle.SetPos(spec.Position.X, spec.Position.Y)
		case display != nil:
			pos, size := display.Bounds()
			p := centered(pos, size, spec.Size)
			handle.SetPos(p.X, p.Y)
		}
	}
	if !spec.Flags.Has(portal.Hidden) {
		handle.Show()
	}
	return handle, nil
}

func (w *Window) SetTitle(title string) error {
	if err := call(func() { w.Handle.SetTitle(title) }); err != nil {
		return err
	}
	w.SetCachedTitle(title)
	return nil
}

func (w *Window) Show() error {
	return call(func() { w.Handle.Show() })
}

func (w *Window) Hide() error {
	return call(func() { w.Handle.Hide() })
}

// Destroy closes the window together with the context GLFW created for it. Later calls do
// nothing.
func (w *Window) Destroy() error {
	var err error
	w.once.Do(func() {
		w.backend.forget(w.Handle)
		err = call(func() { w.Handle.Destroy() })
		Thread.Release()
		core.Verbosef(ModuleName, "window [%d] cleaned up\n", w.ID())
	})
	return err
}

func (b *Backend) forget(handle *glfw.Window) {
	b.mutex.Lock()
	delete(b.windows, handle)
	delete(b.contexts, handle)
	input := b.input
	b.mutex.Unlock()
	if input != nil {
		input.detach(handle)
	}
}
