package sdl2

import (
	"sync"

	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/core/std"
	"github.com/ignite-laboratories/portal"
	"github.com/veandco/go-sdl2/sdl"
)

// Window is an SDL2 native window.
type Window struct {
	*portal.Head[*sdl.Window]
	WindowID uint32

	once sync.Once
}

// windowFlags translates the resolved spec into SDL window flags. Exclusive fullscreen is
// entered after creation, once the display mode has been applied.
func windowFlags(spec portal.WindowSpec) uint32 {
	flags := uint32(sdl.WINDOW_OPENGL)
	if !spec.Flags.Has(portal.FixedWindow) {
		flags |= uint32(sdl.WINDOW_RESIZABLE)
	}
	if spec.Flags.Has(portal.Hidden) {
		flags |= uint32(sdl.WINDOW_HIDDEN)
	} else {
		flags |= uint32(sdl.WINDOW_SHOWN)
	}
	if spec.Fullscreen == portal.FullscreenDesktop {
		flags |= uint32(sdl.WINDOW_FULLSCREEN_DESKTOP)
	}
	return flags
}

// placement returns where the window is created: the requested position, centered on the
// target display, or left to SDL.
func placement(spec portal.WindowSpec) (x, y int32) {
	if spec.Position != nil {
		return int32(spec.Position.X), int32(spec.Position.Y)
	}
	if spec.Display != nil {
		pos, size := spec.Display.Bounds()
		return int32(pos.X + (size.X-spec.Size.X)/2), int32(pos.Y + (size.Y-spec.Size.Y)/2)
	}
	return int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED)
}

// NewWindow creates a window. The window keeps the SDL2 thread running until it is destroyed.
func (b *Backend) NewWindow(spec portal.WindowSpec) (portal.NativeWindow, error) {
	if err := Thread.Acquire(); err != nil {
		return nil, err
	}

	var handle *sdl.Window
	var err error
	if callErr := call(func() {
		handle, err = create(spec)
	}); callErr != nil {
		err = callErr
	}
	if err != nil {
		Thread.Release()
		return nil, classify(err)
	}

	w := &Window{Head: portal.NewHead(ModuleName, handle, Thread.Synchro(), spec)}
	w.WindowID, _ = handle.GetID()
	_ = call(func() {
		x, y := handle.GetPosition()
		width, height := handle.GetSize()
		w.SetGeometry(std.XY[int]{X: int(x), Y: int(y)}, std.XY[int]{X: int(width), Y: int(height)})
	})

	core.Verbosef(ModuleName, "window [%d.%d] created\n", w.WindowID, w.ID())
	return w, nil
}

func create(spec portal.WindowSpec) (*sdl.Window, error) {
	if err := setAttributes(modeAttributes(spec.Mode)); err != nil {
		return nil, err
	}

	x, y := placement(spec)
	handle, err := sdl.CreateWindow(spec.Title, x, y, int32(spec.Size.X), int32(spec.Size.Y), windowFlags(spec))
	if err != nil {
		return nil, err
	}

	if spec.Fullscreen == portal.FullscreenExclusive {
		if display, ok := spec.Display.(*Display); ok {
			if mode := display.takePending(); mode != nil {
				if err := handle.SetDisplayMode(mode); err != nil {
					handle.Destroy()
					return nil, err
				}
			}
		}
		if err := handle.SetFullscreen(uint32(sdl.WINDOW_FULLSCREEN)); err != nil {
			handle.Destroy()
			return nil, err
		}
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

// Destroy closes the native window. Contexts created for it must be destroyed first.
// Later calls do nothing.
func (w *Window) Destroy() error {
	var err error
	w.once.Do(func() {
		if callErr := call(func() { err = w.Handle.Destroy() }); callErr != nil {
			err = callErr
		}
		Thread.Release()
		core.Verbosef(ModuleName, "window [%d.%d] destroyed\n", w.WindowID, w.ID())
	})
	return err
}
