package portal

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/core/std"
)

// Factory creates a backend-homogeneous family of native objects and owns the backend's
// shared input subsystem.
//
// Construction calls are not safe for concurrent use; callers creating objects from several
// goroutines must serialize them. The fullscreen policy may be changed at any time.
type Factory struct {
	backend Backend
	input   InputDriver

	useFullscreenDesktop atomic.Bool

	life    *lifecycle
	cleanup runtime.Cleanup
}

// New creates a factory over b. The input subsystem is created here, once, and released by Close.
func New(b Backend, cfg Config) (*Factory, error) {
	if b == nil {
		return nil, &Error{Op: "new factory", Kind: ErrNotSupported, Err: fmt.Errorf("nil backend")}
	}

	input, err := b.NewInputDriver()
	if err != nil {
		return nil, wrap("create input driver", b.Name(), err)
	}

	f := &Factory{backend: b, input: input}
	f.useFullscreenDesktop.Store(cfg.UseFullscreenDesktop)
	f.life = track(b.Name(), input)
	f.cleanup = runtime.AddCleanup(f, (*lifecycle).leaked, f.life)

	core.Verbosef(ModuleName, "%s factory [%d] created\n", b.Name(), f.life.id)
	return f, nil
}

// Backend returns the name of the factory's backend.
func (f *Factory) Backend() string {
	return f.backend.Name()
}

// UseFullscreenDesktop reports the fullscreen policy applied to windows created from now on.
func (f *Factory) UseFullscreenDesktop() bool {
	return f.useFullscreenDesktop.Load()
}

// SetUseFullscreenDesktop sets the fullscreen policy. Existing windows are unaffected.
func (f *Factory) SetUseFullscreenDesktop(enabled bool) {
	f.useFullscreenDesktop.Store(enabled)
}

// Disposed reports whether Close has been called.
func (f *Factory) Disposed() bool {
	return f.life.released
}

func (f *Factory) live(op string) error {
	if f.life.released {
		return &Error{Op: op, Backend: f.backend.Name(), Kind: ErrUseAfterDispose}
	}
	return nil
}

func (f *Factory) owns(op string, what string, o Owned) error {
	if o == nil || o.Backend() == f.backend.Name() {
		return nil
	}
	return &Error{
		Op:      op,
		Backend: f.backend.Name(),
		Kind:    ErrUnsupportedConfiguration,
		Err:     fmt.Errorf("%s belongs to backend %q", what, o.Backend()),
	}
}

// CreateWindow creates a native window on display.
//
// A nil size uses DefaultSize and a nil pos lets the backend place the window. A nil display
// uses the backend's default display. When flags has Fullscreen, the factory's fullscreen
// policy decides whether the display resolution is changed to fit the window.
func (f *Factory) CreateWindow(title string, pos *std.XY[int], size *std.XY[int], mode Mode, flags WindowFlags, display Display) (NativeWindow, error) {
	const op = "create window"
	if err := f.live(op); err != nil {
		return nil, err
	}
	if err := f.owns(op, "display", display); err != nil {
		return nil, err
	}
	if !mode.Valid() {
		return nil, wrap(op, f.backend.Name(), Unsupported("invalid pixel format %+v", mode))
	}

	spec := WindowSpec{
		Title:    title,
		Position: pos,
		Size:     DefaultSize,
		Mode:     mode,
		Flags:    flags,
		Display:  display,
	}
	if size != nil {
		spec.Size = *size
	}

	if flags.Has(Fullscreen) {
		if f.UseFullscreenDesktop() {
			spec.Fullscreen = FullscreenDesktop
		} else {
			if spec.Display == nil {
				primary, err := f.primaryDisplay()
				if err != nil {
					return nil, wrap(op, f.backend.Name(), err)
				}
				spec.Display = primary
			}
			r := Resolution{Width: spec.Size.X, Height: spec.Size.Y, BitsPerPixel: mode.Color.BitsPerPixel()}
			if err := spec.Display.ChangeResolution(r); err != nil {
				return nil, wrap(op, f.backend.Name(), err)
			}
			spec.Fullscreen = FullscreenExclusive
		}
	}

	w, err := f.backend.NewWindow(spec)
	if err != nil {
		if spec.Fullscreen == FullscreenExclusive {
			// Undo the resolution change made for this window.
			if restoreErr := spec.Display.RestoreResolution(); restoreErr != nil {
				err = errors.Join(err, restoreErr)
			}
		}
		return nil, wrap(op, f.backend.Name(), err)
	}
	core.Verbosef(ModuleName, "%s window [%d] created (%s)\n", f.backend.Name(), w.ID(), spec.Fullscreen)
	return w, nil
}

func (f *Factory) primaryDisplay() (Display, error) {
	driver, err := f.backend.NewDisplayDriver()
	if err != nil {
		return nil, err
	}
	return driver.Primary()
}

// CreateDisplayDriver creates a new enumerator over the connected displays.
func (f *Factory) CreateDisplayDriver() (DisplayDriver, error) {
	const op = "create display driver"
	if err := f.live(op); err != nil {
		return nil, err
	}
	d, err := f.backend.NewDisplayDriver()
	if err != nil {
		return nil, wrap(op, f.backend.Name(), err)
	}
	return d, nil
}

// CreateContext creates a GL context for window, optionally sharing resources with share.
func (f *Factory) CreateContext(mode Mode, window NativeWindow, share GraphicsContext, direct bool, version Version, flags ContextFlags) (GraphicsContext, error) {
	const op = "create context"
	if err := f.live(op); err != nil {
		return nil, err
	}
	if window == nil && !flags.Has(Offscreen) {
		return nil, wrap(op, f.backend.Name(), Unsupported("a window is required for an onscreen context"))
	}
	if err := f.owns(op, "window", window); err != nil {
		return nil, err
	}
	if err := f.owns(op, "share context", share); err != nil {
		return nil, err
	}
	if !mode.Valid() {
		return nil, wrap(op, f.backend.Name(), Unsupported("invalid pixel format %+v", mode))
	}

	ctx, err := f.backend.NewContext(ContextSpec{
		Mode:    mode,
		Window:  window,
		Share:   share,
		Direct:  direct,
		Version: version,
		Flags:   flags,
	})
	if err != nil {
		return nil, wrap(op, f.backend.Name(), err)
	}
	return ctx, nil
}

// CreateContextFromHandle adopts an existing native context. Only backends implementing
// HandleContextBackend support it; every other backend fails with ErrNotSupported.
func (f *Factory) CreateContextFromHandle(handle ContextHandle, window NativeWindow, share GraphicsContext, direct bool, version Version, flags ContextFlags) (GraphicsContext, error) {
	const op = "create context from handle"
	if err := f.live(op); err != nil {
		return nil, err
	}
	hb, ok := f.backend.(HandleContextBackend)
	if !ok {
		return nil, &Error{Op: op, Backend: f.backend.Name(), Kind: ErrNotSupported}
	}
	if err := f.owns(op, "window", window); err != nil {
		return nil, err
	}
	if err := f.owns(op, "share context", share); err != nil {
		return nil, err
	}
	ctx, err := hb.NewContextFromHandle(handle, ContextSpec{
		Window:  window,
		Share:   share,
		Direct:  direct,
		Version: version,
		Flags:   flags,
	})
	if err != nil {
		return nil, wrap(op, f.backend.Name(), err)
	}
	return ctx, nil
}

// CurrentContextFunc returns a function reporting the context current on the calling
// thread, or nil when none is.
func (f *Factory) CurrentContextFunc() (func() GraphicsContext, error) {
	if err := f.live("current context"); err != nil {
		return nil, err
	}
	b := f.backend
	return func() GraphicsContext {
		return b.CurrentContext()
	}, nil
}

// CreateGraphicsMode creates a pixel-format negotiator for the backend.
func (f *Factory) CreateGraphicsMode() (GraphicsMode, error) {
	const op = "create graphics mode"
	if err := f.live(op); err != nil {
		return nil, err
	}
	m, err := f.backend.NewGraphicsMode()
	if err != nil {
		return nil, wrap(op, f.backend.Name(), err)
	}
	return m, nil
}

// CreateKeyboardDriver returns the shared keyboard driver. Every call returns the same driver.
func (f *Factory) CreateKeyboardDriver() (KeyboardDriver, error) {
	if err := f.live("create keyboard driver"); err != nil {
		return nil, err
	}
	return f.input.Keyboard(), nil
}

// CreateMouseDriver returns the shared mouse driver.
func (f *Factory) CreateMouseDriver() (MouseDriver, error) {
	if err := f.live("create mouse driver"); err != nil {
		return nil, err
	}
	return f.input.Mouse(), nil
}

// CreateGamePadDriver returns the shared gamepad driver.
func (f *Factory) CreateGamePadDriver() (GamePadDriver, error) {
	if err := f.live("create gamepad driver"); err != nil {
		return nil, err
	}
	return f.input.GamePad(), nil
}

// Close disposes the factory and releases the shared input subsystem. Only the first call
// has an effect; later calls return nil.
func (f *Factory) Close() error {
	if f.life.released {
		return nil
	}
	f.cleanup.Stop()
	core.Verbosef(ModuleName, "disposing %s factory [%d]\n", f.backend.Name(), f.life.id)
	if err := f.life.release(); err != nil {
		return wrap("close", f.backend.Name(), err)
	}
	return nil
}
