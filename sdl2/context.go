package sdl2

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/portal"
	"github.com/veandco/go-sdl2/sdl"
)

// Context is an SDL2 GL context. It is created current on the calling thread.
type Context struct {
	backend *Backend
	context sdl.GLContext
	window  *Window
	// probe is the hidden window backing an offscreen context.
	probe *sdl.Window

	version portal.Version
	flags   portal.ContextFlags
	mode    portal.Mode

	once sync.Once
}

// NewContext creates a context current on the calling thread. The context keeps the SDL2
// thread running until it is destroyed.
func (b *Backend) NewContext(spec portal.ContextSpec) (portal.GraphicsContext, error) {
	if err := Thread.Acquire(); err != nil {
		return nil, err
	}
	c, err := b.newContext(spec)
	if err != nil {
		Thread.Release()
		return nil, err
	}
	return c, nil
}

func (b *Backend) newContext(spec portal.ContextSpec) (*Context, error) {
	var share *Context
	if spec.Share != nil {
		s, ok := spec.Share.(*Context)
		if !ok {
			return nil, portal.Unsupported("share context %T is not an SDL2 context", spec.Share)
		}
		share = s
	}

	var window *Window
	var probe *sdl.Window
	if spec.Window != nil {
		w, ok := spec.Window.(*Window)
		if !ok {
			return nil, portal.Unsupported("window %T is not an SDL2 window", spec.Window)
		}
		window = w
	} else {
		var err error
		if callErr := call(func() {
			if err = setAttributes(modeAttributes(spec.Mode)); err != nil {
				return
			}
			probe, err = sdl.CreateWindow("", int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED), 1, 1, uint32(sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN))
		}); callErr != nil {
			return nil, callErr
		}
		if err != nil {
			return nil, classify(err)
		}
	}

	handle := probe
	if window != nil {
		handle = window.Handle
	}
	discard := func() {
		if probe != nil {
			_ = call(func() { probe.Destroy() })
		}
	}

	if share != nil {
		if err := handle.GLMakeCurrent(share.context); err != nil {
			discard()
			return nil, err
		}
	}

	if err := setAttributes(contextAttributes(spec)); err != nil {
		discard()
		return nil, err
	}
	glContext, err := handle.GLCreateContext()
	if err != nil {
		discard()
		if !spec.Version.IsZero() {
			return nil, portal.Unsupported("GL %d.%d: %v", spec.Version.Major, spec.Version.Minor, err)
		}
		return nil, classify(err)
	}

	c := &Context{
		backend: b,
		context: glContext,
		window:  window,
		probe:   probe,
		flags:   spec.Flags,
		mode:    spec.Mode,
	}

	if err := gl.Init(); err != nil {
		_ = c.destroy()
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	glVersion := gl.GoStr(gl.GetString(gl.VERSION))
	c.version, err = portal.ParseGLVersion(glVersion)
	if err != nil {
		_ = c.destroy()
		return nil, err
	}
	if !c.version.AtLeast(spec.Version) {
		_ = c.destroy()
		return nil, portal.Unsupported("requested GL %d.%d, driver provided %s", spec.Version.Major, spec.Version.Minor, glVersion)
	}

	b.track(c)
	core.Verbosef(ModuleName, "context initialized with %s\n", glVersion)
	return c, nil
}

func (c *Context) Backend() string            { return ModuleName }
func (c *Context) Version() portal.Version    { return c.version }
func (c *Context) Flags() portal.ContextFlags { return c.flags }
func (c *Context) Mode() portal.Mode          { return c.mode }

func (c *Context) Handle() portal.ContextHandle {
	return portal.ContextHandle(uintptr(unsafe.Pointer(c.context)))
}

func (c *Context) surface() *sdl.Window {
	if c.window != nil {
		return c.window.Handle
	}
	return c.probe
}

func (c *Context) MakeCurrent(window portal.NativeWindow) error {
	if window == nil {
		return c.surface().GLMakeCurrent(nil)
	}
	w, ok := window.(*Window)
	if !ok {
		return portal.Unsupported("window %T is not an SDL2 window", window)
	}
	return w.Handle.GLMakeCurrent(c.context)
}

func (c *Context) IsCurrent() bool {
	current, err := sdl.GLGetCurrentContext()
	return err == nil && current == c.context
}

func (c *Context) SwapBuffers() error {
	c.surface().GLSwap()
	return nil
}

func (c *Context) SetSwapInterval(interval int) error {
	return sdl.GLSetSwapInterval(interval)
}

// Destroy deletes the context and, for offscreen contexts, its hidden window. Later calls
// do nothing.
func (c *Context) Destroy() error {
	var err error
	c.once.Do(func() {
		err = c.destroy()
		Thread.Release()
	})
	return err
}

func (c *Context) destroy() error {
	c.backend.forget(c)
	sdl.GLDeleteContext(c.context)
	if c.probe != nil {
		var err error
		if callErr := call(func() { err = c.probe.Destroy() }); callErr != nil {
			return callErr
		}
		return err
	}
	return nil
}
