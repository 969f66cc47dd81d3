package glfw

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/portal"
)

// Context adopts the context GLFW created with a window.
type Context struct {
	backend *Backend
	surface *glfw.Window
	// owned is set for offscreen contexts, whose hidden window belongs to the context.
	owned bool

	version portal.Version
	flags   portal.ContextFlags
	mode    portal.Mode

	once sync.Once
}

// contextAttributes is what GLFW reports about a window's context.
type contextAttributes struct {
	version           portal.Version
	debug             bool
	forwardCompatible bool
	embedded          bool
}

// check reports why attrs cannot satisfy spec, or nil when they can.
func (attrs contextAttributes) check(spec portal.ContextSpec) error {
	switch {
	case spec.Share != nil:
		return portal.Unsupported("GLFW shares contexts only when a window is created")
	case !attrs.version.AtLeast(spec.Version):
		return portal.Unsupported("requested GL %d.%d, window has %d.%d",
			spec.Version.Major, spec.Version.Minor, attrs.version.Major, attrs.version.Minor)
	case spec.Flags.Has(portal.Debug) && !attrs.debug:
		return portal.Unsupported("window context is not a debug context")
	case spec.Flags.Has(portal.ForwardCompatible) && !attrs.forwardCompatible:
		return portal.Unsupported("window context is not forward compatible")
	case spec.Flags.Has(portal.Embedded) != attrs.embedded:
		return portal.Unsupported("window context API does not match the embedded flag")
	}
	return nil
}

func readAttributes(w *glfw.Window) contextAttributes {
	return contextAttributes{
		version: portal.Version{
			Major: w.GetAttrib(glfw.ContextVersionMajor),
			Minor: w.GetAttrib(glfw.ContextVersionMinor),
		},
		debug:             w.GetAttrib(glfw.OpenGLDebugContext) == glfw.True,
		forwardCompatible: w.GetAttrib(glfw.OpenGLForwardCompatible) == glfw.True,
		embedded:          w.GetAttrib(glfw.ClientAPI) == glfw.OpenGLESAPI,
	}
}

// NewContext adopts the context of spec.Window, or of a hidden window for offscreen
// contexts. The context keeps the GLFW thread running until it is destroyed.
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
	c := &Context{backend: b, flags: spec.Flags, mode: spec.Mode}

	if spec.Window != nil {
		w, ok := spec.Window.(*Window)
		if !ok {
			return nil, portal.Unsupported("window %T is not a GLFW window", spec.Window)
		}
		c.surface = w.Handle
	} else {
		var err error
		if callErr := call(func() {
			applyHints(append(modeHints(spec.Mode), hint{glfw.Visible, glfw.False}))
			c.surface, err = glfw.CreateWindow(1, 1, "", nil, nil)
		}); callErr != nil {
			return nil, callErr
		}
		if err != nil {
			return nil, classify(err)
		}
		c.owned = true
	}

	b.mutex.Lock()
	_, taken := b.contexts[c.surface]
	b.mutex.Unlock()
	if taken {
		return nil, portal.Unsupported("window already has a context")
	}

	var attrs contextAttributes
	if err := call(func() { attrs = readAttributes(c.surface) }); err != nil {
		_ = c.destroy()
		return nil, err
	}
	if err := attrs.check(spec); err != nil {
		_ = c.destroy()
		return nil, err
	}
	c.version = attrs.version

	c.surface.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		_ = c.destroy()
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}

	b.mutex.Lock()
	b.contexts[c.surface] = c
	b.mutex.Unlock()

	core.Verbosef(ModuleName, "context initialized with %s\n", gl.GoStr(gl.GetString(gl.VERSION)))
	return c, nil
}

func (c *Context) Backend() string            { return ModuleName }
func (c *Context) Version() portal.Version    { return c.version }
func (c *Context) Flags() portal.ContextFlags { return c.flags }
func (c *Context) Mode() portal.Mode          { return c.mode }

func (c *Context) Handle() portal.ContextHandle {
	return portal.ContextHandle(uintptr(unsafe.Pointer(c.surface)))
}

// MakeCurrent binds the context on the calling thread. A GLFW context can only be current
// with the window it was created for.
func (c *Context) MakeCurrent(window portal.NativeWindow) error {
	if window == nil {
		glfw.DetachCurrentContext()
		return nil
	}
	w, ok := window.(*Window)
	if !ok || w.Handle != c.surface {
		return portal.Unsupported("a GLFW context can only be current with its own window")
	}
	c.surface.MakeContextCurrent()
	return nil
}

func (c *Context) IsCurrent() bool {
	return glfw.GetCurrentContext() == c.surface
}

func (c *Context) SwapBuffers() error {
	c.surface.SwapBuffers()
	return nil
}

func (c *Context) SetSwapInterval(interval int) error {
	glfw.SwapInterval(interval)
	return nil
}

// Destroy forgets the context. The native context lives until its window is destroyed,
// except for offscreen contexts, whose hidden window is destroyed here.
func (c *Context) Destroy() error {
	var err error
	c.once.Do(func() {
		err = c.destroy()
		Thread.Release()
	})
	return err
}

func (c *Context) destroy() error {
	if c.IsCurrent() {
		glfw.DetachCurrentContext()
	}
	c.backend.mutex.Lock()
	if c.backend.contexts[c.surface] == c {
		delete(c.backend.contexts, c.surface)
	}
	c.backend.mutex.Unlock()

	if c.owned {
		return call(func() { c.surface.Destroy() })
	}
	return nil
}
