// Package portaltest provides an in-memory backend whose objects record every call made on
// them, for testing code written against portal factories.
package portaltest

import (
	"fmt"
	"sync"

	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/core/std"
	"github.com/ignite-laboratories/portal"
)

// Name is the default backend name of a Backend.
const Name = "portaltest"

// Backend is a recording portal.Backend. The zero value is not usable; call NewBackend.
type Backend struct {
	mutex sync.Mutex

	name     string
	displays []*Display
	input    *InputDriver
	current  *Context

	// MaxVersion is the newest GL version contexts can be created with.
	MaxVersion portal.Version
	// MaxSamples is the largest multisample count a mode may request.
	MaxSamples int

	// WindowErr, DisplayErr and InputErr are returned by the matching constructor when set.
	WindowErr  error
	DisplayErr error
	InputErr   error

	Windows       []*Window
	Contexts      []*Context
	DriverCount   int
	ModeCount     int
	InputCreated  int
	CurrentLookup int
}

// NewBackend returns a backend named name with one 1920x1080 primary display.
func NewBackend(name string) *Backend {
	if name == "" {
		name = Name
	}
	b := &Backend{
		name:       name,
		MaxVersion: portal.Version{Major: 4, Minor: 6},
		MaxSamples: 8,
	}
	b.AddDisplay("primary", portal.Resolution{Width: 1920, Height: 1080, BitsPerPixel: 32, RefreshRate: 60})
	return b
}

// AddDisplay connects another display. The first display added is the primary one.
func (b *Backend) AddDisplay(name string, r portal.Resolution) *Display {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	d := &Display{
		backend: b.name,
		index:   len(b.displays),
		name:    name,
		desktop: r,
		current: r,
	}
	b.displays = append(b.displays, d)
	return d
}

// Displays returns every connected display.
func (b *Backend) Displays() []*Display {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return append([]*Display(nil), b.displays...)
}

// Input returns the input driver created by the last NewInputDriver call.
func (b *Backend) Input() *InputDriver {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.input
}

func (b *Backend) Name() string {
	return b.name
}

func (b *Backend) NewWindow(spec portal.WindowSpec) (portal.NativeWindow, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.WindowErr != nil {
		return nil, b.WindowErr
	}
	if spec.Mode.Stereo {
		return nil, portal.Unsupported("stereo buffers")
	}
	if spec.Mode.Samples > b.MaxSamples {
		return nil, portal.Unsupported("%d samples exceeds %d", spec.Mode.Samples, b.MaxSamples)
	}

	w := &Window{Head: portal.NewHead[*Window](b.name, nil, nil, spec), Spec: spec, Visible: !spec.Flags.Has(portal.Hidden)}
	w.Handle = w
	b.Windows = append(b.Windows, w)
	return w, nil
}

func (b *Backend) NewDisplayDriver() (portal.DisplayDriver, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.DisplayErr != nil {
		return nil, b.DisplayErr
	}
	b.DriverCount++
	return &DisplayDriver{backend: b}, nil
}

func (b *Backend) NewContext(spec portal.ContextSpec) (portal.GraphicsContext, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if !b.MaxVersion.AtLeast(spec.Version) {
		return nil, portal.Unsupported("version %d.%d exceeds %d.%d",
			spec.Version.Major, spec.Version.Minor, b.MaxVersion.Major, b.MaxVersion.Minor)
	}
	if spec.Flags.Has(portal.Embedded) && spec.Flags.Has(portal.ForwardCompatible) {
		return nil, portal.Unsupported("forward compatible embedded context")
	}

	version := spec.Version
	if version.IsZero() {
		version = b.MaxVersion
	}
	c := &Context{
		backend: b,
		handle:  portal.ContextHandle(core.NextID()),
		Spec:    spec,
		version: version,
	}
	b.Contexts = append(b.Contexts, c)
	return c, nil
}

func (b *Backend) CurrentContext() portal.GraphicsContext {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.CurrentLookup++
	if b.current == nil {
		return nil
	}
	return b.current
}

func (b *Backend) NewGraphicsMode() (portal.GraphicsMode, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.ModeCount++
	return &GraphicsMode{backend: b.name, maxSamples: b.MaxSamples}, nil
}

func (b *Backend) NewInputDriver() (portal.InputDriver, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.InputErr != nil {
		return nil, b.InputErr
	}
	b.InputCreated++
	b.input = NewInputDriver()
	return b.input, nil
}

// Window is a recorded native window.
type Window struct {
	*portal.Head[*Window]

	Spec      portal.WindowSpec
	Visible   bool
	Destroyed int
}

func (w *Window) SetTitle(title string) error {
	w.SetCachedTitle(title)
	return nil
}

func (w *Window) Show() error {
	w.Visible = true
	return nil
}

func (w *Window) Hide() error {
	w.Visible = false
	return nil
}

func (w *Window) Destroy() error {
	w.Destroyed++
	return nil
}

// Display is a recorded display device.
type Display struct {
	backend string
	index   int
	name    string
	desktop portal.Resolution
	current portal.Resolution

	// ResolutionErr is returned by ChangeResolution when set.
	ResolutionErr error

	Changes  []portal.Resolution
	Restores int
}

func (d *Display) Backend() string { return d.backend }
func (d *Display) Index() int      { return d.index }
func (d *Display) Name() string    { return d.name }
func (d *Display) Primary() bool   { return d.index == 0 }

func (d *Display) Bounds() (std.XY[int], std.XY[int]) {
	return std.XY[int]{X: d.index * d.desktop.Width}, d.current.Size()
}

func (d *Display) Resolution() portal.Resolution {
	return d.current
}

func (d *Display) Resolutions() ([]portal.Resolution, error) {
	return []portal.Resolution{d.desktop}, nil
}

func (d *Display) ChangeResolution(r portal.Resolution) error {
	if d.ResolutionErr != nil {
		return d.ResolutionErr
	}
	d.Changes = append(d.Changes, r)
	d.current = r
	return nil
}

func (d *Display) RestoreResolution() error {
	d.Restores++
	d.current = d.desktop
	return nil
}

// DisplayDriver enumerates the backend's displays.
type DisplayDriver struct {
	backend *Backend
}

func (d *DisplayDriver) Backend() string {
	return d.backend.name
}

func (d *DisplayDriver) Displays() ([]portal.Display, error) {
	displays := d.backend.Displays()
	out := make([]portal.Display, len(displays))
	for i, display := range displays {
		out[i] = display
	}
	return out, nil
}

func (d *DisplayDriver) Primary() (portal.Display, error) {
	displays := d.backend.Displays()
	if len(displays) == 0 {
		return nil, fmt.Errorf("no displays connected")
	}
	return displays[0], nil
}

// Context is a recorded GL context.
type Context struct {
	backend *Backend
	handle  portal.ContextHandle
	version portal.Version

	Spec      portal.ContextSpec
	Window    portal.NativeWindow
	Swaps     int
	Interval  int
	Destroyed int
}

func (c *Context) Backend() string              { return c.backend.name }
func (c *Context) Handle() portal.ContextHandle { return c.handle }
func (c *Context) Version() portal.Version      { return c.version }
func (c *Context) Flags() portal.ContextFlags   { return c.Spec.Flags }
func (c *Context) Mode() portal.Mode            { return c.Spec.Mode }

func (c *Context) MakeCurrent(window portal.NativeWindow) error {
	c.backend.mutex.Lock()
	defer c.backend.mutex.Unlock()

	c.Window = window
	if window == nil {
		if c.backend.current == c {
			c.backend.current = nil
		}
		return nil
	}
	c.backend.current = c
	return nil
}

func (c *Context) IsCurrent() bool {
	c.backend.mutex.Lock()
	defer c.backend.mutex.Unlock()
	return c.backend.current == c
}

func (c *Context) SwapBuffers() error {
	c.Swaps++
	return nil
}

func (c *Context) SetSwapInterval(interval int) error {
	c.Interval = interval
	return nil
}

func (c *Context) Destroy() error {
	c.Destroyed++
	return c.MakeCurrent(nil)
}

// GraphicsMode clamps requests to what the backend supports.
type GraphicsMode struct {
	backend    string
	maxSamples int
}

func (m *GraphicsMode) Backend() string { return m.backend }

func (m *GraphicsMode) Select(want portal.Mode) (portal.Mode, error) {
	if !want.Valid() {
		return portal.Mode{}, portal.Unsupported("invalid pixel format %+v", want)
	}
	got := want
	if got.Samples > m.maxSamples {
		got.Samples = m.maxSamples
	}
	if got.Buffers == 0 {
		got.Buffers = 2
	}
	got.Stereo = false
	return got, nil
}
