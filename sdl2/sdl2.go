package sdl2

import (
	"strings"
	"sync"

	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/portal"
	"github.com/ignite-laboratories/portal/internal/driver"
	"github.com/veandco/go-sdl2/sdl"
)

// Thread runs SDL2. Every live window, context and input driver holds a reference on it,
// so SDL is shut down only after the last of them is destroyed.
var Thread = driver.New(ModuleName, initialize, pump, sdl.Quit)

func initialize() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_JOYSTICK | sdl.INIT_GAMECONTROLLER); err != nil {
		return err
	}
	video, _ := sdl.GetCurrentVideoDriver()
	core.Verbosef(ModuleName, "SDL video driver: %s\n", video)
	return nil
}

// pump drains the event queue. Keyboard and mouse state is refreshed by the pump; dispatch
// is left to the toolkit.
func pump() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if _, ok := event.(*sdl.ControllerDeviceEvent); ok {
			gamepadGeneration.Add(1)
		}
	}
}

// call runs fn on the SDL2 thread and waits for it.
func call(fn func()) error {
	return Thread.Call(fn)
}

// classify marks pixel format failures reported by SDL as unsupported configurations.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"matching glx visual", "no matching", "pixel format", "couldn't find matching", "glxcreatecontext", "could not create gl context"} {
		if strings.Contains(msg, hint) {
			return portal.Unsupported("%v", err)
		}
	}
	return err
}

// Backend is the SDL2 portal.Backend.
type Backend struct {
	mutex    sync.Mutex
	contexts map[sdl.GLContext]*Context
}

// Open checks that SDL2 initializes and returns its backend.
func Open() (portal.Backend, error) {
	if err := Thread.Do(func() {}); err != nil {
		return nil, err
	}
	return &Backend{contexts: make(map[sdl.GLContext]*Context)}, nil
}

func (b *Backend) Name() string {
	return ModuleName
}

func (b *Backend) NewDisplayDriver() (portal.DisplayDriver, error) {
	return &DisplayDriver{}, nil
}

func (b *Backend) NewGraphicsMode() (portal.GraphicsMode, error) {
	return &GraphicsMode{}, nil
}

func (b *Backend) NewInputDriver() (portal.InputDriver, error) {
	if err := Thread.Acquire(); err != nil {
		return nil, err
	}
	return newInputDriver(), nil
}

func (b *Backend) CurrentContext() portal.GraphicsContext {
	current, err := sdl.GLGetCurrentContext()
	if err != nil || current == nil {
		return nil
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if c, ok := b.contexts[current]; ok {
		return c
	}
	return nil
}

func (b *Backend) track(c *Context) {
	b.mutex.Lock()
	b.contexts[c.context] = c
	b.mutex.Unlock()
}

func (b *Backend) forget(c *Context) {
	b.mutex.Lock()
	delete(b.contexts, c.context)
	b.mutex.Unlock()
}
