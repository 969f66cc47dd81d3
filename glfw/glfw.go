package glfw

import (
	"errors"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/ignite-laboratories/portal"
	"github.com/ignite-laboratories/portal/internal/driver"
)

// Thread runs GLFW. Every live window, context and input driver holds a reference on it,
// so GLFW is terminated only after the last of them is destroyed.
var Thread = driver.New(ModuleName, glfw.Init, glfw.PollEvents, glfw.Terminate)

// call runs fn on the GLFW thread and waits for it.
func call(fn func()) error {
	return Thread.Call(fn)
}

// classify marks GLFW's format and version errors as unsupported configurations.
func classify(err error) error {
	var ge *glfw.Error
	if errors.As(err, &ge) {
		switch ge.Code {
		case glfw.FormatUnavailable, glfw.VersionUnavailable, glfw.APIUnavailable, glfw.InvalidValue:
			return portal.Unsupported("%v", err)
		}
	}
	return err
}

// Backend is the GLFW portal.Backend.
type Backend struct {
	mutex    sync.Mutex
	windows  map[*glfw.Window]*Window
	contexts map[*glfw.Window]*Context
	input    *InputDriver
}

// Open checks that GLFW initializes and returns its backend.
func Open() (portal.Backend, error) {
	if err := Thread.Do(func() {}); err != nil {
		return nil, err
	}
	return &Backend{
		windows:  make(map[*glfw.Window]*Window),
		contexts: make(map[*glfw.Window]*Context),
	}, nil
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
	input := newInputDriver()
	b.mutex.Lock()
	b.input = input
	handles := make([]*glfw.Window, 0, len(b.windows))
	for handle := range b.windows {
		handles = append(handles, handle)
	}
	b.mutex.Unlock()

	if err := call(func() {
		for _, handle := range handles {
			input.attach(handle)
		}
	}); err != nil {
		b.mutex.Lock()
		b.input = nil
		b.mutex.Unlock()
		Thread.Release()
		return nil, err
	}
	return input, nil
}

// CurrentContext reports the context adopted from the window current on this thread.
func (b *Backend) CurrentContext() portal.GraphicsContext {
	current := glfw.GetCurrentContext()
	if current == nil {
		return nil
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if c, ok := b.contexts[current]; ok {
		return c
	}
	return nil
}
