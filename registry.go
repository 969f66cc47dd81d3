package portal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ignite-laboratories/core"
)

// Opener initializes a backend. It is called each time a factory is opened for the backend.
type Opener func() (Backend, error)

type registration struct {
	name string
	open Opener
}

var (
	registryMutex sync.Mutex
	registry      []registration
)

// Register makes a backend available to Open by name. Backends call it from init, and the
// registration order is the preference order Open uses when no backend is configured.
// Registering the same name twice panics.
func Register(name string, open Opener) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	if open == nil {
		panic("portal: Register opener is nil")
	}
	for _, r := range registry {
		if r.name == name {
			panic("portal: Register called twice for backend " + name)
		}
	}
	registry = append(registry, registration{name: name, open: open})
	core.Verbosef(ModuleName, "registered backend %s\n", name)
}

// Backends returns the registered backend names in preference order.
func Backends() []string {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	names := make([]string, len(registry))
	for i, r := range registry {
		names[i] = r.name
	}
	return names
}

// Registered reports whether a backend with the given name has been registered.
func Registered(name string) bool {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	for _, r := range registry {
		if r.name == name {
			return true
		}
	}
	return false
}

// Open creates a factory for cfg.Backend. When cfg.Backend is empty, each registered backend
// is tried in order and the first that opens wins.
func Open(cfg Config) (*Factory, error) {
	registryMutex.Lock()
	candidates := make([]registration, 0, len(registry))
	for _, r := range registry {
		if cfg.Backend == "" || r.name == cfg.Backend {
			candidates = append(candidates, r)
		}
	}
	registryMutex.Unlock()

	if len(candidates) == 0 {
		name := cfg.Backend
		if name == "" {
			name = "(none registered)"
		}
		return nil, &Error{Op: "open", Backend: name, Kind: ErrNotSupported, Err: fmt.Errorf("unknown backend")}
	}

	var errs []error
	for _, r := range candidates {
		b, err := r.open()
		if err != nil {
			core.Verbosef(ModuleName, "backend %s unavailable: %v\n", r.name, err)
			errs = append(errs, wrap("open", r.name, err))
			continue
		}
		f, err := New(b, cfg)
		if err != nil {
			core.Verbosef(ModuleName, "backend %s unavailable: %v\n", r.name, err)
			errs = append(errs, err)
			continue
		}
		return f, nil
	}
	return nil, errors.Join(errs...)
}
