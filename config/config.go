// Package config loads portal factory configuration from TOML or YAML files and keeps a
// factory's fullscreen policy in sync with the file while it changes.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/portal"
	"gopkg.in/yaml.v3"
)

var ModuleName = "config"

func init() {
	portal.Report()
	core.SubmoduleReport(portal.ModuleName, ModuleName)
}

// Environment variables that override the file.
const (
	EnvBackend           = "PORTAL_BACKEND"
	EnvFullscreenDesktop = "PORTAL_FULLSCREEN_DESKTOP"
)

// Read parses a configuration file. The format is chosen by extension: .toml, .yaml or .yml.
// Keys missing from the file keep their portal.DefaultConfig values.
func Read(path string) (portal.Config, error) {
	cfg := portal.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parse TOML config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse YAML config: %w", err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q", ext)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the PORTAL_* environment variables that are set.
func ApplyEnv(cfg portal.Config) (portal.Config, error) {
	if v, ok := os.LookupEnv(EnvBackend); ok {
		cfg.Backend = v
	}
	if v, ok := os.LookupEnv(EnvFullscreenDesktop); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvFullscreenDesktop, err)
		}
		cfg.UseFullscreenDesktop = b
	}
	return cfg, nil
}

// Validate checks that a configured backend has been registered.
func Validate(cfg portal.Config) error {
	if cfg.Backend != "" && !portal.Registered(cfg.Backend) {
		return fmt.Errorf("backend %q is not registered (have %v)", cfg.Backend, portal.Backends())
	}
	return nil
}

// Load reads, overrides and validates a configuration file.
func Load(path string) (portal.Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return cfg, err
	}
	if cfg, err = ApplyEnv(cfg); err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// Loader holds the current configuration of one file and reloads it when the file changes.
type Loader struct {
	path     string
	mu       sync.RWMutex
	config   portal.Config
	watcher  *fsnotify.Watcher
	onChange []func(portal.Config)
	ctx      context.Context
	cancel   context.CancelFunc
	errChan  chan error

	// Debounce is how long the loader waits for writes to settle before reloading.
	Debounce time.Duration
}

// NewLoader creates a loader for path. Call Load before Watch.
func NewLoader(path string) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		path:     path,
		config:   portal.DefaultConfig(),
		ctx:      ctx,
		cancel:   cancel,
		errChan:  make(chan error, 1),
		Debounce: 100 * time.Millisecond,
	}
}

// Load reads the file and makes it the current configuration.
func (l *Loader) Load() (portal.Config, error) {
	cfg, err := Load(l.path)
	if err != nil {
		return cfg, err
	}
	l.mu.Lock()
	l.config = cfg
	l.mu.Unlock()
	return cfg, nil
}

// Config returns the current configuration.
func (l *Loader) Config() portal.Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// OnChange registers a callback invoked with every successfully reloaded configuration.
func (l *Loader) OnChange(cb func(portal.Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, cb)
}

// Bind keeps f's fullscreen policy equal to the file's. The backend is fixed once a factory
// exists, so backend changes only apply to factories opened later.
func (l *Loader) Bind(f *portal.Factory) {
	f.SetUseFullscreenDesktop(l.Config().UseFullscreenDesktop)
	l.OnChange(func(cfg portal.Config) {
		if f.UseFullscreenDesktop() != cfg.UseFullscreenDesktop {
			core.Verbosef(ModuleName, "fullscreen desktop policy set to %v\n", cfg.UseFullscreenDesktop)
		}
		f.SetUseFullscreenDesktop(cfg.UseFullscreenDesktop)
	})
}

// Errors returns reload and watch errors. Errors are dropped while the channel is full.
func (l *Loader) Errors() <-chan error {
	return l.errChan
}

// Watch starts reloading the configuration whenever the file is written.
func (l *Loader) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	l.watcher = watcher

	go l.watchLoop()
	return nil
}

func (l *Loader) watchLoop() {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-l.ctx.Done():
			return

		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(l.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(l.Debounce, l.reload)

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			l.report(err)
		}
	}
}

func (l *Loader) report(err error) {
	select {
	case l.errChan <- err:
	default:
	}
}

func (l *Loader) reload() {
	cfg, err := Load(l.path)
	if err != nil {
		l.report(fmt.Errorf("reload config: %w", err))
		return
	}

	l.mu.Lock()
	l.config = cfg
	callbacks := append([]func(portal.Config)(nil), l.onChange...)
	l.mu.Unlock()

	core.Verbosef(ModuleName, "reloaded %s\n", l.path)
	for _, cb := range callbacks {
		cb(cfg)
	}
}

// Close stops watching the file.
func (l *Loader) Close() error {
	l.cancel()
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}
