package portal

// Config is the factory-scoped configuration.
type Config struct {
	// Backend names the registered backend to open. Empty picks the first that opens.
	Backend string `toml:"backend" yaml:"backend"`

	// UseFullscreenDesktop makes fullscreen windows cover the display at its current
	// resolution. When false, fullscreen windows change the display resolution to their size.
	UseFullscreenDesktop bool `toml:"use_fullscreen_desktop" yaml:"use_fullscreen_desktop"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{UseFullscreenDesktop: true}
}
