package glfw

import (
	"fmt"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/ignite-laboratories/core/std"
	"github.com/ignite-laboratories/portal"
)

// DisplayDriver enumerates GLFW monitors.
type DisplayDriver struct{}

func (d *DisplayDriver) Backend() string {
	return ModuleName
}

func (d *DisplayDriver) Displays() ([]portal.Display, error) {
	var displays []portal.Display
	if err := Thread.Do(func() {
		primary := glfw.GetPrimaryMonitor()
		for i, m := range glfw.GetMonitors() {
			x, y := m.GetPos()
			if d := newDisplay(m, i, m.GetName(), std.XY[int]{X: x, Y: y}, m.GetVideoMode(), m == primary); d != nil {
				displays = append(displays, d)
			}
		}
	}); err != nil {
		return nil, err
	}
	return displays, nil
}

func (d *DisplayDriver) Primary() (portal.Display, error) {
	displays, err := d.Displays()
	if err != nil {
		return nil, err
	}
	for _, display := range displays {
		if display.Primary() {
			return display, nil
		}
	}
	return nil, fmt.Errorf("no primary monitor")
}

// newDisplay describes a monitor in its current video mode. It returns nil when the monitor
// reports no mode, which happens while it is being disconnected.
func newDisplay(m *glfw.Monitor, index int, name string, position std.XY[int], mode *glfw.VidMode, primary bool) *Display {
	if mode == nil {
		return nil
	}
	return &Display{
		monitor:  m,
		index:    index,
		name:     name,
		primary:  primary,
		position: position,
		size:     std.XY[int]{X: mode.Width, Y: mode.Height},
		current:  resolution(mode),
	}
}

func resolution(mode *glfw.VidMode) portal.Resolution {
	if mode == nil {
		return portal.Resolution{}
	}
	return portal.Resolution{
		Width:        mode.Width,
		Height:       mode.Height,
		BitsPerPixel: mode.RedBits + mode.GreenBits + mode.BlueBits,
		RefreshRate:  mode.RefreshRate,
	}
}

// closest picks the smallest mode at least as large as want, preferring higher refresh
// rates. It returns nil when no mode is large enough.
func closest(want portal.Resolution, modes []*glfw.VidMode) *glfw.VidMode {
	var best *glfw.VidMode
	for _, m := range modes {
		if m.Width < want.Width || m.Height < want.Height {
			continue
		}
		if want.RefreshRate > 0 && m.RefreshRate != want.RefreshRate {
			continue
		}
		if best == nil {
			best = m
			continue
		}
		area, bestArea := m.Width*m.Height, best.Width*best.Height
		if area < bestArea || (area == bestArea && m.RefreshRate > best.RefreshRate) {
			best = m
		}
	}
	return best
}

// Display is one GLFW monitor. ChangeResolution records the video mode the next exclusive
// fullscreen window on this monitor is created with.
type Display struct {
	monitor  *glfw.Monitor
	index    int
	name     string
	primary  bool
	position std.XY[int]
	size     std.XY[int]
	current  portal.Resolution

	mutex   sync.Mutex
	pending *glfw.VidMode
}

func (d *Display) Backend() string { return ModuleName }
func (d *Display) Index() int      { return d.index }
func (d *Display) Name() string    { return d.name }
func (d *Display) Primary() bool   { return d.primary }

func (d *Display) Bounds() (std.XY[int], std.XY[int]) {
	return d.position, d.size
}

func (d *Display) Resolution() portal.Resolution {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.pending != nil {
		return resolution(d.pending)
	}
	return d.current
}

func (d *Display) modes() ([]*glfw.VidMode, error) {
	var modes []*glfw.VidMode
	if err := Thread.Do(func() { modes = d.monitor.GetVideoModes() }); err != nil {
		return nil, err
	}
	return modes, nil
}

func (d *Display) Resolutions() ([]portal.Resolution, error) {
	modes, err := d.modes()
	if err != nil {
		return nil, err
	}
	out := make([]portal.Resolution, len(modes))
	for i, m := range modes {
		out[i] = resolution(m)
	}
	return out, nil
}

func (d *Display) ChangeResolution(r portal.Resolution) error {
	modes, err := d.modes()
	if err != nil {
		return err
	}
	mode := closest(r, modes)
	if mode == nil {
		return portal.Unsupported("monitor %q has no mode for %dx%d", d.name, r.Width, r.Height)
	}

	d.mutex.Lock()
	d.pending = mode
	d.mutex.Unlock()
	return nil
}

func (d *Display) RestoreResolution() error {
	d.mutex.Lock()
	d.pending = nil
	d.mutex.Unlock()
	return nil
}

func (d *Display) takePending() *glfw.VidMode {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	mode := d.pending
	d.pending = nil
	return mode
}
