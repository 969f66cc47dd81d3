package sdl2

import (
	"fmt"
	"sync"

	"github.com/ignite-laboratories/core/std"
	"github.com/ignite-laboratories/portal"
	"github.com/veandco/go-sdl2/sdl"
)

// DisplayDriver enumerates SDL2 video displays.
type DisplayDriver struct{}

func (d *DisplayDriver) Backend() string {
	return ModuleName
}

func (d *DisplayDriver) Displays() ([]portal.Display, error) {
	var displays []portal.Display
	var err error
	if callErr := Thread.Do(func() {
		displays, err = enumerate()
	}); callErr != nil {
		return nil, callErr
	}
	return displays, err
}

func (d *DisplayDriver) Primary() (portal.Display, error) {
	displays, err := d.Displays()
	if err != nil {
		return nil, err
	}
	if len(displays) == 0 {
		return nil, fmt.Errorf("no video displays")
	}
	return displays[0], nil
}

func enumerate() ([]portal.Display, error) {
	n, err := sdl.GetNumVideoDisplays()
	if err != nil {
		return nil, err
	}

	displays := make([]portal.Display, 0, n)
	for i := 0; i < n; i++ {
		name, _ := sdl.GetDisplayName(i)
		bounds, err := sdl.GetDisplayBounds(i)
		if err != nil {
			return nil, err
		}
		mode, err := sdl.GetCurrentDisplayMode(i)
		if err != nil {
			return nil, err
		}
		displays = append(displays, &Display{
			index:    i,
			name:     name,
			position: std.XY[int]{X: int(bounds.X), Y: int(bounds.Y)},
			size:     std.XY[int]{X: int(bounds.W), Y: int(bounds.H)},
			current:  resolution(mode),
		})
	}
	return displays, nil
}

// bitsPerPixel decodes SDL_BITSPERPIXEL from a pixel format.
func bitsPerPixel(format uint32) int {
	return int((format >> 8) & 0xff)
}

func resolution(mode sdl.DisplayMode) portal.Resolution {
	return portal.Resolution{
		Width:        int(mode.W),
		Height:       int(mode.H),
		BitsPerPixel: bitsPerPixel(mode.Format),
		RefreshRate:  int(mode.RefreshRate),
	}
}

// closest picks the mode that best fits want: the smallest mode at least as large, then the
// highest refresh rate. ok is false when no mode is large enough.
func closest(want portal.Resolution, modes []sdl.DisplayMode) (best sdl.DisplayMode, ok bool) {
	for _, m := range modes {
		if int(m.W) < want.Width || int(m.H) < want.Height {
			continue
		}
		if want.RefreshRate > 0 && int(m.RefreshRate) != want.RefreshRate {
			continue
		}
		if !ok {
			best, ok = m, true
			continue
		}
		area, bestArea := int(m.W)*int(m.H), int(best.W)*int(best.H)
		if area < bestArea || (area == bestArea && m.RefreshRate > best.RefreshRate) {
			best = m
		}
	}
	return best, ok
}

// Display is one SDL2 video display. ChangeResolution records the display mode the next
// exclusive fullscreen window on this display switches to.
type Display struct {
	index    int
	name     string
	position std.XY[int]
	size     std.XY[int]
	current  portal.Resolution

	mutex   sync.Mutex
	pending *sdl.DisplayMode
}

func (d *Display) Backend() string { return ModuleName }
func (d *Display) Index() int      { return d.index }
func (d *Display) Name() string    { return d.name }
func (d *Display) Primary() bool   { return d.index == 0 }

func (d *Display) Bounds() (std.XY[int], std.XY[int]) {
	return d.position, d.size
}

func (d *Display) Resolution() portal.Resolution {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.pending != nil {
		return resolution(*d.pending)
	}
	return d.current
}

func (d *Display) modes() ([]sdl.DisplayMode, error) {
	var modes []sdl.DisplayMode
	var err error
	if callErr := Thread.Do(func() {
		var n int
		n, err = sdl.GetNumDisplayModes(d.index)
		if err != nil {
			return
		}
		for i := 0; i < n; i++ {
			var mode sdl.DisplayMode
			mode, err = sdl.GetDisplayMode(d.index, i)
			if err != nil {
				return
			}
			modes = append(modes, mode)
		}
	}); callErr != nil {
		return nil, callErr
	}
	return modes, err
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
	mode, ok := closest(r, modes)
	if !ok {
		return portal.Unsupported("display %d has no mode for %dx%d", d.index, r.Width, r.Height)
	}

	d.mutex.Lock()
	d.pending = &mode
	d.mutex.Unlock()
	return nil
}

func (d *Display) RestoreResolution() error {
	d.mutex.Lock()
	d.pending = nil
	d.mutex.Unlock()
	return nil
}

// takePending returns and clears the mode recorded by ChangeResolution.
func (d *Display) takePending() *sdl.DisplayMode {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	mode := d.pending
	d.pending = nil
	return mode
}
