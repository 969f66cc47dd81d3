package portaltest

import (
	"sync"

	"github.com/ignite-laboratories/core/std"
	"github.com/ignite-laboratories/portal"
)

// InputDriver is a recording portal.InputDriver whose state tests drive directly.
type InputDriver struct {
	keyboard *Keyboard
	mouse    *Mouse
	gamepad  *GamePad

	mutex    sync.Mutex
	releases int

	// ReleaseErr is returned by Release when set.
	ReleaseErr error
}

// NewInputDriver returns an input driver with no keys, buttons or gamepads held.
func NewInputDriver() *InputDriver {
	return &InputDriver{
		keyboard: &Keyboard{down: make(map[int]bool)},
		mouse:    &Mouse{down: make(map[portal.MouseButton]bool)},
		gamepad:  &GamePad{},
	}
}

func (i *InputDriver) Keyboard() portal.KeyboardDriver { return i.keyboard }
func (i *InputDriver) Mouse() portal.MouseDriver       { return i.mouse }
func (i *InputDriver) GamePad() portal.GamePadDriver   { return i.gamepad }

func (i *InputDriver) Release() error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.releases++
	return i.ReleaseErr
}

// Releases returns how many times Release was called.
func (i *InputDriver) Releases() int {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.releases
}

// Keyboard is a settable keyboard.
type Keyboard struct {
	down map[int]bool
}

func (k *Keyboard) KeyDown(scancode int) bool { return k.down[scancode] }

// Set presses or releases a key.
func (k *Keyboard) Set(scancode int, down bool) { k.down[scancode] = down }

// Mouse is a settable mouse.
type Mouse struct {
	position std.XY[int]
	down     map[portal.MouseButton]bool
}

func (m *Mouse) Position() std.XY[int]                     { return m.position }
func (m *Mouse) ButtonDown(button portal.MouseButton) bool { return m.down[button] }

// Move sets the cursor position.
func (m *Mouse) Move(x, y int) { m.position = std.XY[int]{X: x, Y: y} }

// Set presses or releases a button.
func (m *Mouse) Set(button portal.MouseButton, down bool) { m.down[button] = down }

// GamePad is a settable set of gamepads.
type GamePad struct {
	Pads []Pad
}

// Pad is one connected gamepad.
type Pad struct {
	Name    string
	Buttons map[int]bool
	Axes    map[int]float32
}

func (g *GamePad) Count() int { return len(g.Pads) }

func (g *GamePad) Name(index int) string {
	if index < 0 || index >= len(g.Pads) {
		return ""
	}
	return g.Pads[index].Name
}

func (g *GamePad) ButtonDown(index int, button int) bool {
	if index < 0 || index >= len(g.Pads) {
		return false
	}
	return g.Pads[index].Buttons[button]
}

func (g *GamePad) Axis(index int, axis int) float32 {
	if index < 0 || index >= len(g.Pads) {
		return 0
	}
	return g.Pads[index].Axes[axis]
}
