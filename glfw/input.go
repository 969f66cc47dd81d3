package glfw

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/core/std"
	"github.com/ignite-laboratories/portal"
)

// InputDriver aggregates the key and mouse callbacks of every window of the backend into
// one keyboard and one mouse.
type InputDriver struct {
	keyboard *Keyboard
	mouse    *Mouse
	gamepad  *GamePad

	mutex    sync.Mutex
	attached map[*glfw.Window]struct{}
	once     sync.Once
}

func newInputDriver() *InputDriver {
	return &InputDriver{
		keyboard: &Keyboard{down: make(map[int]bool)},
		mouse:    &Mouse{down: make(map[portal.MouseButton]bool)},
		gamepad:  &GamePad{},
		attached: make(map[*glfw.Window]struct{}),
	}
}

func (i *InputDriver) Keyboard() portal.KeyboardDriver { return i.keyboard }
func (i *InputDriver) Mouse() portal.MouseDriver       { return i.mouse }
func (i *InputDriver) GamePad() portal.GamePadDriver   { return i.gamepad }

// attach installs the input callbacks on w. It must run on the GLFW thread.
func (i *InputDriver) attach(w *glfw.Window) {
	i.mutex.Lock()
	i.attached[w] = struct{}{}
	i.mutex.Unlock()

	w.SetKeyCallback(func(_ *glfw.Window, _ glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
		i.keyboard.handle(scancode, action)
	})
	w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		i.mouse.handleButton(button, action)
	})
	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		i.mouse.handleMove(x, y)
	})
}

func (i *InputDriver) detach(w *glfw.Window) {
	i.mutex.Lock()
	delete(i.attached, w)
	i.mutex.Unlock()
}

// Release removes the callbacks from every window still open and lets the GLFW thread stop
// once no other input driver needs it.
func (i *InputDriver) Release() error {
	var err error
	i.once.Do(func() {
		i.mutex.Lock()
		windows := make([]*glfw.Window, 0, len(i.attached))
		for w := range i.attached {
			windows = append(windows, w)
		}
		i.attached = make(map[*glfw.Window]struct{})
		i.mutex.Unlock()

		err = call(func() {
			for _, w := range windows {
				w.SetKeyCallback(nil)
				w.SetMouseButtonCallback(nil)
				w.SetCursorPosCallback(nil)
			}
		})
		core.Verbosef(ModuleName, "input released\n")
		Thread.Release()
	})
	return err
}

// Keyboard is the key state reported by window callbacks, indexed by scancode.
type Keyboard struct {
	mutex sync.RWMutex
	down  map[int]bool
}

func (k *Keyboard) handle(scancode int, action glfw.Action) {
	k.mutex.Lock()
	defer k.mutex.Unlock()
	k.down[scancode] = action != glfw.Release
}

func (k *Keyboard) KeyDown(scancode int) bool {
	k.mutex.RLock()
	defer k.mutex.RUnlock()
	return k.down[scancode]
}

// Mouse is the cursor and button state reported by window callbacks.
type Mouse struct {
	mutex    sync.RWMutex
	position std.XY[int]
	down     map[portal.MouseButton]bool
}

func mouseButton(button glfw.MouseButton) (portal.MouseButton, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return portal.MouseLeft, true
	case glfw.MouseButtonMiddle:
		return portal.MouseMiddle, true
	case glfw.MouseButtonRight:
		return portal.MouseRight, true
	}
	return 0, false
}

func (m *Mouse) handleButton(button glfw.MouseButton, action glfw.Action) {
	b, ok := mouseButton(button)
	if !ok {
		return
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.down[b] = action != glfw.Release
}

func (m *Mouse) handleMove(x, y float64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.position = std.XY[int]{X: int(x), Y: int(y)}
}

func (m *Mouse) Position() std.XY[int] {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.position
}

func (m *Mouse) ButtonDown(button portal.MouseButton) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.down[button]
}

// GamePad reads joysticks that GLFW recognises as gamepads.
type GamePad struct{}

func (g *GamePad) pads() []glfw.Joystick {
	var pads []glfw.Joystick
	_ = call(func() {
		for j := glfw.Joystick1; j <= glfw.JoystickLast; j++ {
			if j.Present() && j.IsGamepad() {
				pads = append(pads, j)
			}
		}
	})
	return pads
}

func (g *GamePad) pad(index int) (glfw.Joystick, bool) {
	pads := g.pads()
	if index < 0 || index >= len(pads) {
		return 0, false
	}
	return pads[index], true
}

func (g *GamePad) Count() int {
	return len(g.pads())
}

func (g *GamePad) Name(index int) string {
	j, ok := g.pad(index)
	if !ok {
		return ""
	}
	var name string
	_ = call(func() { name = j.GetGamepadName() })
	return name
}

func (g *GamePad) state(index int) *glfw.GamepadState {
	j, ok := g.pad(index)
	if !ok {
		return nil
	}
	var state *glfw.GamepadState
	_ = call(func() { state = j.GetGamepadState() })
	return state
}

func (g *GamePad) ButtonDown(index int, button int) bool {
	state := g.state(index)
	if state == nil || button < 0 || button >= len(state.Buttons) {
		return false
	}
	return state.Buttons[button] == glfw.Press
}

func (g *GamePad) Axis(index int, axis int) float32 {
	state := g.state(index)
	if state == nil || axis < 0 || axis >= len(state.Axes) {
		return 0
	}
	return state.Axes[axis]
}
