package sdl2

import (
	"sync"
	"sync/atomic"

	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/core/std"
	"github.com/ignite-laboratories/portal"
	"github.com/veandco/go-sdl2/sdl"
)

// gamepadGeneration is bumped by the event pump when a controller is attached or removed.
var gamepadGeneration atomic.Uint64

// InputDriver owns the SDL2 keyboard, mouse and game controllers.
type InputDriver struct {
	keyboard *Keyboard
	mouse    *Mouse
	gamepad  *GamePad
	once     sync.Once
}

func newInputDriver() *InputDriver {
	return &InputDriver{
		keyboard: &Keyboard{},
		mouse:    &Mouse{},
		gamepad:  &GamePad{},
	}
}

func (i *InputDriver) Keyboard() portal.KeyboardDriver { return i.keyboard }
func (i *InputDriver) Mouse() portal.MouseDriver       { return i.mouse }
func (i *InputDriver) GamePad() portal.GamePadDriver   { return i.gamepad }

// Release closes every open game controller and lets the SDL2 thread stop once no other
// input driver needs it.
func (i *InputDriver) Release() error {
	var err error
	i.once.Do(func() {
		err = call(i.gamepad.closeAll)
		core.Verbosef(ModuleName, "input released\n")
		Thread.Release()
	})
	return err
}

// Keyboard reads SDL's keyboard state array, indexed by scancode.
type Keyboard struct{}

func (k *Keyboard) KeyDown(scancode int) bool {
	state := sdl.GetKeyboardState()
	return scancode >= 0 && scancode < len(state) && state[scancode] != 0
}

// Mouse reads SDL's global mouse state.
type Mouse struct{}

func (m *Mouse) Position() std.XY[int] {
	x, y, _ := sdl.GetMouseState()
	return std.XY[int]{X: int(x), Y: int(y)}
}

// buttonMask is SDL_BUTTON(X).
func buttonMask(button portal.MouseButton) uint32 {
	switch button {
	case portal.MouseLeft:
		return 1 << 0
	case portal.MouseMiddle:
		return 1 << 1
	case portal.MouseRight:
		return 1 << 2
	}
	return 0
}

func (m *Mouse) ButtonDown(button portal.MouseButton) bool {
	_, _, state := sdl.GetMouseState()
	return state&buttonMask(button) != 0
}

// GamePad tracks attached SDL game controllers. The list is refreshed lazily after the
// event pump reports a device change.
type GamePad struct {
	mutex       sync.Mutex
	controllers []*sdl.GameController
	loaded      bool
	generation  uint64
}

func (g *GamePad) refresh() {
	generation := gamepadGeneration.Load()
	g.mutex.Lock()
	current := g.loaded && g.generation == generation
	g.mutex.Unlock()
	if current {
		return
	}

	_ = call(func() {
		g.mutex.Lock()
		defer g.mutex.Unlock()

		g.loaded = true
		g.generation = generation

		// Device indices shift when a controller is removed, so reopen from scratch.
		for _, c := range g.controllers {
			c.Close()
		}
		g.controllers = g.controllers[:0]

		for i := 0; i < sdl.NumJoysticks(); i++ {
			if !sdl.IsGameController(i) {
				continue
			}
			if c := sdl.GameControllerOpen(i); c != nil {
				g.controllers = append(g.controllers, c)
				core.Verbosef(ModuleName, "gamepad [%d] %s attached\n", i, c.Name())
			}
		}
	})
}

func (g *GamePad) controller(index int) *sdl.GameController {
	g.refresh()
	g.mutex.Lock()
	defer g.mutex.Unlock()
	if index < 0 || index >= len(g.controllers) {
		return nil
	}
	return g.controllers[index]
}

func (g *GamePad) Count() int {
	g.refresh()
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return len(g.controllers)
}

func (g *GamePad) Name(index int) string {
	if c := g.controller(index); c != nil {
		return c.Name()
	}
	return ""
}

func (g *GamePad) ButtonDown(index int, button int) bool {
	c := g.controller(index)
	if c == nil {
		return false
	}
	var down bool
	_ = call(func() { down = c.Button(sdl.GameControllerButton(button)) != 0 })
	return down
}

func (g *GamePad) Axis(index int, axis int) float32 {
	c := g.controller(index)
	if c == nil {
		return 0
	}
	var value int16
	_ = call(func() { value = c.Axis(sdl.GameControllerAxis(axis)) })
	return normalizeAxis(value)
}

// normalizeAxis maps an SDL axis value to [-1, 1].
func normalizeAxis(v int16) float32 {
	if v < 0 {
		return float32(v) / 32768
	}
	return float32(v) / 32767
}

func (g *GamePad) closeAll() {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	for _, c := range g.controllers {
		c.Close()
	}
	g.controllers = nil
}
