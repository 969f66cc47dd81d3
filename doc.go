// Package portal provides a backend-agnostic factory for the native objects a windowing
// toolkit needs: windows, display drivers, GL contexts, pixel-format negotiators and input
// drivers.
//
// A Factory wraps exactly one Backend, so every object it hands out belongs to the same
// native platform. Backends live in their own submodules (sdl2, glfw) and register
// themselves when imported.
package portal

import (
	"github.com/ignite-laboratories/core"
)

var ModuleName = "portal"

func init() {
	core.ModuleReport(ModuleName)
}

func Report() {}
