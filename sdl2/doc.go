// Package sdl2 provides a portal backend over SDL2.
//
// Importing the package registers the backend under the name "sdl2". Native window and
// input calls are marshalled onto a single locked OS thread; GL contexts are created and
// made current on the calling goroutine, which must hold runtime.LockOSThread.
package sdl2

import (
	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/portal"
)

var ModuleName = "sdl2"

func init() {
	portal.Report()
	core.SubmoduleReport(portal.ModuleName, ModuleName)
	portal.Register(ModuleName, Open)
}

func Report() {}
