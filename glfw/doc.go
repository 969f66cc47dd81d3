// Package glfw provides a portal backend over GLFW 3.3.
//
// GLFW creates a context together with each window, so contexts from this backend adopt
// their window's context rather than creating a new one.
package glfw

import (
	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/portal"
)

var ModuleName = "glfw"

func init() {
	portal.Report()
	core.SubmoduleReport(portal.ModuleName, ModuleName)
	portal.Register(ModuleName, Open)
}

func Report() {}
