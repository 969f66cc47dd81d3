package portal

import (
	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/core/std"
)

// Head is the state every backend window shares. Backends embed it and add the calls
// that reach the native handle through Synchro.
type Head[THandle any] struct {
	Handle  THandle
	Synchro std.Synchro

	id         uint64
	backend    string
	title      string
	position   std.XY[int]
	size       std.XY[int]
	mode       Mode
	fullscreen FullscreenMode
}

// NewHead records the resolved spec of a freshly created native window.
func NewHead[THandle any](backend string, handle THandle, synchro std.Synchro, spec WindowSpec) *Head[THandle] {
	h := &Head[THandle]{
		Handle:     handle,
		Synchro:    synchro,
		id:         core.NextID(),
		backend:    backend,
		title:      spec.Title,
		size:       spec.Size,
		mode:       spec.Mode,
		fullscreen: spec.Fullscreen,
	}
	if spec.Position != nil {
		h.position = *spec.Position
	}
	return h
}

func (h *Head[THandle]) ID() uint64                 { return h.id }
func (h *Head[THandle]) Backend() string            { return h.backend }
func (h *Head[THandle]) Title() string              { return h.title }
func (h *Head[THandle]) Position() std.XY[int]      { return h.position }
func (h *Head[THandle]) Size() std.XY[int]          { return h.size }
func (h *Head[THandle]) Mode() Mode                 { return h.mode }
func (h *Head[THandle]) Fullscreen() FullscreenMode { return h.fullscreen }

// SetCachedTitle updates the title reported by Title after the native call succeeded.
func (h *Head[THandle]) SetCachedTitle(title string) { h.title = title }

// SetGeometry updates the cached position and size, e.g. after the backend placed the window.
func (h *Head[THandle]) SetGeometry(pos, size std.XY[int]) {
	h.position = pos
	h.size = size
}
