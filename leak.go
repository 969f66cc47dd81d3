package portal

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ignite-laboratories/core"
)

// lifecycle is the part of a factory that must survive it: the cleanup hook releases it
// when a factory is collected without Close, so it must never point back at the factory.
type lifecycle struct {
	id       uint64
	backend  string
	input    InputDriver
	released bool
}

var (
	liveMutex sync.Mutex
	live      = make(map[uint64]*lifecycle)
	leaks     atomic.Int64
)

func track(backend string, input InputDriver) *lifecycle {
	l := &lifecycle{id: core.NextID(), backend: backend, input: input}
	liveMutex.Lock()
	live[l.id] = l
	liveMutex.Unlock()
	return l
}

func (l *lifecycle) release() error {
	if l.released {
		return nil
	}
	l.released = true
	liveMutex.Lock()
	delete(live, l.id)
	liveMutex.Unlock()
	return l.input.Release()
}

func (l *lifecycle) leaked() {
	if l.released {
		return
	}
	leaks.Add(1)
	core.Verbosef(ModuleName, "%s factory [%d] leaked, did you forget to call Close?\n", l.backend, l.id)
	if err := l.release(); err != nil {
		core.Verbosef(ModuleName, "%s factory [%d] failed to release input: %v\n", l.backend, l.id, err)
	}
}

// Outstanding returns the number of factories that are neither closed nor collected.
func Outstanding() int {
	liveMutex.Lock()
	defer liveMutex.Unlock()
	return len(live)
}

// Leaked returns the number of factories collected without a call to Close.
func Leaked() int {
	return int(leaks.Load())
}

// ReportLeaks logs every factory still open and returns how many there are. Call it at
// process shutdown, after every factory should have been closed.
func ReportLeaks() int {
	liveMutex.Lock()
	open := make([]*lifecycle, 0, len(live))
	for _, l := range live {
		open = append(open, l)
	}
	liveMutex.Unlock()

	sort.Slice(open, func(i, j int) bool { return open[i].id < open[j].id })
	for _, l := range open {
		core.Verbosef(ModuleName, "%s factory [%d] was never closed\n", l.backend, l.id)
	}
	return len(open)
}
