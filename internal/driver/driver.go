// Package driver runs a native windowing library on one locked OS thread.
//
// The thread is reference counted: every live native object (window, context, input
// driver) holds one reference, and the library is shut down only after the last one is
// released. A stopped thread can be started again.
package driver

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/ignite-laboratories/core"
	"github.com/ignite-laboratories/core/std"
)

// ErrStopped is returned by Call when the thread is not running.
var ErrStopped = errors.New("native thread is not running")

// Thread owns the OS thread of a native library.
type Thread struct {
	module string
	init   func() error
	poll   func()
	quit   func()

	// mutex serializes Acquire and Release.
	mutex sync.Mutex
	users int
	stop  chan struct{}
	done  chan struct{}

	// gate is held for reading by every call in flight; the thread exits only while
	// holding it for writing, so no call can be left waiting on a dead thread.
	gate    sync.RWMutex
	running bool
	synchro std.Synchro
}

// New describes a thread that runs init once per start, poll every cycle, and quit before
// it exits.
func New(module string, init func() error, poll func(), quit func()) *Thread {
	return &Thread{module: module, init: init, poll: poll, quit: quit}
}

// Acquire takes a reference on the thread, starting it when it is not running. A thread
// still shutting down from its previous run is waited for first.
func (t *Thread) Acquire() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.users > 0 {
		t.users++
		return nil
	}
	if t.done != nil {
		<-t.done
		t.done = nil
	}

	synchro := make(std.Synchro)
	stop := make(chan struct{})
	done := make(chan struct{})
	started := make(chan error, 1)
	go t.run(synchro, stop, done, started)
	if err := <-started; err != nil {
		<-done
		return err
	}

	t.users = 1
	t.stop = stop
	t.done = done
	return nil
}

// Release drops a reference. The thread stops once the last reference is released.
func (t *Thread) Release() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.users == 0 {
		return
	}
	t.users--
	if t.users == 0 {
		close(t.stop)
	}
}

// Users returns the number of references held.
func (t *Thread) Users() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.users
}

// Running reports whether the thread accepts calls.
func (t *Thread) Running() bool {
	t.gate.RLock()
	defer t.gate.RUnlock()
	return t.running
}

// Synchro returns the channel of the current run.
func (t *Thread) Synchro() std.Synchro {
	t.gate.RLock()
	defer t.gate.RUnlock()
	return t.synchro
}

// Call runs fn on the thread and waits for it.
func (t *Thread) Call(fn func()) error {
	t.gate.RLock()
	defer t.gate.RUnlock()
	if !t.running {
		return ErrStopped
	}
	t.synchro.Send(fn)
	return nil
}

// Do runs fn on the thread, holding a reference only for the duration of the call.
func (t *Thread) Do(fn func()) error {
	if err := t.Acquire(); err != nil {
		return err
	}
	defer t.Release()
	return t.Call(fn)
}

func (t *Thread) run(synchro std.Synchro, stop <-chan struct{}, done chan<- struct{}, started chan<- error) {
	defer close(done)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	core.Verbosef(t.module, "sparking %s integration\n", t.module)
	if err := t.init(); err != nil {
		started <- err
		return
	}

	t.gate.Lock()
	t.synchro = synchro
	t.running = true
	t.gate.Unlock()
	started <- nil

	for core.Alive {
		synchro.Engage() // Listen for external execution
		t.poll()

		select {
		case <-stop:
			if t.gate.TryLock() {
				t.running = false
				t.gate.Unlock()
				t.shutdown()
				return
			}
		default:
		}

		time.Sleep(time.Millisecond)
	}

	// Serve the calls already in flight before closing the gate.
	for !t.gate.TryLock() {
		synchro.Engage()
		time.Sleep(time.Millisecond)
	}
	t.running = false
	t.gate.Unlock()
	t.shutdown()
}

func (t *Thread) shutdown() {
	t.quit()
	core.Verbosef(t.module, "%s integration stopped\n", t.module)
}
