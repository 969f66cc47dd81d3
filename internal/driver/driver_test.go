package driver

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type library struct {
	inits   atomic.Int32
	polls   atomic.Int32
	quits   atomic.Int32
	initErr error
}

func (l *library) thread() *Thread {
	return New("driver-test", func() error {
		l.inits.Add(1)
		return l.initErr
	}, func() {
		l.polls.Add(1)
	}, func() {
		l.quits.Add(1)
	})
}

func TestReleaseKeepsThreadWhileReferenced(t *testing.T) {
	lib := &library{}
	th := lib.thread()

	require.NoError(t, th.Acquire()) // input driver
	require.NoError(t, th.Acquire()) // window
	assert.Equal(t, 2, th.Users())

	th.Release() // factory closed, window still alive
	assert.Equal(t, 1, th.Users())
	assert.True(t, th.Running())

	ran := false
	require.NoError(t, th.Call(func() { ran = true }))
	assert.True(t, ran)
	assert.Zero(t, lib.quits.Load())

	th.Release() // window destroyed
	require.Eventually(t, func() bool {
		return lib.quits.Load() == 1
	}, 5*time.Second, time.Millisecond)
	assert.False(t, th.Running())
	assert.ErrorIs(t, th.Call(func() {}), ErrStopped)
}

func TestRestartAfterRelease(t *testing.T) {
	lib := &library{}
	th := lib.thread()

	require.NoError(t, th.Acquire())
	th.Release()
	require.NoError(t, th.Acquire())
	defer th.Release()

	// The previous run has fully quit before the new one initialized.
	assert.Equal(t, int32(2), lib.inits.Load())
	assert.Equal(t, int32(1), lib.quits.Load())

	ran := false
	require.NoError(t, th.Call(func() { ran = true }))
	assert.True(t, ran)
}

func TestInitFailure(t *testing.T) {
	cause := errors.New("no video device")
	lib := &library{initErr: cause}
	th := lib.thread()

	assert.ErrorIs(t, th.Acquire(), cause)
	assert.Zero(t, th.Users())
	assert.False(t, th.Running())
	assert.Zero(t, lib.quits.Load())

	lib.initErr = nil
	require.NoError(t, th.Acquire())
	th.Release()
}

func TestReleaseWithoutUsers(t *testing.T) {
	th := (&library{}).thread()
	th.Release()
	assert.Zero(t, th.Users())
}

func TestDoHoldsReferenceForCall(t *testing.T) {
	lib := &library{}
	th := lib.thread()

	var users int
	require.NoError(t, th.Do(func() { users = th.Users() }))
	assert.Equal(t, 1, users)
	assert.Zero(t, th.Users())
	require.Eventually(t, func() bool {
		return lib.quits.Load() == 1
	}, 5*time.Second, time.Millisecond)
}

func TestCallsRacingShutdownReturn(t *testing.T) {
	th := (&library{}).thread()
	require.NoError(t, th.Acquire())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := th.Call(func() {}); err != nil {
					assert.ErrorIs(t, err, ErrStopped)
					return
				}
			}
		}()
	}
	th.Release()

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("calls blocked on a stopped thread")
	}
}
