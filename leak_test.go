package portal_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/ignite-laboratories/portal"
	"github.com/ignite-laboratories/portal/portaltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutstandingTracksOpenFactories(t *testing.T) {
	before := portal.Outstanding()

	f, err := portal.New(portaltest.NewBackend(""), portal.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, before+1, portal.Outstanding())
	assert.GreaterOrEqual(t, portal.ReportLeaks(), 1)

	require.NoError(t, f.Close())
	assert.Equal(t, before, portal.Outstanding())
}

func TestLeakedFactoryReleasesInput(t *testing.T) {
	b := portaltest.NewBackend("")
	leakedBefore := portal.Leaked()

	func() {
		_, err := portal.New(b, portal.DefaultConfig())
		require.NoError(t, err)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return b.Input().Releases() == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, leakedBefore+1, portal.Leaked())
}

func TestClosedFactoryIsNotLeaked(t *testing.T) {
	b := portaltest.NewBackend("")
	leakedBefore := portal.Leaked()

	func() {
		f, err := portal.New(b, portal.DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}()

	for range 3 {
		runtime.GC()
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, b.Input().Releases())
	assert.Equal(t, leakedBefore, portal.Leaked())
}
