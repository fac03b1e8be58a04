package clipwatch

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ztools-native/src/clipboard"
	"ztools-native/src/events"
)

func TestStartRequiresListener(t *testing.T) {
	assert.ErrorIs(t, Start(nil), events.ErrInvalidArgument)
	assert.False(t, Running())
}

func TestStopWhenIdle(t *testing.T) {
	assert.NoError(t, Stop())
	assert.NoError(t, Stop())
}

func TestSetPollInterval(t *testing.T) {
	defer SetPollInterval(0)

	SetPollInterval(50 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, currentPollInterval())

	SetPollInterval(-1)
	assert.Equal(t, DefaultPollInterval, currentPollInterval())
}

func TestWatchObservesWrite(t *testing.T) {
	if os.Getenv("ZTOOLS_INTERACTIVE_TESTS") != "1" {
		t.Skip("set ZTOOLS_INTERACTIVE_TESTS=1 to run clipboard monitor tests")
	}
	SetPollInterval(50 * time.Millisecond)
	defer SetPollInterval(0)

	changed := make(chan struct{}, 8)
	require.NoError(t, Start(func() { changed <- struct{}{} }))
	defer Stop()
	assert.True(t, Running())

	require.NoError(t, clipboard.Write("clipwatch "+time.Now().String()))
	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no clipboard change observed")
	}

	require.NoError(t, Stop())
	assert.False(t, Running())
}
