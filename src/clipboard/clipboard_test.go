package clipboard

import (
	"context"
	"image"
	"image/color"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireInteractive(t *testing.T) {
	t.Helper()
	if os.Getenv("ZTOOLS_INTERACTIVE_TESTS") != "1" {
		t.Skip("set ZTOOLS_INTERACTIVE_TESTS=1 to run clipboard tests")
	}
	if err := Init(); err != nil {
		t.Skipf("clipboard unavailable: %v", err)
	}
}

func TestWriteImageRejectsNil(t *testing.T) {
	assert.Error(t, WriteImage(nil))
}

func TestWrite(t *testing.T) {
	requireInteractive(t)
	assert.NoError(t, Write("ztools clipboard test"))
}

func TestWatchSeesImageWrite(t *testing.T) {
	requireInteractive(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := Watch(ctx)
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	require.NoError(t, WriteImage(img))

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification after image write")
	}
	cancel()
	for range changes {
	}
}
