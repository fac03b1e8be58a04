package runtimeinit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ztools-native/src/config"
)

func TestBootstrap(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, nil, 0o644))
	yml := filepath.Join(dir, "ztools.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("overlay_border: 5\n"), 0o644))
	t.Setenv("ZTOOLS_OVERLAY_BORDER", "")
	t.Setenv("ZTOOLS_ENABLE_FILE_LOGGING", "false")

	b, err := Bootstrap(Options{
		LoadOptions:   config.LoadOptions{EnvPath: env, ConfigFile: yml},
		LogLevel:      "debug",
		SkipClipboard: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, b.Config().OverlayBorder)
	t.Cleanup(b.Shutdown)
}

func TestBootstrapBadConfigFile(t *testing.T) {
	_, err := Bootstrap(Options{
		LoadOptions:   config.LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")},
		SkipClipboard: true,
	})
	assert.Error(t, err)
}

func TestBootstrapBadLogLevel(t *testing.T) {
	env := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(env, nil, 0o644))
	_, err := Bootstrap(Options{
		LoadOptions:   config.LoadOptions{EnvPath: env},
		LogLevel:      "chatty",
		SkipClipboard: true,
	})
	assert.Error(t, err)
}
