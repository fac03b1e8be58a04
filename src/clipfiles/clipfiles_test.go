package clipfiles

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ztools-native/src/events"
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		succeedAt int
		attempts  int
		want      bool
		wantCalls int
	}{
		{"first try", 1, 5, true, 1},
		{"third try", 3, 5, true, 3},
		{"last try", 5, 5, true, 5},
		{"exhausted", 0, 5, false, 5},
		{"zero attempts", 1, 0, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got := Retry(tt.attempts, time.Millisecond, func() bool {
				calls++
				return calls == tt.succeedAt
			})
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestRetrySleepsBetweenAttemptsOnly(t *testing.T) {
	start := time.Now()
	Retry(3, 20*time.Millisecond, func() bool { return false })
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestDropFilesRoundTripKeepsOrder(t *testing.T) {
	paths := []string{
		`C:\Users\me\z-last.txt`,
		`C:\Users\me\a-first.txt`,
		`D:\数据\报告.docx`,
		`\\server\share\dir`,
		`C:\emoji\😀.png`,
	}
	buf := EncodeDropFiles(paths)

	assert.Equal(t, uint32(20), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[16:]))
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[len(buf)-4:], "list ends with a double NUL")

	assert.Equal(t, paths, DecodeDropFiles(buf))
}

func TestDecodeDropFilesNarrow(t *testing.T) {
	buf := make([]byte, 20)
	binary.LittleEndian.PutUint32(buf, 20)
	buf = append(buf, []byte("C:\\a.txt\x00C:\\b\x00\x00")...)
	assert.Equal(t, []string{`C:\a.txt`, `C:\b`}, DecodeDropFiles(buf))
}

func TestDecodeDropFilesMalformed(t *testing.T) {
	assert.Nil(t, DecodeDropFiles(nil))
	assert.Nil(t, DecodeDropFiles(make([]byte, 10)))

	bad := make([]byte, 24)
	binary.LittleEndian.PutUint32(bad, 400)
	assert.Nil(t, DecodeDropFiles(bad))

	empty := EncodeDropFiles(nil)
	assert.Empty(t, DecodeDropFiles(empty))
}

func TestNormalizeInput(t *testing.T) {
	got, err := NormalizeInput([]any{
		"/tmp/a",
		map[string]any{"path": "/tmp/b"},
		File{Path: "/tmp/c"},
		&File{Path: "/tmp/d"},
		struct{ Path string }{Path: "/tmp/e"},
		map[string]string{"path": "/tmp/f"},
		map[string]any{"name": "no path"},
		42,
		"   ",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/a", "/tmp/b", "/tmp/c", "/tmp/d", "/tmp/e", "/tmp/f"}, got)
}

func TestNormalizeInputErrors(t *testing.T) {
	_, err := NormalizeInput(nil)
	assert.ErrorIs(t, err, events.ErrInvalidArgument)

	_, err = NormalizeInput([]any{"", map[string]any{"path": 3}, (*File)(nil)})
	assert.ErrorIs(t, err, events.ErrInvalidArgument)
}

func TestSetRejectsEmpty(t *testing.T) {
	ok, err := Set([]string{" ", ""})
	assert.False(t, ok)
	assert.ErrorIs(t, err, events.ErrInvalidArgument)
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.Equal(t, File{Path: file, Name: "note.txt"}, describe(file))
	assert.Equal(t, File{Path: dir, Name: filepath.Base(dir), IsDirectory: true}, describe(dir))
	assert.Equal(t, "report.docx", baseName(`C:\docs\report.docx`))
}

func TestConfigure(t *testing.T) {
	defer Configure(Config{})
	Configure(Config{Attempts: 2, Delay: time.Second})
	assert.Equal(t, Config{Attempts: 2, Delay: time.Second}, current())
	Configure(Config{})
	assert.Equal(t, Config{Attempts: DefaultAttempts, Delay: DefaultDelay}, current())
}

func TestUnsupportedPlatform(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("clipboard file lists are implemented on windows")
	}
	assert.Equal(t, []File{}, Get())
	ok, err := Set([]string{"/tmp/x"})
	assert.False(t, ok)
	assert.ErrorIs(t, err, events.ErrUnsupported)
}

func TestWindowsRoundTrip(t *testing.T) {
	if runtime.GOOS != "windows" || os.Getenv("ZTOOLS_INTERACTIVE_TESTS") != "1" {
		t.Skip("needs the windows clipboard and ZTOOLS_INTERACTIVE_TESTS=1")
	}
	dir := t.TempDir()
	a := filepath.Join(dir, "b.txt")
	b := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, nil, 0o644))
	require.NoError(t, os.WriteFile(b, nil, 0o644))

	ok, err := Set([]string{a, b, dir})
	require.NoError(t, err)
	require.True(t, ok)

	got := Get()
	require.Len(t, got, 3)
	assert.Equal(t, a, got[0].Path)
	assert.Equal(t, b, got[1].Path)
	assert.True(t, got[2].IsDirectory)
}
