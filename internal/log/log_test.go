package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Setup is global, so everything that depends on it lives in one test.
func TestSetup(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "vlist.log")

	Setup(logFile, true)
	require.True(t, Initialized())

	slog.Debug("Window computed", "start", 3, "end", 9)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Window computed"`)
	assert.Contains(t, string(data), `"start":3`)

	// later calls are ignored
	Setup(filepath.Join(dir, "other.log"), false)
	_, err = os.Stat(filepath.Join(dir, "other.log"))
	assert.True(t, os.IsNotExist(err))

	t.Run("should write a panic report", func(t *testing.T) {
		cleaned := false
		func() {
			defer RecoverPanic("test", func() { cleaned = true })
			panic("boom")
		}()
		assert.True(t, cleaned)

		matches, err := filepath.Glob(filepath.Join(dir, "logs", "vlist-panic-test-*.log"))
		require.NoError(t, err)
		require.Len(t, matches, 1)
		report, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(report), "Panic in test: boom"))
		assert.Contains(t, string(report), "Stack Trace:")
	})

	t.Run("should do nothing without a panic", func(t *testing.T) {
		called := false
		func() {
			defer RecoverPanic("noop", func() { called = true })
		}()
		assert.False(t, called)
	})
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	Console(&buf, false)
	slog.Debug("hidden")
	slog.Info("Swallowed synthetic scroll event", "index", 12)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Swallowed synthetic scroll event")
	assert.Contains(t, out, "index=12")
}
