package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config location at a fresh temporary directory and
// returns the working directory to load from.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("VLIST_GLOBAL_CONFIG", filepath.Join(dir, "config", "vlist.json"))
	t.Setenv("VLIST_GLOBAL_DATA", filepath.Join(dir, "data", "vlist.json"))
	cwd := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(cwd, 0o755))
	return cwd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	cwd := isolate(t)

	cfg, err := Load(cwd, false)
	require.NoError(t, err)
	assert.Equal(t, cwd, cfg.WorkingDir())
	assert.Equal(t, DefaultItems, cfg.List.Items)
	assert.Equal(t, DefaultItemHeight, cfg.List.ItemHeight)
	assert.Equal(t, DefaultOverscan, cfg.Overscan())
	assert.Empty(t, cfg.List.Heights)
	assert.False(t, cfg.Options.Debug)
	assert.Equal(t, filepath.Join(cwd, ".vlist"), cfg.Options.DataDirectory)
	assert.Equal(t, filepath.Join(cwd, ".vlist", "logs", "vlist.log"), cfg.LogFile())
}

func TestLoadMerge(t *testing.T) {
	cwd := isolate(t)
	writeFile(t, GlobalConfig(), `{"list": {"items": 10, "overscan": 2}, "options": {"debug": true}}`)
	writeFile(t, LocalConfig(cwd), `{"list": {"overscan": 0, "heights": [1, 3]}, "options": {"data_directory": "state"}}`)

	cfg, err := Load(cwd, false)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.List.Items)
	assert.Equal(t, 0, cfg.Overscan())
	assert.Equal(t, []int{1, 3}, cfg.List.Heights)
	assert.True(t, cfg.Options.Debug)
	assert.Equal(t, filepath.Join(cwd, "state"), cfg.Options.DataDirectory)

	assert.Equal(t, int64(10), cfg.Get("list.items").Int())
	assert.Equal(t, int64(3), cfg.Get("list.heights.1").Int())
	assert.False(t, cfg.Get("list.missing").Exists())
}

func TestLoadDebugFlag(t *testing.T) {
	cwd := isolate(t)

	cfg, err := Load(cwd, true)
	require.NoError(t, err)
	assert.True(t, cfg.Options.Debug)
}

func TestLoadInvalid(t *testing.T) {
	t.Run("should reject non positive heights", func(t *testing.T) {
		cwd := isolate(t)
		writeFile(t, LocalConfig(cwd), `{"list": {"heights": [2, 0]}}`)

		_, err := Load(cwd, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list.heights[1]")
	})

	t.Run("should reject negative overscan", func(t *testing.T) {
		cwd := isolate(t)
		writeFile(t, LocalConfig(cwd), `{"list": {"overscan": -1}}`)

		_, err := Load(cwd, false)
		require.Error(t, err)
	})

	t.Run("should reject malformed json", func(t *testing.T) {
		_, err := LoadReader(strings.NewReader(`{"list": `))
		require.Error(t, err)
	})
}

func TestSetConfigField(t *testing.T) {
	cwd := isolate(t)

	cfg, err := Load(cwd, false)
	require.NoError(t, err)
	require.NoError(t, cfg.SetConfigField("list.overscan", 9))
	require.NoError(t, cfg.SetConfigField("list.heights", []int{1, 2, 3}))

	data, err := os.ReadFile(cfg.DataConfigPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"overscan":9`)

	reloaded, err := Load(cwd, false)
	require.NoError(t, err)
	assert.Equal(t, 9, reloaded.Overscan())
	assert.Equal(t, []int{1, 2, 3}, reloaded.List.Heights)
}

func TestWatch(t *testing.T) {
	cwd := isolate(t)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cwd, func(cfg *Config) {
			changes <- cfg
		})
	}()

	// the watcher might not be registered yet, so keep writing until it
	// reports a change
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	var got *Config
	for got == nil {
		select {
		case <-ticker.C:
			writeFile(t, LocalConfig(cwd), `{"list": {"overscan": 4}}`)
		case got = <-changes:
		case <-deadline:
			t.Fatal("no configuration change observed")
		}
	}
	assert.Equal(t, 4, got.Overscan())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
