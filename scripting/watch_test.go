package scripting_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/plus3/dunepool/pool"
)

func TestWatchReloadsOnTick(t *testing.T) {
	e, w := newEngine(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "ai.lua")
	require.NoError(t, os.WriteFile(path, []byte("generation = 1\n"), 0o644))
	require.NoError(t, e.DoFile(path))

	watcher, err := e.Watch(dir)
	require.NoError(t, err)
	defer func() { assert.NoError(t, watcher.Close()) }()

	s := pool.NewScheduler(w)
	s.Register(e)

	require.NoError(t, os.WriteFile(path, []byte("generation = 2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("generation = 3\n"), 0o644))

	require.Eventually(t, func() bool {
		s.Once()
		return lua.LVAsNumber(e.Global("generation")) == 2
	}, 5*time.Second, 10*time.Millisecond)

	for range 5 {
		s.Once()
	}
	assert.Equal(t, 2, globalInt(t, e, "generation"), "non-lua files are ignored")
}

func TestWatchMissingDir(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.Watch(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWatcherCloseTwice(t *testing.T) {
	e, _ := newEngine(t)
	watcher, err := e.Watch(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, watcher.Close())
	assert.NoError(t, watcher.Close())
}
