package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldRefreshDebounces(t *testing.T) {
	w := NewGitWatchService("/repo/.git", nil)
	now := time.Now()

	assert.True(t, w.ShouldRefresh(now))
	assert.False(t, w.ShouldRefresh(now.Add(GitWatchDebounce/2)))
	assert.True(t, w.ShouldRefresh(now.Add(GitWatchDebounce)))
}

func TestRelevant(t *testing.T) {
	gitDir := filepath.Join(string(os.PathSeparator), "repo", ".git")
	w := NewGitWatchService(gitDir, nil)
	w.Roots = []string{filepath.Join(gitDir, "refs")}

	assert.True(t, w.Relevant(filepath.Join(gitDir, "index")))
	assert.True(t, w.Relevant(filepath.Join(gitDir, "HEAD")))
	assert.True(t, w.Relevant(filepath.Join(gitDir, "refs", "heads", "main")))
	assert.False(t, w.Relevant(filepath.Join(gitDir, "index.lock")))
	assert.False(t, w.Relevant(filepath.Join(gitDir, "refs", "heads", "main.lock")))
	assert.False(t, w.Relevant(filepath.Join(gitDir, "COMMIT_EDITMSG")))
	assert.False(t, w.Relevant(filepath.Join(gitDir, "objects", "ab")))
}

func TestStartWithoutGitDir(t *testing.T) {
	w := NewGitWatchService("", nil)
	started, err := w.Start()
	require.NoError(t, err)
	assert.False(t, started)
	assert.Nil(t, w.NextEvent())
}

func TestWatcherSignalsIndexWrites(t *testing.T) {
	gitDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(gitDir, "refs", "heads"), 0o750))
	w := NewGitWatchService(gitDir, nil)

	started, err := w.Start()
	require.NoError(t, err)
	require.True(t, started)
	t.Cleanup(w.Stop)

	events := w.NextEvent()
	require.NotNil(t, events)
	assert.Nil(t, w.NextEvent(), "only one waiter at a time")

	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "index"), []byte("x"), 0o600))

	select {
	case <-events:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a watcher event after writing the index")
	}
	w.ResetWaiting()
	assert.NotNil(t, w.NextEvent())
}

func TestWatcherTracksNewRefDirs(t *testing.T) {
	gitDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(gitDir, "refs"), 0o750))
	w := NewGitWatchService(gitDir, nil)
	started, err := w.Start()
	require.NoError(t, err)
	require.True(t, started)
	t.Cleanup(w.Stop)

	dir := filepath.Join(gitDir, "refs", "heads")
	require.NoError(t, os.Mkdir(dir, 0o750))
	w.MaybeWatchNewDir(dir)

	w.Mu.Lock()
	_, ok := w.Paths[dir]
	w.Mu.Unlock()
	assert.True(t, ok)
}

func TestStopIsIdempotent(t *testing.T) {
	w := NewGitWatchService(t.TempDir(), nil)
	_, err := w.Start()
	require.NoError(t, err)
	w.Stop()
	w.Stop()
	assert.False(t, w.Started)
}
