// Package services holds the background helpers used by the TUI model.
package services

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// GitWatchDebounce is the debounce window for watcher events.
const GitWatchDebounce = 600 * time.Millisecond

// GitWatchService watches a repository's git directory and signals when
// the index, HEAD or refs change.
type GitWatchService struct {
	Started     bool
	Waiting     bool
	GitDir      string
	Roots       []string
	Events      chan struct{}
	Done        chan struct{}
	Paths       map[string]struct{}
	Mu          sync.Mutex
	Watcher     *fsnotify.Watcher
	LastRefresh time.Time
	logf        func(string, ...any)
}

// NewGitWatchService creates a watcher for gitDir. Nothing is watched until Start.
func NewGitWatchService(gitDir string, logf func(string, ...any)) *GitWatchService {
	return &GitWatchService{
		GitDir: gitDir,
		logf:   logf,
	}
}

// Start initialises the watcher and starts the background goroutine.
func (w *GitWatchService) Start() (bool, error) {
	if w.Started {
		return false, nil
	}
	if w.GitDir == "" {
		w.debugf("auto refresh: no git directory to watch")
		return false, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.Started = true
	w.Watcher = watcher
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})
	w.Paths = make(map[string]struct{})
	w.Roots = []string{filepath.Join(w.GitDir, "refs")}
	w.addWatchDir(w.GitDir)
	for _, root := range w.Roots {
		w.addWatchTree(root)
	}

	go w.run()
	return true, nil
}

// Stop stops the watcher and closes channels.
func (w *GitWatchService) Stop() {
	if !w.Started {
		return
	}
	close(w.Done)
	w.Started = false
	if w.Watcher != nil {
		_ = w.Watcher.Close()
	}
}

// NextEvent returns the event channel if waiting is not already active.
func (w *GitWatchService) NextEvent() <-chan struct{} {
	if w.Events == nil || w.Waiting {
		return nil
	}
	w.Waiting = true
	return w.Events
}

// ResetWaiting clears the waiting flag after an event is processed.
func (w *GitWatchService) ResetWaiting() {
	w.Waiting = false
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *GitWatchService) ShouldRefresh(now time.Time) bool {
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < GitWatchDebounce {
		return false
	}
	w.LastRefresh = now
	return true
}

// MaybeWatchNewDir registers newly created directories under watch roots.
func (w *GitWatchService) MaybeWatchNewDir(path string) {
	if !w.IsUnderRoot(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addWatchDir(path)
}

// Signal notifies listeners of watcher activity.
func (w *GitWatchService) Signal() {
	select {
	case <-w.Done:
		return
	default:
	}
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

// IsUnderRoot reports whether the path is under any watch root.
func (w *GitWatchService) IsUnderRoot(path string) bool {
	if path == "" {
		return false
	}
	for _, root := range w.Roots {
		if root == "" {
			continue
		}
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Relevant reports whether an event on path can change the status lists.
// Lock files come and go around every git write and are skipped; the
// rename that replaces the real file is what matters.
func (w *GitWatchService) Relevant(path string) bool {
	if strings.HasSuffix(path, ".lock") {
		return false
	}
	if w.IsUnderRoot(path) {
		return true
	}
	if filepath.Dir(path) != filepath.Clean(w.GitDir) {
		return false
	}
	switch filepath.Base(path) {
	case "index", "HEAD", "MERGE_HEAD", "ORIG_HEAD", "packed-refs", "info":
		return true
	}
	return false
}

func (w *GitWatchService) run() {
	for {
		select {
		case <-w.Done:
			return
		case event, ok := <-w.Watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.MaybeWatchNewDir(event.Name)
			}
			if !w.Relevant(event.Name) {
				continue
			}
			w.Signal()
		case err, ok := <-w.Watcher.Errors:
			if !ok {
				return
			}
			w.debugf("git watcher error: %v", err)
		}
	}
}

func (w *GitWatchService) addWatchDir(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.Mu.Lock()
	defer w.Mu.Unlock()

	if _, ok := w.Paths[path]; ok {
		return
	}
	if err := w.Watcher.Add(path); err != nil {
		w.debugf("git watcher add failed for %s: %v", path, err)
		return
	}
	w.Paths[path] = struct{}{}
}

func (w *GitWatchService) addWatchTree(root string) {
	if root == "" {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		w.addWatchDir(path)
		return nil
	})
}

func (w *GitWatchService) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
