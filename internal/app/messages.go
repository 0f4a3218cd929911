package app

type (
	// gitDirChangedMsg is sent when the watcher sees the index, HEAD or refs move.
	gitDirChangedMsg struct{}
	// debouncedRefreshMsg fires once the debounce window after a burst of events closes.
	debouncedRefreshMsg struct{}
)
