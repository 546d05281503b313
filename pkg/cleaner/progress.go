package cleaner

import (
	"sync/atomic"
)

// progressCallback is called as the walk advances.
// Parameters: visited files, removed files, path of the current file
type progressCallback func(visited, removed int64, current string)

// progressTracker tracks walk progress with atomic counters so a
// callback always observes consistent counts.
type progressTracker struct {
	visited  atomic.Int64     // Files visited so far
	removed  atomic.Int64     // Files deleted so far
	callback progressCallback // Optional callback for progress updates
}

// newProgressTracker creates a new progress tracker
func newProgressTracker(callback progressCallback) *progressTracker {
	return &progressTracker{
		callback: callback,
	}
}

// visit records a visited file and triggers the callback if one is registered.
func (pt *progressTracker) visit(path string) {
	visited := pt.visited.Add(1)
	if pt.callback != nil {
		pt.callback(visited, pt.removed.Load(), path)
	}
}

// markRemoved records a deleted file and triggers the callback if one
// is registered.
func (pt *progressTracker) markRemoved(path string) {
	removed := pt.removed.Add(1)
	if pt.callback != nil {
		pt.callback(pt.visited.Load(), removed, path)
	}
}

// counts returns the visited and removed totals so far.
func (pt *progressTracker) counts() (visited, removed int64) {
	return pt.visited.Load(), pt.removed.Load()
}
