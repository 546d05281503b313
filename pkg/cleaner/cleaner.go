// Package cleaner implements the walk-and-clean pass over a simulation
// output tree. It supports:
//
//   - Recursive traversal of all files under a root directory
//   - Deletion of junk files (solver logs, lock files, intermediate results)
//   - In-place rewriting of .key/.k decks through pkg/keyfile
//   - Progress tracking with callbacks
//   - Context cancellation for graceful interruption
//   - Event journaling and pre-rewrite archiving through internal/journal
//   - A dry-run mode that reports without mutating anything
//
// Example usage:
//
//	c := cleaner.NewCleaner("/runs/crash_042").
//	    WithRemoveD3P(true).
//	    WithJournal(j).
//	    WithLogger(logger)
//	result, err := c.Clean(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("removed %d files, rewrote %d decks\n",
//	    result.FilesRemoved, result.FilesRewritten)
//
// Failure policy: a junk file that cannot be deleted is logged and left
// in place, and the walk continues. A deck rewrite that fails inside the
// rewriter's own recovery (unreadable encoding, per-file I/O) is counted
// as skipped and the walk continues. Anything the rewriter does not
// recover (precondition violations, archive failures) aborts the
// remainder of the walk.
//
// Thread Safety:
//
// The Cleaner is NOT safe for concurrent use. Create a new instance for
// each walk pass.
package cleaner

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/tragoedia0722/keyclean/internal/journal"
	"github.com/tragoedia0722/keyclean/pkg/classify"
	"github.com/tragoedia0722/keyclean/pkg/keyfile"
)

// Result contains the outcome of one walk pass.
type Result struct {
	FilesVisited   int64 // Regular files seen during the walk
	FilesRemoved   int64 // Junk files deleted (or counted in dry-run)
	FilesRewritten int64 // Decks rewritten (or counted in dry-run)
	LinesRemoved   int64 // Comment lines stripped across all decks
	FilesSkipped   int64 // Decks left unmodified after a recovered failure
}

type Cleaner struct {
	root      string
	removeD3P bool
	dryRun    bool
	journal   *journal.Journal
	logger    *slog.Logger
	progress  progressCallback
	tracker   *progressTracker
}

// NewCleaner creates a Cleaner for the given root directory.
func NewCleaner(root string) *Cleaner {
	return &Cleaner{
		root:   root,
		logger: slog.Default(),
	}
}

// WithRemoveD3P also treats files with the d3p prefix as junk.
// Returns the cleaner for method chaining.
func (c *Cleaner) WithRemoveD3P(remove bool) *Cleaner {
	c.removeD3P = remove
	return c
}

// WithDryRun classifies and counts without deleting or rewriting anything.
// Returns the cleaner for method chaining.
func (c *Cleaner) WithDryRun(dry bool) *Cleaner {
	c.dryRun = dry
	return c
}

// WithJournal attaches a journal that records every deletion, rewrite
// and failure, and archives deck content before rewrites. The journal's
// own directory is excluded from the walk. Returns the cleaner for
// method chaining.
func (c *Cleaner) WithJournal(j *journal.Journal) *Cleaner {
	c.journal = j
	return c
}

// WithLogger sets the logger for per-file and summary messages.
// Returns the cleaner for method chaining.
func (c *Cleaner) WithLogger(logger *slog.Logger) *Cleaner {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithProgress sets a callback invoked as the walk advances.
// The callback receives (visited_files, removed_files, current_path).
// Returns the cleaner for method chaining.
func (c *Cleaner) WithProgress(fn progressCallback) *Cleaner {
	c.progress = fn
	return c
}

// Clean performs one full walk-and-clean pass and returns its tallies.
//
// The root must exist and be a directory; validation failures are
// reported before any traversal begins. Per-file failures are isolated
// to that file except where the package doc notes otherwise.
func (c *Cleaner) Clean(ctx context.Context) (*Result, error) {
	root, err := c.validateRoot()
	if err != nil {
		return nil, err
	}

	c.tracker = newProgressTracker(c.progress)
	result := &Result{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// enumeration failures on a subtree are contained
			c.logger.Error("walk error", "path", path, "error", walkErr)
			c.record(ctx, journal.LevelError, "walk", path, walkErr.Error())
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if c.journal != nil && path == c.journal.Path() {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		return c.processFile(ctx, path, d.Name(), result)
	})
	if err != nil {
		visited, removed := c.tracker.counts()
		c.logger.Error("walk pass aborted",
			"root", root,
			"files_visited", visited,
			"files_removed", removed,
			"error", err)
		c.record(ctx, journal.LevelError, "abort", root, err.Error())
		return result, err
	}

	c.logger.Info("walk pass complete",
		"root", root,
		"files_visited", result.FilesVisited,
		"files_removed", result.FilesRemoved,
		"files_rewritten", result.FilesRewritten,
		"lines_removed", result.LinesRemoved,
		"files_skipped", result.FilesSkipped,
		"dry_run", c.dryRun)
	c.record(ctx, journal.LevelInfo, "complete", root,
		fmt.Sprintf("removed %d files, rewrote %d decks, stripped %d lines",
			result.FilesRemoved, result.FilesRewritten, result.LinesRemoved))

	return result, nil
}

// validateRoot expands and checks the root path before any traversal.
func (c *Cleaner) validateRoot() (string, error) {
	if c.root == "" {
		return "", ErrEmptyRoot
	}

	expanded, err := homedir.Expand(filepath.Clean(c.root))
	if err != nil {
		return "", &WalkError{Path: c.root, Op: "expand", Err: err}
	}

	fi, err := os.Stat(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return "", wrapRootNotFound(expanded)
		}
		return "", &WalkError{Path: expanded, Op: "stat", Err: err}
	}

	if !fi.IsDir() {
		return "", wrapNotDirectory(expanded)
	}

	return expanded, nil
}

// processFile dispatches one regular file to deletion, rewriting or
// nothing, based on its classification.
func (c *Cleaner) processFile(ctx context.Context, path, name string, result *Result) error {
	result.FilesVisited++
	c.tracker.visit(path)

	switch classify.Classify(name, c.removeD3P) {
	case classify.KindJunk:
		c.removeJunk(ctx, path, result)
		return nil
	case classify.KindKeyFile:
		return c.rewriteDeck(ctx, path, result)
	default:
		return nil
	}
}

// removeJunk deletes a junk file. Deletion failures never stop the
// walk; the file is left in place and not counted as removed.
func (c *Cleaner) removeJunk(ctx context.Context, path string, result *Result) {
	if c.dryRun {
		result.FilesRemoved++
		c.tracker.markRemoved(path)
		c.logger.Info("would remove file", "path", path)
		c.record(ctx, journal.LevelInfo, "dry_run_remove", path, "")
		return
	}

	if err := os.Remove(path); err != nil {
		c.logger.Error("failed to remove file", "path", path, "error", err)
		c.record(ctx, journal.LevelError, "remove", path, err.Error())
		return
	}

	result.FilesRemoved++
	c.tracker.markRemoved(path)
	c.logger.Info("removed file", "path", path, "total_removed", result.FilesRemoved)
	c.record(ctx, journal.LevelInfo, "remove", path, "")
}

// rewriteDeck hands a key file to the rewriter. Recovered failures are
// counted as skipped; anything else aborts the walk.
func (c *Cleaner) rewriteDeck(ctx context.Context, path string, result *Result) error {
	if c.dryRun {
		c.previewDeck(ctx, path, result)
		return nil
	}

	rw := keyfile.NewRewriter(path).WithLogger(c.logger)
	if c.journal != nil {
		rw = rw.WithArchive(c.journal)
	}

	res, err := rw.Rewrite(ctx)
	if err != nil {
		c.logger.Error("deck processing failed", "path", path, "error", err)
		return err
	}

	if res.Skipped {
		result.FilesSkipped++
		c.record(ctx, journal.LevelError, "rewrite", path, res.SkipReason.Error())
		return nil
	}

	result.FilesRewritten++
	result.LinesRemoved += int64(res.LinesRemoved)
	c.record(ctx, journal.LevelInfo, "rewrite", path,
		fmt.Sprintf("removed %d lines", res.LinesRemoved))

	return nil
}

// previewDeck counts the comment lines a rewrite would strip, without
// touching the file. Non-UTF-8 decks are decoded through the fallback
// reader so the preview covers files the real rewrite would skip.
func (c *Cleaner) previewDeck(ctx context.Context, path string, result *Result) {
	data, err := os.ReadFile(path)
	if err != nil {
		result.FilesSkipped++
		c.logger.Error("failed to preview deck", "path", path, "error", err)
		c.record(ctx, journal.LevelError, "dry_run_rewrite", path, err.Error())
		return
	}

	text, encoding := keyfile.DecodeFallback(data)

	removed := 0
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "$") {
			removed++
		}
	}
	if err := scanner.Err(); err != nil {
		result.FilesSkipped++
		c.logger.Error("failed to preview deck", "path", path, "error", err)
		c.record(ctx, journal.LevelError, "dry_run_rewrite", path, err.Error())
		return
	}

	result.FilesRewritten++
	result.LinesRemoved += int64(removed)
	c.logger.Info("would rewrite deck", "path", path, "lines_removed", removed, "encoding", encoding)
	c.record(ctx, journal.LevelInfo, "dry_run_rewrite", path,
		fmt.Sprintf("would remove %d lines (%s)", removed, encoding))
}

// record appends a journal event if a journal is attached. Journal
// failures are logged, never fatal.
func (c *Cleaner) record(ctx context.Context, level journal.Level, op, path, detail string) {
	if c.journal == nil {
		return
	}

	ev := journal.Event{Level: level, Op: op, Path: path, Detail: detail}
	if err := c.journal.Record(ctx, ev); err != nil {
		c.logger.Error("failed to record journal event", "op", op, "error", err)
	}
}
