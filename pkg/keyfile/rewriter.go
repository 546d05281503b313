// Package keyfile rewrites LS-DYNA style .key/.k input decks, stripping
// comment lines that begin with the '$' sentinel. It supports:
//
//   - Atomic in-place rewriting (write to a .part sibling, then rename)
//   - Preservation of line order and terminators for surviving lines
//   - Optional content-addressed archiving of the original deck
//   - Recovery from per-file decode and I/O failures
//
// Example usage:
//
//	rw := keyfile.NewRewriter("/run/bumper.key").WithLogger(logger)
//	res, err := rw.Rewrite(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if res.Skipped {
//	    fmt.Printf("skipped: %v\n", res.SkipReason)
//	} else {
//	    fmt.Printf("removed %d lines\n", res.LinesRemoved)
//	}
//
// Error handling follows two tiers. Precondition violations (empty path,
// missing file) and archive failures are returned as errors before the
// deck is touched. Decode and read/write failures are recovered locally:
// the deck is left unmodified, the failure is logged, and the Result is
// marked Skipped so a surrounding walk can continue.
//
// Thread Safety:
//
// The Rewriter is NOT safe for concurrent use. Create a new instance for
// each deck.
package keyfile

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// Archiver stores the original bytes of a deck before it is rewritten.
type Archiver interface {
	Archive(ctx context.Context, path string, data []byte) error
}

// Result contains the outcome of a single deck rewrite.
type Result struct {
	LinesRemoved int   // Comment lines stripped from the deck
	LinesKept    int   // Lines written back
	Archived     bool  // Original content was archived before the rewrite
	Skipped      bool  // Deck was left unmodified after a recovered failure
	SkipReason   error // Cause of the skip, nil unless Skipped
}

type Rewriter struct {
	path    string
	archive Archiver
	logger  *slog.Logger
}

// NewRewriter creates a Rewriter for the deck at path.
func NewRewriter(path string) *Rewriter {
	if path != "" {
		path = filepath.Clean(path)
	}

	return &Rewriter{
		path:   path,
		logger: slog.Default(),
	}
}

// WithArchive sets an Archiver that receives the original deck bytes
// before the file is overwritten. Returns the rewriter for chaining.
func (rw *Rewriter) WithArchive(a Archiver) *Rewriter {
	rw.archive = a
	return rw
}

// WithLogger sets the logger used for recovered failures and rewrite
// reports. Returns the rewriter for chaining.
func (rw *Rewriter) WithLogger(logger *slog.Logger) *Rewriter {
	if logger != nil {
		rw.logger = logger
	}
	return rw
}

// Rewrite reads the deck, drops every line the filter rejects, and
// atomically overwrites the file with the survivors in their original
// order. The returned Result reports how many lines were removed.
//
// A missing file is reported as ErrFileNotFound before any read is
// attempted. Decode and read/write failures are recovered: the error is
// logged, the file is left unmodified, and the Result comes back with
// Skipped set and a nil error.
func (rw *Rewriter) Rewrite(ctx context.Context) (*Result, error) {
	if rw.path == "" {
		return nil, ErrEmptyPath
	}

	if _, err := os.Stat(rw.path); err != nil {
		if os.IsNotExist(err) {
			return nil, wrapNotFound(rw.path)
		}
		return nil, &RewriteError{Path: rw.path, Op: "stat", Err: err}
	}

	data, err := os.ReadFile(rw.path)
	if err != nil {
		return rw.skip(wrapRead(rw.path, err)), nil
	}

	if !utf8.Valid(data) {
		return rw.skip(wrapDecode(rw.path)), nil
	}

	result := &Result{}

	if rw.archive != nil {
		if err := rw.archive.Archive(ctx, rw.path, data); err != nil {
			return nil, wrapArchive(rw.path, err)
		}
		result.Archived = true
	}

	kept, removed, err := filterLines(data)
	if err != nil {
		return nil, err
	}

	if err := rw.writeAtomic(kept); err != nil {
		return rw.skip(err), nil
	}

	result.LinesRemoved = removed
	result.LinesKept = countLines(kept)

	rw.logger.Info("processed deck", "path", rw.path, "lines_removed", removed)

	return result, nil
}

// skip logs a recovered failure and builds the skipped Result for it.
func (rw *Rewriter) skip(reason error) *Result {
	rw.logger.Error("skipping deck", "path", rw.path, "error", reason)

	return &Result{
		Skipped:    true,
		SkipReason: reason,
	}
}

// filterLines partitions deck content into kept bytes and a removed
// line count. Lines keep their terminators, so the kept bytes are the
// original content minus the dropped lines.
func filterLines(data []byte) ([]byte, int, error) {
	kept := make([]byte, 0, len(data))
	removed := 0

	for _, line := range splitLines(data) {
		ok, err := Keep(line)
		if err != nil {
			return nil, 0, err
		}

		if ok {
			kept = append(kept, line...)
		} else {
			removed++
		}
	}

	return kept, removed, nil
}

// splitLines splits data after each '\n', keeping the terminator with
// its line. A final line without a terminator is returned as-is.
func splitLines(data []byte) [][]byte {
	var lines [][]byte

	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, data)
			break
		}
		lines = append(lines, data[:i+1])
		data = data[i+1:]
	}

	return lines
}

func countLines(data []byte) int {
	return len(splitLines(data))
}

// writeAtomic writes content to a .part sibling and renames it over the
// deck, so a failure leaves the original file intact.
func (rw *Rewriter) writeAtomic(content []byte) error {
	partPath := rw.path + partFileSuffix

	if err := os.WriteFile(partPath, content, filePermissions); err != nil {
		return wrapWrite(partPath, err)
	}

	if err := os.Rename(partPath, rw.path); err != nil {
		_ = os.Remove(partPath)
		return wrapWrite(rw.path, err)
	}

	return nil
}
