package keyfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeDeck creates a deck file with the given content and returns its path.
func writeDeck(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write deck: %v", err)
	}
	return path
}

// readDeck reads a deck file back.
func readDeck(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read deck: %v", err)
	}
	return string(data)
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name            string
		content         string
		expectedContent string
		expectedRemoved int
		expectedKept    int
	}{
		{
			name:            "strips comment lines",
			content:         "$comment\nNODE 1 2 3\n$another\n",
			expectedContent: "NODE 1 2 3\n",
			expectedRemoved: 2,
			expectedKept:    1,
		},
		{
			name:            "keeps order of survivors",
			content:         "*KEYWORD\n$ header\n*NODE\n1, 0.0, 0.0, 0.0\n$ trailer\n*END\n",
			expectedContent: "*KEYWORD\n*NODE\n1, 0.0, 0.0, 0.0\n*END\n",
			expectedRemoved: 2,
			expectedKept:    4,
		},
		{
			name:            "no comments removes nothing",
			content:         "*KEYWORD\n*END\n",
			expectedContent: "*KEYWORD\n*END\n",
			expectedRemoved: 0,
			expectedKept:    2,
		},
		{
			name:            "preserves crlf terminators",
			content:         "$ deck\r\n*KEYWORD\r\n*END\r\n",
			expectedContent: "*KEYWORD\r\n*END\r\n",
			expectedRemoved: 1,
			expectedKept:    2,
		},
		{
			name:            "preserves missing final terminator",
			content:         "$ top\n*KEYWORD\n*END",
			expectedContent: "*KEYWORD\n*END",
			expectedRemoved: 1,
			expectedKept:    2,
		},
		{
			name:            "comment without terminator on last line",
			content:         "*KEYWORD\n$ tail",
			expectedContent: "*KEYWORD\n",
			expectedRemoved: 1,
			expectedKept:    1,
		},
		{
			name:            "blank lines survive",
			content:         "$ a\n\n*KEYWORD\n\n$ b\n",
			expectedContent: "\n*KEYWORD\n\n",
			expectedRemoved: 2,
			expectedKept:    3,
		},
		{
			name:            "all comments leaves empty file",
			content:         "$1\n$2\n$3\n",
			expectedContent: "",
			expectedRemoved: 3,
			expectedKept:    0,
		},
		{
			name:            "empty file",
			content:         "",
			expectedContent: "",
			expectedRemoved: 0,
			expectedKept:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDeck(t, "test.key", tt.content)

			res, err := NewRewriter(path).Rewrite(context.Background())
			if err != nil {
				t.Fatalf("Rewrite failed: %v", err)
			}
			if res.Skipped {
				t.Fatalf("unexpected skip: %v", res.SkipReason)
			}

			if res.LinesRemoved != tt.expectedRemoved {
				t.Errorf("LinesRemoved = %d, want %d", res.LinesRemoved, tt.expectedRemoved)
			}
			if res.LinesKept != tt.expectedKept {
				t.Errorf("LinesKept = %d, want %d", res.LinesKept, tt.expectedKept)
			}

			if got := readDeck(t, path); got != tt.expectedContent {
				t.Errorf("content = %q, want %q", got, tt.expectedContent)
			}

			// .part 文件不应残留
			if _, err := os.Stat(path + partFileSuffix); !os.IsNotExist(err) {
				t.Errorf("part file left behind")
			}
		})
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	path := writeDeck(t, "main.k", "$comment\nNODE 1 2 3\n$another\n")

	first, err := NewRewriter(path).Rewrite(context.Background())
	if err != nil {
		t.Fatalf("first rewrite failed: %v", err)
	}
	if first.LinesRemoved != 2 {
		t.Fatalf("first pass removed %d lines, want 2", first.LinesRemoved)
	}

	afterFirst := readDeck(t, path)

	second, err := NewRewriter(path).Rewrite(context.Background())
	if err != nil {
		t.Fatalf("second rewrite failed: %v", err)
	}
	if second.LinesRemoved != 0 {
		t.Errorf("second pass removed %d lines, want 0", second.LinesRemoved)
	}

	if got := readDeck(t, path); got != afterFirst {
		t.Errorf("second pass changed content: %q != %q", got, afterFirst)
	}
}

func TestRewrite_EmptyPath(t *testing.T) {
	_, err := NewRewriter("").Rewrite(context.Background())
	if !errors.Is(err, ErrEmptyPath) {
		t.Errorf("expected ErrEmptyPath, got %v", err)
	}
}

func TestRewrite_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.key")

	_, err := NewRewriter(path).Rewrite(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}

	var rwErr *RewriteError
	if !errors.As(err, &rwErr) {
		t.Errorf("expected *RewriteError, got %T", err)
	}
}

func TestRewrite_InvalidEncoding(t *testing.T) {
	// 无效的 UTF-8 字节序列
	content := string([]byte{'$', 'x', '\n', 0xff, 0xfe, 0xfd, '\n'})
	path := writeDeck(t, "binary.key", content)

	res, err := NewRewriter(path).Rewrite(context.Background())
	if err != nil {
		t.Fatalf("decode failure should be recovered, got error: %v", err)
	}
	if !res.Skipped {
		t.Fatal("expected skipped result for invalid encoding")
	}
	if !errors.Is(res.SkipReason, ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", res.SkipReason)
	}

	// 文件必须保持原样
	if got := readDeck(t, path); got != content {
		t.Errorf("skipped deck was modified")
	}
}

// recordingArchiver captures archived content for assertions.
type recordingArchiver struct {
	paths []string
	data  [][]byte
	err   error
}

func (a *recordingArchiver) Archive(_ context.Context, path string, data []byte) error {
	if a.err != nil {
		return a.err
	}
	a.paths = append(a.paths, path)
	a.data = append(a.data, append([]byte(nil), data...))
	return nil
}

func TestRewrite_ArchivesOriginal(t *testing.T) {
	content := "$comment\nNODE 1 2 3\n"
	path := writeDeck(t, "archived.key", content)

	arch := &recordingArchiver{}
	res, err := NewRewriter(path).WithArchive(arch).Rewrite(context.Background())
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	if !res.Archived {
		t.Error("expected Archived to be set")
	}
	if len(arch.data) != 1 {
		t.Fatalf("archiver called %d times, want 1", len(arch.data))
	}
	if string(arch.data[0]) != content {
		t.Errorf("archived %q, want original content %q", arch.data[0], content)
	}
}

func TestRewrite_ArchiveFailureIsFatal(t *testing.T) {
	content := "$comment\nNODE 1 2 3\n"
	path := writeDeck(t, "fail.key", content)

	arch := &recordingArchiver{err: errors.New("archive store unavailable")}
	_, err := NewRewriter(path).WithArchive(arch).Rewrite(context.Background())
	if err == nil {
		t.Fatal("expected archive failure to propagate")
	}

	var rwErr *RewriteError
	if !errors.As(err, &rwErr) || rwErr.Op != "archive" {
		t.Errorf("expected archive RewriteError, got %v", err)
	}

	// 归档失败时不应改写文件
	if got := readDeck(t, path); got != content {
		t.Errorf("deck was modified despite archive failure")
	}
}
