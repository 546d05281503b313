package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/tragoedia0722/keyclean/internal/journal"
	"github.com/tragoedia0722/keyclean/pkg/cleaner"
)

// options collects everything the CLI needs for one walk pass.
type options struct {
	root        string
	removeD3P   bool
	dryRun      bool
	journalPath string
	logPath     string
	interactive bool
}

// ackWaiter blocks until the operator acknowledges, so a double-clicked
// console window does not vanish before the summary can be read. A nil
// waiter skips the wait.
type ackWaiter func()

func main() {
	opts := options{}
	flag.StringVar(&opts.root, "path", "", "root directory to clean (default: prompt or current directory)")
	flag.BoolVar(&opts.removeD3P, "d3p", false, "also remove d3p* result files (d3plot etc.)")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "report what would be done without deleting or rewriting")
	flag.StringVar(&opts.journalPath, "journal", "", "journal directory (default: <root>/.keyclean)")
	flag.StringVar(&opts.logPath, "log", "keyclean.log", "append log file")
	flag.BoolVar(&opts.interactive, "i", false, "prompt for options interactively")
	flag.Parse()

	var wait ackWaiter
	if opts.interactive {
		wait = waitForAck
	}

	code := run(opts)

	if wait != nil {
		wait()
	}
	os.Exit(code)
}

func run(opts options) int {
	logger, closeLog, err := openLogger(opts.logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open log file: %v\n", err)
		return 1
	}
	defer closeLog()

	stdin := bufio.NewReader(os.Stdin)

	fmt.Println("keyclean - simulation output cleanup")

	root, err := resolveRoot(opts, stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		logger.Error("startup validation failed", "error", err)
		return 1
	}

	if opts.interactive {
		opts.removeD3P = promptYesNo(stdin, "Remove d3plot files (y/n): ")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	journalPath := opts.journalPath
	if journalPath == "" {
		journalPath = filepath.Join(root, ".keyclean")
	}

	j, err := journal.Open(journalPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: cannot open journal: %v\n", err)
		logger.Error("journal open failed", "path", journalPath, "error", err)
		return 1
	}
	defer func() {
		if err := j.Close(); err != nil {
			logger.Error("journal close failed", "error", err)
		}
	}()

	result, err := cleaner.NewCleaner(root).
		WithRemoveD3P(opts.removeD3P).
		WithDryRun(opts.dryRun).
		WithJournal(j).
		WithLogger(logger).
		Clean(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		logger.Error("walk pass aborted", "root", root, "error", err)
		return 1
	}

	printSummary(ctx, os.Stdout, j, result, opts.dryRun)

	return 0
}

// openLogger opens the append-only log file and builds the logger that
// the walker and rewriter share.
func openLogger(path string) (*slog.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(f, nil))
	return logger, func() { _ = f.Close() }, nil
}

// resolveRoot picks the root directory from the flag, an interactive
// prompt, or the current directory, makes it absolute and verifies it
// is an existing directory. Validation runs before the journal is
// opened, so a bad root never leaves directories behind.
func resolveRoot(opts options, stdin *bufio.Reader) (string, error) {
	root := opts.root

	if root == "" && opts.interactive {
		fmt.Print("Directory to process (Enter for current directory): ")
		line, err := stdin.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		root = strings.TrimSpace(line)
	}

	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("directory does not exist: %s", abs)
		}
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}

	return abs, nil
}

// promptYesNo reads a line and reports whether it starts with y.
func promptYesNo(stdin *bufio.Reader, prompt string) bool {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}

// printSummary writes the end-of-run report.
func printSummary(ctx context.Context, w io.Writer, j *journal.Journal, result *cleaner.Result, dryRun bool) {
	verb := ""
	if dryRun {
		verb = " (dry run)"
	}

	fmt.Fprintf(w, "\nCleanup pass complete%s:\n", verb)
	fmt.Fprintf(w, "  files visited:   %d\n", result.FilesVisited)
	fmt.Fprintf(w, "  files removed:   %d\n", result.FilesRemoved)
	fmt.Fprintf(w, "  decks rewritten: %d\n", result.FilesRewritten)
	fmt.Fprintf(w, "  lines stripped:  %d\n", result.LinesRemoved)
	if result.FilesSkipped > 0 {
		fmt.Fprintf(w, "  decks skipped:   %d\n", result.FilesSkipped)
	}

	if usage, err := j.Usage(ctx); err == nil {
		fmt.Fprintf(w, "  journal size:    %d bytes\n", usage)
	}
}

// waitForAck keeps the console open until the operator presses Enter.
func waitForAck() {
	fmt.Print("\nPress Enter to exit...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}
