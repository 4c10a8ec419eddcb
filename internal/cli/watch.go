package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/SysSecura/internal/emoji"
	"github.com/yildizm/SysSecura/internal/intake"
	"github.com/yildizm/SysSecura/internal/logger"
	"github.com/yildizm/SysSecura/internal/monitor"
	"github.com/yildizm/SysSecura/internal/session"
)

// editors emit several events per save
const watchDebounce = 250 * time.Millisecond

var watchType string

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-run detection every time a log file changes",
		Long: `Submit a JSON log file once, then again each time it is written, printing
the fresh results after every run.

The parent directory is watched so that editors replacing the file on save are
picked up too. Press Ctrl+C to stop watching.

Examples:
  syssecura watch activity.json
  syssecura watch -o csv activity.json`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringVarP(&watchType, "type", "t", "", "declared media type (default: from file extension)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename := args[0]

	if err := validateWatchFilePath(filename); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	log := newLogger("watch")
	controller, err := newController(log)
	if err != nil {
		return err
	}

	watcher, err := createWatcher(filepath.Dir(filepath.Clean(filename)))
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw := newFileWatcher(filename, watchType, controller, cmd.OutOrStdout(), log)
	fmt.Fprintf(fw.out, "%s Watching %s (Ctrl+C to stop)\n", emoji.GetEmoji("watch"), fw.path)

	fw.submit(ctx)
	return fw.run(ctx, watcher.Events, watcher.Errors)
}

// fileWatcher re-submits one file whenever it changes
type fileWatcher struct {
	path       string
	mediaType  string
	controller *session.Controller
	out        io.Writer
	log        *logger.Logger
	debounce   time.Duration
	stats      *monitor.Stats
}

func newFileWatcher(path, mediaType string, controller *session.Controller, out io.Writer, log *logger.Logger) *fileWatcher {
	return &fileWatcher{
		path:       filepath.Clean(path),
		mediaType:  mediaType,
		controller: controller,
		out:        out,
		log:        log,
		debounce:   watchDebounce,
		stats:      monitor.NewStats(),
	}
}

// run is the watch loop. It returns nil when ctx is cancelled.
func (w *fileWatcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			snap := w.stats.Snapshot()
			w.log.InfoWithFields("stopping", []logger.Field{
				logger.F("runs", snap.Submissions),
				logger.F("succeeded", snap.Succeeded),
				logger.F("failed", snap.Failed),
				logger.F("rejected", snap.Rejected),
				logger.F("avg_latency", snap.Latency.Avg),
			})
			return nil

		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if w.relevant(event) {
				w.log.Debug("%s: %s", event.Op, event.Name)
				pending = time.After(w.debounce)
			}

		case err, ok := <-errs:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Warn("watcher error: %v", err)

		case <-pending:
			pending = nil
			w.submit(ctx)
		}
	}
}

// relevant reports whether event changed the watched file's content
func (w *fileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// submit runs one detection and prints its outcome. Failures are reported and
// the loop keeps going.
func (w *fileWatcher) submit(ctx context.Context) {
	candidate, err := intake.FromPath(w.path, w.mediaType)
	if err != nil {
		w.log.Warn("cannot open %s: %v", w.path, err)
		return
	}

	state, err := w.stats.Track(func() (session.State, error) {
		return detect(ctx, w.controller, candidate, w.log)
	})
	stamp := time.Now().Format("15:04:05")
	if err != nil {
		fmt.Fprintf(w.out, "[%s] %s %s\n", stamp, emoji.GetEmoji("error"), state.Message)
		return
	}

	fmt.Fprintf(w.out, "[%s] %s %s: %d records\n", stamp, emoji.GetEmoji("results"), candidate.Name, len(state.Results))
	if err := writeResults(w.out, state.Results); err != nil {
		w.log.Error("failed to print results: %v", err)
	}
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher, log *logger.Logger) {
	if err := watcher.Close(); err != nil {
		log.Debug("failed to close watcher: %v", err)
	}
}

// createWatcher creates a file system watcher on dir
func createWatcher(dir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return watcher, nil
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
