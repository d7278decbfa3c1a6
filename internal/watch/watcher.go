// Package watch observes the vault directory tree with fsnotify and triggers
// a rescan after changes settle. Events are debounced so a burst of writes
// (editor saves, git checkouts) costs a single rebuild.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 200 * time.Millisecond

// Watcher monitors a directory tree for markdown changes.
type Watcher struct {
	root     string
	logger   *slog.Logger
	onChange func(ctx context.Context)
}

// New returns a watcher for root. onChange runs after each settled burst of
// filesystem events.
func New(root string, logger *slog.Logger, onChange func(ctx context.Context)) *Watcher {
	return &Watcher{root: root, logger: logger, onChange: onChange}
}

// Run watches until ctx is cancelled. New subdirectories are added to the
// watch set as they appear; dot-directories are ignored.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	w.logger.Info("watching vault", "root", w.root)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timerC:
			timerC = nil
			w.onChange(ctx)
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.ignored(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// Could be a new directory; extend the watch set.
				if err := w.addTree(fw, ev.Name); err != nil {
					w.logger.Debug("watch: add path", "path", ev.Name, "error", err)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceDelay)
				timerC = timer.C
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch: fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, start string) error {
	return filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // race with deletes is fine
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.logger.Debug("watch: add dir", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return true
	}
	for _, seg := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	base := filepath.Base(path)
	// Editor temp files and our own atomic-write temps.
	if strings.HasPrefix(base, ".") || strings.Contains(base, ".raido-tmp-") {
		return true
	}
	return false
}
