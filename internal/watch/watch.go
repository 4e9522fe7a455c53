// Package watch reruns a marketplace scan when skill files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/klauern/skilllint/internal/logging"
	"github.com/klauern/skilllint/internal/rules"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period after the last change before OnChange runs.
	Debounce time.Duration
	// Ignore reports paths whose changes should not trigger a rescan, such as
	// the report file itself.
	Ignore func(path string) bool
}

// Watcher watches root/plugins recursively.
type Watcher struct {
	root string
	opts Options
}

// New creates a Watcher for a marketplace root.
func New(root string, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{root: root, opts: opts}
}

// Run blocks until ctx is done, calling onChange with each debounced batch.
// Calls never overlap. An error from onChange is logged and watching goes on.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context, []Event) error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	pluginsDir := filepath.Join(w.root, rules.PluginsDir)
	target := pluginsDir
	if _, err := os.Stat(pluginsDir); errors.Is(err, fs.ErrNotExist) {
		target = w.root
	}
	if err := addTree(fsw, target); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}
	logging.Info("watching for changes", logging.Path(target))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan Event)
	batches := Debounce(ctx, events, w.opts.Debounce)

	go func() {
		defer close(events)
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if ev.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !Hidden(relative(w.root, ev.Name)) {
						if err := addTree(fsw, ev.Name); err != nil {
							logging.Warn("failed to watch new directory", logging.Path(ev.Name), logging.Err(err))
						}
					}
				}
				if !w.relevant(ev) {
					continue
				}
				select {
				case events <- Event{Path: ev.Name, Op: ev.Op, Time: time.Now()}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logging.Error("file watcher error", logging.Err(err))
			case <-ctx.Done():
				return
			}
		}
	}()

	for batch := range batches {
		logging.Debug("changes detected", logging.Count(len(batch)))
		if err := onChange(ctx, batch); err != nil {
			logging.Error("rescan failed", logging.Err(err))
		}
	}
	return nil
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if w.opts.Ignore != nil && w.opts.Ignore(ev.Name) {
		return false
	}
	return Relevant(w.root, ev.Name)
}

// Relevant reports whether a change to path under root can alter a lint
// result. Editor swap files and anything under hidden directories below root,
// other than the plugin manifest directory, are skipped. Dot directories
// above root, such as ~/.claude, do not count.
func Relevant(root, path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".tmp") {
		return false
	}
	if base == rules.ManifestFile {
		return filepath.Base(filepath.Dir(path)) == rules.ManifestDir
	}
	return !Hidden(relative(root, path))
}

// relative returns path relative to root, or path itself when it does not
// lie under root.
func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// Hidden reports whether any element of path starts with a dot. A leading
// "." or ".." element does not count.
func Hidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") && part != rules.ManifestDir {
			return true
		}
	}
	return false
}

// addTree adds dir and every non-hidden subdirectory to the watcher.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") && d.Name() != rules.ManifestDir {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}
