// Package watch re-checks templates when they change on disk.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/edgecst/edgecst/internal/check"
	"github.com/edgecst/edgecst/internal/config"
	"github.com/edgecst/edgecst/internal/logs"
	"github.com/fsnotify/fsnotify"
	"github.com/maruel/natural"
	"github.com/rs/zerolog"
)

const LOG_SRC = "watch"

type Options struct {
	//delay during which changes are coalesced, defaults to config.DEFAULT_WATCH_DEBOUNCE.
	Debounce time.Duration
	Logger   zerolog.Logger

	//called on the goroutine calling Run after each check.
	OnReport func(report *check.Report)
}

// A Watcher watches a directory tree and checks the templates that are created or modified,
// the paths passed to the runner are slash-separated and relative to the root.
type Watcher struct {
	root     string
	runner   *check.Runner
	logger   zerolog.Logger
	debounce time.Duration
	onReport func(*check.Report)

	ready chan struct{}

	pendingLock sync.Mutex
	pending     map[string]struct{}
}

func New(root string, runner *check.Runner, opts Options) *Watcher {
	debounceDuration := opts.Debounce
	if debounceDuration <= 0 {
		debounceDuration = config.DEFAULT_WATCH_DEBOUNCE
	}

	onReport := opts.OnReport
	if onReport == nil {
		onReport = func(*check.Report) {}
	}

	return &Watcher{
		root:     root,
		runner:   runner,
		logger:   logs.ChildLoggerForSource(opts.Logger, LOG_SRC),
		debounce: debounceDuration,
		onReport: onReport,
		ready:    make(chan struct{}),
		pending:  map[string]struct{}{},
	}
}

// Ready returns a channel that is closed once the directory tree is watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches the directory tree until ctx is done, it returns nil in that case.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if _, err := w.addDirs(watcher, w.root); err != nil {
		return err
	}
	close(w.ready)
	w.logger.Info().Str("dir", w.root).Msg("watching templates")

	flush := make(chan struct{}, 1)
	debounced := debounce.New(w.debounce)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(watcher, event) {
				debounced(func() {
					select {
					case flush <- struct{}{}:
					default:
					}
				})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("watcher error")
		case <-flush:
			if err := w.checkPending(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// handleEvent updates the set of pending files, it returns true if a check should be scheduled.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		info, err := os.Lstat(event.Name)
		if err == nil && info.IsDir() {
			//no event is emitted for the files of a directory moved or copied into the tree.
			files, err := w.addDirs(watcher, event.Name)
			if err != nil {
				w.logger.Error().Err(err).Str("dir", event.Name).Msg("failed to watch directory")
			}

			scheduled := false
			for _, file := range files {
				if relPath, ok := w.templatePath(file); ok {
					w.addPending(relPath)
					scheduled = true
				}
			}
			return scheduled
		}
	}

	relPath, ok := w.templatePath(event.Name)
	if !ok {
		return false
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.pendingLock.Lock()
		delete(w.pending, relPath)
		w.pendingLock.Unlock()

		w.logger.Debug().Str("file", relPath).Msg("template removed")
		return false
	}

	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
		w.addPending(relPath)
		return true
	}
	return false
}

// templatePath returns the slash-separated path of a file relative to the root, ok is false
// if the file is not an included template.
func (w *Watcher) templatePath(path string) (relPath string, ok bool) {
	relPath, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	relPath = filepath.ToSlash(relPath)
	return relPath, w.runner.IsIncluded(relPath)
}

func (w *Watcher) addPending(relPath string) {
	w.pendingLock.Lock()
	defer w.pendingLock.Unlock()
	w.pending[relPath] = struct{}{}
}

func (w *Watcher) checkPending(ctx context.Context) error {
	w.pendingLock.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = map[string]struct{}{}
	w.pendingLock.Unlock()

	if len(paths) == 0 {
		return nil
	}
	sort.Sort(natural.StringSlice(paths))

	w.logger.Debug().Strs("files", paths).Msg("checking changed templates")

	report, err := w.runner.CheckFiles(ctx, paths)
	if err != nil {
		return err
	}
	w.onReport(report)
	return nil
}

// addDirs watches dir and all its subdirectories, it returns the regular files found in them.
func (w *Watcher) addDirs(watcher *fsnotify.Watcher, dir string) (files []string, _ error) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		}
		return watcher.Add(path)
	})
	return files, err
}
