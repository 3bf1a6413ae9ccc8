// Package watch re-runs a callback when files under a set of directory
// trees change. Events are debounced: a burst of writes produces one
// callback with every changed path, and callbacks never overlap.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	stencilerrors "github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is used when Config.Debounce is not positive
const DefaultDebounce = 500 * time.Millisecond

// ignoredNames are base-name patterns (filepath.Match syntax) for editor
// and OS droppings that never trigger a callback.
var ignoredNames = []string{
	"*.swp",
	"*.swo",
	"*~",
	".DS_Store",
	"4913", // vim's write probe
}

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// Config holds the parameters for a Watcher
type Config struct {
	// Roots are the directory trees to watch. Each must exist.
	Roots []string

	// Debounce is the quiet period after the last event before OnChange
	// fires.
	Debounce time.Duration

	// OnChange receives the sorted, deduplicated absolute paths that changed
	// during the burst. Errors are logged and do not stop the watcher.
	OnChange func(ctx context.Context, changed []string) error
}

// Watcher monitors Config.Roots. Run must be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   zerolog.Logger
	started  atomic.Bool
}

// New registers every directory under the roots with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Roots) == 0 {
		return nil, stencilerrors.New(stencilerrors.ErrWatch, "no directories to watch")
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, stencilerrors.Wrap(err, stencilerrors.ErrWatch, "failed to create file watcher")
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		debounce: debounce,
		logger:   logging.GetLogger("watch"),
	}

	for _, root := range cfg.Roots {
		if err := w.addTree(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Watched returns the directories currently registered.
func (w *Watcher) Watched() []string {
	list := w.fsw.WatchList()
	sort.Strings(list)
	return list
}

// Run blocks until ctx is cancelled. It returns nil on cancellation and an
// error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return stencilerrors.New(stencilerrors.ErrWatch, "Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains pending and runs the callback. Overlapping bursts are
	// deferred by another debounce period instead of running concurrently.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug().Msg("Previous pass still running, deferring")
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := make([]string, 0, len(pending))
		for p := range pending {
			changed = append(changed, p)
		}
		clear(pending)
		mu.Unlock()

		sort.Strings(changed)
		w.logger.Info().Int("paths", len(changed)).Msg("Change detected")
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error().Err(err).Msg("Watch callback failed")
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("Failed to close file watcher")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return stencilerrors.New(stencilerrors.ErrWatch, "event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			if isIgnored(evt.Name) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddTree(evt.Name)
			}

			w.logger.Trace().Str("path", evt.Name).Str("op", evt.Op.String()).Msg("File event")

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return stencilerrors.New(stencilerrors.ErrWatch, "error channel closed unexpectedly")
			}
			if isFatal(err) {
				return stencilerrors.Wrap(err, stencilerrors.ErrWatch, "file watcher failed")
			}
			w.logger.Warn().Err(err).Msg("File watcher error")
		}
	}
}

func (w *Watcher) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return stencilerrors.Wrapf(err, stencilerrors.ErrWatch, "cannot watch %s", root)
	}
	if !info.IsDir() {
		return stencilerrors.Newf(stencilerrors.ErrWatch, "cannot watch %s: not a directory", root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn().Err(err).Str("path", path).Msg("Skipping inaccessible path")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skippedDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return stencilerrors.Wrapf(err, stencilerrors.ErrWatch, "cannot watch %s", path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.logger.Debug().Str("root", root).Msg("Watching tree")
	return nil
}

// maybeAddTree extends the watch to directories created after startup.
func (w *Watcher) maybeAddTree(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || skippedDirs[filepath.Base(path)] {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch new directory")
	}
}

func isIgnored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range ignoredNames {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// isFatal reports watcher resource exhaustion (inotify watch limit, fd
// limits), after which no further events can be delivered.
func isFatal(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
