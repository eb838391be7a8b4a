// Package watch reruns a callback when model files change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultPatterns match the model files read by the loader.
var DefaultPatterns = []string{"*.yaml", "*.yml", "*.json"}

// Watcher monitors model files and calls onChange with the changed paths
// once they settle.
type Watcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	paths     []string
	files     map[string]bool
	patterns  []string
	log       *zap.Logger
	onChange  func([]string) error
	running   sync.Mutex
	stop      chan struct{}
	wg        sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets how long changes settle before onChange runs. Default is
// 100ms.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.debouncer.duration = d
	}
}

// WithPatterns sets the base name patterns matched in watched directories.
func WithPatterns(patterns ...string) Option {
	return func(w *Watcher) {
		w.patterns = patterns
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New returns a watcher for the given files and directories. A file is
// watched through its directory so that editors replacing it are noticed.
func New(paths []string, onChange func([]string) error, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watch: no paths")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	w := &Watcher{
		watcher:   fw,
		debouncer: NewDebouncer(100 * time.Millisecond),
		paths:     paths,
		files:     make(map[string]bool),
		patterns:  DefaultPatterns,
		log:       zap.NewNop(),
		onChange:  onChange,
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer.SetCallback(func(files []string) {
		w.running.Lock()
		defer w.running.Unlock()
		w.log.Info("model changed", zap.Strings("files", files))
		if err := w.onChange(files); err != nil {
			w.log.Error("handle change", zap.Error(err))
		}
	})
	return w, nil
}

// Start adds the watched directories and starts the event loop.
func (w *Watcher) Start() error {
	var dirs []string
	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		dir := abs
		if !info.IsDir() {
			w.files[abs] = true
			dir = filepath.Dir(abs)
		}
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch: watch directory %s: %w", dir, err)
		}
		w.log.Debug("watching directory", zap.String("dir", dir))
	}
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop stops the watcher. Pending changes are dropped.
func (w *Watcher) Stop() error {
	select {
	case <-w.stop:
		return nil
	default:
		close(w.stop)
	}
	w.wg.Wait()
	w.debouncer.Stop()
	return w.watcher.Close()
}

// Run starts the watcher and blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if w.matches(event.Name) {
				w.log.Debug("file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
				w.debouncer.Add(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-w.stop:
			return
		}
	}
}

// matches reports whether path is a watched file, or a model file in a
// watched directory.
func (w *Watcher) matches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if w.files[abs] {
		return true
	}
	base := filepath.Base(abs)
	if strings.HasPrefix(base, ".") {
		return false
	}
	for _, p := range w.paths {
		if pa, err := filepath.Abs(p); err == nil && pa == filepath.Dir(abs) {
			for _, pattern := range w.patterns {
				if ok, _ := filepath.Match(pattern, base); ok {
					return true
				}
			}
		}
	}
	return false
}
