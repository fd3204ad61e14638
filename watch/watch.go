// Package watch reloads a compiled model whenever its source file changes.
//
// The current model is swapped as a whole. Readers holding the previous
// model keep using it; they never observe a partially built one.
package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eak1mov/go-libworld/world"
	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 100 * time.Millisecond

// LoadFunc builds a model from the file at path.
type LoadFunc func(path string) (*world.LevelModel, error)

type reloaderOptions struct {
	debounce time.Duration
	logger   *slog.Logger
}

type Option func(*reloaderOptions)

// WithDebounce sets how long the file must stay quiet before it is reloaded.
func WithDebounce(d time.Duration) Option {
	return func(o *reloaderOptions) {
		o.debounce = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *reloaderOptions) {
		o.logger = logger
	}
}

type Reloader struct {
	path     string
	load     LoadFunc
	options  reloaderOptions
	watcher  *fsnotify.Watcher
	current  atomic.Pointer[world.LevelModel]
	reloaded chan struct{}
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewReloader loads path once and then watches it. The first load must
// succeed; later failures keep the previous model.
func NewReloader(path string, load LoadFunc, opts ...Option) (*Reloader, error) {
	options := reloaderOptions{
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&options)
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("libworld: watch %s: %w", path, err)
	}
	model, err := load(path)
	if err != nil {
		return nil, err
	}

	// Editors replace files on save, so the directory is watched instead of the file.
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("libworld: watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("libworld: watch %s: %w", path, err)
	}

	r := &Reloader{
		path:     path,
		load:     load,
		options:  options,
		watcher:  w,
		reloaded: make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	r.current.Store(model)
	go r.run()
	return r, nil
}

// Current returns the latest successfully loaded model.
func (r *Reloader) Current() *world.LevelModel {
	return r.current.Load()
}

// Reloaded receives a value after each successful reload. Notifications that
// nobody has received yet are coalesced.
func (r *Reloader) Reloaded() <-chan struct{} {
	return r.reloaded
}

func (r *Reloader) Close() error {
	var err error
	r.once.Do(func() {
		close(r.closeCh)
		err = r.watcher.Close()
		<-r.done
	})
	return err
}

func (r *Reloader) run() {
	defer close(r.done)

	timer := time.NewTimer(r.options.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			timer.Reset(r.options.debounce)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.options.logger.Warn("libworld: watch error", "path", r.path, "error", err)
		case <-timer.C:
			r.reload()
		case <-r.closeCh:
			return
		}
	}
}

func (r *Reloader) reload() {
	start := time.Now()
	model, err := r.load(r.path)
	if err != nil {
		r.options.logger.Warn("libworld: reload failed, keeping previous model", "path", r.path, "error", err)
		return
	}
	r.current.Store(model)
	r.options.logger.Info("libworld: model reloaded", "path", r.path, "rooms", len(model.Rooms), "elapsed", time.Since(start))

	select {
	case r.reloaded <- struct{}{}:
	default:
	}
}
