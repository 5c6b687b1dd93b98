package levelio

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"

	"github.com/samdwyer/dungeonbuilder/internal/world"
)

const (
	debounce      = 100 * time.Millisecond
	reloadRetries = 5
)

// Watcher re-imports a level file whenever it changes on disk.
// Editors often write a file in several steps, so a reload that fails to parse
// is retried with exponential backoff before the error is reported.
type Watcher struct {
	path    string
	opts    Options
	watcher *fsnotify.Watcher
	Levels  chan *world.Level
	Errors  chan error

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewWatcher starts watching the level file at path.
// The containing directory is watched so that atomic renames are seen.
func NewWatcher(path string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:    abs,
		opts:    opts,
		watcher: fw,
		Levels:  make(chan *world.Level, 1),
		Errors:  make(chan error, 1),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. The Levels and Errors channels are closed once it returns.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Errors)
	defer close(w.Levels)

	var last time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			now := time.Now()
			if now.Sub(last) < debounce {
				continue
			}
			last = now

			lvl, err := w.reload()
			if err != nil {
				w.send(nil, err)
				continue
			}
			w.send(lvl, nil)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(nil, err)
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *Watcher) send(lvl *world.Level, err error) {
	if err != nil {
		select {
		case w.Errors <- err:
		case <-w.ctx.Done():
		}
		return
	}
	select {
	case w.Levels <- lvl:
	case <-w.ctx.Done():
	}
}

// reload decodes the file, retrying while it is missing or only partly written.
func (w *Watcher) reload() (*world.Level, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond

	return backoff.Retry(w.ctx, func() (*world.Level, error) {
		lvl, err := LoadFile(w.ctx, w.path, w.opts)
		if errors.Is(err, ErrInvalid) {
			return nil, backoff.Permanent(err)
		}
		return lvl, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(reloadRetries))
}
