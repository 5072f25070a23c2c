package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"langromanizer/model"
)

// DefaultSettleDelay is how long a file must stay unchanged before it is read.
const DefaultSettleDelay = 100 * time.Millisecond

// Event is a lyric document read from a file that was written.
type Event struct {
	Path     string
	Document *model.LyricDocument
}

// Watcher emits an Event for every supported file written into a directory,
// after the file has settled.
type Watcher struct {
	logger  *slog.Logger
	settle  time.Duration
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer

	events chan Event
	errors chan error
	done   chan struct{}
	once   sync.Once
}

// NewWatcher creates a Watcher. A zero settle delay uses DefaultSettleDelay.
func NewWatcher(logger *slog.Logger, settle time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &Watcher{
		logger:  logger.With("component", "ingest"),
		settle:  settle,
		watcher: fw,
		pending: make(map[string]*time.Timer),
		events:  make(chan Event, 16),
		errors:  make(chan error, 4),
		done:    make(chan struct{}),
	}, nil
}

// Watch adds a directory to be monitored.
func (w *Watcher) Watch(dir string) error {
	dir = filepath.Clean(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add watch: %w", err)
	}
	w.logger.Debug("added watch", "path", dir)
	return nil
}

// Events returns the channel of documents read from written files.
func (w *Watcher) Events() <-chan Event { return w.events }

// Errors returns the channel of watch and read errors.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Run processes file system events until ctx is done or Stop is called.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	path := ev.Name
	if strings.HasPrefix(filepath.Base(path), ".") || !Supported(path) {
		return
	}
	switch {
	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		w.cancel(path)
	case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
		w.schedule(path)
	}
}

// schedule (re)starts the settle timer of path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() { w.settled(path) })
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) settled(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	doc, err := ReadFile(path)
	if err != nil {
		w.logger.Warn("failed to read lyrics file", "path", path, "error", err)
		w.emitError(err)
		return
	}
	w.logger.Info("lyrics file ingested", "path", path, "track", doc.TrackID)
	select {
	case w.events <- Event{Path: path, Document: doc}:
	case <-w.done:
	}
}

func (w *Watcher) emitError(err error) {
	select {
	case w.errors <- err:
	case <-w.done:
	default:
		w.logger.Warn("dropping watcher error", "error", err)
	}
}

// Stop stops the watcher and releases its resources. Pending files are
// dropped.
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		for _, t := range w.pending {
			t.Stop()
		}
		clear(w.pending)
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
