package analyze

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"langromanizer/errors"
)

// State is the initialization state of a Loader.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Factory builds an Analyzer. It is called at most once per attempt.
type Factory func(ctx context.Context) (Analyzer, error)

// KagomeFactory returns a Factory building a Kagome analyzer over dictName.
func KagomeFactory(dictName string, logger *slog.Logger) Factory {
	return func(context.Context) (Analyzer, error) {
		return NewKagome(dictName, logger)
	}
}

// Loader initializes the analyzer once and shares the result. Concurrent
// callers share one in-flight attempt; a failed attempt leaves the loader
// in Failed so that the next Get starts a fresh one.
type Loader struct {
	factory Factory
	logger  *slog.Logger
	group   singleflight.Group

	mu       sync.Mutex
	state    State
	analyzer Analyzer
	lastErr  error
}

// NewLoader creates a Loader in the Uninitialized state.
func NewLoader(factory Factory, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{factory: factory, logger: logger}
}

// State returns the current state and the error of the last failed attempt.
func (l *Loader) State() (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.lastErr
}

// Current returns the analyzer without initializing it.
func (l *Loader) Current() (Analyzer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Ready {
		return nil, errors.AnalyzerUnavailable(l.lastErr)
	}
	return l.analyzer, nil
}

// Get returns the analyzer, initializing it if needed. The shared attempt
// is detached from ctx so one impatient caller does not fail the others.
func (l *Loader) Get(ctx context.Context) (Analyzer, error) {
	l.mu.Lock()
	if l.state == Ready {
		a := l.analyzer
		l.mu.Unlock()
		return a, nil
	}
	l.state = Initializing
	l.mu.Unlock()

	ch := l.group.DoChan("init", func() (any, error) {
		l.mu.Lock()
		if l.state == Ready {
			a := l.analyzer
			l.mu.Unlock()
			return a, nil
		}
		l.mu.Unlock()

		l.logger.Info("initializing japanese analyzer")
		a, err := l.factory(context.WithoutCancel(ctx))

		l.mu.Lock()
		defer l.mu.Unlock()
		if err != nil {
			l.state = Failed
			l.analyzer = nil
			l.lastErr = err
			l.logger.Warn("japanese analyzer initialization failed", "error", err)
			return nil, err
		}
		l.state = Ready
		l.analyzer = a
		l.lastErr = nil
		l.logger.Info("japanese analyzer ready")
		return a, nil
	})

	select {
	case <-ctx.Done():
		return nil, errors.AnalyzerUnavailable(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, errors.AnalyzerUnavailable(res.Err)
		}
		return res.Val.(Analyzer), nil
	}
}

// Reset drops any cached analyzer so the next Get initializes again.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = Uninitialized
	l.analyzer = nil
	l.lastErr = nil
}

// Reinitialize resets the loader and initializes it again.
func (l *Loader) Reinitialize(ctx context.Context) (Analyzer, error) {
	l.Reset()
	return l.Get(ctx)
}
