// Package session ties the lyrics pipeline to host events: track changes,
// the romanize button and analyzer re-initialization.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/net/html"

	"langromanizer/analyze"
	"langromanizer/display"
	"langromanizer/errors"
	"langromanizer/lyrics"
	"langromanizer/model"
	"langromanizer/store"
	"langromanizer/tokenize"
)

// Presentation exposes the host's lyrics tree once it is mounted.
type Presentation interface {
	Container() (*html.Node, bool)
}

// AnalyzerLoader initializes the Japanese analyzer on demand.
type AnalyzerLoader interface {
	Get(ctx context.Context) (analyze.Analyzer, error)
	Reinitialize(ctx context.Context) (analyze.Analyzer, error)
}

// Config carries the collaborators of a Session.
type Config struct {
	Loader       AnalyzerLoader
	Processor    *lyrics.Processor
	Display      *display.Controller
	Store        store.Store
	Presentation Presentation
	Settings     model.Settings
	InitTimeout  time.Duration
	Logger       *slog.Logger
}

// Session reacts to host events.
type Session struct {
	loader      AnalyzerLoader
	processor   *lyrics.Processor
	display     *display.Controller
	store       store.Store
	pres        Presentation
	settings    model.Settings
	initTimeout time.Duration
	logger      *slog.Logger

	mu    sync.Mutex
	track string
}

// New creates a Session. Store and Presentation are optional.
func New(cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{
		loader:      cfg.Loader,
		processor:   cfg.Processor,
		display:     cfg.Display,
		store:       cfg.Store,
		pres:        cfg.Presentation,
		settings:    cfg.Settings,
		initTimeout: cfg.InitTimeout,
		logger:      cfg.Logger.With("component", "session"),
	}
}

// OnLyrics handles a lyrics delivery. A new track resets the display to
// Original and clears the published map before anything can fail. The published result is stored, then applied as Romanized when
// romanizing by default and the presentation is mounted. Processing errors
// are returned after being logged; none of them are fatal.
func (s *Session) OnLyrics(ctx context.Context, doc *model.LyricDocument) (*lyrics.Result, error) {
	if doc != nil {
		s.trackChanged(doc.TrackID)
		s.processor.BeginTrack(doc.TrackID)
	}
	if doc.Empty() {
		s.logger.Debug("lyrics event without lyrics")
		return nil, nil
	}

	if needsAnalyzer(doc) {
		if err := s.ensureAnalyzer(ctx); err != nil {
			s.logger.Warn("japanese analyzer unavailable, lyrics not romanized", "track", doc.TrackID, "error", err)
			return nil, err
		}
	}

	res, err := s.processor.Process(ctx, doc)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		rec := &store.Record{
			TrackID:  res.Pass.TrackID,
			PassID:   res.Pass.ID.String(),
			Source:   res.Source,
			Document: res.Document,
			Map:      res.Map,
			Skipped:  res.Skipped,
			StoredAt: time.Now().UTC(),
		}
		if err := s.store.Put(ctx, rec); err != nil {
			s.logger.Warn("failed to store lyrics result", "track", rec.TrackID, "error", err)
		}
	}

	if s.settings.RomanizeByDefault && !res.Skipped {
		s.applyIfMounted(model.Romanized)
	}
	return res, nil
}

// PresentationMounted applies the default state once the host has mounted
// its lyrics container.
func (s *Session) PresentationMounted() {
	if s.settings.RomanizeByDefault {
		s.applyIfMounted(model.Romanized)
	}
}

// Toggle flips the displayed representation, as the romanize button does.
func (s *Session) Toggle(ctx context.Context) (model.DisplayState, error) {
	if err := ctx.Err(); err != nil {
		return s.display.State(), err
	}
	root, ok := s.container()
	if !ok {
		err := errors.PresentationNotFound("lyrics container not mounted")
		s.logger.Info("romanize toggle ignored", "error", err)
		return s.display.State(), err
	}
	err := s.display.Toggle(root)
	return s.display.State(), err
}

// Reinitialize drops the Japanese analyzer and initializes it again.
func (s *Session) Reinitialize(ctx context.Context) error {
	ctx, cancel := s.withInitTimeout(ctx)
	defer cancel()
	if _, err := s.loader.Reinitialize(ctx); err != nil {
		s.logger.Warn("japanese analyzer re-initialization failed", "error", err)
		return err
	}
	s.processor.Invalidate()
	return nil
}

// Lookup returns the stored result of a track.
func (s *Session) Lookup(ctx context.Context, trackID string) (*store.Record, error) {
	if s.store == nil {
		return nil, store.ErrNotFound
	}
	return s.store.Get(ctx, trackID)
}

// DisplayState returns the state the presentation is shown in.
func (s *Session) DisplayState() model.DisplayState {
	return s.display.State()
}

func (s *Session) trackChanged(trackID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if trackID == s.track {
		return
	}
	s.logger.Debug("track changed", "track", trackID)
	s.track = trackID
	s.display.ResetForTrack()
}

func (s *Session) ensureAnalyzer(ctx context.Context) error {
	ctx, cancel := s.withInitTimeout(ctx)
	defer cancel()
	_, err := s.loader.Get(ctx)
	return err
}

func (s *Session) withInitTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.initTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.initTimeout)
}

func (s *Session) container() (*html.Node, bool) {
	if s.pres == nil {
		return nil, false
	}
	return s.pres.Container()
}

func (s *Session) applyIfMounted(target model.DisplayState) {
	root, ok := s.container()
	if !ok {
		s.logger.Debug("presentation not mounted yet")
		return
	}
	if err := s.display.Apply(root, target); err != nil {
		s.logger.Warn("failed to apply display state", "state", target, "error", err)
	}
}

// needsAnalyzer reports whether any line of doc is routed to the Japanese
// analyzer, which happens only for lines containing kana.
func needsAnalyzer(doc *model.LyricDocument) bool {
	return tokenize.HasKana(doc.Lyrics) || tokenize.HasKana(doc.Subtitles)
}
