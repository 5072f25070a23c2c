package lyrics

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"langromanizer/errors"
	"langromanizer/model"
	"langromanizer/romanize"
	"langromanizer/script"
	"langromanizer/tokenize"
)

// BatchRouter romanizes a batch of lines of one category.
type BatchRouter interface {
	RomanizeBatch(ctx context.Context, lines map[int]string, category script.Category) (map[int]romanize.Pair, error)
}

// Dumper receives pass results for debugging when ShowDebugLog is set.
type Dumper interface {
	Dump(name string, v any) error
}

// Processor turns lyric documents into romanized documents. Only the
// newest pass may publish; older passes that finish late are discarded.
type Processor struct {
	router   BatchRouter
	settings model.Settings
	logger   *slog.Logger
	dumper   Dumper
	now      func() time.Time

	mu           sync.Mutex
	currentPass  uuid.UUID
	currentTrack string
	phase        Phase
	published    *Result
}

// Option customizes a Processor.
type Option func(*Processor)

// WithDumper sets where debug dumps of pass results go.
func WithDumper(d Dumper) Option {
	return func(p *Processor) { p.dumper = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// NewProcessor creates a Processor in the Idle phase.
func NewProcessor(router BatchRouter, settings model.Settings, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		router:   router,
		settings: settings,
		logger:   logger.With("component", "lyrics"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Phase returns the phase of the newest pass.
func (p *Processor) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Current returns the published result, or nil.
func (p *Processor) Current() *Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.published
}

// CurrentMap returns a copy of the published romanization map.
func (p *Processor) CurrentMap() (model.RomanizationMap, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.published == nil {
		return nil, false
	}
	return maps.Clone(p.published.Map), true
}

// Invalidate forgets the published result so that the next Process call
// for the same document runs a fresh pass.
func (p *Processor) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = nil
	p.phase = Idle
}

// BeginTrack makes trackID the current target before any pass for it has
// started. When the track differs from the current one the published result
// is cleared and passes still running for the old track can no longer
// publish.
func (p *Processor) BeginTrack(trackID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if trackID == p.currentTrack {
		return
	}
	p.logger.Debug("track changed", "from", p.currentTrack, "to", trackID)
	p.currentTrack = trackID
	p.currentPass = uuid.New()
	p.published = nil
	p.phase = Idle
}

// Process runs a pass over doc. A nil or empty document is skipped
// silently and returns (nil, nil). A document identical to the one already
// published returns the published result without any work. Errors abort
// the pass and leave the published map untouched.
func (p *Processor) Process(ctx context.Context, doc *model.LyricDocument) (res *Result, err error) {
	if doc.Empty() {
		p.logger.Debug("no lyrics to process")
		return nil, nil
	}
	source := StripAugmented(*doc)

	pass, cached := p.begin(source, *doc)
	if cached != nil {
		p.logger.Debug("lyrics already processed", "track", doc.TrackID)
		return cached, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lyrics pass panicked: %v", r)
		}
		if err != nil && !errors.Is(err, errors.ErrStalePass) {
			p.logger.Error("error processing lyrics", "track", pass.TrackID, "pass", pass.ID, "error", err)
		}
	}()

	res, err = p.run(ctx, &pass, source)
	if err != nil {
		return nil, err
	}
	if err := p.publish(res); err != nil {
		p.logger.Info("discarding stale lyrics pass", "track", pass.TrackID, "pass", pass.ID)
		return nil, err
	}
	p.dump(res)
	return res, nil
}

// begin registers a new pass as the current target. On track change the
// published result is cleared before any work starts.
func (p *Processor) begin(source, delivered model.LyricDocument) (Pass, *Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pub := p.published; pub != nil && pub.Pass.TrackID == source.TrackID &&
		(pub.Source == source || pub.Document == delivered) {
		return Pass{}, pub
	}

	if source.TrackID != p.currentTrack {
		p.logger.Debug("track changed", "from", p.currentTrack, "to", source.TrackID)
		p.published = nil
	}

	pass := Pass{
		ID:        uuid.New(),
		TrackID:   source.TrackID,
		Phase:     Idle,
		Settings:  p.settings,
		StartedAt: p.now(),
	}
	p.currentPass = pass.ID
	p.currentTrack = source.TrackID
	p.phase = Idle
	return pass, nil
}

func (p *Processor) setPhase(pass *Pass, phase Phase) {
	pass.Phase = phase
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.currentPass == pass.ID {
		p.phase = phase
	}
}

func (p *Processor) publish(res *Result) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if res.Pass.ID != p.currentPass {
		return errors.StalePass(res.Pass.TrackID, p.currentTrack)
	}
	p.published = res
	p.phase = res.Pass.Phase
	return nil
}

func (p *Processor) run(ctx context.Context, pass *Pass, doc model.LyricDocument) (*Result, error) {
	p.setPhase(pass, Classifying)
	if !script.RequiresRomanization(doc.Lyrics) {
		p.setPhase(pass, Skipped)
		p.logger.Info("lyrics need no romanization", "track", doc.TrackID)
		return &Result{
			Pass:     *pass,
			Source:   doc,
			Document: doc,
			Map:      model.RomanizationMap{},
			Skipped:  true,
		}, nil
	}

	p.setPhase(pass, Segmenting)
	groups, categories := segmentDocument(doc)

	p.setPhase(pass, Routing)
	batches, err := p.route(ctx, groups)
	if err != nil {
		return nil, err
	}

	p.setPhase(pass, Merging)
	lines := make([]LineResult, 0, len(categories))
	for _, idx := range slices.Sorted(maps.Keys(categories)) {
		pair, ok := batches[idx]
		if !ok {
			return nil, fmt.Errorf("line %d missing from %s batch", idx, categories[idx])
		}
		lines = append(lines, LineResult{
			Index:     idx,
			Category:  categories[idx],
			Original:  pair.Original,
			Romanized: pair.Romanized,
		})
	}

	m := make(model.RomanizationMap, len(lines))
	for _, l := range lines {
		if l.Romanized == "" {
			continue
		}
		m[strings.TrimSpace(l.Original)] = l.Romanized
	}

	if pass.Settings.ShowDebugLog {
		p.trace(doc, lines)
	}

	p.setPhase(pass, Done)
	p.logger.Info("lyrics processed successfully", "track", doc.TrackID, "lines", len(m))
	return &Result{
		Pass:     *pass,
		Source:   doc,
		Document: Augment(doc, m),
		Map:      m,
		Lines:    lines,
	}, nil
}

// trace logs "timestamp - original - romanized" for every Japanese
// subtitle line.
func (p *Processor) trace(doc model.LyricDocument, lines []LineResult) {
	japanese := make(map[string]string)
	for _, l := range lines {
		if l.Category == script.Japanese {
			japanese[l.Original] = l.Romanized
		}
	}
	for _, line := range splitLines(doc.Subtitles) {
		stamp, text, ok := StripTimestamp(line)
		if !ok {
			continue
		}
		if rom, ok := japanese[text]; ok {
			p.logger.Debug(strings.TrimSpace(stamp) + " - " + text + " - " + rom)
		}
	}
}

// segmentDocument collects the distinct non-Latin lines of the lyrics and
// of the timestamp-stripped subtitles and groups them by category. Each
// distinct text is keyed by the index of its first occurrence.
func segmentDocument(doc model.LyricDocument) (map[script.Category]map[int]string, map[int]script.Category) {
	groups := make(map[script.Category]map[int]string)
	categories := make(map[int]script.Category)
	seen := make(map[string]bool)

	idx := 0
	add := func(text string) {
		defer func() { idx++ }()
		text = strings.TrimSpace(text)
		if text == "" || seen[text] || IsHiddenMarker(text) {
			return
		}
		seen[text] = true
		cat := tokenize.LineCategory(text)
		if cat.IsLatin() {
			return
		}
		if groups[cat] == nil {
			groups[cat] = make(map[int]string)
		}
		groups[cat][idx] = text
		categories[idx] = cat
	}

	for _, line := range splitLines(doc.Lyrics) {
		add(line)
	}
	for _, line := range splitLines(doc.Subtitles) {
		if _, text, ok := StripTimestamp(line); ok {
			add(text)
		} else {
			idx++
		}
	}
	return groups, categories
}

// route runs one batch per category concurrently and waits for all of them.
func (p *Processor) route(ctx context.Context, groups map[script.Category]map[int]string) (map[int]romanize.Pair, error) {
	var (
		mu  sync.Mutex
		out = make(map[int]romanize.Pair)
	)
	g, gctx := errgroup.WithContext(ctx)
	for cat, lines := range groups {
		g.Go(func() error {
			res, err := p.router.RomanizeBatch(gctx, lines, cat)
			if err != nil {
				return fmt.Errorf("romanize %s batch: %w", cat, err)
			}
			mu.Lock()
			defer mu.Unlock()
			for idx, pair := range res {
				out[idx] = pair
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Processor) dump(res *Result) {
	if !res.Pass.Settings.ShowDebugLog || p.dumper == nil {
		return
	}
	if err := p.dumper.Dump(res.Pass.TrackID+"_"+res.Pass.ID.String(), res); err != nil {
		p.logger.Warn("failed to dump lyrics pass", "error", err)
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
