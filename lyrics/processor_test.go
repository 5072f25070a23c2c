package lyrics

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"langromanizer/analyze"
	"langromanizer/errors"
	"langromanizer/model"
	"langromanizer/romanize"
)

// readingAnalyzer returns one token per line whose reading comes from a
// fixed table. block, when set, is waited on before answering.
type readingAnalyzer struct {
	readings map[string]string
	err      error
	block    chan struct{}
	entered  chan struct{}

	calls atomic.Int32
	mu    sync.Mutex
	seen  []map[int]string
}

func (a *readingAnalyzer) Analyze(ctx context.Context, lines map[int]string, _ model.RomajiStyle) (map[int][]model.Token, error) {
	a.calls.Add(1)
	a.mu.Lock()
	a.seen = append(a.seen, lines)
	a.mu.Unlock()

	if a.entered != nil {
		a.entered <- struct{}{}
	}
	if a.block != nil {
		select {
		case <-a.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.err != nil {
		return nil, a.err
	}
	out := make(map[int][]model.Token, len(lines))
	for idx, line := range lines {
		out[idx] = []model.Token{{Surface: line, Reading: a.readings[line]}}
	}
	return out, nil
}

type fixedSource struct{ a analyze.Analyzer }

func (s fixedSource) Current() (analyze.Analyzer, error) { return s.a, nil }

type recordingDumper struct {
	mu    sync.Mutex
	names []string
}

func (d *recordingDumper) Dump(name string, _ any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names = append(d.names, name)
	return nil
}

func newProcessor(a analyze.Analyzer, settings model.Settings, opts ...Option) *Processor {
	router := romanize.New(fixedSource{a: a}, settings, nil)
	return NewProcessor(router, settings, nil, opts...)
}

var japaneseReadings = map[string]string{
	"こんにちは":  "konnichiwa",
	"君の名は":   "kimi no na wa",
	"夜に駆ける":  "yoru ni kakeru",
}

func TestProcess_MixedScriptsOneBatchPerCategory(t *testing.T) {
	a := &readingAnalyzer{readings: japaneseReadings}
	p := newProcessor(a, model.DefaultSettings())

	res, err := p.Process(context.Background(), &model.LyricDocument{
		TrackID: "t1",
		Lyrics:  "こんにちは\n안녕\n你好\nhello",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RomanizationMap{
		"こんにちは": "konnichiwa",
		"안녕":    "annyeong",
		"你好":    "ni hao",
	}, res.Map)
	assert.Equal(t, int32(1), a.calls.Load())
	assert.Equal(t, map[int]string{0: "こんにちは"}, a.seen[0], "only Japanese lines reach the analyzer")
	assert.Equal(t, Done, p.Phase())

	require.Len(t, res.Lines, 3)
	for i, want := range []int{0, 1, 2} {
		assert.Equal(t, want, res.Lines[i].Index)
	}
}

func TestProcess_AugmentsLyricsAndSubtitles(t *testing.T) {
	p := newProcessor(nil, model.DefaultSettings())

	res, err := p.Process(context.Background(), &model.LyricDocument{
		TrackID:   "t1",
		Lyrics:    "안녕\nhello",
		Subtitles: "[00:01.00] 안녕\n[00:02.00] hello",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RomanizationMap{"안녕": "annyeong"}, res.Map)
	assert.Equal(t, "안녕"+model.Separator+"annyeong\nhello", res.Document.Lyrics)

	subs := strings.Split(res.Document.Subtitles, "\n")
	require.Len(t, subs, 2)
	assert.Equal(t, "[00:01.00] 안녕"+model.Separator+"annyeong", subs[0])
	assert.Equal(t, "[00:02.00] hello", subs[1])
}

func TestProcess_SubtitleOnlyLines(t *testing.T) {
	p := newProcessor(nil, model.DefaultSettings())

	res, err := p.Process(context.Background(), &model.LyricDocument{
		TrackID:   "t1",
		Lyrics:    "사랑",
		Subtitles: "[00:01.00] 사랑\n[00:03.50] 你好\nno timestamp 세상",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RomanizationMap{"사랑": "sarang", "你好": "ni hao"}, res.Map)
}

func TestProcess_DuplicateLinesAreDeterministic(t *testing.T) {
	doc := &model.LyricDocument{TrackID: "t1", Lyrics: "안녕\n 안녕 \n你好\n안녕"}

	var first []LineResult
	for i := range 5 {
		p := newProcessor(nil, model.DefaultSettings())
		res, err := p.Process(context.Background(), doc)
		require.NoError(t, err)
		if i == 0 {
			first = res.Lines
			continue
		}
		assert.Equal(t, first, res.Lines)
	}

	require.Len(t, first, 2)
	assert.Equal(t, 0, first[0].Index)
	assert.Equal(t, 2, first[1].Index)
}

func TestProcess_LatinDocumentSkipped(t *testing.T) {
	a := &readingAnalyzer{}
	p := newProcessor(a, model.DefaultSettings())

	doc := &model.LyricDocument{TrackID: "t1", Lyrics: "hello\nworld 123!"}
	res, err := p.Process(context.Background(), doc)
	require.NoError(t, err)

	assert.True(t, res.Skipped)
	assert.Empty(t, res.Map)
	assert.Equal(t, *doc, res.Document)
	assert.Equal(t, Skipped, p.Phase())
	assert.Equal(t, int32(0), a.calls.Load())
}

func TestProcess_EmptyDocument(t *testing.T) {
	p := newProcessor(nil, model.DefaultSettings())

	res, err := p.Process(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, res)

	res, err = p.Process(context.Background(), &model.LyricDocument{TrackID: "t1", Lyrics: "  \n"})
	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, Idle, p.Phase())
}

func TestProcess_HiddenMarkerIgnored(t *testing.T) {
	p := newProcessor(nil, model.DefaultSettings())

	res, err := p.Process(context.Background(), &model.LyricDocument{
		TrackID: "t1",
		Lyrics:  HiddenMarker + "\n안녕",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RomanizationMap{"안녕": "annyeong"}, res.Map)
}

func TestProcess_Idempotent(t *testing.T) {
	a := &readingAnalyzer{readings: japaneseReadings}
	p := newProcessor(a, model.DefaultSettings())
	doc := &model.LyricDocument{TrackID: "t1", Lyrics: "君の名は"}

	first, err := p.Process(context.Background(), doc)
	require.NoError(t, err)

	again, err := p.Process(context.Background(), doc)
	require.NoError(t, err)
	assert.Same(t, first, again)

	augmented := first.Document
	again, err = p.Process(context.Background(), &augmented)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, int32(1), a.calls.Load())

	p.Invalidate()
	_, ok := p.CurrentMap()
	assert.False(t, ok)

	_, err = p.Process(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, int32(2), a.calls.Load())
}

func TestProcess_StalePassDiscarded(t *testing.T) {
	a := &readingAnalyzer{
		readings: japaneseReadings,
		block:    make(chan struct{}),
		entered:  make(chan struct{}, 1),
	}
	p := newProcessor(a, model.DefaultSettings())

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := p.Process(context.Background(), &model.LyricDocument{TrackID: "a", Lyrics: "夜に駆ける"})
		done <- outcome{res, err}
	}()

	select {
	case <-a.entered:
	case <-time.After(time.Second):
		t.Fatal("analyzer was not called")
	}

	res, err := p.Process(context.Background(), &model.LyricDocument{TrackID: "b", Lyrics: "안녕"})
	require.NoError(t, err)
	assert.Equal(t, "b", res.Pass.TrackID)

	close(a.block)
	got := <-done
	assert.Nil(t, got.res)
	assert.True(t, errors.Is(got.err, errors.ErrStalePass))

	m, ok := p.CurrentMap()
	require.True(t, ok)
	assert.Equal(t, model.RomanizationMap{"안녕": "annyeong"}, m)
	assert.Equal(t, "b", p.Current().Pass.TrackID)
}

func TestProcess_AnalyzerFailureLeavesMapUntouched(t *testing.T) {
	a := &readingAnalyzer{readings: japaneseReadings}
	p := newProcessor(a, model.DefaultSettings())

	_, err := p.Process(context.Background(), &model.LyricDocument{TrackID: "t1", Lyrics: "こんにちは"})
	require.NoError(t, err)

	a.err = fmt.Errorf("dictionary gone")
	_, err = p.Process(context.Background(), &model.LyricDocument{TrackID: "t1", Lyrics: "君の名は"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAnalyzerCallFailed))

	m, ok := p.CurrentMap()
	require.True(t, ok)
	assert.Equal(t, model.RomanizationMap{"こんにちは": "konnichiwa"}, m)
}

func TestProcess_AnalyzerFailureOnNewTrack(t *testing.T) {
	a := &readingAnalyzer{readings: japaneseReadings}
	p := newProcessor(a, model.DefaultSettings())

	_, err := p.Process(context.Background(), &model.LyricDocument{TrackID: "t1", Lyrics: "こんにちは"})
	require.NoError(t, err)

	a.err = fmt.Errorf("dictionary gone")
	_, err = p.Process(context.Background(), &model.LyricDocument{TrackID: "t2", Lyrics: "君の名は"})
	require.Error(t, err)

	_, ok := p.CurrentMap()
	assert.False(t, ok, "track change clears the previous map before work starts")
}

func TestBeginTrack(t *testing.T) {
	a := &readingAnalyzer{
		readings: japaneseReadings,
		block:    make(chan struct{}),
		entered:  make(chan struct{}, 1),
	}
	p := newProcessor(a, model.DefaultSettings())

	done := make(chan error, 1)
	go func() {
		_, err := p.Process(context.Background(), &model.LyricDocument{TrackID: "a", Lyrics: "夜に駆ける"})
		done <- err
	}()
	select {
	case <-a.entered:
	case <-time.After(time.Second):
		t.Fatal("analyzer was not called")
	}

	p.BeginTrack("a")
	p.BeginTrack("b")
	close(a.block)
	assert.True(t, errors.Is(<-done, errors.ErrStalePass))

	_, ok := p.CurrentMap()
	assert.False(t, ok)
	assert.Equal(t, Idle, p.Phase())
}

func TestBeginTrack_SameTrackKeepsMap(t *testing.T) {
	p := newProcessor(nil, model.DefaultSettings())

	_, err := p.Process(context.Background(), &model.LyricDocument{TrackID: "t1", Lyrics: "안녕"})
	require.NoError(t, err)

	p.BeginTrack("t1")
	m, ok := p.CurrentMap()
	require.True(t, ok)
	assert.Equal(t, model.RomanizationMap{"안녕": "annyeong"}, m)
}

func TestProcess_DumpsWhenDebugEnabled(t *testing.T) {
	settings := model.DefaultSettings()
	settings.ShowDebugLog = true
	d := &recordingDumper{}
	p := newProcessor(nil, settings, WithDumper(d))

	res, err := p.Process(context.Background(), &model.LyricDocument{
		TrackID:   "t1",
		Lyrics:    "안녕",
		Subtitles: "[00:01.00] 안녕",
	})
	require.NoError(t, err)

	require.Len(t, d.names, 1)
	assert.Equal(t, "t1_"+res.Pass.ID.String(), d.names[0])
}

func TestSplitAugmented(t *testing.T) {
	orig, rom, ok := SplitAugmented("안녕" + model.Separator + "annyeong")
	assert.True(t, ok)
	assert.Equal(t, "안녕", orig)
	assert.Equal(t, "annyeong", rom)

	orig, _, ok = SplitAugmented("hello")
	assert.False(t, ok)
	assert.Equal(t, "hello", orig)
}

func TestAugment_CRLF(t *testing.T) {
	doc := model.LyricDocument{
		TrackID:   "t1",
		Lyrics:    "안녕\r\nhello\r\n",
		Subtitles: "[00:01.00] 안녕\r\n",
	}
	got := Augment(doc, model.RomanizationMap{"안녕": "annyeong"})

	assert.Equal(t, "안녕"+model.Separator+"annyeong\nhello\n", got.Lyrics)
	assert.Equal(t, "[00:01.00] 안녕"+model.Separator+"annyeong\n", got.Subtitles)
}

func TestStripAugmented(t *testing.T) {
	doc := model.LyricDocument{
		TrackID:   "t1",
		Lyrics:    "안녕" + model.Separator + "annyeong\nhello",
		Subtitles: "[00:01.00] 안녕" + model.Separator + "annyeong",
	}
	got := StripAugmented(doc)
	assert.Equal(t, "안녕\nhello", got.Lyrics)
	assert.Equal(t, "[00:01.00] 안녕", got.Subtitles)
}
