// Package romanize routes text to the transducer of its script.
package romanize

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"langromanizer/analyze"
	"langromanizer/errors"
	"langromanizer/hangul"
	"langromanizer/hanzi"
	"langromanizer/model"
	"langromanizer/script"
	"langromanizer/tokenize"
)

// AnalyzerSource hands out the Japanese analyzer once it is initialized.
type AnalyzerSource interface {
	Current() (analyze.Analyzer, error)
}

// Transducer is a synchronous, total romanization function.
type Transducer func(text string) string

// Pair is one romanized line of a batch.
type Pair struct {
	Original  string `json:"original"`
	Romanized string `json:"romanized"`
}

// Option customizes a Router.
type Option func(*Router)

// WithKorean replaces the Korean transducer.
func WithKorean(t Transducer) Option {
	return func(r *Router) { r.korean = t }
}

// WithChinese replaces the Chinese transducer.
func WithChinese(t Transducer) Option {
	return func(r *Router) { r.chinese = t }
}

// Router dispatches runs and line batches to the script transducers.
type Router struct {
	analyzers AnalyzerSource
	korean    Transducer
	chinese   Transducer
	style     model.RomajiStyle
	logger    *slog.Logger
}

// New creates a Router. Korean and Chinese default to the hangul and hanzi
// packages; the romaji style and tone marks come from settings.
func New(analyzers AnalyzerSource, settings model.Settings, logger *slog.Logger, opts ...Option) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	style := settings.JapaneseRomajiStyle
	if style == "" {
		style = model.Hepburn
	}
	r := &Router{
		analyzers: analyzers,
		korean:    hangul.Romanize,
		chinese:   hanzi.Converter{ToneMarks: settings.PinyinToneMarks}.Romanize,
		style:     style,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RomanizeRun romanizes a single run of the given category. Categories
// without a transducer are returned unchanged.
func (r *Router) RomanizeRun(ctx context.Context, text string, category script.Category) (string, error) {
	switch category {
	case script.Japanese:
		res, err := r.analyze(ctx, map[int]string{0: text})
		if err != nil {
			return "", err
		}
		return JoinTokens(res[0]), nil
	case script.Korean:
		return r.korean(text), nil
	case script.Chinese:
		return r.chinese(text), nil
	}
	return text, nil
}

// RomanizeBatch romanizes lines of one category keyed by line index.
// Japanese lines go to the analyzer in a single call, minus any Hangul they
// contain. Korean and Chinese lines are transduced one by one.
func (r *Router) RomanizeBatch(ctx context.Context, lines map[int]string, category script.Category) (map[int]Pair, error) {
	out := make(map[int]Pair, len(lines))
	if len(lines) == 0 {
		return out, nil
	}

	switch category {
	case script.Japanese:
		return r.romanizeJapanese(ctx, lines)
	case script.Korean, script.Chinese:
		for idx, line := range lines {
			out[idx] = Pair{Original: line, Romanized: r.romanizeLine(line)}
		}
	default:
		for idx, line := range lines {
			out[idx] = Pair{Original: line, Romanized: line}
		}
	}
	return out, nil
}

func (r *Router) analyze(ctx context.Context, lines map[int]string) (map[int][]model.Token, error) {
	if r.analyzers == nil {
		return nil, errors.AnalyzerUnavailable(nil)
	}
	a, err := r.analyzers.Current()
	if err != nil {
		return nil, err
	}
	res, err := a.Analyze(ctx, lines, r.style)
	if err != nil {
		return nil, errors.AnalyzerCallFailed(err)
	}
	return res, nil
}

// romanizeJapanese sends the Japanese spans of all lines to the analyzer in
// one call. Hangul inside a Japanese line is cut out of its span and goes
// through the Korean transducer instead.
func (r *Router) romanizeJapanese(ctx context.Context, lines map[int]string) (map[int]Pair, error) {
	type slot struct{ line, span int }

	spans := make(map[int][]tokenize.Run, len(lines))
	batch := make(map[int]string, len(lines))
	slots := make(map[slot]int, len(lines))
	for _, idx := range slices.Sorted(maps.Keys(lines)) {
		spans[idx] = japaneseSpans(lines[idx])
		for i, span := range spans[idx] {
			if span.Category == script.Japanese {
				slots[slot{idx, i}] = len(batch)
				batch[len(batch)] = span.Text
			}
		}
	}

	var res map[int][]model.Token
	if len(batch) > 0 {
		var err error
		if res, err = r.analyze(ctx, batch); err != nil {
			return nil, err
		}
	}

	out := make(map[int]Pair, len(lines))
	for idx, line := range lines {
		romanized := r.joinRuns(spans[idx], func(i int, run tokenize.Run) (string, bool) {
			if k, ok := slots[slot{idx, i}]; ok {
				return JoinTokens(res[k]), true
			}
			return r.transduce(run)
		})
		r.logger.Debug("romanized japanese line", "index", idx, "original", line, "romanized", romanized)
		out[idx] = Pair{Original: line, Romanized: romanized}
	}
	return out, nil
}

// japaneseSpans splits a Japanese line at its Hangul runs. The text between
// them stays in one span so the analyzer sees it in context; a span is
// Japanese only when it holds Japanese text. A line without Hangul comes
// back as a single span.
func japaneseSpans(line string) []tokenize.Run {
	var spans []tokenize.Run
	for _, run := range tokenize.Segment(line) {
		n := len(spans)
		if run.Category == script.Korean || n == 0 || spans[n-1].Category == script.Korean {
			spans = append(spans, run)
			continue
		}
		spans[n-1].Text += run.Text
		if run.Category == script.Japanese {
			spans[n-1].Category = script.Japanese
		}
	}
	return spans
}

// romanizeLine segments a line and applies the synchronous transducers run
// by run, leaving other runs as they are.
func (r *Router) romanizeLine(line string) string {
	return r.joinRuns(tokenize.Segment(line), func(_ int, run tokenize.Run) (string, bool) {
		return r.transduce(run)
	})
}

func (r *Router) transduce(run tokenize.Run) (string, bool) {
	switch run.Category {
	case script.Korean:
		return r.korean(run.Text), true
	case script.Chinese:
		return r.chinese(run.Text), true
	}
	return run.Text, false
}

// joinRuns concatenates the converted runs, putting a space between a
// romanized run and a neighbour it would otherwise fuse with.
func (r *Router) joinRuns(runs []tokenize.Run, convert func(i int, run tokenize.Run) (string, bool)) string {
	var b strings.Builder
	prevRomanized := false
	for i, run := range runs {
		text, romanized := convert(i, run)
		if text == "" {
			continue
		}
		if b.Len() > 0 && (romanized || prevRomanized) && needsGap(b.String(), text) {
			b.WriteByte(' ')
		}
		b.WriteString(text)
		prevRomanized = romanized
	}
	return b.String()
}

// needsGap reports whether two pieces would fuse into one word.
func needsGap(before, after string) bool {
	last, _ := utf8.DecodeLastRuneInString(before)
	first, _ := utf8.DecodeRuneInString(after)
	return isWordRune(last) && isWordRune(first)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// JoinTokens joins the reading of each token, or its surface when it has
// none, with single spaces. Whitespace-only tokens are dropped.
func JoinTokens(tokens []model.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t.Surface) == "" {
			continue
		}
		if t.Reading != "" {
			parts = append(parts, t.Reading)
		} else {
			parts = append(parts, t.Surface)
		}
	}
	return strings.Join(parts, " ")
}
