package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/ikawaha/kagome/v2/tokenizer"

	"langromanizer/dictionary"
	"langromanizer/kanji"
	"langromanizer/model"
)

// Analyzer is the Japanese morphological analysis capability. One call
// handles a whole batch of lines keyed by line index.
type Analyzer interface {
	Analyze(ctx context.Context, lines map[int]string, style model.RomajiStyle) (map[int][]model.Token, error)
}

// Kagome analyzes Japanese with the kagome tokenizer.
type Kagome struct {
	t      *tokenizer.Tokenizer
	logger *slog.Logger
}

// NewKagome builds a tokenizer over the named system dictionary.
func NewKagome(dictName string, logger *slog.Logger) (*Kagome, error) {
	d, err := dictionary.Load(dictName)
	if err != nil {
		return nil, err
	}
	t, err := tokenizer.New(d, tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("create tokenizer: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Kagome{t: t, logger: logger}, nil
}

// Analyze tokenizes each line with its whitespace removed and transcribes
// every token's pronunciation to romaji in the requested style.
func (k *Kagome) Analyze(ctx context.Context, lines map[int]string, style model.RomajiStyle) (map[int][]model.Token, error) {
	out := make(map[int][]model.Token, len(lines))
	for _, idx := range slices.Sorted(maps.Keys(lines)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ktoks := k.t.Tokenize(StripSpaces(lines[idx]))
		out[idx] = convertKagomeTokens(ktoks, style)
	}
	k.logger.Debug("analyzed batch", "lines", len(lines), "style", style)
	return out, nil
}

func convertKagomeTokens(ktoks []tokenizer.Token, style model.RomajiStyle) []model.Token {
	out := make([]model.Token, 0, len(ktoks))
	for _, kt := range ktoks {
		if kt.Class == tokenizer.DUMMY {
			continue
		}
		kana, ok := kt.Pronunciation()
		if !ok || kana == "" || kana == "*" {
			kana, ok = kt.Reading()
		}
		t := model.Token{Surface: kt.Surface}
		switch {
		case ok && kana != "" && kana != "*":
			t.Reading = kanji.ToRomaji(kana, style)
		case kanji.AllKana(kt.Surface):
			// unknown words spelled in kana read as written
			t.Reading = kanji.ToRomaji(kt.Surface, style)
		}
		out = append(out, t)
	}
	return out
}

// StripSpaces removes all whitespace from text.
func StripSpaces(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}
