// Package script classifies text by writing system.
package script

import (
	"strings"
	"unicode"
)

// Category is the resolved writing system of a piece of text.
type Category int

const (
	Latin Category = iota
	Chinese
	Japanese
	Korean
	LatinChinese
	LatinJapanese
	LatinKorean
	LatinMixed
	MixedCJK
)

var categoryNames = [...]string{
	Latin:         "latin",
	Chinese:       "chinese",
	Japanese:      "japanese",
	Korean:        "korean",
	LatinChinese:  "latin+chinese",
	LatinJapanese: "latin+japanese",
	LatinKorean:   "latin+korean",
	LatinMixed:    "latin+mixed",
	MixedCJK:      "mixed-cjk",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// IsLatin reports whether no romanization is needed for c.
func (c Category) IsLatin() bool {
	return c == Latin
}

// Flags holds the independent script predicates of a text.
type Flags struct {
	Latin, Han, Kana, Hangul bool
}

// IsKana reports whether r is Hiragana, Katakana or the prolonged sound mark.
func IsKana(r rune) bool {
	return unicode.In(r, unicode.Hiragana, unicode.Katakana) || r == 'ー' || r == 'ｰ'
}

// IsHan reports whether r is a Han ideograph (Kanji, Hanzi, Hanja).
func IsHan(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// IsHangul reports whether r is a Hangul syllable or jamo.
func IsHangul(r rune) bool {
	return unicode.Is(unicode.Hangul, r)
}

// IsLatin reports whether r is a Latin letter.
func IsLatin(r rune) bool {
	return unicode.Is(unicode.Latin, r)
}

// Scan computes the script predicates of text.
func Scan(text string) Flags {
	var f Flags
	for _, r := range text {
		switch {
		case IsKana(r):
			f.Kana = true
		case IsHan(r):
			f.Han = true
		case IsHangul(r):
			f.Hangul = true
		case IsLatin(r):
			f.Latin = true
		}
	}
	return f
}

// Resolve maps predicates to a category, most specific first.
func (f Flags) Resolve() Category {
	cjk := 0
	for _, b := range []bool{f.Han, f.Kana, f.Hangul} {
		if b {
			cjk++
		}
	}

	switch {
	case cjk == 1 && !f.Latin:
		return f.single()
	case cjk == 3 && !f.Latin:
		return MixedCJK
	case cjk == 2 && !f.Latin:
		// Kanji inside kana text is Japanese.
		if f.Han && f.Kana {
			return Japanese
		}
		return MixedCJK
	case f.Latin && cjk == 0:
		return Latin
	case f.Latin && cjk == 1:
		switch f.single() {
		case Chinese:
			return LatinChinese
		case Japanese:
			return LatinJapanese
		default:
			return LatinKorean
		}
	case f.Latin && cjk == 2 && f.Han && f.Kana:
		return LatinJapanese
	case f.Latin:
		return LatinMixed
	}
	return Latin
}

func (f Flags) single() Category {
	switch {
	case f.Kana:
		return Japanese
	case f.Hangul:
		return Korean
	default:
		return Chinese
	}
}

// Classify returns the category of text.
func Classify(text string) Category {
	return Scan(text).Resolve()
}

// ClassifyRune classifies a single character.
func ClassifyRune(r rune) Category {
	switch {
	case IsKana(r):
		return Japanese
	case IsHan(r):
		return Chinese
	case IsHangul(r):
		return Korean
	}
	return Latin
}

// Strip removes digits, punctuation, symbols and whitespace from text.
func Strip(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsMark(r) || r == 'ー' || r == 'ｰ' {
			return r
		}
		return -1
	}, text)
}

// RequiresRomanization reports whether text contains any CJK script once
// punctuation and digits are ignored.
func RequiresRomanization(text string) bool {
	return !Classify(Strip(text)).IsLatin()
}
