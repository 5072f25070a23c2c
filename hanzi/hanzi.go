// Package hanzi romanizes Chinese characters to pinyin.
package hanzi

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-pinyin"

	"langromanizer/script"
)

// Converter turns Han characters into pinyin syllables. Heteronyms are
// disabled: every character gets its default reading.
type Converter struct {
	ToneMarks bool
}

func (c Converter) args() pinyin.Args {
	a := pinyin.NewArgs()
	a.Heteronym = false
	if c.ToneMarks {
		a.Style = pinyin.Tone
	} else {
		a.Style = pinyin.Normal
	}
	return a
}

// Syllables returns one syllable per Han character of text, ignoring the rest.
func (c Converter) Syllables(text string) []string {
	return pinyin.LazyPinyin(text, c.args())
}

// Romanize replaces each Han character of text with its syllable. Syllables
// are separated from each other and from adjacent words by one space; all
// other characters are kept as they are.
func (c Converter) Romanize(text string) string {
	a := c.args()
	var (
		b            strings.Builder
		prevSyllable bool
		last         rune
	)
	for _, r := range text {
		if !script.IsHan(r) {
			if prevSyllable && isWordRune(r) {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			prevSyllable = false
			last = r
			continue
		}

		syl := string(r)
		if s := pinyin.SinglePinyin(r, a); len(s) > 0 && s[0] != "" {
			syl = s[0]
		}
		if b.Len() > 0 && (prevSyllable || isWordRune(last)) {
			b.WriteByte(' ')
		}
		b.WriteString(syl)
		prevSyllable = true
		last, _ = utf8.DecodeLastRuneInString(syl)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
