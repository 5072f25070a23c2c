// Package hangul romanizes Korean text with the Revised Romanization tables.
package hangul

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	initialBase = 0x1100
	vowelBase   = 0x1161
	finalBase   = 0x11A8

	initialIeung = 0x110B
	initialRieul = 0x1105
	finalRieul   = 0x11AF
	finalIeung   = 0x11BC
)

var initials = [...]string{
	"g", "kk", "n", "d", "tt", "r", "m", "b", "pp",
	"s", "ss", "", "j", "jj", "ch", "k", "t", "p", "h",
}

var vowels = [...]string{
	"a", "ae", "ya", "yae", "eo", "e", "yeo", "ye", "o", "wa", "wae",
	"oe", "yo", "u", "wo", "we", "wi", "yu", "eu", "ui", "i",
}

// finals as pronounced at the end of a syllable.
var finals = [...]string{
	"k", "k", "k", "n", "n", "n", "t", "l", "k", "m", "l", "l", "l", "p",
	"l", "m", "p", "p", "t", "t", "ng", "t", "t", "k", "t", "p", "t",
}

// linked finals carried over to a following syllable that starts with ㅇ.
var linked = [...]string{
	"g", "kk", "gs", "n", "nj", "n", "d", "r", "lg", "lm", "lb", "ls", "lt", "lp",
	"r", "m", "b", "bs", "s", "ss", "ng", "j", "ch", "k", "t", "p", "",
}

// IsHangul reports whether r is a syllable, conjoining jamo or compatibility jamo.
func IsHangul(r rune) bool {
	return (r >= 0xAC00 && r <= 0xD7A3) ||
		(r >= 0x1100 && r <= 0x11FF) ||
		(r >= 0x3131 && r <= 0x318E)
}

// Romanize converts the Hangul in text to Latin letters. Everything else is
// copied unchanged.
func Romanize(text string) string {
	var b strings.Builder
	var run strings.Builder
	flush := func() {
		if run.Len() == 0 {
			return
		}
		b.WriteString(romanizeJamo([]rune(norm.NFKD.String(run.String()))))
		run.Reset()
	}

	for _, r := range text {
		if IsHangul(r) {
			run.WriteRune(r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

// romanizeJamo romanizes a stream of conjoining jamo.
func romanizeJamo(jamo []rune) string {
	var b strings.Builder
	for i, r := range jamo {
		switch {
		case r >= initialBase && r < initialBase+rune(len(initials)):
			if r == initialRieul && i > 0 && jamo[i-1] == finalRieul {
				b.WriteString("l")
				continue
			}
			if r == initialIeung && i > 0 && isFinal(jamo[i-1]) {
				// already voiced by the previous final
				continue
			}
			b.WriteString(initials[r-initialBase])
		case r >= vowelBase && r < vowelBase+rune(len(vowels)):
			b.WriteString(vowels[r-vowelBase])
		case isFinal(r):
			idx := r - finalBase
			if i+1 < len(jamo) && jamo[i+1] == initialIeung && r != finalIeung {
				b.WriteString(linked[idx])
				continue
			}
			b.WriteString(finals[idx])
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isFinal(r rune) bool {
	return r >= finalBase && r < finalBase+rune(len(finals))
}
