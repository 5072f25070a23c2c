package kanji

import (
	"strings"

	"langromanizer/model"
)

// base syllables in Hepburn; styleOverrides patches them per style.
var monographs = map[rune]string{
	'あ': "a", 'い': "i", 'う': "u", 'え': "e", 'お': "o",
	'か': "ka", 'き': "ki", 'く': "ku", 'け': "ke", 'こ': "ko",
	'が': "ga", 'ぎ': "gi", 'ぐ': "gu", 'げ': "ge", 'ご': "go",
	'さ': "sa", 'し': "shi", 'す': "su", 'せ': "se", 'そ': "so",
	'ざ': "za", 'じ': "ji", 'ず': "zu", 'ぜ': "ze", 'ぞ': "zo",
	'た': "ta", 'ち': "chi", 'つ': "tsu", 'て': "te", 'と': "to",
	'だ': "da", 'ぢ': "ji", 'づ': "zu", 'で': "de", 'ど': "do",
	'な': "na", 'に': "ni", 'ぬ': "nu", 'ね': "ne", 'の': "no",
	'は': "ha", 'ひ': "hi", 'ふ': "fu", 'へ': "he", 'ほ': "ho",
	'ば': "ba", 'び': "bi", 'ぶ': "bu", 'べ': "be", 'ぼ': "bo",
	'ぱ': "pa", 'ぴ': "pi", 'ぷ': "pu", 'ぺ': "pe", 'ぽ': "po",
	'ま': "ma", 'み': "mi", 'む': "mu", 'め': "me", 'も': "mo",
	'や': "ya", 'ゆ': "yu", 'よ': "yo",
	'ら': "ra", 'り': "ri", 'る': "ru", 'れ': "re", 'ろ': "ro",
	'わ': "wa", 'ゐ': "i", 'ゑ': "e", 'を': "o",
	'ん': "n", 'ゔ': "vu",
	'ぁ': "a", 'ぃ': "i", 'ぅ': "u", 'ぇ': "e", 'ぉ': "o",
	'ゃ': "ya", 'ゅ': "yu", 'ょ': "yo", 'ゎ': "wa",
}

var nipponMonographs = map[rune]string{
	'し': "si", 'じ': "zi", 'ち': "ti", 'つ': "tu",
	'ぢ': "di", 'づ': "du", 'ふ': "hu",
	'ゐ': "wi", 'ゑ': "we", 'を': "wo",
}

// yoonPrefix gives the consonant part of an i-column kana followed by a
// small ya/yu/yo, as {hepburn, nippon}.
var yoonPrefix = map[rune][2]string{
	'き': {"ky", "ky"}, 'ぎ': {"gy", "gy"},
	'し': {"sh", "sy"}, 'じ': {"j", "zy"},
	'ち': {"ch", "ty"}, 'ぢ': {"j", "dy"},
	'に': {"ny", "ny"}, 'ひ': {"hy", "hy"},
	'び': {"by", "by"}, 'ぴ': {"py", "py"},
	'み': {"my", "my"}, 'り': {"ry", "ry"},
}

var smallVowel = map[rune]string{
	'ゃ': "a", 'ゅ': "u", 'ょ': "o",
	'ぁ': "a", 'ぃ': "i", 'ぅ': "u", 'ぇ': "e", 'ぉ': "o",
}

// foreign sound combinations written with small vowels.
var foreignDigraphs = map[string]string{
	"ふぁ": "fa", "ふぃ": "fi", "ふぇ": "fe", "ふぉ": "fo",
	"てぃ": "ti", "でぃ": "di", "とぅ": "tu", "どぅ": "du",
	"うぃ": "wi", "うぇ": "we", "うぉ": "wo",
	"ゔぁ": "va", "ゔぃ": "vi", "ゔぇ": "ve", "ゔぉ": "vo",
	"つぁ": "tsa", "つぃ": "tsi", "つぇ": "tse", "つぉ": "tso",
	"しぇ": "she", "じぇ": "je", "ちぇ": "che", "いぇ": "ye",
}

var macron = map[rune]rune{'a': 'ā', 'i': 'ī', 'u': 'ū', 'e': 'ē', 'o': 'ō'}
var circumflex = map[rune]rune{'a': 'â', 'i': 'î', 'u': 'û', 'e': 'ê', 'o': 'ô'}

// ToRomaji transcribes kana to romaji in the given style. Characters that
// are not kana are copied unchanged. A sokuon that cannot double the next
// consonant, as at the end of an exclamation, is written as an apostrophe.
func ToRomaji(kana string, style model.RomajiStyle) string {
	runes := []rune(KatakanaToHiragana(kana))
	var out []rune
	sokuon := false
	glottal := func() {
		if sokuon {
			out = append(out, '\'')
			sokuon = false
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch r {
		case 'っ':
			glottal()
			sokuon = true
			continue
		case 'ー', 'ｰ':
			glottal()
			out = lengthen(out, style)
			continue
		case 'ん':
			glottal()
			out = append(out, []rune(syllabicN(runes, i, style))...)
			continue
		}

		syl, width := syllable(runes, i, style)
		if syl == "" {
			glottal()
			out = append(out, r)
			continue
		}
		i += width - 1
		if sokuon {
			if strings.IndexByte("aiueo", syl[0]) >= 0 {
				glottal()
			} else {
				syl = geminate(syl, style)
				sokuon = false
			}
		}
		out = append(out, []rune(syl)...)
	}
	glottal()
	return string(out)
}

// syllable returns the romaji of the syllable starting at runes[i] and the
// number of runes it consumed.
func syllable(runes []rune, i int, style model.RomajiStyle) (string, int) {
	if i+1 < len(runes) {
		next := runes[i+1]
		if d, ok := foreignDigraphs[string(runes[i:i+2])]; ok {
			if style == model.Nippon && (d == "she" || d == "je" || d == "che") {
				d = map[string]string{"she": "sye", "je": "zye", "che": "tye"}[d]
			}
			return d, 2
		}
		if p, ok := yoonPrefix[runes[i]]; ok {
			if v, ok := smallVowel[next]; ok && (next == 'ゃ' || next == 'ゅ' || next == 'ょ') {
				if style == model.Nippon {
					return p[1] + v, 2
				}
				return p[0] + v, 2
			}
		}
	}
	if style == model.Nippon {
		if s, ok := nipponMonographs[runes[i]]; ok {
			return s, 1
		}
	}
	return monographs[runes[i]], 1
}

func syllabicN(runes []rune, i int, style model.RomajiStyle) string {
	if style != model.Passport || i+1 >= len(runes) {
		return "n"
	}
	next, _ := syllable(runes, i+1, style)
	if next != "" && strings.ContainsAny(next[:1], "bmp") {
		return "m"
	}
	return "n"
}

func geminate(syl string, style model.RomajiStyle) string {
	first := syl[0]
	if style != model.Nippon && strings.HasPrefix(syl, "ch") {
		return "t" + syl
	}
	return string(first) + syl
}

func lengthen(out []rune, style model.RomajiStyle) []rune {
	if len(out) == 0 {
		return out
	}
	last := out[len(out)-1]
	switch style {
	case model.Hepburn:
		if m, ok := macron[last]; ok {
			out[len(out)-1] = m
		}
	case model.Nippon:
		if c, ok := circumflex[last]; ok {
			out[len(out)-1] = c
		}
	}
	return out
}
