package tokenize

import (
	"strings"

	"langromanizer/script"
)

// Run is a maximal substring of one script category.
type Run struct {
	Text     string          `json:"text"`
	Category script.Category `json:"category"`
}

// HasKana reports whether text contains Hiragana or Katakana. It is the
// "contains Japanese" hint that turns Han runs into Japanese runs.
func HasKana(text string) bool {
	for _, r := range text {
		if script.IsKana(r) {
			return true
		}
	}
	return false
}

// Segment splits line into runs, computing the Japanese hint from line itself.
func Segment(line string) []Run {
	return SegmentWithHint(line, HasKana(line))
}

// SegmentWithHint splits line into maximal runs of one category. Each rune
// is classified on its own; with japaneseHint set, Han runes are Japanese.
// Concatenating the run texts reproduces line exactly.
func SegmentWithHint(line string, japaneseHint bool) []Run {
	if line == "" {
		return nil
	}

	var (
		runs    []Run
		current strings.Builder
		cat     script.Category
		open    bool
	)

	for _, r := range line {
		c := script.ClassifyRune(r)
		if c == script.Chinese && japaneseHint {
			c = script.Japanese
		}
		if open && c != cat {
			runs = append(runs, Run{Text: current.String(), Category: cat})
			current.Reset()
		}
		cat = c
		open = true
		current.WriteRune(r)
	}
	runs = append(runs, Run{Text: current.String(), Category: cat})
	return runs
}

// LineCategory returns the category a whole line is routed to: Japanese if
// any run is Japanese, then Korean, then Chinese, otherwise Latin.
func LineCategory(line string) script.Category {
	var korean, chinese bool
	for _, run := range Segment(line) {
		switch run.Category {
		case script.Japanese:
			return script.Japanese
		case script.Korean:
			korean = true
		case script.Chinese:
			chinese = true
		}
	}
	switch {
	case korean:
		return script.Korean
	case chinese:
		return script.Chinese
	}
	return script.Latin
}

// Join concatenates run texts.
func Join(runs []Run) string {
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.Text)
	}
	return b.String()
}
