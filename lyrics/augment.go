package lyrics

import (
	"strings"

	"langromanizer/model"
)

// SplitAugmented splits an augmented line into its original text and
// romanization. ok is false when line carries no Separator.
func SplitAugmented(line string) (original, romanized string, ok bool) {
	return strings.Cut(line, model.Separator)
}

// StripAugmented removes every romanization appended by Augment so that the
// document can be processed again from its original text.
func StripAugmented(doc model.LyricDocument) model.LyricDocument {
	doc.Lyrics = stripLines(doc.Lyrics)
	doc.Subtitles = stripLines(doc.Subtitles)
	return doc
}

func stripLines(text string) string {
	if !strings.Contains(text, model.Separator) {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if orig, _, ok := SplitAugmented(l); ok {
			lines[i] = orig
		}
	}
	return strings.Join(lines, "\n")
}

// Augment appends Separator and the romanization to every line of doc that
// has an entry in m. Subtitle lines are matched on their text after the
// timestamp and keep the timestamp prefix. CRLF line endings become LF.
func Augment(doc model.LyricDocument, m model.RomanizationMap) model.LyricDocument {
	if len(m) == 0 {
		return doc
	}

	lyrics := strings.Split(doc.Lyrics, "\n")
	for i, l := range lyrics {
		l = strings.TrimSuffix(l, "\r")
		lyrics[i] = l
		if rom, ok := m.Lookup(l); ok {
			lyrics[i] = l + model.Separator + rom
		}
	}
	doc.Lyrics = strings.Join(lyrics, "\n")

	if doc.Subtitles == "" {
		return doc
	}
	subs := strings.Split(doc.Subtitles, "\n")
	for i, l := range subs {
		l = strings.TrimSuffix(l, "\r")
		subs[i] = l
		_, text, ok := StripTimestamp(l)
		if !ok {
			continue
		}
		if rom, ok := m.Lookup(text); ok {
			subs[i] = l + model.Separator + rom
		}
	}
	doc.Subtitles = strings.Join(subs, "\n")
	return doc
}
