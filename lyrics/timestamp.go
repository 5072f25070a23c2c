package lyrics

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"langromanizer/model"
)

var (
	timestampRe = regexp.MustCompile(`^\[(\d{1,3}):(\d{1,2}(?:[.:]\d{1,3})?)\]\s*`)
	lrcTagRe    = regexp.MustCompile(`^\[[A-Za-z#]+:.*\]$`)
)

// HiddenMarker is the header line older plugin versions put in front of
// their romanized block. It is never lyric text.
const HiddenMarker = "lyricshidden"

// IsHiddenMarker reports whether text is the legacy hidden header line.
func IsHiddenMarker(text string) bool {
	return strings.TrimSpace(text) == HiddenMarker
}

// StripTimestamp splits a subtitle line into its "[mm:ss.ff] " prefix and
// the trimmed text after it. ok is false when the line has no timestamp.
func StripTimestamp(line string) (stamp, text string, ok bool) {
	line = strings.TrimSpace(line)
	loc := timestampRe.FindStringIndex(line)
	if loc == nil {
		return "", line, false
	}
	return line[:loc[1]], strings.TrimSpace(line[loc[1]:]), true
}

// ParseTimestamp parses "[mm:ss.ff]" (brackets and trailing space optional).
func ParseTimestamp(stamp string) (time.Duration, error) {
	s := strings.TrimSpace(stamp)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	mm, rest, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("timestamp %q: missing minutes", stamp)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: %w", stamp, err)
	}
	rest = strings.Replace(rest, ":", ".", 1)
	seconds, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: %w", stamp, err)
	}
	return time.Duration(minutes)*time.Minute + time.Duration(seconds*float64(time.Second)), nil
}

// FormatTimestamp renders d as "[mm:ss.ff] ".
func FormatTimestamp(d time.Duration) string {
	cs := int64(d.Round(10*time.Millisecond) / (10 * time.Millisecond))
	return fmt.Sprintf("[%02d:%02d.%02d] ", cs/6000, (cs/100)%60, cs%100)
}

type lrcLine struct {
	at   time.Duration
	seq  int
	text string
}

// ParseLRC builds a LyricDocument from an LRC file. Metadata tags are
// skipped; a line with several timestamps yields one subtitle line per
// timestamp, and subtitle lines are ordered by time.
func ParseLRC(r io.Reader, trackID string) (*model.LyricDocument, error) {
	var (
		texts []string
		timed []lrcLine
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || lrcTagRe.MatchString(line) {
			continue
		}

		var stamps []time.Duration
		for {
			stamp, rest, ok := StripTimestamp(line)
			if !ok {
				break
			}
			d, err := ParseTimestamp(stamp)
			if err != nil {
				return nil, err
			}
			stamps = append(stamps, d)
			line = rest
		}

		texts = append(texts, line)
		for _, d := range stamps {
			timed = append(timed, lrcLine{at: d, seq: len(timed), text: line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lrc: %w", err)
	}

	slices.SortStableFunc(timed, func(a, b lrcLine) int {
		if c := cmp.Compare(a.at, b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	subs := make([]string, 0, len(timed))
	for _, l := range timed {
		subs = append(subs, FormatTimestamp(l.at)+l.text)
	}

	return &model.LyricDocument{
		TrackID:   trackID,
		Lyrics:    strings.Join(texts, "\n"),
		Subtitles: strings.Join(subs, "\n"),
	}, nil
}
