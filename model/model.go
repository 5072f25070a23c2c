package model

import (
	"fmt"
	"strings"
)

// Separator is appended between an original lyric line and its romanization.
// Both codepoints are in the Private Use Area and never occur in lyric text.
const Separator = "\uE000\uE001"

// LyricDocument is the lyric payload delivered by the host on track change.
type LyricDocument struct {
	TrackID   string `json:"trackId"`
	Lyrics    string `json:"lyrics"`
	Subtitles string `json:"subtitles"`
}

// Empty reports whether the document carries no lyrics to work on.
func (d *LyricDocument) Empty() bool {
	return d == nil || strings.TrimSpace(d.Lyrics) == ""
}

// Token is a morpheme returned by the Japanese analyzer. Reading is already
// transcribed to romaji; it is empty when the analyzer has no reading.
type Token struct {
	Surface string `json:"surface"`
	Reading string `json:"reading,omitempty"`
}

// RomanizationMap maps trimmed original line text to its romanization.
type RomanizationMap map[string]string

// Lookup trims line and returns its romanization.
func (m RomanizationMap) Lookup(line string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[strings.TrimSpace(line)]
	return v, ok
}

// DisplayState is the representation currently visible to the user.
type DisplayState int

const (
	Original DisplayState = iota
	Romanized
)

func (s DisplayState) String() string {
	switch s {
	case Romanized:
		return "romanized"
	default:
		return "original"
	}
}

// Toggle returns the other state.
func (s DisplayState) Toggle() DisplayState {
	if s == Romanized {
		return Original
	}
	return Romanized
}

// RomajiStyle selects the romaji transcription system.
type RomajiStyle string

const (
	Hepburn  RomajiStyle = "hepburn"
	Passport RomajiStyle = "passport"
	Nippon   RomajiStyle = "nippon"
)

// ParseRomajiStyle parses a style name; the empty string means hepburn.
func ParseRomajiStyle(s string) (RomajiStyle, error) {
	switch RomajiStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", Hepburn:
		return Hepburn, nil
	case Passport:
		return Passport, nil
	case Nippon:
		return Nippon, nil
	}
	return "", fmt.Errorf("unknown romaji style %q", s)
}

// Settings is the user configuration read by the pipeline.
type Settings struct {
	RomanizeByDefault   bool        `json:"toggleRomanize"`
	ShowDebugLog        bool        `json:"showDebug"`
	JapaneseRomajiStyle RomajiStyle `json:"japaneseRomajiStyle"`
	PinyinToneMarks     bool        `json:"pinyinToneMarks"`
}

// DefaultSettings mirrors the defaults of the settings panel.
func DefaultSettings() Settings {
	return Settings{
		RomanizeByDefault:   true,
		JapaneseRomajiStyle: Hepburn,
	}
}
