// Package ingest reads lyric documents from files and watches a directory
// for new ones. Each document delivered stands for a track change.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"langromanizer/errors"
	"langromanizer/lyrics"
	"langromanizer/model"
)

// Supported file extensions.
const (
	ExtJSON = ".json"
	ExtLRC  = ".lrc"
	ExtText = ".txt"
)

// Supported reports whether path has an extension ReadFile understands.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtJSON, ExtLRC, ExtText:
		return true
	}
	return false
}

// TrackID derives a track ID from a file name.
func TrackID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadFile reads a lyric document. JSON files carry the host payload
// ({"trackId","lyrics","subtitles"}); LRC files become lyrics plus timed
// subtitles; text files are plain lyrics. A missing track ID is taken from
// the file name.
func ReadFile(path string) (*model.LyricDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, data)
}

// Decode parses data the way ReadFile parses the file at path.
func Decode(path string, data []byte) (*model.LyricDocument, error) {
	var doc *model.LyricDocument
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtJSON:
		doc = &model.LyricDocument{}
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("decode %s", filepath.Base(path))).WithCause(err)
		}
	case ExtLRC:
		var err error
		doc, err = lyrics.ParseLRC(bytes.NewReader(data), "")
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("parse %s", filepath.Base(path))).WithCause(err)
		}
	case ExtText:
		doc = &model.LyricDocument{Lyrics: strings.ReplaceAll(string(data), "\r\n", "\n")}
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported lyrics file %q", ext))
	}

	if doc.TrackID == "" {
		doc.TrackID = TrackID(path)
	}
	doc.Lyrics = strings.TrimSpace(doc.Lyrics)
	return doc, nil
}
