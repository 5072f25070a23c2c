package lyrics

import (
	"time"

	"github.com/google/uuid"

	"langromanizer/model"
	"langromanizer/script"
)

// Phase is a step of a processing pass.
type Phase int

const (
	Idle Phase = iota
	Classifying
	Skipped
	Segmenting
	Routing
	Merging
	Done
)

func (p Phase) String() string {
	switch p {
	case Classifying:
		return "classifying"
	case Skipped:
		return "skipped"
	case Segmenting:
		return "segmenting"
	case Routing:
		return "routing"
	case Merging:
		return "merging"
	case Done:
		return "done"
	default:
		return "idle"
	}
}

// Pass is the context of one processing pass: which document it works on,
// how far it got and the settings it started with.
type Pass struct {
	ID        uuid.UUID      `json:"id"`
	TrackID   string         `json:"trackId"`
	Phase     Phase          `json:"phase"`
	Settings  model.Settings `json:"settings"`
	StartedAt time.Time      `json:"startedAt"`
}

// LineResult is one romanized line, indexed by its first occurrence.
type LineResult struct {
	Index     int             `json:"index"`
	Category  script.Category `json:"category"`
	Original  string          `json:"original"`
	Romanized string          `json:"romanized"`
}

// Result is what a completed pass publishes.
type Result struct {
	Pass     Pass                  `json:"pass"`
	Source   model.LyricDocument   `json:"source"`
	Document model.LyricDocument   `json:"document"`
	Map      model.RomanizationMap `json:"map"`
	Lines    []LineResult          `json:"lines,omitempty"`
	Skipped  bool                  `json:"skipped"`
}
