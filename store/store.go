// Package store keeps published romanization results by track.
package store

import (
	"context"
	"errors"
	"time"

	"langromanizer/model"
)

// ErrNotFound is returned when no record exists for a track.
var ErrNotFound = errors.New("record not found")

// Record is a published result as it is persisted.
type Record struct {
	TrackID  string                `json:"trackId"`
	PassID   string                `json:"passId"`
	Source   model.LyricDocument   `json:"source"`
	Document model.LyricDocument   `json:"document"`
	Map      model.RomanizationMap `json:"map"`
	Skipped  bool                  `json:"skipped"`
	StoredAt time.Time             `json:"storedAt"`
}

// Store persists records keyed by track ID. Put replaces any previous
// record of the same track.
type Store interface {
	Put(ctx context.Context, rec *Record) error
	Get(ctx context.Context, trackID string) (*Record, error)
	Delete(ctx context.Context, trackID string) error
	Close() error
}
