package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const trackPrefix = "track:"

// Badger is a Store backed by a Badger database.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadger opens the database at path. An empty path opens an in-memory
// database.
func OpenBadger(path string, logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.SyncWrites = true
		opts.CompactL0OnClose = true
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("badger database opened", "path", path, "in_memory", path == "")
	return &Badger{db: db, logger: logger}, nil
}

func key(trackID string) []byte {
	return []byte(trackPrefix + trackID)
}

func (b *Badger) Put(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(rec.TrackID), data)
	})
}

func (b *Badger) Get(ctx context.Context, trackID string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rec Record
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(trackID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (b *Badger) Delete(ctx context.Context, trackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key(trackID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(key(trackID))
	})
}

// Close closes the database.
func (b *Badger) Close() error {
	b.logger.Info("closing badger database")
	return b.db.Close()
}
