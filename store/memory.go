package store

import (
	"context"
	"maps"
	"sync"
)

// Memory is a Store backed by a map.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record)}
}

func (m *Memory) Put(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := *rec
	cp.Map = maps.Clone(rec.Map)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.TrackID] = cp
	return nil
}

func (m *Memory) Get(ctx context.Context, trackID string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[trackID]
	if !ok {
		return nil, ErrNotFound
	}
	rec.Map = maps.Clone(rec.Map)
	return &rec, nil
}

func (m *Memory) Delete(ctx context.Context, trackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[trackID]; !ok {
		return ErrNotFound
	}
	delete(m.records, trackID)
	return nil
}

func (m *Memory) Close() error { return nil }
