// Package history keeps a record of every playback session.
package history

import (
	"context"
	"sync"

	"github.com/jsphweid/chordplay/model"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Record(ctx context.Context, rec model.SessionRecord) error
	Get(ctx context.Context, id string) (model.SessionRecord, error)
}

// Memory is a Store that lives as long as the process.
type Memory struct {
	mu      sync.RWMutex
	records map[string]model.SessionRecord
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]model.SessionRecord)}
}

func (m *Memory) Record(ctx context.Context, rec model.SessionRecord) error {
	if rec.Id == "" {
		return errors.New("record has no id")
	}
	m.mu.Lock()
	m.records[rec.Id] = rec
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (model.SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return model.SessionRecord{}, errors.Wrapf(ErrNotFound, "%q", id)
	}
	return rec, nil
}
