// Package store provides Persister implementations.
package store

import (
	"context"
	"errors"
	"sync"
)

// =============================================================================
// MEMORY PERSISTER - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps records in a map. Values are copied both ways, so callers can't
// alias the stored bytes.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte

	// FailWrites makes every Put return FailErr, for exercising the
	// "mutation stands, persistence reported" path.
	FailWrites bool
	FailErr    error
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		if m.FailErr != nil {
			return m.FailErr
		}
		return errors.New("storage quota exceeded")
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.records[key] = stored
	return nil
}
