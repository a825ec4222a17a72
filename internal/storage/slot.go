// Package storage persists the workout collection as a single serialized
// value in a named key-value slot.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Slot is a durable key-value store holding opaque text values.
// Get reports false when the key has never been written or was deleted.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Driver names accepted by OpenSlot.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// OpenSlot opens the slot backend named by driver. target is a file path for
// sqlite, a DSN for postgres and ignored for memory.
func OpenSlot(ctx context.Context, driver, target string) (Slot, error) {
	switch driver {
	case DriverSQLite:
		s, err := OpenSQLite(target)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		p, err := OpenPostgres(ctx, target)
		if err != nil {
			return nil, err
		}
		return p, nil
	case DriverMemory:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// MemorySlot keeps values in process memory. Used for tests and ephemeral runs.
type MemorySlot struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (m *MemorySlot) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemorySlot) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemorySlot) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemorySlot) Close() error { return nil }
