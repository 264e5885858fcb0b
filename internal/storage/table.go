package storage

import (
	"context"
	"sync"

	"github.com/pagefold/stele/internal/tree"
)

// Table is a flat key-to-value side table. Implementations must be safe
// for concurrent use; the filler processes sibling subtrees in parallel.
type Table interface {
	// Get returns the value stored under key, if any.
	Get(ctx context.Context, key string) (tree.Value, bool, error)

	// SetIfAbsent stores v under key only if the key holds no value yet.
	// It reports whether the write happened. An existing value is never
	// overwritten.
	SetIfAbsent(ctx context.Context, key string, v tree.Value) (bool, error)

	// Len returns the number of populated keys.
	Len(ctx context.Context) (int, error)
}

// MemTable is an in-memory Table.
type MemTable struct {
	mu      sync.RWMutex
	entries map[string]tree.Value
}

// NewMemTable creates an empty in-memory side table.
func NewMemTable() *MemTable {
	return &MemTable{entries: make(map[string]tree.Value)}
}

// Get implements Table.
func (t *MemTable) Get(_ context.Context, key string) (tree.Value, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[key]
	return v, ok, nil
}

// SetIfAbsent implements Table.
func (t *MemTable) SetIfAbsent(_ context.Context, key string, v tree.Value) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[key]; ok {
		return false, nil
	}
	t.entries[key] = v
	return true, nil
}

// Len implements Table.
func (t *MemTable) Len(_ context.Context) (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries), nil
}

// Snapshot returns a copy of the table's contents. Intended for tests and
// export; values are deep-cloned.
func (t *MemTable) Snapshot() map[string]tree.Value {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]tree.Value, len(t.entries))
	for k, v := range t.entries {
		out[k] = tree.Clone(v)
	}
	return out
}
