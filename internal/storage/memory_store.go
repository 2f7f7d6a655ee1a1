package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory implementation of PageStore for tests and dry
// runs.
type MemoryStore struct {
	mu    sync.RWMutex
	pages map[string][]byte
	fail  map[string]error
	calls MemoryCalls
}

// MemoryCalls tracks method invocations for test verification.
type MemoryCalls struct {
	Write  int
	Read   int
	List   int
	Remove int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pages: make(map[string][]byte),
		fail:  make(map[string]error),
	}
}

// FailWrites makes every later write to path return err.
func (m *MemoryStore) FailWrites(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[path] = err
}

// Write stores a copy of data.
func (m *MemoryStore) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Write++
	if err := m.fail[path]; err != nil {
		return err
	}
	m.pages[path] = append([]byte(nil), data...)
	return nil
}

// Read returns a copy of the page at path.
func (m *MemoryStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Read++
	data, ok := m.pages[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return append([]byte(nil), data...), nil
}

// List returns every stored page path (".md"), sorted, like FSStore.
func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.List++
	out := make([]string, 0, len(m.pages))
	for p := range m.pages {
		if strings.HasSuffix(p, pageExt) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Remove deletes the page at path.
func (m *MemoryStore) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Remove++
	delete(m.pages, path)
	return nil
}

// Close releases resources.
func (m *MemoryStore) Close() error { return nil }

// Calls returns a snapshot of the invocation counters.
func (m *MemoryStore) Calls() MemoryCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Page returns the stored page without counting a call.
func (m *MemoryStore) Page(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.pages[path]
	return string(data), ok
}

// Len is the number of stored pages.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pages)
}
