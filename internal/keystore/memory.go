package keystore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-memory Store for tests and development
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemory creates a store holding entries
func NewMemory(entries ...*Entry) *Memory {
	m := &Memory{entries: make(map[string]*Entry, len(entries))}
	for _, e := range entries {
		m.entries[e.Name] = e
	}
	return m
}

// Put stores entry under its name, replacing any previous entry
func (m *Memory) Put(entry *Entry) error {
	if entry == nil || entry.Name == "" {
		return fmt.Errorf("entry name is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Name] = entry
	return nil
}

// Get implements Store
func (m *Memory) Get(_ context.Context, name string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[name]
	if !ok {
		return nil, notFound(name)
	}
	return entry, nil
}

// Names returns the stored names, sorted
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
