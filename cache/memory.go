package cache

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/speakeasy-api/swiftlint/violation"
)

// Memory is a process-local store.
type Memory struct {
	entries sync.Map
	size    atomic.Int64
	hits    atomic.Int64
	misses  atomic.Int64
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Get(key string) ([]violation.Violation, bool) {
	v, ok := m.entries.Load(key)
	if !ok {
		m.misses.Add(1)
		return nil, false
	}
	m.hits.Add(1)
	return slices.Clone(v.([]violation.Violation)), true
}

func (m *Memory) Put(key string, vs []violation.Violation) error {
	if _, loaded := m.entries.Swap(key, slices.Clone(vs)); !loaded {
		m.size.Add(1)
	}
	return nil
}

func (m *Memory) Stats() Stats {
	return Stats{Entries: m.size.Load(), Hits: m.hits.Load(), Misses: m.misses.Load()}
}

// Clear drops every entry and resets the counters.
func (m *Memory) Clear() {
	m.entries.Clear()
	m.size.Store(0)
	m.hits.Store(0)
	m.misses.Store(0)
}
