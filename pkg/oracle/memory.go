package oracle

import (
	"context"
	"sync"
)

// Memory is an in-process Oracle. It keeps the exclusion set in a map and
// counts calls, which makes it the oracle of choice for tests and for dry
// runs on hosts without tmutil.
type Memory struct {
	mu       sync.Mutex
	excluded map[string]bool
	queries  map[string]int
	excludes map[string]int
	includes map[string]int
}

// NewMemory creates a Memory oracle with the given paths already excluded.
func NewMemory(excluded ...string) *Memory {
	m := &Memory{
		excluded: make(map[string]bool),
		queries:  make(map[string]int),
		excludes: make(map[string]int),
		includes: make(map[string]int),
	}
	for _, p := range excluded {
		m.excluded[p] = true
	}
	return m
}

func (m *Memory) IsExcluded(_ context.Context, path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries[path]++
	return m.excluded[path]
}

func (m *Memory) Exclude(_ context.Context, path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries[path]++
	if m.excluded[path] {
		return false
	}
	m.excludes[path]++
	m.excluded[path] = true
	return true
}

func (m *Memory) Include(_ context.Context, path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries[path]++
	if !m.excluded[path] {
		return false
	}
	m.includes[path]++
	delete(m.excluded, path)
	return true
}

// ExcludeCalls returns how many mutating exclude calls path received.
func (m *Memory) ExcludeCalls(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.excludes[path]
}

// IncludeCalls returns how many mutating include calls path received.
func (m *Memory) IncludeCalls(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.includes[path]
}

// Queries returns how many status lookups path received, including the
// implicit lookup done by Exclude and Include.
func (m *Memory) Queries(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries[path]
}

// Excluded returns a snapshot of the excluded paths.
func (m *Memory) Excluded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.excluded))
	for p := range m.excluded {
		out = append(out, p)
	}
	return out
}
