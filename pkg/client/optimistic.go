package client

import (
	"slices"
	"sync"
)

// Mirror is a locally cached list updated optimistically: a mutation is
// applied to the cached copy first, then confirmed against the server's
// authoritative list, or rolled back to the pre-mutation snapshot when the
// call fails.
type Mirror[T any] struct {
	mu    sync.Mutex
	items []T
}

// Items returns a copy of the cached list.
func (m *Mirror[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items)
}

// Reset replaces the cached list, e.g. after login or an explicit refresh.
func (m *Mirror[T]) Reset(items []T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = slices.Clone(items)
}

// Apply runs local against the cached list immediately, then calls remote.
// On success the cache is replaced with the server's list; on failure it is
// restored to the snapshot taken before local ran. The returned slice is the
// cache state after the call, which on failure equals the snapshot.
func (m *Mirror[T]) Apply(local func([]T) []T, remote func() ([]T, error)) ([]T, error) {
	m.mu.Lock()
	snapshot := slices.Clone(m.items)
	m.items = local(m.items)
	m.mu.Unlock()

	authoritative, err := remote()

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.items = snapshot
		return slices.Clone(m.items), err
	}
	m.items = slices.Clone(authoritative)
	return slices.Clone(m.items), nil
}
