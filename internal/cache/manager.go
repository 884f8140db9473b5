package cache

import (
	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
)

// Manager combines the two cache tiers. Reads check L1 first and promote L2
// hits into L1; writes land in L1 before L2 so the fast tier is never
// behind the slow one.
type Manager struct {
	l1 *L1
	l2 *L2
}

// NewManager creates a cache manager over the given tiers.
func NewManager(l1 *L1, l2 *L2) *Manager {
	return &Manager{l1: l1, l2: l2}
}

// Get returns the cached entry for fingerprint, promoting L2 hits into L1.
func (m *Manager) Get(fingerprint string) (*configsDomain.Entry, bool) {
	if entry, ok := m.l1.Get(fingerprint); ok {
		return entry, true
	}
	if entry, ok := m.l2.Get(fingerprint); ok {
		m.l1.Put(fingerprint, *entry)
		return entry, true
	}
	return nil, false
}

// Put stores an entry in both tiers.
func (m *Manager) Put(fingerprint string, entry configsDomain.Entry) error {
	m.l1.Put(fingerprint, entry)
	return m.l2.Put(fingerprint, entry)
}

// Invalidate removes a fingerprint from both tiers.
func (m *Manager) Invalidate(fingerprint string) {
	m.l1.Invalidate(fingerprint)
	m.l2.Invalidate(fingerprint)
}

// Clear empties both tiers.
func (m *Manager) Clear() {
	m.l1.Clear()
	m.l2.Clear()
}

// ClearL1 empties only the in-memory tier.
func (m *Manager) ClearL1() {
	m.l1.Clear()
}

// ClearL2 empties only the file tier.
func (m *Manager) ClearL2() {
	m.l2.Clear()
}

// Stats returns L1 effectiveness counters and the current L2 size.
func (m *Manager) Stats() (Stats, int) {
	return m.l1.Stats(), m.l2.Size()
}
