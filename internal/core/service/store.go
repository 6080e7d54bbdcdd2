package service

import (
	"sort"
	"sync"

	"github.com/berfenger/aseko2mqtt/internal/core/domain"
)

// SnapshotStore holds exactly one current snapshot per unit identity.
// The poller is the single writer per identity; readers (healthcheck,
// snapshot queries) may come from other goroutines, hence the lock.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]*domain.Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]*domain.Snapshot),
	}
}

// Update swaps in the new snapshot and returns the previous one, or nil on
// first observation of the identity. Stored snapshots are never mutated.
func (s *SnapshotStore) Update(snapshot *domain.Snapshot) *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshots[snapshot.SerialNumber]
	s.snapshots[snapshot.SerialNumber] = snapshot
	return prev
}

// Current returns the current snapshot for the identity, if any.
func (s *SnapshotStore) Current(serialNumber string) (*domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[serialNumber]
	return snapshot, ok
}

// Serials returns all known identities, sorted for stable iteration.
func (s *SnapshotStore) Serials() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	serials := make([]string, 0, len(s.snapshots))
	for serial := range s.snapshots {
		serials = append(serials, serial)
	}
	sort.Strings(serials)
	return serials
}
