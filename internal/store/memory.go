// Package store keeps a bounded per-location history of published snapshots
// so the API can serve recent state without touching the upstreams.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

// ErrNotFound is returned when no data is available for a given location.
var ErrNotFound = errors.New("no weather data for location")

// snapshotHistory holds a time-ordered list of snapshots for a location.
type snapshotHistory struct {
	snapshots []*arso.Snapshot
}

// MemoryStore is a concurrency-safe in-memory snapshot history.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location name, value: history
	data map[string]*snapshotHistory

	// retention configuration
	maxHistory int           // max number of snapshots per location
	maxAge     time.Duration // optional max age for snapshots
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*snapshotHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends a new snapshot for its location and enforces retention.
func (s *MemoryStore) Save(snapshot *arso.Snapshot) {
	if snapshot == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[snapshot.Location]
	if !ok {
		history = &snapshotHistory{}
		s.data[snapshot.Location] = history
	}

	history.snapshots = append(history.snapshots, snapshot)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.snapshots) > s.maxHistory {
		over := len(history.snapshots) - s.maxHistory
		history.snapshots = history.snapshots[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.snapshots); i++ {
			if !history.snapshots[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.snapshots) {
			history.snapshots = history.snapshots[i:]
		}
	}
}

// Latest returns the most recent snapshot for a location.
func (s *MemoryStore) Latest(location string) (*arso.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[location]
	if !ok || len(history.snapshots) == 0 {
		return nil, ErrNotFound
	}
	return history.snapshots[len(history.snapshots)-1], nil
}

// Range returns all snapshots for a location between from and to (inclusive).
func (s *MemoryStore) Range(location string, from, to time.Time) ([]*arso.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[location]
	if !ok || len(history.snapshots) == 0 {
		return nil, ErrNotFound
	}

	var result []*arso.Snapshot
	for _, snap := range history.snapshots {
		if !snap.FetchedAt.Before(from) && !snap.FetchedAt.After(to) {
			result = append(result, snap)
		}
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Locations returns every location with at least one stored snapshot.
func (s *MemoryStore) Locations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.data))
	for name, history := range s.data {
		if len(history.snapshots) > 0 {
			out = append(out, name)
		}
	}
	return out
}
