package repository

import (
	"sync"
	"time"

	"loopbot/internal/models"
)

// SnapshotMemoryStore is the in-memory home of the latest Loop snapshot plus the
// instant it arrived. The webhook writer and any number of command/stream
// readers share it. Not durable: a restart starts empty.
type SnapshotMemoryStore struct {
	mu         sync.RWMutex
	current    models.LoopSnapshot
	lastUpdate time.Time
	hasData    bool
}

func NewSnapshotStore() *SnapshotMemoryStore {
	return &SnapshotMemoryStore{}
}

// Replace overwrites the snapshot unconditionally and records the commit
// instant as the last-update time. Validation is the caller's job.
func (s *SnapshotMemoryStore) Replace(snap models.LoopSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snap
	s.lastUpdate = time.Now().UTC()
	s.hasData = true
}

// Current returns the latest snapshot, its arrival instant, and whether any
// snapshot has been committed yet.
func (s *SnapshotMemoryStore) Current() (models.LoopSnapshot, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.lastUpdate, s.hasData
}

// TimeSinceUpdate reports the elapsed time since the last Replace.
// ok is false when nothing has ever been committed.
func (s *SnapshotMemoryStore) TimeSinceUpdate() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasData {
		return 0, false
	}
	return time.Since(s.lastUpdate), true
}
