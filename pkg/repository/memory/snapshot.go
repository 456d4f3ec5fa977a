package memory

import (
	"context"
	"sync"

	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

// SnapshotStore is an in-memory snapshot store used by tests
type SnapshotStore struct {
	mu       sync.RWMutex
	snapshot *model.Snapshot
}

// NewSnapshotStore creates an empty in-memory store
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Save stores a deep copy of the snapshot
func (s *SnapshotStore) Save(ctx context.Context, snapshot *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = copySnapshot(snapshot)
	return nil
}

// Load returns a deep copy of the stored snapshot, or (nil, nil) when
// nothing has been saved yet
func (s *SnapshotStore) Load(ctx context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, nil
	}
	return copySnapshot(s.snapshot), nil
}

func copySnapshot(snapshot *model.Snapshot) *model.Snapshot {
	if snapshot == nil {
		return nil
	}
	copied := &model.Snapshot{
		Users:    make([]model.User, len(snapshot.Users)),
		Channels: make([]model.Channel, len(snapshot.Channels)),
		Files:    make([]model.File, len(snapshot.Files)),
	}
	copy(copied.Users, snapshot.Users)
	copy(copied.Channels, snapshot.Channels)
	copy(copied.Files, snapshot.Files)
	return copied
}
