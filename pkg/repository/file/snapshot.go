package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

// SnapshotStore persists a single workspace snapshot as a JSON document.
// It assumes it is the sole writer; there is no cross-process locking.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a store backed by the given file path
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Save writes the snapshot, creating parent directories as needed
func (s *SnapshotStore) Save(ctx context.Context, snapshot *model.Snapshot) error {
	if snapshot == nil {
		return goerr.New("snapshot is required")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return goerr.Wrap(err, "failed to create snapshot directory", goerr.V("path", s.path))
		}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode snapshot")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return goerr.Wrap(err, "failed to write snapshot file", goerr.V("path", s.path))
	}
	return nil
}

// Load reads the previously saved snapshot. A missing file is a valid
// no-previous-data state and returns (nil, nil); unreadable content is an
// error.
func (s *SnapshotStore) Load(ctx context.Context) (*model.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read snapshot file", goerr.V("path", s.path))
	}

	var snapshot model.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, goerr.Wrap(err, "failed to parse snapshot file", goerr.V("path", s.path))
	}
	return &snapshot, nil
}
