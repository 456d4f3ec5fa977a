package interfaces

import (
	"context"

	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

// WorkspaceSource provides point-in-time workspace state from the platform API
type WorkspaceSource interface {
	Collect(ctx context.Context) (*model.Snapshot, error)
}

// SnapshotStore persists workspace snapshots between runs.
// Load returns (nil, nil) when no previous snapshot exists.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *model.Snapshot) error
	Load(ctx context.Context) (*model.Snapshot, error)
}

// BackupLoader reads a full backup directory into a snapshot. A missing
// entity file yields an empty collection, not an error.
type BackupLoader interface {
	LoadBackup(ctx context.Context, dir string) (*model.Snapshot, error)
}

// Notifier delivers alert notifications. Delivery is best-effort; failures
// must not affect detection results.
type Notifier interface {
	Notify(ctx context.Context, alerts []model.Alert) error
}
