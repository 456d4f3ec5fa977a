package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/repository/file"
)

func TestSnapshotStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "snapshot.json")
	store := file.NewSnapshotStore(path)

	snapshot := &model.Snapshot{
		Users:    []model.User{{ID: "U1", Name: "alice", IsOwner: true}},
		Channels: []model.Channel{{ID: "C1", Name: "general", NumMembers: 5}},
		Files:    []model.File{{ID: "F1", Name: "doc.pdf", Size: 1024}},
	}
	gt.NoError(t, store.Save(ctx, snapshot))

	loaded := gt.R1(store.Load(ctx)).NoError(t)
	gt.Value(t, loaded).Equal(snapshot)
}

func TestSnapshotStoreLoad_Missing(t *testing.T) {
	store := file.NewSnapshotStore(filepath.Join(t.TempDir(), "missing.json"))

	loaded := gt.R1(store.Load(context.Background())).NoError(t)
	gt.Value(t, loaded).Nil()
}

func TestSnapshotStoreLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	gt.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := file.NewSnapshotStore(path)
	_, err := store.Load(context.Background())
	gt.Value(t, err).NotNil()
}

func TestSnapshotStoreSave_NilSnapshot(t *testing.T) {
	store := file.NewSnapshotStore(filepath.Join(t.TempDir(), "snapshot.json"))
	gt.Value(t, store.Save(context.Background(), nil)).NotNil()
}
