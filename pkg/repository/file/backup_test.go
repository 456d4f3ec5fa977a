package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/panoptes/pkg/repository/file"
)

func writeBackupFile(t *testing.T, dir, name, content string) {
	t.Helper()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600)).Required()
}

func TestBackupLoaderLoadBackup(t *testing.T) {
	dir := t.TempDir()
	writeBackupFile(t, dir, "users.json", `{"users":[{"id":"U1","name":"alice"},{"id":"U2","name":"bob","deleted":true}]}`)
	writeBackupFile(t, dir, "channels.json", `{"channels":[{"id":"C1","name":"general","num_members":42}]}`)
	writeBackupFile(t, dir, "files.json", `{"files":[{"id":"F1","name":"doc.pdf","size":2048}]}`)

	snapshot := gt.R1(file.BackupLoader{}.LoadBackup(context.Background(), dir)).NoError(t)

	gt.Array(t, snapshot.Users).Length(2)
	gt.Value(t, snapshot.Users[1].Deleted).Equal(true)
	gt.Array(t, snapshot.Channels).Length(1)
	gt.Value(t, snapshot.Channels[0].NumMembers).Equal(42)
	gt.Array(t, snapshot.Files).Length(1)
	gt.Value(t, snapshot.Files[0].Size).Equal(int64(2048))
}

func TestBackupLoader_MissingEntityFile(t *testing.T) {
	dir := t.TempDir()
	writeBackupFile(t, dir, "users.json", `{"users":[{"id":"U1"}]}`)

	// Absent channels.json and files.json mean empty collections
	snapshot := gt.R1(file.BackupLoader{}.LoadBackup(context.Background(), dir)).NoError(t)
	gt.Array(t, snapshot.Users).Length(1)
	gt.Array(t, snapshot.Channels).Length(0)
	gt.Array(t, snapshot.Files).Length(0)
}

func TestBackupLoader_MissingDirectory(t *testing.T) {
	_, err := file.BackupLoader{}.LoadBackup(context.Background(), filepath.Join(t.TempDir(), "nope"))
	gt.Value(t, err).NotNil()
}

func TestBackupLoader_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	writeBackupFile(t, dir, "users.json", `]]`)

	_, err := file.BackupLoader{}.LoadBackup(context.Background(), dir)
	gt.Value(t, err).NotNil()
}
