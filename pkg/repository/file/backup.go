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

// Entity file names inside a backup directory
const (
	usersFileName    = "users.json"
	channelsFileName = "channels.json"
	filesFileName    = "files.json"
)

// BackupLoader reads backup directories produced by a full workspace export
type BackupLoader struct{}

// LoadBackup reads a backup directory into a snapshot. A missing entity
// file yields an empty collection; a missing directory is an error.
func (BackupLoader) LoadBackup(ctx context.Context, dir string) (*model.Snapshot, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "backup directory not found", goerr.V("dir", dir))
	}
	if !info.IsDir() {
		return nil, goerr.New("backup path is not a directory", goerr.V("dir", dir))
	}

	snapshot := &model.Snapshot{}

	var users struct {
		Users []model.User `json:"users"`
	}
	if err := loadJSONFile(filepath.Join(dir, usersFileName), &users); err != nil {
		return nil, err
	}
	snapshot.Users = users.Users

	var channels struct {
		Channels []model.Channel `json:"channels"`
	}
	if err := loadJSONFile(filepath.Join(dir, channelsFileName), &channels); err != nil {
		return nil, err
	}
	snapshot.Channels = channels.Channels

	var files struct {
		Files []model.File `json:"files"`
	}
	if err := loadJSONFile(filepath.Join(dir, filesFileName), &files); err != nil {
		return nil, err
	}
	snapshot.Files = files.Files

	return snapshot, nil
}

func loadJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return goerr.Wrap(err, "failed to read backup file", goerr.V("path", path))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return goerr.Wrap(err, "failed to parse backup file", goerr.V("path", path))
	}
	return nil
}
