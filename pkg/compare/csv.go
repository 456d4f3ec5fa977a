package compare

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/domain/types"
)

// WriteCSV flattens the report into per-entity CSV files next to base
// (base_users.csv, base_channels.csv). A file is only written when its
// category has at least one change. Returns the written paths.
func WriteCSV(base string, r *Report) ([]string, error) {
	var written []string

	if len(r.Users.Added)+len(r.Users.Removed)+len(r.Users.Modified) > 0 {
		path := base + "_users.csv"
		if err := writeUserCSV(path, &r.Users); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if len(r.Channels.Added)+len(r.Channels.Removed)+len(r.Channels.Modified) > 0 {
		path := base + "_channels.csv"
		if err := writeChannelCSV(path, &r.Channels); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func writeUserCSV(path string, d *UserDiff) error {
	rows := [][]string{
		{"change_type", "user_id", "username", "real_name", "email", "changes"},
	}
	for _, u := range d.Added {
		rows = append(rows, []string{
			types.ChangeTypeAdded.String(), u.ID, u.Name, u.Profile.RealName, u.Profile.Email, "",
		})
	}
	for _, u := range d.Removed {
		rows = append(rows, []string{
			types.ChangeTypeRemoved.String(), u.ID, u.Name, u.Profile.RealName, u.Profile.Email, "",
		})
	}
	for _, u := range d.Modified {
		rows = append(rows, []string{
			types.ChangeTypeModified.String(), u.ID, u.Name, u.RealName, "", changesString(u.Changes),
		})
	}
	return writeRows(path, rows)
}

func writeChannelCSV(path string, d *ChannelDiff) error {
	rows := [][]string{
		{"change_type", "channel_id", "name", "is_archived", "changes"},
	}
	for _, c := range d.Added {
		rows = append(rows, []string{
			types.ChangeTypeAdded.String(), c.ID, c.Name, fmt.Sprintf("%t", c.IsArchived), "",
		})
	}
	for _, c := range d.Removed {
		rows = append(rows, []string{
			types.ChangeTypeRemoved.String(), c.ID, c.Name, fmt.Sprintf("%t", c.IsArchived), "",
		})
	}
	for _, c := range d.Modified {
		rows = append(rows, []string{
			types.ChangeTypeModified.String(), c.ID, c.Name, "", changesString(c.Changes),
		})
	}
	return writeRows(path, rows)
}

func writeRows(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create CSV file", goerr.V("path", path))
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return goerr.Wrap(err, "failed to write CSV rows", goerr.V("path", path))
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close CSV file", goerr.V("path", path))
	}
	return nil
}
