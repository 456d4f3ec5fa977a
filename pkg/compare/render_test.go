package compare_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/panoptes/pkg/compare"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

func sampleReport(t *testing.T) *compare.Report {
	t.Helper()

	before := &model.Snapshot{
		Users: []model.User{
			{ID: "U1", Name: "alice", Profile: model.Profile{RealName: "Alice", Email: "alice@example.com"}},
			{ID: "U2", Name: "bob", Profile: model.Profile{RealName: "Bob"}},
		},
		Channels: []model.Channel{{ID: "C1", Name: "general", NumMembers: 10}},
		Files:    []model.File{{ID: "F1", Size: 2048}},
	}
	after := &model.Snapshot{
		Users: []model.User{
			{ID: "U1", Name: "alice", Profile: model.Profile{RealName: "Alice A.", Email: "alice@example.com"}},
			{ID: "U3", Name: "carol", Profile: model.Profile{RealName: "Carol"}},
		},
		Channels: []model.Channel{{ID: "C1", Name: "general", NumMembers: 12}},
		Files:    []model.File{{ID: "F1", Size: 2048}, {ID: "F2", Size: 1024}},
	}

	return gt.R1(compare.Compare(before, after)).NoError(t)
}

func TestWriteJSON(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	gt.NoError(t, compare.WriteJSON(&buf, report))

	var decoded compare.Report
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	gt.Value(t, decoded.Users.Stats).Equal(report.Users.Stats)
	gt.Value(t, decoded.Files.Stats).Equal(report.Files.Stats)
}

func TestWriteText(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	gt.NoError(t, compare.WriteText(&buf, report))
	out := buf.String()

	gt.Bool(t, strings.Contains(out, "BACKUP COMPARISON REPORT")).True()
	gt.Bool(t, strings.Contains(out, "Total Users: 2 -> 2")).True()
	gt.Bool(t, strings.Contains(out, "+ carol - Carol")).True()
	gt.Bool(t, strings.Contains(out, "- bob - Bob")).True()
	gt.Bool(t, strings.Contains(out, "real_name: Alice -> Alice A.")).True()
	gt.Bool(t, strings.Contains(out, "num_members: 10 -> 12 (+2)")).True()
	gt.Bool(t, strings.Contains(out, "Difference: +1")).True()
}

func TestWriteText_SampleTruncation(t *testing.T) {
	var after []model.User
	for i := 0; i < 25; i++ {
		after = append(after, model.User{ID: fmt.Sprintf("U%02d", i), Name: fmt.Sprintf("user%02d", i)})
	}
	report := gt.R1(compare.Compare(&model.Snapshot{}, &model.Snapshot{Users: after})).NoError(t)

	var buf bytes.Buffer
	gt.NoError(t, compare.WriteText(&buf, report))

	out := buf.String()
	gt.Bool(t, strings.Contains(out, "Added Users (25):")).True()
	gt.Bool(t, strings.Contains(out, "... and 15 more")).True()
}

func TestWriteCSV(t *testing.T) {
	report := sampleReport(t)
	base := filepath.Join(t.TempDir(), "diff")

	written := gt.R1(compare.WriteCSV(base, report)).NoError(t)
	gt.Array(t, written).Length(2)

	f := gt.R1(os.Open(base + "_users.csv")).NoError(t)
	defer f.Close()
	rows := gt.R1(csv.NewReader(f).ReadAll()).NoError(t)

	// header + added + removed + modified
	gt.Array(t, rows).Length(4)
	gt.Value(t, rows[0]).Equal([]string{"change_type", "user_id", "username", "real_name", "email", "changes"})
	gt.Value(t, rows[1][0]).Equal("added")
	gt.Value(t, rows[2][0]).Equal("removed")
	gt.Value(t, rows[3][0]).Equal("modified")
	gt.Value(t, rows[3][5]).Equal("real_name: Alice -> Alice A.")
}

func TestWriteCSV_OnlyChangedCategories(t *testing.T) {
	// Channels are identical: no channel CSV should appear
	before := &model.Snapshot{
		Users:    []model.User{{ID: "U1", Name: "alice"}},
		Channels: []model.Channel{{ID: "C1", Name: "general"}},
	}
	after := &model.Snapshot{
		Users:    []model.User{{ID: "U1", Name: "alice"}, {ID: "U2", Name: "bob"}},
		Channels: []model.Channel{{ID: "C1", Name: "general"}},
	}
	report := gt.R1(compare.Compare(before, after)).NoError(t)

	base := filepath.Join(t.TempDir(), "diff")
	written := gt.R1(compare.WriteCSV(base, report)).NoError(t)

	gt.Array(t, written).Length(1)
	gt.Value(t, written[0]).Equal(base + "_users.csv")

	_, err := os.Stat(base + "_channels.csv")
	gt.Bool(t, os.IsNotExist(err)).True()
}

func TestWriteCSV_NoChanges(t *testing.T) {
	snap := &model.Snapshot{Users: []model.User{{ID: "U1"}}}
	report := gt.R1(compare.Compare(snap, snap)).NoError(t)

	written := gt.R1(compare.WriteCSV(filepath.Join(t.TempDir(), "diff"), report)).NoError(t)
	gt.Array(t, written).Length(0)
}
