package compare

import (
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

// ErrMalformedRecord indicates a record without the ID used as the join key
var ErrMalformedRecord = goerr.New("record is missing its id")

// FieldChange records one tracked field transition
type FieldChange struct {
	Old  any  `json:"old"`
	New  any  `json:"new"`
	Diff *int `json:"diff,omitempty"` // signed delta, numeric fields only
}

// ModifiedUser is a user whose tracked fields changed between snapshots
type ModifiedUser struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	RealName string                 `json:"real_name"`
	Changes  map[string]FieldChange `json:"changes"`
}

// ModifiedChannel is a channel whose tracked fields changed between snapshots
type ModifiedChannel struct {
	ID      string                 `json:"id"`
	Name    string                 `json:"name"`
	Changes map[string]FieldChange `json:"changes"`
}

// DiffStats summarizes one entity category of the comparison
type DiffStats struct {
	TotalBefore   int `json:"total_before"`
	TotalAfter    int `json:"total_after"`
	AddedCount    int `json:"added_count"`
	RemovedCount  int `json:"removed_count"`
	ModifiedCount int `json:"modified_count"`
}

// UserDiff is the user section of a comparison report
type UserDiff struct {
	Added    []model.User   `json:"added"`
	Removed  []model.User   `json:"removed"`
	Modified []ModifiedUser `json:"modified"`
	Stats    DiffStats      `json:"stats"`
}

// ChannelDiff is the channel section of a comparison report
type ChannelDiff struct {
	Added    []model.Channel   `json:"added"`
	Removed  []model.Channel   `json:"removed"`
	Modified []ModifiedChannel `json:"modified"`
	Stats    DiffStats         `json:"stats"`
}

// FileStats is the aggregate-only file section. No per-file identity is
// tracked; only counts and total bytes with signed deltas.
type FileStats struct {
	CountBefore int   `json:"count_before"`
	CountAfter  int   `json:"count_after"`
	CountDiff   int   `json:"count_diff"`
	SizeBefore  int64 `json:"size_before"`
	SizeAfter   int64 `json:"size_after"`
	SizeDiff    int64 `json:"size_diff"`
}

// FileDiff is the file section of a comparison report
type FileDiff struct {
	Stats FileStats `json:"stats"`
}

// Report is a full structural comparison of two snapshots
type Report struct {
	ComparisonDate string      `json:"comparison_date"`
	BeforePath     string      `json:"before_path,omitempty"`
	AfterPath      string      `json:"after_path,omitempty"`
	Users          UserDiff    `json:"users"`
	Channels       ChannelDiff `json:"channels"`
	Files          FileDiff    `json:"files"`
}

// Compare builds a full structural diff between two snapshots. Entity
// records are joined by ID; all output lists are sorted by ID.
func Compare(before, after *model.Snapshot) (*Report, error) {
	if before == nil || after == nil {
		return nil, goerr.New("both snapshots are required")
	}

	users, err := CompareUsers(before.Users, after.Users)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compare users")
	}
	channels, err := CompareChannels(before.Channels, after.Channels)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compare channels")
	}

	return &Report{
		ComparisonDate: time.Now().Format(time.RFC3339),
		Users:          users,
		Channels:       channels,
		Files:          CompareFiles(before.Files, after.Files),
	}, nil
}

// CompareUsers diffs two user collections. Tracked fields: deleted,
// is_admin, is_owner, title, real_name. Changes in untracked fields are
// invisible by design.
func CompareUsers(before, after []model.User) (UserDiff, error) {
	beforeByID, err := indexUsers(before)
	if err != nil {
		return UserDiff{}, err
	}
	afterByID, err := indexUsers(after)
	if err != nil {
		return UserDiff{}, err
	}

	addedIDs, removedIDs, commonIDs := splitIDs(keys(beforeByID), keys(afterByID))

	diff := UserDiff{}
	for _, id := range addedIDs {
		diff.Added = append(diff.Added, afterByID[id])
	}
	for _, id := range removedIDs {
		diff.Removed = append(diff.Removed, beforeByID[id])
	}

	for _, id := range commonIDs {
		old, curr := beforeByID[id], afterByID[id]

		changes := make(map[string]FieldChange)
		if old.Deleted != curr.Deleted {
			changes["deleted"] = FieldChange{Old: old.Deleted, New: curr.Deleted}
		}
		if old.IsAdmin != curr.IsAdmin {
			changes["is_admin"] = FieldChange{Old: old.IsAdmin, New: curr.IsAdmin}
		}
		if old.IsOwner != curr.IsOwner {
			changes["is_owner"] = FieldChange{Old: old.IsOwner, New: curr.IsOwner}
		}
		if old.Profile.Title != curr.Profile.Title {
			changes["title"] = FieldChange{Old: old.Profile.Title, New: curr.Profile.Title}
		}
		if old.Profile.RealName != curr.Profile.RealName {
			changes["real_name"] = FieldChange{Old: old.Profile.RealName, New: curr.Profile.RealName}
		}

		if len(changes) > 0 {
			diff.Modified = append(diff.Modified, ModifiedUser{
				ID:       id,
				Name:     curr.Name,
				RealName: curr.Profile.RealName,
				Changes:  changes,
			})
		}
	}

	diff.Stats = DiffStats{
		TotalBefore:   len(beforeByID),
		TotalAfter:    len(afterByID),
		AddedCount:    len(diff.Added),
		RemovedCount:  len(diff.Removed),
		ModifiedCount: len(diff.Modified),
	}
	return diff, nil
}

// CompareChannels diffs two channel collections. Tracked fields:
// is_archived, name, topic, purpose, num_members (with a signed delta).
func CompareChannels(before, after []model.Channel) (ChannelDiff, error) {
	beforeByID, err := indexChannels(before)
	if err != nil {
		return ChannelDiff{}, err
	}
	afterByID, err := indexChannels(after)
	if err != nil {
		return ChannelDiff{}, err
	}

	addedIDs, removedIDs, commonIDs := splitIDs(keys(beforeByID), keys(afterByID))

	diff := ChannelDiff{}
	for _, id := range addedIDs {
		diff.Added = append(diff.Added, afterByID[id])
	}
	for _, id := range removedIDs {
		diff.Removed = append(diff.Removed, beforeByID[id])
	}

	for _, id := range commonIDs {
		old, curr := beforeByID[id], afterByID[id]

		changes := make(map[string]FieldChange)
		if old.IsArchived != curr.IsArchived {
			changes["is_archived"] = FieldChange{Old: old.IsArchived, New: curr.IsArchived}
		}
		if old.Name != curr.Name {
			changes["name"] = FieldChange{Old: old.Name, New: curr.Name}
		}
		if old.Topic != curr.Topic {
			changes["topic"] = FieldChange{Old: old.Topic, New: curr.Topic}
		}
		if old.Purpose != curr.Purpose {
			changes["purpose"] = FieldChange{Old: old.Purpose, New: curr.Purpose}
		}
		if old.NumMembers != curr.NumMembers {
			delta := curr.NumMembers - old.NumMembers
			changes["num_members"] = FieldChange{Old: old.NumMembers, New: curr.NumMembers, Diff: &delta}
		}

		if len(changes) > 0 {
			diff.Modified = append(diff.Modified, ModifiedChannel{
				ID:      id,
				Name:    curr.Name,
				Changes: changes,
			})
		}
	}

	diff.Stats = DiffStats{
		TotalBefore:   len(beforeByID),
		TotalAfter:    len(afterByID),
		AddedCount:    len(diff.Added),
		RemovedCount:  len(diff.Removed),
		ModifiedCount: len(diff.Modified),
	}
	return diff, nil
}

// CompareFiles compares file metadata in aggregate only
func CompareFiles(before, after []model.File) FileDiff {
	var sizeBefore, sizeAfter int64
	for _, f := range before {
		sizeBefore += f.Size
	}
	for _, f := range after {
		sizeAfter += f.Size
	}

	return FileDiff{
		Stats: FileStats{
			CountBefore: len(before),
			CountAfter:  len(after),
			CountDiff:   len(after) - len(before),
			SizeBefore:  sizeBefore,
			SizeAfter:   sizeAfter,
			SizeDiff:    sizeAfter - sizeBefore,
		},
	}
}

func indexUsers(users []model.User) (map[string]model.User, error) {
	byID := make(map[string]model.User, len(users))
	for i, u := range users {
		if u.ID == "" {
			return nil, goerr.Wrap(ErrMalformedRecord, "user record has no id", goerr.V("index", i))
		}
		byID[u.ID] = u
	}
	return byID, nil
}

func indexChannels(channels []model.Channel) (map[string]model.Channel, error) {
	byID := make(map[string]model.Channel, len(channels))
	for i, c := range channels {
		if c.ID == "" {
			return nil, goerr.Wrap(ErrMalformedRecord, "channel record has no id", goerr.V("index", i))
		}
		byID[c.ID] = c
	}
	return byID, nil
}

func keys[V any](m map[string]V) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

// splitIDs partitions the two ID sets into added (after only), removed
// (before only) and common, each sorted for deterministic output.
func splitIDs(before, after map[string]struct{}) (added, removed, common []string) {
	for id := range after {
		if _, ok := before[id]; ok {
			common = append(common, id)
		} else {
			added = append(added, id)
		}
	}
	for id := range before {
		if _, ok := after[id]; !ok {
			removed = append(removed, id)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(common)
	return added, removed, common
}
