package detector

import (
	"fmt"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/domain/types"
)

// CheckInactiveUsers reports users whose last profile mutation predates the
// configured age. Deleted and bot users are excluded from both the inactive
// set and the population. Emits at most one alert; severity escalates to
// critical when the inactive fraction exceeds the configured percentage.
func (d *Detector) CheckInactiveUsers(users []model.User) ([]model.Alert, error) {
	now := d.now()
	thresholdDays := d.thresholds.InactiveUserDays
	cutoff := now.AddDate(0, 0, -thresholdDays)

	var inactive []model.InactiveUserSample
	var total int
	for _, u := range users {
		if !u.IsActive() {
			continue
		}
		total++

		updatedAt := u.UpdatedAt()
		if updatedAt.IsZero() || !updatedAt.Before(cutoff) {
			continue
		}
		inactive = append(inactive, model.InactiveUserSample{
			ID:           u.ID,
			Name:         u.Name,
			RealName:     u.Profile.RealName,
			LastActivity: updatedAt.Format("2006-01-02"),
			DaysInactive: int(now.Sub(updatedAt).Hours() / 24),
		})
	}
	if len(inactive) == 0 {
		return nil, nil
	}

	var percentage float64
	if total > 0 {
		percentage = float64(len(inactive)) / float64(total) * 100
	}

	severity := types.SeverityWarning
	if percentage > d.thresholds.InactiveUserPercentage {
		severity = types.SeverityCritical
	}

	samples := inactive
	if len(samples) > maxSampleEntries {
		samples = samples[:maxSampleEntries]
	}

	alert := model.NewAlertAt(now, types.AlertTypeUserActivity, severity,
		"Inactive Users Detected",
		fmt.Sprintf("Found %d users inactive for %d+ days (%.1f%% of workspace)",
			len(inactive), thresholdDays, percentage),
		model.InactiveUsersDetails{
			InactiveCount: len(inactive),
			TotalUsers:    total,
			Percentage:    round2(percentage),
			ThresholdDays: thresholdDays,
			Users:         samples,
		})
	return []model.Alert{alert}, nil
}

// CheckRecentDeactivations detects a spike of deactivations inside the
// trailing window. The deactivation time is approximated by the updated
// field. All matching users are listed, without the usual sample cap.
func (d *Detector) CheckRecentDeactivations(users []model.User, days int) ([]model.Alert, error) {
	if days <= 0 {
		days = DefaultDeactivationWindowDays
	}
	now := d.now()
	cutoff := now.AddDate(0, 0, -days)

	var recent []model.DeactivatedUser
	for _, u := range users {
		if !u.Deleted {
			continue
		}
		deactivatedAt := u.UpdatedAt()
		if deactivatedAt.IsZero() || deactivatedAt.Before(cutoff) {
			continue
		}
		recent = append(recent, model.DeactivatedUser{
			ID:       u.ID,
			Name:     u.Name,
			RealName: u.Profile.RealName,
			Date:     deactivatedAt.Format("2006-01-02"),
		})
	}
	if len(recent) < d.thresholds.DeactivationSpike {
		return nil, nil
	}

	alert := model.NewAlertAt(now, types.AlertTypeUserDeactivation, types.SeverityCritical,
		"Unusual Deactivation Spike",
		fmt.Sprintf("%d users deactivated in the last %d days", len(recent), days),
		model.DeactivationSpikeDetails{
			DeactivationCount: len(recent),
			Days:              days,
			Users:             recent,
		})
	return []model.Alert{alert}, nil
}

// CheckAdminChanges audits owner coverage and, when a previous snapshot is
// supplied, admin/owner flag flips between the two snapshots. Zero active
// owners is critical, exactly one is a warning, two or more is silent. A
// flip count at or above the configured spike produces one warning listing
// every change, without the usual sample cap.
func (d *Detector) CheckAdminChanges(users, previous []model.User) ([]model.Alert, error) {
	now := d.now()

	var alerts []model.Alert
	var ownerCount int
	for _, u := range users {
		if !u.Deleted && u.IsOwner {
			ownerCount++
		}
	}

	switch ownerCount {
	case 0:
		alerts = append(alerts, model.NewAlertAt(now, types.AlertTypePermissions, types.SeverityCritical,
			"No Workspace Owners",
			"No active workspace owners detected - this is a critical security issue",
			model.OwnerCountDetails{OwnerCount: 0}))
	case 1:
		alerts = append(alerts, model.NewAlertAt(now, types.AlertTypePermissions, types.SeverityWarning,
			"Single Workspace Owner",
			"Only one workspace owner - consider adding backup owners",
			model.OwnerCountDetails{OwnerCount: 1}))
	}

	// An empty previous user list means no prior data; skip the comparison.
	if len(previous) == 0 {
		return alerts, nil
	}

	prevByID, err := indexUsers(previous)
	if err != nil {
		return nil, err
	}
	currByID, err := indexUsers(users)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(prevByID)+len(currByID))
	for id := range prevByID {
		ids = append(ids, id)
	}
	for id := range currByID {
		if _, seen := prevByID[id]; !seen {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var changes []model.PermissionChange
	for _, id := range ids {
		// A side missing the user contributes zero-valued flags.
		prev := prevByID[id]
		curr := currByID[id]

		name := curr.Name
		if name == "" {
			name = prev.Name
		}

		if prev.IsAdmin != curr.IsAdmin {
			changes = append(changes, model.PermissionChange{
				UserID: id,
				Name:   name,
				Change: changeDirection(curr.IsAdmin),
				Role:   "admin",
			})
		}
		if prev.IsOwner != curr.IsOwner {
			changes = append(changes, model.PermissionChange{
				UserID: id,
				Name:   name,
				Change: changeDirection(curr.IsOwner),
				Role:   "owner",
			})
		}
	}

	if len(changes) >= d.thresholds.AdminChangeSpike {
		alerts = append(alerts, model.NewAlertAt(now, types.AlertTypePermissions, types.SeverityWarning,
			"Multiple Permission Changes",
			fmt.Sprintf("%d admin/owner permission changes detected", len(changes)),
			model.PermissionChangesDetails{
				ChangeCount: len(changes),
				Changes:     changes,
			}))
	}

	return alerts, nil
}

// CheckGuestAccounts reports a high ratio of restricted (guest) accounts
// among active users. Skipped entirely when there are no active users.
func (d *Detector) CheckGuestAccounts(users []model.User) ([]model.Alert, error) {
	now := d.now()

	var active, guests int
	for _, u := range users {
		if !u.IsActive() {
			continue
		}
		active++
		if u.IsGuest() {
			guests++
		}
	}
	if active == 0 {
		return nil, nil
	}

	percentage := float64(guests) / float64(active) * 100
	if percentage <= d.thresholds.GuestPercentage {
		return nil, nil
	}

	alert := model.NewAlertAt(now, types.AlertTypeSecurity, types.SeverityWarning,
		"High Guest Account Percentage",
		fmt.Sprintf("%d guest accounts (%.1f%% of workspace)", guests, percentage),
		model.GuestAccountsDetails{
			GuestCount: guests,
			TotalUsers: active,
			Percentage: round2(percentage),
			Threshold:  d.thresholds.GuestPercentage,
		})
	return []model.Alert{alert}, nil
}

func changeDirection(granted bool) string {
	if granted {
		return "granted"
	}
	return "revoked"
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
