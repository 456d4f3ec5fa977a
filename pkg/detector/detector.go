package detector

import (
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

const (
	// DefaultDeactivationWindowDays is the trailing window for the
	// deactivation spike check. It is a check parameter, not part of the
	// threshold configuration.
	DefaultDeactivationWindowDays = 7

	// maxSampleEntries caps the entity samples embedded in alert details.
	// The deactivation-spike and permission-change lists are exempt; see
	// the detail type doc comments.
	maxSampleEntries = 20
)

// ErrMalformedRecord indicates a record without the ID that detection uses
// as its join key.
var ErrMalformedRecord = goerr.New("record is missing its id")

// Detector evaluates workspace snapshots against a threshold configuration.
// It holds no mutable state across runs.
type Detector struct {
	thresholds model.Thresholds
	now        func() time.Time
}

// Option is a functional option for detector configuration
type Option func(*Detector)

// WithNow overrides the clock used for age calculations and alert timestamps
func WithNow(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

// New creates a detector with the given thresholds
func New(thresholds model.Thresholds, opts ...Option) *Detector {
	d := &Detector{
		thresholds: thresholds,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RunAll executes every check in a fixed order and concatenates their
// alerts. The first failing check aborts the whole run; partial results are
// not returned.
func (d *Detector) RunAll(current, previous *model.Snapshot) ([]model.Alert, error) {
	if current == nil {
		return nil, goerr.New("current snapshot is required")
	}

	var prevUsers []model.User
	var prevChannels []model.Channel
	if previous != nil {
		prevUsers = previous.Users
		prevChannels = previous.Channels
	}

	checks := []struct {
		name string
		run  func() ([]model.Alert, error)
	}{
		{"inactive_users", func() ([]model.Alert, error) {
			return d.CheckInactiveUsers(current.Users)
		}},
		{"recent_deactivations", func() ([]model.Alert, error) {
			return d.CheckRecentDeactivations(current.Users, DefaultDeactivationWindowDays)
		}},
		{"admin_changes", func() ([]model.Alert, error) {
			return d.CheckAdminChanges(current.Users, prevUsers)
		}},
		{"storage", func() ([]model.Alert, error) {
			return d.CheckStorage(current.Files)
		}},
		{"guest_accounts", func() ([]model.Alert, error) {
			return d.CheckGuestAccounts(current.Users)
		}},
		{"archived_channels", func() ([]model.Alert, error) {
			return d.CheckArchivedChannels(current.Channels, prevChannels)
		}},
		{"external_sharing", func() ([]model.Alert, error) {
			return d.CheckExternalSharing(current.Channels)
		}},
	}

	var all []model.Alert
	for _, check := range checks {
		alerts, err := check.run()
		if err != nil {
			return nil, goerr.Wrap(err, "check failed", goerr.V("check", check.name))
		}
		all = append(all, alerts...)
	}
	return all, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
