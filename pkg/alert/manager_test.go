package alert_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/panoptes/pkg/alert"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/domain/types"
)

func sampleAlerts() []model.Alert {
	ts := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	return []model.Alert{
		model.NewAlertAt(ts, types.AlertTypeUserActivity, types.SeverityWarning,
			"Inactive Users Detected", "Found 3 users inactive for 90+ days (10.0% of workspace)",
			model.InactiveUsersDetails{InactiveCount: 3, TotalUsers: 30, Percentage: 10, ThresholdDays: 90}),
		model.NewAlertAt(ts, types.AlertTypePermissions, types.SeverityCritical,
			"No Workspace Owners", "No active workspace owners detected - this is a critical security issue",
			model.OwnerCountDetails{OwnerCount: 0}),
		model.NewAlertAt(ts, types.AlertTypeSecurity, types.SeverityInfo,
			"Multiple External Shared Channels", "51 externally shared channels",
			model.ExternalSharingDetails{ExternalCount: 51, Threshold: 50}),
		model.NewAlertAt(ts, types.AlertTypeSecurity, types.SeverityWarning,
			"High Guest Account Percentage", "5 guest accounts (25.0% of workspace)",
			model.GuestAccountsDetails{GuestCount: 5, TotalUsers: 20, Percentage: 25, Threshold: 20}),
	}
}

func TestManagerFilter(t *testing.T) {
	mgr := alert.NewManager()
	mgr.AddAll(sampleAlerts())

	// Both conditions are ANDed
	got := mgr.Filter(types.SeverityWarning, types.AlertTypeSecurity)
	gt.Array(t, got).Length(1)
	gt.Value(t, got[0].Title).Equal("High Guest Account Percentage")

	// Empty severity matches every severity
	got = mgr.Filter("", types.AlertTypeSecurity)
	gt.Array(t, got).Length(2)

	// Empty type matches every type; insertion order is preserved
	got = mgr.Filter(types.SeverityWarning, "")
	gt.Array(t, got).Length(2)
	gt.Value(t, got[0].Type).Equal(types.AlertTypeUserActivity)
	gt.Value(t, got[1].Type).Equal(types.AlertTypeSecurity)

	got = mgr.Filter("", "")
	gt.Array(t, got).Length(4)
}

func TestManagerSummary(t *testing.T) {
	mgr := alert.NewManager()
	mgr.AddAll(sampleAlerts())

	s := mgr.Summary()
	gt.Value(t, s.Total).Equal(4)
	gt.Value(t, s.Critical).Equal(1)
	gt.Value(t, s.Warning).Equal(2)
	gt.Value(t, s.Info).Equal(1)
	gt.Value(t, s.ByType[types.AlertTypeSecurity]).Equal(2)
	gt.Value(t, s.ByType[types.AlertTypeUserActivity]).Equal(1)

	// Types without alerts are not present at all
	_, ok := s.ByType[types.AlertTypeStorage]
	gt.Bool(t, ok).False()
}

func TestManagerSummary_Empty(t *testing.T) {
	mgr := alert.NewManager()

	s := mgr.Summary()
	gt.Value(t, s.Total).Equal(0)
	gt.Value(t, string(gt.R1(json.Marshal(s.ByType)).NoError(t))).Equal("{}")
	gt.Value(t, mgr.HighestSeverity()).Equal(types.Severity(""))
}

func TestManagerHighestSeverity(t *testing.T) {
	mgr := alert.NewManager()
	mgr.Add(sampleAlerts()[2]) // info
	gt.Value(t, mgr.HighestSeverity()).Equal(types.SeverityInfo)

	mgr.Add(sampleAlerts()[0]) // warning
	gt.Value(t, mgr.HighestSeverity()).Equal(types.SeverityWarning)

	mgr.Add(sampleAlerts()[1]) // critical
	gt.Value(t, mgr.HighestSeverity()).Equal(types.SeverityCritical)
}

func TestManagerPersistRestore(t *testing.T) {
	mgr := alert.NewManager()
	mgr.AddAll(sampleAlerts())

	var buf bytes.Buffer
	gt.NoError(t, mgr.Persist(&buf))

	restored := alert.NewManager()
	gt.NoError(t, restored.Restore(&buf))

	alerts := restored.Alerts()
	gt.Array(t, alerts).Length(4)
	gt.Value(t, restored.Summary()).Equal(mgr.Summary())

	// Timestamps come back from the document, not the restore time
	gt.Value(t, alerts[0].Timestamp).Equal(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
}

func TestManagerPersist_EmptyAlertsArray(t *testing.T) {
	mgr := alert.NewManager()

	var buf bytes.Buffer
	gt.NoError(t, mgr.Persist(&buf))

	var doc struct {
		GeneratedAt string          `json:"generated_at"`
		Alerts      json.RawMessage `json:"alerts"`
	}
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	gt.Value(t, string(doc.Alerts)).Equal("[]")

	_, err := time.Parse(time.RFC3339, doc.GeneratedAt)
	gt.NoError(t, err)
}

func TestManagerSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "alerts.json")

	mgr := alert.NewManager()
	mgr.AddAll(sampleAlerts())
	gt.NoError(t, mgr.SaveFile(path))

	loaded := alert.NewManager()
	gt.NoError(t, loaded.LoadFile(path))
	gt.Array(t, loaded.Alerts()).Length(4)
}

func TestManagerLoadFile_Missing(t *testing.T) {
	mgr := alert.NewManager()
	gt.NoError(t, mgr.LoadFile(filepath.Join(t.TempDir(), "nope.json")))
	gt.Array(t, mgr.Alerts()).Length(0)
}

func TestManagerAlertsReturnsCopy(t *testing.T) {
	mgr := alert.NewManager()
	mgr.AddAll(sampleAlerts())

	alerts := mgr.Alerts()
	alerts[0].Title = "mutated"

	gt.Value(t, mgr.Alerts()[0].Title).Equal("Inactive Users Detected")
}
