package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/domain/types"
)

func TestAlertJSONRoundTrip(t *testing.T) {
	ts := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	original := model.NewAlertAt(ts, types.AlertTypeStorage, types.SeverityCritical,
		"Critical Storage Usage",
		"Workspace storage at 96.00 GB (critical threshold: 95 GB)",
		model.StorageDetails{TotalGB: 96, Threshold: 95, FileCount: 1234})

	data := gt.R1(json.Marshal(original)).NoError(t)

	var restored model.Alert
	gt.NoError(t, json.Unmarshal(data, &restored))

	gt.Value(t, restored.Type).Equal(original.Type)
	gt.Value(t, restored.Severity).Equal(original.Severity)
	gt.Value(t, restored.Title).Equal(original.Title)
	gt.Value(t, restored.Message).Equal(original.Message)
	gt.Value(t, restored.Timestamp).Equal(ts)

	// Details survive as raw JSON; the serialized forms must match
	redata := gt.R1(json.Marshal(restored)).NoError(t)
	gt.Value(t, string(redata)).Equal(string(data))
}

func TestAlertMarshal_NilDetails(t *testing.T) {
	a := model.NewAlertAt(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		types.AlertTypeSecurity, types.SeverityInfo, "t", "m", nil)

	data := gt.R1(json.Marshal(a)).NoError(t)

	var doc map[string]json.RawMessage
	gt.NoError(t, json.Unmarshal(data, &doc))
	gt.Value(t, string(doc["details"])).Equal("{}")
}

func TestAlertUnmarshal_InvalidType(t *testing.T) {
	raw := `{"alert_type":"gossip","severity":"info","title":"t","message":"m","details":{},"timestamp":"2026-02-01T00:00:00Z"}`
	var a model.Alert
	gt.Value(t, json.Unmarshal([]byte(raw), &a)).NotNil()
}

func TestAlertUnmarshal_InvalidSeverity(t *testing.T) {
	raw := `{"alert_type":"storage","severity":"fatal","title":"t","message":"m","details":{},"timestamp":"2026-02-01T00:00:00Z"}`
	var a model.Alert
	gt.Value(t, json.Unmarshal([]byte(raw), &a)).NotNil()
}

func TestAlertUnmarshal_BadTimestamp(t *testing.T) {
	raw := `{"alert_type":"storage","severity":"info","title":"t","message":"m","details":{},"timestamp":"yesterday"}`
	var a model.Alert
	gt.Value(t, json.Unmarshal([]byte(raw), &a)).NotNil()
}

func TestAlertDetailsJSONKeys(t *testing.T) {
	details := model.InactiveUsersDetails{
		InactiveCount: 2,
		TotalUsers:    10,
		Percentage:    20,
		ThresholdDays: 90,
		Users: []model.InactiveUserSample{
			{ID: "U1", Name: "alice", RealName: "Alice", LastActivity: "2025-10-01", DaysInactive: 120},
		},
	}

	data := gt.R1(json.Marshal(details)).NoError(t)

	var doc map[string]json.RawMessage
	gt.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{"inactive_count", "total_users", "percentage", "threshold_days", "users"} {
		_, ok := doc[key]
		gt.Bool(t, ok).True()
	}
}
