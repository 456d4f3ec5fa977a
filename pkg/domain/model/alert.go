package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/domain/types"
)

// Alert is an immutable detection result. All fields are set at construction
// and never mutated afterwards.
type Alert struct {
	Type      types.AlertType
	Severity  types.Severity
	Title     string
	Message   string
	Details   AlertDetails
	Timestamp time.Time
}

// NewAlert creates an alert stamped with the current time
func NewAlert(alertType types.AlertType, severity types.Severity, title, message string, details AlertDetails) Alert {
	return NewAlertAt(time.Now(), alertType, severity, title, message, details)
}

// NewAlertAt creates an alert stamped with the given time. Detectors use
// their injected clock so that one run yields uniform timestamps.
func NewAlertAt(ts time.Time, alertType types.AlertType, severity types.Severity, title, message string, details AlertDetails) Alert {
	return Alert{
		Type:      alertType,
		Severity:  severity,
		Title:     title,
		Message:   message,
		Details:   details,
		Timestamp: ts,
	}
}

type alertJSON struct {
	Type      types.AlertType `json:"alert_type"`
	Severity  types.Severity  `json:"severity"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Details   AlertDetails    `json:"details"`
	Timestamp string          `json:"timestamp"`
}

// MarshalJSON renders the persisted alert shape with an ISO-8601 timestamp
func (a Alert) MarshalJSON() ([]byte, error) {
	details := a.Details
	if details == nil {
		details = RawDetails("{}")
	}
	return json.Marshal(alertJSON{
		Type:      a.Type,
		Severity:  a.Severity,
		Title:     a.Title,
		Message:   a.Message,
		Details:   details,
		Timestamp: a.Timestamp.Format(time.RFC3339),
	})
}

// UnmarshalJSON reconstructs an alert from its persisted shape. The original
// timestamp is preserved; details stay as raw JSON (see RawDetails).
func (a *Alert) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type      types.AlertType `json:"alert_type"`
		Severity  types.Severity  `json:"severity"`
		Title     string          `json:"title"`
		Message   string          `json:"message"`
		Details   json.RawMessage `json:"details"`
		Timestamp string          `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return goerr.Wrap(err, "failed to parse alert")
	}
	if !raw.Type.IsValid() {
		return goerr.New("invalid alert type", goerr.V("alert_type", raw.Type))
	}
	if !raw.Severity.IsValid() {
		return goerr.New("invalid alert severity", goerr.V("severity", raw.Severity))
	}
	ts, err := time.Parse(time.RFC3339, raw.Timestamp)
	if err != nil {
		return goerr.Wrap(err, "failed to parse alert timestamp", goerr.V("timestamp", raw.Timestamp))
	}

	a.Type = raw.Type
	a.Severity = raw.Severity
	a.Title = raw.Title
	a.Message = raw.Message
	a.Details = RawDetails(append([]byte(nil), raw.Details...))
	a.Timestamp = ts
	return nil
}
