package alert

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/domain/types"
	"github.com/secmon-lab/panoptes/pkg/utils/safe"
)

// Manager owns the ordered alert list of one detection run. Insertion order
// is detection order. Alerts are never deduplicated.
type Manager struct {
	alerts []model.Alert
}

// Summary is the aggregate view of a manager's alerts. Types with zero
// alerts are omitted from ByType.
type Summary struct {
	Total    int                     `json:"total"`
	Critical int                     `json:"critical"`
	Warning  int                     `json:"warning"`
	Info     int                     `json:"info"`
	ByType   map[types.AlertType]int `json:"by_type"`
}

// NewManager creates an empty alert manager
func NewManager() *Manager {
	return &Manager{}
}

// Add appends one alert
func (m *Manager) Add(a model.Alert) {
	m.alerts = append(m.alerts, a)
}

// AddAll appends multiple alerts in order
func (m *Manager) AddAll(alerts []model.Alert) {
	m.alerts = append(m.alerts, alerts...)
}

// Alerts returns a copy of the alert list in insertion order
func (m *Manager) Alerts() []model.Alert {
	out := make([]model.Alert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// Filter returns the alerts matching both conditions, preserving order.
// A zero-value severity or alert type matches everything.
func (m *Manager) Filter(severity types.Severity, alertType types.AlertType) []model.Alert {
	var out []model.Alert
	for _, a := range m.alerts {
		if severity != "" && a.Severity != severity {
			continue
		}
		if alertType != "" && a.Type != alertType {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Summary returns aggregate counts over the held alerts
func (m *Manager) Summary() Summary {
	s := Summary{
		Total:  len(m.alerts),
		ByType: make(map[types.AlertType]int),
	}
	for _, a := range m.alerts {
		switch a.Severity {
		case types.SeverityCritical:
			s.Critical++
		case types.SeverityWarning:
			s.Warning++
		case types.SeverityInfo:
			s.Info++
		}
		s.ByType[a.Type]++
	}
	return s
}

// HighestSeverity returns the most urgent severity present, or the empty
// severity when the manager holds no alerts.
func (m *Manager) HighestSeverity() types.Severity {
	var highest types.Severity
	for _, a := range m.alerts {
		if a.Severity.Level() > highest.Level() {
			highest = a.Severity
		}
	}
	return highest
}

type persistedReport struct {
	GeneratedAt string        `json:"generated_at"`
	Summary     Summary       `json:"summary"`
	Alerts      []model.Alert `json:"alerts"`
}

// Persist writes the alert report document to w
func (m *Manager) Persist(w io.Writer) error {
	doc := persistedReport{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary:     m.Summary(),
		Alerts:      m.alerts,
	}
	if doc.Alerts == nil {
		doc.Alerts = []model.Alert{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return goerr.Wrap(err, "failed to encode alert report")
	}
	return nil
}

// Restore replaces the manager's alerts with those read from r. Timestamps
// are reconstructed from their serialized form, not the restore time.
func (m *Manager) Restore(r io.Reader) error {
	var doc struct {
		Alerts []model.Alert `json:"alerts"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return goerr.Wrap(err, "failed to decode alert report")
	}
	m.alerts = doc.Alerts
	return nil
}

// SaveFile persists the report to path, creating parent directories
func (m *Manager) SaveFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return goerr.Wrap(err, "failed to create alert directory", goerr.V("path", path))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create alert file", goerr.V("path", path))
	}

	if err := m.Persist(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close alert file", goerr.V("path", path))
	}
	return nil
}

// LoadFile restores the report from path. A missing file leaves the manager
// empty; that is a valid no-previous-data state.
func (m *Manager) LoadFile(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		m.alerts = nil
		return nil
	}
	if err != nil {
		return goerr.Wrap(err, "failed to open alert file", goerr.V("path", path))
	}
	defer safe.Close(f)

	return m.Restore(f)
}
