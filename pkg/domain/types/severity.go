package types

import "fmt"

// Severity represents the urgency of an alert
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// AllSeverities returns all valid severities in ascending order
func AllSeverities() []Severity {
	return []Severity{
		SeverityInfo,
		SeverityWarning,
		SeverityCritical,
	}
}

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo,
		SeverityWarning,
		SeverityCritical:
		return true
	default:
		return false
	}
}

// Level returns the ordering of the severity (info < warning < critical).
// An invalid severity is below all valid ones.
func (s Severity) Level() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityCritical:
		return 3
	default:
		return 0
	}
}

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a string into a Severity
func ParseSeverity(s string) (Severity, error) {
	severity := Severity(s)
	if !severity.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", s)
	}
	return severity, nil
}
