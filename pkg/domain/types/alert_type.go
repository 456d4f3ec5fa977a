package types

import "fmt"

// AlertType represents the category of an alert
type AlertType string

const (
	AlertTypeUserActivity      AlertType = "user_activity"
	AlertTypeUserDeactivation  AlertType = "user_deactivation"
	AlertTypePermissions       AlertType = "permissions"
	AlertTypeStorage           AlertType = "storage"
	AlertTypeSecurity          AlertType = "security"
	AlertTypeChannelManagement AlertType = "channel_management"
)

// AllAlertTypes returns all valid alert types
func AllAlertTypes() []AlertType {
	return []AlertType{
		AlertTypeUserActivity,
		AlertTypeUserDeactivation,
		AlertTypePermissions,
		AlertTypeStorage,
		AlertTypeSecurity,
		AlertTypeChannelManagement,
	}
}

// IsValid checks if the alert type is valid
func (t AlertType) IsValid() bool {
	switch t {
	case AlertTypeUserActivity,
		AlertTypeUserDeactivation,
		AlertTypePermissions,
		AlertTypeStorage,
		AlertTypeSecurity,
		AlertTypeChannelManagement:
		return true
	default:
		return false
	}
}

// String returns the string representation of the alert type
func (t AlertType) String() string {
	return string(t)
}

// ParseAlertType parses a string into an AlertType
func ParseAlertType(s string) (AlertType, error) {
	alertType := AlertType(s)
	if !alertType.IsValid() {
		return "", fmt.Errorf("invalid alert type: %s", s)
	}
	return alertType, nil
}
