package model

import "encoding/json"

// AlertDetails is the closed set of per-check detail payloads. Each detector
// check owns one concrete shape, so consumers know exactly which fields a
// given alert carries.
type AlertDetails interface {
	isAlertDetails()
}

// RawDetails holds details restored from a persisted alert document. The
// persisted format carries no discriminator beyond alert_type, and some
// types (security, permissions) cover more than one shape, so restored
// payloads stay as raw JSON.
type RawDetails json.RawMessage

func (RawDetails) isAlertDetails() {}

// MarshalJSON writes the raw payload through unchanged
func (d RawDetails) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("{}"), nil
	}
	return []byte(d), nil
}

// InactiveUserSample is one inactive user entry. At most 20 samples are
// embedded per alert.
type InactiveUserSample struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RealName     string `json:"real_name"`
	LastActivity string `json:"last_activity"`
	DaysInactive int    `json:"days_inactive"`
}

// InactiveUsersDetails is the payload of a user_activity alert
type InactiveUsersDetails struct {
	InactiveCount int                  `json:"inactive_count"`
	TotalUsers    int                  `json:"total_users"`
	Percentage    float64              `json:"percentage"`
	ThresholdDays int                  `json:"threshold_days"`
	Users         []InactiveUserSample `json:"users"`
}

func (InactiveUsersDetails) isAlertDetails() {}

// DeactivatedUser is one recently deactivated user entry
type DeactivatedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
	Date     string `json:"date"`
}

// DeactivationSpikeDetails is the payload of a user_deactivation alert.
// Unlike the sampled payloads, the user list is intentionally unbounded.
type DeactivationSpikeDetails struct {
	DeactivationCount int               `json:"deactivation_count"`
	Days              int               `json:"days"`
	Users             []DeactivatedUser `json:"users"`
}

func (DeactivationSpikeDetails) isAlertDetails() {}

// OwnerCountDetails is the payload of an owner-count permissions alert
type OwnerCountDetails struct {
	OwnerCount int `json:"owner_count"`
}

func (OwnerCountDetails) isAlertDetails() {}

// PermissionChange is one admin/owner flag transition
type PermissionChange struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Change string `json:"change"` // granted or revoked
	Role   string `json:"role"`   // admin or owner
}

// PermissionChangesDetails is the payload of a permission-spike alert.
// The change list is intentionally unbounded.
type PermissionChangesDetails struct {
	ChangeCount int                `json:"change_count"`
	Changes     []PermissionChange `json:"changes"`
}

func (PermissionChangesDetails) isAlertDetails() {}

// StorageDetails is the payload of a storage alert
type StorageDetails struct {
	TotalGB   float64 `json:"total_gb"`
	Threshold float64 `json:"threshold"`
	FileCount int     `json:"file_count"`
}

func (StorageDetails) isAlertDetails() {}

// GuestAccountsDetails is the payload of a guest-ratio security alert
type GuestAccountsDetails struct {
	GuestCount int     `json:"guest_count"`
	TotalUsers int     `json:"total_users"`
	Percentage float64 `json:"percentage"`
	Threshold  float64 `json:"threshold"`
}

func (GuestAccountsDetails) isAlertDetails() {}

// ChannelSample is one channel entry in a sampled detail list
type ChannelSample struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArchiveSpikeDetails is the payload of a channel_management alert
type ArchiveSpikeDetails struct {
	ArchivedCount int             `json:"archived_count"`
	Channels      []ChannelSample `json:"channels"`
}

func (ArchiveSpikeDetails) isAlertDetails() {}

// ExternalSharingDetails is the payload of an external-sharing security alert
type ExternalSharingDetails struct {
	ExternalCount int             `json:"external_count"`
	Threshold     int             `json:"threshold"`
	Channels      []ChannelSample `json:"channels"`
}

func (ExternalSharingDetails) isAlertDetails() {}
