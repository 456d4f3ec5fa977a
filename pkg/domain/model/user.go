package model

import "time"

// Profile holds the profile fields consumed by audits
type Profile struct {
	RealName string `json:"real_name"`
	Email    string `json:"email,omitempty"`
	Title    string `json:"title,omitempty"`
}

// User represents a workspace member record. ID is stable across snapshots
// of the same member and is the join key for diffing.
type User struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Deleted           bool    `json:"deleted"`
	IsBot             bool    `json:"is_bot"`
	IsAdmin           bool    `json:"is_admin"`
	IsOwner           bool    `json:"is_owner"`
	IsRestricted      bool    `json:"is_restricted"`
	IsUltraRestricted bool    `json:"is_ultra_restricted"`
	Updated           int64   `json:"updated"`
	Profile           Profile `json:"profile"`
}

// IsActive reports whether the user counts toward active membership
func (u User) IsActive() bool {
	return !u.Deleted && !u.IsBot
}

// IsGuest reports whether the user is a restricted (guest) account
func (u User) IsGuest() bool {
	return u.IsRestricted || u.IsUltraRestricted
}

// UpdatedAt returns the last profile-mutation time, the only activity proxy
// the platform exposes. Zero time means the field was never populated.
func (u User) UpdatedAt() time.Time {
	if u.Updated == 0 {
		return time.Time{}
	}
	return time.Unix(u.Updated, 0)
}
