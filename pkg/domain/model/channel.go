package model

// Channel represents a workspace channel record. ID is stable across
// snapshots of the same channel.
type Channel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsArchived  bool   `json:"is_archived"`
	IsExtShared bool   `json:"is_ext_shared"`
	NumMembers  int    `json:"num_members"`
	Topic       string `json:"topic,omitempty"`
	Purpose     string `json:"purpose,omitempty"`
}
