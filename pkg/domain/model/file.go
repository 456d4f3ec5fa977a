package model

// File represents uploaded file metadata. Only Size participates in
// detection; the rest is carried for backup reports.
type File struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size"`
}
