package model

// Snapshot is a point-in-time capture of workspace state. The three
// collections are fetched independently with no transactional guarantee.
type Snapshot struct {
	Users    []User    `json:"users"`
	Channels []Channel `json:"channels"`
	Files    []File    `json:"files"`
}

// TotalFileBytes returns the sum of all file sizes
func (s *Snapshot) TotalFileBytes() int64 {
	var total int64
	for _, f := range s.Files {
		total += f.Size
	}
	return total
}
