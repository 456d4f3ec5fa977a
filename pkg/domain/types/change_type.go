package types

// ChangeType classifies an entry in a backup comparison report
type ChangeType string

const (
	ChangeTypeAdded    ChangeType = "added"
	ChangeTypeRemoved  ChangeType = "removed"
	ChangeTypeModified ChangeType = "modified"
)

// IsValid checks if the change type is valid
func (t ChangeType) IsValid() bool {
	switch t {
	case ChangeTypeAdded,
		ChangeTypeRemoved,
		ChangeTypeModified:
		return true
	default:
		return false
	}
}

// String returns the string representation of the change type
func (t ChangeType) String() string {
	return string(t)
}
