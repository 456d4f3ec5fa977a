package model

// Threshold override keys recognized by NewThresholds
const (
	KeyInactiveUserThreshold  = "inactive_user_threshold"
	KeyInactiveUserPercentage = "inactive_user_percentage"
	KeyStorageWarningGB       = "storage_warning_gb"
	KeyStorageCriticalGB      = "storage_critical_gb"
	KeyDeactivationSpike      = "deactivation_spike"
	KeyAdminChangeSpike       = "admin_change_spike"
	KeyChannelArchiveSpike    = "channel_archive_spike"
	KeyGuestPercentage        = "guest_percentage"
	KeyExternalSharingLimit   = "external_sharing_limit"
)

// Thresholds is the full set of limits controlling detector checks.
// It is built once per detector and never mutated afterwards.
type Thresholds struct {
	InactiveUserDays       int
	InactiveUserPercentage float64
	StorageWarningGB       float64
	StorageCriticalGB      float64
	DeactivationSpike      int
	AdminChangeSpike       int
	ChannelArchiveSpike    int
	GuestPercentage        float64
	ExternalSharingLimit   int
}

// DefaultThresholds returns the built-in limits
func DefaultThresholds() Thresholds {
	return Thresholds{
		InactiveUserDays:       90,
		InactiveUserPercentage: 30,
		StorageWarningGB:       80,
		StorageCriticalGB:      95,
		DeactivationSpike:      5,
		AdminChangeSpike:       3,
		ChannelArchiveSpike:    10,
		GuestPercentage:        20,
		ExternalSharingLimit:   50,
	}
}

// NewThresholds builds a configuration from defaults plus recognized
// overrides. Unknown keys are ignored for forward compatibility. Values are
// applied as-is; out-of-range values are left to downstream comparisons.
func NewThresholds(overrides map[string]float64) Thresholds {
	t := DefaultThresholds()
	for key, v := range overrides {
		switch key {
		case KeyInactiveUserThreshold:
			t.InactiveUserDays = int(v)
		case KeyInactiveUserPercentage:
			t.InactiveUserPercentage = v
		case KeyStorageWarningGB:
			t.StorageWarningGB = v
		case KeyStorageCriticalGB:
			t.StorageCriticalGB = v
		case KeyDeactivationSpike:
			t.DeactivationSpike = int(v)
		case KeyAdminChangeSpike:
			t.AdminChangeSpike = int(v)
		case KeyChannelArchiveSpike:
			t.ChannelArchiveSpike = int(v)
		case KeyGuestPercentage:
			t.GuestPercentage = v
		case KeyExternalSharingLimit:
			t.ExternalSharingLimit = int(v)
		}
	}
	return t
}
