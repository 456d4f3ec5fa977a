package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

func TestDefaultThresholds(t *testing.T) {
	th := model.DefaultThresholds()
	gt.Value(t, th.InactiveUserDays).Equal(90)
	gt.Value(t, th.InactiveUserPercentage).Equal(30.0)
	gt.Value(t, th.StorageWarningGB).Equal(80.0)
	gt.Value(t, th.StorageCriticalGB).Equal(95.0)
	gt.Value(t, th.DeactivationSpike).Equal(5)
	gt.Value(t, th.AdminChangeSpike).Equal(3)
	gt.Value(t, th.ChannelArchiveSpike).Equal(10)
	gt.Value(t, th.GuestPercentage).Equal(20.0)
	gt.Value(t, th.ExternalSharingLimit).Equal(50)
}

func TestNewThresholds_Overrides(t *testing.T) {
	th := model.NewThresholds(map[string]float64{
		model.KeyInactiveUserThreshold: 30,
		model.KeyStorageCriticalGB:     200,
		model.KeyGuestPercentage:       5.5,
	})

	gt.Value(t, th.InactiveUserDays).Equal(30)
	gt.Value(t, th.StorageCriticalGB).Equal(200.0)
	gt.Value(t, th.GuestPercentage).Equal(5.5)

	// Unmentioned limits keep their defaults
	gt.Value(t, th.DeactivationSpike).Equal(5)
}

func TestNewThresholds_UnknownKeysIgnored(t *testing.T) {
	th := model.NewThresholds(map[string]float64{
		"max_emoji_count": 9000,
	})
	gt.Value(t, th).Equal(model.DefaultThresholds())
}

func TestNewThresholds_PermissiveValues(t *testing.T) {
	// Out-of-range values are applied as-is, not validated away
	th := model.NewThresholds(map[string]float64{
		model.KeyDeactivationSpike:     0,
		model.KeyInactiveUserThreshold: -1,
	})
	gt.Value(t, th.DeactivationSpike).Equal(0)
	gt.Value(t, th.InactiveUserDays).Equal(-1)
}
