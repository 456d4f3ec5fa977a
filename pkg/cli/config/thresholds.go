package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

// flag value meaning "not set"; threshold values are all non-negative
const unsetThreshold = -1

// Thresholds collects detector limit overrides from a TOML file and flags.
// Precedence is flags over file over built-in defaults.
type Thresholds struct {
	configPath string

	inactiveUserDays       int
	inactiveUserPercentage float64
	storageWarningGB       float64
	storageCriticalGB      float64
	deactivationSpike      int
	adminChangeSpike       int
	channelArchiveSpike    int
	guestPercentage        float64
	externalSharingLimit   int
}

func (x *Thresholds) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Threshold configuration file (TOML)",
			Category:    "Thresholds",
			Destination: &x.configPath,
			Sources:     cli.EnvVars("PANOPTES_CONFIG"),
		},
		&cli.IntFlag{
			Name:        "inactive-user-days",
			Usage:       "Days without activity before a user counts as inactive",
			Category:    "Thresholds",
			Value:       unsetThreshold,
			Destination: &x.inactiveUserDays,
			Sources:     cli.EnvVars("PANOPTES_INACTIVE_USER_DAYS"),
		},
		&cli.FloatFlag{
			Name:        "inactive-user-percentage",
			Usage:       "Inactive user percentage above which the alert is critical",
			Category:    "Thresholds",
			Value:       unsetThreshold,
			Destination: &x.inactiveUserPercentage,
			Sources:     cli.EnvVars("PANOPTES_INACTIVE_USER_PERCENTAGE"),
		},
		&cli.FloatFlag{
			Name:        "storage-warning-gb",
			Usage:       "Storage usage (GB) that triggers a warning",
			Category:    "Thresholds",
			Value:       unsetThreshold,
			Destination: &x.storageWarningGB,
			Sources:     cli.EnvVars("PANOPTES_STORAGE_WARNING_GB"),
		},
		&cli.FloatFlag{
			Name:        "storage-critical-gb",
			Usage:       "Storage usage (GB) that triggers a critical alert",
			Category:    "Thresholds",
			Value:       unsetThreshold,
			Destination: &x.storageCriticalGB,
			Sources:     cli.EnvVars("PANOPTES_STORAGE_CRITICAL_GB"),
		},
		&cli.IntFlag{
			Name:        "deactivation-spike",
			Usage:       "Deactivations within the window that count as a spike",
			Category:    "Thresholds",
			Value:       unsetThreshold,
			Destination: &x.deactivationSpike,
			Sources:     cli.EnvVars("PANOPTES_DEACTIVATION_SPIKE"),
		},
		&cli.IntFlag{
			Name:        "admin-change-spike",
			Usage:       "Permission changes between snapshots that count as a spike",
			Category:    "Thresholds",
			Value:       unsetThreshold,
			Destination: &x.adminChangeSpike,
			Sources:     cli.EnvVars("PANOPTES_ADMIN_CHANGE_SPIKE"),
		},
		&cli.IntFlag{
			Name:        "channel-archive-spike",
			Usage:       "Newly archived channels between snapshots that count as a spike",
			Category:    "Thresholds",
			Value:       unsetThreshold,
			Destination: &x.channelArchiveSpike,
			Sources:     cli.EnvVars("PANOPTES_CHANNEL_ARCHIVE_SPIKE"),
		},
		&cli.FloatFlag{
			Name:        "guest-percentage",
			Usage:       "Guest account percentage above which a warning is raised",
			Category:    "Thresholds",
			Value:       unsetThreshold,
			Destination: &x.guestPercentage,
			Sources:     cli.EnvVars("PANOPTES_GUEST_PERCENTAGE"),
		},
		&cli.IntFlag{
			Name:        "external-sharing-limit",
			Usage:       "Externally shared channel count above which an info alert is raised",
			Category:    "Thresholds",
			Value:       unsetThreshold,
			Destination: &x.externalSharingLimit,
			Sources:     cli.EnvVars("PANOPTES_EXTERNAL_SHARING_LIMIT"),
		},
	}
}

// Configure merges the configuration file and flag overrides into the
// threshold set used by the detector.
func (x *Thresholds) Configure() (model.Thresholds, error) {
	overrides := map[string]float64{}

	if x.configPath != "" {
		fileOverrides, err := loadThresholdFile(x.configPath)
		if err != nil {
			return model.Thresholds{}, err
		}
		for key, v := range fileOverrides {
			overrides[key] = v
		}
	}

	if x.inactiveUserDays != unsetThreshold {
		overrides[model.KeyInactiveUserThreshold] = float64(x.inactiveUserDays)
	}
	if x.inactiveUserPercentage != unsetThreshold {
		overrides[model.KeyInactiveUserPercentage] = x.inactiveUserPercentage
	}
	if x.storageWarningGB != unsetThreshold {
		overrides[model.KeyStorageWarningGB] = x.storageWarningGB
	}
	if x.storageCriticalGB != unsetThreshold {
		overrides[model.KeyStorageCriticalGB] = x.storageCriticalGB
	}
	if x.deactivationSpike != unsetThreshold {
		overrides[model.KeyDeactivationSpike] = float64(x.deactivationSpike)
	}
	if x.adminChangeSpike != unsetThreshold {
		overrides[model.KeyAdminChangeSpike] = float64(x.adminChangeSpike)
	}
	if x.channelArchiveSpike != unsetThreshold {
		overrides[model.KeyChannelArchiveSpike] = float64(x.channelArchiveSpike)
	}
	if x.guestPercentage != unsetThreshold {
		overrides[model.KeyGuestPercentage] = x.guestPercentage
	}
	if x.externalSharingLimit != unsetThreshold {
		overrides[model.KeyExternalSharingLimit] = float64(x.externalSharingLimit)
	}

	return model.NewThresholds(overrides), nil
}

func loadThresholdFile(path string) (map[string]float64, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, goerr.Wrap(ErrConfigNotFound, "threshold config file does not exist", goerr.V("path", path))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read threshold config file", goerr.V("path", path))
	}

	var doc struct {
		Thresholds map[string]float64 `toml:"thresholds"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse threshold config file",
			goerr.V("path", path), goerr.V("cause", err.Error()))
	}

	return doc.Thresholds, nil
}
