package detector

import (
	"fmt"

	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/domain/types"
)

const bytesPerGB = 1 << 30

// CheckStorage reports workspace storage consumption against the warning
// and critical thresholds. The critical branch is inclusive and evaluated
// first; the two alerts are mutually exclusive.
func (d *Detector) CheckStorage(files []model.File) ([]model.Alert, error) {
	now := d.now()

	var totalBytes int64
	for _, f := range files {
		totalBytes += f.Size
	}
	totalGB := float64(totalBytes) / bytesPerGB

	switch {
	case totalGB >= d.thresholds.StorageCriticalGB:
		alert := model.NewAlertAt(now, types.AlertTypeStorage, types.SeverityCritical,
			"Critical Storage Usage",
			fmt.Sprintf("Workspace storage at %.2f GB (critical threshold: %g GB)",
				totalGB, d.thresholds.StorageCriticalGB),
			model.StorageDetails{
				TotalGB:   round2(totalGB),
				Threshold: d.thresholds.StorageCriticalGB,
				FileCount: len(files),
			})
		return []model.Alert{alert}, nil

	case totalGB >= d.thresholds.StorageWarningGB:
		alert := model.NewAlertAt(now, types.AlertTypeStorage, types.SeverityWarning,
			"High Storage Usage",
			fmt.Sprintf("Workspace storage at %.2f GB (warning threshold: %g GB)",
				totalGB, d.thresholds.StorageWarningGB),
			model.StorageDetails{
				TotalGB:   round2(totalGB),
				Threshold: d.thresholds.StorageWarningGB,
				FileCount: len(files),
			})
		return []model.Alert{alert}, nil
	}

	return nil, nil
}
