package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/panoptes/pkg/alert"
	"github.com/secmon-lab/panoptes/pkg/detector"
	"github.com/secmon-lab/panoptes/pkg/domain/interfaces"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/utils/logging"
)

// ScanUseCase captures the current workspace state, runs all detector
// checks and handles the resulting alerts.
type ScanUseCase struct {
	source   interfaces.WorkspaceSource
	store    interfaces.SnapshotStore
	notifier interfaces.Notifier
	detector *detector.Detector
}

// ScanInput controls one scan run
type ScanInput struct {
	// Compare loads the previous snapshot for delta checks and saves the
	// current one afterwards.
	Compare bool
	// AlertsPath persists the alert report as JSON when non-empty
	AlertsPath string
	// Notify sends best-effort notifications when alerts were found
	Notify bool
}

// ScanResult is the outcome of one scan run
type ScanResult struct {
	Manager          *alert.Manager
	Summary          alert.Summary
	Snapshot         *model.Snapshot
	ComparedPrevious bool
}

// Scan runs one detection cycle. A previous-snapshot read failure degrades
// to running without comparison; write and notification handling failures
// propagate (notification delivery itself is best-effort).
func (u *ScanUseCase) Scan(ctx context.Context, input ScanInput) (*ScanResult, error) {
	logger := logging.From(ctx)

	current, err := u.source.Collect(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to collect workspace data")
	}
	logger.Info("Collected workspace snapshot",
		"users", len(current.Users),
		"channels", len(current.Channels),
		"files", len(current.Files),
	)

	var previous *model.Snapshot
	if input.Compare {
		previous, err = u.store.Load(ctx)
		if err != nil {
			logger.Warn("Failed to load previous snapshot, continuing without comparison", "error", err)
			previous = nil
		} else if previous == nil {
			logger.Info("No previous snapshot found, running without comparison")
		}
	}

	alerts, err := u.detector.RunAll(current, previous)
	if err != nil {
		return nil, err
	}

	mgr := alert.NewManager()
	mgr.AddAll(alerts)

	if input.AlertsPath != "" {
		if err := mgr.SaveFile(input.AlertsPath); err != nil {
			return nil, err
		}
		logger.Info("Alert report saved", "path", input.AlertsPath)
	}

	if input.Compare {
		if err := u.store.Save(ctx, current); err != nil {
			return nil, goerr.Wrap(err, "failed to save snapshot")
		}
		logger.Info("Workspace snapshot saved for next comparison")
	}

	if input.Notify && u.notifier != nil && len(alerts) > 0 {
		if err := u.notifier.Notify(ctx, mgr.Alerts()); err != nil {
			logger.Warn("Failed to send notifications", "error", err)
		}
	}

	return &ScanResult{
		Manager:          mgr,
		Summary:          mgr.Summary(),
		Snapshot:         current,
		ComparedPrevious: previous != nil,
	}, nil
}
