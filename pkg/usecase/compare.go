package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/panoptes/pkg/compare"
	"github.com/secmon-lab/panoptes/pkg/domain/interfaces"
)

// CompareUseCase diffs two full workspace backups
type CompareUseCase struct {
	loader interfaces.BackupLoader
}

// NewCompareUseCase creates a comparison workflow over the given loader
func NewCompareUseCase(loader interfaces.BackupLoader) *CompareUseCase {
	return &CompareUseCase{loader: loader}
}

// Compare loads both backup directories and builds the comparison report
func (u *CompareUseCase) Compare(ctx context.Context, beforeDir, afterDir string) (*compare.Report, error) {
	before, err := u.loader.LoadBackup(ctx, beforeDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load backup", goerr.V("dir", beforeDir))
	}
	after, err := u.loader.LoadBackup(ctx, afterDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load backup", goerr.V("dir", afterDir))
	}

	report, err := compare.Compare(before, after)
	if err != nil {
		return nil, err
	}
	report.BeforePath = beforeDir
	report.AfterPath = afterDir
	return report, nil
}
