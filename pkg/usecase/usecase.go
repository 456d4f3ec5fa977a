package usecase

import (
	"time"

	"github.com/secmon-lab/panoptes/pkg/detector"
	"github.com/secmon-lab/panoptes/pkg/domain/interfaces"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

// UseCases bundles the application workflows
type UseCases struct {
	source     interfaces.WorkspaceSource
	store      interfaces.SnapshotStore
	notifier   interfaces.Notifier
	thresholds model.Thresholds
	now        func() time.Time

	Scan *ScanUseCase
}

// Option is a functional option for UseCases construction
type Option func(*UseCases)

// WithThresholds overrides the default threshold configuration
func WithThresholds(t model.Thresholds) Option {
	return func(uc *UseCases) {
		uc.thresholds = t
	}
}

// WithNotifier sets the notification sink
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithNow overrides the clock (tests)
func WithNow(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// New creates the use cases from a workspace source and snapshot store
func New(source interfaces.WorkspaceSource, store interfaces.SnapshotStore, opts ...Option) *UseCases {
	uc := &UseCases{
		source:     source,
		store:      store,
		thresholds: model.DefaultThresholds(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}

	uc.Scan = &ScanUseCase{
		source:   source,
		store:    store,
		notifier: uc.notifier,
		detector: detector.New(uc.thresholds, detector.WithNow(uc.now)),
	}

	return uc
}
