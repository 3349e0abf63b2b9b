package usecase

import (
	"context"
	"time"

	"github.com/haotianfei/frigate-exports-backup/internal/domain/entity"
	"github.com/haotianfei/frigate-exports-backup/internal/domain/port"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Settings are the immutable per-process parameters of the pipeline.
type Settings struct {
	SourceDir     string
	DestDir       string
	RetentionDays int
	DaysAgo       int
	PollInterval  time.Duration
	MaxWait       time.Duration
	Location      *time.Location
}

// Archiver runs the export lifecycle: trigger, track, relocate, sweep.
// The run repository, notifier, publisher and offsite store are optional;
// nil values are replaced by no-op implementations.
type Archiver struct {
	api       port.ExportAPI
	runs      port.RunRepository
	notifier  port.UnresolvedNotifier
	publisher port.StatusPublisher
	offsite   port.OffsiteStore
	logger    *zap.Logger
	settings  Settings
}

func NewArchiver(
	api port.ExportAPI,
	runs port.RunRepository,
	notifier port.UnresolvedNotifier,
	publisher port.StatusPublisher,
	offsite port.OffsiteStore,
	logger *zap.Logger,
	settings Settings,
) *Archiver {
	if runs == nil {
		runs = nopRunRepository{}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &Archiver{
		api:       api,
		runs:      runs,
		notifier:  notifier,
		publisher: publisher,
		offsite:   offsite,
		logger:    logger,
		settings:  settings,
	}
}

type nopRunRepository struct{}

func (nopRunRepository) Create(context.Context, *entity.Run) error { return nil }
func (nopRunRepository) Update(context.Context, *entity.Run) error { return nil }
func (nopRunRepository) FindByID(context.Context, uuid.UUID) (*entity.Run, error) {
	return nil, nil
}

type nopNotifier struct{}

func (nopNotifier) NotifyUnresolved(context.Context, string, string, []string) error { return nil }

type nopPublisher struct{}

func (nopPublisher) PublishStatus(context.Context, []byte) error { return nil }
