package port

import (
	"context"

	"github.com/haotianfei/frigate-exports-backup/internal/domain/entity"
)

// ExportAPI is the Frigate export surface this system consumes.
type ExportAPI interface {
	// Cameras returns the camera names known to the platform. Implementations
	// may degrade to a configured fallback list when discovery fails.
	Cameras(ctx context.Context) ([]string, error)

	// StartExport triggers an export of recordings for the camera between
	// start and end (epoch seconds).
	StartExport(ctx context.Context, camera string, start, end int64) error

	// ListExports returns every export record the platform currently holds.
	ListExports(ctx context.Context) ([]entity.ExportRecord, error)

	// DeleteExport removes the remote export record by ID.
	DeleteExport(ctx context.Context, id string) error
}
