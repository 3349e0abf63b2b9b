package usecase

import (
	"context"
	"time"

	"github.com/haotianfei/frigate-exports-backup/internal/domain/entity"
	"github.com/haotianfei/frigate-exports-backup/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// RequestExports triggers an export per camera for the window and returns the
// jobs that were accepted. A single camera's failure never aborts the batch;
// only accepted cameras flow downstream.
func (a *Archiver) RequestExports(ctx context.Context, cameras []string, win Window) []entity.ExportJob {
	ctx, span := otel.Tracer("usecase").Start(ctx, "request_exports")
	defer span.End()

	a.logger.Info("requesting exports",
		zap.String("date", win.DateString),
		zap.Int64("window_start", win.Start),
		zap.Int64("window_end", win.End),
		zap.Strings("cameras", cameras),
	)

	jobs := make([]entity.ExportJob, 0, len(cameras))
	for _, camera := range cameras {
		if ctx.Err() != nil {
			a.logger.Info("export requests interrupted", zap.Int("accepted", len(jobs)))
			break
		}

		if err := a.api.StartExport(ctx, camera, win.Start, win.End); err != nil {
			a.logger.Error("export trigger failed", zap.String("camera", camera), zap.Error(err))
			continue
		}

		a.logger.Info("export trigger accepted", zap.String("camera", camera))
		metrics.ExportsRequestedTotal.Inc()
		jobs = append(jobs, entity.ExportJob{
			Camera:      camera,
			WindowStart: win.Start,
			RequestedAt: time.Now(),
		})
	}
	return jobs
}
