package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/haotianfei/frigate-exports-backup/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// SweepRetention deletes regular files in the destination directory whose
// modification time is strictly older than now minus the retention period.
// A missing directory is a warning, not an error, and per-file failures do
// not abort the sweep. Running the sweep twice in a row is a no-op.
func (a *Archiver) SweepRetention(ctx context.Context, now time.Time) (int, error) {
	ctx, span := otel.Tracer("usecase").Start(ctx, "sweep_retention")
	defer span.End()

	cutoff := now.In(a.settings.Location).AddDate(0, 0, -a.settings.RetentionDays)
	a.logger.Info("sweeping expired export files",
		zap.String("cutoff", cutoff.Format("2006-01-02 15:04:05")),
		zap.Int("retention_days", a.settings.RetentionDays),
	)

	entries, err := os.ReadDir(a.settings.DestDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.logger.Warn("destination directory does not exist", zap.String("dir", a.settings.DestDir))
			return 0, nil
		}
		return 0, fmt.Errorf("list destination directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			a.logger.Warn("stat failed during sweep", zap.String("name", entry.Name()), zap.Error(err))
			continue
		}

		if !info.ModTime().In(a.settings.Location).Before(cutoff) {
			continue
		}

		path := filepath.Join(a.settings.DestDir, entry.Name())
		if err := os.Remove(path); err != nil {
			a.logger.Error("deleting expired file failed", zap.String("path", path), zap.Error(err))
			continue
		}
		a.logger.Info("expired file deleted", zap.String("name", entry.Name()))
		metrics.FilesSweptTotal.Inc()
		removed++
	}

	a.logger.Info("retention sweep finished", zap.Int("removed", removed))
	return removed, nil
}
