package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/haotianfei/frigate-exports-backup/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// DeleteOutcome is the result of the best-effort remote record deletion that
// follows a successful move. It never affects the move itself.
type DeleteOutcome string

const (
	DeleteOutcomeDeleted DeleteOutcome = "deleted"
	DeleteOutcomeFailed  DeleteOutcome = "failed"
	DeleteOutcomeSkipped DeleteOutcome = "skipped"
)

type MovedFile struct {
	Camera         string
	RecordID       string
	Source         string
	Dest           string
	Size           int64
	RecordDeletion DeleteOutcome
}

type RelocateResult struct {
	Moved int
	Files []MovedFile
}

// RelocateFiles moves completed export files for the given cameras and date
// into the destination directory, creating it if absent. Missing source files
// are skipped. After each successful move the remote export record is deleted
// best-effort and, when an offsite store is configured, the file is mirrored.
func (a *Archiver) RelocateFiles(ctx context.Context, cameras []string, dateString string) (RelocateResult, error) {
	ctx, span := otel.Tracer("usecase").Start(ctx, "relocate_files")
	defer span.End()

	var result RelocateResult

	records, err := a.api.ListExports(ctx)
	if err != nil {
		return result, fmt.Errorf("list exports: %w", err)
	}

	if err := os.MkdirAll(a.settings.DestDir, 0o755); err != nil {
		return result, fmt.Errorf("create destination directory: %w", err)
	}

	cameraSet := make(map[string]bool, len(cameras))
	for _, camera := range cameras {
		cameraSet[camera] = true
	}

	targets := 0
	for _, rec := range records {
		if !cameraSet[rec.Camera] || rec.InProgress || !strings.Contains(rec.Name, dateString) {
			continue
		}
		targets++
	}
	a.logger.Info("relocating completed exports",
		zap.Int("count", targets),
		zap.String("date", dateString),
	)

	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}
		if !cameraSet[rec.Camera] || rec.InProgress || !strings.Contains(rec.Name, dateString) {
			continue
		}

		src := resolveHostPath(rec.VideoPath, a.settings.SourceDir)
		if src == "" {
			a.logger.Warn("export record has no video path", zap.String("id", rec.ID))
			continue
		}

		info, err := os.Stat(src)
		if err != nil {
			a.logger.Warn("export file missing, skipping",
				zap.String("camera", rec.Camera),
				zap.String("path", src),
			)
			continue
		}

		dest := filepath.Join(a.settings.DestDir, filepath.Base(src))
		if err := moveFile(src, dest); err != nil {
			a.logger.Error("moving export file failed",
				zap.String("source", src),
				zap.String("dest", dest),
				zap.Error(err),
			)
			continue
		}

		a.logger.Info("export file moved",
			zap.String("camera", rec.Camera),
			zap.String("dest", dest),
			zap.String("size", formatSize(info.Size())),
		)
		metrics.FilesMovedTotal.Inc()

		deletion := a.deleteRemoteRecord(ctx, rec.ID)
		a.mirrorOffsite(ctx, filepath.Base(dest), dest)

		result.Files = append(result.Files, MovedFile{
			Camera:         rec.Camera,
			RecordID:       rec.ID,
			Source:         src,
			Dest:           dest,
			Size:           info.Size(),
			RecordDeletion: deletion,
		})
		result.Moved++
	}

	a.logger.Info("relocation finished", zap.Int("moved", result.Moved))
	return result, nil
}

func (a *Archiver) deleteRemoteRecord(ctx context.Context, id string) DeleteOutcome {
	if id == "" {
		return DeleteOutcomeSkipped
	}
	if err := a.api.DeleteExport(ctx, id); err != nil {
		a.logger.Warn("deleting remote export record failed", zap.String("id", id), zap.Error(err))
		return DeleteOutcomeFailed
	}
	a.logger.Info("remote export record deleted", zap.String("id", id))
	return DeleteOutcomeDeleted
}

func (a *Archiver) mirrorOffsite(ctx context.Context, key, path string) {
	if a.offsite == nil {
		return
	}
	if err := a.offsite.Upload(ctx, key, path); err != nil {
		a.logger.Warn("offsite mirror failed", zap.String("key", key), zap.Error(err))
		return
	}
	a.logger.Info("file mirrored offsite", zap.String("key", key))
}

// moveFile moves src to dest, overwriting an existing destination. Rename is
// tried first; on failure (typically a cross-device move) the file is copied
// and the source removed.
func moveFile(src, dest string) error {
	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove existing destination: %w", err)
	}
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	return copyAndRemove(src, dest)
}

func copyAndRemove(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("sync destination: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}

	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}
