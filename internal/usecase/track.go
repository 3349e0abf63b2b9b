package usecase

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/haotianfei/frigate-exports-backup/internal/domain/entity"
	"github.com/haotianfei/frigate-exports-backup/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type TrackOutcome string

const (
	TrackOutcomeConfirmed TrackOutcome = "confirmed"
	TrackOutcomeTimedOut  TrackOutcome = "timed_out"
	TrackOutcomeCancelled TrackOutcome = "cancelled"
)

// TrackResult reports which cameras confirmed completion and which were still
// pending when tracking stopped.
type TrackResult struct {
	Confirmed  []string
	Unresolved []string
	Outcome    TrackOutcome
}

// TrackCompletion polls the export list until every camera's export is
// confirmed complete or the deadline elapses. Completion needs two signals:
// the platform no longer reports a matching export as in-progress, AND every
// matched file's size is unchanged from the immediately preceding stability
// observation. The in-progress flag alone is not trusted because Frigate can
// clear it while the file is still being written; moving such a file would
// truncate it.
func (a *Archiver) TrackCompletion(ctx context.Context, jobs []entity.ExportJob, win Window) TrackResult {
	ctx, span := otel.Tracer("usecase").Start(ctx, "track_completion")
	defer span.End()

	pending := make(map[string]entity.ExportJob, len(jobs))
	for _, job := range jobs {
		pending[job.Camera] = job
	}

	// ledger holds the last observed size per resolved file path. Entries are
	// purged once a camera confirms so a later run never compares against a
	// stale observation.
	ledger := make(map[string]int64)
	var confirmed []string

	start := time.Now()
	a.logger.Info("waiting for export completion",
		zap.Int("cameras", len(pending)),
		zap.String("date", win.DateString),
		zap.Duration("max_wait", a.settings.MaxWait),
	)

	for len(pending) > 0 {
		if ctx.Err() != nil {
			return TrackResult{Confirmed: confirmed, Unresolved: pendingCameras(pending), Outcome: TrackOutcomeCancelled}
		}

		records, err := a.api.ListExports(ctx)
		if err != nil {
			// Transient: no progress this round, retry on the next poll.
			a.logger.Warn("listing exports failed, retrying next poll", zap.Error(err))
		} else {
			confirmed = append(confirmed, a.checkPending(records, win, pending, ledger)...)
		}

		if len(pending) == 0 {
			break
		}
		if time.Since(start) >= a.settings.MaxWait {
			unresolved := pendingCameras(pending)
			a.logger.Warn("timed out waiting for exports",
				zap.Strings("unresolved", unresolved),
				zap.Duration("elapsed", time.Since(start)),
			)
			for range unresolved {
				metrics.CamerasTrackedTotal.WithLabelValues("timed_out").Inc()
			}
			return TrackResult{Confirmed: confirmed, Unresolved: unresolved, Outcome: TrackOutcomeTimedOut}
		}

		a.logger.Info("exports still pending",
			zap.Int("count", len(pending)),
			zap.Strings("cameras", pendingCameras(pending)),
		)

		select {
		case <-ctx.Done():
			return TrackResult{Confirmed: confirmed, Unresolved: pendingCameras(pending), Outcome: TrackOutcomeCancelled}
		case <-time.After(a.settings.PollInterval):
		}
	}

	sort.Strings(confirmed)
	a.logger.Info("all exports confirmed complete", zap.Strings("cameras", confirmed))
	return TrackResult{Confirmed: confirmed, Outcome: TrackOutcomeConfirmed}
}

// checkPending evaluates every pending camera against one poll's export list
// and returns the cameras confirmed during it.
func (a *Archiver) checkPending(
	records []entity.ExportRecord,
	win Window,
	pending map[string]entity.ExportJob,
	ledger map[string]int64,
) []string {
	var confirmed []string

	for _, camera := range pendingCameras(pending) {
		job := pending[camera]
		matched := matchRecords(records, camera, win.DateString)

		var inProgress []entity.ExportRecord
		for _, rec := range matched {
			if rec.InProgress {
				inProgress = append(inProgress, rec)
			}
		}

		switch {
		case len(matched) == 0:
			// The trigger was accepted but the job is not in the export list
			// yet. Distinct from a running job.
			a.logger.Info("export job not yet visible", zap.String("camera", camera))

		case len(inProgress) > 0:
			a.logProgress(camera, job, inProgress)

		default:
			if a.filesStable(matched, ledger) {
				for _, rec := range matched {
					delete(ledger, resolveHostPath(rec.VideoPath, a.settings.SourceDir))
				}
				delete(pending, camera)
				confirmed = append(confirmed, camera)
				metrics.CamerasTrackedTotal.WithLabelValues("confirmed").Inc()
				a.logger.Info("export confirmed complete",
					zap.String("camera", camera),
					zap.String("elapsed", formatDuration(time.Since(job.RequestedAt))),
				)
			} else {
				a.logger.Info("export reported done, waiting for file sizes to settle",
					zap.String("camera", camera),
				)
			}
		}
	}
	return confirmed
}

// filesStable reports whether every matched record's file exists with a size
// equal to the immediately preceding observation. A first observation only
// seeds the ledger; confirmation requires two consecutive equal readings.
func (a *Archiver) filesStable(matched []entity.ExportRecord, ledger map[string]int64) bool {
	stable := true
	for _, rec := range matched {
		path := resolveHostPath(rec.VideoPath, a.settings.SourceDir)
		if path == "" {
			stable = false
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			stable = false
			continue
		}

		size := info.Size()
		last, seen := ledger[path]
		ledger[path] = size
		if !seen || size != last {
			stable = false
		}
	}
	return stable
}

func (a *Archiver) logProgress(camera string, job entity.ExportJob, inProgress []entity.ExportRecord) {
	elapsed := formatDuration(time.Since(job.RequestedAt))
	for _, rec := range inProgress {
		path := resolveHostPath(rec.VideoPath, a.settings.SourceDir)
		if info, err := os.Stat(path); err == nil {
			a.logger.Info("export in progress",
				zap.String("camera", camera),
				zap.String("size", formatSize(info.Size())),
				zap.String("elapsed", elapsed),
			)
		} else {
			a.logger.Info("export in progress, file not present yet",
				zap.String("camera", camera),
				zap.String("elapsed", elapsed),
			)
		}
	}
}

func matchRecords(records []entity.ExportRecord, camera, dateString string) []entity.ExportRecord {
	var matched []entity.ExportRecord
	for _, rec := range records {
		if rec.Camera == camera && strings.Contains(rec.Name, dateString) {
			matched = append(matched, rec)
		}
	}
	return matched
}

func pendingCameras(pending map[string]entity.ExportJob) []string {
	cameras := make([]string, 0, len(pending))
	for camera := range pending {
		cameras = append(cameras, camera)
	}
	sort.Strings(cameras)
	return cameras
}
