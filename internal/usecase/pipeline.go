package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/haotianfei/frigate-exports-backup/internal/domain/entity"
	"github.com/haotianfei/frigate-exports-backup/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RunOptions are the per-invocation overrides from the command line.
type RunOptions struct {
	Cameras   []string
	Date      string
	StartHour int
	EndHour   int
	SkipSweep bool
}

// Run executes the full pipeline: resolve window, trigger exports, track
// completion, relocate completed files, sweep retention. Stages run strictly
// in sequence. A tracking timeout degrades the run but downstream stages
// still process whatever completed; cancellation stops the pipeline.
func (a *Archiver) Run(ctx context.Context, opts RunOptions) (*entity.Run, error) {
	ctx, span := otel.Tracer("usecase").Start(ctx, "archive_run")
	defer span.End()

	win, err := ResolveWindow(opts.Date, a.settings.DaysAgo, opts.StartHour, opts.EndHour, a.settings.Location, time.Now())
	if err != nil {
		return nil, fmt.Errorf("resolve window: %w", err)
	}
	span.SetAttributes(attribute.String("run.date", win.DateString))

	cameras := opts.Cameras
	if len(cameras) == 0 {
		cameras, err = a.api.Cameras(ctx)
		if err != nil {
			return nil, fmt.Errorf("discover cameras: %w", err)
		}
		a.logger.Info("discovered cameras", zap.Strings("cameras", cameras))
	} else {
		a.logger.Info("using specified cameras", zap.Strings("cameras", cameras))
	}

	run := entity.NewRun(win.DateString, win.Start, win.End, cameras)
	if err := a.runs.Create(ctx, run); err != nil {
		a.logger.Warn("recording run start failed", zap.Error(err))
	}
	log := a.logger.With(zap.String("run_id", run.ID.String()), zap.String("date", win.DateString))
	log.Info("archive run started")

	stageStart := time.Now()
	jobs := a.RequestExports(ctx, cameras, win)
	run.Requested = len(jobs)
	metrics.StageDuration.WithLabelValues("request").Observe(time.Since(stageStart).Seconds())

	track := TrackResult{Outcome: TrackOutcomeConfirmed}
	switch {
	case ctx.Err() != nil:
		// Cancelled during the request stage; nothing was tracked.
		track.Outcome = TrackOutcomeCancelled
	case len(jobs) > 0:
		stageStart = time.Now()
		track = a.TrackCompletion(ctx, jobs, win)
		metrics.StageDuration.WithLabelValues("track").Observe(time.Since(stageStart).Seconds())
	default:
		log.Warn("no export requests were accepted")
	}

	outcome := entity.RunOutcomeCompleted
	switch track.Outcome {
	case TrackOutcomeTimedOut:
		outcome = entity.RunOutcomeTimedOut
	case TrackOutcomeCancelled:
		outcome = entity.RunOutcomeCancelled
	}
	run.MarkTracked(len(track.Confirmed), track.Unresolved, outcome)

	if track.Outcome == TrackOutcomeTimedOut && len(track.Unresolved) > 0 {
		if err := a.notifier.NotifyUnresolved(ctx, run.ID.String(), win.DateString, track.Unresolved); err != nil {
			log.Warn("unresolved-camera notification failed", zap.Error(err))
		}
	}

	if track.Outcome == TrackOutcomeCancelled {
		log.Info("archive run cancelled")
		a.finishRun(ctx, run, log)
		return run, nil
	}

	accepted := make([]string, 0, len(jobs))
	for _, job := range jobs {
		accepted = append(accepted, job.Camera)
	}

	stageStart = time.Now()
	moved, err := a.RelocateFiles(ctx, accepted, win.DateString)
	if err != nil {
		log.Error("relocating export files failed", zap.Error(err))
	}
	run.FilesMoved = moved.Moved
	metrics.StageDuration.WithLabelValues("relocate").Observe(time.Since(stageStart).Seconds())

	if !opts.SkipSweep {
		stageStart = time.Now()
		swept, err := a.SweepRetention(ctx, time.Now())
		if err != nil {
			log.Error("retention sweep failed", zap.Error(err))
		}
		run.FilesSwept = swept
		metrics.StageDuration.WithLabelValues("sweep").Observe(time.Since(stageStart).Seconds())
	}

	a.finishRun(ctx, run, log)
	log.Info("archive run finished",
		zap.String("outcome", string(run.Outcome)),
		zap.Int("requested", run.Requested),
		zap.Int("confirmed", run.Confirmed),
		zap.Int("files_moved", run.FilesMoved),
		zap.Int("files_swept", run.FilesSwept),
	)
	return run, nil
}

// finishRun persists the final run state, counts it, and publishes the run
// status event. All of it is best-effort; the files already moved are the
// durable side effect.
func (a *Archiver) finishRun(ctx context.Context, run *entity.Run, log *zap.Logger) {
	run.MarkFinished()
	if err := a.runs.Update(ctx, run); err != nil {
		log.Warn("recording run completion failed", zap.Error(err))
	}
	metrics.RunsTotal.WithLabelValues(string(run.Outcome)).Inc()

	msg := entity.RunStatusMessage{
		RunID:       run.ID,
		TargetDate:  run.TargetDate,
		Outcome:     run.Outcome,
		Cameras:     run.Cameras,
		Requested:   run.Requested,
		Confirmed:   run.Confirmed,
		Unresolved:  run.Unresolved,
		FilesMoved:  run.FilesMoved,
		FilesSwept:  run.FilesSwept,
		WindowStart: run.WindowStart,
		WindowEnd:   run.WindowEnd,
	}
	data, _ := json.Marshal(msg)
	if err := a.publisher.PublishStatus(ctx, data); err != nil {
		log.Warn("publishing run status failed", zap.Error(err))
	}
}
