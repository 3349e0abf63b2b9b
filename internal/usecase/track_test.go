package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/haotianfei/frigate-exports-backup/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testArchiver(t *testing.T, api *fakeAPI, sourceDir string) *Archiver {
	t.Helper()
	return NewArchiver(api, nil, nil, nil, nil, zap.NewNop(), Settings{
		SourceDir:     sourceDir,
		DestDir:       t.TempDir(),
		RetentionDays: 30,
		PollInterval:  time.Millisecond,
		MaxWait:       2 * time.Second,
		Location:      time.UTC,
	})
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func exportRecord(camera, name, videoPath string, inProgress bool) entity.ExportRecord {
	return entity.ExportRecord{
		ID:         camera + "-" + name,
		Camera:     camera,
		Name:       name,
		VideoPath:  videoPath,
		InProgress: inProgress,
	}
}

func TestTrackCompletionConfirmsAfterTwoStableObservations(t *testing.T) {
	source := t.TempDir()
	file := filepath.Join(source, "front_2024-05-01.mp4")
	writeFile(t, file, 100)

	api := &fakeAPI{
		onList: func(poll int) ([]entity.ExportRecord, error) {
			// Poll 1: still in progress. Polls 2+: API says done; the size is
			// observed at 100 on poll 2 and 100 again on poll 3.
			inProgress := poll == 1
			return []entity.ExportRecord{
				exportRecord("front", "front_2024-05-01", "/media/frigate/exports/front_2024-05-01.mp4", inProgress),
			}, nil
		},
	}

	a := testArchiver(t, api, source)
	jobs := []entity.ExportJob{{Camera: "front", RequestedAt: time.Now()}}
	result := a.TrackCompletion(context.Background(), jobs, Window{DateString: "2024-05-01"})

	assert.Equal(t, TrackOutcomeConfirmed, result.Outcome)
	assert.Equal(t, []string{"front"}, result.Confirmed)
	assert.Empty(t, result.Unresolved)
	// One in-progress poll plus exactly two stability observations.
	assert.Equal(t, 3, api.polls)
}

func TestTrackCompletionWaitsForSizeToSettle(t *testing.T) {
	source := t.TempDir()
	file := filepath.Join(source, "yard_2024-05-01.mp4")

	api := &fakeAPI{}
	api.onList = func(poll int) ([]entity.ExportRecord, error) {
		// The file grows between the first two stability observations
		// (100 -> 150) and only then settles.
		switch poll {
		case 1:
			writeFile(t, file, 100)
		case 2:
			writeFile(t, file, 150)
		}
		return []entity.ExportRecord{
			exportRecord("yard", "yard_2024-05-01", "/media/frigate/exports/yard_2024-05-01.mp4", false),
		}, nil
	}

	a := testArchiver(t, api, source)
	jobs := []entity.ExportJob{{Camera: "yard", RequestedAt: time.Now()}}
	result := a.TrackCompletion(context.Background(), jobs, Window{DateString: "2024-05-01"})

	assert.Equal(t, TrackOutcomeConfirmed, result.Outcome)
	assert.Equal(t, []string{"yard"}, result.Confirmed)
	// Poll 1 seeds 100, poll 2 reads 150 (changed), poll 3 reads 150 again.
	assert.Equal(t, 3, api.polls)
}

func TestTrackCompletionMissingFileIsNeverStable(t *testing.T) {
	source := t.TempDir()

	api := &fakeAPI{
		onList: func(poll int) ([]entity.ExportRecord, error) {
			return []entity.ExportRecord{
				exportRecord("gate", "gate_2024-05-01", "/media/frigate/exports/gate_2024-05-01.mp4", false),
			}, nil
		},
	}

	a := testArchiver(t, api, source)
	a.settings.MaxWait = 20 * time.Millisecond

	jobs := []entity.ExportJob{{Camera: "gate", RequestedAt: time.Now()}}
	result := a.TrackCompletion(context.Background(), jobs, Window{DateString: "2024-05-01"})

	assert.Equal(t, TrackOutcomeTimedOut, result.Outcome)
	assert.Equal(t, []string{"gate"}, result.Unresolved)
}

func TestTrackCompletionTimesOutAndReportsUnresolved(t *testing.T) {
	api := &fakeAPI{
		onList: func(poll int) ([]entity.ExportRecord, error) {
			return nil, nil // jobs never become visible
		},
	}

	a := testArchiver(t, api, t.TempDir())
	a.settings.MaxWait = 20 * time.Millisecond

	jobs := []entity.ExportJob{
		{Camera: "front", RequestedAt: time.Now()},
		{Camera: "yard", RequestedAt: time.Now()},
	}
	result := a.TrackCompletion(context.Background(), jobs, Window{DateString: "2024-05-01"})

	assert.Equal(t, TrackOutcomeTimedOut, result.Outcome)
	assert.Equal(t, []string{"front", "yard"}, result.Unresolved)
	assert.Empty(t, result.Confirmed)
	assert.GreaterOrEqual(t, api.polls, 1)
}

func TestTrackCompletionListErrorsAreTransient(t *testing.T) {
	source := t.TempDir()
	file := filepath.Join(source, "front_2024-05-01.mp4")
	writeFile(t, file, 42)

	api := &fakeAPI{}
	api.onList = func(poll int) ([]entity.ExportRecord, error) {
		if poll == 1 {
			return nil, assert.AnError
		}
		return []entity.ExportRecord{
			exportRecord("front", "front_2024-05-01", "/media/frigate/exports/front_2024-05-01.mp4", false),
		}, nil
	}

	a := testArchiver(t, api, source)
	jobs := []entity.ExportJob{{Camera: "front", RequestedAt: time.Now()}}
	result := a.TrackCompletion(context.Background(), jobs, Window{DateString: "2024-05-01"})

	assert.Equal(t, TrackOutcomeConfirmed, result.Outcome)
	assert.Equal(t, 3, api.polls)
}

func TestTrackCompletionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	api := &fakeAPI{
		onList: func(poll int) ([]entity.ExportRecord, error) { return nil, nil },
	}

	a := testArchiver(t, api, t.TempDir())
	jobs := []entity.ExportJob{{Camera: "front", RequestedAt: time.Now()}}
	result := a.TrackCompletion(ctx, jobs, Window{DateString: "2024-05-01"})

	assert.Equal(t, TrackOutcomeCancelled, result.Outcome)
	assert.Equal(t, []string{"front"}, result.Unresolved)
	assert.Zero(t, api.polls)
}

func TestTrackCompletionNoJobs(t *testing.T) {
	a := testArchiver(t, &fakeAPI{}, t.TempDir())
	result := a.TrackCompletion(context.Background(), nil, Window{DateString: "2024-05-01"})

	assert.Equal(t, TrackOutcomeConfirmed, result.Outcome)
	assert.Empty(t, result.Confirmed)
}
