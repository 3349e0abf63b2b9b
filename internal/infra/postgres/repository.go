package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/haotianfei/frigate-exports-backup/internal/domain/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// EnsureSchema creates the run-history table if it is missing. A single
// append-only table does not warrant versioned migrations.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS export_runs (
			id           UUID PRIMARY KEY,
			target_date  TEXT NOT NULL,
			window_start BIGINT NOT NULL,
			window_end   BIGINT NOT NULL,
			cameras      TEXT[] NOT NULL,
			requested    INT NOT NULL DEFAULT 0,
			confirmed    INT NOT NULL DEFAULT 0,
			unresolved   TEXT[],
			files_moved  INT NOT NULL DEFAULT 0,
			files_swept  INT NOT NULL DEFAULT 0,
			outcome      TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *RunRepository) Create(ctx context.Context, run *entity.Run) error {
	query := `
		INSERT INTO export_runs (
			id, target_date, window_start, window_end, cameras,
			requested, confirmed, unresolved, files_moved, files_swept,
			outcome, created_at, updated_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	_, err := r.pool.Exec(ctx, query,
		run.ID, run.TargetDate, run.WindowStart, run.WindowEnd, run.Cameras,
		run.Requested, run.Confirmed, run.Unresolved, run.FilesMoved, run.FilesSwept,
		string(run.Outcome), run.CreatedAt, run.UpdatedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *RunRepository) Update(ctx context.Context, run *entity.Run) error {
	query := `
		UPDATE export_runs SET
			requested=$2, confirmed=$3, unresolved=$4, files_moved=$5,
			files_swept=$6, outcome=$7, updated_at=$8, completed_at=$9
		WHERE id=$1`

	_, err := r.pool.Exec(ctx, query,
		run.ID, run.Requested, run.Confirmed, run.Unresolved, run.FilesMoved,
		run.FilesSwept, string(run.Outcome), run.UpdatedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

func (r *RunRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Run, error) {
	query := `
		SELECT id, target_date, window_start, window_end, cameras,
			requested, confirmed, unresolved, files_moved, files_swept,
			outcome, created_at, updated_at, completed_at
		FROM export_runs WHERE id=$1`

	run := &entity.Run{}
	var outcome string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.TargetDate, &run.WindowStart, &run.WindowEnd, &run.Cameras,
		&run.Requested, &run.Confirmed, &run.Unresolved, &run.FilesMoved, &run.FilesSwept,
		&outcome, &run.CreatedAt, &run.UpdatedAt, &run.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("find run by id: %w", err)
	}
	run.Outcome = entity.RunOutcome(outcome)
	return run, nil
}
