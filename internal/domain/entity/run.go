package entity

import (
	"time"

	"github.com/google/uuid"
)

type RunOutcome string

const (
	RunOutcomePending   RunOutcome = "PENDING"
	RunOutcomeCompleted RunOutcome = "COMPLETED"
	RunOutcomeTimedOut  RunOutcome = "TIMED_OUT"
	RunOutcomeCancelled RunOutcome = "CANCELLED"
)

// Run is one pipeline invocation: trigger, track, relocate, sweep.
type Run struct {
	ID          uuid.UUID
	TargetDate  string
	WindowStart int64
	WindowEnd   int64
	Cameras     []string
	Requested   int
	Confirmed   int
	Unresolved  []string
	FilesMoved  int
	FilesSwept  int
	Outcome     RunOutcome
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

func NewRun(targetDate string, windowStart, windowEnd int64, cameras []string) *Run {
	now := time.Now().UTC()
	return &Run{
		ID:          uuid.New(),
		TargetDate:  targetDate,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Cameras:     cameras,
		Outcome:     RunOutcomePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r *Run) MarkTracked(confirmed int, unresolved []string, outcome RunOutcome) {
	r.Confirmed = confirmed
	r.Unresolved = unresolved
	r.Outcome = outcome
	r.UpdatedAt = time.Now().UTC()
}

func (r *Run) MarkFinished() {
	now := time.Now().UTC()
	r.UpdatedAt = now
	r.CompletedAt = &now
}
