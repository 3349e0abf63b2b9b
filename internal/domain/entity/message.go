package entity

import "github.com/google/uuid"

// RunStatusMessage is the outbound event published when a run finishes.
type RunStatusMessage struct {
	RunID       uuid.UUID  `json:"run_id"`
	TargetDate  string     `json:"target_date"`
	Outcome     RunOutcome `json:"outcome"`
	Cameras     []string   `json:"cameras"`
	Requested   int        `json:"requested"`
	Confirmed   int        `json:"confirmed"`
	Unresolved  []string   `json:"unresolved,omitempty"`
	FilesMoved  int        `json:"files_moved"`
	FilesSwept  int        `json:"files_swept"`
	WindowStart int64      `json:"window_start"`
	WindowEnd   int64      `json:"window_end"`
}
