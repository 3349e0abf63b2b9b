package entity

import "time"

// ExportJob records a successfully accepted export trigger for one camera.
type ExportJob struct {
	Camera      string
	WindowStart int64
	RequestedAt time.Time
}

// ExportRecord is Frigate's view of an export. It is read-only from our side;
// only the remote platform mutates it. InProgress defaults to false when the
// field is absent from the API response.
type ExportRecord struct {
	ID         string `json:"id"`
	Camera     string `json:"camera"`
	Name       string `json:"name"`
	VideoPath  string `json:"video_path"`
	InProgress bool   `json:"in_progress"`
}

// CameraConfig is the per-camera fragment of Frigate's /api/config response.
// Enabled is optional in the payload; nil means enabled.
type CameraConfig struct {
	Enabled *bool `json:"enabled,omitempty"`
}

// FrigateConfig is the subset of Frigate's configuration we consume.
type FrigateConfig struct {
	Cameras map[string]CameraConfig `json:"cameras"`
}
