package usecase

import "path/filepath"

// resolveHostPath rewrites a container-reported video path to its host
// location. Frigate and this process share a flat export directory that
// differs only in mount prefix, so only the base name matters. An empty
// input resolves to an empty string, which callers treat as unresolvable.
func resolveHostPath(videoPath, sourceDir string) string {
	if videoPath == "" {
		return ""
	}
	return filepath.Join(sourceDir, filepath.Base(videoPath))
}
