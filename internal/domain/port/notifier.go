package port

import "context"

// UnresolvedNotifier reports cameras whose exports never confirmed before the
// tracking deadline. Failures are advisory and must not affect the run.
type UnresolvedNotifier interface {
	NotifyUnresolved(ctx context.Context, runID string, targetDate string, cameras []string) error
}
