package port

import "context"

// OffsiteStore mirrors relocated export files to remote object storage.
type OffsiteStore interface {
	Upload(ctx context.Context, objectKey string, filePath string) error
}
