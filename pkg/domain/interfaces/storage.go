package interfaces

import "context"

// BlobStorage uploads binary artifacts (attachments, signature images) and
// returns the URL of the stored object.
type BlobStorage interface {
	Put(ctx context.Context, path string, contentType string, data []byte) (string, error)
}
