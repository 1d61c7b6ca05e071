package storage

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
)

// GCS stores blobs in a Google Cloud Storage bucket and returns the
// https://storage.googleapis.com object URL.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

type GCSOption func(*GCS)

// WithObjectPrefix prepends a path prefix to every stored object.
func WithObjectPrefix(prefix string) GCSOption {
	return func(s *GCS) {
		s.prefix = strings.Trim(prefix, "/")
	}
}

func NewGCS(ctx context.Context, bucket string, opts ...GCSOption) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	s := &GCS{
		client: client,
		bucket: bucket,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *GCS) objectName(path string) string {
	path = strings.TrimPrefix(path, "/")
	if s.prefix == "" {
		return path
	}
	return s.prefix + "/" + path
}

func (s *GCS) Put(ctx context.Context, path string, contentType string, data []byte) (string, error) {
	name := s.objectName(path)
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", name),
		)
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", name),
		)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, name), nil
}

func (s *GCS) Close() error {
	return s.client.Close()
}

var _ interfaces.BlobStorage = (*GCS)(nil)
