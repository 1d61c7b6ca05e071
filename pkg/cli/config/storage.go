package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/service/storage"
	"github.com/careops-lab/panacea/pkg/utils/logging"
)

// Storage holds CLI flags for blob storage configuration
type Storage struct {
	backend string
	bucket  string
	prefix  string
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Blob storage backend type (gcs or memory)",
			Category:    "Storage",
			Value:       "gcs",
			Sources:     cli.EnvVars("PANACEA_STORAGE_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "GCS bucket name (required when using gcs backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("PANACEA_STORAGE_BUCKET"),
			Destination: &s.bucket,
		},
		&cli.StringFlag{
			Name:        "storage-prefix",
			Usage:       "Object name prefix for stored artifacts",
			Category:    "Storage",
			Sources:     cli.EnvVars("PANACEA_STORAGE_PREFIX"),
			Destination: &s.prefix,
		},
	}
}

// Configure initializes the blob storage backend.
func (s *Storage) Configure(ctx context.Context) (interfaces.BlobStorage, error) {
	switch s.backend {
	case "gcs":
		if s.bucket == "" {
			return nil, goerr.New("storage-bucket is required when using gcs backend")
		}
		var opts []storage.GCSOption
		if s.prefix != "" {
			opts = append(opts, storage.WithObjectPrefix(s.prefix))
		}
		client, err := storage.NewGCS(ctx, s.bucket, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize GCS storage")
		}
		logging.Default().Info("Using GCS blob storage",
			"bucket", s.bucket,
			"prefix", s.prefix,
		)
		return client, nil

	case "memory":
		logging.Default().Info("Using in-memory blob storage (development mode)")
		return storage.NewMemory(), nil

	default:
		return nil, goerr.New("invalid storage backend", goerr.V("backend", s.backend))
	}
}
