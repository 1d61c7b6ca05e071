package interfaces

import (
	"context"

	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
)

// OccurrenceRepository defines the interface for occurrence data access.
// There is no Delete: occurrences follow a soft lifecycle only.
type OccurrenceRepository interface {
	// Create persists a new occurrence. ID and Protocol must already be set.
	Create(ctx context.Context, o *model.Occurrence) (*model.Occurrence, error)

	// Get retrieves an occurrence by ID
	Get(ctx context.Context, id types.OccurrenceID) (*model.Occurrence, error)

	// GetByProtocol retrieves an occurrence by its protocol identifier
	GetByProtocol(ctx context.Context, protocol types.Protocol) (*model.Occurrence, error)

	// GetByConfirmationToken retrieves the occurrence holding the given
	// confirmation token. Returns nil, nil when no record matches.
	GetByConfirmationToken(ctx context.Context, token string) (*model.Occurrence, error)

	// GetByPublicToken retrieves the occurrence holding the given read-only
	// public token. Returns nil, nil when no record matches.
	GetByPublicToken(ctx context.Context, token string) (*model.Occurrence, error)

	// List retrieves occurrences with optional filtering
	List(ctx context.Context, opts ...ListOccurrenceOption) ([]*model.Occurrence, error)

	// Update updates an existing occurrence. Protocol and CreatedAt are
	// preserved from the stored record.
	Update(ctx context.Context, o *model.Occurrence) (*model.Occurrence, error)
}
