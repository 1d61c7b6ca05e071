package interfaces

import (
	"context"

	"github.com/careops-lab/panacea/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence
type Repository interface {
	Occurrence() OccurrenceRepository

	// NextProtocolSeq atomically increments and returns the per-year protocol
	// counter. Backed by a server-side transaction in production.
	NextProtocolSeq(ctx context.Context, year int) (int64, error)

	// Session token methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error
	// ListExpiredTokens returns session tokens past their expiry, for sweeping.
	ListExpiredTokens(ctx context.Context) ([]*auth.Token, error)

	Close() error
}
