package usecase

import (
	"context"
	"time"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/domain/model/auth"
	"github.com/careops-lab/panacea/pkg/domain/types"
)

// NoAuthnUseCase provides authentication using a fixed user (for development
// and testing). Every request acts as this user.
type NoAuthnUseCase struct {
	repo  interfaces.Repository
	sub   types.UserID
	email string
	name  string
	role  types.Role
}

// NewNoAuthnUseCase creates a new NoAuthnUseCase instance with the given user info
func NewNoAuthnUseCase(repo interfaces.Repository, sub types.UserID, email, name string, role types.Role) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		repo:  repo,
		sub:   sub,
		email: email,
		name:  name,
		role:  role,
	}
}

func (uc *NoAuthnUseCase) fixedToken() *auth.Token {
	return auth.NewToken(uc.sub, uc.email, uc.name, uc.role, "", 24*time.Hour)
}

// GetAuthURL returns a dummy URL (should not be called in no-auth mode)
func (uc *NoAuthnUseCase) GetAuthURL(ctx context.Context, state string) (string, error) {
	return "/", nil
}

// HandleCallback returns a token for the fixed user
func (uc *NoAuthnUseCase) HandleCallback(ctx context.Context, code string) (*auth.Token, error) {
	return uc.fixedToken(), nil
}

// ValidateToken always returns a token for the fixed user
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	return uc.fixedToken(), nil
}

// Logout does nothing in no-auth mode
func (uc *NoAuthnUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	return nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}

var (
	_ AuthUseCaseInterface = (*AuthUseCase)(nil)
	_ AuthUseCaseInterface = (*NoAuthnUseCase)(nil)
)
