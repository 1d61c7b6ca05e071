package auth

import (
	"context"
	"time"

	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TokenID identifies a session token
type TokenID string

// TokenSecret is the secret half of a session token pair
type TokenSecret string

// Validate checks if the TokenID is valid
func (id TokenID) Validate() error {
	if id == "" {
		return goerr.New("token ID cannot be empty")
	}
	return nil
}

// Validate checks if the TokenSecret is valid
func (s TokenSecret) Validate() error {
	if s == "" {
		return goerr.New("token secret cannot be empty")
	}
	return nil
}

// Token is one authenticated session. It carries the identity attributes the
// HTTP layer turns into an explicit ActorContext for workflow calls.
type Token struct {
	ID        TokenID
	Secret    TokenSecret `masq:"secret"`
	Sub       types.UserID
	Email     string
	Name      string
	Role      types.Role
	TenantID  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewToken creates a session token for the given identity.
func NewToken(sub types.UserID, email, name string, role types.Role, tenantID string, ttl time.Duration) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        TokenID(uuid.New().String()),
		Secret:    TokenSecret(uuid.New().String()),
		Sub:       sub,
		Email:     email,
		Name:      name,
		Role:      role,
		TenantID:  tenantID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// Validate checks if the token is valid
func (t *Token) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return err
	}
	if err := t.Secret.Validate(); err != nil {
		return err
	}
	if t.Sub == "" {
		return goerr.New("token subject cannot be empty")
	}
	if !t.Role.IsValid() {
		return goerr.New("token role is invalid", goerr.V("role", t.Role))
	}
	return nil
}

// IsExpired reports whether the session has expired at the given time.
func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type ctxTokenKey struct{}

// ContextWithToken returns a context carrying the session token.
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext extracts the session token from ctx.
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, goerr.New("no session token in context")
	}
	return token, nil
}
