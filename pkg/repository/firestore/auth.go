package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/careops-lab/panacea/pkg/domain/model/auth"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type tokenRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTokenRepository(client *firestore.Client) *tokenRepository {
	return &tokenRepository{
		client: client,
	}
}

func (r *tokenRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_tokens"
	}
	return "tokens"
}

type tokenDoc struct {
	ID        string    `firestore:"id"`
	Secret    string    `firestore:"secret"`
	Sub       string    `firestore:"sub"`
	Email     string    `firestore:"email"`
	Name      string    `firestore:"name"`
	Role      string    `firestore:"role"`
	TenantID  string    `firestore:"tenant_id"`
	ExpiresAt time.Time `firestore:"expires_at"`
	CreatedAt time.Time `firestore:"created_at"`
}

func toTokenDoc(t *auth.Token) *tokenDoc {
	return &tokenDoc{
		ID:        string(t.ID),
		Secret:    string(t.Secret),
		Sub:       t.Sub.String(),
		Email:     t.Email,
		Name:      t.Name,
		Role:      t.Role.String(),
		TenantID:  t.TenantID,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}

func fromTokenDoc(doc *tokenDoc) *auth.Token {
	return &auth.Token{
		ID:        auth.TokenID(doc.ID),
		Secret:    auth.TokenSecret(doc.Secret),
		Sub:       types.UserID(doc.Sub),
		Email:     doc.Email,
		Name:      doc.Name,
		Role:      types.Role(doc.Role),
		TenantID:  doc.TenantID,
		ExpiresAt: doc.ExpiresAt,
		CreatedAt: doc.CreatedAt,
	}
}

func (f *Firestore) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	docRef := f.tokens.client.Collection(f.tokens.collection()).Doc(string(token.ID))
	if _, err := docRef.Set(ctx, toTokenDoc(token)); err != nil {
		return goerr.Wrap(err, "failed to put token")
	}
	return nil
}

func (f *Firestore) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	snap, err := f.tokens.client.Collection(f.tokens.collection()).Doc(string(tokenID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, goerr.Wrap(err, "failed to get token")
	}

	var doc tokenDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode token")
	}

	return fromTokenDoc(&doc), nil
}

func (f *Firestore) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	docRef := f.tokens.client.Collection(f.tokens.collection()).Doc(string(tokenID))
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return goerr.Wrap(err, "failed to get token")
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete token")
	}
	return nil
}

func (f *Firestore) ListExpiredTokens(ctx context.Context) ([]*auth.Token, error) {
	iter := f.tokens.client.Collection(f.tokens.collection()).
		Where("expires_at", "<", time.Now().UTC()).
		Documents(ctx)
	defer iter.Stop()

	var expired []*auth.Token
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list expired tokens")
		}

		var doc tokenDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode token")
		}
		expired = append(expired, fromTokenDoc(&doc))
	}

	return expired, nil
}
