package usecase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/model/auth"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/utils/safe"
)

// AuthUseCaseInterface abstracts session authentication so the HTTP layer can
// run against either the OIDC flow or the fixed no-auth development mode.
type AuthUseCaseInterface interface {
	GetAuthURL(ctx context.Context, state string) (string, error)
	HandleCallback(ctx context.Context, code string) (*auth.Token, error)
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)
	Logout(ctx context.Context, tokenID auth.TokenID) error
	IsNoAuthn() bool
}

// ActorFromToken turns a validated session token into the explicit actor
// every workflow operation takes.
func ActorFromToken(t *auth.Token) model.ActorContext {
	return model.ActorContext{
		UserID:   t.Sub,
		Role:     t.Role,
		TenantID: t.TenantID,
	}
}

// AuthUseCase implements OIDC login against a configured issuer.
type AuthUseCase struct {
	repo         interfaces.Repository
	issuer       string
	clientID     string
	clientSecret string
	callbackURL  string
	tenantID     string
	adminEmails  map[string]bool
	sessionTTL   time.Duration
	cache        *authCache
}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithTenantID stamps every session with a tenant identifier
func WithTenantID(tenantID string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.tenantID = tenantID
	}
}

// WithAdminEmails grants the admin role to the listed addresses regardless of
// the ID token's role claim
func WithAdminEmails(emails []string) AuthOption {
	return func(uc *AuthUseCase) {
		for _, e := range emails {
			uc.adminEmails[strings.ToLower(e)] = true
		}
	}
}

// WithSessionTTL sets the session token lifetime
func WithSessionTTL(ttl time.Duration) AuthOption {
	return func(uc *AuthUseCase) {
		uc.sessionTTL = ttl
	}
}

func NewAuthUseCase(repo interfaces.Repository, issuer, clientID, clientSecret, callbackURL string, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		repo:         repo,
		issuer:       strings.TrimRight(issuer, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		callbackURL:  callbackURL,
		adminEmails:  map[string]bool{},
		sessionTTL:   24 * time.Hour,
		cache:        newAuthCache(),
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

// OpenIDConfiguration is the discovery document of the configured issuer
type OpenIDConfiguration struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
}

// getOpenIDConfiguration fetches the issuer's discovery document
func (uc *AuthUseCase) getOpenIDConfiguration(ctx context.Context) (*OpenIDConfiguration, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", uc.issuer+"/.well-known/openid-configuration", nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch OpenID configuration")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("failed to fetch OpenID configuration", goerr.V("status", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read OpenID configuration response")
	}

	var config OpenIDConfiguration
	if err := json.Unmarshal(body, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse OpenID configuration")
	}

	return &config, nil
}

// GetAuthURL returns the issuer's authorization URL for the login redirect
func (uc *AuthUseCase) GetAuthURL(ctx context.Context, state string) (string, error) {
	config, err := uc.getOpenIDConfiguration(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to discover authorization endpoint")
	}

	params := url.Values{}
	params.Set("client_id", uc.clientID)
	params.Set("scope", "openid email profile")
	params.Set("redirect_uri", uc.callbackURL)
	params.Set("response_type", "code")
	params.Set("state", state)

	return config.AuthorizationEndpoint + "?" + params.Encode(), nil
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// tokenResponse is the issuer's token endpoint response
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	IDToken          string `json:"id_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// idTokenClaims is the verified identity extracted from the ID token
type idTokenClaims struct {
	Sub   string
	Email string
	Name  string
	Role  types.Role
}

// HandleCallback processes the OAuth callback: it exchanges the code, verifies
// the ID token against the issuer's JWKS and stores a session token.
func (uc *AuthUseCase) HandleCallback(ctx context.Context, code string) (*auth.Token, error) {
	config, err := uc.getOpenIDConfiguration(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to discover token endpoint")
	}

	tokenResp, err := uc.exchangeCodeForToken(ctx, config.TokenEndpoint, code)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange code for token")
	}
	if tokenResp.Error != "" {
		return nil, goerr.New("oidc token error",
			goerr.V("error", tokenResp.Error),
			goerr.V("description", tokenResp.ErrorDescription))
	}

	claims, err := uc.decodeIDToken(ctx, config.JWKSURI, tokenResp.IDToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode ID token")
	}

	role := claims.Role
	if uc.adminEmails[strings.ToLower(claims.Email)] {
		role = types.RoleAdmin
	}

	token := auth.NewToken(types.UserID(claims.Sub), claims.Email, claims.Name, role, uc.tenantID, uc.sessionTTL)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store token", goerr.V("token_id", token.ID))
	}

	return token, nil
}

// exchangeCodeForToken exchanges the authorization code for tokens
func (uc *AuthUseCase) exchangeCodeForToken(ctx context.Context, endpoint, code string) (*tokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", uc.clientID)
	data.Set("client_secret", uc.clientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", uc.callbackURL)

	encodedData := data.Encode()
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(encodedData))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.ContentLength = int64(len(encodedData))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to make token request")
	}
	defer safe.Close(ctx, resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body")
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, goerr.Wrap(err, "failed to parse token response")
	}

	return &tokenResp, nil
}

// decodeIDToken verifies the ID token against the issuer's public keys and
// extracts the identity claims
func (uc *AuthUseCase) decodeIDToken(ctx context.Context, jwksURI, idToken string) (*idTokenClaims, error) {
	keySet, err := jwk.Fetch(ctx, jwksURI)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch issuer's public keys", goerr.V("jwks_uri", jwksURI))
	}

	// Allow 10 seconds of clock skew to handle time synchronization differences
	token, err := jwt.Parse([]byte(idToken),
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithAudience(uc.clientID),
		jwt.WithAcceptableSkew(10*time.Second),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse or verify JWT token")
	}

	claims := &idTokenClaims{
		Sub:  token.Subject(),
		Role: types.RoleStaff,
	}
	if claims.Sub == "" {
		return nil, goerr.New("sub claim not found in token")
	}

	if v, ok := token.Get("email"); ok {
		if s, ok := v.(string); ok {
			claims.Email = s
		}
	}
	if claims.Email == "" {
		return nil, goerr.New("email claim not found in token")
	}

	if v, ok := token.Get("name"); ok {
		if s, ok := v.(string); ok {
			claims.Name = s
		}
	}

	// Optional role claim; unknown values fall back to staff
	if v, ok := token.Get("role"); ok {
		if s, ok := v.(string); ok {
			if role, err := types.ParseRole(strings.ToUpper(s)); err == nil {
				claims.Role = role
			}
		}
	}

	return claims, nil
}

// ValidateToken validates the token pair and returns the session
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	return uc.validateTokenWithCache(ctx, tokenID, tokenSecret)
}

// Logout deletes the token
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	// Remove from cache first
	uc.cache.remove(tokenID)

	// Then remove from repository
	return uc.repo.DeleteToken(ctx, tokenID)
}
