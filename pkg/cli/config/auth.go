package config

import (
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/usecase"
)

// Auth holds CLI flags for OIDC authentication configuration
type Auth struct {
	issuer       string
	clientID     string
	clientSecret string
	tenantID     string
	adminEmails  []string

	noAuthUserID string
	noAuthEmail  string
	noAuthName   string
	noAuthRole   string
}

// Flags returns CLI flags for authentication configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "oidc-issuer",
			Usage:       "OIDC issuer URL (e.g. https://accounts.google.com)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("PANACEA_OIDC_ISSUER"),
			Destination: &a.issuer,
		},
		&cli.StringFlag{
			Name:        "oidc-client-id",
			Usage:       "OIDC client ID",
			Category:    "Authentication",
			Sources:     cli.EnvVars("PANACEA_OIDC_CLIENT_ID"),
			Destination: &a.clientID,
		},
		&cli.StringFlag{
			Name:        "oidc-client-secret",
			Usage:       "OIDC client secret",
			Category:    "Authentication",
			Sources:     cli.EnvVars("PANACEA_OIDC_CLIENT_SECRET"),
			Destination: &a.clientSecret,
		},
		&cli.StringFlag{
			Name:        "tenant-id",
			Usage:       "Tenant identifier stamped on every session",
			Category:    "Authentication",
			Sources:     cli.EnvVars("PANACEA_TENANT_ID"),
			Destination: &a.tenantID,
		},
		&cli.StringSliceFlag{
			Name:        "admin-email",
			Usage:       "Email granted the admin role regardless of the role claim, repeatable",
			Category:    "Authentication",
			Sources:     cli.EnvVars("PANACEA_ADMIN_EMAILS"),
			Destination: &a.adminEmails,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the given user ID (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("PANACEA_NO_AUTH"),
			Destination: &a.noAuthUserID,
		},
		&cli.StringFlag{
			Name:        "no-auth-email",
			Usage:       "Email of the no-auth user",
			Category:    "Authentication",
			Value:       "dev@localhost",
			Sources:     cli.EnvVars("PANACEA_NO_AUTH_EMAIL"),
			Destination: &a.noAuthEmail,
		},
		&cli.StringFlag{
			Name:        "no-auth-name",
			Usage:       "Display name of the no-auth user",
			Category:    "Authentication",
			Value:       "Developer",
			Sources:     cli.EnvVars("PANACEA_NO_AUTH_NAME"),
			Destination: &a.noAuthName,
		},
		&cli.StringFlag{
			Name:        "no-auth-role",
			Usage:       "Role of the no-auth user (ADMIN, NURSING or STAFF)",
			Category:    "Authentication",
			Value:       "ADMIN",
			Sources:     cli.EnvVars("PANACEA_NO_AUTH_ROLE"),
			Destination: &a.noAuthRole,
		},
	}
}

func (a Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("issuer", a.issuer),
		slog.Int("client-id.len", len(a.clientID)),
		slog.Int("client-secret.len", len(a.clientSecret)),
		slog.Bool("no-auth", a.noAuthUserID != ""),
	)
}

// IsNoAuthMode reports whether the no-auth development mode is enabled
func (a *Auth) IsNoAuthMode() bool {
	return a.noAuthUserID != ""
}

// Configure creates the authentication use case: OIDC when an issuer is
// configured, or the fixed no-auth identity in development mode.
func (a *Auth) Configure(repo interfaces.Repository, baseURL string) (usecase.AuthUseCaseInterface, error) {
	if a.noAuthUserID != "" {
		if a.issuer != "" || a.clientID != "" {
			slog.Warn("--no-auth is set, ignoring OIDC configuration")
		}

		role, err := types.ParseRole(strings.ToUpper(a.noAuthRole))
		if err != nil {
			return nil, goerr.Wrap(err, "invalid no-auth role", goerr.V("role", a.noAuthRole))
		}
		return usecase.NewNoAuthnUseCase(repo, types.UserID(a.noAuthUserID), a.noAuthEmail, a.noAuthName, role), nil
	}

	if a.issuer == "" || a.clientID == "" || a.clientSecret == "" || baseURL == "" {
		return nil, goerr.New("OIDC configuration is required: set --oidc-issuer, --oidc-client-id, --oidc-client-secret and --base-url, or use --no-auth")
	}

	callbackURL := strings.TrimSuffix(baseURL, "/") + "/api/auth/callback"

	var opts []usecase.AuthOption
	if a.tenantID != "" {
		opts = append(opts, usecase.WithTenantID(a.tenantID))
	}
	if len(a.adminEmails) > 0 {
		opts = append(opts, usecase.WithAdminEmails(a.adminEmails))
	}

	return usecase.NewAuthUseCase(repo, a.issuer, a.clientID, a.clientSecret, callbackURL, opts...), nil
}
