package http

import (
	"net/http"

	"github.com/careops-lab/panacea/pkg/domain/model/auth"
)

// authMiddleware resolves the session cookies into a token and stores it in
// the request context. Requests without a valid session are rejected before
// reaching any handler.
func authMiddleware(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil {
				http.Error(w, "Authentication is not configured", http.StatusUnauthorized)
				return
			}

			// NoAuthn mode injects the configured fixed identity
			if authUC.IsNoAuthn() {
				token, err := authUC.ValidateToken(r.Context(), "", "")
				if err != nil {
					http.Error(w, "Authentication failed", http.StatusUnauthorized)
					return
				}
				ctx := auth.ContextWithToken(r.Context(), token)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			tokenIDCookie, err := r.Cookie("token_id")
			if err != nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			tokenSecretCookie, err := r.Cookie("token_secret")
			if err != nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			tokenID := auth.TokenID(tokenIDCookie.Value)
			tokenSecret := auth.TokenSecret(tokenSecretCookie.Value)

			token, err := authUC.ValidateToken(r.Context(), tokenID, tokenSecret)
			if err != nil {
				http.Error(w, "Invalid authentication token", http.StatusUnauthorized)
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
