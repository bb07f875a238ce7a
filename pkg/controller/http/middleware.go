package http

import (
	"net/http"

	"github.com/secmon-lab/briareus/pkg/domain/model/auth"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

// authMiddleware validates authentication for protected requests
func authMiddleware(authUC usecase.AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// In no-auth mode every request becomes the configured user
			if authUC == nil || authUC.IsNoAuthn() {
				if authUC == nil {
					http.Error(w, "Authentication not configured", http.StatusUnauthorized)
					return
				}
				token, err := authUC.ValidateToken(r.Context(), "", "")
				if err != nil {
					http.Error(w, "Invalid authentication token", http.StatusUnauthorized)
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
