package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model/auth"
	"github.com/secmon-lab/briareus/pkg/usecase"
	"github.com/secmon-lab/briareus/pkg/utils/errutil"
)

type loginRequest struct {
	UserID string `json:"userId"`
}

type meResponse struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
}

// authLoginHandler issues a session for a directory user and sets the
// token cookies.
func authLoginHandler(authUC usecase.AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authUC == nil {
			respondError(r.Context(), w, http.StatusUnauthorized, goerr.New("authentication not configured"))
			return
		}
		if authUC.IsNoAuthn() {
			http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
			return
		}

		var req loginRequest
		if err := decodeBody(r, &req); err != nil || req.UserID == "" {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "userId is required"))
			return
		}

		token, err := authUC.Login(r.Context(), req.UserID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "token_id",
			Value:    token.ID.String(),
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			Expires:  token.ExpiresAt,
		})
		http.SetCookie(w, &http.Cookie{
			Name:     "token_secret",
			Value:    token.Secret.String(),
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			Expires:  token.ExpiresAt,
		})

		respondJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

// authLogoutHandler revokes the session and clears the cookies.
func authLogoutHandler(authUC usecase.AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authUC != nil && !authUC.IsNoAuthn() {
			if cookie, err := r.Cookie("token_id"); err == nil {
				if err := authUC.Logout(r.Context(), auth.TokenID(cookie.Value)); err != nil {
					errutil.Handle(r.Context(), err, "failed to revoke token")
				}
			}
		}

		for _, name := range []string{"token_id", "token_secret"} {
			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Value:    "",
				Path:     "/",
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   -1,
			})
		}

		respondJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

// authMeHandler returns the current actor.
func authMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.TokenFromContext(r.Context())
		if err != nil {
			respondError(r.Context(), w, http.StatusUnauthorized, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, meResponse{
			Sub:  token.Sub,
			Role: token.Role.String(),
		})
	}
}
