package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model/auth"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

const sessionTTL = 24 * time.Hour

// AuthUseCase abstracts how actors are authenticated: token sessions in
// production, a fixed identity in no-auth development mode.
type AuthUseCase interface {
	// Login issues a session token for a user in the directory
	Login(ctx context.Context, userID string) (*auth.Token, error)

	// ValidateToken validates the session and returns the actor token
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)

	// Logout revokes the session
	Logout(ctx context.Context, tokenID auth.TokenID) error

	// IsNoAuthn reports whether authentication is disabled
	IsNoAuthn() bool
}

// TokenAuthUseCase is the production implementation backed by the token
// store.
type TokenAuthUseCase struct {
	repo  interfaces.Repository
	cache *authCache
}

func NewTokenAuthUseCase(repo interfaces.Repository) *TokenAuthUseCase {
	return &TokenAuthUseCase{
		repo:  repo,
		cache: newAuthCache(),
	}
}

// Login issues a token for an existing directory user. The token carries
// the user's role so authorization never needs another directory lookup.
func (uc *TokenAuthUseCase) Login(ctx context.Context, userID string) (*auth.Token, error) {
	user, err := uc.repo.User().Get(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(ErrUserNotFound, "user not found", goerr.V(UserIDKey, userID))
	}

	token := auth.NewToken(user.ID, user.Role, sessionTTL)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store token", goerr.V(UserIDKey, userID))
	}

	return token, nil
}

// ValidateToken checks the session exists, the secret matches and the
// token has not expired. Expired tokens are deleted eagerly.
func (uc *TokenAuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	if token, ok := uc.cache.get(tokenID); ok {
		if token.Secret != tokenSecret {
			return nil, goerr.New("invalid token secret")
		}
		if token.IsExpired(time.Now()) {
			uc.cache.remove(tokenID)
			return nil, goerr.New("token expired")
		}
		return token, nil
	}

	token, err := uc.repo.GetToken(ctx, tokenID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get token from repository")
	}

	if token.Secret != tokenSecret {
		return nil, goerr.New("invalid token secret")
	}

	if token.IsExpired(time.Now()) {
		if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
			return nil, goerr.Wrap(err, "failed to delete expired token", goerr.V("token_id", tokenID))
		}
		return nil, goerr.New("token expired")
	}

	uc.cache.set(token)

	return token, nil
}

// Logout deletes the token from the cache and the store.
func (uc *TokenAuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	uc.cache.remove(tokenID)
	return uc.repo.DeleteToken(ctx, tokenID)
}

// IsNoAuthn returns false for TokenAuthUseCase
func (uc *TokenAuthUseCase) IsNoAuthn() bool {
	return false
}

// NoAuthnUseCase authenticates every request as a fixed user. Development
// and testing only.
type NoAuthnUseCase struct {
	sub  string
	role types.Role
}

func NewNoAuthnUseCase(sub string, role types.Role) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		sub:  sub,
		role: role.Normalize(),
	}
}

// Login returns a token for the fixed user regardless of userID.
func (uc *NoAuthnUseCase) Login(ctx context.Context, userID string) (*auth.Token, error) {
	return auth.NewToken(uc.sub, uc.role, sessionTTL), nil
}

// ValidateToken always returns a token for the fixed user.
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	return auth.NewToken(uc.sub, uc.role, sessionTTL), nil
}

// Logout does nothing in no-auth mode.
func (uc *NoAuthnUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	return nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
