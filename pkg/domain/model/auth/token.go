package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// TokenID identifies a session token
type TokenID string

// TokenSecret is the secret half of a session token
type TokenSecret string

// Token is an authenticated actor session. Sub is the user ID, Role the
// authorization tier supplied by the identity provider.
type Token struct {
	ID        TokenID
	Secret    TokenSecret `masq:"secret"`
	Sub       string
	Role      types.Role
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewToken issues a fresh session token for the given user.
func NewToken(sub string, role types.Role, ttl time.Duration) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        TokenID(uuid.NewString()),
		Secret:    TokenSecret(uuid.NewString()),
		Sub:       sub,
		Role:      role.Normalize(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired reports whether the token has passed its expiry.
func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (id TokenID) String() string {
	return string(id)
}

func (s TokenSecret) String() string {
	return string(s)
}

// Validate checks the token ID is usable as a lookup key.
func (id TokenID) Validate() error {
	if id == "" {
		return goerr.New("empty token ID")
	}
	return nil
}

// Validate checks the token carries everything a session needs.
func (t *Token) Validate() error {
	if t.ID == "" {
		return goerr.New("token ID is required")
	}
	if t.Secret == "" {
		return goerr.New("token secret is required")
	}
	if t.Sub == "" {
		return goerr.New("token subject is required")
	}
	return nil
}

type ctxTokenKey struct{}

// ContextWithToken embeds the actor token into the context.
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext extracts the actor token from the context.
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, goerr.New("no authenticated actor in context")
	}
	return token, nil
}
