package middlewares

import (
	"context"
	"hosting-dashboard/internal/models"
	"net/http"
	"time"
)

//go:generate mockgen -source=session_provider.go -destination=../mocks/session.go -package=mocks

type SessionProvider interface {
	SetToken(ctx context.Context, token string, issuedAt time.Time)
	GetToken(ctx context.Context) (token string, issuedAt time.Time, ok bool)
	ClearToken(ctx context.Context)
	CredentialKey(ctx context.Context) string
	RenewToken(ctx context.Context) error
	SetUser(ctx context.Context, user *models.User)
	GetUser(ctx context.Context) (user *models.User, ok bool)
	SetRedirectOrigin(ctx context.Context, path string)
	GetRedirectOrigin(ctx context.Context) string
	ClearRedirectOrigin(ctx context.Context)
	SetOauthState(ctx context.Context, state string)
	GetOauthState(ctx context.Context) string
	ClearOauthState(ctx context.Context)
	Logout(ctx context.Context) error

	LoadAndSave(next http.Handler) http.Handler
}
