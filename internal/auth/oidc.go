package auth

import (
	"context"
	"errors"
	"fmt"
	"hosting-dashboard/internal/config"

	"github.com/coreos/go-oidc/v3/oidc"
)

var ErrEmailNotVerified = errors.New("google account email is not verified")

// GoogleCredentialVerifier checks One-Tap credentials locally before they
// are forwarded to the backend.
type GoogleCredentialVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleCredentialVerifier discovers the issuer's signing keys.
func NewGoogleCredentialVerifier(ctx context.Context, cfg config.GoogleOAuthConfig) (*GoogleCredentialVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	return &GoogleCredentialVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func newGoogleCredentialVerifier(keySet oidc.KeySet, issuer string, oidcConfig *oidc.Config) *GoogleCredentialVerifier {
	return &GoogleCredentialVerifier{
		verifier: oidc.NewVerifier(issuer, keySet, oidcConfig),
	}
}

type credentialClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Verify checks signature, issuer, audience and expiry of the credential and
// requires a verified email claim.
func (v *GoogleCredentialVerifier) Verify(ctx context.Context, credential string) error {
	idToken, err := v.verifier.Verify(ctx, credential)
	if err != nil {
		return fmt.Errorf("failed to verify ID Token: %w", err)
	}

	var claims credentialClaims
	if err := idToken.Claims(&claims); err != nil {
		return fmt.Errorf("failed to parse ID Token claims: %w", err)
	}

	if claims.Email == "" || !claims.EmailVerified {
		return ErrEmailNotVerified
	}

	return nil
}
