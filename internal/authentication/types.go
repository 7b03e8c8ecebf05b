package authentication

import (
	"hosting-dashboard/internal/models"
	"time"
)

type Provider string

const (
	ProviderPassword         Provider = "password"
	ProviderGoogleCredential Provider = "google-credential"
	ProviderGoogleRedirect   Provider = "google-redirect"
	ProviderGithubRedirect   Provider = "github-redirect"
)

func (p Provider) DisplayName() string {
	switch p {
	case ProviderGoogleCredential, ProviderGoogleRedirect:
		return "Google"
	case ProviderGithubRedirect:
		return "GitHub"
	default:
		return "Email"
	}
}

// Proof is the provider-specific evidence of identity handed to an adapter.
type Proof interface {
	proof()
}

type PasswordMode string

const (
	ModeLogin    PasswordMode = "login"
	ModeRegister PasswordMode = "register"
)

type PasswordProof struct {
	Mode     PasswordMode
	Email    string
	Password string
	Name     string
}

// CredentialProof carries a signed identity assertion from the Google widget.
type CredentialProof struct {
	Credential string
}

// CodeProof carries a one-time authorization code from a redirect callback.
type CodeProof struct {
	Code string
}

func (PasswordProof) proof()   {}
func (CredentialProof) proof() {}
func (CodeProof) proof()       {}

type ExchangeResult struct {
	Token string
	User  *models.User
}

type FlowResult struct {
	Provider  Provider
	Token     string
	User      *models.User
	StartedAt time.Time
	// Applied is false when a newer flow already owns the session.
	Applied bool
}

type LoadingState struct {
	Provider  Provider
	Visible   bool
	StartedAt time.Time
}
