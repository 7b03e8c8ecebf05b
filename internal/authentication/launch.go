package authentication

import (
	"crypto/rand"
	"encoding/base64"
	"hosting-dashboard/internal/utils"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

var (
	googleScopes = []string{"openid", "email", "profile"}
	githubScopes = []string{"user:email"}
)

// placeholderClientIDs are the sample values shipped in env templates.
var placeholderClientIDs = []string{
	"your-google-client-id-here.apps.googleusercontent.com",
	"your-github-client-id-here",
}

// Launcher builds the authorization URL of a redirect provider.
type Launcher struct {
	config  *oauth2.Config
	options []oauth2.AuthCodeOption
	err     *AuthError
}

func NewGoogleLauncher(clientID, redirectURL string) *Launcher {
	return newLauncher(ProviderGoogleRedirect, &oauth2.Config{
		ClientID:    clientID,
		Endpoint:    google.Endpoint,
		RedirectURL: redirectURL,
		Scopes:      googleScopes,
	},
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

func NewGithubLauncher(clientID, redirectURL string) *Launcher {
	return newLauncher(ProviderGithubRedirect, &oauth2.Config{
		ClientID:    clientID,
		Endpoint:    github.Endpoint,
		RedirectURL: redirectURL,
		Scopes:      githubScopes,
	})
}

func newLauncher(provider Provider, cfg *oauth2.Config, options ...oauth2.AuthCodeOption) *Launcher {
	l := &Launcher{
		config:  cfg,
		options: options,
	}

	if !IsConfiguredClientID(cfg.ClientID) {
		l.err = newError(KindConfigurationMissing, provider,
			provider.DisplayName()+" client ID is not configured", nil)
	}

	return l
}

func (l *Launcher) Enabled() bool {
	return l.err == nil
}

// AuthURL returns the provider authorization URL carrying state.
func (l *Launcher) AuthURL(state string) (string, error) {
	if l.err != nil {
		return "", l.err
	}

	return l.config.AuthCodeURL(state, l.options...), nil
}

func IsConfiguredClientID(clientID string) bool {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return false
	}

	return !utils.IsStringInSlice(clientID, placeholderClientIDs)
}

// GenerateState returns a random url-safe value for the oauth state param.
func GenerateState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)

	return base64.RawURLEncoding.EncodeToString(b)
}
