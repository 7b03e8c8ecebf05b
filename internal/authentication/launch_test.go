package authentication

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleLauncher_AuthURL(t *testing.T) {
	launcher := NewGoogleLauncher("client-123.apps.googleusercontent.com", "https://panel.example.com/auth/google/callback")

	raw, err := launcher.AuthURL("state-1")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "client-123.apps.googleusercontent.com", q.Get("client_id"))
	assert.Equal(t, "https://panel.example.com/auth/google/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.Equal(t, "state-1", q.Get("state"))
}

func TestGithubLauncher_AuthURL(t *testing.T) {
	launcher := NewGithubLauncher("gh-client", "")

	raw, err := launcher.AuthURL("state-2")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "github.com", u.Host)
	assert.Equal(t, "/login/oauth/authorize", u.Path)
	assert.Equal(t, "gh-client", u.Query().Get("client_id"))
	assert.Equal(t, "user:email", u.Query().Get("scope"))
	assert.Equal(t, "state-2", u.Query().Get("state"))
}

func TestLauncher_Unconfigured(t *testing.T) {
	tests := []struct {
		name     string
		launcher *Launcher
	}{
		{name: "google empty", launcher: NewGoogleLauncher("", "https://x/cb")},
		{name: "google placeholder", launcher: NewGoogleLauncher("your-google-client-id-here.apps.googleusercontent.com", "https://x/cb")},
		{name: "github placeholder", launcher: NewGithubLauncher("your-github-client-id-here", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.launcher.Enabled())

			_, err := tt.launcher.AuthURL("s")
			assert.ErrorIs(t, err, ErrConfigurationMissing)
		})
	}
}

func TestGenerateState(t *testing.T) {
	a := GenerateState()
	b := GenerateState()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
