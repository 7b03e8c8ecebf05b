package handlers

import (
	"hosting-dashboard/internal/authentication"
	"hosting-dashboard/internal/middlewares"
	"net/http"
	"net/url"
	"strings"
)

func GETGoogleLoginHandler(ctx *middlewares.AppContext) {
	launchRedirect(ctx, authentication.ProviderGoogleRedirect)
}

func GETGithubLoginHandler(ctx *middlewares.AppContext) {
	launchRedirect(ctx, authentication.ProviderGithubRedirect)
}

// launchRedirect remembers where the user came from, issues a fresh state
// and sends the browser to the provider.
func launchRedirect(ctx *middlewares.AppContext, provider authentication.Provider) {
	launcher := ctx.Launcher(provider)
	if launcher == nil {
		writeAuthError(ctx, provider, authentication.ErrConfigurationMissing)
		return
	}

	state := authentication.GenerateState()
	authURL, err := launcher.AuthURL(state)
	if err != nil {
		ctx.Logger.Warn("redirect login requested for unconfigured provider", "provider", provider)
		writeAuthError(ctx, provider, err)
		return
	}

	if origin := launchOrigin(ctx); origin != "" {
		ctx.Origin.Remember(ctx, origin)
	}
	ctx.SessionManager.SetOauthState(ctx, state)

	ctx.Logger.Debug("Redirecting to provider", "provider", provider)

	if strings.Contains(ctx.Request.Header.Get("Accept"), "application/json") {
		ctx.WriteJSON(http.StatusOK, map[string]string{
			"status":       "redirect_required",
			"redirect_url": authURL,
		})
		return
	}

	ctx.Redirect(authURL, http.StatusFound)
}

// launchOrigin picks the page the flow started from: the rd parameter, or
// the same-host Referer path.
func launchOrigin(ctx *middlewares.AppContext) string {
	if rd := ctx.Request.URL.Query().Get("rd"); rd != "" {
		return rd
	}

	referer := ctx.Request.Header.Get("Referer")
	if referer == "" {
		return ""
	}

	u, err := url.Parse(referer)
	if err != nil || u.Host != ctx.Request.Host {
		return ""
	}

	return u.Path
}
