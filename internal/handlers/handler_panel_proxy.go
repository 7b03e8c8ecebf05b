package handlers

import (
	"bytes"
	"encoding/json"
	"hosting-dashboard/internal/middlewares"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
)

const panelPrefix = "/api/panel"

// PanelProxyHandler forwards /api/panel/* to the backend /api/* with the
// session token attached. A 401 from the backend ends the local session.
func PanelProxyHandler(ctx *middlewares.AppContext) {
	token, ok := ctx.Credentials.Read(ctx)
	if !ok {
		ctx.SetJSONError(http.StatusUnauthorized, "Unauthorized")
		return
	}

	target, err := url.Parse(ctx.Backend.BaseURL())
	if err != nil {
		ctx.Logger.Error("invalid backend base url", "error", err)
		ctx.SetJSONError(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.Out.URL.Path = strings.TrimRight(target.Path, "/") + "/api" + strings.TrimPrefix(r.In.URL.Path, panelPrefix)
			r.Out.URL.RawPath = ""
			r.Out.Host = target.Host
			r.Out.Header.Del("Cookie")
			r.SetXForwarded()
			r.Out.Header.Set("Authorization", "Bearer "+token)
		},
		ModifyResponse: func(resp *http.Response) error {
			if resp.StatusCode != http.StatusUnauthorized {
				return nil
			}

			clearExpiredSession(ctx)

			body, err := json.Marshal(SessionExpiredResponse{
				Error:          "session expired",
				Reauthenticate: true,
			})
			if err != nil {
				return err
			}

			_ = resp.Body.Close()
			resp.Body = io.NopCloser(bytes.NewReader(body))
			resp.ContentLength = int64(len(body))
			resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
			resp.Header.Set("Content-Type", "application/json")
			resp.Header.Del("Content-Encoding")
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			if clientGone(ctx, err) {
				ctx.Logger.Debug("client left during panel request", "path", r.URL.Path)
				return
			}
			ctx.Logger.Error("panel request failed", "path", r.URL.Path, "error", err)
			ctx.SetJSONError(http.StatusBadGateway, "Unable to reach server")
		},
	}

	proxy.ServeHTTP(ctx.Response, ctx.Request)
}
