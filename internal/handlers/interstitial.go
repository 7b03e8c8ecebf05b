package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"hosting-dashboard/internal/middlewares"
	"math"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var callbackFailureTemplate = template.Must(template.ParseFS(templateFS, "templates/callback_failure.html"))

type callbackFailureData struct {
	Message      string
	Entry        string
	DelaySeconds int
}

// renderCallbackFailure shows message and sends the browser back to entry
// after delay.
func renderCallbackFailure(ctx *middlewares.AppContext, message string, entry string, delay time.Duration) {
	data := callbackFailureData{
		Message:      message,
		Entry:        entry,
		DelaySeconds: int(math.Ceil(delay.Seconds())),
	}

	var buf bytes.Buffer
	if err := callbackFailureTemplate.Execute(&buf, data); err != nil {
		ctx.Logger.Error("failed to render callback failure page", "error", err)
		ctx.Redirect(entry, http.StatusFound)
		return
	}

	ctx.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	ctx.Response.WriteHeader(http.StatusOK)
	if _, err := ctx.Response.Write(buf.Bytes()); err != nil {
		ctx.Logger.Error("failed to write callback failure page", "error", err)
	}
}
