package authentication

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type WidgetConfig struct {
	ClientID   string
	AutoSelect bool
}

// CredentialCallback receives every credential the widget produces.
type CredentialCallback func(ctx context.Context, credential string) (*FlowResult, error)

// WidgetHandle is the single initialized instance of the Google identity
// widget. The credential callback is swappable; the configuration is not.
type WidgetHandle struct {
	ID     string
	Config WidgetConfig

	mu       sync.RWMutex
	callback CredentialCallback
}

func (h *WidgetHandle) Enabled() bool {
	return IsConfiguredClientID(h.Config.ClientID)
}

func (h *WidgetHandle) current() CredentialCallback {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.callback
}

// GoogleWidget initializes the identity widget at most once per process.
type GoogleWidget struct {
	mu     sync.Mutex
	handle *WidgetHandle
}

func NewGoogleWidget() *GoogleWidget {
	return &GoogleWidget{}
}

// InitializeOnce returns the widget handle, creating it from cfg on the
// first call. Later calls return the same handle and ignore cfg.
func (w *GoogleWidget) InitializeOnce(cfg WidgetConfig) *WidgetHandle {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.handle == nil {
		w.handle = &WidgetHandle{
			ID:     uuid.NewString(),
			Config: cfg,
		}
	}
	return w.handle
}

// UpdateCallback replaces the live callback. The latest registration wins.
func (w *GoogleWidget) UpdateCallback(handle *WidgetHandle, fn CredentialCallback) {
	if handle == nil {
		return
	}

	handle.mu.Lock()
	handle.callback = fn
	handle.mu.Unlock()
}

// Handle returns the initialized handle or nil.
func (w *GoogleWidget) Handle() *WidgetHandle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handle
}

// Deliver hands credential to the currently registered callback.
func (w *GoogleWidget) Deliver(ctx context.Context, credential string) (*FlowResult, error) {
	h := w.Handle()
	if h == nil || !h.Enabled() {
		return nil, newError(KindConfigurationMissing, ProviderGoogleCredential, "Google client ID is not configured", nil)
	}

	callback := h.current()
	if callback == nil {
		return nil, newError(KindConfigurationMissing, ProviderGoogleCredential, "Google sign-in is not initialized", nil)
	}

	return callback(ctx, credential)
}
