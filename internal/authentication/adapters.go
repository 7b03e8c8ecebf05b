package authentication

import (
	"context"
	"fmt"
	"hosting-dashboard/internal/backend"
	"hosting-dashboard/internal/utils"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultRequestTimeout = 20 * time.Second

	minPasswordLength = 8
	minNameLength     = 2
)

// Adapter turns a provider proof into a session token via the backend.
type Adapter interface {
	Exchange(ctx context.Context, proof Proof) (*ExchangeResult, error)
}

// CredentialVerifier checks a Google identity assertion before it is sent to
// the backend.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) error
}

var (
	loginStatusKinds = map[int]ErrorKind{
		http.StatusBadRequest:          KindInvalidCredentials,
		http.StatusUnauthorized:        KindInvalidCredentials,
		http.StatusUnprocessableEntity: KindValidationError,
	}
	registerStatusKinds = map[int]ErrorKind{
		http.StatusConflict:            KindRegistrationConflict,
		http.StatusBadRequest:          KindValidationError,
		http.StatusUnprocessableEntity: KindValidationError,
	}
)

type PasswordAdapter struct {
	api     backend.API
	timeout time.Duration
	logger  *slog.Logger
}

func NewPasswordAdapter(api backend.API, timeout time.Duration, logger *slog.Logger) *PasswordAdapter {
	return &PasswordAdapter{api: api, timeout: timeoutOrDefault(timeout), logger: logger}
}

func (a *PasswordAdapter) Exchange(ctx context.Context, proof Proof) (*ExchangeResult, error) {
	p, ok := proof.(PasswordProof)
	if !ok {
		return nil, newError(KindValidationError, ProviderPassword, fmt.Sprintf("unexpected proof %T", proof), nil)
	}

	if err := validatePasswordProof(p); err != nil {
		return nil, err
	}

	exchangeCtx, cancel := exchangeContext(ctx, a.timeout)
	defer cancel()

	var payload *backend.AuthPayload
	var err error
	if p.Mode == ModeRegister {
		payload, err = a.api.Register(exchangeCtx, backend.RegisterRequest{
			Email:    strings.TrimSpace(p.Email),
			Name:     strings.TrimSpace(p.Name),
			Password: p.Password,
		})
	} else {
		payload, err = a.api.Login(exchangeCtx, backend.LoginRequest{
			Email:    strings.TrimSpace(p.Email),
			Password: p.Password,
		})
	}

	if err != nil {
		var authErr *AuthError
		if p.Mode == ModeRegister {
			authErr = classify(ProviderPassword, err, KindValidationError, registerStatusKinds)
			authErr.register = true
		} else {
			authErr = classify(ProviderPassword, err, KindInvalidCredentials, loginStatusKinds)
		}
		return nil, authErr
	}

	result, authErr := resultFromPayload(ProviderPassword, payload)
	if authErr != nil {
		authErr.register = p.Mode == ModeRegister
		return nil, authErr
	}

	if p.Mode == ModeRegister && result.User.Name == "" {
		a.logger.Warn("register response carried no name, using submitted name",
			"email", utils.RedactEmail(result.User.Email))
		result.User.Name = strings.TrimSpace(p.Name)
	}

	return result, nil
}

func validatePasswordProof(p PasswordProof) *AuthError {
	invalid := func(message string) *AuthError {
		e := newError(KindValidationError, ProviderPassword, message, nil)
		e.register = p.Mode == ModeRegister
		return e
	}

	email := strings.TrimSpace(p.Email)
	if email == "" || !strings.Contains(email, "@") {
		return invalid("Email tidak valid")
	}

	switch p.Mode {
	case ModeRegister:
		if utf8.RuneCountInString(p.Password) < minPasswordLength {
			return invalid(fmt.Sprintf("Password minimal %d karakter", minPasswordLength))
		}
		if utf8.RuneCountInString(strings.TrimSpace(p.Name)) < minNameLength {
			return invalid(fmt.Sprintf("Nama minimal %d karakter", minNameLength))
		}
	case ModeLogin, "":
		if p.Password == "" {
			return invalid("Password wajib diisi")
		}
	default:
		return invalid(fmt.Sprintf("unknown mode %q", p.Mode))
	}

	return nil
}

type GoogleCredentialAdapter struct {
	api      backend.API
	verifier CredentialVerifier
	timeout  time.Duration
}

// NewGoogleCredentialAdapter returns the One-Tap adapter. verifier may be nil.
func NewGoogleCredentialAdapter(api backend.API, verifier CredentialVerifier, timeout time.Duration) *GoogleCredentialAdapter {
	return &GoogleCredentialAdapter{api: api, verifier: verifier, timeout: timeoutOrDefault(timeout)}
}

func (a *GoogleCredentialAdapter) Exchange(ctx context.Context, proof Proof) (*ExchangeResult, error) {
	p, ok := proof.(CredentialProof)
	if !ok {
		return nil, newError(KindValidationError, ProviderGoogleCredential, fmt.Sprintf("unexpected proof %T", proof), nil)
	}

	if strings.TrimSpace(p.Credential) == "" {
		return nil, newError(KindMissingCredential, ProviderGoogleCredential, "Tidak ada credential dari Google", nil)
	}

	exchangeCtx, cancel := exchangeContext(ctx, a.timeout)
	defer cancel()

	if a.verifier != nil {
		if err := a.verifier.Verify(exchangeCtx, p.Credential); err != nil {
			return nil, newError(KindProviderRejected, ProviderGoogleCredential, "credential verification failed", err)
		}
	}

	payload, err := a.api.GoogleCredential(exchangeCtx, p.Credential)
	if err != nil {
		return nil, classify(ProviderGoogleCredential, err, KindProviderRejected, nil)
	}

	result, authErr := resultFromPayload(ProviderGoogleCredential, payload)
	if authErr != nil {
		return nil, authErr
	}
	return result, nil
}

// CodeAdapter redeems a one-time authorization code.
type CodeAdapter struct {
	provider Provider
	redeem   func(ctx context.Context, code string) (*backend.AuthPayload, error)
	timeout  time.Duration
}

func NewGoogleCodeAdapter(api backend.API, timeout time.Duration) *CodeAdapter {
	return &CodeAdapter{provider: ProviderGoogleRedirect, redeem: api.GoogleCode, timeout: timeoutOrDefault(timeout)}
}

func NewGithubCodeAdapter(api backend.API, timeout time.Duration) *CodeAdapter {
	return &CodeAdapter{provider: ProviderGithubRedirect, redeem: api.GithubCode, timeout: timeoutOrDefault(timeout)}
}

func (a *CodeAdapter) Exchange(ctx context.Context, proof Proof) (*ExchangeResult, error) {
	p, ok := proof.(CodeProof)
	if !ok {
		return nil, newError(KindValidationError, a.provider, fmt.Sprintf("unexpected proof %T", proof), nil)
	}

	if p.Code == "" {
		return nil, newError(KindMissingCredential, a.provider, "Kode otorisasi tidak ditemukan", nil)
	}

	exchangeCtx, cancel := exchangeContext(ctx, a.timeout)
	defer cancel()

	payload, err := a.redeem(exchangeCtx, p.Code)
	if err != nil {
		return nil, classify(a.provider, err, KindProviderRejected, nil)
	}

	result, authErr := resultFromPayload(a.provider, payload)
	if authErr != nil {
		return nil, authErr
	}
	return result, nil
}

// resultFromPayload rejects payloads without a token or an identifiable user.
func resultFromPayload(provider Provider, payload *backend.AuthPayload) (*ExchangeResult, *AuthError) {
	if payload == nil || payload.Token == "" {
		return nil, newError(KindProviderRejected, provider, "Tidak menerima token dari server", nil)
	}

	if payload.User == nil || (payload.User.ID == 0 && payload.User.Email == "") {
		return nil, newError(KindProviderRejected, provider, "Data user tidak ditemukan dalam response", nil)
	}

	return &ExchangeResult{
		Token: payload.Token,
		User:  payload.User.Copy(),
	}, nil
}

// exchangeContext ignores caller cancellation and bounds the request by timeout.
func exchangeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

func timeoutOrDefault(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return DefaultRequestTimeout
	}
	return timeout
}
