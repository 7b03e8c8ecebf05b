package authentication

import (
	"context"
	"net/url"
	"strings"
)

const DefaultHomePath = "/dashboard"

// DefaultLoginPaths are never used as a post-login destination.
var DefaultLoginPaths = []string{
	"/",
	"/login",
	"/register",
	"/auth/google/callback",
	"/auth/github/callback",
	"/api/auth/google/login",
	"/api/auth/github/login",
}

type OriginStorage interface {
	SetRedirectOrigin(ctx context.Context, path string)
	GetRedirectOrigin(ctx context.Context) string
	ClearRedirectOrigin(ctx context.Context)
}

// OriginMemory remembers where a redirect flow was started from.
type OriginMemory struct {
	storage    OriginStorage
	home       string
	loginPaths map[string]struct{}
}

func NewOriginMemory(storage OriginStorage, home string, loginPaths []string) *OriginMemory {
	if home == "" {
		home = DefaultHomePath
	}
	if len(loginPaths) == 0 {
		loginPaths = DefaultLoginPaths
	}

	paths := make(map[string]struct{}, len(loginPaths))
	for _, p := range loginPaths {
		paths[strings.TrimSuffix(p, "/")] = struct{}{}
	}

	return &OriginMemory{
		storage:    storage,
		home:       home,
		loginPaths: paths,
	}
}

// Remember stores path if it is a same-site relative path. Anything else
// is ignored and false is returned.
func (m *OriginMemory) Remember(ctx context.Context, path string) bool {
	clean, ok := SafeRelativePath(path)
	if !ok {
		return false
	}

	m.storage.SetRedirectOrigin(ctx, clean)
	return true
}

// Resolve returns the remembered origin, or the home path when nothing
// usable was remembered.
func (m *OriginMemory) Resolve(ctx context.Context) string {
	origin, ok := SafeRelativePath(m.storage.GetRedirectOrigin(ctx))
	if !ok || m.isLoginPath(origin) {
		return m.home
	}
	return origin
}

func (m *OriginMemory) Clear(ctx context.Context) {
	m.storage.ClearRedirectOrigin(ctx)
}

func (m *OriginMemory) Home() string {
	return m.home
}

func (m *OriginMemory) isLoginPath(path string) bool {
	_, ok := m.loginPaths[strings.TrimSuffix(path, "/")]
	return ok
}

// SafeRelativePath reduces raw to its path component and reports whether it
// is a local absolute path that cannot point at another host.
func SafeRelativePath(raw string) (string, bool) {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return "", false
	}
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}

	if u.Path == "" || strings.Contains(u.Path, "\\") {
		return "", false
	}

	return u.Path, true
}
