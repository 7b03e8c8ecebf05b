package config

import (
	"time"
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Log      LogConfig     `yaml:"log"`
	CORS     CORSConfig    `yaml:"cors"`
	Sessions SessionConfig `yaml:"sessions"`
	Redis    *RedisConfig  `yaml:"redis"`
	Backend  BackendConfig `yaml:"backend"`
	OAuth    OAuthConfig   `yaml:"oauth"`
	Auth     AuthConfig    `yaml:"auth"`
	Ledger   LedgerConfig  `yaml:"ledger"`
}

type ServerConfig struct {
	Port           int                `yaml:"port"`
	ExternalURL    string             `yaml:"external_url"`
	StaticDir      string             `yaml:"static_dir"`
	RequestTimeout time.Duration      `yaml:"request_timeout"`
	TrustedProxies []string           `yaml:"trusted_proxies"`
	Debug          *ServerDebugConfig `yaml:"debug"`
}

var DefaultServerConfig = ServerConfig{
	Port:           8080,
	StaticDir:      "./dist",
	RequestTimeout: 60 * time.Second,
}

type ServerDebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

var DefaultDebugConfig = ServerDebugConfig{
	Enabled: false,
	Host:    "localhost",
	Port:    5123,
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var DefaultLogConfig = LogConfig{
	Level:  "info",
	Format: "text",
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAgeSeconds    int      `yaml:"max_age_seconds"`
}

var DefaultCORSConfig = CORSConfig{
	AllowedOrigins: []string{"http://localhost:5173"},
	AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	AllowedHeaders: []string{"*"},
	MaxAgeSeconds:  300,
}

type SessionConfig struct {
	Store        string        `yaml:"store"`
	FixedTimeout time.Duration `yaml:"fixed_timeout"`
	Name         string        `yaml:"name"`
	Secure       bool          `yaml:"secure"`
}

var DefaultSessionConfig = SessionConfig{
	Store:        "memory",
	FixedTimeout: 7 * 24 * time.Hour,
	Name:         "hosting_session",
	Secure:       true,
}

type RedisConfig struct {
	Address      string               `yaml:"address"`
	Username     string               `yaml:"username"`
	Password     string               `yaml:"password"`
	Sentinel     *RedisSentinelConfig `yaml:"sentinel"`
	SessionIndex int                  `yaml:"session_index"`
	LedgerIndex  int                  `yaml:"ledger_index"`
}

var DefaultRedisConfig = RedisConfig{
	SessionIndex: 0,
	LedgerIndex:  1,
}

type RedisSentinelConfig struct {
	MasterName        string   `yaml:"master_name"`
	SentinelAddresses []string `yaml:"addresses"`
	SentinelPassword  string   `yaml:"password"`
	SentinelUsername  string   `yaml:"username"`
}

// BackendConfig points at the hosting REST API that issues session tokens.
type BackendConfig struct {
	APIBaseURL     string        `yaml:"api_base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

var DefaultBackendConfig = BackendConfig{
	RequestTimeout: 20 * time.Second,
}

type OAuthConfig struct {
	Google GoogleOAuthConfig `yaml:"google"`
	Github GithubOAuthConfig `yaml:"github"`
}

type GoogleOAuthConfig struct {
	ClientID         string `yaml:"client_id"`
	RedirectURL      string `yaml:"redirect_url"`
	VerifyCredential bool   `yaml:"verify_credential"`
	IssuerURL        string `yaml:"issuer_url"`
	AutoSelect       bool   `yaml:"auto_select"`
}

var DefaultGoogleOAuthConfig = GoogleOAuthConfig{
	IssuerURL: "https://accounts.google.com",
}

type GithubOAuthConfig struct {
	ClientID    string `yaml:"client_id"`
	RedirectURL string `yaml:"redirect_url"`
}

type AuthConfig struct {
	MinLoadingDuration   time.Duration `yaml:"min_loading_duration"`
	FailureRedirectDelay time.Duration `yaml:"failure_redirect_delay"`
	HomePath             string        `yaml:"home_path"`
	EntryPath            string        `yaml:"entry_path"`
	LoginPaths           []string      `yaml:"login_paths"`
	RequireState         *bool         `yaml:"require_state"`
}

var DefaultAuthConfig = AuthConfig{
	MinLoadingDuration:   1500 * time.Millisecond,
	FailureRedirectDelay: 3 * time.Second,
	HomePath:             "/dashboard",
	EntryPath:            "/",
}

// StateRequired reports whether callbacks must echo the launch state.
func (a AuthConfig) StateRequired() bool {
	return a.RequireState == nil || *a.RequireState
}

type LedgerConfig struct {
	Type          string        `yaml:"type"` //  "memory" or "redis"
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

var DefaultLedgerConfig = LedgerConfig{
	Type:          "memory",
	TTL:           24 * time.Hour,
	SweepInterval: 10 * time.Minute,
}
