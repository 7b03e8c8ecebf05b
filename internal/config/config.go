package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required (use -config or -c)")
	}

	// Read and parse YAML
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvironmentOverrides(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

var (
	EnvAPIBaseURL            = "DASHBOARD_API_BASE_URL"
	EnvGoogleClientID        = "DASHBOARD_GOOGLE_CLIENT_ID"
	EnvGoogleRedirectURL     = "DASHBOARD_GOOGLE_REDIRECT_URL"
	EnvGithubClientID        = "DASHBOARD_GITHUB_CLIENT_ID"
	EnvGithubRedirectURL     = "DASHBOARD_GITHUB_REDIRECT_URL"
	EnvRedisPassword         = "DASHBOARD_REDIS_PASSWORD"
	EnvRedisUsername         = "DASHBOARD_REDIS_USERNAME"
	EnvRedisSentinelUsername = "DASHBOARD_REDIS_SENTINEL_USERNAME"
	EnvRedisSentinelPassword = "DASHBOARD_REDIS_SENTINEL_PASSWORD"
)

func applyEnvironmentOverrides(config *Config) {
	if baseURL := os.Getenv(EnvAPIBaseURL); baseURL != "" {
		config.Backend.APIBaseURL = baseURL
	}

	if clientID := os.Getenv(EnvGoogleClientID); clientID != "" {
		config.OAuth.Google.ClientID = clientID
	}

	if redirectURL := os.Getenv(EnvGoogleRedirectURL); redirectURL != "" {
		config.OAuth.Google.RedirectURL = redirectURL
	}

	if clientID := os.Getenv(EnvGithubClientID); clientID != "" {
		config.OAuth.Github.ClientID = clientID
	}

	if redirectURL := os.Getenv(EnvGithubRedirectURL); redirectURL != "" {
		config.OAuth.Github.RedirectURL = redirectURL
	}

	if redisPassword := os.Getenv(EnvRedisPassword); redisPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Password = redisPassword
	}

	if redisUsername := os.Getenv(EnvRedisUsername); redisUsername != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Username = redisUsername
	}

	if sentinelUsername := os.Getenv(EnvRedisSentinelUsername); sentinelUsername != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if config.Redis.Sentinel == nil {
			config.Redis.Sentinel = &RedisSentinelConfig{}
		}
		config.Redis.Sentinel.SentinelUsername = sentinelUsername
	}

	if sentinelPassword := os.Getenv(EnvRedisSentinelPassword); sentinelPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if config.Redis.Sentinel == nil {
			config.Redis.Sentinel = &RedisSentinelConfig{}
		}
		config.Redis.Sentinel.SentinelPassword = sentinelPassword
	}
}

func validateConfig(config *Config) error {

	err := config.validateServerConfig()
	if err != nil {
		return err
	}

	err = config.validateLogConfig()
	if err != nil {
		return err
	}

	err = config.validateCORSConfig()
	if err != nil {
		return err
	}

	err = config.validateSessionConfig()
	if err != nil {
		return err
	}

	err = config.validateBackendConfig()
	if err != nil {
		return err
	}

	err = config.validateOAuthConfig()
	if err != nil {
		return err
	}

	err = config.validateAuthConfig()
	if err != nil {
		return err
	}

	err = config.validateLedgerConfig()
	if err != nil {
		return err
	}

	if config.Ledger.Type == "redis" || config.Sessions.Store == "redis" {
		err = config.validateRedisConfig()
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerConfig.Port
	}

	if c.Server.ExternalURL != "" {
		if err := validateURL(c.Server.ExternalURL, "server.external_url"); err != nil {
			return err
		}
		c.Server.ExternalURL = strings.TrimRight(c.Server.ExternalURL, "/")
	}

	if c.Server.StaticDir == "" {
		c.Server.StaticDir = DefaultServerConfig.StaticDir
	}

	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = DefaultServerConfig.RequestTimeout
	}

	for i, proxy := range c.Server.TrustedProxies {
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return fmt.Errorf("server.trusted_proxies[%d] is not a valid CIDR: %w", i, err)
		}
	}

	if c.Server.Debug != nil && c.Server.Debug.Enabled {
		if c.Server.Debug.Host == "" {
			c.Server.Debug.Host = DefaultDebugConfig.Host
		}
		if c.Server.Debug.Port <= 0 || c.Server.Debug.Port >= 65535 {
			c.Server.Debug.Port = DefaultDebugConfig.Port
		}
	}

	return nil
}

func (c *Config) validateLogConfig() error {
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogConfig.Format
	} else {
		switch c.Log.Format {
		case "text", "json":
		default:
			return fmt.Errorf("invalid log format: %s, options are text or json", c.Log.Format)
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig.Level
	} else {
		switch c.Log.Level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log level: %s, options are debug, info, warn, error", c.Log.Level)
		}
	}

	return nil
}

func (c *Config) validateCORSConfig() error {
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = DefaultCORSConfig.AllowedOrigins
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = DefaultCORSConfig.AllowedMethods
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = DefaultCORSConfig.AllowedHeaders
	}
	if c.CORS.MaxAgeSeconds == 0 {
		c.CORS.MaxAgeSeconds = DefaultCORSConfig.MaxAgeSeconds
	}

	return nil
}

func (c *Config) validateSessionConfig() error {
	if c.Sessions.Store == "" {
		c.Sessions.Store = DefaultSessionConfig.Store
	} else {
		switch c.Sessions.Store {
		case "memory", "redis":
		default:
			return fmt.Errorf("invalid session store: %s, options are 'memory' or 'redis'", c.Sessions.Store)
		}
	}

	if c.Sessions.Name == "" {
		c.Sessions.Name = DefaultSessionConfig.Name
	}

	if c.Sessions.FixedTimeout == 0 {
		c.Sessions.FixedTimeout = DefaultSessionConfig.FixedTimeout
	}

	return nil
}

func (c *Config) validateBackendConfig() error {
	if err := validateURL(c.Backend.APIBaseURL, "backend.api_base_url"); err != nil {
		return err
	}
	c.Backend.APIBaseURL = strings.TrimRight(c.Backend.APIBaseURL, "/")

	if c.Backend.RequestTimeout <= 0 {
		c.Backend.RequestTimeout = DefaultBackendConfig.RequestTimeout
	}

	return nil
}

// validateOAuthConfig never fails on a missing client id; that provider is
// disabled instead.
func (c *Config) validateOAuthConfig() error {
	if c.OAuth.Google.RedirectURL == "" && c.Server.ExternalURL != "" {
		c.OAuth.Google.RedirectURL = c.Server.ExternalURL + "/auth/google/callback"
	}

	if c.OAuth.Google.RedirectURL != "" {
		if err := validateURL(c.OAuth.Google.RedirectURL, "oauth.google.redirect_url"); err != nil {
			return err
		}
	}

	if c.OAuth.Google.IssuerURL == "" {
		c.OAuth.Google.IssuerURL = DefaultGoogleOAuthConfig.IssuerURL
	}

	if c.OAuth.Google.VerifyCredential && c.OAuth.Google.ClientID == "" {
		return fmt.Errorf("oauth.google.client_id is required when verify_credential is enabled")
	}

	if c.OAuth.Github.RedirectURL != "" {
		if err := validateURL(c.OAuth.Github.RedirectURL, "oauth.github.redirect_url"); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateAuthConfig() error {
	if c.Auth.MinLoadingDuration < 0 {
		return fmt.Errorf("auth.min_loading_duration cannot be negative")
	}
	if c.Auth.MinLoadingDuration == 0 {
		c.Auth.MinLoadingDuration = DefaultAuthConfig.MinLoadingDuration
	}

	if c.Auth.FailureRedirectDelay <= 0 {
		c.Auth.FailureRedirectDelay = DefaultAuthConfig.FailureRedirectDelay
	}

	if c.Auth.HomePath == "" {
		c.Auth.HomePath = DefaultAuthConfig.HomePath
	} else if !isLocalPath(c.Auth.HomePath) {
		return fmt.Errorf("auth.home_path must be a local path starting with '/', got %q", c.Auth.HomePath)
	}

	if c.Auth.EntryPath == "" {
		c.Auth.EntryPath = DefaultAuthConfig.EntryPath
	} else if !isLocalPath(c.Auth.EntryPath) {
		return fmt.Errorf("auth.entry_path must be a local path starting with '/', got %q", c.Auth.EntryPath)
	}

	for i, p := range c.Auth.LoginPaths {
		if !isLocalPath(p) {
			return fmt.Errorf("auth.login_paths[%d] must be a local path starting with '/', got %q", i, p)
		}
	}

	return nil
}

func (c *Config) validateLedgerConfig() error {
	if c.Ledger.Type == "" {
		c.Ledger.Type = DefaultLedgerConfig.Type
	}

	switch c.Ledger.Type {
	case "memory":
		break
	case "redis":
		if c.Redis == nil {
			return fmt.Errorf("redis configuration must be enabled to use redis for the code ledger")
		}
	default:
		return fmt.Errorf("invalid ledger type: %s, must be 'memory' or 'redis'", c.Ledger.Type)
	}

	if c.Ledger.TTL <= 0 {
		c.Ledger.TTL = DefaultLedgerConfig.TTL
	}

	if c.Ledger.SweepInterval <= 0 {
		c.Ledger.SweepInterval = DefaultLedgerConfig.SweepInterval
	}

	return nil
}

func (c *Config) validateRedisConfig() error {
	if c.Redis == nil {
		return fmt.Errorf("redis config is nil")
	}

	if c.Redis.Address == "" && c.Redis.Sentinel == nil {
		return fmt.Errorf("redis address is required")
	}

	if c.Redis.Address != "" {
		if _, _, err := net.SplitHostPort(c.Redis.Address); err != nil {
			return fmt.Errorf("invalid redis address format (expected host:port): %w", err)
		}
	}

	// Apply default indices if not set
	if c.Redis.SessionIndex == 0 && c.Redis.LedgerIndex == 0 {
		c.Redis.SessionIndex = DefaultRedisConfig.SessionIndex
		c.Redis.LedgerIndex = DefaultRedisConfig.LedgerIndex
	}

	if c.Redis.SessionIndex < 0 {
		return fmt.Errorf("redis session_index must be non-negative, got %d", c.Redis.SessionIndex)
	}

	if c.Redis.LedgerIndex < 0 {
		return fmt.Errorf("redis ledger_index must be non-negative, got %d", c.Redis.LedgerIndex)
	}

	if c.Redis.SessionIndex == c.Redis.LedgerIndex {
		return fmt.Errorf("redis session_index and ledger_index should be different to avoid data collision (both are %d)", c.Redis.SessionIndex)
	}

	const maxRedisDB = 15
	if c.Redis.SessionIndex > maxRedisDB {
		return fmt.Errorf("redis session_index %d exceeds typical maximum of %d", c.Redis.SessionIndex, maxRedisDB)
	}

	if c.Redis.LedgerIndex > maxRedisDB {
		return fmt.Errorf("redis ledger_index %d exceeds typical maximum of %d", c.Redis.LedgerIndex, maxRedisDB)
	}

	if c.Redis.Sentinel != nil {
		if c.Redis.Sentinel.MasterName == "" {
			return fmt.Errorf("sentinel master_name is required")
		}
		if len(c.Redis.Sentinel.SentinelAddresses) == 0 {
			return fmt.Errorf("at least one sentinel address is required")
		}
	}
	return nil
}
