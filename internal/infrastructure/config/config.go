package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Log          LogConfig
	Auth         AuthConfig
	Deeplink     DeeplinkConfig
	Linking      LinkingConfig
	Matching     MatchingConfig
	SearchEngine SearchEngineConfig
	Event        EventConfig
	HTTP         HTTPConfig
	Scheduler    SchedulerConfig
	Swagger      SwaggerConfig
	Telemetry    TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig holds partner and admin authentication settings
type AuthConfig struct {
	AdminToken         string        // static token for the admin surface
	APIKeyCacheEnabled bool          // cache verified API keys to skip bcrypt on repeat calls
	APIKeyCacheTTL     time.Duration // how long a verified key stays cached
}

// DeeplinkConfig holds signed deeplink settings
type DeeplinkConfig struct {
	Secret  string        // HMAC signing secret for deeplink tokens
	BaseURL string        // public base URL the signed path is appended to
	TTL     time.Duration // how long a deeplink stays redeemable; also the session lifetime
	Issuer  string        // token issuer claim
}

// LinkingConfig holds identity-linking settings
type LinkingConfig struct {
	LockTTL           time.Duration // upper bound on a keyed link lock hold
	LockRetryInterval time.Duration // wait between lock acquisition attempts
	PendingTTL        time.Duration // how long a disambiguation stays open
}

// MatchingConfig holds confidence scoring settings
type MatchingConfig struct {
	AutoLinkThreshold  float64 // score at or above which a single best candidate links automatically
	CandidateThreshold float64 // minimum score to appear in a disambiguation list
	MaxCandidates      int     // cap on the disambiguation list
	ActivityWindowDays int     // recency decay window for last search activity
	NameWeight         float64
	EmailWeight        float64
	ActivityWeight     float64
}

// SearchEngineConfig holds hotel search engine settings
type SearchEngineConfig struct {
	Mode       string        // "stub" or "http"
	BaseURL    string        // upstream engine base URL (http mode)
	Timeout    time.Duration // per-request timeout (http mode)
	MaxResults int           // cap on results returned to partners
}

// EventConfig holds event processing configuration
type EventConfig struct {
	IdempotencyTTL time.Duration // how long processed event IDs are remembered
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout            time.Duration
	WriteTimeout           time.Duration
	IdleTimeout            time.Duration
	MaxHeaderBytes         int
	MaxBodySize            int64
	RateLimitEnabled       bool
	RateLimitRequests      int // per partner per window
	RateLimitWindow        time.Duration
	AdminRateLimitEnabled  bool          // Enable stricter rate limiting for the admin surface
	AdminRateLimitRequests int           // Max admin requests (default: 30)
	AdminRateLimitWindow   time.Duration // Admin rate limit window (default: 1 minute)
	CORSAllowOrigins       []string
	CORSAllowMethods       []string
	CORSAllowHeaders       []string
	TrustedProxies         []string
}

// SchedulerConfig holds background sweep configuration
type SchedulerConfig struct {
	Enabled              bool
	LinkSweepInterval    time.Duration // how often expired pending links are swept
	SessionSweepInterval time.Duration // how often expired search sessions are swept
	JobTimeout           time.Duration
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled     bool     // Whether to enable Swagger endpoint
	RequireAuth bool     // Require the admin token to access Swagger
	AllowedIPs  []string // IP whitelist (empty = allow all)
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	// Database tracing options
	DBTraceEnabled    bool          // Enable database query tracing (otelgorm)
	DBLogFullSQL      bool          // Log full SQL statements (dev only, disable in prod for security)
	DBSlowQueryThresh time.Duration // Slow query threshold for warnings (default: 200ms)
	// Continuous profiling options
	ProfilingEnabled bool   // Enable Pyroscope continuous profiling
	PyroscopeAddress string // Pyroscope server address (e.g., "http://pyroscope:4040")
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with OUTFIT_ prefix (e.g., OUTFIT_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("OUTFIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Auth: AuthConfig{
			AdminToken:         v.GetString("auth.admin_token"),
			APIKeyCacheEnabled: v.GetBool("auth.api_key_cache_enabled"),
			APIKeyCacheTTL:     v.GetDuration("auth.api_key_cache_ttl"),
		},
		Deeplink: DeeplinkConfig{
			Secret:  v.GetString("deeplink.secret"),
			BaseURL: v.GetString("deeplink.base_url"),
			TTL:     v.GetDuration("deeplink.ttl"),
			Issuer:  v.GetString("deeplink.issuer"),
		},
		Linking: LinkingConfig{
			LockTTL:           v.GetDuration("linking.lock_ttl"),
			LockRetryInterval: v.GetDuration("linking.lock_retry_interval"),
			PendingTTL:        v.GetDuration("linking.pending_ttl"),
		},
		Matching: MatchingConfig{
			AutoLinkThreshold:  v.GetFloat64("matching.auto_link_threshold"),
			CandidateThreshold: v.GetFloat64("matching.candidate_threshold"),
			MaxCandidates:      v.GetInt("matching.max_candidates"),
			ActivityWindowDays: v.GetInt("matching.activity_window_days"),
			NameWeight:         v.GetFloat64("matching.name_weight"),
			EmailWeight:        v.GetFloat64("matching.email_weight"),
			ActivityWeight:     v.GetFloat64("matching.activity_weight"),
		},
		SearchEngine: SearchEngineConfig{
			Mode:       v.GetString("search_engine.mode"),
			BaseURL:    v.GetString("search_engine.base_url"),
			Timeout:    v.GetDuration("search_engine.timeout"),
			MaxResults: v.GetInt("search_engine.max_results"),
		},
		Event: EventConfig{
			IdempotencyTTL: v.GetDuration("event.idempotency_ttl"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:            v.GetDuration("http.read_timeout"),
			WriteTimeout:           v.GetDuration("http.write_timeout"),
			IdleTimeout:            v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:         v.GetInt("http.max_header_bytes"),
			MaxBodySize:            v.GetInt64("http.max_body_size"),
			RateLimitEnabled:       v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:      v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:        v.GetDuration("http.rate_limit_window"),
			AdminRateLimitEnabled:  v.GetBool("http.admin_rate_limit_enabled"),
			AdminRateLimitRequests: v.GetInt("http.admin_rate_limit_requests"),
			AdminRateLimitWindow:   v.GetDuration("http.admin_rate_limit_window"),
			CORSAllowOrigins:       v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:       v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:       v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:         v.GetStringSlice("http.trusted_proxies"),
		},
		Scheduler: SchedulerConfig{
			Enabled:              v.GetBool("scheduler.enabled"),
			LinkSweepInterval:    v.GetDuration("scheduler.link_sweep_interval"),
			SessionSweepInterval: v.GetDuration("scheduler.session_sweep_interval"),
			JobTimeout:           v.GetDuration("scheduler.job_timeout"),
		},
		Swagger: SwaggerConfig{
			Enabled:     v.GetBool("swagger.enabled"),
			RequireAuth: v.GetBool("swagger.require_auth"),
			AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			PyroscopeAddress:  v.GetString("telemetry.pyroscope_address"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "outfit-partner-api"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "outfit"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Auth.APIKeyCacheTTL == 0 {
		cfg.Auth.APIKeyCacheTTL = 5 * time.Minute
	}
	if cfg.Deeplink.BaseURL == "" {
		cfg.Deeplink.BaseURL = "https://www.outfit.travel"
	}
	if cfg.Deeplink.TTL == 0 {
		cfg.Deeplink.TTL = 720 * time.Hour // 30 days
	}
	if cfg.Deeplink.Issuer == "" {
		cfg.Deeplink.Issuer = "outfit-partner-api"
	}
	if cfg.Linking.LockTTL == 0 {
		cfg.Linking.LockTTL = 10 * time.Second
	}
	if cfg.Linking.LockRetryInterval == 0 {
		cfg.Linking.LockRetryInterval = 25 * time.Millisecond
	}
	if cfg.Linking.PendingTTL == 0 {
		cfg.Linking.PendingTTL = 24 * time.Hour
	}
	if cfg.Matching.AutoLinkThreshold == 0 {
		cfg.Matching.AutoLinkThreshold = 0.95
	}
	if cfg.Matching.CandidateThreshold == 0 {
		cfg.Matching.CandidateThreshold = 0.50
	}
	if cfg.Matching.MaxCandidates == 0 {
		cfg.Matching.MaxCandidates = 5
	}
	if cfg.Matching.ActivityWindowDays == 0 {
		cfg.Matching.ActivityWindowDays = 365
	}
	if cfg.Matching.NameWeight == 0 && cfg.Matching.EmailWeight == 0 && cfg.Matching.ActivityWeight == 0 {
		cfg.Matching.NameWeight = 0.60
		cfg.Matching.EmailWeight = 0.30
		cfg.Matching.ActivityWeight = 0.10
	}
	if cfg.SearchEngine.Mode == "" {
		cfg.SearchEngine.Mode = "stub"
	}
	if cfg.SearchEngine.Timeout == 0 {
		cfg.SearchEngine.Timeout = 10 * time.Second
	}
	if cfg.SearchEngine.MaxResults == 0 {
		cfg.SearchEngine.MaxResults = 20
	}
	if cfg.Event.IdempotencyTTL == 0 {
		cfg.Event.IdempotencyTTL = 24 * time.Hour
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB; partner payloads are small
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// Admin rate limiting defaults - stricter limits to slow token guessing
	if cfg.HTTP.AdminRateLimitRequests == 0 {
		cfg.HTTP.AdminRateLimitRequests = 30
	}
	if cfg.HTTP.AdminRateLimitWindow == 0 {
		cfg.HTTP.AdminRateLimitWindow = time.Minute
	}
	// NOTE: CORS origins are intentionally not given a default fallback to "*".
	// An empty list means no cross-origin requests are allowed until explicitly configured.
	// Partner integrations are server-to-server; browser origins are the exception.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID", "X-Outfit-Api-Key", "X-Outfit-Admin-Token"}
	}
	if cfg.Scheduler.LinkSweepInterval == 0 {
		cfg.Scheduler.LinkSweepInterval = 5 * time.Minute
	}
	if cfg.Scheduler.SessionSweepInterval == 0 {
		cfg.Scheduler.SessionSweepInterval = time.Hour
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 5 * time.Minute
	}
	// Swagger defaults: enabled by default (will be overridden by validation in production)

	// Telemetry defaults
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0 // 100% in development
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "outfit-partner-api"
	}
	// Note: Insecure defaults to false for safety (TLS enabled by default)
	// DBTraceEnabled defaults to false (needs explicit enable)
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Telemetry.PyroscopeAddress == "" {
		cfg.Telemetry.PyroscopeAddress = "http://localhost:4040"
	}
	// Note: DBLogFullSQL defaults to false for security (disable in production)
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Validate connection pool settings
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	// Matching thresholds must form a sane band in every environment
	if c.Matching.AutoLinkThreshold <= 0 || c.Matching.AutoLinkThreshold > 1 {
		return fmt.Errorf("matching.auto_link_threshold must be in (0, 1], got %f", c.Matching.AutoLinkThreshold)
	}
	if c.Matching.CandidateThreshold <= 0 || c.Matching.CandidateThreshold > 1 {
		return fmt.Errorf("matching.candidate_threshold must be in (0, 1], got %f", c.Matching.CandidateThreshold)
	}
	if c.Matching.CandidateThreshold > c.Matching.AutoLinkThreshold {
		return fmt.Errorf("matching.candidate_threshold (%f) cannot exceed matching.auto_link_threshold (%f)",
			c.Matching.CandidateThreshold, c.Matching.AutoLinkThreshold)
	}

	// Search engine mode is a closed enum
	switch c.SearchEngine.Mode {
	case "stub", "http":
	default:
		return fmt.Errorf("search_engine.mode must be 'stub' or 'http', got %q", c.SearchEngine.Mode)
	}
	if c.SearchEngine.Mode == "http" && c.SearchEngine.BaseURL == "" {
		return fmt.Errorf("search_engine.base_url is required when search_engine.mode is 'http'")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Deeplink.Secret == "" {
			return fmt.Errorf("deeplink.secret is required in production")
		}
		if len(c.Deeplink.Secret) < 32 {
			return fmt.Errorf("deeplink.secret must be at least 32 characters in production")
		}
		if c.Auth.AdminToken == "" {
			return fmt.Errorf("auth.admin_token is required in production")
		}
		if len(c.Auth.AdminToken) < 32 {
			return fmt.Errorf("auth.admin_token must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		// CORS must not use wildcard with credentials
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		// Swagger must be disabled OR protected in production
		if c.Swagger.Enabled {
			if !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
				return fmt.Errorf("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
			}
		}
		// Database tracing: full SQL logging is a security risk in production
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// MatcherWeights returns the configured scoring weights as a normalized tuple
func (m *MatchingConfig) MatcherWeights() (name, email, activity float64) {
	return m.NameWeight, m.EmailWeight, m.ActivityWeight
}
