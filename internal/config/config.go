package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Safety    SafetyConfig    `yaml:"safety"`
	Providers ProvidersConfig `yaml:"providers"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RateLimitPerMin int           `yaml:"rate_limit_per_min" env:"SERVER_RATE_LIMIT_PER_MIN" env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds identity-token validation settings. Tokens are issued by
// the external identity service; this service only validates them.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"summitpath"`
}

// SafetyConfig holds safety-core tunables: the hold-to-trigger countdown and
// the location enrichment deadline for alert creation.
type SafetyConfig struct {
	HoldTicks          int           `yaml:"hold_ticks"           env:"SAFETY_HOLD_TICKS"           env-default:"3"`
	TickInterval       time.Duration `yaml:"tick_interval"        env:"SAFETY_TICK_INTERVAL"        env-default:"1s"`
	LocationTimeout    time.Duration `yaml:"location_timeout"     env:"SAFETY_LOCATION_TIMEOUT"     env-default:"3s"`
	ResolveNoteMaxLen  int           `yaml:"resolve_note_max_len" env:"SAFETY_RESOLVE_NOTE_MAX_LEN" env-default:"500"`
	ChecklistNoteMaxLen int          `yaml:"checklist_note_max_len" env:"SAFETY_CHECKLIST_NOTE_MAX_LEN" env-default:"500"`
}

// ProvidersConfig holds base URLs for external collaborator services.
type ProvidersConfig struct {
	SafetyInfoBaseURL string `yaml:"safety_info_base_url" env:"PROVIDERS_SAFETY_INFO_BASE_URL" env-required:"true"`
	GeolocateBaseURL  string `yaml:"geolocate_base_url"   env:"PROVIDERS_GEOLOCATE_BASE_URL"`
	NotifyGatewayURL  string `yaml:"notify_gateway_url"   env:"PROVIDERS_NOTIFY_GATEWAY_URL"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
