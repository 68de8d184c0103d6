package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "supersecret"

// Config holds the service configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Logging   LoggingConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	NewRelic  NewRelicConfig
	Policy    PolicyConfig
	Ledger    LedgerConfig
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Port            int
	Mode            string // gin mode: debug, release, test
	Env             string // development, production
	CorsOrigins     []string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Driver         string // postgres or sqlite
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	TimeZone       string
	SQLitePath     string
	MaxOpenConns   int
	MaxIdleConns   int
	ConnectRetries int
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type LoggingConfig struct {
	Level string
	JSON  bool
	File  string // empty disables the rotating file
}

// RedisConfig holds the Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

// NewRelicConfig holds the New Relic configuration
type NewRelicConfig struct {
	Enabled    bool
	AppName    string
	LicenseKey string
}

type PolicyConfig struct {
	// RestrictStaffUpdates limits delivery staff to status updates on
	// packages assigned to them.
	RestrictStaffUpdates bool
}

type LedgerConfig struct {
	// StrictTransitions enforces the forward-only status graph.
	StrictTransitions bool
}

// IsDevelopment reports whether the service runs in development mode.
func (c ServerConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// Load reads .env (if present), an optional config file and the environment.
// Environment variables use the TRACK_ prefix (TRACK_SERVER_PORT) and the
// legacy unprefixed names (PORT, DB_HOST, JWT_SECRET, ...) are honoured too.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found – relying on env vars")
	}

	v := viper.New()
	setDefaults(v)
	bindLegacyEnv(v)

	v.SetEnvPrefix("TRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	expiresIn, err := ParseExpiry(v.GetString("jwt.expires_in"))
	if err != nil {
		return nil, fmt.Errorf("jwt.expires_in: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			Mode:            v.GetString("server.mode"),
			Env:             v.GetString("server.env"),
			CorsOrigins:     splitList(v.GetString("server.cors_origins")),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Driver:         v.GetString("database.driver"),
			Host:           v.GetString("database.host"),
			Port:           v.GetInt("database.port"),
			User:           v.GetString("database.user"),
			Password:       v.GetString("database.password"),
			Name:           v.GetString("database.name"),
			SSLMode:        v.GetString("database.sslmode"),
			TimeZone:       v.GetString("database.timezone"),
			SQLitePath:     v.GetString("database.sqlite_path"),
			MaxOpenConns:   v.GetInt("database.max_open_conns"),
			MaxIdleConns:   v.GetInt("database.max_idle_conns"),
			ConnectRetries: v.GetInt("database.connect_retries"),
		},
		JWT: JWTConfig{
			Secret:    v.GetString("jwt.secret"),
			ExpiresIn: expiresIn,
		},
		Logging: LoggingConfig{
			Level: v.GetString("logging.level"),
			JSON:  v.GetBool("logging.json"),
			File:  v.GetString("logging.file"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("rate_limit.enabled"),
			Requests: v.GetInt("rate_limit.requests"),
			Window:   v.GetDuration("rate_limit.window"),
		},
		NewRelic: NewRelicConfig{
			Enabled:    v.GetBool("newrelic.enabled"),
			AppName:    v.GetString("newrelic.app_name"),
			LicenseKey: v.GetString("newrelic.license_key"),
		},
		Policy: PolicyConfig{
			RestrictStaffUpdates: v.GetBool("policy.restrict_staff_updates"),
		},
		Ledger: LedgerConfig{
			StrictTransitions: v.GetBool("ledger.strict_transitions"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret must not be empty")
	}
	if !c.Server.IsDevelopment() && c.JWT.Secret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set outside development")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return errors.New("rate limit needs positive requests and window")
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.cors_origins", "")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "track_swiftly")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.sqlite_path", "track_swiftly.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.connect_retries", 5)

	v.SetDefault("jwt.secret", defaultJWTSecret)
	v.SetDefault("jwt.expires_in", "7d")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json", false)
	v.SetDefault("logging.file", "./logs/app.log")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "5m")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "15m")

	v.SetDefault("newrelic.enabled", false)
	v.SetDefault("newrelic.app_name", "Track Swiftly")
	v.SetDefault("newrelic.license_key", "")

	v.SetDefault("policy.restrict_staff_updates", false)
	v.SetDefault("ledger.strict_transitions", false)
}

// bindLegacyEnv keeps the environment names of existing deployments working.
func bindLegacyEnv(v *viper.Viper) {
	legacy := map[string][]string{
		"server.port":         {"TRACK_SERVER_PORT", "PORT"},
		"server.env":          {"TRACK_SERVER_ENV", "APP_ENV", "NODE_ENV"},
		"server.mode":         {"TRACK_SERVER_MODE", "GIN_MODE"},
		"server.cors_origins": {"TRACK_SERVER_CORS_ORIGINS", "CORS_ORIGIN"},
		"database.host":       {"TRACK_DATABASE_HOST", "DB_HOST"},
		"database.port":       {"TRACK_DATABASE_PORT", "DB_PORT"},
		"database.user":       {"TRACK_DATABASE_USER", "DB_USER"},
		"database.password":   {"TRACK_DATABASE_PASSWORD", "DB_PASSWORD"},
		"database.name":       {"TRACK_DATABASE_NAME", "DB_NAME"},
		"database.sslmode":    {"TRACK_DATABASE_SSLMODE", "DB_SSLMODE"},
		"database.timezone":   {"TRACK_DATABASE_TIMEZONE", "DB_TIMEZONE"},
		"jwt.secret":          {"TRACK_JWT_SECRET", "JWT_SECRET"},
		"jwt.expires_in":      {"TRACK_JWT_EXPIRES_IN", "JWT_EXPIRES_IN"},
		"redis.host":          {"TRACK_REDIS_HOST", "REDIS_HOST"},
		"redis.port":          {"TRACK_REDIS_PORT", "REDIS_PORT"},
		"redis.password":      {"TRACK_REDIS_PASSWORD", "REDIS_PASSWORD"},
	}
	for key, envs := range legacy {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
}

// ParseExpiry parses a token lifetime. Besides Go durations ("168h") it
// accepts whole days ("7d").
func ParseExpiry(raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	var d time.Duration
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", raw)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			return 0, err
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
