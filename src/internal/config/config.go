package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const defaultChannelID = "BankistOps"
const defaultChannelKey = "BankistOpsKey001"
const defaultJWTSecret = "dev-session-secret-change-me"

type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Database    DatabaseConfig `toml:"database"`
	Session     SessionConfig  `toml:"session"`
	Loan        LoanConfig     `toml:"loan"`
	Auth        AuthConfig     `toml:"auth"`
	Seed        SeedConfig     `toml:"seed"`
	Logging     LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDuration(c.ShutdownTimeout, 10*time.Second)
}

// DatabaseConfig selects the postgres directory when DSN is set. Keyed
// connection strings ("Host=..;Port=..") are accepted and normalised.
type DatabaseConfig struct {
	DSN           string `toml:"dsn"`
	MigrationsDir string `toml:"migrations_dir"`
	MaxOpenConns  int    `toml:"max_open_conns"`
	MaxIdleConns  int    `toml:"max_idle_conns"`
}

type SessionConfig struct {
	Ticks        int    `toml:"ticks"`
	TickInterval string `toml:"tick_interval"`
}

func (c SessionConfig) GetTickInterval() time.Duration {
	return parseDuration(c.TickInterval, time.Second)
}

type LoanConfig struct {
	ApprovalDelay string `toml:"approval_delay"`
}

func (c LoanConfig) GetApprovalDelay() time.Duration {
	return parseDuration(c.ApprovalDelay, 5*time.Second)
}

type AuthConfig struct {
	JWTSecret      string  `toml:"jwt_secret"`
	TokenExpiry    string  `toml:"token_expiry"`
	Issuer         string  `toml:"issuer"`
	ChannelID      string  `toml:"channel_id"`
	ChannelKey     string  `toml:"channel_key"`
	LoginRateLimit float64 `toml:"login_rate_limit"`
	LoginBurst     int     `toml:"login_burst"`
	TrustProxy     bool    `toml:"trust_proxy"`
}

// UsesDefaultSecret reports whether tokens would be signed with the
// development secret shipped in Default.
func (c AuthConfig) UsesDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

func (c AuthConfig) GetTokenExpiry() time.Duration {
	return parseDuration(c.TokenExpiry, 12*time.Hour)
}

type SeedConfig struct {
	File       string `toml:"file"`
	BcryptCost int    `toml:"bcrypt_cost"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

func Default() Config {
	return Config{
		Environment: "development",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: "10s",
		},
		Session: SessionConfig{
			Ticks:        300,
			TickInterval: "1s",
		},
		Loan: LoanConfig{
			ApprovalDelay: "5s",
		},
		Auth: AuthConfig{
			JWTSecret:      defaultJWTSecret,
			TokenExpiry:    "12h",
			Issuer:         "bankist",
			ChannelID:      defaultChannelID,
			ChannelKey:     defaultChannelKey,
			LoginRateLimit: 1,
			LoginBurst:     5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, then each TOML file in order
// (missing files are skipped), then a .env file if present, then the
// environment.
func Load(paths ...string) (Config, error) {
	cfg := Default()

	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	envFile := strings.TrimSpace(os.Getenv("BANKIST_ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	applyEnvOverrides(&cfg)

	if cfg.Database.DSN != "" {
		cfg.Database.DSN = normalizeConnectionString(cfg.Database.DSN)
	}
	if cfg.Session.Ticks <= 0 {
		return Config{}, fmt.Errorf("session.ticks must be positive, got %d", cfg.Session.Ticks)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := env("BANKIST_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := env("BANKIST_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := env("BANKIST_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}

	if v := env("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := env("BANKIST_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := env("BANKIST_MIGRATIONS_DIR"); v != "" {
		cfg.Database.MigrationsDir = v
	}
	if v := env("BANKIST_DB_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.MaxOpenConns = n
		}
	}

	if v := env("BANKIST_SESSION_TICKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Session.Ticks = n
		}
	}
	if v := env("BANKIST_SESSION_TICK_INTERVAL"); v != "" {
		cfg.Session.TickInterval = v
	}
	if v := env("BANKIST_LOAN_APPROVAL_DELAY"); v != "" {
		cfg.Loan.ApprovalDelay = v
	}

	if v := env("BANKIST_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := env("BANKIST_TOKEN_EXPIRY"); v != "" {
		cfg.Auth.TokenExpiry = v
	}
	if v := env("BANKIST_TRUST_PROXY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Auth.TrustProxy = b
		}
	}
	if v := env("CHANNEL_ID"); v != "" {
		cfg.Auth.ChannelID = v
	}
	if v := env("CHANNEL_KEY"); v != "" {
		cfg.Auth.ChannelKey = v
	}

	if v := env("BANKIST_SEED_FILE"); v != "" {
		cfg.Seed.File = v
	}
	if v := env("BANKIST_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := env("BANKIST_LOG_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.Pretty = b
		}
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
