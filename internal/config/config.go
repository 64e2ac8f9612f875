package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when neither the flag nor the environment names a file.
	DefaultConfigPath = "config.yaml"
	// ConfigPathEnv names the environment variable holding the config path.
	ConfigPathEnv = "PRIZECHECK_CONFIG"

	defaultPort         = 8080
	defaultDSN          = "file:data/prizecheck.db"
	defaultJWTExpiry    = 12 * time.Hour
	defaultLogLevel     = "info"
	defaultLogMaxSize   = 50
	defaultLogBackups   = 5
	defaultLogMaxAge    = 28
	defaultArchiveDir   = "exports"
	sessionDriverMemory = "memory"
	sessionDriverRedis  = "redis"
)

// AppConfig holds process-level options resolved from command-line flags.
type AppConfig struct {
	ConfigPath string // Path to the YAML configuration file.
}

// Config is the full service configuration.
type Config struct {
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Admin    AdminConfig    `yaml:"admin"`
	Session  SessionConfig  `yaml:"session"`
	Log      LogConfig      `yaml:"log"`
	Archive  ArchiveConfig  `yaml:"archive"`
}

// DatabaseConfig selects the database connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // Postgres URL/keyword DSN or SQLite file DSN.
}

// JWTConfig configures admin session tokens.
type JWTConfig struct {
	Secret    string        `yaml:"secret"`
	ExpiryRaw string        `yaml:"expiry"` // Go duration string, e.g. "12h".
	Expiry    time.Duration `yaml:"-"`
	Generated bool          `yaml:"-"` // True when Secret was generated at startup.
}

// AdminConfig seeds the initial administrator account.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SessionConfig selects where admin sessions are kept.
type SessionConfig struct {
	Driver string      `yaml:"driver"` // "memory" or "redis".
	Redis  RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LogConfig configures logrus output and file rotation.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // Empty keeps logs on stdout only.
	MaxSizeMB  int    `yaml:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAgeDays int    `yaml:"max-age-days"`
}

// ArchiveConfig configures the S3-compatible bucket that receives CSV exports.
type ArchiveConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access-key-id"`
	SecretAccessKey string `yaml:"secret-access-key"`
	Prefix          string `yaml:"prefix"`
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UsesRedisSessions reports whether sessions are stored in Redis.
func (c *Config) UsesRedisSessions() bool {
	return c.Session.Driver == sessionDriverRedis
}

// ResolveConfigPath picks the config path from the flag value, the environment, or the default.
func ResolveConfigPath(flagValue string) string {
	if trimmed := strings.TrimSpace(flagValue); trimmed != "" {
		return trimmed
	}
	if env := strings.TrimSpace(os.Getenv(ConfigPathEnv)); env != "" {
		return env
	}
	return DefaultConfigPath
}

// ConfigExists reports whether a config file exists at the path.
func ConfigExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load reads the YAML file at path, applies environment overrides and fills defaults.
// A missing file is not an error; the service then runs on defaults and environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, errRead := os.ReadFile(path)
	switch {
	case errRead == nil:
		if errUnmarshal := yaml.Unmarshal(data, cfg); errUnmarshal != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
		}
	case errors.Is(errRead, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, errRead)
	}

	applyEnvOverrides(cfg)
	if errNormalize := cfg.normalize(); errNormalize != nil {
		return nil, errNormalize
	}
	return cfg, nil
}

// applyEnvOverrides lets deployment environments override file values.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.JWT.Secret = v
	}
	if v := strings.TrimSpace(os.Getenv("ADMIN_USERNAME")); v != "" {
		cfg.Admin.Username = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); strings.TrimSpace(v) != "" {
		cfg.Admin.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_ADDR")); v != "" {
		cfg.Session.Driver = sessionDriverRedis
		cfg.Session.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, errParse := strconv.Atoi(v); errParse == nil {
			cfg.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
}

// normalize fills defaults and validates values that cannot be defaulted.
func (c *Config) normalize() error {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	c.Database.DSN = strings.TrimSpace(c.Database.DSN)
	if c.Database.DSN == "" {
		c.Database.DSN = defaultDSN
	}

	c.JWT.Expiry = defaultJWTExpiry
	if raw := strings.TrimSpace(c.JWT.ExpiryRaw); raw != "" {
		expiry, errParse := time.ParseDuration(raw)
		if errParse != nil {
			return fmt.Errorf("config: invalid jwt expiry %q: %w", raw, errParse)
		}
		if expiry <= 0 {
			return fmt.Errorf("config: jwt expiry must be positive")
		}
		c.JWT.Expiry = expiry
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		secret, errSecret := randomSecret()
		if errSecret != nil {
			return fmt.Errorf("config: generate jwt secret: %w", errSecret)
		}
		c.JWT.Secret = secret
		c.JWT.Generated = true
	}

	c.Admin.Username = strings.TrimSpace(c.Admin.Username)

	c.Session.Driver = strings.ToLower(strings.TrimSpace(c.Session.Driver))
	switch c.Session.Driver {
	case "":
		c.Session.Driver = sessionDriverMemory
	case sessionDriverMemory:
	case sessionDriverRedis:
		if strings.TrimSpace(c.Session.Redis.Addr) == "" {
			return fmt.Errorf("config: session driver redis requires session.redis.addr")
		}
	default:
		return fmt.Errorf("config: unsupported session driver %q", c.Session.Driver)
	}

	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = defaultLogMaxSize
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = defaultLogBackups
	}
	if c.Log.MaxAgeDays <= 0 {
		c.Log.MaxAgeDays = defaultLogMaxAge
	}

	if c.Archive.Enabled {
		if strings.TrimSpace(c.Archive.Bucket) == "" {
			return fmt.Errorf("config: archive enabled without bucket")
		}
		if strings.TrimSpace(c.Archive.Region) == "" {
			c.Archive.Region = "auto"
		}
		if strings.TrimSpace(c.Archive.Prefix) == "" {
			c.Archive.Prefix = defaultArchiveDir
		}
	}
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
