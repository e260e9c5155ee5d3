// Package config handles trainingpanel configuration loading and validation.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"trainingpanel/internal/domain/account"
)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "trainingpanel.yaml"

// EnvPrefix prefixes environment overrides, e.g. TRAININGPANEL_SERVER_ADDR.
const EnvPrefix = "TRAININGPANEL"

// Config represents the trainingpanel.yaml configuration file.
type Config struct {
	Server ServerConfig          `yaml:"server" mapstructure:"server"`
	Users  map[string]UserConfig `yaml:"users" mapstructure:"users"`
	Cache  CacheConfig           `yaml:"cache" mapstructure:"cache"`
	Log    LogConfig             `yaml:"log" mapstructure:"log"`
	Perf   PerfConfig            `yaml:"perf" mapstructure:"perf"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr               string   `yaml:"addr" mapstructure:"addr"`
	CSRFKey            string   `yaml:"csrf_key" mapstructure:"csrf_key"` // 64 hex characters
	SecureCookies      bool     `yaml:"secure_cookies" mapstructure:"secure_cookies"`
	TrustedOrigins     []string `yaml:"trusted_origins,omitempty" mapstructure:"trusted_origins"`
	RateLimitPerSecond int      `yaml:"rate_limit_per_second" mapstructure:"rate_limit_per_second"`
	SessionTTLHours    int      `yaml:"session_ttl_hours" mapstructure:"session_ttl_hours"`
}

// UserConfig binds a login to a storage endpoint.
type UserConfig struct {
	Password    string `yaml:"password" mapstructure:"password"` // plaintext or bcrypt hash
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CacheConfig selects the activity config cache. An empty RedisAddr keeps
// the cache in process memory.
type CacheConfig struct {
	RedisAddr     string `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword string `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB       int    `yaml:"redis_db" mapstructure:"redis_db"`
	TTLSeconds    int    `yaml:"ttl_seconds" mapstructure:"ttl_seconds"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// PerfConfig sets slow-operation thresholds and the timing buffer size.
type PerfConfig struct {
	SlowQueryMs   int `yaml:"slow_query_ms" mapstructure:"slow_query_ms"`
	SlowRequestMs int `yaml:"slow_request_ms" mapstructure:"slow_request_ms"`
	RingSize      int `yaml:"ring_size" mapstructure:"ring_size"`
}

// DefaultConfig returns a configuration with sensible defaults and no users.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               ":8080",
			RateLimitPerSecond: 10,
			SessionTTLHours:    24,
		},
		Users: map[string]UserConfig{},
		Cache: CacheConfig{TTLSeconds: 600},
		Log:   LogConfig{Level: "info", Format: "text"},
		Perf: PerfConfig{
			SlowQueryMs:   50,
			SlowRequestMs: 200,
			RingSize:      10000,
		},
	}
}

// Sample returns the configuration written by `config init`.
func Sample() *Config {
	cfg := DefaultConfig()
	cfg.Users = map[string]UserConfig{
		"demo": {Password: "change-me-please", DatabaseURL: "sqlite:trainingpanel-demo.db"},
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.csrf_key", d.Server.CSRFKey)
	v.SetDefault("server.secure_cookies", d.Server.SecureCookies)
	v.SetDefault("server.rate_limit_per_second", d.Server.RateLimitPerSecond)
	v.SetDefault("server.session_ttl_hours", d.Server.SessionTTLHours)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.redis_password", d.Cache.RedisPassword)
	v.SetDefault("cache.redis_db", d.Cache.RedisDB)
	v.SetDefault("cache.ttl_seconds", d.Cache.TTLSeconds)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("perf.slow_query_ms", d.Perf.SlowQueryMs)
	v.SetDefault("perf.slow_request_ms", d.Perf.SlowRequestMs)
	v.SetDefault("perf.ring_size", d.Perf.RingSize)
}

// Load reads the config file at path, or trainingpanel.yaml in the working
// directory when path is empty. Scalar settings can be overridden through
// TRAININGPANEL_* environment variables. A missing default file yields the
// defaults; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Users == nil {
		cfg.Users = map[string]UserConfig{}
	}
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("config_loaded", "path", used, "users", len(cfg.Users))
	}
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	for _, name := range c.Usernames() {
		acct := c.account(name)
		if err := acct.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("user %q: %w", name, err))
		}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Server.CSRFKey != "" {
		if key, err := hex.DecodeString(c.Server.CSRFKey); err != nil || len(key) != 32 {
			errs = append(errs, errors.New("server.csrf_key must be 64 hex characters (32 bytes)"))
		}
	}
	if c.Server.RateLimitPerSecond < 1 {
		errs = append(errs, errors.New("server.rate_limit_per_second must be at least 1"))
	}
	return errors.Join(errs...)
}

// Usernames returns the configured logins, sorted.
func (c *Config) Usernames() []string {
	names := make([]string, 0, len(c.Users))
	for name := range c.Users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a login. Usernames are case-insensitive because viper
// folds map keys to lower case.
func (c *Config) Lookup(username string) (account.Account, bool) {
	name := strings.ToLower(strings.TrimSpace(username))
	if _, ok := c.Users[name]; !ok {
		return account.Account{}, false
	}
	return c.account(name), true
}

func (c *Config) account(name string) account.Account {
	u := c.Users[name]
	return account.Account{Username: name, Password: u.Password, Endpoint: u.DatabaseURL}
}

// CSRFKey decodes server.csrf_key. When none is configured a random key is
// generated, so form tokens do not survive a restart.
func (c *Config) CSRFKey() ([]byte, error) {
	if c.Server.CSRFKey != "" {
		key, err := hex.DecodeString(c.Server.CSRFKey)
		if err != nil || len(key) != 32 {
			return nil, errors.New("server.csrf_key must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	slog.Warn("config_event", "event", "random_csrf_key", "hint", "set server.csrf_key so form tokens survive restarts")
	return key, nil
}

// CacheTTL is the config cache fallback expiry.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// SessionTTL is how long a login stays valid.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Server.SessionTTLHours) * time.Hour
}

// ParseLevel maps a level name onto a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", name)
}
