package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"loan-recovery/artifact"
)

// Load reads configs/config.yaml (or ./config.yaml), merges
// config.<APP_ENVIRONMENT>.yaml when present and applies environment
// overrides such as SERVER_ADDRESS or CACHE_REDIS_ADDRESS.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName("config." + env)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading %s config: %w", env, err)
		}
	}

	return build(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnv(v)
	return v
}

// AutomaticEnv only resolves keys viper already knows about, so every
// key is registered up front.
func bindEnv(v *viper.Viper) {
	keys := []string{
		"app.name", "app.environment",
		"server.address", "server.read_timeout", "server.write_timeout",
		"server.idle_timeout", "server.shutdown_timeout",
		"artifacts.dir", "artifacts.model", "artifacts.scaler", "artifacts.encoders",
		"ui.theme", "ui.title",
		"cache.enabled", "cache.backend", "cache.ttl", "cache.max_entries",
		"cache.redis.address", "cache.redis.password", "cache.redis.db",
		"rate_limit.enabled", "rate_limit.capacity", "rate_limit.refill",
		"logging.level", "logging.format",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

func build(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "loan-recovery"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15000
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Artifacts.Dir == "" {
		cfg.Artifacts.Dir = "artifacts"
	}
	if cfg.Artifacts.Model == "" {
		cfg.Artifacts.Model = artifact.DefaultModelFile
	}
	if cfg.Artifacts.Scaler == "" {
		cfg.Artifacts.Scaler = artifact.DefaultScalerFile
	}
	if cfg.Artifacts.Encoders == "" {
		cfg.Artifacts.Encoders = artifact.DefaultEncodersFile
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = ThemeClassic
	}
	if cfg.UI.Title == "" {
		cfg.UI.Title = "Smart Loan Recovery Prediction"
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheBackendMemory
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 3600
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 10000
	}

	if cfg.RateLimit.Capacity == 0 {
		cfg.RateLimit.Capacity = 5
	}
	if cfg.RateLimit.Refill == 0 {
		cfg.RateLimit.Refill = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.UI.Theme {
	case ThemeClassic, ThemeStyled:
	default:
		return fmt.Errorf("ui.theme must be %q or %q, got %q", ThemeClassic, ThemeStyled, cfg.UI.Theme)
	}

	switch cfg.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if cfg.Cache.Enabled && cfg.Cache.Redis.Address == "" {
			return fmt.Errorf("cache.redis.address is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got %q", CacheBackendMemory, CacheBackendRedis, cfg.Cache.Backend)
	}

	if cfg.Cache.TTL < 0 || cfg.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.ttl and cache.max_entries must not be negative")
	}
	if cfg.RateLimit.Capacity < 0 || cfg.RateLimit.Refill < 0 {
		return fmt.Errorf("rate_limit.capacity and rate_limit.refill must not be negative")
	}
	return nil
}

// ArtifactPaths resolves the three artifact files.
func (c *Config) ArtifactPaths() artifact.Paths {
	resolve := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(c.Artifacts.Dir, name)
	}
	return artifact.Paths{
		Model:    resolve(c.Artifacts.Model),
		Scaler:   resolve(c.Artifacts.Scaler),
		Encoders: resolve(c.Artifacts.Encoders),
	}
}
