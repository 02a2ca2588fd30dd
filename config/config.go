package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	UI        UIConfig        `mapstructure:"ui"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	IdleTimeout     int    `mapstructure:"idle_timeout"`     // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// ArtifactsConfig locates the fitted model files. File names are
// resolved relative to Dir unless absolute.
type ArtifactsConfig struct {
	Dir      string `mapstructure:"dir"`
	Model    string `mapstructure:"model"`
	Scaler   string `mapstructure:"scaler"`
	Encoders string `mapstructure:"encoders"`
}

const (
	ThemeClassic = "classic"
	ThemeStyled  = "styled"
)

type UIConfig struct {
	Theme string `mapstructure:"theme"`
	Title string `mapstructure:"title"`
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type CacheConfig struct {
	Enabled    bool        `mapstructure:"enabled"`
	Backend    string      `mapstructure:"backend"`
	TTL        int         `mapstructure:"ttl"`         // seconds
	MaxEntries int         `mapstructure:"max_entries"` // memory backend only
	Redis      RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Capacity int  `mapstructure:"capacity"`
	Refill   int  `mapstructure:"refill"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
