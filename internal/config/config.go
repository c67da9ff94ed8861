package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`
}

// DatabaseConfig holds backing store settings. Driver selects the store
// implementation: "postgres" for the durable SQL store, "memory" for the
// in-process store used in development.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"`
}

// WeatherConfig holds upstream weather API settings
type WeatherConfig struct {
	BaseURL           string        `mapstructure:"baseUrl"`
	APIKey            string        `mapstructure:"apiKey"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
	Burst             int           `mapstructure:"burst"`
	ForecastDays      int           `mapstructure:"forecastDays"`
}

// SeedConfig holds bootstrap data source settings
type SeedConfig struct {
	File string `mapstructure:"file"`
}

// SyncConfig holds the favorite snapshot sync job settings
type SyncConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the full application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// LoadConfig reads configuration from config.yaml (optional) and environment
// variables prefixed with WEATHERCACHE_.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 10*time.Second)
	v.SetDefault("server.writeTimeout", 15*time.Second)
	v.SetDefault("server.idleTimeout", 60*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.database", "weather_cache")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 30*time.Minute)
	v.SetDefault("database.connMaxIdleTime", 5*time.Minute)

	v.SetDefault("weather.baseUrl", "https://api.weatherapi.com/v1")
	v.SetDefault("weather.timeout", 10*time.Second)
	v.SetDefault("weather.requestsPerSecond", 1.0)
	v.SetDefault("weather.burst", 3)
	v.SetDefault("weather.forecastDays", 7)

	v.SetDefault("seed.file", "seed/locations.json")

	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.interval", 15*time.Minute)

	v.SetDefault("logging.level", "info")

	v.BindEnv("database.host", "WEATHERCACHE_DB_HOST")
	v.BindEnv("database.port", "WEATHERCACHE_DB_PORT")
	v.BindEnv("database.user", "WEATHERCACHE_DB_USER")
	v.BindEnv("database.password", "WEATHERCACHE_DB_PASSWORD")
	v.BindEnv("database.database", "WEATHERCACHE_DB_NAME")
	v.BindEnv("database.driver", "WEATHERCACHE_DB_DRIVER")
	v.BindEnv("weather.apiKey", "WEATHERCACHE_WEATHER_API_KEY")
	v.BindEnv("weather.baseUrl", "WEATHERCACHE_WEATHER_BASE_URL")
	v.BindEnv("logging.level", "WEATHERCACHE_LOG_LEVEL")
	v.BindEnv("server.port", "WEATHERCACHE_SERVER_PORT")
	v.BindEnv("seed.file", "WEATHERCACHE_SEED_FILE")
	v.BindEnv("sync.interval", "WEATHERCACHE_SYNC_INTERVAL")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, env vars and defaults cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for invalid combinations
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" || c.Database.Database == "" {
			return fmt.Errorf("postgres driver requires database host and name")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}

	if c.Weather.BaseURL == "" {
		return fmt.Errorf("weather base URL must not be empty")
	}

	if c.Weather.RequestsPerSecond <= 0 {
		return fmt.Errorf("weather requests per second must be positive")
	}

	if c.Weather.ForecastDays <= 0 || c.Weather.ForecastDays > 14 {
		return fmt.Errorf("weather forecast days must be between 1 and 14")
	}

	if c.Sync.Enabled && c.Sync.Interval < time.Minute {
		return fmt.Errorf("sync interval must be at least one minute")
	}

	return nil
}
