package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultSeed is the list of shows the registry starts with.
var DefaultSeed = []string{"Mr. Robot", "GOT", "Fringe", "3 Body Problem"}

type Config struct {
	Server struct {
		Port        int    `mapstructure:"port"`
		Address     string `mapstructure:"address"`
		Compression bool   `mapstructure:"compression"`
	} `mapstructure:"server"`
	PublicDir string `mapstructure:"public_dir"`
	LogLevel  string `mapstructure:"log_level"`
	Metrics   struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	Cache struct {
		Provider string `mapstructure:"provider"` // "memory" or "redis"
		Size     int    `mapstructure:"size"`     // Maximum number of encoded snapshots kept
		TTL      string `mapstructure:"ttl"`      // Go duration string like "10m", "1h", etc.
		Redis    struct {
			Address        string `mapstructure:"address"`
			Password       string `mapstructure:"password"`
			DB             int    `mapstructure:"db"`
			ConnectRetries int    `mapstructure:"connect_retries"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Registry struct {
		Seed          []string `mapstructure:"seed"`
		StrictInput   bool     `mapstructure:"strict_input"`
		MaxShowLength int      `mapstructure:"max_show_length"`
	} `mapstructure:"registry"`
	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig(viper.GetViper(), "")
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}
	apply(config)
}

// Reload re-reads the configuration from the global viper instance, using
// cfgFile when it is set. Flags bound with viper.BindPFlag are honoured.
func Reload(cfgFile string) (*Config, error) {
	config, err := LoadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}
	apply(config)
	return config, nil
}

func apply(config *Config) {
	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Debug().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
}

// SetDefaults registers the default value of every configuration key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.address", "")
	v.SetDefault("server.compression", true)
	v.SetDefault("public_dir", "public")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("cache.provider", "memory")
	v.SetDefault("cache.size", 64)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.redis.address", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.connect_retries", 3)
	v.SetDefault("registry.seed", DefaultSeed)
	v.SetDefault("registry.strict_input", false)
	v.SetDefault("registry.max_show_length", 200)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
}

// LoadConfig reads config.yaml (or cfgFile) and the environment into a Config.
// A missing config file is not an error.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variable support
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// PORT and LOG_LEVEL are read without prefix, as most hosting platforms set them.
	_ = v.BindEnv("server.port", "APP_SERVER_PORT", "PORT")
	_ = v.BindEnv("log_level", "APP_LOG_LEVEL", "LOG_LEVEL")

	SetDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.Registry.Seed == nil {
		config.Registry.Seed = append([]string(nil), DefaultSeed...)
	}

	return &config, nil
}

// CacheTTL parses Cache.TTL, falling back to 10 minutes when it is empty or invalid.
func (c *Config) CacheTTL() time.Duration {
	const fallback = 10 * time.Minute
	if c.Cache.TTL == "" {
		return fallback
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || ttl <= 0 {
		logger.Warn().Str("ttl", c.Cache.TTL).Msg("Invalid cache TTL, using default 10m")
		return fallback
	}
	return ttl
}

func GetConfig() *Config {
	return globalConfig
}

func GetLogger() zerolog.Logger {
	return logger
}
