package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"videohub-service/utils"

	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port            string        `mapstructure:"port"`
	Env             string        `mapstructure:"env"`
	LogLevel        string        `mapstructure:"log_level"`
	ServiceName     string        `mapstructure:"service_name"`
	Version         string        `mapstructure:"version"`
	StoreDriver     string        `mapstructure:"store_driver"`
	MongoURI        string        `mapstructure:"mongo_uri"`
	MongoDB         string        `mapstructure:"mongo_db"`
	VideoCollection string        `mapstructure:"video_collection"`
	UserCollection  string        `mapstructure:"user_collection"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	JWTCookie       string        `mapstructure:"jwt_cookie"`
	NATSUrl         string        `mapstructure:"nats_url"`
	NATSPrefix      string        `mapstructure:"nats_subject_prefix"`
	CORSOrigins     string        `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

var defaults = map[string]any{
	"port":                "8080",
	"env":                 "production",
	"log_level":           "info",
	"service_name":        utils.ServiceName,
	"version":             "dev",
	"store_driver":        DriverMongo,
	"mongo_uri":           "",
	"mongo_db":            "videosdb",
	"video_collection":    utils.VideoCollection,
	"user_collection":     utils.UserCollection,
	"jwt_secret":          "",
	"jwt_cookie":          "access_token",
	"nats_url":            "",
	"nats_subject_prefix": "videos",
	"cors_origins":        "*",
	"shutdown_timeout":    "30s",
}

// Load reads configuration from the environment and, when path is not empty,
// from a config file. Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q (want mongo or memory)", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Development reports whether the service runs with development defaults.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
