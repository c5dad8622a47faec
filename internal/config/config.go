package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"

	"github.com/gooberdetector/facedetect/internal/utils"
)

// DefaultSecretKey is the placeholder shipped in examples; a warning is logged when it is in use.
const DefaultSecretKey = "your-secret-key-change-this"

type Config struct {
	Port             string `mapstructure:"PORT"`
	UploadFolder     string `mapstructure:"UPLOAD_FOLDER"`
	DatabasePath     string `mapstructure:"DATABASE_PATH"`
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	SecretKey        string `mapstructure:"SECRET_KEY"`
	MaxContentLength int    `mapstructure:"MAX_CONTENT_LENGTH"`
	CascadePath      string `mapstructure:"CASCADE_PATH"`
	MetricsAddr      string `mapstructure:"METRICS_ADDR"`
}

var keys = []string{
	"PORT", "UPLOAD_FOLDER", "DATABASE_PATH", "DATABASE_URL",
	"SECRET_KEY", "MAX_CONTENT_LENGTH", "CASCADE_PATH", "METRICS_ADDR",
}

// Load reads an optional .env file, an optional config.yml, then the process
// environment. Paths are made absolute.
func Load(envFiles ...string) (*Config, error) {
	// Ignore error if .env file doesn't exist (e.g. in production)
	if err := utils.LoadEnv(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	v.SetDefault("PORT", "3000")
	v.SetDefault("UPLOAD_FOLDER", "saved_photos")
	v.SetDefault("DATABASE_PATH", "instance/gooberdetector.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SECRET_KEY", DefaultSecretKey)
	v.SetDefault("MAX_CONTENT_LENGTH", 16*1024*1024)
	v.SetDefault("CASCADE_PATH", "data/haarcascade_frontalface_default.xml")
	v.SetDefault("METRICS_ADDR", "")

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.UploadFolder = utils.AbsPath(cfg.UploadFolder)
	cfg.DatabasePath = utils.AbsPath(cfg.DatabasePath)
	cfg.CascadePath = utils.AbsPath(cfg.CascadePath)

	if cfg.MaxContentLength <= 0 {
		return nil, fmt.Errorf("MAX_CONTENT_LENGTH must be positive, got %d", cfg.MaxContentLength)
	}
	if cfg.SecretKey == DefaultSecretKey {
		log.Println("Warning: SECRET_KEY is not set, using the default placeholder")
	}

	return &cfg, nil
}

// DatabaseDSN is DATABASE_URL when set, otherwise the SQLite file at DATABASE_PATH.
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DatabasePath
}
