package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// JWTConfig holds the signing parameters for session tokens.
type JWTConfig struct {
	SecretKey     string `mapstructure:"secretKey"`
	ExpirySeconds int    `mapstructure:"expirySeconds"`
	Issuer        string `mapstructure:"issuer"`
}

// CacheConfig holds the response cache TTL settings.
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanupInterval"`
}

type Config struct {
	Mode         string `mapstructure:"mode"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT   JWTConfig   `mapstructure:"jwt"`
	Cache CacheConfig `mapstructure:"cache"`
}

// InitConfig loads configuration from a config.yml on disk, falling back to
// the embedded copy. Environment variables override file values so secrets
// (DB password, JWT key) never need to live in the file.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	// Environment overrides for deploy-time and secret values.
	_ = v.BindEnv("mode", "APP_ENV")
	_ = v.BindEnv("repositories.postgres.host", "DB_HOST")
	_ = v.BindEnv("repositories.postgres.port", "DB_PORT")
	_ = v.BindEnv("repositories.postgres.username", "DB_USERNAME")
	_ = v.BindEnv("repositories.postgres.password", "DB_PASSWORD")
	_ = v.BindEnv("repositories.postgres.db", "DB_DATABASE")
	_ = v.BindEnv("jwt.secretKey", "JWT_SECRET_KEY")
	_ = v.BindEnv("jwt.expirySeconds", "JWT_EXPIRATION")

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.JWT.ExpirySeconds <= 0 {
		config.JWT.ExpirySeconds = 3600
	}
	if config.Cache.TTL <= 0 {
		config.Cache.TTL = time.Hour
	}
	if config.Cache.CleanupInterval <= 0 {
		config.Cache.CleanupInterval = 10 * time.Minute
	}
	return config, nil
}
