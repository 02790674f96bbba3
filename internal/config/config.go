package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port            string        `mapstructure:"PORT"`
	GinMode         string        `mapstructure:"GIN_MODE"`
	MongoURI        string        `mapstructure:"MONGODB_URI"`
	MongoDatabase   string        `mapstructure:"MONGODB_DATABASE"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	TokenTTL        time.Duration `mapstructure:"TOKEN_TTL"`
	BcryptCost      int           `mapstructure:"BCRYPT_COST"`
	ClientURL       string        `mapstructure:"CLIENT_URL"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// Load reads configuration from environment variables using Viper. The
// returned Config is owned by the caller; there is no package-level instance.
func Load() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGODB_DATABASE", "edutrack")
	viper.SetDefault("TOKEN_TTL", "24h")
	viper.SetDefault("BCRYPT_COST", 12)
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	// Bind environment variables
	viper.BindEnv("PORT")
	viper.BindEnv("GIN_MODE")
	viper.BindEnv("MONGODB_URI")
	viper.BindEnv("MONGODB_DATABASE")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("TOKEN_TTL")
	viper.BindEnv("BCRYPT_COST")
	viper.BindEnv("CLIENT_URL")
	viper.BindEnv("SHUTDOWN_TIMEOUT")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGODB_URI is required")
	}
	if cfg.MongoDatabase == "" {
		return nil, errors.New("MONGODB_DATABASE is required")
	}

	return &cfg, nil
}
