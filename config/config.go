package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds every process-wide setting. It is loaded once at startup and
// passed to the components that need it; nothing re-reads configuration per
// request.
type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		AccessSecret      string `mapstructure:"access_secret"`
		AccessTTLSeconds  int    `mapstructure:"access_ttl_seconds"`
		RefreshSecret     string `mapstructure:"refresh_secret"`
		RefreshTTLSeconds int    `mapstructure:"refresh_ttl_seconds"`
	} `mapstructure:"jwt"`
	Auth struct {
		TokenSalt  string `mapstructure:"token_salt"`
		BcryptCost int    `mapstructure:"bcrypt_cost"`
	} `mapstructure:"auth"`
}

// Load reads config.yml from the given path, applies environment overrides
// and validates the values the auth core cannot run without. A missing
// required value is a startup error, never a per-request one.
func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 10
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that must be present before the server may
// accept traffic.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" {
		return errors.New("config: jwt.access_secret is required")
	}
	if c.JWT.RefreshSecret == "" {
		return errors.New("config: jwt.refresh_secret is required")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("config: access and refresh secrets must differ")
	}
	if c.JWT.AccessTTLSeconds <= 0 {
		return errors.New("config: jwt.access_ttl_seconds must be positive")
	}
	if c.JWT.RefreshTTLSeconds <= 0 {
		return errors.New("config: jwt.refresh_ttl_seconds must be positive")
	}
	if c.Auth.TokenSalt == "" {
		return errors.New("config: auth.token_salt is required")
	}
	return nil
}
