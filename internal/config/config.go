package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrEmptyBaseURL = errors.New("error getting RC_API_URL: variable not specified or contains an empty string")
	ErrEmptyToken   = errors.New("error getting RC_TELEGRAM_TOKEN: variable not specified or contains an empty string")
)

type Config struct {
	Env         string // Env is the current environment: local, development, production.
	StoragePath string // StoragePath is the sqlite file holding chat credentials.
	PageSize    int
	API         API
	Tg          Telegram
}

type API struct {
	URL     string        // URL is the base URL of the rental service.
	Timeout time.Duration // Timeout bounds a single HTTP request.
	Retries int           // Retries is how many times a failed GET is repeated.
	Token   string        // Token is an optional static bearer credential for CLI use.
	OwnerID string        // OwnerID scopes the catalog to one owner when set.
}

type Telegram struct {
	Token   string        // Token is an unique telgram bot token.
	Timeout time.Duration // Timeout is a poller timeout duration.
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("RC")
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("ENV", "production")
	viper.SetDefault("API_TIMEOUT", "15s")
	viper.SetDefault("API_RETRIES", 2)
	viper.SetDefault("PAGE_SIZE", 10)
	viper.SetDefault("STORAGE_PATH", "rentcatalog.db")
	viper.SetDefault("TELEGRAM_TIMEOUT", "15s")

	if viper.GetString("API_URL") == "" {
		return nil, ErrEmptyBaseURL
	}

	return &Config{
		Env:         viper.GetString("ENV"),
		StoragePath: viper.GetString("STORAGE_PATH"),
		PageSize:    viper.GetInt("PAGE_SIZE"),
		API: API{
			URL:     viper.GetString("API_URL"),
			Timeout: viper.GetDuration("API_TIMEOUT"),
			Retries: viper.GetInt("API_RETRIES"),
			Token:   viper.GetString("API_TOKEN"),
			OwnerID: viper.GetString("OWNER_ID"),
		},
		Tg: Telegram{
			Token:   viper.GetString("TELEGRAM_TOKEN"),
			Timeout: viper.GetDuration("TELEGRAM_TIMEOUT"),
		},
	}, nil
}

// RequireTelegram returns ErrEmptyToken when the bot token is missing.
func (c *Config) RequireTelegram() error {
	if c.Tg.Token == "" {
		return ErrEmptyToken
	}
	return nil
}
