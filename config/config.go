// Package config loads service configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the seller-onboarding service.
type Config struct {
	ServerPort     string `mapstructure:"SERVER_PORT"`
	InternalAPIKey string `mapstructure:"INTERNAL_API_KEY"`

	TemporalHostPort  string `mapstructure:"TEMPORAL_HOST_PORT"`
	TemporalNamespace string `mapstructure:"TEMPORAL_NAMESPACE"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	PayPalBaseURL   string `mapstructure:"PAYPAL_API_BASE_URL"`
	PayPalClientID  string `mapstructure:"PAYPAL_CLIENT_ID"`
	PayPalSecret    string `mapstructure:"PAYPAL_SECRET"`
	PayPalReturnURL string `mapstructure:"PAYPAL_RETURN_URL"`

	UserAPIBaseURL      string `mapstructure:"USER_API_BASE_URL"`
	DeviceBridgeBaseURL string `mapstructure:"DEVICE_BRIDGE_BASE_URL"`

	UpgradeAmount         string        `mapstructure:"UPGRADE_AMOUNT"`
	OnboardAbandonTimeout time.Duration `mapstructure:"ONBOARD_ABANDON_TIMEOUT"`
}

// Load reads configuration from the environment. The .env file at path is
// optional; real environment variables take precedence.
func Load(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("TEMPORAL_HOST_PORT", "localhost:7233")
	viper.SetDefault("TEMPORAL_NAMESPACE", "default")
	viper.SetDefault("PAYPAL_API_BASE_URL", "https://api-m.sandbox.paypal.com")
	viper.SetDefault("PAYPAL_RETURN_URL", "https://snapbuy.example.com/paypal/returnToPartner")
	viper.SetDefault("UPGRADE_AMOUNT", "99.00")
	viper.SetDefault("ONBOARD_ABANDON_TIMEOUT", 15*time.Minute)

	for _, key := range []string{
		"SERVER_PORT", "INTERNAL_API_KEY",
		"TEMPORAL_HOST_PORT", "TEMPORAL_NAMESPACE",
		"DATABASE_URL",
		"PAYPAL_API_BASE_URL", "PAYPAL_CLIENT_ID", "PAYPAL_SECRET", "PAYPAL_RETURN_URL",
		"USER_API_BASE_URL", "DEVICE_BRIDGE_BASE_URL",
		"UPGRADE_AMOUNT", "ONBOARD_ABANDON_TIMEOUT",
	} {
		_ = viper.BindEnv(key)
	}

	// Missing .env is fine; the environment is the source of truth.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
