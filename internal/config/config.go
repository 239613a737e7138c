package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting, loaded from environment variables
// (with an optional .env file for local development).
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	BaseURL     string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Face/couple analysis service.
	FortuneAPIBaseURL string `envconfig:"FORTUNE_API_BASE_URL" required:"true"`
	// Saju service. The payment confirmation endpoint also lives here.
	SajuAPIBaseURL    string `envconfig:"SAJU_API_BASE_URL" required:"true"`
	PaymentAPIBaseURL string `envconfig:"PAYMENT_API_BASE_URL"`

	// TossPayments widget key, handed to the frontend with each unpaid
	// report so it can open the payment widget.
	TossClientKey string `envconfig:"TOSS_CLIENT_KEY"`

	MixpanelAPIURL string `envconfig:"MIXPANEL_API_URL" default:"https://api.mixpanel.com"`
	MixpanelToken  string `envconfig:"MIXPANEL_TOKEN"`

	// Optional Supabase mirror for uploaded images and record backups.
	SupabaseURL           string `envconfig:"SUPABASE_URL"`
	SupabaseKey           string `envconfig:"SUPABASE_PUBLISHABLE_KEY"`
	SupabaseStorageBucket string `envconfig:"SUPABASE_STORAGE_BUCKET" default:"face-images"`

	SessionJWTSecret string `envconfig:"SESSION_JWT_SECRET" required:"true"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if c.PaymentAPIBaseURL == "" {
		c.PaymentAPIBaseURL = c.SajuAPIBaseURL
	}
	return &c, nil
}

// MirrorEnabled reports whether the Supabase mirror is configured.
func (c *Config) MirrorEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}
