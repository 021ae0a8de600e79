// Package config loads ATRA configuration from the environment, with an
// optional .env file for development.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"
)

// Config holds all application configuration.
type Config struct {
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Generation vendors
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	VideoModel      string `envconfig:"ATRA_VIDEO_MODEL" default:"sora-2"`

	// Cloudinary CDN
	CloudinaryCloudName string `envconfig:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `envconfig:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `envconfig:"CLOUDINARY_API_SECRET"`

	// Google Sheets run log
	SheetsCredentialsPath string `envconfig:"GOOGLE_SHEETS_CREDENTIALS_PATH"`
	SheetID               string `envconfig:"SHEET_ID"`

	// Make.com dispatch webhook
	MakeWebhookURL string `envconfig:"MAKE_WEBHOOK_URL"`
	MakeAPIKey     string `envconfig:"MAKE_API_KEY"`

	// TikTok direct publishing
	TikTokAccessToken string `envconfig:"TIKTOK_ACCESS_TOKEN"`

	// Local state and output
	MoodHistoryPath string `envconfig:"ATRA_MOOD_HISTORY_PATH" default:"data/mood_history.json"`
	OutputDir       string `envconfig:"ATRA_OUTPUT_DIR" default:"output"`
	VideoOutputDir  string `envconfig:"ATRA_VIDEO_OUTPUT_DIR" default:"output_videos"`

	// Dispatch timing
	DispatchPreDelaySeconds int `envconfig:"ATRA_DISPATCH_PRE_DELAY_SECONDS" default:"15"`
}

// Load reads configuration from a .env file (when present) and environment
// variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Not an error if the file doesn't exist (expected in production)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &config, nil
}

// MissingRequired lists required variables the pipeline cannot run without.
func (c *Config) MissingRequired() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"ANTHROPIC_API_KEY", c.AnthropicAPIKey},
		{"OPENAI_API_KEY", c.OpenAIAPIKey},
		{"CLOUDINARY_CLOUD_NAME", c.CloudinaryCloudName},
		{"CLOUDINARY_API_KEY", c.CloudinaryAPIKey},
		{"CLOUDINARY_API_SECRET", c.CloudinaryAPISecret},
		{"MAKE_WEBHOOK_URL", c.MakeWebhookURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}

// MissingOptional lists variables for best-effort collaborators; runs proceed
// without them at reduced functionality.
func (c *Config) MissingOptional() []string {
	var missing []string
	optional := []struct {
		name  string
		value string
	}{
		{"GOOGLE_SHEETS_CREDENTIALS_PATH", c.SheetsCredentialsPath},
		{"SHEET_ID", c.SheetID},
		{"MAKE_API_KEY", c.MakeAPIKey},
		{"TIKTOK_ACCESS_TOKEN", c.TikTokAccessToken},
	}
	for _, o := range optional {
		if strings.TrimSpace(o.value) == "" {
			missing = append(missing, o.name)
		}
	}
	return missing
}

// Validate fails fast when required credentials are absent.
func (c *Config) Validate() error {
	if missing := c.MissingRequired(); len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DispatchPreDelay returns the CDN propagation wait before the first dispatch
// attempt.
func (c *Config) DispatchPreDelay() time.Duration {
	return time.Duration(c.DispatchPreDelaySeconds) * time.Second
}
