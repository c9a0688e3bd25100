// Package agent wires a voice pipeline, a tool profile and the web dashboard
// into a running assistant.
package agent

import (
	"os"

	"github.com/murmurlabs/voicebots/pkg/voice"
)

// Default configuration values.
const (
	DefaultDashboardPort = "8181"
	DefaultOrdersDir     = "orders"
	DefaultJournalPath   = "wellness_log.json"
)

// Config holds all configuration for an agent process.
// Flag parsing is done in cmd/*/main.go; this struct is data only.
type Config struct {
	// Debug enables verbose debug logging.
	Debug bool

	// Provider selects the voice pipeline: "openai" or "gemini".
	Provider string

	// DashboardPort is the local port for the web dashboard.
	DashboardPort string

	// Storage paths.
	OrdersDir   string // finalized coffee orders (barista agent)
	JournalPath string // wellness log file (wellness agent)

	// TTSVoice overrides the provider's default voice when set.
	TTSVoice string

	// ProfileLatency logs a per-turn latency breakdown.
	ProfileLatency bool

	// API keys (typically from environment variables).
	OpenAIKey    string
	GoogleAPIKey string

	// Google OAuth (for the journal Docs export).
	GoogleClientID     string
	GoogleClientSecret string
}

// DefaultConfig returns sensible defaults for an agent process.
func DefaultConfig() Config {
	return Config{
		Provider:      string(voice.ProviderOpenAI),
		DashboardPort: DefaultDashboardPort,
		OrdersDir:     DefaultOrdersDir,
		JournalPath:   DefaultJournalPath,
	}
}

// LoadEnvConfig loads configuration values from environment variables.
// Call this after flag parsing to apply environment overrides.
func (c *Config) LoadEnvConfig() {
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	c.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	c.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")

	if p := os.Getenv("VOICE_PROVIDER"); p != "" {
		c.Provider = p
	}
	if port := os.Getenv("DASHBOARD_PORT"); port != "" {
		c.DashboardPort = port
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch voice.Provider(c.Provider) {
	case voice.ProviderOpenAI:
		if c.OpenAIKey == "" {
			return &ConfigError{Field: "OpenAIKey", Message: "OPENAI_API_KEY environment variable is required"}
		}
	case voice.ProviderGemini:
		if c.GoogleAPIKey == "" {
			return &ConfigError{Field: "GoogleAPIKey", Message: "GOOGLE_API_KEY environment variable is required"}
		}
	default:
		return &ConfigError{Field: "Provider", Message: "unknown voice provider: " + c.Provider}
	}
	return nil
}

// ToVoiceConfig builds the pipeline configuration for the selected provider.
func (c *Config) ToVoiceConfig() voice.Config {
	var cfg voice.Config
	if voice.Provider(c.Provider) == voice.ProviderGemini {
		cfg = voice.DefaultGeminiConfig()
	} else {
		cfg = voice.DefaultConfig()
	}

	cfg.OpenAIKey = c.OpenAIKey
	cfg.GoogleAPIKey = c.GoogleAPIKey
	cfg.Debug = c.Debug
	cfg.ProfileLatency = c.ProfileLatency

	if c.TTSVoice != "" {
		cfg.TTSVoice = c.TTSVoice
	}

	return cfg
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
