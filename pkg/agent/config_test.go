package agent

import (
	"testing"

	"github.com/murmurlabs/voicebots/pkg/voice"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid openai",
			cfg:     Config{Provider: "openai", OpenAIKey: "sk-test"},
			wantErr: false,
		},
		{
			name:    "openai missing key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "valid gemini",
			cfg:     Config{Provider: "gemini", GoogleAPIKey: "test"},
			wantErr: false,
		},
		{
			name:    "gemini missing key",
			cfg:     Config{Provider: "gemini"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "livekit", OpenAIKey: "sk-test"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if _, ok := err.(*ConfigError); !ok {
					t.Errorf("error type = %T, want *ConfigError", err)
				}
			}
		})
	}
}

func TestToVoiceConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpenAIKey = "sk-test"
	cfg.Debug = true

	vc := cfg.ToVoiceConfig()
	if vc.Provider != voice.ProviderOpenAI {
		t.Errorf("provider = %v, want openai", vc.Provider)
	}
	if vc.InputSampleRate != 24000 {
		t.Errorf("input rate = %d, want 24000", vc.InputSampleRate)
	}
	if !vc.Debug {
		t.Error("debug not propagated")
	}

	cfg.Provider = "gemini"
	cfg.GoogleAPIKey = "test"
	cfg.TTSVoice = "Puck"

	vc = cfg.ToVoiceConfig()
	if vc.Provider != voice.ProviderGemini {
		t.Errorf("provider = %v, want gemini", vc.Provider)
	}
	if vc.InputSampleRate != 16000 {
		t.Errorf("gemini input rate = %d, want 16000", vc.InputSampleRate)
	}
	if vc.TTSVoice != "Puck" {
		t.Errorf("voice = %q, want Puck", vc.TTSVoice)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "openai" {
		t.Errorf("default provider = %q", cfg.Provider)
	}
	if cfg.OrdersDir != "orders" {
		t.Errorf("default orders dir = %q", cfg.OrdersDir)
	}
	if cfg.JournalPath != "wellness_log.json" {
		t.Errorf("default journal path = %q", cfg.JournalPath)
	}
}
