package voice

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected provider openai, got %s", cfg.Provider)
	}

	if cfg.InputSampleRate != 24000 {
		t.Errorf("expected input sample rate 24000, got %d", cfg.InputSampleRate)
	}

	if cfg.OutputSampleRate != 24000 {
		t.Errorf("expected output sample rate 24000, got %d", cfg.OutputSampleRate)
	}

	if cfg.VADThreshold != 0.5 {
		t.Errorf("expected VAD threshold 0.5, got %f", cfg.VADThreshold)
	}

	if cfg.VADSilenceDuration != 500*time.Millisecond {
		t.Errorf("expected VAD silence 500ms, got %v", cfg.VADSilenceDuration)
	}
}

func TestDefaultGeminiConfig(t *testing.T) {
	cfg := DefaultGeminiConfig()

	if cfg.Provider != ProviderGemini {
		t.Errorf("expected provider gemini, got %s", cfg.Provider)
	}

	if cfg.InputSampleRate != 16000 {
		t.Errorf("expected input sample rate 16000, got %d", cfg.InputSampleRate)
	}

	if cfg.OutputSampleRate != 24000 {
		t.Errorf("expected output sample rate 24000, got %d", cfg.OutputSampleRate)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid openai config",
			config: Config{
				Provider:  ProviderOpenAI,
				OpenAIKey: "test-key",
			},
			wantErr: false,
		},
		{
			name: "missing openai key",
			config: Config{
				Provider: ProviderOpenAI,
			},
			wantErr: true,
		},
		{
			name: "valid gemini config",
			config: Config{
				Provider:     ProviderGemini,
				GoogleAPIKey: "test-key",
			},
			wantErr: false,
		},
		{
			name: "missing google key",
			config: Config{
				Provider: ProviderGemini,
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			config: Config{
				Provider: Provider("livekit"),
			},
			wantErr: true,
		},
		{
			name: "invalid vad threshold too low",
			config: Config{
				Provider:     ProviderOpenAI,
				OpenAIKey:    "test-key",
				VADThreshold: -0.1,
			},
			wantErr: true,
		},
		{
			name: "invalid vad threshold too high",
			config: Config{
				Provider:     ProviderOpenAI,
				OpenAIKey:    "test-key",
				VADThreshold: 1.5,
			},
			wantErr: true,
		},
		{
			name: "invalid llm temperature",
			config: Config{
				Provider:       ProviderOpenAI,
				OpenAIKey:      "test-key",
				LLMTemperature: 3.0,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigWithMethods(t *testing.T) {
	cfg := DefaultConfig()

	cfg = cfg.WithProvider(ProviderGemini)
	if cfg.Provider != ProviderGemini {
		t.Errorf("WithProvider did not set provider, got %s", cfg.Provider)
	}

	cfg = cfg.WithSystemPrompt("You are a test bot")
	if cfg.SystemPrompt != "You are a test bot" {
		t.Errorf("WithSystemPrompt did not set prompt")
	}

	cfg = cfg.WithVoice("alloy")
	if cfg.TTSVoice != "alloy" {
		t.Errorf("WithVoice did not set voice, got %s", cfg.TTSVoice)
	}

	cfg = cfg.WithVAD(0.7, 300*time.Millisecond)
	if cfg.VADThreshold != 0.7 {
		t.Errorf("WithVAD did not set threshold, got %f", cfg.VADThreshold)
	}
	if cfg.VADSilenceDuration != 300*time.Millisecond {
		t.Errorf("WithVAD did not set silence duration")
	}

	cfg = cfg.WithDebug(true)
	if !cfg.Debug {
		t.Errorf("WithDebug did not set debug flag")
	}
}

func TestNew_NoFactoryRegistered(t *testing.T) {
	// The bundled providers are not imported by this package's tests,
	// so a valid config should still fail factory lookup.
	_, err := New(Config{Provider: ProviderOpenAI, OpenAIKey: "k"})
	if err == nil {
		t.Error("expected error when no factory is registered")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	Register(Provider("fake"), func(cfg Config) (Pipeline, error) {
		t.Error("factory should not be called for invalid config")
		return nil, nil
	})

	// Validate rejects the unknown provider before the factory lookup.
	_, err := New(Config{Provider: Provider("fake")})
	if err == nil {
		t.Error("expected validation error for unknown provider")
	}
}

func TestMetricsCollector(t *testing.T) {
	mc := NewMetricsCollector()

	// Simulate a conversation turn
	mc.MarkSpeechEnd()
	time.Sleep(10 * time.Millisecond)
	mc.MarkTranscript()
	time.Sleep(10 * time.Millisecond)
	mc.MarkFirstToken()
	time.Sleep(10 * time.Millisecond)
	mc.MarkFirstAudio()
	time.Sleep(10 * time.Millisecond)
	mc.MarkResponseDone()

	metrics := mc.Current()

	if metrics.ASRLatency <= 0 {
		t.Errorf("expected positive ASR latency, got %v", metrics.ASRLatency)
	}

	if metrics.LLMFirstToken <= metrics.ASRLatency {
		t.Errorf("expected LLM latency > ASR latency, got %v <= %v",
			metrics.LLMFirstToken, metrics.ASRLatency)
	}

	if metrics.TotalLatency <= 0 {
		t.Errorf("expected positive total latency, got %v", metrics.TotalLatency)
	}
}

func TestMetricsCollector_Average(t *testing.T) {
	mc := NewMetricsCollector()

	for i := 0; i < 3; i++ {
		mc.MarkSpeechEnd()
		time.Sleep(5 * time.Millisecond)
		mc.MarkResponseDone()
	}

	avg := mc.Average()
	if avg.TotalLatency <= 0 {
		t.Errorf("expected positive average total latency, got %v", avg.TotalLatency)
	}
}

func TestMetricsFormatLatency(t *testing.T) {
	m := Metrics{
		VADLatency:    50 * time.Millisecond,
		ASRLatency:    120 * time.Millisecond,
		LLMFirstToken: 320 * time.Millisecond,
		TTSFirstAudio: 400 * time.Millisecond,
		TotalLatency:  500 * time.Millisecond,
	}

	formatted := m.FormatLatency()
	if formatted == "" {
		t.Error("FormatLatency returned empty string")
	}
}

func TestToolStruct(t *testing.T) {
	tool := Tool{
		Name:        "test_tool",
		Description: "A test tool",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"input": map[string]any{"type": "string"},
			},
		},
		Handler: func(args map[string]any) (string, error) {
			return "result", nil
		},
	}

	if tool.Name != "test_tool" {
		t.Errorf("expected name test_tool, got %s", tool.Name)
	}

	result, err := tool.Handler(nil)
	if err != nil {
		t.Errorf("handler returned error: %v", err)
	}
	if result != "result" {
		t.Errorf("expected result 'result', got '%s'", result)
	}
}

func TestCallbacks(t *testing.T) {
	var audioReceived bool
	var speechStarted bool
	var speechEnded bool
	var transcriptReceived bool
	var responseReceived bool
	var toolCalled bool
	var errorReceived bool

	callbacks := Callbacks{
		OnAudioOut:    func(pcm16 []byte) { audioReceived = true },
		OnSpeechStart: func() { speechStarted = true },
		OnSpeechEnd:   func() { speechEnded = true },
		OnTranscript:  func(text string, isFinal bool) { transcriptReceived = true },
		OnResponse:    func(text string, isFinal bool) { responseReceived = true },
		OnToolCall:    func(call ToolCall) { toolCalled = true },
		OnError:       func(err error) { errorReceived = true },
	}

	callbacks.OnAudioOut([]byte{1, 2, 3})
	callbacks.OnSpeechStart()
	callbacks.OnSpeechEnd()
	callbacks.OnTranscript("hello", true)
	callbacks.OnResponse("hi", false)
	callbacks.OnToolCall(ToolCall{ID: "1", Name: "test"})
	callbacks.OnError(nil)

	if !audioReceived {
		t.Error("OnAudioOut callback not invoked")
	}
	if !speechStarted {
		t.Error("OnSpeechStart callback not invoked")
	}
	if !speechEnded {
		t.Error("OnSpeechEnd callback not invoked")
	}
	if !transcriptReceived {
		t.Error("OnTranscript callback not invoked")
	}
	if !responseReceived {
		t.Error("OnResponse callback not invoked")
	}
	if !toolCalled {
		t.Error("OnToolCall callback not invoked")
	}
	if !errorReceived {
		t.Error("OnError callback not invoked")
	}
}
