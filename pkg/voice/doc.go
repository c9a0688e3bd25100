// Package voice provides a unified interface for realtime voice conversation
// pipelines.
//
// The voice package abstracts different speech-to-speech providers behind a
// common Pipeline interface, enabling easy switching between providers and
// consistent latency measurement across all implementations.
//
// # Supported Providers
//
// Two providers are bundled, each offering different tradeoffs:
//
//   - OpenAI Realtime: speech-to-speech with built-in TTS (~300-500ms latency)
//   - Gemini Live: Google's native speech-to-speech API (~150-300ms)
//
// # Usage
//
// Create a pipeline using one of the bundled providers:
//
//	import (
//	    "github.com/murmurlabs/voicebots/pkg/voice"
//	    _ "github.com/murmurlabs/voicebots/pkg/voice/bundled"
//	)
//
//	cfg := voice.DefaultConfig()
//	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
//	cfg.SystemPrompt = "You are a friendly barista..."
//
//	pipeline, err := voice.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Register tools
//	pipeline.RegisterTool(voice.Tool{
//	    Name:        "finalize_order",
//	    Description: "Finalize and save the customer's order",
//	    Handler: func(args map[string]any) (string, error) {
//	        return `{"success": true}`, nil
//	    },
//	})
//
//	// Wire callbacks
//	pipeline.OnAudioOut(func(pcm []byte) {
//	    speaker.Write(pcm)
//	})
//
//	pipeline.OnTranscript(func(text string, final bool) {
//	    fmt.Printf("User said: %s\n", text)
//	})
//
//	// Start the pipeline
//	if err := pipeline.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pipeline.Stop()
//
//	// Stream audio from the capture source
//	for audio := range microphone {
//	    pipeline.SendAudio(audio)
//	}
//
// # Latency Metrics
//
// All pipelines track per-stage latency metrics:
//
//	metrics := pipeline.Metrics()
//	fmt.Println(metrics.FormatLatency())
//
// # Configuration
//
// All pipelines support runtime configuration updates:
//
//	cfg := pipeline.Config()
//	cfg.VADThreshold = 0.8
//	cfg.VADSilenceDuration = 500 * time.Millisecond
//	pipeline.UpdateConfig(cfg)
package voice
