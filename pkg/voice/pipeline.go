package voice

import (
	"context"
	"errors"
	"sync"
)

// Common errors returned by pipelines.
var (
	ErrNotConnected   = errors.New("voice: pipeline not connected")
	ErrAlreadyStarted = errors.New("voice: pipeline already started")
	ErrMissingAPIKey  = errors.New("voice: missing API key")
)

// Pipeline is the interface for a realtime speech-to-speech conversation
// pipeline. Implementations own the provider connection, VAD, transcription,
// response generation and audio synthesis; callers stream PCM16 in and out
// and handle tool calls.
type Pipeline interface {
	// Lifecycle

	// Start establishes the connection and begins processing.
	// Call this after registering tools and setting up callbacks.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the pipeline.
	Stop() error

	// IsConnected returns true if the pipeline is connected and ready.
	IsConnected() bool

	// Audio I/O

	// SendAudio sends mono PCM16 audio at Config().InputSampleRate.
	SendAudio(pcm16 []byte) error

	// OnAudioOut sets the callback for receiving synthesized audio.
	// Audio is mono PCM16 at Config().OutputSampleRate.
	OnAudioOut(fn func(pcm16 []byte))

	// Events

	// OnSpeechStart is called when the user starts speaking.
	OnSpeechStart(fn func())

	// OnSpeechEnd is called when the user stops speaking.
	OnSpeechEnd(fn func())

	// OnTranscript is called with the user's transcribed speech.
	// isFinal indicates whether this is the final transcript.
	OnTranscript(fn func(text string, isFinal bool))

	// OnResponse is called with the assistant's text response.
	// isFinal indicates whether this is the final response.
	OnResponse(fn func(text string, isFinal bool))

	// OnError is called when an error occurs.
	OnError(fn func(err error))

	// Tools

	// RegisterTool adds a tool that the model can invoke.
	// Must be called before Start().
	RegisterTool(tool Tool)

	// OnToolCall sets an observer for tool invocations. Registered tool
	// handlers still run; the observer is for logging and dashboards.
	OnToolCall(fn func(call ToolCall))

	// SubmitToolResult returns a tool call result to the model.
	// Only needed for tools registered without a Handler.
	SubmitToolResult(callID string, result string) error

	// Control

	// Interrupt stops the current response (for barge-in).
	Interrupt() error

	// Metrics & Config

	// Metrics returns latency metrics for the current turn.
	Metrics() Metrics

	// Config returns the current configuration.
	Config() Config

	// UpdateConfig applies new configuration settings.
	// Some settings may require a reconnect to take effect.
	UpdateConfig(cfg Config) error
}

// PipelineFactory is a function that creates a Pipeline.
type PipelineFactory func(cfg Config) (Pipeline, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[Provider]PipelineFactory)
)

// Register makes a pipeline factory available under the given provider.
// Bundled implementations call this from init().
func Register(p Provider, f PipelineFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[p] = f
}

// New creates a Pipeline for cfg.Provider.
// Returns an error if the config is invalid or the provider is unknown.
func New(cfg Config) (Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, errors.New("voice: no pipeline registered for provider " + string(cfg.Provider))
	}

	return f(cfg)
}

// Callbacks groups all pipeline callbacks for convenience.
// This can be used to set up all callbacks at once.
type Callbacks struct {
	OnAudioOut    func(pcm16 []byte)
	OnSpeechStart func()
	OnSpeechEnd   func()
	OnTranscript  func(text string, isFinal bool)
	OnResponse    func(text string, isFinal bool)
	OnToolCall    func(call ToolCall)
	OnError       func(err error)
}

// Apply sets all callbacks on a pipeline.
func (c *Callbacks) Apply(p Pipeline) {
	if c.OnAudioOut != nil {
		p.OnAudioOut(c.OnAudioOut)
	}
	if c.OnSpeechStart != nil {
		p.OnSpeechStart(c.OnSpeechStart)
	}
	if c.OnSpeechEnd != nil {
		p.OnSpeechEnd(c.OnSpeechEnd)
	}
	if c.OnTranscript != nil {
		p.OnTranscript(c.OnTranscript)
	}
	if c.OnResponse != nil {
		p.OnResponse(c.OnResponse)
	}
	if c.OnToolCall != nil {
		p.OnToolCall(c.OnToolCall)
	}
	if c.OnError != nil {
		p.OnError(c.OnError)
	}
}
