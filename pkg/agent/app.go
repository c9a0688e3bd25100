package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/murmurlabs/voicebots/internal/log"
	"github.com/murmurlabs/voicebots/pkg/audio"
	"github.com/murmurlabs/voicebots/pkg/voice"
	_ "github.com/murmurlabs/voicebots/pkg/voice/bundled" // Register voice providers
	"github.com/murmurlabs/voicebots/pkg/web"
	"github.com/murmurlabs/voicebots/pkg/wellness"
)

// Audio on the dashboard socket is 48kHz mono PCM16 in both directions.
const dashboardSampleRate = 48000

// metricsSnapshot is what /api/metrics serves: pipeline latency plus the
// current microphone level.
type metricsSnapshot struct {
	voice.Metrics
	InputLevel float64 `json:"input_level"`
}

// App runs one voice agent: a pipeline configured with a profile's
// instructions and tools, plus the local web dashboard.
type App struct {
	config    Config
	profile   Profile
	sessionID string

	pipeline  voice.Pipeline
	webServer *web.Server

	// Journal export, wired only for the wellness agent.
	journal  *wellness.Journal
	exporter *wellness.DocsExporter

	// State
	speaking   bool
	speakingMu sync.Mutex

	// Microphone level from the dashboard, for /api/metrics
	inputLevel   float64
	inputLevelMu sync.Mutex

	// Response tracking
	responseStarted bool
	currentResponse string
}

// New creates an agent application from config and a profile.
func New(cfg Config, profile Profile) (*App, error) {
	cfg.LoadEnvConfig()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &App{
		config:    cfg,
		profile:   profile,
		sessionID: uuid.NewString(),
	}, nil
}

// EnableJournalExport wires the journal and Docs exporter into the dashboard
// export endpoints. Call before Init.
func (a *App) EnableJournalExport(journal *wellness.Journal, exporter *wellness.DocsExporter) {
	a.journal = journal
	a.exporter = exporter
}

// Init starts the dashboard and connects the voice pipeline.
// Call this after New() and before Run().
func (a *App) Init(ctx context.Context) error {
	log.Info("starting agent", "agent", a.profile.Name, "session", a.sessionID, "provider", a.config.Provider)

	a.initDashboard()

	if err := a.connectPipeline(ctx); err != nil {
		return fmt.Errorf("voice pipeline: %w", err)
	}

	// Wait for pipeline ready
	for i := 0; i < 50; i++ {
		if a.pipeline.IsConnected() {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	return nil
}

// Run blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	log.Info("agent listening", "dashboard", "http://localhost:"+a.config.DashboardPort)

	a.webServer.UpdateState(func(s *web.AgentState) {
		s.Agent = a.profile.Name
		s.Provider = a.config.Provider
		s.SessionID = a.sessionID
		s.PipelineConnected = a.pipeline.IsConnected()
		s.Listening = true
	})
	a.webServer.AddLog("info", "Agent "+a.profile.Name+" started")
	a.refreshDetail()

	<-ctx.Done()
	return nil
}

// Shutdown gracefully stops the pipeline and dashboard.
func (a *App) Shutdown() {
	log.Info("shutting down", "agent", a.profile.Name)

	if a.pipeline != nil {
		a.pipeline.Stop()
	}
	if a.webServer != nil {
		a.webServer.Shutdown()
	}
}

// initDashboard creates the web server and wires its callbacks.
func (a *App) initDashboard() {
	srv := web.NewServer(a.config.DashboardPort)

	tools := make([]web.ToolInfo, 0, len(a.profile.Tools))
	for _, t := range a.profile.Tools {
		tools = append(tools, web.ToolInfo{Name: t.Name, Description: t.Description})
	}
	srv.SetTools(tools)

	srv.OnToolTrigger = func(name string, args map[string]any) (string, error) {
		tool := a.profile.FindTool(name)
		if tool == nil {
			return "", fmt.Errorf("tool not found: %s", name)
		}
		result, err := tool.Handler(args)
		a.refreshDetail()
		return result, err
	}

	srv.OnAudioIn = func(pcm16 []byte) {
		if a.pipeline == nil || !a.pipeline.IsConnected() {
			return
		}

		samples := audio.BytesToSamples(pcm16)

		a.inputLevelMu.Lock()
		a.inputLevel = audio.RMS(samples)
		a.inputLevelMu.Unlock()

		inputRate := a.pipeline.Config().InputSampleRate
		resampled := audio.SamplesToBytes(audio.Resample(samples, dashboardSampleRate, inputRate))
		if err := a.pipeline.SendAudio(resampled); err != nil {
			log.Debug("send audio failed", "error", err)
		}
	}

	srv.OnMetrics = func() any {
		var m voice.Metrics
		if a.pipeline != nil {
			m = a.pipeline.Metrics()
		}

		a.inputLevelMu.Lock()
		level := a.inputLevel
		a.inputLevelMu.Unlock()

		return metricsSnapshot{Metrics: m, InputLevel: level}
	}

	if a.exporter != nil {
		srv.OnExportStatus = func() any {
			return a.exporter.Status()
		}
		srv.OnExportCallback = a.exporter.HandleCallback
		srv.OnExportDisconnect = a.exporter.Disconnect
		srv.OnExport = func() (string, error) {
			docID, err := a.exporter.ExportJournal("Wellness Journal", a.journal.Entries())
			if err != nil {
				return "", err
			}
			return wellness.DocURL(docID), nil
		}
	}

	srv.StartAsync()
	a.webServer = srv
}

// connectPipeline builds and starts the voice pipeline for this profile.
func (a *App) connectPipeline(ctx context.Context) error {
	voiceCfg := a.config.ToVoiceConfig()
	voiceCfg.SystemPrompt = a.profile.Instructions
	if a.config.TTSVoice == "" && a.profile.Voice != "" {
		voiceCfg.TTSVoice = a.profile.Voice
	}

	pipeline, err := voice.New(voiceCfg)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	a.pipeline = pipeline

	for _, tool := range a.profile.Tools {
		pipeline.RegisterTool(voice.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
			Handler:     tool.Handler,
		})
	}

	outputRate := voiceCfg.OutputSampleRate
	if outputRate == 0 {
		outputRate = 24000
	}

	pipeline.OnAudioOut(func(pcm16 []byte) {
		if a.webServer.AudioClientCount() == 0 {
			return
		}
		a.webServer.SendAudio(audio.ResampleBytes(pcm16, outputRate, dashboardSampleRate))
	})

	pipeline.OnSpeechStart(func() {
		// User started speaking - interrupt if the agent is talking
		a.speakingMu.Lock()
		interrupted := a.speaking
		a.speaking = false
		a.speakingMu.Unlock()

		if interrupted {
			log.Debug("barge-in, interrupting response")
			pipeline.Interrupt()
		}

		a.webServer.UpdateState(func(s *web.AgentState) {
			s.Listening = true
			s.Speaking = false
		})
	})

	pipeline.OnTranscript(func(text string, isFinal bool) {
		if !isFinal || text == "" {
			return
		}
		log.Info("user said", "text", text)
		a.responseStarted = false
		a.webServer.UpdateState(func(s *web.AgentState) {
			s.LastUserMessage = text
			s.Listening = true
			s.Speaking = false
		})
		a.webServer.AddConversation("user", text)
	})

	pipeline.OnResponse(func(text string, isFinal bool) {
		if !isFinal && text != "" {
			if !a.responseStarted {
				a.responseStarted = true
				a.currentResponse = ""
				a.speakingMu.Lock()
				a.speaking = true
				a.speakingMu.Unlock()
			}
			a.currentResponse += text
			return
		}
		if isFinal {
			a.responseStarted = false
			if a.currentResponse != "" {
				log.Info("agent said", "text", a.currentResponse)
				a.webServer.UpdateState(func(s *web.AgentState) {
					s.Speaking = true
					s.Listening = false
					s.LastAgentMessage = a.currentResponse
				})
				a.webServer.AddConversation("agent", a.currentResponse)
				a.currentResponse = ""
			}
			a.refreshDetail()
		}
	})

	pipeline.OnToolCall(func(call voice.ToolCall) {
		log.Info("tool call", "tool", call.Name)
		a.webServer.AddLog("tool", "Model called "+call.Name)
	})

	pipeline.OnError(func(err error) {
		log.Error("pipeline error", "error", err)
		a.webServer.AddLog("error", err.Error())
	})

	return pipeline.Start(ctx)
}

// refreshDetail pushes the profile's agent-specific state to the dashboard.
func (a *App) refreshDetail() {
	if a.profile.Detail == nil {
		return
	}
	detail := a.profile.Detail()
	a.webServer.UpdateState(func(s *web.AgentState) {
		s.Detail = detail
	})
}
