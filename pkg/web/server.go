// Package web provides a local real-time dashboard for a running voice agent:
// status and conversation over REST, live logs and raw PCM16 audio over
// websockets.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/murmurlabs/voicebots/internal/log"
	"github.com/murmurlabs/voicebots/pkg/hub"
)

// AgentState is the dashboard's view of the running agent.
type AgentState struct {
	Agent             string         `json:"agent"`
	Provider          string         `json:"provider"`
	SessionID         string         `json:"session_id"`
	PipelineConnected bool           `json:"pipeline_connected"`
	Listening         bool           `json:"listening"`
	Speaking          bool           `json:"speaking"`
	LastUserMessage   string         `json:"last_user_message"`
	LastAgentMessage  string         `json:"last_agent_message"`
	Detail            map[string]any `json:"detail,omitempty"` // agent-specific (current order, last check-in)
}

// LogEntry represents a log line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, tool, speech, error
	Message string `json:"message"`
}

// ConversationEntry represents a message in the conversation
type ConversationEntry struct {
	Time    string `json:"time"`
	Role    string `json:"role"` // user, agent, tool
	Message string `json:"message"`
}

// ToolInfo describes an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server is the web dashboard server
type Server struct {
	app  *fiber.App
	port string

	// State
	state   AgentState
	stateMu sync.RWMutex

	// Log buffer (last 500 entries)
	logs   []LogEntry
	logsMu sync.RWMutex

	// Conversation buffer
	conversation   []ConversationEntry
	conversationMu sync.RWMutex

	// Registered tools, for listing and manual triggering
	tools   []ToolInfo
	toolsMu sync.RWMutex

	// Hubs for websocket broadcast
	statusHub *hub.Hub
	logHub    *hub.Hub
	audioHub  *hub.Hub

	// Tool trigger callback
	OnToolTrigger func(name string, args map[string]any) (string, error)

	// Microphone audio from the dashboard (48kHz mono PCM16)
	OnAudioIn func(pcm16 []byte)

	// Latency metrics snapshot
	OnMetrics func() any

	// Journal export wiring (wellness agent only; nil otherwise)
	OnExportStatus     func() any
	OnExportCallback   func(code string) error
	OnExportDisconnect func() error
	OnExport           func() (url string, err error)
}

// NewServer creates a new web dashboard server
func NewServer(port string) *Server {
	s := &Server{
		port:         port,
		logs:         make([]LogEntry, 0, 500),
		conversation: make([]ConversationEntry, 0, 100),
		statusHub:    hub.New("status"),
		logHub:       hub.New("logs"),
		audioHub:     hub.New("audio"),
	}

	// Inbound frames on the audio socket are microphone audio
	s.audioHub.OnMessage(func(msg hub.Message) {
		if msg.Type == hub.BinaryMessage && s.OnAudioIn != nil {
			s.OnAudioIn(msg.Data)
		}
	})

	app := fiber.New(fiber.Config{
		AppName:               "Voicebots Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/metrics", s.handleMetrics)
	api.Get("/tools", s.handleListTools)
	api.Post("/tools/:name", s.handleTriggerTool)
	api.Get("/logs", s.handleGetLogs)
	api.Get("/conversation", s.handleGetConversation)
	api.Get("/export/status", s.handleExportStatus)
	api.Get("/export/callback", s.handleExportCallback)
	api.Post("/export/disconnect", s.handleExportDisconnect)
	api.Post("/export", s.handleExport)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/audio", websocket.New(s.handleAudioWS))

	s.app = app
	return s
}

// Start starts the web server
func (s *Server) Start() error {
	log.Info("web dashboard listening", "url", "http://localhost:"+s.port)

	go s.statusHub.Run()
	go s.logHub.Run()
	go s.audioHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()
}

// SetTools registers the tool list shown by the dashboard
func (s *Server) SetTools(tools []ToolInfo) {
	s.toolsMu.Lock()
	s.tools = tools
	s.toolsMu.Unlock()
}

// UpdateState updates the agent state and broadcasts to clients
func (s *Server) UpdateState(update func(*AgentState)) {
	s.stateMu.Lock()
	update(&s.state)
	state := s.state // Copy for broadcast
	s.stateMu.Unlock()

	s.statusHub.BroadcastJSON(state)
}

// AddLog adds a log entry and broadcasts to clients
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > 500 {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// AddConversation adds a conversation entry
func (s *Server) AddConversation(role, message string) {
	entry := ConversationEntry{
		Time:    time.Now().Format("15:04:05"),
		Role:    role,
		Message: message,
	}

	s.conversationMu.Lock()
	s.conversation = append(s.conversation, entry)
	if len(s.conversation) > 100 {
		s.conversation = s.conversation[1:]
	}
	s.conversationMu.Unlock()
}

// SendAudio broadcasts synthesized audio to connected dashboard clients
func (s *Server) SendAudio(pcm16 []byte) {
	s.audioHub.BroadcastBinary(pcm16)
}

// AudioClientCount returns the number of connected audio clients
func (s *Server) AudioClientCount() int {
	return s.audioHub.ClientCount()
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
