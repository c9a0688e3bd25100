package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/murmurlabs/voicebots/internal/log"
	"github.com/murmurlabs/voicebots/pkg/hub"
)

// handleStatus returns the agent's current state
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(s.state)
}

// handleMetrics returns the latest latency metrics snapshot
func (s *Server) handleMetrics(c *fiber.Ctx) error {
	if s.OnMetrics == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "metrics not available",
		})
	}
	return c.JSON(s.OnMetrics())
}

// handleListTools returns the tools registered with the agent
func (s *Server) handleListTools(c *fiber.Ctx) error {
	s.toolsMu.RLock()
	defer s.toolsMu.RUnlock()
	return c.JSON(fiber.Map{"tools": s.tools})
}

// handleTriggerTool triggers a tool manually from the dashboard
func (s *Server) handleTriggerTool(c *fiber.Ctx) error {
	name := c.Params("name")

	if s.OnToolTrigger == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "tool execution not wired up",
		})
	}

	var args map[string]any
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&args); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON body: " + err.Error(),
			})
		}
	}

	result, err := s.OnToolTrigger(name, args)
	if err != nil {
		s.AddLog("error", "Tool "+name+" failed: "+err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	s.AddLog("tool", "Triggered "+name+" from dashboard")
	return c.JSON(fiber.Map{
		"status": "ok",
		"tool":   name,
		"result": result,
	})
}

// handleGetLogs returns recent log entries
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(fiber.Map{"logs": s.logs})
}

// handleGetConversation returns the conversation history
func (s *Server) handleGetConversation(c *fiber.Ctx) error {
	s.conversationMu.RLock()
	defer s.conversationMu.RUnlock()
	return c.JSON(fiber.Map{"conversation": s.conversation})
}

// handleExportStatus reports whether a journal export destination is connected
func (s *Server) handleExportStatus(c *fiber.Ctx) error {
	if s.OnExportStatus == nil {
		return c.JSON(fiber.Map{"available": false})
	}
	return c.JSON(s.OnExportStatus())
}

// handleExportCallback completes the OAuth flow for the export destination
func (s *Server) handleExportCallback(c *fiber.Ctx) error {
	if s.OnExportCallback == nil {
		return c.Status(fiber.StatusNotFound).SendString("export not configured")
	}

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).SendString("missing code parameter")
	}

	if err := s.OnExportCallback(code); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("authorization failed: " + err.Error())
	}

	s.AddLog("info", "Export destination connected")
	return c.SendString("Connected. You can close this tab and return to the dashboard.")
}

// handleExportDisconnect removes the stored export credentials
func (s *Server) handleExportDisconnect(c *fiber.Ctx) error {
	if s.OnExportDisconnect == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "export not configured"})
	}
	if err := s.OnExportDisconnect(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "disconnected"})
}

// handleExport exports the journal and returns the document URL
func (s *Server) handleExport(c *fiber.Ctx) error {
	if s.OnExport == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "export not configured"})
	}

	url, err := s.OnExport()
	if err != nil {
		s.AddLog("error", "Journal export failed: "+err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	s.AddLog("info", "Journal exported to "+url)
	return c.JSON(fiber.Map{"status": "ok", "url": url})
}

// handleLogsWS streams log entries over websocket
func (s *Server) handleLogsWS(c *websocket.Conn) {
	log.Debug("log client connected", "remote", c.RemoteAddr().String())

	client := hub.NewClient(s.logHub, c)

	// Replay recent history so a fresh dashboard isn't blank
	s.logsMu.RLock()
	for _, entry := range s.logs {
		c.WriteJSON(entry)
	}
	s.logsMu.RUnlock()

	client.Run() // Blocks until disconnect
}

// handleStatusWS streams agent state updates over websocket
func (s *Server) handleStatusWS(c *websocket.Conn) {
	log.Debug("status client connected", "remote", c.RemoteAddr().String())

	client := hub.NewClient(s.statusHub, c)

	// Send current state immediately
	s.stateMu.RLock()
	c.WriteJSON(s.state)
	s.stateMu.RUnlock()

	client.Run()
}

// handleAudioWS carries audio in both directions: synthesized speech out to
// the dashboard, microphone PCM16 frames in from it.
func (s *Server) handleAudioWS(c *websocket.Conn) {
	log.Debug("audio client connected", "remote", c.RemoteAddr().String())

	client := hub.NewClient(s.audioHub, c)
	client.Run()
}
