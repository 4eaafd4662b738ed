package web

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/facewatch/pkg/camera"
	"github.com/teslashibe/facewatch/pkg/hub"
	"github.com/teslashibe/facewatch/pkg/monitor"
)

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.loop.Status())
}

func (s *Server) handleAlerts(c *fiber.Ctx) error {
	return c.JSON(s.Alerts())
}

// handleCommand queues quit or reset on the loop.
func (s *Server) handleCommand(c *fiber.Ctx) error {
	name := c.Params("name")
	cmd, ok := monitor.ParseCommand(name)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown command: " + name,
		})
	}
	if !s.loop.Submit(cmd) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "command queue full",
		})
	}

	s.logger.Info("command from dashboard", "command", cmd, "remote", c.IP())
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"command": cmd.String(),
	})
}

func (s *Server) handleGetCamera(c *fiber.Ctx) error {
	if s.cameras == nil {
		return fiber.ErrNotFound
	}
	return c.JSON(s.cameras.GetConfig())
}

// handlePutCamera applies a partial update. The body is a JSON object of
// camera fields, optionally with "preset".
func (s *Server) handlePutCamera(c *fiber.Ctx) error {
	if s.cameras == nil {
		return fiber.ErrNotFound
	}

	var params map[string]any
	if err := json.Unmarshal(c.Body(), &params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON body",
		})
	}

	if err := s.cameras.UpdateConfig(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(s.cameras.GetConfig())
}

func (s *Server) handlePresets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"names":   camera.PresetNames(),
		"presets": camera.Presets(),
	})
}

func (s *Server) handleApplyPreset(c *fiber.Ctx) error {
	if s.cameras == nil {
		return fiber.ErrNotFound
	}
	if err := s.cameras.ApplyPreset(c.Params("name")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(s.cameras.GetConfig())
}

// handleStatusWS sends the current snapshot, then live updates.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	if err := c.WriteJSON(s.loop.Status()); err != nil {
		return
	}
	hub.NewClient(s.statusHub, c).Run()
}

// handleAlertsWS replays the alert feed, then streams new alerts.
// The client is registered before the replay is written; alerts raised in
// between queue up behind it instead of being lost.
func (s *Server) handleAlertsWS(c *websocket.Conn) {
	backlog, client := s.subscribeAlerts(c)
	for _, entry := range backlog {
		if err := c.WriteJSON(entry); err != nil {
			client.Close()
			return
		}
	}
	client.Run()
}

func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.cameraHub, c).Run()
}
