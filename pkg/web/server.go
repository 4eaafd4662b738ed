// Package web serves the monitoring dashboard: loop status, the alert feed,
// the annotated camera feed, operator commands and camera settings.
package web

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/teslashibe/facewatch/internal/log"
	"github.com/teslashibe/facewatch/pkg/alert"
	"github.com/teslashibe/facewatch/pkg/camera"
	"github.com/teslashibe/facewatch/pkg/hub"
	"github.com/teslashibe/facewatch/pkg/monitor"
	"github.com/teslashibe/facewatch/pkg/render"
)

// maxAlerts is how many alert entries the dashboard keeps.
const maxAlerts = 200

// Loop is the part of the monitor controller the dashboard drives.
type Loop interface {
	Status() monitor.Status
	Submit(cmd monitor.Command) bool
}

// Config holds dashboard settings.
type Config struct {
	Addr        string `yaml:"addr"`
	StaticDir   string `yaml:"static_dir"`
	JPEGQuality int    `yaml:"jpeg_quality"`
}

// DefaultConfig returns the local-only dashboard defaults.
func DefaultConfig() Config {
	return Config{
		Addr:        "127.0.0.1:8080",
		JPEGQuality: render.DefaultJPEGQuality,
	}
}

// AlertEntry is one alert as shown on the dashboard.
type AlertEntry struct {
	ID         string     `json:"id"`
	Kind       alert.Kind `json:"kind"`
	At         time.Time  `json:"at"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Similarity float64    `json:"similarity,omitempty"`
}

// Server is the dashboard HTTP server. It implements monitor.Observer.
type Server struct {
	app    *fiber.App
	config Config
	logger *slog.Logger

	loop    Loop
	cameras *camera.Manager

	alerts   []AlertEntry
	alertsMu sync.RWMutex

	statusHub *hub.Hub
	alertHub  *hub.Hub
	cameraHub *hub.Hub

	encodeErrors int
}

// NewServer creates a dashboard for loop. cameras may be nil, in which case
// the camera settings endpoints report 404.
func NewServer(cfg Config, loop Loop, cameras *camera.Manager) *Server {
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = render.DefaultJPEGQuality
	}
	s := &Server{
		config:    cfg,
		logger:    log.With("component", "web"),
		loop:      loop,
		cameras:   cameras,
		alerts:    make([]AlertEntry, 0, maxAlerts),
		statusHub: hub.New("status"),
		alertHub:  hub.New("alerts"),
		cameraHub: hub.New("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "facewatch",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/alerts", s.handleAlerts)
	api.Post("/commands/:name", s.handleCommand)
	api.Get("/camera", s.handleGetCamera)
	api.Put("/camera", s.handlePutCamera)
	api.Get("/camera/presets", s.handlePresets)
	api.Post("/camera/presets/:name", s.handleApplyPreset)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/alerts", websocket.New(s.handleAlertsWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the hubs and serves until the listener fails or Shutdown is
// called. The hubs stop when ctx is done.
func (s *Server) Start(ctx context.Context) error {
	go s.statusHub.Run(ctx)
	go s.alertHub.Run(ctx)
	go s.cameraHub.Run(ctx)

	s.logger.Info("dashboard listening", "addr", "http://"+s.config.Addr)
	return s.app.Listen(s.config.Addr)
}

// StartAsync runs Start in a goroutine and logs its failure.
func (s *Server) StartAsync(ctx context.Context) {
	go func() {
		if err := s.Start(ctx); err != nil {
			s.logger.Error("dashboard stopped", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// OnStatus broadcasts a loop snapshot.
func (s *Server) OnStatus(st monitor.Status) {
	if s.statusHub.ClientCount() == 0 {
		return
	}
	if err := s.statusHub.BroadcastJSON(st); err != nil {
		s.logger.Warn("encode status", "error", err)
	}
}

// OnFrame streams the annotated frame. Frames are only encoded while a
// camera client is connected.
func (s *Server) OnFrame(annotated gocv.Mat) {
	if s.cameraHub.ClientCount() == 0 {
		return
	}
	data, err := render.EncodeJPEG(annotated, s.config.JPEGQuality)
	if err != nil {
		s.encodeErrors++
		if s.encodeErrors == 1 || s.encodeErrors%100 == 0 {
			s.logger.Warn("encode camera frame", "error", err, "failures", s.encodeErrors)
		}
		return
	}
	s.cameraHub.BroadcastBinary(data)
}

// OnAlert records ev in the alert feed. Register it with
// alert.Dispatcher.AddListener.
func (s *Server) OnAlert(ev alert.Event) {
	n := alert.NotificationFor(ev.Kind)
	entry := AlertEntry{
		ID:         uuid.NewString(),
		Kind:       ev.Kind,
		At:         ev.At,
		Title:      n.Title,
		Message:    n.Message,
		Similarity: ev.Similarity,
	}

	s.alertsMu.Lock()
	defer s.alertsMu.Unlock()
	s.alerts = append(s.alerts, entry)
	if len(s.alerts) > maxAlerts {
		s.alerts = s.alerts[len(s.alerts)-maxAlerts:]
	}
	// broadcast under the lock so subscribeAlerts sees feed and sequence agree
	if err := s.alertHub.BroadcastJSON(entry); err != nil {
		s.logger.Warn("encode alert", "error", err)
	}
}

// subscribeAlerts snapshots the feed and registers conn for every alert
// after it, atomically with respect to OnAlert.
func (s *Server) subscribeAlerts(conn *websocket.Conn) ([]AlertEntry, *hub.Client) {
	s.alertsMu.RLock()
	defer s.alertsMu.RUnlock()
	backlog := make([]AlertEntry, len(s.alerts))
	copy(backlog, s.alerts)
	return backlog, hub.NewClientAfter(s.alertHub, conn, s.alertHub.Seq())
}

// Alerts returns a copy of the alert feed, oldest first.
func (s *Server) Alerts() []AlertEntry {
	s.alertsMu.RLock()
	defer s.alertsMu.RUnlock()
	out := make([]AlertEntry, len(s.alerts))
	copy(out, s.alerts)
	return out
}

var _ monitor.Observer = (*Server)(nil)
