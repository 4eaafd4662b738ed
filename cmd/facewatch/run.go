package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/facewatch/internal/config"
	"github.com/teslashibe/facewatch/internal/log"
	"github.com/teslashibe/facewatch/pkg/alert"
	"github.com/teslashibe/facewatch/pkg/camera"
	"github.com/teslashibe/facewatch/pkg/detection"
	"github.com/teslashibe/facewatch/pkg/identity"
	"github.com/teslashibe/facewatch/pkg/monitor"
	"github.com/teslashibe/facewatch/pkg/render"
	"github.com/teslashibe/facewatch/pkg/web"
)

// alertFlushTimeout bounds how long shutdown waits for pending
// notifications and log appends.
const alertFlushTimeout = 3 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the monitoring loop",
	Long: `Start the monitoring loop. In the window, press 'q' to quit and 'r' to
register a new reference face. With --headless, type q or r followed by
Enter on stdin instead.`,
	RunE: runMonitor,
}

func init() {
	f := runCmd.Flags()
	f.BoolVar(&flags.headless, "headless", false, "Run without a display window")
	f.BoolVar(&flags.dashboard, "dashboard", false, "Serve the web dashboard")
	f.IntVar(&flags.port, "port", 8080, "Dashboard port")
	f.StringVar(&flags.logDir, "log-dir", "", "Directory for detection and verification logs")
	f.Float64Var(&flags.threshold, "threshold", identity.DefaultThreshold, "Similarity at or above which faces match")
	f.BoolVar(&flags.perKindCooldown, "per-kind-cooldown", false, "Throttle missing-face and mismatch alerts independently")
	f.BoolVar(&flags.noNotify, "no-notify", false, "Log alerts instead of showing desktop notifications")
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := appConfig
	if err := cfg.Validate(); err != nil {
		return err
	}

	source, err := openSource(cfg)
	if err != nil {
		return err
	}

	locator, err := detection.New(cfg.Detection)
	if err != nil {
		source.Close()
		return err
	}

	sink, err := alert.NewFileSink(cfg.Alert.LogDir)
	if err != nil {
		source.Close()
		locator.Close()
		return err
	}

	var notifier alert.Notifier = alert.NewLogNotifier()
	if cfg.Alert.Desktop {
		notifier = alert.NewDesktop("facewatch")
	}
	dispatcher := alert.NewDispatcher(notifier, sink, cfg.Alert.NotifyTimeout)

	var surface render.Surface = render.Headless{}
	if !cfg.Headless {
		surface = render.NewWindow(render.DefaultTitle)
	}

	verifier := identity.NewVerifier(cfg.Identity, nil)
	ctrl := monitor.New(cfg.Monitor(), source, locator, verifier, dispatcher, surface)
	logger := log.With("session", ctrl.Session())

	if cfg.Dashboard.Enabled {
		var cameras *camera.Manager
		if cfg.Replay.Dir == "" {
			cameras = camera.NewManager(cfg.Camera)
			cameras.OnConfigChange = ctrl.ReconfigureSource
		}
		srv := web.NewServer(cfg.Dashboard.Config, ctrl, cameras)
		ctrl.AddObserver(srv)
		dispatcher.AddListener(srv.OnAlert)
		srv.StartAsync(ctx)
		defer srv.Shutdown()
	}

	if cfg.Headless {
		go func() {
			if err := monitor.ReadCommands(os.Stdin, ctrl); err != nil {
				logger.Warn("stdin commands stopped", "error", err)
			}
		}()
	}

	logger.Info("facewatch running",
		"source", sourceName(cfg),
		"headless", cfg.Headless,
		"dashboard", cfg.Dashboard.Enabled,
		"log_dir", sink.Dir())

	runErr := ctrl.Run(ctx)

	if !dispatcher.Wait(alertFlushTimeout) {
		logger.Warn("shutdown before all alerts were delivered")
	}
	return runErr
}

func openSource(cfg *config.Config) (camera.Source, error) {
	if cfg.Replay.Dir != "" {
		return camera.OpenReplay(cfg.Replay)
	}
	return camera.Open(cfg.Camera)
}

func sourceName(cfg *config.Config) string {
	if cfg.Replay.Dir != "" {
		return "replay:" + cfg.Replay.Dir
	}
	return fmt.Sprintf("camera:%s", cfg.Camera.Device)
}
