package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teslashibe/facewatch/internal/config"
	"github.com/teslashibe/facewatch/internal/log"
	"github.com/teslashibe/facewatch/pkg/alert"
	"github.com/teslashibe/facewatch/pkg/debug"
)

// Version is the application version.
const Version = "0.3.0"

// flagValues holds command-line overrides. Only flags the user actually set
// are applied over the config file.
type flagValues struct {
	configPath      string
	logLevel        string
	debug           bool
	debugDetections bool
	headless        bool
	dashboard       bool
	port            int
	camera          string
	replayDir       string
	replayLoop      bool
	cascadeDir      string
	logDir          string
	threshold       float64
	perKindCooldown bool
	noNotify        bool
}

var (
	flags     flagValues
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "facewatch",
	Short:   "Face presence and identity continuity monitor",
	Version: Version,
	Long: `facewatch samples a camera, confirms that a face is present, registers the
first confirmed face as the reference and keeps checking that the same person
stays in front of the camera. Missing faces and different people raise desktop
notifications and are appended to log files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional
		_ = godotenv.Load()

		cfg, err := config.Load(flags.configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg)

		log.Init(cfg.LogLevel)
		debug.Enabled = flags.debug
		debug.Detections = flags.debugDetections

		appConfig = cfg
		return nil
	},
}

// Execute runs the CLI with a context cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file (default: ./"+config.DefaultFile+" if present)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.debug, "debug", false, "Trace every loop iteration")
	pf.BoolVar(&flags.debugDetections, "debug-detections", false, "Trace per-profile cascade results (very verbose)")
	pf.StringVar(&flags.camera, "camera", "", "Capture device index or stream URL")
	pf.StringVar(&flags.replayDir, "replay", "", "Read frames from a directory of images instead of a camera")
	pf.BoolVar(&flags.replayLoop, "replay-loop", false, "Restart the replay after the last image")
	pf.StringVar(&flags.cascadeDir, "cascade-dir", "", "Directory with haarcascade_*.xml files")

	rootCmd.AddCommand(runCmd, checkCmd, versionCmd)
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if set("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if flags.debug || flags.debugDetections {
		cfg.LogLevel = "debug"
	}
	if set("camera") {
		cfg.Camera.Device = flags.camera
	}
	if set("replay") {
		cfg.Replay.Dir = flags.replayDir
	}
	if set("replay-loop") {
		cfg.Replay.Loop = flags.replayLoop
	}
	if set("cascade-dir") {
		cfg.Detection.CascadeDir = flags.cascadeDir
	}
	if set("headless") {
		cfg.Headless = flags.headless
	}
	if set("dashboard") {
		cfg.Dashboard.Enabled = flags.dashboard
	}
	if set("port") {
		host, _, err := net.SplitHostPort(cfg.Dashboard.Addr)
		if err != nil {
			host = "127.0.0.1"
		}
		cfg.Dashboard.Addr = net.JoinHostPort(host, strconv.Itoa(flags.port))
	}
	if set("log-dir") {
		cfg.Alert.LogDir = flags.logDir
	}
	if set("threshold") {
		cfg.Identity.Threshold = flags.threshold
	}
	if set("per-kind-cooldown") && flags.perKindCooldown {
		cfg.Alert.Policy = alert.PolicyPerKind
	}
	if set("no-notify") && flags.noNotify {
		cfg.Alert.Desktop = false
	}
}
