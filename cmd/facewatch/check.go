package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/facewatch/internal/config"
	"github.com/teslashibe/facewatch/pkg/alert"
	"github.com/teslashibe/facewatch/pkg/camera"
	"github.com/teslashibe/facewatch/pkg/detection"
)

var probeCamera bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration, cascade files and log directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCheck(cmd.Context(), cmd.OutOrStdout(), appConfig, probeCamera)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&probeCamera, "probe", false, "Also open the frame source and read one frame")
}

func runCheck(ctx context.Context, out io.Writer, cfg *config.Config, probe bool) error {
	var failed []error
	report := func(name string, err error) {
		if err != nil {
			fmt.Fprintf(out, "FAIL  %-10s %v\n", name, err)
			failed = append(failed, fmt.Errorf("%s: %w", name, err))
			return
		}
		fmt.Fprintf(out, "ok    %s\n", name)
	}

	report("config", cfg.Validate())

	ensemble, err := detection.New(cfg.Detection)
	if err == nil {
		ensemble.Close()
	}
	report("cascades", err)

	_, err = alert.NewFileSink(cfg.Alert.LogDir)
	report("log dir", err)

	if probe {
		report("source", probeSource(ctx, cfg))
	}

	return errors.Join(failed...)
}

func probeSource(ctx context.Context, cfg *config.Config) error {
	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for {
		frame, err := src.Read(ctx)
		if err == nil {
			frame.Close()
			return nil
		}
		if !errors.Is(err, camera.ErrNoFrame) {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("no frame within 5s: %w", err)
		case <-time.After(100 * time.Millisecond):
		}
	}
}
