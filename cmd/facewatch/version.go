package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print facewatch, GoCV and OpenCV versions",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "facewatch %s\ngocv      %s\nopencv    %s\n",
			Version, gocv.Version(), gocv.OpenCVVersion())
	},
}
