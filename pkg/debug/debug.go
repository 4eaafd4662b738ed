// Package debug provides global debug tracing flags
package debug

import "github.com/teslashibe/facewatch/internal/log"

// Enabled controls whether per-frame loop tracing is active
var Enabled bool

// Detections controls whether per-profile cascade counts are traced.
// Use --debug-detections to enable these very verbose logs
var Detections bool

// Log emits a debug line only if debug mode is enabled
func Log(msg string, args ...any) {
	if Enabled {
		log.Debug(msg, args...)
	}
}

// DetectLog emits a debug line only if detection tracing is enabled
func DetectLog(msg string, args ...any) {
	if Detections {
		log.Debug(msg, args...)
	}
}
