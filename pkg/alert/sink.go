package alert

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DetectionLogFile receives one line per missing-face alert.
	DetectionLogFile = "detection_log.txt"
	// VerificationLogFile receives one line per different-person alert.
	VerificationLogFile = "verification_log.txt"

	timestampLayout = "2006-01-02 15:04:05"
)

// Sink records alerts durably.
type Sink interface {
	Append(ev Event) error
}

// FileSink appends alert lines to text files in a directory. Each append
// opens the file, writes the full line in a single call and closes it, so
// concurrent appends never interleave within a line.
type FileSink struct {
	dir string
}

// NewFileSink creates dir if needed and returns a sink writing into it.
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		return nil, ErrNoLogDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("alert: create log dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Dir returns the directory the sink writes into.
func (s *FileSink) Dir() string {
	return s.dir
}

// Path returns the log file used for kind k, or "" if k is not logged.
func (s *FileSink) Path(k Kind) string {
	switch k {
	case KindMissing:
		return filepath.Join(s.dir, DetectionLogFile)
	case KindMismatch:
		return filepath.Join(s.dir, VerificationLogFile)
	default:
		return ""
	}
}

// Append writes the log line for ev. Registered events are not logged.
func (s *FileSink) Append(ev Event) error {
	path := s.Path(ev.Kind)
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &SinkError{Path: path, Err: err}
	}
	_, werr := f.WriteString(FormatLine(ev))
	cerr := f.Close()
	if werr != nil {
		return &SinkError{Path: path, Err: werr}
	}
	if cerr != nil {
		return &SinkError{Path: path, Err: cerr}
	}
	return nil
}

// FormatLine renders the log record for ev, including the trailing newline.
func FormatLine(ev Event) string {
	ts := ev.At.Format(timestampLayout)
	switch ev.Kind {
	case KindMissing:
		return "No face detected at " + ts + "\n"
	case KindMismatch:
		return "Different person detected at " + ts + "\n"
	default:
		return ""
	}
}
