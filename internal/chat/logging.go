package chat

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger. Events go to a JSON log file under the
// storage root so they never interleave with the terminal UI; debug widens the
// level. When the file cannot be opened the logger is discarded rather than
// polluting stderr.
func NewLogger(storageRoot string, debug bool) zerolog.Logger {
	if storageRoot == "" {
		storageRoot = DefaultStorageRoot()
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	var out io.Writer = io.Discard
	if err := os.MkdirAll(storageRoot, 0o755); err == nil {
		f, err := os.OpenFile(filepath.Join(storageRoot, "tipsiti.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			out = f
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
