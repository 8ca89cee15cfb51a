package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config is ragterm's slog setup: a JSON handler writing to a rotating file
// under ~/.ragterm/logs/, optionally teed to stderr for --debug runs.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// FilePath is the log file's path. Empty means no file logging.
	FilePath string
	// MaxSizeMB is the size in MB a file reaches before it's rotated.
	MaxSizeMB int
	// MaxFiles is the number of rotated files kept before the oldest is
	// discarded.
	MaxFiles int
	// WriteToStderr additionally tees every record to stderr.
	WriteToStderr bool
}

// DefaultConfig is ragterm's baseline logging setup: info level, a file
// under DefaultLogPath rotated at 10MB keeping 5 generations, teed to
// stderr.
func DefaultConfig() Config {
	return Config{
		Level:         "info",
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: true,
	}
}

// DebugConfig is DefaultConfig with the level raised to debug, the
// configuration root.go's --debug flag installs.
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	return cfg
}

// Setup builds a *slog.Logger writing JSON records through a RotatingWriter
// at cfg.FilePath (tee'd to stderr when cfg.WriteToStderr), and returns a
// cleanup closure that syncs and closes the underlying file. The caller is
// responsible for calling cleanup once logging is no longer needed.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	if err := EnsureLogDir(); err != nil {
		return nil, nil, err
	}

	writer, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, err
	}

	var output io.Writer = writer
	if cfg.WriteToStderr {
		output = io.MultiWriter(writer, os.Stderr)
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: LevelFromString(cfg.Level),
	})
	logger := slog.New(handler)

	cleanup := func() {
		_ = writer.Sync()
		_ = writer.Close()
	}
	return logger, cleanup, nil
}

// SetupDefault calls Setup with DebugConfig and installs the result as
// slog's package-level default logger.
func SetupDefault() (func(), error) {
	logger, cleanup, err := Setup(DebugConfig())
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	return cleanup, nil
}

// LevelFromString maps a config/CLI level name to its slog.Level, defaulting
// to info for anything unrecognized. Shared by Setup and the log viewer's
// --level filter so both resolve level names identically.
func LevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
