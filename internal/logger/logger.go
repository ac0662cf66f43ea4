package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"luna_assistant/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger starts as a no-op so packages can log before InitLogger runs (tests)
var Logger = zerolog.Nop()

// InitLogger configures the package logger and zerolog's global one. The
// returned func releases the log file when Output is "file"; call it last.
func InitLogger(config model.LogConfig) (func() error, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level '%s': %w", config.Level, err)
	}

	output, closeOutput, err := openOutput(config)
	if err != nil {
		return nil, err
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = timeFieldFormat(config.TimeFormat)

	if strings.ToLower(config.Format) == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	Logger = zerolog.New(output).With().
		Timestamp().
		Caller().
		Logger()
	log.Logger = Logger

	Logger.Debug().
		Str("level", level.String()).
		Str("format", config.Format).
		Str("output", config.Output).
		Msg("logger ready")

	return closeOutput, nil
}

func openOutput(config model.LogConfig) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(config.Output) {
	case "stderr":
		return os.Stderr, noop, nil
	case "file":
		if config.FilePath == "" {
			return nil, nil, fmt.Errorf("LOG_FILE_PATH is required when LOG_OUTPUT=file")
		}
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file '%s': %w", config.FilePath, err)
		}
		return file, file.Close, nil
	default:
		return os.Stdout, noop, nil
	}
}

func timeFieldFormat(name string) string {
	switch strings.ToLower(name) {
	case "unix":
		return zerolog.TimeFormatUnix
	case "iso8601":
		return "2006-01-02T15:04:05.000Z07:00"
	default:
		return time.RFC3339
	}
}

func Info() *zerolog.Event {
	return Logger.Info()
}

func Debug() *zerolog.Event {
	return Logger.Debug()
}

func Warn() *zerolog.Event {
	return Logger.Warn()
}

func Error() *zerolog.Event {
	return Logger.Error()
}
