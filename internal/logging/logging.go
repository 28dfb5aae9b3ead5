package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/MemDbg/TaskManagerCLI/internal/config"
)

const timeFormat = "2006-01-02 15:04:05"

// Setup points the global logger at a rotating file. The terminal belongs to
// the menu, so console output is only added when mirror is set (-v).
// The returned closer flushes and closes the log file.
func Setup(cfg config.LogConfig, verbosity int, mirror io.Writer) io.Closer {
	applyLevel(cfg.Level, verbosity)

	var writers []io.Writer
	if verbosity > 0 && mirror != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: mirror, TimeFormat: timeFormat})
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := ensureLogDir(cfg.File); err != nil {
			log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
			log.Error().Err(err).Str("path", cfg.File).Msg("Failed to prepare log directory")
			return closer
		}
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: fileWriter, TimeFormat: timeFormat, NoColor: true})
		closer = fileWriter
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	return closer
}

func applyLevel(level string, verbosity int) {
	switch {
	case verbosity >= 2 || level == "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case verbosity == 1 || level == "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case level == "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case level == "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
