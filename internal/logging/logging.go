package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/rocketscienceinc/tictactoe-local/internal/config"
)

// New builds the application logger: JSON for machines, tint for humans.
func New(out io.Writer, level, format string) *slog.Logger {
	var handler slog.Handler

	switch format {
	case config.LogFormatText:
		handler = tint.NewHandler(out, &tint.Options{
			Level:      ParseLevel(level),
			TimeFormat: time.Kitchen,
			NoColor:    !isTerminal(out),
		})
	default:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(level)})
	}

	return slog.New(handler)
}

// ParseLevel maps the config value to a slog level; unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	return ok && isatty.IsTerminal(file.Fd())
}
