// Package logger provides the zerolog-backed structured logger used by the sanctuary
// engine and its command-line tools.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level, encoding and destination.
type Config struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	// Format is json or console. Empty means json.
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
	// Output is stdout, stderr or a file path. Empty means stderr.
	Output string `yaml:"output"`
}

// Logger adapts zerolog to the key/value logging interface the engine expects.
type Logger struct {
	zlog zerolog.Logger
}

// New builds a logger from cfg.
func New(cfg Config) (*Logger, error) {
	writer, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	return NewWithWriter(cfg, writer)
}

// NewWithWriter builds a logger writing to w, ignoring cfg.Output.
func NewWithWriter(cfg Config, w io.Writer) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	switch cfg.Format {
	case "", "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	zlog := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{zlog: zlog}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("component", name).Logger()}
}

// Zerolog exposes the underlying logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

func (l *Logger) Debug(msg string, args ...any) { l.emit(l.zlog.Debug(), msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.emit(l.zlog.Info(), msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.emit(l.zlog.Warn(), msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.emit(l.zlog.Error(), msg, args) }

// emit attaches key/value pairs. A trailing key without a value is logged under "!BADKEY",
// the way log/slog reports it.
func (l *Logger) emit(ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			ev = ev.Interface("!BADKEY", args[i])
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		switch v := args[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case fmt.Stringer:
			ev = ev.Stringer(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func openOutput(output string) (io.Writer, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec // operator-supplied log path
		if err != nil {
			return nil, fmt.Errorf("open log output: %w", err)
		}
		return f, nil
	}
}
