package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tvfinder/tvfinder/internal/config"
)

// Logger wraps zerolog for application logging.
type Logger struct {
	zerolog.Logger
	rotator *lumberjack.Logger
	recent  *Recent
	level   *levelHolder
}

// levelHolder is shared between a Logger and its component loggers so a
// level change reaches all of them.
type levelHolder struct {
	min atomic.Int32
}

func (h *levelHolder) Run(e *zerolog.Event, level zerolog.Level, _ string) {
	if level < zerolog.Level(h.min.Load()) {
		e.Discard()
	}
}

// Config holds logger configuration.
type Config struct {
	Level      string
	Format     string    // "console" or "json"
	Path       string    // directory for log files, empty disables file output
	MaxSizeMB  int       // max size in MB before rotation (default: 10)
	MaxBackups int       // max number of old log files to keep (default: 5)
	MaxAgeDays int       // max age in days to keep old files (default: 30)
	Compress   bool      // compress rotated files
	RecentSize int       // entries kept for the recent-logs endpoint
	Out        io.Writer // console output, defaults to stdout
}

// FromConfig maps the application logging section onto a logger Config.
func FromConfig(cfg config.LoggingConfig) Config {
	return Config{
		Level:      cfg.Level,
		Format:     cfg.Format,
		Path:       cfg.Path,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

// IsDevBuild returns true if running via "go run" (development mode).
func IsDevBuild() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return strings.Contains(exe, "go-build")
}

// New creates a new logger instance.
// When running via "go run", debug level is used unless trace is configured.
func New(cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	var consoleOutput io.Writer = out
	if cfg.Format != "json" {
		consoleOutput = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	level := ParseLevel(cfg.Level)
	if IsDevBuild() && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	recent := NewRecent(cfg.RecentSize)
	outputs := []io.Writer{consoleOutput, recent}
	var rotator *lumberjack.Logger

	if cfg.Path != "" {
		if err := os.MkdirAll(cfg.Path, 0o755); err == nil {
			rotator = &lumberjack.Logger{
				Filename:   filepath.Join(cfg.Path, "tvfinder.log"),
				MaxSize:    orDefault(cfg.MaxSizeMB, 10),
				MaxBackups: orDefault(cfg.MaxBackups, 5),
				MaxAge:     orDefault(cfg.MaxAgeDays, 30),
				Compress:   cfg.Compress,
				LocalTime:  true,
			}
			outputs = append(outputs, rotator)
		}
	}

	holder := &levelHolder{}
	holder.min.Store(int32(level))

	zl := zerolog.New(io.MultiWriter(outputs...)).
		Level(zerolog.TraceLevel).
		Hook(holder).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: zl, rotator: rotator, recent: recent, level: holder}
}

// GetRecentLogs returns the newest log entries, oldest first.
func (l *Logger) GetRecentLogs() []LogEntry {
	if l.recent == nil {
		return nil
	}
	return l.recent.Entries()
}

// GetLogFilePath returns the rotating log file path, or "" when file output
// is disabled.
func (l *Logger) GetLogFilePath() string {
	if l.rotator == nil {
		return ""
	}
	return l.rotator.Filename
}

// SetLevel changes the minimum level for this logger and every component
// logger derived from it.
func (l *Logger) SetLevel(level string) error {
	if !ValidLevel(level) {
		return fmt.Errorf("unknown log level %q", level)
	}
	if l.level != nil {
		l.level.min.Store(int32(ParseLevel(level)))
	}
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() zerolog.Level {
	if l.level == nil {
		return l.Logger.GetLevel()
	}
	return zerolog.Level(l.level.min.Load())
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}

// WithComponent returns a new logger with component field.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:  l.Logger.With().Str("component", component).Logger(),
		rotator: l.rotator,
		recent:  l.recent,
		level:   l.level,
	}
}

// ValidLevel reports whether level names a level ParseLevel knows.
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

// ParseLevel converts string level to zerolog.Level. Unknown names map to
// info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
