package logger

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/anipixel/anipixel/core/buildinfo"
	"github.com/anipixel/anipixel/core/config"
)

// Log bundles the structured logger with its sinks so the process can flush
// buffered output at shutdown. Components receive the embedded *slog.Logger
// (scoped via With("component", ...)) by injection; there is no package-level
// logger singleton.
type Log struct {
	*slog.Logger

	writer  *asyncWriter
	closers []io.Closer

	shutdownMu sync.Mutex
	shutdowned bool
}

// New configures the structured logger from configuration: output format,
// level, and sinks (stdout plus an optional append-only log file).
func New(cfg *config.Config) (*Log, error) {
	format := selectFormat(cfg)
	level := selectLevel(cfg)

	outputs, closers := buildOutputs(cfg)
	writer := newAsyncWriter(outputs, 64*1024)

	handler := newStructuredHandler(handlerConfig{
		level:    level,
		writer:   writer,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})

	l := &Log{
		Logger:  slog.New(handler),
		writer:  writer,
		closers: closers,
	}
	l.logStartup(cfg)
	return l, nil
}

// Component returns a logger scoped to the provided component attribute.
func (l *Log) Component(name string) *slog.Logger {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return l.Logger
	}
	return l.Logger.With("component", trimmed)
}

// Shutdown flushes buffered log output and closes opened sinks.
func (l *Log) Shutdown() error {
	l.shutdownMu.Lock()
	defer l.shutdownMu.Unlock()
	if l.shutdowned {
		return nil
	}
	l.shutdowned = true

	var errs []error
	if l.writer != nil {
		if err := l.writer.Flush(); err != nil {
			errs = append(errs, err)
		}
		if err := l.writer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range l.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *Log) logStartup(cfg *config.Config) {
	attrs := []slog.Attr{
		slog.String("component", "app"),
		slog.String("event", "startup"),
		slog.String("go_version", runtime.Version()),
		slog.String("build_commit", buildinfo.Commit),
		slog.String("build_time", buildinfo.Date),
	}
	if cfg != nil {
		attrs = append(attrs, slog.String("cfg_profile", selectProfile(cfg)))
	}
	l.Logger.LogAttrs(context.Background(), slog.LevelInfo, "startup", attrs...)
}

func selectFormat(cfg *config.Config) logFormat {
	if cfg == nil {
		return formatJSON
	}
	raw := strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	switch raw {
	case "kv", "text", "pretty":
		return formatKV
	case "json":
		return formatJSON
	}
	// Prefer human-friendly format when profile indicates debug/dev mode.
	if strings.EqualFold(cfg.Logging.Profile, "debug") || strings.EqualFold(cfg.Logging.Profile, "dev") {
		return formatKV
	}
	return formatJSON
}

func selectLevel(cfg *config.Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildOutputs(cfg *config.Config) ([]io.Writer, []io.Closer) {
	writers := []io.Writer{os.Stdout}
	var closers []io.Closer
	if cfg == nil {
		return writers, closers
	}
	dir := strings.TrimSpace(cfg.Logging.Dir)
	file := strings.TrimSpace(cfg.Logging.File)
	if dir != "" && file != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("logger: failed to create log dir %s: %v", dir, err)
		} else {
			path := filepath.Join(dir, file)
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				log.Printf("logger: failed to open log file %s: %v", path, err)
			} else {
				writers = append(writers, f)
				closers = append(closers, f)
			}
		}
	}
	return writers, closers
}

func selectProfile(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	if profile := strings.TrimSpace(cfg.Logging.Profile); profile != "" {
		return strings.ToLower(profile)
	}
	return "prod"
}
