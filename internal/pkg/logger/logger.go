package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Options selects log sinks.
type Options struct {
	// Verbose enables the terminal handler.
	Verbose bool
	// Level is one of debug, info, warn, error.
	Level string
	// Terminal receives human-readable logs when Verbose is set.
	Terminal io.Writer
	// File, when set, receives JSON logs.
	File string
	// Journal sends logs to systemd-journald.
	Journal bool
}

// SlogLogger implements ports.Logger on top of log/slog.
type SlogLogger struct {
	logger *slog.Logger
	// background excludes the terminal handler.
	background *slog.Logger
	closer     io.Closer
}

// New builds a logger fanning out to every configured sink.
// Sinks that cannot be opened are skipped with a warning on the remaining ones.
func New(opts Options) *SlogLogger {
	level := ParseLevel(opts.Level)
	if opts.Verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var (
		terminal slog.Handler
		handlers []slog.Handler
		closer   io.Closer
		warnings []string
	)

	if opts.Verbose {
		out := opts.Terminal
		if out == nil {
			out = os.Stderr
		}
		terminal = slog.NewTextHandler(out, handlerOpts)
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			warnings = append(warnings, "log file directory: "+err.Error())
		} else if file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err != nil {
			warnings = append(warnings, "log file: "+err.Error())
		} else {
			handlers = append(handlers, slog.NewJSONHandler(file, handlerOpts))
			closer = file
		}
	}

	if opts.Journal {
		journal, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			warnings = append(warnings, "systemd journal: "+err.Error())
		} else {
			handlers = append(handlers, journal)
		}
	}

	background := fanout(handlers, handlerOpts)
	all := background
	if terminal != nil {
		all = fanout(append([]slog.Handler{terminal}, handlers...), handlerOpts)
	}

	l := &SlogLogger{logger: slog.New(all), background: slog.New(background), closer: closer}
	for _, w := range warnings {
		l.logger.Warn("log sink unavailable", slog.String("detail", w))
	}
	return l
}

// NewNop returns a logger that drops everything.
func NewNop() *SlogLogger {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &SlogLogger{logger: discard, background: discard}
}

func fanout(handlers []slog.Handler, opts *slog.HandlerOptions) slog.Handler {
	switch len(handlers) {
	case 0:
		return slog.NewTextHandler(io.Discard, opts)
	case 1:
		return handlers[0]
	default:
		return slogmulti.Fanout(handlers...)
	}
}

// Slog exposes the underlying slog.Logger.
func (l *SlogLogger) Slog() *slog.Logger {
	return l.logger
}

// With returns a logger that adds fields to every entry.
func (l *SlogLogger) With(fields map[string]interface{}) *SlogLogger {
	args := attrs(fields)
	return &SlogLogger{logger: l.logger.With(args...), background: l.background.With(args...), closer: l.closer}
}

// Detached returns a logger that keeps the file and journal sinks but never
// writes to the terminal. Full-screen front ends use it.
func (l *SlogLogger) Detached() *SlogLogger {
	return &SlogLogger{logger: l.background, background: l.background, closer: l.closer}
}

// Close releases the log file, if any.
func (l *SlogLogger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *SlogLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrsOf(fields)...)
}

func (l *SlogLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrsOf(fields)...)
}

func (l *SlogLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, attrsOf(fields)...)
}

func (l *SlogLogger) Error(msg string, err error, fields map[string]interface{}) {
	list := attrsOf(fields)
	if err != nil {
		list = append(list, slog.String("error", err.Error()))
	}
	l.logger.LogAttrs(context.Background(), slog.LevelError, msg, list...)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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

// attrsOf converts a field map into attributes sorted by key so output is stable.
func attrsOf(fields map[string]interface{}) []slog.Attr {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[k]))
	}
	return out
}

func attrs(fields map[string]interface{}) []any {
	list := attrsOf(fields)
	out := make([]any, 0, len(list))
	for _, a := range list {
		out = append(out, a)
	}
	return out
}

func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
}
