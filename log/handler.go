// Package log bridges log/slog to the zap logger used by the shard runtime,
// so that shards written against slog land in the same structured output.
package log

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Handler implements slog.Handler on top of a zap.Logger.
type Handler struct {
	logger *zap.Logger
	opts   handlerConfig
	groups []string
}

// HandlerOption configures the Handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level     slog.Level
	addSource bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level to report.
// Records below this level are dropped before reaching zap.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// NewHandler creates a Handler writing to l. A nil logger discards everything.
func NewHandler(l *zap.Logger, opts ...HandlerOption) *Handler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Handler{logger: l, opts: cfg}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level && h.logger.Core().Enabled(zapLevel(level))
}

// Handle converts the record and writes it through zap.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]zap.Field, 0, record.NumAttrs()+1)
	record.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, h.field(attr))
		return true
	})
	if h.opts.addSource && record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		frame, _ := frames.Next()
		fields = append(fields, zap.String("source", frame.File+":"+strconv.Itoa(frame.Line)))
	}

	if ce := h.logger.Check(zapLevel(record.Level), record.Message); ce != nil {
		ce.Time = record.Time
		ce.Write(fields...)
	}
	return nil
}

// WithAttrs returns a Handler whose logger carries the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make([]zap.Field, len(attrs))
	for i, attr := range attrs {
		fields[i] = h.field(attr)
	}
	newHandler := *h
	newHandler.logger = h.logger.With(fields...)
	return &newHandler
}

// WithGroup returns a Handler that prefixes later attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newHandler := *h
	newHandler.groups = append(append([]string(nil), h.groups...), name)
	return &newHandler
}

func (h *Handler) field(attr slog.Attr) zap.Field {
	f := toZapField(attr)
	for i := len(h.groups) - 1; i >= 0; i-- {
		f.Key = h.groups[i] + "." + f.Key
	}
	return f
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}
