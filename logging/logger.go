// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// HandlerType represents the type of logging handler.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
	// ConsoleHandler outputs human-readable colored logs.
	ConsoleHandler HandlerType = "console"
)

// Level represents log level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// ParseLevel parses "debug", "info", "warn"/"warning" and "error",
// case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// redactedKeys are replaced by "***REDACTED***" in every handler. The API
// key header is logged as x_api_key by request loggers.
var redactedKeys = map[string]struct{}{
	"password":      {},
	"token":         {},
	"secret":        {},
	"api_key":       {},
	"x_api_key":     {},
	"authorization": {},
}

const redacted = "***REDACTED***"

// Logger is the structured logger. It is safe for concurrent use; the level
// can be changed at runtime with [Logger.SetLevel].
type Logger struct {
	handlerType HandlerType
	output      io.Writer
	level       slog.LevelVar

	// Added to every record when set.
	serviceName    string
	serviceVersion string
	environment    string

	addSource   bool
	replaceAttr func(groups []string, a slog.Attr) slog.Attr

	custom         *slog.Logger
	useCustom      bool
	registerGlobal bool

	sl *slog.Logger
}

// Option is a functional option for configuring the logger.
type Option func(*Logger)

// New creates a Logger writing JSON to stdout at info level unless options
// say otherwise. The global slog logger is left alone unless
// [WithGlobalLogger] is passed.
func New(opts ...Option) (*Logger, error) {
	l := &Logger{handlerType: JSONHandler, output: os.Stdout}
	l.level.Set(LevelInfo)
	for _, opt := range opts {
		opt(l)
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	sl, err := l.build()
	if err != nil {
		return nil, err
	}
	l.sl = sl
	if l.registerGlobal {
		slog.SetDefault(sl)
	}

	return l, nil
}

// MustNew creates a new Logger or panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}

	return l
}

// Validate checks if the configuration is valid.
func (l *Logger) Validate() error {
	if l.output == nil {
		return ErrNilOutput
	}
	if l.useCustom && l.custom == nil {
		return ErrNilLogger
	}

	return nil
}

func (l *Logger) build() (*slog.Logger, error) {
	if l.useCustom {
		return l.custom, nil
	}

	opts := &slog.HandlerOptions{
		Level:       &l.level,
		AddSource:   l.addSource,
		ReplaceAttr: l.redact,
	}

	var h slog.Handler
	switch l.handlerType {
	case JSONHandler:
		h = slog.NewJSONHandler(l.output, opts)
	case TextHandler:
		h = slog.NewTextHandler(l.output, opts)
	case ConsoleHandler:
		h = newConsoleHandler(l.output, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandler, l.handlerType)
	}

	return slog.New(h).With(l.serviceAttrs()...), nil
}

func (l *Logger) serviceAttrs() []any {
	var attrs []any
	for _, kv := range [][2]string{
		{"service", l.serviceName},
		{"version", l.serviceVersion},
		{"env", l.environment},
	} {
		if kv[1] != "" {
			attrs = append(attrs, kv[0], kv[1])
		}
	}

	return attrs
}

// redact runs before the user replacer so that it cannot see secrets.
func (l *Logger) redact(groups []string, a slog.Attr) slog.Attr {
	if _, ok := redactedKeys[strings.ToLower(a.Key)]; ok {
		a = slog.String(a.Key, redacted)
	}
	if l.replaceAttr != nil {
		return l.replaceAttr(groups, a)
	}

	return a
}

// Logger returns the underlying [slog.Logger].
func (l *Logger) Logger() *slog.Logger {
	return l.sl
}

// With returns a [slog.Logger] with additional attributes.
func (l *Logger) With(args ...any) *slog.Logger {
	return l.sl.With(args...)
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !l.sl.Enabled(ctx, level) {
		return
	}
	l.sl.Log(ctx, level, msg, args...)
}

// Debug logs a debug message with structured attributes.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info logs an informational message with structured attributes.
func (l *Logger) Info(msg string, args ...any) {
	l.log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn logs a warning message with structured attributes.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error logs an error message with structured attributes.
func (l *Logger) Error(msg string, args ...any) {
	l.log(context.Background(), slog.LevelError, msg, args...)
}

// SetLevel changes the minimum log level at runtime. Custom loggers control
// their own level and return [ErrCannotChangeLevel].
func (l *Logger) SetLevel(level Level) error {
	if l.useCustom {
		return ErrCannotChangeLevel
	}
	l.level.Set(level)

	return nil
}

// Level returns the current minimum log level.
func (l *Logger) Level() Level {
	return l.level.Level()
}

// ServiceName returns the service name.
func (l *Logger) ServiceName() string {
	return l.serviceName
}
