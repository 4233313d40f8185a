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

package recovery

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/outcome"
	"rivaas.dev/outcome/logging"
	"rivaas.dev/outcome/render"
)

const (
	// DefaultStackSize caps logged stack traces, in bytes.
	DefaultStackSize = 4 << 10

	// Message is the failure message sent to clients.
	Message = "internal server error"
)

// Option configures the middleware.
type Option func(*config)

type config struct {
	logger     *logging.Logger
	writer     *render.Writer
	handler    func(w http.ResponseWriter, r *http.Request, recovered any)
	stackSize  int
	stackTrace bool
}

// WithLogger logs panics to logger.
func WithLogger(logger *logging.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

// WithoutLogging disables panic logging.
func WithoutLogging() Option {
	return func(cfg *config) { cfg.logger = nil }
}

// WithWriter renders the failure outcome through w. Defaults to a writer
// with the default codecs.
func WithWriter(w *render.Writer) Option {
	return func(cfg *config) { cfg.writer = w }
}

// WithHandler replaces the failure response entirely.
func WithHandler(fn func(w http.ResponseWriter, r *http.Request, recovered any)) Option {
	return func(cfg *config) { cfg.handler = fn }
}

// WithStackTrace enables or disables stack capture. Default: true.
func WithStackTrace(enabled bool) Option {
	return func(cfg *config) { cfg.stackTrace = enabled }
}

// WithStackSize caps the logged stack trace. Default: 4KB.
func WithStackSize(size int) Option {
	return func(cfg *config) { cfg.stackSize = size }
}

// New returns the recovery middleware.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		logger:     logging.MustNew(),
		stackSize:  DefaultStackSize,
		stackTrace: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.writer == nil && cfg.handler == nil {
		cfg.writer = render.MustNew()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if err, ok := recovered.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(recovered)
				}

				cfg.report(r, recovered)
				cfg.respond(w, r, recovered)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func (cfg *config) report(r *http.Request, recovered any) {
	span := trace.SpanFromContext(r.Context())
	if span.IsRecording() {
		span.RecordError(fmt.Errorf("panic: %v", recovered))
		span.SetStatus(codes.Error, "panic recovered")
	}

	if cfg.logger == nil {
		return
	}

	args := []any{
		"panic", fmt.Sprint(recovered),
		"method", r.Method,
		"path", r.URL.Path,
	}
	if cfg.stackTrace {
		stack := debug.Stack()
		if cfg.stackSize > 0 && len(stack) > cfg.stackSize {
			stack = stack[:cfg.stackSize]
		}
		args = append(args, "stack", string(stack))
	}

	logging.NewContextLogger(r.Context(), cfg.logger).Error("panic recovered", args...)
}

func (cfg *config) respond(w http.ResponseWriter, r *http.Request, recovered any) {
	if cfg.handler != nil {
		cfg.handler(w, r, recovered)
		return
	}

	failure := outcome.Must(outcome.Failure[struct{}](outcome.KindFailure, Message))
	if err := render.Respond(cfg.writer, w, r, failure); err != nil && cfg.logger != nil {
		cfg.logger.LogError(err, "write panic response failed", "path", r.URL.Path)
	}
}
