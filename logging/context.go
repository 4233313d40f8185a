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
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/outcome/middleware/requestid"
)

const (
	fieldTraceID   = "trace_id"
	fieldSpanID    = "span_id"
	fieldRequestID = "request_id"
)

// ContextLogger is a request-scoped logger. Records carry the request ID set
// by the requestid middleware and, when the context holds a valid
// OpenTelemetry span context, trace_id and span_id.
type ContextLogger struct {
	logger  *slog.Logger
	ctx     context.Context
	traceID string
	spanID  string
}

// NewContextLogger creates a context-aware logger wrapping logger.
func NewContextLogger(ctx context.Context, logger *Logger) *ContextLogger {
	cl := &ContextLogger{ctx: ctx}

	var attrs []any
	if id := requestid.Get(ctx); id != "" {
		attrs = append(attrs, fieldRequestID, id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		cl.traceID = sc.TraceID().String()
		cl.spanID = sc.SpanID().String()
		attrs = append(attrs, fieldTraceID, cl.traceID, fieldSpanID, cl.spanID)
	}
	cl.logger = logger.Logger().With(attrs...)

	return cl
}

// Logger returns the underlying [slog.Logger].
func (cl *ContextLogger) Logger() *slog.Logger {
	return cl.logger
}

// TraceID returns the trace ID, or "" outside a span.
func (cl *ContextLogger) TraceID() string {
	return cl.traceID
}

// SpanID returns the span ID, or "" outside a span.
func (cl *ContextLogger) SpanID() string {
	return cl.spanID
}

func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.DebugContext(cl.ctx, msg, args...)
}

func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.InfoContext(cl.ctx, msg, args...)
}

func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.WarnContext(cl.ctx, msg, args...)
}

func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.ErrorContext(cl.ctx, msg, args...)
}
