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
	"log/slog"
	"net/http"
	"time"

	"rivaas.dev/outcome"
)

// LogRequest logs an HTTP request with method, path, remote address, user
// agent and, if present, the query string. Extra key/value pairs are appended.
// Requests answered with a 5xx status (passed as "status") are logged at
// error level.
//
//	logger.LogRequest(r, "status", 201, "kind", "created")
func (l *Logger) LogRequest(r *http.Request, extra ...any) {
	level := slog.LevelInfo
	if status, ok := statusOf(extra); ok && status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	l.logRequest(r, level, extra)
}

// LogOutcome logs the response written for an outcome. Failures are logged
// at error level, other failure kinds at warn, the rest at info. The matched
// route pattern, request ID and trace IDs are included when known.
func (l *Logger) LogOutcome(r *http.Request, kind outcome.Kind, status int) {
	level := slog.LevelInfo
	switch {
	case kind == outcome.KindFailure || status >= http.StatusInternalServerError:
		level = slog.LevelError
	case kind.IsFailure():
		level = slog.LevelWarn
	}

	extra := []any{"status", status, "kind", kind.String()}
	if r.Pattern != "" {
		extra = append(extra, "route", r.Pattern)
	}
	l.logRequest(r, level, extra)
}

func (l *Logger) logRequest(r *http.Request, level slog.Level, extra []any) {
	attrs := make([]any, 0, 10+len(extra))
	attrs = append(attrs,
		"method", r.Method,
		"path", r.URL.Path,
		"remote", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)
	if r.URL.RawQuery != "" {
		attrs = append(attrs, "query", r.URL.RawQuery)
	}
	attrs = append(attrs, extra...)

	cl := NewContextLogger(r.Context(), l)
	if !cl.logger.Enabled(r.Context(), level) {
		return
	}
	cl.logger.Log(r.Context(), level, "http request", attrs...)
}

// LogError logs err under the "error" key with additional context fields.
func (l *Logger) LogError(err error, msg string, extra ...any) {
	attrs := make([]any, 0, 2+len(extra))
	attrs = append(attrs, "error", err.Error())
	attrs = append(attrs, extra...)
	l.Error(msg, attrs...)
}

// LogDuration logs msg with duration_ms and a human-readable duration since
// start.
func (l *Logger) LogDuration(msg string, start time.Time, extra ...any) {
	d := time.Since(start)
	attrs := make([]any, 0, 4+len(extra))
	attrs = append(attrs, "duration_ms", d.Milliseconds(), "duration", d.String())
	attrs = append(attrs, extra...)
	l.Info(msg, attrs...)
}

func statusOf(kv []any) (int, bool) {
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok && key == "status" {
			status, ok := kv[i+1].(int)
			return status, ok
		}
	}

	return 0, false
}
