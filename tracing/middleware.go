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

package tracing

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// MiddlewareOption configures [Middleware].
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	excludePaths    map[string]bool
	excludePrefixes []string
	headers         []string
}

// WithExcludePaths skips tracing for exact request paths.
func WithExcludePaths(paths ...string) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		for _, p := range paths {
			cfg.excludePaths[p] = true
		}
	}
}

// WithExcludePrefixes skips tracing for paths under the given prefixes.
func WithExcludePrefixes(prefixes ...string) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.excludePrefixes = append(cfg.excludePrefixes, prefixes...)
	}
}

// WithHeaders records the given request headers as
// "http.request.header.<name>" attributes.
func WithHeaders(headers ...string) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		for _, h := range headers {
			cfg.headers = append(cfg.headers, strings.ToLower(h))
		}
	}
}

func (cfg *middlewareConfig) excluded(path string) bool {
	if cfg.excludePaths[path] {
		return true
	}
	for _, prefix := range cfg.excludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// Middleware starts a server span per request, continuing any trace found
// in the request headers. Once the mux has matched, the span is renamed to
// the route pattern, e.g. "GET /weatherforecast/{id}". 5xx responses mark
// the span as failed.
func Middleware(t *Tracer, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{excludePaths: make(map[string]bool)}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.excluded(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := t.Propagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := t.Tracer().Start(ctx, r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(requestAttributes(cfg, r)...),
			)
			defer span.End()

			req := r.WithContext(ctx)
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, req)

			if req.Pattern != "" {
				span.SetName(req.Pattern)
				span.SetAttributes(attribute.String("http.route", routeOf(req.Pattern)))
			}
			span.SetAttributes(attribute.Int("http.response.status_code", sw.status))
			if sw.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(sw.status))
			}
		})
	}
}

func requestAttributes(cfg *middlewareConfig, r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 5+len(cfg.headers))
	attrs = append(attrs,
		attribute.String("http.request.method", r.Method),
		attribute.String("url.path", r.URL.Path),
		attribute.String("server.address", r.Host),
		attribute.String("user_agent.original", r.UserAgent()),
	)
	if r.URL.RawQuery != "" {
		attrs = append(attrs, attribute.String("url.query", r.URL.RawQuery))
	}
	for _, h := range cfg.headers {
		if v := r.Header.Get(h); v != "" {
			attrs = append(attrs, attribute.String("http.request.header."+h, v))
		}
	}

	return attrs
}

// routeOf drops the method from a mux pattern.
func routeOf(pattern string) string {
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}

	return pattern
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
