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

package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Middleware returns a middleware that tracks in-flight requests and
// request latency labelled by the matched [http.ServeMux] pattern.
// Unmatched requests are labelled "unmatched".
//
// It panics if an exclusion pattern fails to compile.
func (r *Recorder) Middleware(opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{filter: newPathFilter()}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := errors.Join(cfg.errs...); err != nil {
		panic(fmt.Sprintf("metrics: %v", err))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if cfg.filter.shouldExclude(req.URL.Path) {
				next.ServeHTTP(w, req)
				return
			}

			r.inFlight.Inc()
			defer r.inFlight.Dec()

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, req)

			route := req.Pattern
			if route == "" {
				route = "unmatched"
			}
			r.ObserveRequest(req.Method, route, sw.status, time.Since(start))
		})
	}
}

// statusWriter captures the status code written by the wrapped handler.
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

// Unwrap lets [http.ResponseController] reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
