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

// Package metrics records translated outcomes and HTTP request timings in a
// private Prometheus registry and exposes them for scraping.
//
//	rec := metrics.MustNew(metrics.WithNamespace("outcomed"))
//	mux.Handle("GET /metrics", rec.Handler())
//	handler := rec.Middleware(metrics.WithExcludePaths("/metrics"))(mux)
//
// Exported series:
//
//	<ns>_outcomes_total{kind, status, route}
//	<ns>_http_request_duration_seconds{method, route, status_class}
//	<ns>_http_requests_in_flight
//	<ns>_hook_failures_total{hook}
//
// [WithPushExporter] also pushes outcomes, hook failures and request
// durations through the OpenTelemetry metric SDK, to stdout or an OTLP HTTP
// collector. Call [Recorder.Shutdown] to flush them.
package metrics
