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

// Package logging provides the structured logger used by the outcome server
// and its handlers. It is a thin configuration layer over [log/slog].
//
// # Basic Usage
//
//	logger := logging.MustNew(logging.WithConsoleHandler())
//	logger.Info("service started", "port", 8080)
//
// # Structured Logging
//
//	logger := logging.MustNew(
//	    logging.WithJSONHandler(),
//	    logging.WithServiceName("outcomed"),
//	    logging.WithDebugLevel(),
//	)
//	logger.LogOutcome(r, outcome.KindNotFound, 404)
//
// # Sensitive Data Redaction
//
// Attributes named password, token, secret, api_key, x_api_key or
// authorization are replaced by "***REDACTED***". Additional sanitization can
// be configured with [WithReplaceAttr].
//
// # Trace Correlation
//
// [NewContextLogger] adds the request ID and, when the context carries a
// valid OpenTelemetry span context, trace_id and span_id to every record.
// [Logger.LogOutcome] logs through it.
package logging
