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

// Package tracing starts OpenTelemetry spans for HTTP requests and tags
// them with the outcome each request produced.
//
// # Basic Usage
//
//	tracer, err := tracing.New(
//	    tracing.WithServiceName("outcomed"),
//	    tracing.WithStdout(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := tracer.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
//	handler := tracing.Middleware(tracer, tracing.WithExcludePaths("/healthz"))(mux)
//
// # Providers
//
//   - NoopProvider (default): spans are sampled and recorded but never exported
//   - StdoutProvider: pretty-printed JSON spans, for development
//   - OTLPProvider: OTLP over gRPC
//   - OTLPHTTPProvider: OTLP over HTTP
//
// OTLP exporters are created by [Tracer.Start]; until then the tracer hands
// out no-op spans.
//
// # Outcomes
//
// [RecordOutcome] sets the "outcome.kind" attribute on the span in a
// context. The render package calls it for every written response.
//
// # Global State
//
// The tracer provider is only registered with otel.SetTracerProvider when
// [WithGlobalTracerProvider] is given.
package tracing
