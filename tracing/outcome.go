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
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/outcome"
)

// Span attribute keys set by [RecordOutcome].
const (
	AttrOutcomeKind   = "outcome.kind"
	AttrOutcomeStatus = "outcome.status"
)

// RecordOutcome tags the span in ctx with the kind and status of a written
// outcome. Failure kinds also add an "outcome.failure" event. It does
// nothing when ctx carries no recording span.
func RecordOutcome(ctx context.Context, kind outcome.Kind, status int) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(
		attribute.String(AttrOutcomeKind, kind.String()),
		attribute.Int(AttrOutcomeStatus, status),
	)
	if kind.IsFailure() {
		span.AddEvent("outcome.failure", trace.WithAttributes(attribute.String(AttrOutcomeKind, kind.String())))
	}
}
