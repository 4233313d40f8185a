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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"rivaas.dev/outcome"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}

	return out
}

func TestPush_MirrorsOutcomes(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	r, err := New(WithMeterReader(reader))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Shutdown(context.Background()) })

	r.RecordOutcome(outcome.KindNotFound, 404, "GET /weatherforecast/{id}")
	r.RecordOutcome(outcome.KindNotFound, 404, "GET /weatherforecast/{id}")
	r.RecordHookFailure("audit")
	r.ObserveRequest("GET", "GET /weatherforecast/{id}", 404, 20*time.Millisecond)

	data := collect(t, reader)

	outcomes, ok := data["outcome.outcomes"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, outcomes.DataPoints, 1)
	dp := outcomes.DataPoints[0]
	assert.Equal(t, int64(2), dp.Value)
	kind, _ := dp.Attributes.Value(attribute.Key("outcome.kind"))
	assert.Equal(t, "not_found", kind.AsString())
	status, _ := dp.Attributes.Value(attribute.Key("http.response.status_code"))
	assert.Equal(t, int64(404), status.AsInt64())

	hooks, ok := data["outcome.hook_failures"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), hooks.DataPoints[0].Value)

	duration, ok := data["http.server.request.duration"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, duration.DataPoints, 1)
	assert.Equal(t, uint64(1), duration.DataPoints[0].Count)
}

func TestPush_Stdout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r, err := New(WithStdoutPush(&buf, time.Hour))
	require.NoError(t, err)

	r.RecordOutcome(outcome.KindCreated, 201, "POST /weatherforecast")
	require.NoError(t, r.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "outcome.outcomes")
	assert.Contains(t, buf.String(), "created")
}

func TestPush_Config(t *testing.T) {
	t.Parallel()

	_, err := New(WithPushExporter("statsd", "", 0))
	require.ErrorIs(t, err, ErrUnknownPushExporter)

	r, err := New(WithPushExporter(PushNone, "", 0))
	require.NoError(t, err)
	assert.Nil(t, r.pushed)
	require.NoError(t, r.Shutdown(context.Background()))

	r, err = New(WithPushExporter(PushOTLP, "http://localhost:4318/v1/metrics", time.Minute))
	require.NoError(t, err)
	assert.NotNil(t, r.pushed)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = r.Shutdown(ctx)
}

func TestOTLPOptions(t *testing.T) {
	t.Parallel()

	assert.Empty(t, otlpOptions(""))
	assert.Len(t, otlpOptions("http://collector:4318/v1/metrics"), 2)
	assert.Len(t, otlpOptions("https://collector:4318"), 1)
	assert.Len(t, otlpOptions("collector:4318"), 1)
}
