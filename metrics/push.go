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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultPushInterval is the export interval of push exporters.
const DefaultPushInterval = 30 * time.Second

const meterName = "rivaas.dev/outcome/metrics"

// Push exporter names accepted by [WithPushExporter].
const (
	PushNone   = "none"
	PushStdout = "stdout"
	PushOTLP   = "otlp"
)

// ErrUnknownPushExporter is returned for an unsupported push exporter name.
var ErrUnknownPushExporter = errors.New("unknown push exporter")

// WithPushExporter pushes the outcome metrics through OpenTelemetry in
// addition to the Prometheus registry. name is [PushNone], [PushStdout] or
// [PushOTLP]; endpoint is the OTLP HTTP collector, e.g.
// "http://collector:4318". A zero interval means [DefaultPushInterval].
func WithPushExporter(name, endpoint string, interval time.Duration) Option {
	return func(r *Recorder) {
		r.push = pushConfig{name: name, endpoint: endpoint, interval: interval}
	}
}

// WithStdoutPush pushes the outcome metrics as JSON to w every interval.
func WithStdoutPush(w io.Writer, interval time.Duration) Option {
	return func(r *Recorder) {
		r.push = pushConfig{name: PushStdout, writer: w, interval: interval}
	}
}

// WithMeterReader adds an OpenTelemetry reader, such as a manual reader in
// tests, to the push pipeline.
func WithMeterReader(reader sdkmetric.Reader) Option {
	return func(r *Recorder) { r.push.readers = append(r.push.readers, reader) }
}

type pushConfig struct {
	name     string
	endpoint string
	writer   io.Writer
	interval time.Duration
	readers  []sdkmetric.Reader
}

// pushInstruments mirror the Prometheus series for OpenTelemetry readers.
type pushInstruments struct {
	provider     *sdkmetric.MeterProvider
	outcomes     metric.Int64Counter
	hookFailures metric.Int64Counter
	duration     metric.Float64Histogram
}

func (r *Recorder) initPush() error {
	readers := r.push.readers

	interval := r.push.interval
	if interval <= 0 {
		interval = DefaultPushInterval
	}

	switch r.push.name {
	case "", PushNone:
	case PushStdout:
		opts := []stdoutmetric.Option{}
		if r.push.writer != nil {
			opts = append(opts, stdoutmetric.WithWriter(r.push.writer))
		}
		exporter, err := stdoutmetric.New(opts...)
		if err != nil {
			return fmt.Errorf("create stdout metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	case PushOTLP:
		exporter, err := otlpmetrichttp.New(context.Background(), otlpOptions(r.push.endpoint)...)
		if err != nil {
			return fmt.Errorf("create OTLP metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPushExporter, r.push.name)
	}

	if len(readers) == 0 {
		return nil
	}

	opts := make([]sdkmetric.Option, 0, len(readers))
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}
	provider := sdkmetric.NewMeterProvider(opts...)
	meter := provider.Meter(meterName)

	p := &pushInstruments{provider: provider}
	var err error
	if p.outcomes, err = meter.Int64Counter("outcome.outcomes",
		metric.WithDescription("Outcomes written to clients, by kind and status code.")); err != nil {
		return err
	}
	if p.hookFailures, err = meter.Int64Counter("outcome.hook_failures",
		metric.WithDescription("Outcome hooks that returned an error or panicked.")); err != nil {
		return err
	}
	if p.duration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.buckets...)); err != nil {
		return err
	}
	r.pushed = p

	return nil
}

// otlpOptions turns "http://host:4318/path" into exporter options. A plain
// http scheme disables TLS.
func otlpOptions(endpoint string) []otlpmetrichttp.Option {
	if endpoint == "" {
		return nil
	}

	var opts []otlpmetrichttp.Option
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint = rest
		opts = append(opts, otlpmetrichttp.WithInsecure())
	} else {
		endpoint = strings.TrimPrefix(endpoint, "https://")
	}
	if host, _, found := strings.Cut(endpoint, "/"); found {
		endpoint = host
	}

	return append(opts, otlpmetrichttp.WithEndpoint(endpoint))
}

func (p *pushInstruments) recordOutcome(kind string, status int, route string) {
	if p == nil {
		return
	}
	p.outcomes.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("outcome.kind", kind),
		attribute.Int("http.response.status_code", status),
		attribute.String("http.route", route),
	))
}

func (p *pushInstruments) recordHookFailure(hook string) {
	if p == nil {
		return
	}
	p.hookFailures.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome.hook", hook)))
}

func (p *pushInstruments) observeRequest(method, route, class string, d time.Duration) {
	if p == nil {
		return
	}
	p.duration.Record(context.Background(), d.Seconds(), metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.String("http.response.status_class", class),
	))
}

// Shutdown flushes and stops the push exporters. It is a no-op without
// them.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.pushed == nil {
		return nil
	}

	return r.pushed.provider.Shutdown(ctx)
}
