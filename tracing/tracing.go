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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"rivaas.dev/outcome/logging"
)

const (
	// DefaultServiceName is used when no service name is configured.
	DefaultServiceName = "outcome-service"

	// DefaultSampleRate samples every request.
	DefaultSampleRate = 1.0

	instrumentationName = "rivaas.dev/outcome/tracing"
)

// Provider names a span exporter.
type Provider string

const (
	NoopProvider     Provider = "noop"
	StdoutProvider   Provider = "stdout"
	OTLPProvider     Provider = "otlp"
	OTLPHTTPProvider Provider = "otlp-http"
)

var (
	// ErrUnknownProvider is returned by [New] for an unsupported provider.
	ErrUnknownProvider = errors.New("unknown tracing provider")

	// ErrInvalidSampleRate is returned by [New] for a rate outside [0, 1].
	ErrInvalidSampleRate = errors.New("sample rate must be between 0 and 1")
)

// Option configures a [Tracer].
type Option func(*Tracer)

// WithProvider selects the exporter.
func WithProvider(p Provider) Option {
	return func(t *Tracer) { t.provider = p }
}

// WithNoop records spans without exporting them.
func WithNoop() Option { return WithProvider(NoopProvider) }

// WithStdout exports spans as pretty-printed JSON to standard output.
func WithStdout() Option { return WithProvider(StdoutProvider) }

// WithStdoutWriter exports spans as pretty-printed JSON to w.
func WithStdoutWriter(w io.Writer) Option {
	return func(t *Tracer) {
		t.provider = StdoutProvider
		t.stdout = w
	}
}

// WithOTLP exports spans over gRPC to endpoint (host:port).
func WithOTLP(endpoint string, insecure bool) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.endpoint = endpoint
		t.insecure = insecure
	}
}

// WithOTLPHTTP exports spans over HTTP. An "http://" endpoint disables TLS.
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.endpoint = endpoint
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) { t.serviceName = name }
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) { t.serviceVersion = version }
}

// WithSampleRate sets the fraction of root spans that are sampled.
// Child spans follow their parent's decision.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) { t.sampleRate = rate }
}

// WithTracerProvider uses tp instead of building a provider. The caller
// owns tp and shuts it down.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Tracer) { t.custom = tp }
}

// WithGlobalTracerProvider registers the provider and propagator with otel.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) { t.registerGlobal = true }
}

// WithLogger reports exporter lifecycle events to logger.
func WithLogger(logger *logging.Logger) Option {
	return func(t *Tracer) { t.logger = logger }
}

// Tracer owns a tracer provider and the propagator used by [Middleware].
type Tracer struct {
	mu     sync.RWMutex
	tracer trace.Tracer
	sdk    *sdktrace.TracerProvider

	custom     trace.TracerProvider
	propagator propagation.TextMapPropagator
	logger     *logging.Logger
	stdout     io.Writer

	provider       Provider
	serviceName    string
	serviceVersion string
	endpoint       string
	sampleRate     float64

	insecure       bool
	registerGlobal bool

	startOnce    sync.Once
	startErr     error
	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a [Tracer]. Noop and stdout providers are ready at once;
// OTLP providers need [Tracer.Start].
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		provider:    NoopProvider,
		serviceName: DefaultServiceName,
		sampleRate:  DefaultSampleRate,
		stdout:      os.Stdout,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
		tracer: noop.NewTracerProvider().Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.sampleRate < 0 || t.sampleRate > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, t.sampleRate)
	}

	switch {
	case t.custom != nil:
		t.install(t.custom, nil)
	case t.provider == NoopProvider:
		t.install(nil, t.newSDKProvider(nil))
	case t.provider == StdoutProvider:
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(t.stdout), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		t.install(nil, t.newSDKProvider(exporter))
	case t.provider == OTLPProvider, t.provider == OTLPHTTPProvider:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, t.provider)
	}

	return t, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("tracing.MustNew: %v", err))
	}

	return t
}

// Start creates the OTLP exporter. It does nothing for other providers and
// only runs once.
func (t *Tracer) Start(ctx context.Context) error {
	t.startOnce.Do(func() {
		if t.custom != nil {
			return
		}

		var (
			exporter sdktrace.SpanExporter
			err      error
		)
		switch t.provider {
		case OTLPProvider:
			exporter, err = t.newOTLPGRPCExporter(ctx)
		case OTLPHTTPProvider:
			exporter, err = t.newOTLPHTTPExporter(ctx)
		default:
			return
		}
		if err != nil {
			t.startErr = err
			return
		}

		t.install(nil, t.newSDKProvider(exporter))
		t.info("tracing initialized", "provider", string(t.provider), "endpoint", t.endpoint, "service", t.serviceName)
	})

	return t.startErr
}

// Shutdown flushes and stops the provider built by [New] or [Tracer.Start].
// A provider passed with [WithTracerProvider] is left alone.
func (t *Tracer) Shutdown(ctx context.Context) error {
	t.shutdownOnce.Do(func() {
		t.mu.RLock()
		tp := t.sdk
		t.mu.RUnlock()

		if tp == nil {
			return
		}
		if err := tp.Shutdown(ctx); err != nil {
			t.shutdownErr = fmt.Errorf("shutdown tracer provider: %w", err)
		}
	})

	return t.shutdownErr
}

// Tracer returns the OpenTelemetry tracer.
func (t *Tracer) Tracer() trace.Tracer {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.tracer
}

// Propagator returns the W3C trace context and baggage propagator.
func (t *Tracer) Propagator() propagation.TextMapPropagator {
	return t.propagator
}

// Provider returns the configured exporter name.
func (t *Tracer) Provider() Provider {
	return t.provider
}

// StartSpan starts an internal span named name.
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.Tracer().Start(ctx, name, opts...)
}

func (t *Tracer) install(tp trace.TracerProvider, sdk *sdktrace.TracerProvider) {
	if sdk != nil {
		tp = sdk
	}

	t.mu.Lock()
	t.sdk = sdk
	t.tracer = tp.Tracer(instrumentationName)
	t.mu.Unlock()

	if t.registerGlobal {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(t.propagator)
	}
}

func (t *Tracer) newSDKProvider(exporter sdktrace.SpanExporter) *sdktrace.TracerProvider {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(t.serviceName),
			semconv.ServiceVersion(t.serviceVersion),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	return sdktrace.NewTracerProvider(opts...)
}

func (t *Tracer) newOTLPGRPCExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	var opts []otlptracegrpc.Option
	if t.endpoint != "" {
		opts = append(opts, otlptracegrpc.WithEndpoint(t.endpoint))
	}
	if t.insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP gRPC exporter: %w", err)
	}

	return exporter, nil
}

func (t *Tracer) newOTLPHTTPExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	var opts []otlptracehttp.Option
	if t.endpoint != "" {
		endpoint, insecure := splitEndpoint(t.endpoint)
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		if insecure || t.insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP HTTP exporter: %w", err)
	}

	return exporter, nil
}

// splitEndpoint strips the scheme and path: "http://collector:4318/v1"
// becomes "collector:4318", insecure.
func splitEndpoint(endpoint string) (string, bool) {
	insecure := false
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint, insecure = rest, true
	} else if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint = rest
	}
	if host, _, found := strings.Cut(endpoint, "/"); found {
		endpoint = host
	}

	return endpoint, insecure
}

func (t *Tracer) info(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Info(msg, args...)
	}
}
