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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"rivaas.dev/outcome/internal/weather"
	"rivaas.dev/outcome/logging"
	"rivaas.dev/outcome/metrics"
	"rivaas.dev/outcome/middleware/recovery"
	"rivaas.dev/outcome/middleware/requestid"
	"rivaas.dev/outcome/openapi"
	"rivaas.dev/outcome/problem"
	"rivaas.dev/outcome/render"
	"rivaas.dev/outcome/routes"
	"rivaas.dev/outcome/tracing"
)

// app is the wired service, ready to be served.
type app struct {
	handler  http.Handler
	routes   *routes.Registry
	recorder *metrics.Recorder
	tracer   *tracing.Tracer
	logger   *logging.Logger
}

// close flushes pending spans and pushed metrics.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.tracer != nil {
		errs = append(errs, a.tracer.Shutdown(ctx))
	}
	if a.recorder != nil {
		errs = append(errs, a.recorder.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

func newLogger(s LogSettings, out io.Writer) (*logging.Logger, error) {
	level, err := logging.ParseLevel(s.Level)
	if err != nil {
		return nil, err
	}

	return logging.New(
		logging.WithHandlerType(logging.HandlerType(s.Format)),
		logging.WithOutput(out),
		logging.WithLevel(level),
		logging.WithServiceName("outcomed"),
		logging.WithServiceVersion(Version),
	)
}

// newApp wires routes, rendering, metrics, tracing and the forecast
// service. Requests pass through request ID, tracing, metrics and panic
// recovery, in that order, before reaching the mux. The stdout metrics push
// writes to stdout. Telemetry started here is shut down again when wiring
// fails.
func newApp(ctx context.Context, s *Settings, logger *logging.Logger, stdout io.Writer) (_ *app, err error) {
	reg := routes.New(routes.WithBaseURL(s.Server.BaseURL))

	formatter, err := problem.New(s.Problems.Format, s.Problems.BaseURL)
	if err != nil {
		return nil, err
	}

	renderOpts := []render.Option{
		render.WithCodecs(s.Render.codecTypes()...),
		render.WithLinker(reg),
		render.WithProblemFormatter(formatter),
		render.WithLogger(logger),
	}
	if s.Render.Strict {
		renderOpts = append(renderOpts, render.WithStrictNegotiation())
	}
	if s.Log.Requests {
		renderOpts = append(renderOpts, render.WithRequestLogging())
	}

	var rec *metrics.Recorder
	defer func() {
		if err == nil || rec == nil {
			return
		}
		if serr := rec.Shutdown(context.WithoutCancel(ctx)); serr != nil {
			logger.Warn("metrics shutdown after failed setup", "error", serr.Error())
		}
	}()

	serviceOpts := []weather.Option{
		weather.WithLogger(logger),
		weather.WithDefaultCity(s.Weather.City),
	}
	if !s.Metrics.Disabled {
		metricOpts := []metrics.Option{
			metrics.WithNamespace(s.Metrics.Namespace),
			metrics.WithConstLabels(map[string]string{"service": "outcomed"}),
		}
		if s.Metrics.Runtime {
			metricOpts = append(metricOpts, metrics.WithRuntimeCollectors())
		}
		if s.Metrics.Push == metrics.PushStdout {
			metricOpts = append(metricOpts, metrics.WithStdoutPush(stdout, s.Metrics.PushInterval))
		} else {
			metricOpts = append(metricOpts, metrics.WithPushExporter(s.Metrics.Push, s.Metrics.PushEndpoint, s.Metrics.PushInterval))
		}
		if rec, err = metrics.New(metricOpts...); err != nil {
			return nil, err
		}
		renderOpts = append(renderOpts, render.WithRecorder(rec))
		serviceOpts = append(serviceOpts, weather.WithHookFailureFunc(rec.RecordHookFailure))
	}

	writer, err := render.New(renderOpts...)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	h := weather.NewHandler(weather.NewService(serviceOpts...), writer,
		weather.WithAPIKey(s.Weather.APIKey),
		weather.WithMaxBodySize(s.Server.MaxBodyBytes),
		weather.WithHandlerLogger(logger),
	)
	if err := h.Register(mux, reg); err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	if !s.OpenAPI.Disabled {
		doc, err := describe(s, reg)
		if err != nil {
			return nil, err
		}
		mux.Handle("GET "+s.OpenAPI.Path, openapi.Handler(doc, writer))
	}

	var handler http.Handler = recovery.New(recovery.WithWriter(writer), recovery.WithLogger(logger))(mux)
	if rec != nil {
		mux.Handle("GET "+s.Metrics.Path, rec.Handler())
		handler = rec.Middleware(metrics.WithExcludePaths(s.Metrics.Path, "/healthz"))(handler)
	}

	tracer, err := newTracer(ctx, s.Tracing, logger)
	if err != nil {
		return nil, err
	}
	if tracer != nil {
		handler = tracing.Middleware(tracer,
			tracing.WithExcludePaths(s.Metrics.Path, "/healthz"),
			tracing.WithHeaders(requestid.DefaultHeader),
		)(handler)
	}
	// requestid replaces the request, so it stays outside tracing, which
	// reads the pattern the mux sets on its own request.
	handler = requestid.New()(handler)

	return &app{handler: handler, routes: reg, recorder: rec, tracer: tracer, logger: logger}, nil
}

// describe documents the routes registered so far. The document route
// itself is left out.
func describe(s *Settings, reg *routes.Registry) (*openapi.Document, error) {
	opts := []openapi.Option{
		openapi.WithTitle(s.OpenAPI.Title),
		openapi.WithVersion(Version),
		openapi.WithServer(s.Server.BaseURL),
		openapi.WithMediaTypes(s.Render.mediaTypes()...),
	}
	if s.Weather.APIKey != "" {
		opts = append(opts, openapi.WithAPIKeyHeader(weather.APIKeyHeader))
	}
	if s.Problems.Format == problem.FormatRFC9457 {
		opts = append(opts, openapi.WithProblemDetails())
	}

	b := openapi.New(opts...)
	weather.Describe(b, s.Weather.APIKey != "")

	return b.Build(reg)
}

// newTracer returns nil when tracing is disabled.
func newTracer(ctx context.Context, s TracingSettings, logger *logging.Logger) (*tracing.Tracer, error) {
	opts := []tracing.Option{
		tracing.WithServiceName("outcomed"),
		tracing.WithServiceVersion(Version),
		tracing.WithSampleRate(s.SampleRate),
		tracing.WithLogger(logger),
	}

	switch tracing.Provider(s.Provider) {
	case "none":
		return nil, nil
	case tracing.OTLPProvider:
		opts = append(opts, tracing.WithOTLP(s.Endpoint, s.Insecure))
	case tracing.OTLPHTTPProvider:
		opts = append(opts, tracing.WithOTLPHTTP(s.Endpoint))
	default:
		opts = append(opts, tracing.WithProvider(tracing.Provider(s.Provider)))
	}

	tracer, err := tracing.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := tracer.Start(ctx); err != nil {
		return nil, err
	}

	return tracer, nil
}

// serve runs srv on ln until ctx is canceled, then shuts it down within
// timeout.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, logger *logging.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("server shutting down", "reason", context.Cause(ctx).Error())
	}

	// ctx is already canceled; the shutdown deadline needs a fresh parent.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server forced to shutdown: %w", err)
	}
	logger.LogDuration("server exited", start)

	return nil
}
