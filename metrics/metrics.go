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
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rivaas.dev/outcome"
)

// ErrInvalidNamespace is returned for a namespace Prometheus rejects.
var ErrInvalidNamespace = errors.New("invalid metrics namespace")

// Option configures a [Recorder].
type Option func(*Recorder)

// WithNamespace prefixes every metric name. Defaults to "outcome".
func WithNamespace(ns string) Option {
	return func(r *Recorder) { r.namespace = ns }
}

// WithConstLabels attaches labels to every series, e.g. service name.
func WithConstLabels(labels map[string]string) Option {
	return func(r *Recorder) { r.constLabels = labels }
}

// WithBuckets sets the request duration histogram buckets in seconds.
func WithBuckets(buckets ...float64) Option {
	return func(r *Recorder) { r.buckets = buckets }
}

// WithRuntimeCollectors registers the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(r *Recorder) { r.runtime = true }
}

// Recorder owns a Prometheus registry and the outcome service metrics,
// optionally mirrored to OpenTelemetry push exporters. It is safe for
// concurrent use.
type Recorder struct {
	namespace   string
	constLabels map[string]string
	buckets     []float64
	runtime     bool

	registry     *prometheus.Registry
	outcomes     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	inFlight     prometheus.Gauge
	hookFailures *prometheus.CounterVec
	handler      http.Handler

	push   pushConfig
	pushed *pushInstruments
}

// New creates a Recorder with its own registry; the global Prometheus
// registry is never touched.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{namespace: "outcome", buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(r)
	}
	if !validNamespace(r.namespace) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNamespace, r.namespace)
	}

	r.registry = prometheus.NewRegistry()
	r.outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   r.namespace,
		Name:        "outcomes_total",
		Help:        "Outcomes written to clients, by kind and status code.",
		ConstLabels: r.constLabels,
	}, []string{"kind", "status", "route"})
	r.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   r.namespace,
		Name:        "http_request_duration_seconds",
		Help:        "HTTP request latency.",
		Buckets:     r.buckets,
		ConstLabels: r.constLabels,
	}, []string{"method", "route", "status_class"})
	r.inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   r.namespace,
		Name:        "http_requests_in_flight",
		Help:        "Requests currently being served.",
		ConstLabels: r.constLabels,
	})
	r.hookFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   r.namespace,
		Name:        "hook_failures_total",
		Help:        "Outcome hooks that returned an error or panicked.",
		ConstLabels: r.constLabels,
	}, []string{"hook"})

	collectorsToRegister := []prometheus.Collector{r.outcomes, r.duration, r.inFlight, r.hookFailures}
	if r.runtime {
		collectorsToRegister = append(collectorsToRegister,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	for _, c := range collectorsToRegister {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	r.handler = promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})

	if err := r.initPush(); err != nil {
		return nil, err
	}

	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics: %v", err))
	}

	return r
}

// RecordOutcome counts one outcome written with status for route. route
// should be a pattern, never a raw path, to keep cardinality bounded.
func (r *Recorder) RecordOutcome(kind outcome.Kind, status int, route string) {
	r.outcomes.WithLabelValues(kind.String(), strconv.Itoa(status), route).Inc()
	r.pushed.recordOutcome(kind.String(), status, route)
}

// RecordHookFailure counts a failed outcome hook.
func (r *Recorder) RecordHookFailure(hook string) {
	r.hookFailures.WithLabelValues(hook).Inc()
	r.pushed.recordHookFailure(hook)
}

// ObserveRequest records the latency of one request.
func (r *Recorder) ObserveRequest(method, route string, status int, d time.Duration) {
	class := statusClass(status)
	r.duration.WithLabelValues(method, route, class).Observe(d.Seconds())
	r.pushed.observeRequest(method, route, class, d)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return r.handler
}

// Registry returns the underlying registry, for registering extra
// collectors or for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func statusClass(statusCode int) string {
	switch statusCode / 100 {
	case 1:
		return "1xx"
	case 2:
		return "2xx"
	case 3:
		return "3xx"
	case 4:
		return "4xx"
	case 5:
		return "5xx"
	default:
		return "unknown"
	}
}

func validNamespace(ns string) bool {
	if ns == "" {
		return false
	}
	for i, c := range ns {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
