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
	"time"

	"rivaas.dev/outcome/codec"
	"rivaas.dev/outcome/config"
	"rivaas.dev/outcome/config/source"
)

// EnvPrefix prefixes every environment variable read by outcomed. Nested
// keys are separated by "_" and a doubled "__" keeps an underscore:
// OUTCOMED_SERVER_READ__TIMEOUT sets server.read_timeout.
const EnvPrefix = "OUTCOMED_"

// Settings is the outcomed configuration.
type Settings struct {
	Server   ServerSettings  `config:"server" json:"server"`
	Log      LogSettings     `config:"log" json:"log"`
	Metrics  MetricsSettings `config:"metrics" json:"metrics"`
	OpenAPI  OpenAPISettings `config:"openapi" json:"openapi"`
	Problems ProblemSettings `config:"problems" json:"problems"`
	Render   RenderSettings  `config:"render" json:"render"`
	Tracing  TracingSettings `config:"tracing" json:"tracing"`
	Weather  WeatherSettings `config:"weather" json:"weather"`
}

type ServerSettings struct {
	Addr            string        `config:"addr" json:"addr" default:":8080" validate:"required,hostname_port"`
	BaseURL         string        `config:"base_url" json:"base_url" validate:"omitempty,url"`
	ReadTimeout     time.Duration `config:"read_timeout" json:"read_timeout" default:"5s"`
	WriteTimeout    time.Duration `config:"write_timeout" json:"write_timeout" default:"10s"`
	ShutdownTimeout time.Duration `config:"shutdown_timeout" json:"shutdown_timeout" default:"15s"`
	MaxBodyBytes    int64         `config:"max_body_bytes" json:"max_body_bytes" default:"1048576" validate:"gte=0"`
}

type LogSettings struct {
	Level    string `config:"level" json:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `config:"format" json:"format" default:"json" validate:"oneof=json text console"`
	Requests bool   `config:"requests" json:"requests"`
}

type MetricsSettings struct {
	Disabled  bool   `config:"disabled" json:"disabled"`
	Namespace string `config:"namespace" json:"namespace" default:"outcomed"`
	Path      string `config:"path" json:"path" default:"/metrics" validate:"startswith=/"`
	Runtime   bool   `config:"runtime" json:"runtime"`

	// Push mirrors the metrics to an OpenTelemetry exporter: none, stdout
	// or otlp (HTTP, at PushEndpoint).
	Push         string        `config:"push" json:"push" default:"none" validate:"oneof=none stdout otlp"`
	PushEndpoint string        `config:"push_endpoint" json:"push_endpoint"`
	PushInterval time.Duration `config:"push_interval" json:"push_interval" default:"30s"`
}

// OpenAPISettings controls the served API description.
type OpenAPISettings struct {
	Disabled bool   `config:"disabled" json:"disabled"`
	Path     string `config:"path" json:"path" default:"/openapi" validate:"startswith=/"`
	Title    string `config:"title" json:"title" default:"Weather forecasts"`
}

type ProblemSettings struct {
	Format  string `config:"format" json:"format" default:"none" validate:"oneof=none rfc9457 simple"`
	BaseURL string `config:"base_url" json:"base_url"`
}

type RenderSettings struct {
	Strict bool     `config:"strict" json:"strict"`
	Codecs []string `config:"codecs" json:"codecs" default:"json,yaml,msgpack" validate:"dive,oneof=json yaml msgpack toml"`
}

// TracingSettings selects the span exporter. "none" disables tracing. A
// zero sample rate reads as unset; use "none" to turn sampling off.
type TracingSettings struct {
	Provider   string  `config:"provider" json:"provider" default:"none" validate:"oneof=none noop stdout otlp otlp-http"`
	Endpoint   string  `config:"endpoint" json:"endpoint"`
	SampleRate float64 `config:"sample_rate" json:"sample_rate" default:"1" validate:"gte=0,lte=1"`
	Insecure   bool    `config:"insecure" json:"insecure"`
}

type WeatherSettings struct {
	APIKey string `config:"api_key" json:"-"`
	City   string `config:"city" json:"city" default:"Oslo"`
}

// loadSettings merges the optional file at path (format from its
// extension) and the environment, in that order.
func loadSettings(ctx context.Context, path string, environ []string) (*Settings, *config.Config, error) {
	var s Settings

	opts := []config.Option{config.WithBinding(&s)}
	if path != "" {
		opts = append(opts, config.WithFile(path))
	}
	opts = append(opts, config.WithSource(source.NewEnvList(EnvPrefix, environ)))

	cfg, err := config.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Load(ctx); err != nil {
		return nil, nil, err
	}

	return &s, cfg, nil
}

func (s RenderSettings) mediaTypes() []string {
	out := make([]string, 0, len(s.Codecs))
	for _, t := range s.codecTypes() {
		if mt := codec.Default().MediaType(t); mt != "" {
			out = append(out, mt)
		}
	}

	return out
}

func (s RenderSettings) codecTypes() []codec.Type {
	out := make([]codec.Type, 0, len(s.Codecs))
	for _, name := range s.Codecs {
		out = append(out, codec.Type(name))
	}

	return out
}
