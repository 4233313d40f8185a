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

package binding

import (
	"rivaas.dev/outcome/codec"
	"rivaas.dev/outcome/validation"
)

// DefaultMaxBodySize is the default maximum request body size (10 MiB).
const DefaultMaxBodySize = 10 << 20

// Option configures body and query binding.
type Option func(*config)

type config struct {
	registry    *codec.Registry
	maxBodySize int64
	defaultType codec.Type
	strictJSON  bool
	validator   *validation.Validator
	tagName     string
	allowEmpty  bool
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		registry:    codec.Default(),
		maxBodySize: DefaultMaxBodySize,
		defaultType: codec.TypeJSON,
		tagName:     "query",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithRegistry sets the codec registry used to pick a decoder.
func WithRegistry(registry *codec.Registry) Option {
	return func(c *config) { c.registry = registry }
}

// WithMaxBodySize limits the body to n bytes. Zero or less disables the limit.
func WithMaxBodySize(n int64) Option {
	return func(c *config) { c.maxBodySize = n }
}

// WithDefaultType sets the codec used when the request has no Content-Type.
func WithDefaultType(t codec.Type) Option {
	return func(c *config) { c.defaultType = t }
}

// WithDisallowUnknownFields rejects JSON bodies with fields the target does
// not declare.
func WithDisallowUnknownFields() Option {
	return func(c *config) { c.strictJSON = true }
}

// WithValidator validates the decoded value. Failures are returned as
// *validation.Error.
func WithValidator(v *validation.Validator) Option {
	return func(c *config) { c.validator = v }
}

// WithQueryTag sets the struct tag read by [Query]. Defaults to "query".
func WithQueryTag(tag string) Option {
	return func(c *config) { c.tagName = tag }
}

// WithAllowEmpty accepts an empty body, leaving the target untouched.
func WithAllowEmpty() Option {
	return func(c *config) { c.allowEmpty = true }
}
