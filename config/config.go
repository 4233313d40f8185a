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

package config

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"rivaas.dev/outcome/codec"
	"rivaas.dev/outcome/config/source"
	"rivaas.dev/outcome/validation"
)

// Option configures a [Config].
type Option func(c *Config) error

// Config merges sources and binds the result to a struct.
// It is safe for concurrent use.
type Config struct {
	mu      sync.RWMutex
	values  map[string]any
	sources []Source
	binding any
	tagName string
}

// WithSource appends a custom source.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		c.sources = append(c.sources, src)

		return nil
	}
}

// WithFile loads a file whose format is detected from its extension.
// Environment variables in path are expanded.
func WithFile(path string) Option {
	return withFile(path, false)
}

// WithOptionalFile is like [WithFile] but skips a missing file.
func WithOptionalFile(path string) Option {
	return withFile(path, true)
}

func withFile(path string, optional bool) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)

		format, err := codec.ForExtension(filepath.Ext(path))
		if err != nil {
			return NewError("file-source", "detect-format", err)
		}
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return NewError("file-source", "get-decoder", err)
		}

		if optional {
			c.sources = append(c.sources, source.NewOptionalFile(path, decoder))
		} else {
			c.sources = append(c.sources, source.NewFile(path, decoder))
		}

		return nil
	}
}

// WithContent decodes data in the given format.
func WithContent(data []byte, format codec.Type) Option {
	return func(c *Config) error {
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return NewError("content-source", "get-decoder", err)
		}
		c.sources = append(c.sources, source.NewFileContent(data, decoder))

		return nil
	}
}

// WithEnv loads environment variables starting with prefix.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, source.NewOSEnvVar(prefix))
		return nil
	}
}

// WithBinding decodes the merged values into v, a pointer to a struct, on
// every successful [Config.Load].
func WithBinding(v any) Option {
	return func(c *Config) error {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return NewError("binding", "configure", fmt.Errorf("binding must be a non-nil pointer to a struct, got %T", v))
		}
		c.binding = v

		return nil
	}
}

// WithTag sets the struct tag naming fields. Defaults to "config".
func WithTag(tagName string) Option {
	return func(c *Config) error {
		if tagName == "" {
			return errors.New("tag name cannot be empty")
		}
		c.tagName = tagName

		return nil
	}
}

// New creates a Config. All option errors are joined.
func New(options ...Option) (*Config, error) {
	c := &Config{values: map[string]any{}, tagName: "config"}

	var errs error
	for _, opt := range options {
		if opt == nil {
			continue
		}
		errs = errors.Join(errs, opt(c))
	}
	if errs != nil {
		return nil, errs
	}

	return c, nil
}

// MustNew is like [New] but panics on error.
func MustNew(options ...Option) *Config {
	c, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create config: %v", err))
	}

	return c
}

// Load reads all sources, merges them and binds the result. The bound
// struct and the stored values are only replaced when every step succeeds.
func (c *Config) Load(ctx context.Context) error {
	values, err := c.merge(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.binding != nil {
		bound, err := c.decode(values)
		if err != nil {
			return err
		}
		reflect.ValueOf(c.binding).Elem().Set(reflect.ValueOf(bound).Elem())
	}
	c.values = values

	return nil
}

// MustLoad is like [Config.Load] but panics on error.
func (c *Config) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(err)
	}
}

func (c *Config) merge(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)
	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		values, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}

		if err = mergo.Map(&merged, lowerKeys(values), mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}

	return merged, nil
}

// decode binds values into a fresh copy of the binding type, applies
// defaults and validates it.
func (c *Config) decode(values map[string]any) (any, error) {
	target := reflect.New(reflect.TypeOf(c.binding).Elem()).Interface()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          c.tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, NewError("binding", "bind", err)
	}
	if err = decoder.Decode(values); err != nil {
		return nil, NewError("binding", "bind", err)
	}

	if err = applyDefaults(reflect.ValueOf(target).Elem()); err != nil {
		return nil, NewError("binding", "defaults", err)
	}

	v, err := validation.New(validation.WithFieldNameTag(c.tagName))
	if err != nil {
		return nil, NewError("binding", "validate", err)
	}
	if err = v.Validate(target); err != nil {
		return nil, NewError("binding", "validate", err)
	}

	return target, nil
}

// Values returns a copy of the merged top-level values.
func (c *Config) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return maps.Clone(c.values)
}

// Get returns the value at a dot-separated, case-insensitive path, or nil.
func (c *Config) Get(path string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	current := c.values
	segments := strings.Split(strings.ToLower(path), ".")
	for i, seg := range segments {
		v, ok := current[seg]
		if !ok {
			return nil
		}
		if i == len(segments)-1 {
			return v
		}
		if current, ok = v.(map[string]any); !ok {
			return nil
		}
	}

	return nil
}

// String returns the value at path as a string, or "".
func (c *Config) String(path string) string {
	return cast.ToString(c.Get(path))
}

// Int returns the value at path as an int, or 0.
func (c *Config) Int(path string) int {
	return cast.ToInt(c.Get(path))
}

// Bool returns the value at path as a bool, or false.
func (c *Config) Bool(path string) bool {
	return cast.ToBool(c.Get(path))
}

// Duration returns the value at path as a duration, or 0.
func (c *Config) Duration(path string) time.Duration {
	return cast.ToDuration(c.Get(path))
}

// StringSlice returns the value at path as a string slice, or nil.
func (c *Config) StringSlice(path string) []string {
	return cast.ToStringSlice(c.Get(path))
}

// StringOr returns the value at path, or def when it is missing.
func (c *Config) StringOr(path, def string) string {
	if v := c.Get(path); v != nil {
		return cast.ToString(v)
	}

	return def
}

func lowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = lowerKeys(nested)
		}
		out[strings.ToLower(k)] = v
	}

	return out
}
