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

package outcome

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
)

// HookOption configures [OnSuccess] and [OnFailure].
type HookOption func(*hookConfig)

type hookConfig struct {
	logger     *slog.Logger
	name       string
	stackTrace bool
	stackSize  int
	onFailure  func(name string)
}

func defaultHookConfig() *hookConfig {
	return &hookConfig{
		name:      "outcome hook",
		stackSize: 4 << 10, // 4KB
	}
}

// WithHookLogger sets the logger that records hook failures.
// Defaults to [slog.Default].
func WithHookLogger(logger *slog.Logger) HookOption {
	return func(c *hookConfig) { c.logger = logger }
}

// WithHookName sets the name logged with hook failures.
func WithHookName(name string) HookOption {
	return func(c *hookConfig) { c.name = name }
}

// WithHookStackTrace adds a truncated stack trace to logged panics.
func WithHookStackTrace(enabled bool) HookOption {
	return func(c *hookConfig) { c.stackTrace = enabled }
}

// WithHookFailureFunc registers fn to be called with the hook name after a
// hook returned an error or panicked, e.g. to count failures.
func WithHookFailureFunc(fn func(name string)) HookOption {
	return func(c *hookConfig) { c.onFailure = fn }
}

// OnSuccess calls fn with the payload when o is a success outcome and returns
// o unchanged. fn runs inline on the calling goroutine.
//
// An error returned by fn, or a panic raised by it, is logged and dropped.
//
//	res = outcome.OnSuccess(res, func(u User) error {
//		return audit.Record("user.created", u.ID)
//	}, outcome.WithHookLogger(logger))
func OnSuccess[T any](o Outcome[T], fn func(T) error, opts ...HookOption) Outcome[T] {
	if fn == nil || !o.IsSuccess() {
		return o
	}

	cfg := applyHookOptions(opts)
	runHook(cfg, o.kind, func() error { return fn(o.value) })

	return o
}

// OnFailure calls fn with the kind and a copy of the messages when o is a
// failure outcome and returns o unchanged. fn runs inline on the calling
// goroutine.
//
// An error returned by fn, or a panic raised by it, is logged and dropped.
func OnFailure[T any](o Outcome[T], fn func(kind Kind, errs []string) error, opts ...HookOption) Outcome[T] {
	if fn == nil || !o.kind.IsFailure() {
		return o
	}

	cfg := applyHookOptions(opts)
	runHook(cfg, o.kind, func() error { return fn(o.kind, slices.Clone(o.errs)) })

	return o
}

func applyHookOptions(opts []HookOption) *hookConfig {
	cfg := defaultHookConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return cfg
}

// runHook executes call and isolates the caller from its failures.
func runHook(cfg *hookConfig, kind Kind, call func() error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		attrs := []any{
			"hook", cfg.name,
			"kind", kind.String(),
			"panic", fmt.Sprint(rec),
		}
		if cfg.stackTrace {
			stack := debug.Stack()
			if len(stack) > cfg.stackSize {
				stack = stack[:cfg.stackSize]
			}
			attrs = append(attrs, "stack", string(stack))
		}
		cfg.logger.Error("outcome hook panicked", attrs...)
		cfg.failed()
	}()

	if err := call(); err != nil {
		cfg.logger.Error("outcome hook failed",
			"hook", cfg.name,
			"kind", kind.String(),
			"error", err.Error(),
		)
		cfg.failed()
	}
}

func (c *hookConfig) failed() {
	if c.onFailure != nil {
		c.onFailure(c.name)
	}
}
