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
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Default messages used by the convenience failure factories when the caller
// passes an empty message.
const (
	DefaultNotFoundMessage     = "resource not found"
	DefaultUnauthorizedMessage = "unauthorized"
	DefaultConflictMessage     = "conflict detected"
	DefaultValidationMessage   = "validation failed"
)

// Outcome is the immutable result of a domain operation.
//
// The zero value has [KindUnknown] and is translated with the default rule
// (status 200, zero payload). Use the factories to build meaningful values.
//
// Outcome is safe to copy and to share between goroutines: it has no
// mutators, and slices and maps are copied on the way in and on the way out.
type Outcome[T any] struct {
	kind        Kind
	value       T
	hasValue    bool
	errs        []string
	action      string
	routeValues map[string]any
	status      int
}

// Option configures an Outcome built with [New].
type Option func(*options)

type options struct {
	value       any
	hasValue    bool
	errs        []string
	action      string
	routeValues map[string]any
	status      int
}

// WithValue sets the payload. It is rejected with [ErrInvalidState] on a
// failure kind.
func WithValue(v any) Option {
	return func(o *options) {
		o.value = v
		o.hasValue = true
	}
}

// WithErrors appends error messages. Messages are rejected with
// [ErrInvalidState] on a success kind.
func WithErrors(errs ...string) Option {
	return func(o *options) { o.errs = append(o.errs, errs...) }
}

// WithStatus sets the status code override.
func WithStatus(status int) Option {
	return func(o *options) { o.status = status }
}

// WithRoute sets the action name and route values used to locate a created
// resource.
func WithRoute(action string, routeValues map[string]any) Option {
	return func(o *options) {
		o.action = action
		o.routeValues = routeValues
	}
}

// New builds an Outcome of the given kind and enforces its invariants:
//   - a success kind must not carry error messages
//   - a failure kind must not carry a value
//
// Violations return an error wrapping [ErrInvalidState]. An invalid kind, a
// failure kind without messages, or a value whose type is not T, returns an
// error wrapping [ErrInvalidArgument], as [Failure] does.
//
// A value given for [KindNoContent] is dropped.
//
// New does not require route information for [KindCreated]; such an Outcome
// is translated to a plain 201 without a [Reference]. Use [Created] to get the
// stricter check.
func New[T any](kind Kind, opts ...Option) (Outcome[T], error) {
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}

	if !kind.Valid() {
		return Outcome[T]{}, fmt.Errorf("%w: kind %s", ErrInvalidArgument, kind)
	}

	if kind.IsSuccess() && len(cfg.errs) > 0 {
		return Outcome[T]{}, fmt.Errorf("%w: %s outcome cannot carry errors", ErrInvalidState, kind)
	}

	if kind.IsFailure() && cfg.hasValue && !isNil(cfg.value) {
		return Outcome[T]{}, fmt.Errorf("%w: %s outcome cannot carry a value", ErrInvalidState, kind)
	}

	if kind.IsFailure() && len(cfg.errs) == 0 {
		return Outcome[T]{}, fmt.Errorf("%w: %s outcome needs at least one error", ErrInvalidArgument, kind)
	}

	o := Outcome[T]{
		kind:   kind,
		status: cfg.status,
	}

	if kind != KindNoContent && cfg.hasValue && !isNil(cfg.value) {
		v, ok := cfg.value.(T)
		if !ok {
			return Outcome[T]{}, fmt.Errorf("%w: value of type %T is not %T", ErrInvalidArgument, cfg.value, o.value)
		}
		o.value = v
		o.hasValue = true
	}

	if len(cfg.errs) > 0 {
		o.errs = slices.Clone(cfg.errs)
	}

	if kind == KindCreated {
		o.action = cfg.action
		if cfg.routeValues != nil {
			o.routeValues = maps.Clone(cfg.routeValues)
		}
	}

	return o, nil
}

// Must returns o, or panics if err is not nil. It is intended for factories
// whose arguments are known to be valid at the call site.
//
//	res := outcome.Must(outcome.Created(user, "GetUser", map[string]any{"id": user.ID}))
func Must[T any](o Outcome[T], err error) Outcome[T] {
	if err != nil {
		panic(err)
	}

	return o
}

// Success returns a [KindSuccess] Outcome carrying v.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{kind: KindSuccess, value: v, hasValue: true}
}

// SuccessStatus returns a [KindSuccess] Outcome carrying v whose status code
// overrides the default 200.
func SuccessStatus[T any](v T, status int) Outcome[T] {
	return Outcome[T]{kind: KindSuccess, value: v, hasValue: true, status: status}
}

// NoContent returns a [KindNoContent] Outcome with an empty payload.
func NoContent[T any]() Outcome[T] {
	return Outcome[T]{kind: KindNoContent}
}

// Created returns a [KindCreated] Outcome. The action name and route values
// identify where the new resource can be fetched.
//
// It returns an error wrapping [ErrInvalidArgument] when action is blank or
// routeValues is nil.
func Created[T any](v T, action string, routeValues map[string]any) (Outcome[T], error) {
	if strings.TrimSpace(action) == "" {
		return Outcome[T]{}, fmt.Errorf("%w: action name is required", ErrInvalidArgument)
	}
	if routeValues == nil {
		return Outcome[T]{}, fmt.Errorf("%w: route values are required", ErrInvalidArgument)
	}

	return Outcome[T]{
		kind:        KindCreated,
		value:       v,
		hasValue:    true,
		action:      action,
		routeValues: maps.Clone(routeValues),
	}, nil
}

// Failure returns a failed Outcome of the given kind.
//
// It returns an error wrapping [ErrInvalidArgument] when kind is not a
// failure kind or when no message is given.
func Failure[T any](kind Kind, errs ...string) (Outcome[T], error) {
	if !kind.IsFailure() {
		return Outcome[T]{}, fmt.Errorf("%w: %s is not a failure kind", ErrInvalidArgument, kind)
	}
	if len(errs) == 0 {
		return Outcome[T]{}, fmt.Errorf("%w: %s outcome needs at least one error", ErrInvalidArgument, kind)
	}

	return Outcome[T]{kind: kind, errs: slices.Clone(errs)}, nil
}

// NotFound returns a [KindNotFound] Outcome. An empty message is replaced by
// [DefaultNotFoundMessage].
func NotFound[T any](message string) Outcome[T] {
	return failureWithDefault[T](KindNotFound, message, DefaultNotFoundMessage)
}

// Unauthorized returns a [KindUnauthorized] Outcome. An empty message is
// replaced by [DefaultUnauthorizedMessage].
func Unauthorized[T any](message string) Outcome[T] {
	return failureWithDefault[T](KindUnauthorized, message, DefaultUnauthorizedMessage)
}

// Conflict returns a [KindConflict] Outcome. An empty message is replaced by
// [DefaultConflictMessage].
func Conflict[T any](message string) Outcome[T] {
	return failureWithDefault[T](KindConflict, message, DefaultConflictMessage)
}

// ValidationError returns a [KindValidation] Outcome carrying errs. With no
// messages, [DefaultValidationMessage] is used.
func ValidationError[T any](errs ...string) Outcome[T] {
	if len(errs) == 0 {
		errs = []string{DefaultValidationMessage}
	}

	return Must(Failure[T](KindValidation, errs...))
}

func failureWithDefault[T any](kind Kind, message, fallback string) Outcome[T] {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}

	return Must(Failure[T](kind, message))
}

// Kind returns the outcome kind.
func (o Outcome[T]) Kind() Kind {
	return o.kind
}

// IsSuccess reports whether the outcome has a success kind.
func (o Outcome[T]) IsSuccess() bool {
	return o.kind.IsSuccess()
}

// Value returns the payload and whether one was set. Failures and
// [KindNoContent] always return the zero value and false.
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.hasValue
}

// Errors returns a copy of the error messages. It is nil for success kinds.
func (o Outcome[T]) Errors() []string {
	return slices.Clone(o.errs)
}

// ActionName returns the action name of a [KindCreated] outcome.
func (o Outcome[T]) ActionName() string {
	return o.action
}

// RouteValues returns a copy of the route values of a [KindCreated] outcome.
func (o Outcome[T]) RouteValues() map[string]any {
	return maps.Clone(o.routeValues)
}

// StatusCode returns the status code override and whether one was set.
func (o Outcome[T]) StatusCode() (int, bool) {
	return o.status, o.status != 0
}

// Err returns nil for a success outcome and an [*Error] otherwise.
func (o Outcome[T]) Err() error {
	if !o.kind.IsFailure() {
		return nil
	}

	return &Error{Kind: o.kind, Messages: slices.Clone(o.errs)}
}

// String returns a short description for logs, e.g. "not_found: user 7 not found".
func (o Outcome[T]) String() string {
	if len(o.errs) == 0 {
		return o.kind.String()
	}

	return o.kind.String() + ": " + strings.Join(o.errs, "; ")
}

// isNil reports whether v is nil or a typed nil pointer, map, slice, channel,
// function or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
