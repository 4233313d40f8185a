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

package problem

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Formatter converts an error into HTTP response components.
type Formatter interface {
	// Format returns the status, content type and body for err. The request
	// supplies the instance URI.
	Format(req *http.Request, err error) Response
}

// Response is a formatted error response.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body, encoded by the caller.
	Body any
}

// ErrorType allows errors to declare their own HTTP status code.
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorDetails allows errors to expose structured details, such as the
// individual messages of a validation failure.
type ErrorDetails interface {
	error
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	Code() string
}

// ErrUnknownFormat is returned by [New] for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown problem format")

// Format names accepted by [New].
const (
	FormatRFC9457 = "rfc9457"
	FormatSimple  = "simple"
)

// New returns the formatter registered under name. An empty name or "none"
// returns a nil Formatter and no error.
func New(name, baseURL string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return nil, nil
	case FormatRFC9457:
		return NewRFC9457(baseURL), nil
	case FormatSimple:
		return NewSimple(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// WithStatus wraps err with an explicit HTTP status code. A nil err is
// reported with the status text.
//
//	return problem.WithStatus(err, http.StatusServiceUnavailable)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}

	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func (e *statusError) HTTPStatus() int {
	return e.status
}

// statusOf resolves the status with resolver, then [ErrorType], then 500.
func statusOf(err error, resolver func(error) int) int {
	if resolver != nil {
		return resolver(err)
	}

	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	return http.StatusInternalServerError
}
