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
	"encoding/json"
	"errors"
	"maps"
	"net/http"

	"github.com/google/uuid"
)

const contentTypeProblem = "application/problem+json; charset=utf-8"

// RFC9457 formats errors as RFC 9457 Problem Details with content type
// "application/problem+json".
type RFC9457 struct {
	// BaseURL is prepended to the error code to form the problem type URI,
	// e.g. "https://api.example.com/problems" + "/not_found".
	BaseURL string

	// TypeResolver overrides the problem type URI.
	TypeResolver func(err error) string

	// StatusResolver overrides the status code.
	StatusResolver func(err error) int

	// ErrorIDGenerator generates the "error_id" extension. Defaults to a
	// random UUID.
	ErrorIDGenerator func() string

	// DisableErrorID omits the "error_id" extension.
	DisableErrorID bool
}

// NewRFC9457 creates an RFC9457 formatter.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// ProblemDetail is an RFC 9457 problem detail object. Extensions are
// marshaled inline and cannot shadow the standard members.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// Map flattens the problem into one object, extensions included. Encoders
// without custom marshaler support (YAML, MessagePack) use it.
func (p ProblemDetail) Map() map[string]any {
	m := make(map[string]any, len(p.Extensions)+5)
	maps.Copy(m, p.Extensions)

	// Standard members are written last and overwrite same-named extensions.
	delete(m, "detail")
	delete(m, "instance")
	m["type"], m["title"], m["status"] = p.Type, p.Title, p.Status
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}

	return m
}

// MarshalJSON implements json.Marshaler.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}

// Format implements [Formatter].
func (f *RFC9457) Format(req *http.Request, err error) Response {
	status := statusOf(err, f.StatusResolver)

	p := ProblemDetail{
		Type:       f.problemType(err),
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Extensions: f.extensions(err),
	}
	if req != nil {
		p.Instance = req.URL.Path
	}

	return Response{Status: status, ContentType: contentTypeProblem, Body: p}
}

// extensions collects the members beyond RFC 9457: "error_id", "errors"
// from [ErrorDetails] and "code" from [ErrorCode].
func (f *RFC9457) extensions(err error) map[string]any {
	ext := make(map[string]any, 3)

	if id := f.errorID(); id != "" {
		ext["error_id"] = id
	}
	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		ext["errors"] = detailed.Details()
	}
	var coded ErrorCode
	if errors.As(err, &coded) {
		ext["code"] = coded.Code()
	}

	return ext
}

func (f *RFC9457) errorID() string {
	switch {
	case f.DisableErrorID:
		return ""
	case f.ErrorIDGenerator != nil:
		return f.ErrorIDGenerator()
	default:
		return "err-" + uuid.NewString()
	}
}

// problemType resolves the type URI with TypeResolver, then [ErrorCode],
// then "about:blank".
func (f *RFC9457) problemType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}

	var coded ErrorCode
	switch {
	case !errors.As(err, &coded):
		return "about:blank"
	case f.BaseURL == "":
		return coded.Code()
	default:
		return f.BaseURL + "/" + coded.Code()
	}
}
