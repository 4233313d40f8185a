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

package validation

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrValidation is matched by every [Error] and [FieldError] through
// errors.Is.
var ErrValidation = errors.New("validation")

// ErrNilValue is returned when validating a nil value.
var ErrNilValue = errors.New("cannot validate nil value")

// FieldError is a single failed check.
type FieldError struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Error returns "path: message", or the message alone when Path is empty.
func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}

	return e.Path + ": " + e.Message
}

// Unwrap returns [ErrValidation].
func (e FieldError) Unwrap() error {
	return ErrValidation
}

// Error collects the field errors of one validation run.
type Error struct {
	Fields    []FieldError `json:"errors"`
	Truncated bool         `json:"truncated,omitempty"`
}

// Error implements the error interface.
func (v *Error) Error() string {
	switch len(v.Fields) {
	case 0:
		return ErrValidation.Error()
	case 1:
		return v.Fields[0].Error()
	}

	suffix := ""
	if v.Truncated {
		suffix = " (truncated)"
	}

	return fmt.Sprintf("validation failed: %s%s", strings.Join(v.Messages(), "; "), suffix)
}

// Unwrap returns [ErrValidation].
func (v *Error) Unwrap() error {
	return ErrValidation
}

// HTTPStatus returns 422.
func (v *Error) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

// Details returns the field errors.
func (v *Error) Details() any {
	return v.Fields
}

// Code returns "validation".
func (v *Error) Code() string {
	return "validation"
}

// Messages returns each field error formatted as "path: message".
func (v *Error) Messages() []string {
	out := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		out = append(out, f.Error())
	}

	return out
}

// Add appends a field error.
func (v *Error) Add(path, code, message string, meta map[string]any) {
	v.Fields = append(v.Fields, FieldError{Path: path, Code: code, Message: message, Meta: meta})
}

// AddError appends err. Field errors and other *Error values are merged;
// anything else becomes a field error without a path.
func (v *Error) AddError(err error) {
	if err == nil {
		return
	}

	var fe FieldError
	var ve *Error
	switch {
	case errors.As(err, &ve):
		v.Fields = append(v.Fields, ve.Fields...)
		v.Truncated = v.Truncated || ve.Truncated
	case errors.As(err, &fe):
		v.Fields = append(v.Fields, fe)
	default:
		v.Fields = append(v.Fields, FieldError{Code: "validation_error", Message: err.Error()})
	}
}

// HasErrors reports whether any field error was recorded.
func (v *Error) HasErrors() bool {
	return len(v.Fields) > 0
}

// Has reports whether path has an error.
func (v *Error) Has(path string) bool {
	return v.Field(path) != nil
}

// Field returns the first error for path, or nil.
func (v *Error) Field(path string) *FieldError {
	for i := range v.Fields {
		if v.Fields[i].Path == path {
			return &v.Fields[i]
		}
	}

	return nil
}

// Sort orders errors by path, then code.
func (v *Error) Sort() {
	sort.SliceStable(v.Fields, func(i, j int) bool {
		if v.Fields[i].Path != v.Fields[j].Path {
			return v.Fields[i].Path < v.Fields[j].Path
		}

		return v.Fields[i].Code < v.Fields[j].Code
	})
}
