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

package envelope

import (
	"net/http"
	"reflect"
	"strings"

	"rivaas.dev/outcome"
)

// NotFoundMessage is the message of [Single] and [NotFound] failures.
const NotFoundMessage = "Not Found"

// Envelope is the wire form of an enveloped body.
type Envelope[T any] struct {
	IsSuccess bool   `json:"isSuccess" yaml:"isSuccess"`
	Message   string `json:"message" yaml:"message"`
	Data      T      `json:"data" yaml:"data"`
}

// Success returns a successful envelope around data.
func Success[T any](data T) Envelope[T] {
	return Envelope[T]{IsSuccess: true, Data: data}
}

// Failure returns a failed envelope with message and zero data.
func Failure[T any](message string) Envelope[T] {
	return Envelope[T]{Message: message}
}

// OK answers 200 with data.
func OK[T any](data T) outcome.Response {
	return outcome.Response{Kind: outcome.KindSuccess, Status: http.StatusOK, Body: Success(data)}
}

// Single answers 200 with data, or 404 "Not Found" when data is nil.
func Single[T any](data T) outcome.Response {
	if isNil(data) {
		return NotFound[T]()
	}

	return OK(data)
}

// CreatedAt answers 201 with data and a literal Location.
func CreatedAt[T any](data T, location string) outcome.Response {
	resp := outcome.Response{Kind: outcome.KindCreated, Status: http.StatusCreated, Body: Success(data)}
	if location != "" {
		resp.Location = &outcome.Reference{URL: location}
	}

	return resp
}

// NotFound answers 404 "Not Found".
func NotFound[T any]() outcome.Response {
	return outcome.Response{Kind: outcome.KindNotFound, Status: http.StatusNotFound, Body: Failure[T](NotFoundMessage)}
}

// Of translates o and envelopes the body. Failure messages are joined with
// "; " into the envelope message.
func Of[T any](o outcome.Outcome[T]) outcome.Response {
	resp := outcome.Translate(o)
	if resp.Kind == outcome.KindNoContent {
		return resp
	}
	if o.Kind().IsFailure() {
		resp.Body = Failure[T](failureMessage(o.Errors(), resp.Status))
		return resp
	}

	v, _ := o.Value()
	resp.Body = Success(v)

	return resp
}

// Wrap envelopes an already translated response. NoContent responses are
// returned unchanged. Validation and unauthorized responses carry no
// messages, so their envelope message is the status text.
func Wrap(resp outcome.Response) outcome.Response {
	switch {
	case resp.Kind == outcome.KindNoContent:
		return resp

	case resp.Kind.IsFailure():
		var messages []string
		switch body := resp.Body.(type) {
		case outcome.ErrorList:
			messages = body.Errors
		case []string:
			messages = body
		}
		resp.Body = Failure[any](failureMessage(messages, resp.Status))

	default:
		resp.Body = Success(resp.Body)
	}

	return resp
}

func failureMessage(messages []string, status int) string {
	if len(messages) == 0 {
		return http.StatusText(status)
	}

	return strings.Join(messages, "; ")
}

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
