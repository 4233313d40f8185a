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
	"maps"
	"slices"
)

// Response is the transport-level form of an [Outcome].
// It contains everything needed to write an HTTP response, but no encoding:
// Body is marshaled by the caller (JSON, YAML, MessagePack, ...).
//
// Example:
//
//	resp := outcome.Translate(res)
//	w.WriteHeader(resp.Status)
//	json.NewEncoder(w).Encode(resp.Body)
type Response struct {
	// Kind is the kind of the translated outcome.
	Kind Kind

	// Status is the HTTP status code.
	Status int

	// Body is the response body. It is nil for [KindNoContent].
	Body any

	// Location points at a newly created resource. It is only set for
	// [KindCreated] outcomes that carry an action name and route values.
	Location *Reference
}

// Reference identifies a resource by the action (route name) that serves it
// and the values needed to build its URL.
//
// The rivaas.dev/outcome/routes package resolves a Reference into a URL.
type Reference struct {
	// Action is the name of the route serving the resource.
	Action string `json:"action,omitempty"`

	// RouteValues fill the route's path parameters. Values not used by the
	// path become query parameters.
	RouteValues map[string]any `json:"routeValues,omitempty"`

	// URL is a literal location. When set, Action and RouteValues are ignored.
	URL string `json:"url,omitempty"`
}

// ErrorList is the body of a [KindFailure] response:
//
//	{"errors": ["..."]}
type ErrorList struct {
	Errors []string `json:"errors" yaml:"errors" msgpack:"errors"`
}

// Translate maps an Outcome to a Response. It is a pure function: it performs
// no I/O, keeps no state and returns an equal Response for equal inputs.
//
// Mapping:
//
//	Success       override or 200  value
//	Created       201              value, Location from action + route values
//	NoContent     204              nil
//	Failure       500              ErrorList{errors}
//	NotFound      404              errors
//	Validation    422              value (the zero payload, not the errors)
//	Conflict      409              errors
//	Unauthorized  401              value
//	unknown       override or 200  value
//
// The status override is only honored for Success and for the default row.
func Translate[T any](o Outcome[T]) Response {
	resp := Response{Kind: o.kind, Status: o.kind.DefaultStatus()}

	switch o.kind {
	case KindSuccess:
		if status, ok := o.StatusCode(); ok {
			resp.Status = status
		}
		resp.Body = o.value

	case KindCreated:
		resp.Body = o.value
		if o.action != "" && o.routeValues != nil {
			resp.Location = &Reference{
				Action:      o.action,
				RouteValues: maps.Clone(o.routeValues),
			}
		}

	case KindNoContent:
		resp.Body = nil

	case KindFailure:
		resp.Body = ErrorList{Errors: slices.Clone(o.errs)}

	case KindNotFound, KindConflict:
		resp.Body = slices.Clone(o.errs)

	case KindValidation, KindUnauthorized:
		// Both echo the payload rather than the messages.
		resp.Body = o.value

	default:
		if status, ok := o.StatusCode(); ok {
			resp.Status = status
		}
		resp.Body = o.value
	}

	return resp
}
