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

// Package outcome models the terminal result of a domain operation and maps it
// to an HTTP response.
//
// An [Outcome] is an immutable value tagged with one of eight kinds: three
// success kinds ([KindSuccess], [KindCreated], [KindNoContent]) and five
// failure kinds ([KindFailure], [KindNotFound], [KindValidation],
// [KindConflict], [KindUnauthorized]). It carries an optional payload, an
// optional list of error messages and response-shaping metadata.
//
// [Translate] is a pure function that turns an Outcome into a [Response]
// (status code, body and, for created resources, a [Reference] to the new
// resource). Writing that Response to the wire is left to the caller, or to
// the rivaas.dev/outcome/render package.
//
// The package is independent of any HTTP framework.
//
// # Quick Start
//
//	func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
//		res := h.svc.Find(r.PathValue("id")) // outcome.Outcome[User]
//		resp := outcome.Translate(res)
//		w.Header().Set("Content-Type", "application/json")
//		w.WriteHeader(resp.Status)
//		json.NewEncoder(w).Encode(resp.Body)
//	}
//
//	func (s *Service) Find(id string) outcome.Outcome[User] {
//		u, ok := s.users[id]
//		if !ok {
//			return outcome.NotFound[User]("user " + id + " not found")
//		}
//		return outcome.Success(u)
//	}
//
// # Construction
//
// Each kind has a dedicated factory. Factories that can be misused by the
// caller ([Created], [Failure], [New]) return an error wrapping
// [ErrInvalidArgument] or [ErrInvalidState]; such errors are programming bugs
// in the caller and are never converted into a response. [Must] turns them
// into panics.
//
// Domain failures are represented, not returned as errors: callers branch on
// [Outcome.Kind] or [Outcome.IsSuccess]. [Outcome.Err] exposes a failure as an
// error that implements the optional interfaces used by the
// rivaas.dev/outcome/problem formatters.
//
// # Hooks
//
// [OnSuccess] and [OnFailure] run an observer callback inline after an Outcome
// is produced. Errors and panics raised by the callback are logged and
// swallowed so an observer can never change the response.
package outcome
