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
	"errors"
	"strings"
)

// Construction errors. Both indicate a bug in the calling code, not a domain
// failure, and are never translated into a response.
var (
	// ErrInvalidArgument is returned when a factory receives an argument it
	// cannot accept, such as a blank action name or a success kind passed to
	// [Failure].
	ErrInvalidArgument = errors.New("outcome: invalid argument")

	// ErrInvalidState is returned when the requested combination of fields
	// would break an invariant: a success carrying errors or a failure
	// carrying a value.
	ErrInvalidState = errors.New("outcome: invalid state")
)

// Error is the error form of a failed [Outcome], returned by [Outcome.Err].
//
// It implements the optional HTTPStatus, Details and Code interfaces that the
// rivaas.dev/outcome/problem formatters look for.
type Error struct {
	Kind     Kind
	Messages []string
}

// Error joins the messages with "; ".
func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return e.Kind.String()
	}

	return strings.Join(e.Messages, "; ")
}

// HTTPStatus returns the default status code of the failure kind.
func (e *Error) HTTPStatus() int {
	return e.Kind.DefaultStatus()
}

// Details returns the individual messages.
func (e *Error) Details() any {
	return e.Messages
}

// Code returns the kind name, e.g. "not_found".
func (e *Error) Code() string {
	return e.Kind.String()
}

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, &outcome.Error{Kind: outcome.KindNotFound}).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok || other == nil {
		return false
	}

	return other.Kind == e.Kind
}
