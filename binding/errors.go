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

package binding

import (
	"errors"
	"fmt"
)

// Static errors for binding operations.
var (
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrRequestBodyNil         = errors.New("request body is nil")
	ErrEmptyBody              = errors.New("request body is empty")
	ErrBodyTooLarge           = errors.New("request body too large")
	ErrOutMustBePointer       = errors.New("out must be a non-nil pointer")
)

// BindError reports a value that could not be decoded from a request.
//
// Use [errors.As] to inspect it:
//
//	var bindErr *BindError
//	if errors.As(err, &bindErr) {
//		log.Printf("source=%s reason=%s", bindErr.Source, bindErr.Reason)
//	}
type BindError struct {
	Source string // codec type or "query"
	Reason string // human-readable reason
	Err    error  // underlying error
}

// Error returns "bind <source>: <reason>".
func (e *BindError) Error() string {
	if e.Reason == "" && e.Err != nil {
		return fmt.Sprintf("bind %s: %v", e.Source, e.Err)
	}

	return fmt.Sprintf("bind %s: %s", e.Source, e.Reason)
}

// Unwrap returns the underlying error.
func (e *BindError) Unwrap() error {
	return e.Err
}
