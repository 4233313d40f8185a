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

// Package recovery turns handler panics into a rendered Failure outcome.
//
// The panic is logged with a truncated stack trace, the request ID and the
// trace ID, and recorded on the active span. [http.ErrAbortHandler] is
// re-raised so net/http can abort the connection as usual.
//
//	writer := render.MustNew()
//	handler := recovery.New(
//	    recovery.WithWriter(writer),
//	    recovery.WithLogger(logger),
//	)(mux)
//
// Register it inside request ID and tracing middleware so those values are
// in the request context when a panic is logged.
package recovery
