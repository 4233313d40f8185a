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

// Package problem renders failed outcomes and other errors as HTTP error
// bodies.
//
// A [Formatter] turns an error into a [Response] carrying status, content
// type and body. Two formatters are provided:
//
//   - [RFC9457] produces "application/problem+json" Problem Details
//   - [Simple] produces {"error": "...", "details": ..., "code": "..."}
//
// Errors control the rendering by implementing the optional [ErrorType],
// [ErrorDetails] and [ErrorCode] interfaces. outcome.Error implements all
// three, so the value returned by Outcome.Err can be passed directly:
//
//	f := problem.NewRFC9457("https://api.example.com/problems")
//	resp := f.Format(req, res.Err())
//
// [WithStatus] attaches an explicit status to any error.
package problem
