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

// Package envelope wraps response bodies in a uniform success envelope:
//
//	{"isSuccess": true, "message": "", "data": {...}}
//	{"isSuccess": false, "message": "Not Found", "data": null}
//
// Helpers return an [outcome.Response] ready for render.Writer.Write. Do not
// combine envelopes with a problem formatter: the formatter replaces the
// envelope of failures.
package envelope
