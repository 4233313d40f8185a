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

// Package requestid tags each request with a unique ID.
//
// The ID comes from the request header when the client sent one (unless
// disabled), otherwise it is generated. It is echoed in the response header
// and stored in the request context:
//
//	handler := requestid.New()(mux)
//
//	func get(w http.ResponseWriter, r *http.Request) {
//	    logger.Info("processing request", "request_id", requestid.Get(r.Context()))
//	}
//
// UUID v7 is the default generator. [WithULID] switches to 26-character
// ULIDs.
package requestid
