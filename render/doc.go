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

// Package render writes translated outcomes to HTTP responses.
//
// A [Writer] negotiates the response encoding from the Accept header over
// the codecs of a [codec.Registry] (JSON, YAML and MessagePack by default),
// resolves Created references into a Location header, optionally renders
// failures as problem details, and records every written outcome.
//
//	w := render.MustNew(
//		render.WithLinker(routes),
//		render.WithProblemFormatter(problem.NewRFC9457("https://api.example.com/problems")),
//		render.WithRecorder(recorder),
//	)
//
//	func (h *Handler) get(rw http.ResponseWriter, r *http.Request) {
//		res := h.svc.Get(r.Context(), r.PathValue("id"))
//		_ = render.Respond(h.render, rw, r, res)
//	}
package render
