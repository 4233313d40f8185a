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

// Package openapi describes routes registered in a [routes.Registry] as an
// OpenAPI 3.1 document. Each operation lists one response per outcome kind
// it can produce, with the body the outcome translates to:
//
//	Success, Created  the declared response type
//	NoContent         no body
//	Failure           {"errors": [...]}
//	NotFound/Conflict an array of messages
//	Validation/Unauthorized the response type, or null
//
// Schemas are generated from Go types by reflection. Field names follow
// json tags, and validate tags add constraints (required, min/max, gte/lte,
// oneof, uuid, url, email).
//
//	b := openapi.New(openapi.WithTitle("Forecast API"))
//	b.Describe("GetForecast",
//	    openapi.Summary("Get a forecast"),
//	    openapi.Returns[weather.Forecast](outcome.KindSuccess, outcome.KindNotFound),
//	)
//	doc, err := b.Build(registry)
//
// A [Validator] checks response bodies against the document, which keeps
// handlers and their documentation in step in tests.
package openapi
