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

// Package routes keeps a registry of named routes and builds URLs from a
// route name and a set of route values.
//
// Patterns use either ":name" or "{name}" parameters; "{name...}" matches the
// rest of the path and "{$}" anchors the end, as in [net/http.ServeMux]:
//
//	reg := routes.New(routes.WithBaseURL("https://api.example.com"))
//	reg.MustAdd("GetForecast", http.MethodGet, "/weatherforecast/{id}")
//
//	u, _ := reg.URLFor("GetForecast", map[string]any{"id": 42, "units": "metric"})
//	// https://api.example.com/weatherforecast/42?units=metric
//
// Values not consumed by the path become query parameters. The registry
// resolves the created-at references produced by outcome.Translate into
// Location header values.
package routes
