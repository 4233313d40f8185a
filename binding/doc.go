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

// Package binding decodes HTTP request bodies and query strings into Go
// values.
//
// Bodies are decoded with the codec registered for the request's
// Content-Type (JSON, YAML, TOML or MessagePack by default), size-limited,
// and optionally validated:
//
//	req, err := binding.Body[CreateForecast](r, binding.WithValidator(v))
//	var verr *validation.Error
//	switch {
//	case errors.As(err, &verr):
//		return outcome.ValidationError[Forecast](verr.Messages()...)
//	case err != nil:
//		return outcome.ValidationError[Forecast](err.Error())
//	}
//
// Query strings bind to fields tagged `query`:
//
//	type listParams struct {
//		Days int      `query:"days"`
//		City []string `query:"city"`
//	}
//	p, err := binding.Query[listParams](r)
package binding
