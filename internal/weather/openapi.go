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

package weather

import (
	"slices"

	"rivaas.dev/outcome"
	"rivaas.dev/outcome/openapi"
)

// Describe documents the forecast routes in b. Create and delete are secured
// only when secured is true, matching [WithAPIKey].
func Describe(b *openapi.Builder, secured bool) {
	write := []openapi.OperationOption{openapi.Tags("forecasts")}
	if secured {
		write = append(write, openapi.Secured())
	}

	b.Describe(RouteListForecasts,
		openapi.Summary("List forecasts"),
		openapi.Description("Generated forecasts for the coming days followed by the stored ones. envelope=true wraps the body."),
		openapi.Tags("forecasts"),
		openapi.Query[ListParams](),
		openapi.Returns[[]Forecast](outcome.KindSuccess, outcome.KindValidation, outcome.KindFailure),
	)
	b.Describe(RouteGetForecast,
		openapi.Summary("Get a stored forecast"),
		openapi.Tags("forecasts"),
		openapi.Returns[Forecast](outcome.KindSuccess, outcome.KindNotFound, outcome.KindValidation, outcome.KindFailure),
	)
	b.Describe(RouteCreateForecast, slices.Concat(write, []openapi.OperationOption{
		openapi.Summary("Store a forecast"),
		openapi.Request[CreateRequest](),
		openapi.Returns[Forecast](outcome.KindCreated, outcome.KindConflict, outcome.KindValidation,
			outcome.KindUnauthorized, outcome.KindFailure),
	})...)
	b.Describe(RouteDeleteForecast, slices.Concat(write, []openapi.OperationOption{
		openapi.Summary("Delete a stored forecast"),
		openapi.Returns[Forecast](outcome.KindNoContent, outcome.KindNotFound, outcome.KindValidation,
			outcome.KindUnauthorized, outcome.KindFailure),
	})...)
}
