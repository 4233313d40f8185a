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

// Package weather is a small forecast service that answers every request
// with an outcome: listing and fetching forecasts, creating them behind an
// API key, and deleting them.
package weather

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire layout of [Forecast.Date].
const DateLayout = time.DateOnly

// Summaries are the accepted forecast summaries.
var Summaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild", "Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

// Forecast is a daily forecast for a city.
type Forecast struct {
	ID           uuid.UUID `json:"id" yaml:"id"`
	City         string    `json:"city" yaml:"city"`
	Date         string    `json:"date" yaml:"date"`
	TemperatureC int       `json:"temperatureC" yaml:"temperatureC"`
	TemperatureF int       `json:"temperatureF" yaml:"temperatureF"`
	Summary      string    `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// CreateRequest is the body of a create call.
type CreateRequest struct {
	City         string `json:"city" yaml:"city" toml:"city" validate:"required,max=64"`
	Date         string `json:"date" yaml:"date" toml:"date" validate:"required,datetime=2006-01-02"`
	TemperatureC int    `json:"temperatureC" yaml:"temperatureC" toml:"temperatureC" validate:"gte=-90,lte=60"`
	Summary      string `json:"summary" yaml:"summary" toml:"summary" validate:"omitempty,oneof=Freezing Bracing Chilly Cool Mild Warm Balmy Hot Sweltering Scorching"`
}

// ListParams are the query parameters of a list call.
type ListParams struct {
	Days     int    `query:"days" validate:"gte=0,lte=14"`
	City     string `query:"city"`
	Envelope bool   `query:"envelope"`
}

// Fahrenheit converts a Celsius temperature the way the forecast feed does.
func Fahrenheit(c int) int {
	return 32 + int(float64(c)/0.5556)
}

func newForecast(city, date string, tempC int, summary string) Forecast {
	return Forecast{
		ID:           uuid.New(),
		City:         city,
		Date:         date,
		TemperatureC: tempC,
		TemperatureF: Fahrenheit(tempC),
		Summary:      summary,
	}
}
