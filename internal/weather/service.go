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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"rivaas.dev/outcome"
	"rivaas.dev/outcome/logging"
	"rivaas.dev/outcome/validation"
)

// DefaultDays is the number of generated days when a list call asks for none.
const DefaultDays = 5

// Auditor is told about every forecast created or deleted. Its errors are
// logged and never change the response.
type Auditor func(ctx context.Context, event string, f Forecast) error

// Option configures a [Service].
type Option func(*Service)

// WithStore replaces the default [MemoryStore].
func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

// WithClock sets the time source for generated dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandom sets the source of generated temperatures and summaries.
// intN must return a value in [0, n).
func WithRandom(intN func(n int) int) Option {
	return func(s *Service) { s.intN = intN }
}

// WithDefaultCity names the city of generated forecasts.
func WithDefaultCity(city string) Option {
	return func(s *Service) { s.defaultCity = city }
}

// WithLogger sets the service logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithAuditor registers an [Auditor].
func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

// WithHookFailureFunc is called with the hook name whenever the auditor
// fails, e.g. to count failures in metrics.
func WithHookFailureFunc(fn func(name string)) Option {
	return func(s *Service) { s.onHookFailure = fn }
}

// Service implements the forecast operations. Every method returns an
// outcome and never an error.
type Service struct {
	store         Store
	validator     *validation.Validator
	logger        *logging.Logger
	now           func() time.Time
	intN          func(n int) int
	defaultCity   string
	auditor       Auditor
	onHookFailure func(name string)
}

// NewService creates a Service.
func NewService(opts ...Option) *Service {
	s := &Service{
		store:       NewMemoryStore(),
		validator:   validation.MustNew(),
		now:         time.Now,
		intN:        rand.IntN,
		defaultCity: "Oslo",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.MustNew(logging.WithCustomLogger(slog.Default()))
	}

	return s
}

// List returns params.Days generated forecasts (DefaultDays when zero)
// followed by the stored ones, both restricted to params.City when set.
func (s *Service) List(ctx context.Context, params ListParams) outcome.Outcome[[]Forecast] {
	if params.Days < 0 || params.Days > 14 {
		return outcome.ValidationError[[]Forecast]("days: must be between 0 and 14")
	}

	days := params.Days
	if days == 0 {
		days = DefaultDays
	}
	city := params.City
	if city == "" {
		city = s.defaultCity
	}

	today := s.now()
	out := make([]Forecast, 0, days)
	for i := 1; i <= days; i++ {
		out = append(out, newForecast(
			city,
			today.AddDate(0, 0, i).Format(DateLayout),
			s.intN(75)-20,
			Summaries[s.intN(len(Summaries))],
		))
	}

	stored, err := s.store.List(ctx, params.City)
	if err != nil {
		return internalError[[]Forecast](s, err, "list")
	}

	return outcome.Success(append(out, stored...))
}

// Get returns the stored forecast with the given id.
func (s *Service) Get(ctx context.Context, rawID string) outcome.Outcome[Forecast] {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return outcome.ValidationError[Forecast]("id: must be a valid UUID")
	}

	f, err := s.store.Get(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return outcome.NotFound[Forecast](fmt.Sprintf("forecast %s not found", id))
	case err != nil:
		return internalError[Forecast](s, err, "get")
	}

	return outcome.Success(f)
}

// Create validates and stores a forecast. The created outcome points at
// the [RouteGetForecast] route.
func (s *Service) Create(ctx context.Context, req CreateRequest) outcome.Outcome[Forecast] {
	if err := s.validator.Validate(req); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return outcome.ValidationError[Forecast](verr.Messages()...)
		}

		return outcome.ValidationError[Forecast](err.Error())
	}

	f := newForecast(req.City, req.Date, req.TemperatureC, req.Summary)
	err := s.store.Add(ctx, f)
	switch {
	case errors.Is(err, ErrExists):
		return outcome.Conflict[Forecast](fmt.Sprintf("forecast for %s on %s already exists", req.City, req.Date))
	case err != nil:
		return internalError[Forecast](s, err, "create")
	}

	res, err := outcome.Created(f, RouteGetForecast, map[string]any{"id": f.ID})
	if err != nil {
		return internalError[Forecast](s, err, "create")
	}

	return outcome.OnSuccess(res, func(f Forecast) error {
		s.logger.Info("forecast created", "id", f.ID.String(), "city", f.City, "date", f.Date)
		return s.audit(ctx, "forecast.created", f)
	}, s.hookOptions()...)
}

// Delete removes the stored forecast with the given id.
func (s *Service) Delete(ctx context.Context, rawID string) outcome.Outcome[Forecast] {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return outcome.ValidationError[Forecast]("id: must be a valid UUID")
	}

	f, err := s.store.Get(ctx, id)
	if err == nil {
		err = s.store.Delete(ctx, id)
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return outcome.NotFound[Forecast](fmt.Sprintf("forecast %s not found", id))
	case err != nil:
		return internalError[Forecast](s, err, "delete")
	}

	if s.auditor != nil {
		outcome.OnSuccess(outcome.Success(f), func(f Forecast) error {
			return s.audit(ctx, "forecast.deleted", f)
		}, s.hookOptions()...)
	}

	return outcome.NoContent[Forecast]()
}

func (s *Service) audit(ctx context.Context, event string, f Forecast) error {
	if s.auditor == nil {
		return nil
	}

	return s.auditor(ctx, event, f)
}

func (s *Service) hookOptions() []outcome.HookOption {
	return []outcome.HookOption{
		outcome.WithHookLogger(s.logger.Logger()),
		outcome.WithHookName("audit"),
		outcome.WithHookFailureFunc(s.onHookFailure),
	}
}

func internalError[T any](s *Service, err error, op string) outcome.Outcome[T] {
	s.logger.LogError(err, "forecast store failed", "op", op)
	return outcome.Must(outcome.Failure[T](outcome.KindFailure, "internal error"))
}
