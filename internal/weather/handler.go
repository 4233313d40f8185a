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
	"crypto/subtle"
	"errors"
	"net/http"

	"rivaas.dev/outcome"
	"rivaas.dev/outcome/binding"
	"rivaas.dev/outcome/envelope"
	"rivaas.dev/outcome/logging"
	"rivaas.dev/outcome/render"
	"rivaas.dev/outcome/routes"
	"rivaas.dev/outcome/validation"
)

// Route names. RouteGetForecast is the target of created outcomes.
const (
	RouteListForecasts  = "ListForecasts"
	RouteGetForecast    = "GetForecast"
	RouteCreateForecast = "CreateForecast"
	RouteDeleteForecast = "DeleteForecast"
)

// APIKeyHeader carries the key required by write operations.
const APIKeyHeader = "X-API-Key"

// HandlerOption configures a [Handler].
type HandlerOption func(*Handler)

// WithAPIKey requires key in the [APIKeyHeader] of create and delete calls.
// An empty key disables the check.
func WithAPIKey(key string) HandlerOption {
	return func(h *Handler) { h.apiKey = key }
}

// WithMaxBodySize limits create request bodies.
func WithMaxBodySize(n int64) HandlerOption {
	return func(h *Handler) { h.maxBodySize = n }
}

// WithHandlerLogger logs responses that could not be written.
func WithHandlerLogger(logger *logging.Logger) HandlerOption {
	return func(h *Handler) { h.logger = logger }
}

// Handler exposes a [Service] over HTTP.
type Handler struct {
	svc         *Service
	render      *render.Writer
	apiKey      string
	maxBodySize int64
	logger      *logging.Logger
	query       *validation.Validator
}

// NewHandler creates a Handler writing responses with w.
func NewHandler(svc *Service, w *render.Writer, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:         svc,
		render:      w,
		maxBodySize: binding.DefaultMaxBodySize,
		query:       validation.MustNew(validation.WithFieldNameTag("query")),
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Register adds the forecast routes to mux and names them in reg.
func (h *Handler) Register(mux *http.ServeMux, reg *routes.Registry) error {
	return errors.Join(
		reg.HandleFunc(mux, RouteListForecasts, http.MethodGet, "/weatherforecast", h.list),
		reg.HandleFunc(mux, RouteGetForecast, http.MethodGet, "/weatherforecast/{id}", h.get),
		reg.HandleFunc(mux, RouteCreateForecast, http.MethodPost, "/weatherforecast", h.create),
		reg.HandleFunc(mux, RouteDeleteForecast, http.MethodDelete, "/weatherforecast/{id}", h.delete),
	)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params, err := binding.Query[ListParams](r, binding.WithValidator(h.query))
	if err != nil {
		respond(h, w, r, bindFailure[[]Forecast](err))
		return
	}

	res := h.svc.List(r.Context(), params)
	if params.Envelope {
		h.check(r, h.render.Write(w, r, envelope.Of(res)))
		return
	}
	respond(h, w, r, res)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	respond(h, w, r, h.svc.Get(r.Context(), r.PathValue("id")))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		respond(h, w, r, outcome.Unauthorized[Forecast]("missing or invalid API key"))
		return
	}

	req, err := binding.Body[CreateRequest](r, binding.WithMaxBodySize(h.maxBodySize))
	if err != nil {
		respond(h, w, r, bindFailure[Forecast](err))
		return
	}

	respond(h, w, r, h.svc.Create(r.Context(), req))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		respond(h, w, r, outcome.Unauthorized[Forecast]("missing or invalid API key"))
		return
	}

	respond(h, w, r, h.svc.Delete(r.Context(), r.PathValue("id")))
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.apiKey == "" {
		return true
	}

	return subtle.ConstantTimeCompare([]byte(r.Header.Get(APIKeyHeader)), []byte(h.apiKey)) == 1
}

func respond[T any](h *Handler, w http.ResponseWriter, r *http.Request, o outcome.Outcome[T]) {
	h.check(r, render.Respond(h.render, w, r, o))
}

func (h *Handler) check(r *http.Request, err error) {
	if err != nil && h.logger != nil {
		h.logger.LogError(err, "write response failed", "path", r.URL.Path)
	}
}

// bindFailure turns a request decoding error into a validation outcome.
func bindFailure[T any](err error) outcome.Outcome[T] {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return outcome.ValidationError[T](verr.Messages()...)
	}

	return outcome.ValidationError[T](err.Error())
}
