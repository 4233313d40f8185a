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

package weather_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/outcome/codec"
	"rivaas.dev/outcome/internal/weather"
	"rivaas.dev/outcome/logging"
	"rivaas.dev/outcome/metrics"
	"rivaas.dev/outcome/openapi"
	"rivaas.dev/outcome/problem"
	"rivaas.dev/outcome/render"
	"rivaas.dev/outcome/routes"
)

const apiKey = "s3cret"

type stack struct {
	server   *httptest.Server
	recorder *metrics.Recorder
	registry *routes.Registry
}

func newStack(renderOpts ...render.Option) *stack {
	logger := logging.MustNew(logging.WithOutput(GinkgoWriter), logging.WithLevel(logging.LevelWarn))
	reg := routes.New()
	rec := metrics.MustNew()

	opts := append([]render.Option{
		render.WithLinker(reg),
		render.WithRecorder(rec),
		render.WithLogger(logger),
	}, renderOpts...)
	w := render.MustNew(opts...)

	svc := weather.NewService(
		weather.WithLogger(logger),
		weather.WithClock(func() time.Time { return time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC) }),
		weather.WithHookFailureFunc(rec.RecordHookFailure),
	)
	h := weather.NewHandler(svc, w, weather.WithAPIKey(apiKey), weather.WithHandlerLogger(logger))

	mux := http.NewServeMux()
	Expect(h.Register(mux, reg)).To(Succeed())
	mux.Handle("GET /metrics", rec.Handler())

	return &stack{
		server:   httptest.NewServer(rec.Middleware(metrics.WithExcludePaths("/metrics"))(mux)),
		recorder: rec,
		registry: reg,
	}
}

func (s *stack) do(method, path, body string, headers map[string]string) (*http.Response, []byte) {
	req, err := http.NewRequest(method, s.server.URL+path, strings.NewReader(body))
	Expect(err).NotTo(HaveOccurred())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.server.Client().Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())

	return resp, data
}

const limaBody = `{"city":"Lima","date":"2025-03-11","temperatureC":19,"summary":"Warm"}`

var authJSON = map[string]string{weather.APIKeyHeader: apiKey, "Content-Type": "application/json"}

var _ = Describe("Weather API", func() {
	var s *stack

	BeforeEach(func() {
		s = newStack()
		DeferCleanup(s.server.Close)
	})

	Describe("GET /weatherforecast", func() {
		It("returns five generated forecasts by default", func() {
			resp, body := s.do(http.MethodGet, "/weatherforecast", "", nil)

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("application/json; charset=utf-8"))

			var got []weather.Forecast
			Expect(json.Unmarshal(body, &got)).To(Succeed())
			Expect(got).To(HaveLen(weather.DefaultDays))
			Expect(got[0].Date).To(Equal("2025-03-11"))
		})

		It("wraps the body in an envelope on request", func() {
			resp, body := s.do(http.MethodGet, "/weatherforecast?days=2&envelope=true", "", nil)

			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var got struct {
				IsSuccess bool               `json:"isSuccess"`
				Message   string             `json:"message"`
				Data      []weather.Forecast `json:"data"`
			}
			Expect(json.Unmarshal(body, &got)).To(Succeed())
			Expect(got.IsSuccess).To(BeTrue())
			Expect(got.Data).To(HaveLen(2))
		})

		It("answers 422 with the payload for bad query values", func() {
			resp, body := s.do(http.MethodGet, "/weatherforecast?days=many", "", nil)

			Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			Expect(body).To(MatchJSON(`null`))
		})

		It("negotiates YAML", func() {
			resp, body := s.do(http.MethodGet, "/weatherforecast?days=1", "", map[string]string{"Accept": "application/yaml"})

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(HavePrefix("application/yaml"))
			Expect(string(body)).To(ContainSubstring("temperatureC:"))
		})
	})

	Describe("POST /weatherforecast", func() {
		It("requires the API key", func() {
			resp, _ := s.do(http.MethodPost, "/weatherforecast", limaBody, map[string]string{"Content-Type": "application/json"})
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))

			resp, _ = s.do(http.MethodPost, "/weatherforecast", limaBody, map[string]string{weather.APIKeyHeader: "wrong"})
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("creates a forecast reachable at its Location", func() {
			resp, body := s.do(http.MethodPost, "/weatherforecast", limaBody, authJSON)

			Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			var created weather.Forecast
			Expect(json.Unmarshal(body, &created)).To(Succeed())
			Expect(created.TemperatureF).To(Equal(66))

			location := resp.Header.Get("Location")
			Expect(location).To(Equal("/weatherforecast/" + created.ID.String()))

			resp, body = s.do(http.MethodGet, location, "", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var fetched weather.Forecast
			Expect(json.Unmarshal(body, &fetched)).To(Succeed())
			Expect(fetched).To(Equal(created))
		})

		It("accepts YAML and answers MessagePack", func() {
			headers := map[string]string{
				weather.APIKeyHeader: apiKey,
				"Content-Type":       "application/yaml",
				"Accept":             "application/msgpack",
			}
			resp, body := s.do(http.MethodPost, "/weatherforecast", "city: Quito\ndate: \"2025-03-12\"\ntemperatureC: 14\n", headers)

			Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			Expect(resp.Header.Get("Content-Type")).To(Equal("application/msgpack"))

			dec, err := codec.GetDecoder(codec.TypeMsgPack)
			Expect(err).NotTo(HaveOccurred())
			var created map[string]any
			Expect(dec.Decode(body, &created)).To(Succeed())
			Expect(created).To(HaveKeyWithValue("city", "Quito"))
		})

		It("rejects duplicates with 409", func() {
			resp, _ := s.do(http.MethodPost, "/weatherforecast", limaBody, authJSON)
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))

			resp, body := s.do(http.MethodPost, "/weatherforecast", limaBody, authJSON)
			Expect(resp.StatusCode).To(Equal(http.StatusConflict))
			Expect(body).To(MatchJSON(`["forecast for Lima on 2025-03-11 already exists"]`))
		})

		It("rejects invalid bodies with 422", func() {
			resp, _ := s.do(http.MethodPost, "/weatherforecast", `{"city":""}`, authJSON)
			Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))

			resp, _ = s.do(http.MethodPost, "/weatherforecast", `{"city":`, authJSON)
			Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))

			resp, _ = s.do(http.MethodPost, "/weatherforecast", "a,b", map[string]string{weather.APIKeyHeader: apiKey, "Content-Type": "text/csv"})
			Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
		})
	})

	Describe("DELETE /weatherforecast/{id}", func() {
		It("deletes then reports not found", func() {
			_, body := s.do(http.MethodPost, "/weatherforecast", limaBody, authJSON)
			var created weather.Forecast
			Expect(json.Unmarshal(body, &created)).To(Succeed())
			path := "/weatherforecast/" + created.ID.String()

			resp, _ := s.do(http.MethodDelete, path, "", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))

			resp, body = s.do(http.MethodDelete, path, "", authJSON)
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(body).To(BeEmpty())

			resp, body = s.do(http.MethodGet, path, "", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(body).To(MatchJSON(`["forecast ` + created.ID.String() + ` not found"]`))
		})
	})

	Describe("GET /metrics", func() {
		It("exposes outcome counters by route pattern", func() {
			s.do(http.MethodPost, "/weatherforecast", limaBody, authJSON)
			s.do(http.MethodGet, "/weatherforecast/00000000-0000-0000-0000-000000000000", "", nil)

			resp, body := s.do(http.MethodGet, "/metrics", "", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(string(body)).To(ContainSubstring(`outcome_outcomes_total{kind="created",route="POST /weatherforecast",status="201"} 1`))
			Expect(string(body)).To(ContainSubstring(`outcome_outcomes_total{kind="not_found",route="GET /weatherforecast/{id}",status="404"} 1`))
			Expect(string(body)).To(ContainSubstring(`outcome_http_request_duration_seconds_count{method="POST",route="POST /weatherforecast",status_class="2xx"} 1`))
			Expect(string(body)).NotTo(ContainSubstring(`route="GET /metrics"`))
		})
	})
})

var _ = Describe("Weather API with problem details", func() {
	var s *stack

	BeforeEach(func() {
		f := problem.NewRFC9457("https://weather.example.com/problems")
		s = newStack(render.WithProblemFormatter(f))
		DeferCleanup(s.server.Close)
	})

	It("renders not found as application/problem+json", func() {
		resp, body := s.do(http.MethodGet, "/weatherforecast/00000000-0000-0000-0000-000000000000", "", nil)

		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		Expect(resp.Header.Get("Content-Type")).To(Equal("application/problem+json; charset=utf-8"))

		var got map[string]any
		Expect(json.Unmarshal(body, &got)).To(Succeed())
		Expect(got).To(HaveKeyWithValue("type", "https://weather.example.com/problems/not_found"))
		Expect(got).To(HaveKeyWithValue("code", "not_found"))
		Expect(got).To(HaveKeyWithValue("instance", "/weatherforecast/00000000-0000-0000-0000-000000000000"))
		Expect(got).To(HaveKey("error_id"))
	})

	It("lists every validation message", func() {
		resp, body := s.do(http.MethodPost, "/weatherforecast", `{"date":"tomorrow","temperatureC":99}`, authJSON)

		Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))

		var got map[string]any
		Expect(json.Unmarshal(body, &got)).To(Succeed())
		Expect(got["errors"]).To(ConsistOf(
			"city: is required",
			"date: must be a date in layout 2006-01-02",
			"temperatureC: must be at most 60",
		))
	})
})

var _ = Describe("Weather API contract", func() {
	var (
		s *stack
		v *openapi.Validator
	)

	BeforeEach(func() {
		s = newStack()
		DeferCleanup(s.server.Close)

		b := openapi.New(openapi.WithTitle("Weather"), openapi.WithAPIKeyHeader(weather.APIKeyHeader))
		weather.Describe(b, true)
		doc, err := b.Build(s.registry)
		Expect(err).NotTo(HaveOccurred())

		v, err = openapi.NewValidator(doc)
		Expect(err).NotTo(HaveOccurred())
	})

	check := func(method, documented string, resp *http.Response, body []byte) {
		GinkgoHelper()
		Expect(v.ValidateResponse(method, documented, resp.StatusCode, body)).To(Succeed())
	}

	It("answers every call with a documented body", func() {
		resp, body := s.do(http.MethodGet, "/weatherforecast?days=2", "", nil)
		check(http.MethodGet, "/weatherforecast", resp, body)

		resp, body = s.do(http.MethodGet, "/weatherforecast?days=99", "", nil)
		Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
		check(http.MethodGet, "/weatherforecast", resp, body)

		resp, body = s.do(http.MethodPost, "/weatherforecast", limaBody, nil)
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		check(http.MethodPost, "/weatherforecast", resp, body)

		resp, body = s.do(http.MethodPost, "/weatherforecast", limaBody, authJSON)
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))
		check(http.MethodPost, "/weatherforecast", resp, body)

		var created weather.Forecast
		Expect(json.Unmarshal(body, &created)).To(Succeed())
		path := "/weatherforecast/" + created.ID.String()

		resp, body = s.do(http.MethodPost, "/weatherforecast", limaBody, authJSON)
		Expect(resp.StatusCode).To(Equal(http.StatusConflict))
		check(http.MethodPost, "/weatherforecast", resp, body)

		resp, body = s.do(http.MethodGet, path, "", nil)
		check(http.MethodGet, "/weatherforecast/{id}", resp, body)

		resp, body = s.do(http.MethodDelete, path, "", authJSON)
		Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
		check(http.MethodDelete, "/weatherforecast/{id}", resp, body)

		resp, body = s.do(http.MethodGet, path, "", nil)
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		check(http.MethodGet, "/weatherforecast/{id}", resp, body)
	})

	It("flags bodies that drift from the document", func() {
		err := v.ValidateResponse(http.MethodGet, "/weatherforecast/{id}", http.StatusNotFound, []byte(`{"message":"gone"}`))
		Expect(err).To(MatchError(openapi.ErrResponseMismatch))

		err = v.ValidateResponse(http.MethodGet, "/weatherforecast/{id}", http.StatusTeapot, nil)
		Expect(err).To(MatchError(openapi.ErrUndocumented))
	})
})
