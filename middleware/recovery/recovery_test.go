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

package recovery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"

	"rivaas.dev/outcome"
	"rivaas.dev/outcome/logging"
	"rivaas.dev/outcome/middleware/requestid"
	"rivaas.dev/outcome/render"
	"rivaas.dev/outcome/tracing"
)

func panicking(v any) http.Handler {
	return http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic(v) })
}

func TestRecovery_RendersFailure(t *testing.T) {
	t.Parallel()

	th := logging.NewTestHelper(t)
	h := requestid.New(requestid.WithGenerator(func() string { return "req-7" }))(
		New(WithLogger(th.Logger), WithStackSize(64))(panicking("boom")),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body outcome.ErrorList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{Message}, body.Errors)

	entry, ok := th.Find(t, "panic recovered")
	require.True(t, ok)
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "boom", entry.Attrs["panic"])
	assert.Equal(t, "/explode", entry.Attrs["path"])
	assert.Equal(t, "req-7", entry.Attrs["request_id"])
	stack, _ := entry.Attrs["stack"].(string)
	assert.LessOrEqual(t, len(stack), 64)
	assert.NotEmpty(t, stack)
}

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	h := New(WithoutLogging())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRecovery_WithoutStackTrace(t *testing.T) {
	t.Parallel()

	th := logging.NewTestHelper(t)
	h := New(WithLogger(th.Logger), WithStackTrace(false))(panicking(fmt.Errorf("wrapped")))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	entry, ok := th.Find(t, "panic recovered")
	require.True(t, ok)
	assert.Equal(t, "wrapped", entry.Attrs["panic"])
	assert.NotContains(t, entry.Attrs, "stack")
}

func TestRecovery_CustomHandler(t *testing.T) {
	t.Parallel()

	var got any
	h := New(WithoutLogging(), WithHandler(func(w http.ResponseWriter, _ *http.Request, recovered any) {
		got = recovered
		w.WriteHeader(http.StatusServiceUnavailable)
	}))(panicking(42))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, 42, got)
}

func TestRecovery_CustomWriter(t *testing.T) {
	t.Parallel()

	h := New(WithoutLogging(), WithWriter(render.MustNew()))(panicking("x"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/yaml")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/yaml")
	assert.Contains(t, rec.Body.String(), Message)
}

func TestRecovery_AbortHandlerRepanics(t *testing.T) {
	t.Parallel()

	h := New(WithoutLogging())(panicking(http.ErrAbortHandler))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestRecovery_MarksSpan(t *testing.T) {
	t.Parallel()

	tracer, spans := tracing.TestingTracer(t)
	h := tracing.Middleware(tracer)(New(WithoutLogging())(panicking("traced")))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	var names []string
	for _, e := range ended[0].Events() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "exception")
	assert.Contains(t, names, "outcome.failure")
}
