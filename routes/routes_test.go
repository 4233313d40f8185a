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

package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/outcome"
)

func TestURLFor(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.MustAdd("Root", http.MethodGet, "/")
	reg.MustAdd("GetForecast", http.MethodGet, "/weatherforecast/{id}")
	reg.MustAdd("GetUserPost", http.MethodGet, "/users/:userId/posts/:postId")
	reg.MustAdd("Files", http.MethodGet, "/files/{path...}")
	reg.MustAdd("Dir", http.MethodGet, "/dir/{$}")

	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	tests := []struct {
		name   string
		route  string
		values map[string]any
		want   string
	}{
		{name: "root", route: "Root", want: "/"},
		{name: "int value", route: "GetForecast", values: map[string]any{"id": 42}, want: "/weatherforecast/42"},
		{name: "uuid value", route: "GetForecast", values: map[string]any{"id": id}, want: "/weatherforecast/550e8400-e29b-41d4-a716-446655440000"},
		{name: "escaped value", route: "GetForecast", values: map[string]any{"id": "a b/c"}, want: "/weatherforecast/a%20b%2Fc"},
		{
			name:   "leftover values become sorted query",
			route:  "GetForecast",
			values: map[string]any{"id": 1, "units": "metric", "days": 3, "tags": []string{"x", "y"}},
			want:   "/weatherforecast/1?days=3&tags=x&tags=y&units=metric",
		},
		{name: "colon params", route: "GetUserPost", values: map[string]any{"userId": "u1", "postId": 9}, want: "/users/u1/posts/9"},
		{name: "rest param keeps slashes", route: "Files", values: map[string]any{"path": "docs/read me.md"}, want: "/files/docs/read%20me.md"},
		{name: "anchored trailing slash", route: "Dir", want: "/dir/"},
		{name: "nil values skipped in query", route: "Root", values: map[string]any{"q": nil}, want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reg.URLFor(tt.route, tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLFor_Errors(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.MustAdd("GetForecast", http.MethodGet, "/weatherforecast/{id}")

	_, err := reg.URLFor("Missing", nil)
	require.ErrorIs(t, err, ErrRouteNotFound)

	_, err = reg.URLFor("GetForecast", map[string]any{})
	require.ErrorIs(t, err, ErrMissingParam)

	_, err = reg.URLFor("GetForecast", map[string]any{"id": ""})
	require.ErrorIs(t, err, ErrMissingParam)

	_, err = reg.URLFor("GetForecast", map[string]any{"id": struct{}{}})
	require.Error(t, err)

	assert.Panics(t, func() { reg.MustURLFor("Missing", nil) })
}

func TestAdd_Errors(t *testing.T) {
	t.Parallel()

	reg := New()
	require.NoError(t, reg.Add("A", http.MethodGet, "/a"))

	tests := []struct {
		name    string
		route   string
		pattern string
		want    error
	}{
		{name: "duplicate", route: "A", pattern: "/b", want: ErrDuplicateRoute},
		{name: "empty name", route: " ", pattern: "/b", want: ErrInvalidPattern},
		{name: "relative", route: "B", pattern: "b", want: ErrInvalidPattern},
		{name: "empty colon param", route: "C", pattern: "/x/:", want: ErrInvalidPattern},
		{name: "empty brace param", route: "D", pattern: "/x/{}", want: ErrInvalidPattern},
		{name: "rest not last", route: "E", pattern: "/x/{p...}/y", want: ErrInvalidPattern},
		{name: "anchor not last", route: "F", pattern: "/x/{$}/y", want: ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, reg.Add(tt.route, http.MethodGet, tt.pattern), tt.want)
		})
	}

	assert.Panics(t, func() { reg.MustAdd("A", http.MethodGet, "/a") })
}

func TestResolve(t *testing.T) {
	t.Parallel()

	reg := New(WithBaseURL("https://api.example.com/"))
	reg.MustAdd("GetForecast", http.MethodGet, "/weatherforecast/{id}")

	res := outcome.Must(outcome.Created("payload", "GetForecast", map[string]any{"id": 7}))
	loc := outcome.Translate(res).Location

	got, err := reg.Resolve(loc)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/weatherforecast/7", got)

	got, err = reg.Resolve(&outcome.Reference{URL: "/elsewhere/1", Action: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/1", got)

	_, err = reg.Resolve(nil)
	require.ErrorIs(t, err, ErrRouteNotFound)
}

func TestHandle(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	reg := New()

	err := reg.HandleFunc(mux, "GetForecast", http.MethodGet, "/weatherforecast/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.PathValue("id")))
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, reg.MustURLFor("GetForecast", map[string]any{"id": 5}), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", rec.Body.String())

	rt, ok := reg.Route("GetForecast")
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, rt.Params)
	assert.Equal(t, "GET", rt.Method)

	require.ErrorIs(t, reg.Handle(mux, "GetForecast", http.MethodGet, "/other/{id}", http.NotFoundHandler()), ErrDuplicateRoute)

	names := make([]string, 0)
	for _, r := range reg.Routes() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"GetForecast"}, names)
}
