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

package openapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/outcome"
	"rivaas.dev/outcome/render"
	"rivaas.dev/outcome/routes"
)

type listQuery struct {
	Limit   int    `query:"limit" validate:"gte=1,lte=50"`
	Search  string `query:"q" validate:"required"`
	Ignored string `query:"-"`
}

func newRegistry(t *testing.T) *routes.Registry {
	t.Helper()

	reg := routes.New()
	reg.MustAdd("ListItems", http.MethodGet, "/items")
	reg.MustAdd("GetItem", http.MethodGet, "/items/{id}")
	reg.MustAdd("CreateItem", http.MethodPost, "/items")
	reg.MustAdd("DeleteItem", http.MethodDelete, "/items/{id}")
	reg.MustAdd("Legacy", http.MethodGet, "/legacy/:name")

	return reg
}

func newBuilder(opts ...Option) *Builder {
	b := New(append([]Option{
		WithTitle("Items"),
		WithVersion("1.2.3"),
		WithServer("https://api.example.com"),
		WithAPIKeyHeader("X-API-Key"),
	}, opts...)...)

	b.Describe("ListItems", Summary("List items"), Tags("items"), Query[listQuery](),
		Returns[[]item](outcome.KindSuccess, outcome.KindValidation))
	b.Describe("GetItem", Returns[item](outcome.KindSuccess, outcome.KindNotFound, outcome.KindValidation))
	b.Describe("CreateItem", Secured(), Request[item](),
		Returns[item](outcome.KindCreated, outcome.KindConflict, outcome.KindUnauthorized, outcome.KindFailure))
	b.Describe("DeleteItem", Secured(), Returns[item](outcome.KindNoContent, outcome.KindNotFound))

	return b
}

func TestBuild(t *testing.T) {
	t.Parallel()

	doc, err := newBuilder().Build(newRegistry(t))
	require.NoError(t, err)

	assert.Equal(t, Version, doc.OpenAPI)
	assert.Equal(t, Info{Title: "Items", Version: "1.2.3"}, doc.Info)
	assert.Equal(t, []Server{{URL: "https://api.example.com"}}, doc.Servers)
	assert.ElementsMatch(t, []string{"/items", "/items/{id}", "/legacy/{name}"}, keys(doc.Paths))

	list := doc.Paths["/items"]["get"]
	require.NotNil(t, list)
	assert.Equal(t, "ListItems", list.OperationID)
	assert.Equal(t, []string{"items"}, list.Tags)
	require.Len(t, list.Parameters, 2)
	assert.Equal(t, Parameter{Name: "limit", In: "query", Schema: list.Parameters[0].Schema}, list.Parameters[0])
	assert.InDelta(t, 50.0, *list.Parameters[0].Schema.Maximum, 0)
	assert.True(t, list.Parameters[1].Required)
	assert.ElementsMatch(t, []string{"200", "422"}, keys(list.Responses))

	get := doc.Paths["/items/{id}"]["get"]
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, Parameter{Name: "id", In: "path", Required: true, Schema: &Schema{Type: "string"}}, get.Parameters[0])
	notFound := get.Responses["404"].Content["application/json"].Schema
	assert.Equal(t, "array", notFound.Type)

	create := doc.Paths["/items"]["post"]
	require.NotNil(t, create.RequestBody)
	assert.True(t, create.RequestBody.Required)
	assert.Equal(t, []map[string][]string{{"apiKey": {}}}, create.Security)
	assert.Contains(t, create.Responses["201"].Headers, "Location")
	assert.Equal(t, "#/components/schemas/outcome.ErrorList", create.Responses["500"].Content["application/json"].Schema.Ref)

	del := doc.Paths["/items/{id}"]["delete"]
	assert.Nil(t, del.Responses["204"].Content)

	legacy := doc.Paths["/legacy/{name}"]["get"]
	assert.Contains(t, legacy.Responses, "default")

	require.NotNil(t, doc.Components)
	assert.Contains(t, doc.Components.Schemas, "openapi.item")
	assert.Contains(t, doc.Components.Schemas, "outcome.ErrorList")
	assert.Equal(t, &SecurityScheme{Type: "apiKey", Name: "X-API-Key", In: "header"}, doc.Components.SecuritySchemes["apiKey"])
}

func TestBuild_ProblemDetails(t *testing.T) {
	t.Parallel()

	doc, err := newBuilder(WithProblemDetails(), WithMediaTypes("application/json", "application/yaml")).Build(newRegistry(t))
	require.NoError(t, err)

	get := doc.Paths["/items/{id}"]["get"]
	assert.Equal(t, []string{"application/problem+json"}, keys(get.Responses["404"].Content))
	assert.ElementsMatch(t, []string{"application/json", "application/yaml"}, keys(get.Responses["200"].Content))
	assert.Contains(t, doc.Components.Schemas, "problem.ProblemDetail")
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	b := New()
	b.Describe("Missing", Summary("nope"))
	_, err := b.Build(newRegistry(t))
	require.ErrorIs(t, err, ErrUnknownRoute)

	b = New()
	b.Describe("CreateItem", Secured())
	_, err = b.Build(newRegistry(t))
	require.ErrorIs(t, err, ErrNoSecurityScheme)
}

func TestOpenAPIPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/":                        "/",
		"/items/{id}":              "/items/{id}",
		"/users/:id/posts/:postId": "/users/{id}/posts/{postId}",
		"/files/{path...}":         "/files/{path}",
		"/dir/{$}":                 "/dir/",
	}
	for in, want := range tests {
		assert.Equal(t, want, openapiPath(in), in)
	}
}

func TestHandler(t *testing.T) {
	t.Parallel()

	doc, err := newBuilder().Build(newRegistry(t))
	require.NoError(t, err)
	h := Handler(doc, render.MustNew())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, Version, got["openapi"])
	assert.Contains(t, got["paths"], "/items/{id}")

	req := httptest.NewRequest(http.MethodGet, "/openapi", nil)
	req.Header.Set("Accept", "application/yaml")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/yaml")
	assert.Contains(t, rec.Body.String(), "openapi:")
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}
