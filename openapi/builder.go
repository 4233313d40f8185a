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
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"rivaas.dev/outcome"
	"rivaas.dev/outcome/problem"
	"rivaas.dev/outcome/render"
	"rivaas.dev/outcome/routes"
)

const (
	mediaTypeJSON    = "application/json"
	mediaTypeProblem = "application/problem+json"
	apiKeyScheme     = "apiKey"
)

var (
	// ErrUnknownRoute is returned by [Builder.Build] when a described route
	// is not registered.
	ErrUnknownRoute = errors.New("described route is not registered")

	// ErrNoSecurityScheme is returned by [Builder.Build] when an operation is
	// [Secured] but no scheme was configured.
	ErrNoSecurityScheme = errors.New("secured operation without security scheme")
)

// Option configures a [Builder].
type Option func(*Builder)

// WithTitle sets info.title.
func WithTitle(title string) Option {
	return func(b *Builder) { b.info.Title = title }
}

// WithVersion sets info.version, the API version.
func WithVersion(version string) Option {
	return func(b *Builder) { b.info.Version = version }
}

// WithDescription sets info.description.
func WithDescription(desc string) Option {
	return func(b *Builder) { b.info.Description = desc }
}

// WithServer adds a server URL.
func WithServer(url string) Option {
	return func(b *Builder) {
		if url != "" {
			b.servers = append(b.servers, Server{URL: url})
		}
	}
}

// WithMediaTypes lists the media types bodies are offered in. Defaults to
// application/json.
func WithMediaTypes(mediaTypes ...string) Option {
	return func(b *Builder) { b.mediaTypes = mediaTypes }
}

// WithAPIKeyHeader declares the API key scheme used by [Secured] operations.
func WithAPIKeyHeader(name string) Option {
	return func(b *Builder) { b.apiKeyHeader = name }
}

// WithProblemDetails documents failure responses as RFC 9457 problem
// details.
func WithProblemDetails() Option {
	return func(b *Builder) { b.problems = true }
}

// OperationOption describes one operation.
type OperationOption func(*operation)

type operation struct {
	request  reflect.Type
	query    reflect.Type
	response reflect.Type
	summary  string
	desc     string
	tags     []string
	kinds    []outcome.Kind
	secured  bool
}

// Summary sets the operation summary.
func Summary(s string) OperationOption {
	return func(op *operation) { op.summary = s }
}

// Description sets the operation description.
func Description(s string) OperationOption {
	return func(op *operation) { op.desc = s }
}

// Tags groups the operation.
func Tags(tags ...string) OperationOption {
	return func(op *operation) { op.tags = append(op.tags, tags...) }
}

// Request documents a required request body of type T.
func Request[T any]() OperationOption {
	return func(op *operation) { op.request = reflect.TypeFor[T]() }
}

// Query documents the query parameters bound into T, named by query tags.
func Query[T any]() OperationOption {
	return func(op *operation) { op.query = reflect.TypeFor[T]() }
}

// Returns documents the outcome kinds the operation produces for an
// Outcome[T].
func Returns[T any](kinds ...outcome.Kind) OperationOption {
	return func(op *operation) {
		op.response = reflect.TypeFor[T]()
		op.kinds = append(op.kinds, kinds...)
	}
}

// Secured requires the API key scheme.
func Secured() OperationOption {
	return func(op *operation) { op.secured = true }
}

// Builder collects operation descriptions for named routes.
type Builder struct {
	info         Info
	servers      []Server
	mediaTypes   []string
	apiKeyHeader string
	ops          map[string]*operation
	problems     bool
}

// New creates a [Builder].
func New(opts ...Option) *Builder {
	b := &Builder{
		info:       Info{Title: "API", Version: "0.0.0"},
		mediaTypes: []string{mediaTypeJSON},
		ops:        make(map[string]*operation),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Describe attaches documentation to the route registered under name.
// Describing a name twice adds to the earlier description.
func (b *Builder) Describe(name string, opts ...OperationOption) {
	op, ok := b.ops[name]
	if !ok {
		op = &operation{}
		b.ops[name] = op
	}
	for _, opt := range opts {
		opt(op)
	}
}

// Build documents every route in reg. Routes without a description get a
// default response only.
func (b *Builder) Build(reg *routes.Registry) (*Document, error) {
	registered := reg.Routes()
	for name := range b.ops {
		if !slices.ContainsFunc(registered, func(rt routes.Route) bool { return rt.Name == name }) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, name)
		}
	}

	g := newGenerator()
	doc := &Document{
		OpenAPI: Version,
		Info:    b.info,
		Servers: b.servers,
		Paths:   make(map[string]PathItem),
	}

	for _, rt := range registered {
		op, err := b.operation(g, rt)
		if err != nil {
			return nil, err
		}

		path := openapiPath(rt.Pattern)
		item, ok := doc.Paths[path]
		if !ok {
			item = make(PathItem)
			doc.Paths[path] = item
		}
		method := strings.ToLower(rt.Method)
		if method == "" {
			method = "get"
		}
		item[method] = op
	}

	components := &Components{Schemas: g.schemas}
	if b.apiKeyHeader != "" {
		components.SecuritySchemes = map[string]*SecurityScheme{
			apiKeyScheme: {Type: "apiKey", Name: b.apiKeyHeader, In: "header"},
		}
	}
	if len(components.Schemas) > 0 || components.SecuritySchemes != nil {
		doc.Components = components
	}

	return doc, nil
}

func (b *Builder) operation(g *generator, rt routes.Route) (*Operation, error) {
	op := &Operation{OperationID: rt.Name, Responses: make(map[string]*Response)}
	for _, p := range rt.Params {
		op.Parameters = append(op.Parameters, Parameter{Name: p, In: "path", Required: true, Schema: &Schema{Type: "string"}})
	}

	desc, ok := b.ops[rt.Name]
	if !ok {
		op.Responses["default"] = &Response{Description: "Response"}
		return op, nil
	}

	op.Summary = desc.summary
	op.Description = desc.desc
	op.Tags = desc.tags
	if desc.secured {
		if b.apiKeyHeader == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoSecurityScheme, rt.Name)
		}
		op.Security = []map[string][]string{{apiKeyScheme: {}}}
	}
	if desc.query != nil {
		op.Parameters = append(op.Parameters, queryParameters(g, desc.query)...)
	}
	if desc.request != nil {
		op.RequestBody = &RequestBody{Required: true, Content: b.content(g.generate(desc.request))}
	}

	for _, kind := range desc.kinds {
		status := strconv.Itoa(kind.DefaultStatus())
		if _, exists := op.Responses[status]; exists {
			continue
		}
		op.Responses[status] = b.response(g, kind, desc.response)
	}
	if len(op.Responses) == 0 {
		op.Responses["default"] = &Response{Description: "Response"}
	}

	return op, nil
}

// response documents the body [outcome.Translate] produces for kind.
func (b *Builder) response(g *generator, kind outcome.Kind, payload reflect.Type) *Response {
	resp := &Response{Description: http.StatusText(kind.DefaultStatus())}

	if kind.IsFailure() && b.problems {
		resp.Content = map[string]MediaType{mediaTypeProblem: {Schema: g.generate(reflect.TypeFor[problem.ProblemDetail]())}}
		return resp
	}

	switch kind {
	case outcome.KindNoContent:
	case outcome.KindFailure:
		resp.Content = b.content(g.generate(reflect.TypeFor[outcome.ErrorList]()))
	case outcome.KindNotFound, outcome.KindConflict:
		resp.Content = b.content(&Schema{Type: "array", Items: &Schema{Type: "string"}})
	case outcome.KindValidation, outcome.KindUnauthorized:
		resp.Content = b.content(nullable(g.generate(payload)))
	case outcome.KindCreated:
		resp.Headers = map[string]*Header{
			"Location": {Description: "URL of the created resource", Schema: &Schema{Type: "string", Format: "uri-reference"}},
		}
		resp.Content = b.content(g.generate(payload))
	default:
		resp.Content = b.content(g.generate(payload))
	}

	return resp
}

func (b *Builder) content(s *Schema) map[string]MediaType {
	out := make(map[string]MediaType, len(b.mediaTypes))
	for _, mt := range b.mediaTypes {
		out[mt] = MediaType{Schema: s}
	}

	return out
}

func queryParameters(g *generator, t reflect.Type) []Parameter {
	var params []Parameter
	walkFields(t, func(f reflect.StructField) {
		name, _, _ := strings.Cut(f.Tag.Get("query"), ",")
		if !f.IsExported() || name == "-" {
			return
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}

		s := g.generate(f.Type)
		applyValidationConstraints(s, f.Tag.Get("validate"))
		params = append(params, Parameter{Name: name, In: "query", Required: isFieldRequired(f), Schema: s})
	})

	return params
}

// openapiPath rewrites a route pattern into OpenAPI form: ":id" and
// "{path...}" become "{id}" and "{path}", and a trailing "{$}" is dropped.
func openapiPath(pattern string) string {
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		switch {
		case seg == "{$}":
			segments[i] = ""
		case strings.HasPrefix(seg, ":"):
			segments[i] = "{" + seg[1:] + "}"
		case strings.HasSuffix(seg, "...}"):
			segments[i] = strings.TrimSuffix(seg, "...}") + "}"
		}
	}

	return strings.Join(segments, "/")
}

// Handler serves doc through w, so clients can negotiate JSON or YAML.
func Handler(doc *Document, w *render.Writer) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		_ = render.Respond(w, rw, r, outcome.Success(doc))
	})
}
