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
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"

	"rivaas.dev/outcome"
)

// Route describes a registered route.
type Route struct {
	Name    string
	Method  string
	Pattern string
	Params  []string
}

type entry struct {
	route   Route
	reverse *reversePattern
}

// Option configures a [Registry].
type Option func(*Registry)

// WithBaseURL prefixes every built URL, e.g. "https://api.example.com".
func WithBaseURL(base string) Option {
	return func(r *Registry) { r.baseURL = strings.TrimSuffix(base, "/") }
}

// Registry holds named routes. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
	baseURL string
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{entries: make(map[string]*entry)}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Add registers a named route. Names are unique.
func (r *Registry) Add(name, method, pattern string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty route name", ErrInvalidPattern)
	}

	reverse, err := parsePattern(pattern)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, name)
	}
	r.entries[name] = &entry{
		route: Route{
			Name:    name,
			Method:  strings.ToUpper(method),
			Pattern: pattern,
			Params:  reverse.params(),
		},
		reverse: reverse,
	}
	r.order = append(r.order, name)

	return nil
}

// MustAdd is like [Registry.Add] but panics on error.
func (r *Registry) MustAdd(name, method, pattern string) {
	if err := r.Add(name, method, pattern); err != nil {
		panic(fmt.Sprintf("routes: %v", err))
	}
}

// Handle registers a named route and mounts h on mux under "METHOD pattern".
// The pattern must use the {name} syntax understood by mux.
func (r *Registry) Handle(mux *http.ServeMux, name, method, pattern string, h http.Handler) error {
	if err := r.Add(name, method, pattern); err != nil {
		return err
	}

	muxPattern := pattern
	if method != "" {
		muxPattern = strings.ToUpper(method) + " " + pattern
	}
	mux.Handle(muxPattern, h)

	return nil
}

// HandleFunc is like [Registry.Handle] for a handler function.
func (r *Registry) HandleFunc(mux *http.ServeMux, name, method, pattern string, h http.HandlerFunc) error {
	return r.Handle(mux, name, method, pattern, h)
}

// Route returns the route registered under name.
func (r *Registry) Route(name string) (Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Route{}, false
	}

	return cloneRoute(e.route), true
}

// Routes returns all routes in registration order.
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Route, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, cloneRoute(r.entries[name].route))
	}

	return out
}

// URLFor builds the URL of the named route. Values fill path parameters;
// the remaining values become the query string, sorted by key.
func (r *Registry) URLFor(name string, values map[string]any) (string, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}

	path, err := e.reverse.build(values)
	if err != nil {
		return "", fmt.Errorf("route %s: %w", name, err)
	}

	return r.baseURL + path, nil
}

// MustURLFor is like [Registry.URLFor] but panics on error.
func (r *Registry) MustURLFor(name string, values map[string]any) string {
	u, err := r.URLFor(name, values)
	if err != nil {
		panic(fmt.Sprintf("routes: %v", err))
	}

	return u
}

// Resolve returns the URL a created-at reference points to. A literal URL
// wins over the action name.
func (r *Registry) Resolve(ref *outcome.Reference) (string, error) {
	if ref == nil {
		return "", fmt.Errorf("%w: nil reference", ErrRouteNotFound)
	}
	if ref.URL != "" {
		return ref.URL, nil
	}

	return r.URLFor(ref.Action, ref.RouteValues)
}

func cloneRoute(rt Route) Route {
	rt.Params = slices.Clone(rt.Params)
	return rt
}
