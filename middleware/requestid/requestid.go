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

package requestid

import (
	"context"
	"crypto/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// DefaultHeader carries the request ID.
const DefaultHeader = "X-Request-ID"

// maxClientIDLength bounds IDs accepted from clients.
const maxClientIDLength = 128

type contextKey struct{}

// Option configures the middleware.
type Option func(*config)

type config struct {
	headerName    string
	generator     func() string
	allowClientID bool
}

// WithHeader changes the request and response header name.
func WithHeader(name string) Option {
	return func(cfg *config) { cfg.headerName = name }
}

// WithGenerator replaces the ID generator.
func WithGenerator(fn func() string) Option {
	return func(cfg *config) { cfg.generator = fn }
}

// WithULID generates ULIDs instead of UUID v7.
func WithULID() Option {
	return WithGenerator(generateULID)
}

// WithAllowClientID controls whether an ID sent by the client is kept.
// Defaults to true.
func WithAllowClientID(allow bool) Option {
	return func(cfg *config) { cfg.allowClientID = allow }
}

func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// New returns middleware that assigns a request ID.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		headerName:    DefaultHeader,
		generator:     generateUUIDv7,
		allowClientID: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cfg.allowClientID {
				id = r.Header.Get(cfg.headerName)
				if len(id) > maxClientIDLength {
					id = ""
				}
			}
			if id == "" {
				id = cfg.generator()
			}

			w.Header().Set(cfg.headerName, id)
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

// WithID returns a copy of ctx carrying id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// Get returns the request ID in ctx, or "".
func Get(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
