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

package render

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"rivaas.dev/outcome"
	"rivaas.dev/outcome/codec"
	"rivaas.dev/outcome/logging"
	"rivaas.dev/outcome/problem"
	"rivaas.dev/outcome/tracing"
)

var (
	// ErrNotAcceptable is returned when strict negotiation finds no codec
	// the client accepts. A 406 response has already been written.
	ErrNotAcceptable = errors.New("no acceptable representation")

	// ErrNoCodecs is returned by [New] when none of the configured codecs
	// can encode.
	ErrNoCodecs = errors.New("no response codecs")

	// ErrEncode wraps body encoding failures. A 500 response has already
	// been written.
	ErrEncode = errors.New("encode response body")
)

// Linker resolves a Created reference into a URL.
// *routes.Registry implements it.
type Linker interface {
	Resolve(ref *outcome.Reference) (string, error)
}

// Recorder receives every written outcome.
// *metrics.Recorder implements it.
type Recorder interface {
	RecordOutcome(kind outcome.Kind, status int, route string)
}

// Option configures a [Writer].
type Option func(*Writer)

// WithRegistry sets the codec registry. Defaults to [codec.Default].
func WithRegistry(registry *codec.Registry) Option {
	return func(w *Writer) { w.registry = registry }
}

// WithCodecs sets the offered codecs in order of server preference.
// Defaults to JSON, YAML, MessagePack.
func WithCodecs(types ...codec.Type) Option {
	return func(w *Writer) { w.codecs = types }
}

// WithStrictNegotiation answers 406 Not Acceptable when the Accept header
// matches no codec. Without it the first codec is used.
func WithStrictNegotiation() Option {
	return func(w *Writer) { w.strict = true }
}

// WithLinker sets the resolver for Location headers.
func WithLinker(linker Linker) Option {
	return func(w *Writer) { w.linker = linker }
}

// WithProblemFormatter renders failure outcomes through f instead of
// writing the translated body.
func WithProblemFormatter(f problem.Formatter) Option {
	return func(w *Writer) { w.problems = f }
}

// WithRecorder records every written outcome.
func WithRecorder(rec Recorder) Option {
	return func(w *Writer) { w.recorder = rec }
}

// WithLogger sets the logger for rendering errors and, with
// [WithRequestLogging], for one line per response.
func WithLogger(logger *logging.Logger) Option {
	return func(w *Writer) { w.logger = logger }
}

// WithRequestLogging logs every response with [logging.Logger.LogOutcome].
func WithRequestLogging() Option {
	return func(w *Writer) { w.logRequests = true }
}

// Writer writes outcomes as HTTP responses. It is safe for concurrent use.
type Writer struct {
	registry    *codec.Registry
	codecs      []codec.Type
	offers      []offer
	strict      bool
	linker      Linker
	problems    problem.Formatter
	recorder    Recorder
	logger      *logging.Logger
	logRequests bool
}

type offer struct {
	codec     codec.Type
	mediaType string
	encoder   codec.Encoder
}

// New creates a Writer. Codecs without an encoder or media type in the
// registry are skipped.
func New(opts ...Option) (*Writer, error) {
	w := &Writer{
		registry: codec.Default(),
		codecs:   []codec.Type{codec.TypeJSON, codec.TypeYAML, codec.TypeMsgPack},
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, name := range w.codecs {
		enc, err := w.registry.GetEncoder(name)
		if err != nil {
			continue
		}
		mt := w.registry.MediaType(name)
		if mt == "" {
			continue
		}
		w.offers = append(w.offers, offer{codec: name, mediaType: mt, encoder: enc})
	}
	if len(w.offers) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoCodecs, w.codecs)
	}

	return w, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Writer {
	w, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("render: %v", err))
	}

	return w
}

// Respond translates o and writes it. Failures are passed to the problem
// formatter with all their messages, including those of validation and
// unauthorized outcomes whose translated body is the payload.
func Respond[T any](w *Writer, rw http.ResponseWriter, r *http.Request, o outcome.Outcome[T]) error {
	return w.write(rw, r, outcome.Translate(o), o.Err())
}

// Write writes a translated response.
func (w *Writer) Write(rw http.ResponseWriter, r *http.Request, resp outcome.Response) error {
	return w.write(rw, r, resp, failureOf(resp))
}

// Negotiate returns the codec and media type chosen for r. ok is false when
// the Accept header matches no codec; the first codec is returned anyway.
func (w *Writer) Negotiate(r *http.Request) (codec.Type, string, bool) {
	o, ok := w.negotiate(r)
	return o.codec, o.mediaType, ok
}

func (w *Writer) write(rw http.ResponseWriter, r *http.Request, resp outcome.Response, failure error) error {
	chosen, ok := w.negotiate(r)
	if !ok && w.strict {
		w.record(r, resp.Kind, http.StatusNotAcceptable)
		http.Error(rw, http.StatusText(http.StatusNotAcceptable), http.StatusNotAcceptable)

		return fmt.Errorf("%w: %q", ErrNotAcceptable, r.Header.Get("Accept"))
	}

	status, body := resp.Status, resp.Body
	contentType := contentTypeFor(chosen)

	// 1xx codes are interim responses and cannot carry the final body.
	if status < 200 || status > 599 {
		w.log().Error("invalid status code, responding 500",
			"status", status,
			"kind", resp.Kind.String(),
			"path", r.URL.Path,
		)
		status = http.StatusInternalServerError
		body = outcome.ErrorList{Errors: []string{http.StatusText(http.StatusInternalServerError)}}
	} else if w.problems != nil && failure != nil {
		pr := w.problems.Format(r, failure)
		status, body = pr.Status, pr.Body
		if chosen.codec == codec.TypeJSON {
			contentType = pr.ContentType
		} else if m, ok := body.(interface{ Map() map[string]any }); ok {
			body = m.Map()
		}
	}

	if resp.Location != nil {
		w.setLocation(rw, r, resp.Location)
	}

	header := rw.Header()
	header.Add("Vary", "Accept")

	if status == http.StatusNoContent || status == http.StatusNotModified {
		w.finish(r, resp.Kind, status)
		rw.WriteHeader(status)

		return nil
	}

	data, err := chosen.encoder.Encode(body)
	if err != nil {
		w.log().Error("encode response body failed",
			"codec", string(chosen.codec),
			"kind", resp.Kind.String(),
			"error", err.Error(),
		)
		header.Del("Location")
		w.finish(r, resp.Kind, http.StatusInternalServerError)
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return fmt.Errorf("%w as %s: %w", ErrEncode, chosen.codec, err)
	}

	header.Set("Content-Type", contentType)
	w.finish(r, resp.Kind, status)
	rw.WriteHeader(status)
	if r.Method == http.MethodHead {
		return nil
	}
	if _, err := rw.Write(data); err != nil {
		return fmt.Errorf("write response body: %w", err)
	}

	return nil
}

func (w *Writer) negotiate(r *http.Request) (offer, bool) {
	specs := parseAccept(r.Header.Get("Accept"))
	if len(specs) == 0 {
		return w.offers[0], true
	}

	// Each offer takes the quality of its most specific matching range, so
	// "application/json;q=0" overrides "*/*".
	best, bestQuality, bestSpecificity := -1, 0.0, 0
	for i, o := range w.offers {
		quality, specificity := 0.0, 0
		for _, spec := range specs {
			q, s := matchMediaType(o.mediaType, spec)
			if s < 3 && !hasWildcard(spec.value) {
				if alias, err := w.registry.ForMediaType(spec.value); err == nil && alias == o.codec {
					q, s = spec.quality, 3
				}
			}
			if s > specificity {
				quality, specificity = q, s
			}
		}
		if specificity == 0 || quality <= 0 {
			continue
		}
		if best < 0 || quality > bestQuality || (quality == bestQuality && specificity > bestSpecificity) {
			best, bestQuality, bestSpecificity = i, quality, specificity
		}
	}
	if best < 0 {
		return w.offers[0], false
	}

	return w.offers[best], true
}

func (w *Writer) setLocation(rw http.ResponseWriter, r *http.Request, ref *outcome.Reference) {
	if ref.URL != "" && w.linker == nil {
		rw.Header().Set("Location", ref.URL)
		return
	}
	if w.linker == nil {
		w.log().Warn("no linker configured, Location header omitted", "action", ref.Action)
		return
	}

	loc, err := w.linker.Resolve(ref)
	if err != nil {
		w.log().Warn("resolve Location failed",
			"action", ref.Action,
			"path", r.URL.Path,
			"error", err.Error(),
		)

		return
	}
	rw.Header().Set("Location", loc)
}

func (w *Writer) finish(r *http.Request, kind outcome.Kind, status int) {
	w.record(r, kind, status)
	if w.logRequests && w.logger != nil {
		w.logger.LogOutcome(r, kind, status)
	}
}

func (w *Writer) record(r *http.Request, kind outcome.Kind, status int) {
	tracing.RecordOutcome(r.Context(), kind, status)
	if w.recorder == nil {
		return
	}
	route := r.Pattern
	if route == "" {
		route = "unmatched"
	}
	w.recorder.RecordOutcome(kind, status, route)
}

func (w *Writer) log() *slog.Logger {
	if w.logger != nil {
		return w.logger.Logger()
	}

	return slog.Default()
}

// failureOf rebuilds the error form of a translated failure from its body.
// Validation and unauthorized bodies carry the payload, so their messages
// are lost; use [Respond] to keep them.
func failureOf(resp outcome.Response) error {
	if !resp.Kind.IsFailure() {
		return nil
	}

	var messages []string
	switch body := resp.Body.(type) {
	case outcome.ErrorList:
		messages = slices.Clone(body.Errors)
	case []string:
		messages = slices.Clone(body)
	}

	return &outcome.Error{Kind: resp.Kind, Messages: messages}
}

func hasWildcard(mediaType string) bool {
	typ, sub := splitMediaType(mediaType)
	return typ == "*" || sub == "*"
}

func contentTypeFor(o offer) string {
	switch o.codec {
	case codec.TypeJSON, codec.TypeYAML, codec.TypeTOML:
		return o.mediaType + "; charset=utf-8"
	default:
		return o.mediaType
	}
}
