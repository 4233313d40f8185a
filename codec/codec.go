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

package codec

import (
	"errors"
	"fmt"
	"mime"
	"slices"
	"strings"
	"sync"
)

// Type identifies a codec.
type Type string

// Encoder converts Go values into encoded bytes.
// Implementations must be safe for concurrent use.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder converts encoded bytes into the value pointed to by v.
// Implementations must be safe for concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

// ErrNotFound is returned when no codec is registered for a type or media
// type.
var ErrNotFound = errors.New("codec not found")

// Registry maps codec types to encoders, decoders and media types.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	encoders   map[Type]Encoder
	decoders   map[Type]Decoder
	mediaTypes map[Type]string
	byMedia    map[string]Type
	order      []Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		encoders:   make(map[Type]Encoder),
		decoders:   make(map[Type]Decoder),
		mediaTypes: make(map[Type]string),
		byMedia:    make(map[string]Type),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the registry the built-in codecs register with.
func Default() *Registry {
	return defaultRegistry
}

// RegisterEncoder registers an encoder for name.
func (r *Registry) RegisterEncoder(name Type, encoder Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders[name] = encoder
	r.track(name)
}

// RegisterDecoder registers a decoder for name.
func (r *Registry) RegisterDecoder(name Type, decoder Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[name] = decoder
	r.track(name)
}

// RegisterMediaType associates name with a media type, e.g.
// "application/yaml". Aliases may be registered for the same name; the first
// one is returned by [Registry.MediaType].
func (r *Registry) RegisterMediaType(name Type, mediaTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mt := range mediaTypes {
		mt = normalizeMediaType(mt)
		if _, ok := r.mediaTypes[name]; !ok {
			r.mediaTypes[name] = mt
		}
		r.byMedia[mt] = name
	}
	r.track(name)
}

func (r *Registry) track(name Type) {
	if !slices.Contains(r.order, name) {
		r.order = append(r.order, name)
	}
}

// GetEncoder returns the encoder registered for name.
func (r *Registry) GetEncoder(name Type) (Encoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	encoder, ok := r.encoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: encoder for type %s", ErrNotFound, name)
	}

	return encoder, nil
}

// GetDecoder returns the decoder registered for name.
func (r *Registry) GetDecoder(name Type) (Decoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decoder, ok := r.decoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: decoder for type %s", ErrNotFound, name)
	}

	return decoder, nil
}

// MediaType returns the primary media type of name, or "" if none.
func (r *Registry) MediaType(name Type) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.mediaTypes[name]
}

// ForMediaType returns the codec type registered for a media type.
// Parameters such as "; charset=utf-8" are ignored.
func (r *Registry) ForMediaType(mediaType string) (Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.byMedia[normalizeMediaType(mediaType)]
	if !ok {
		return "", fmt.Errorf("%w: media type %q", ErrNotFound, mediaType)
	}

	return name, nil
}

// MediaTypes returns the primary media types of all codecs that can encode,
// in registration order.
func (r *Registry) MediaTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.order))
	for _, name := range r.order {
		if _, ok := r.encoders[name]; !ok {
			continue
		}
		if mt, ok := r.mediaTypes[name]; ok {
			out = append(out, mt)
		}
	}

	return out
}

// ForExtension returns the codec type for a file extension such as ".yml".
func ForExtension(ext string) (Type, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		return TypeJSON, nil
	case "yaml", "yml":
		return TypeYAML, nil
	case "toml":
		return TypeTOML, nil
	case "msgpack", "mpk":
		return TypeMsgPack, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrNotFound, ext)
	}
}

func normalizeMediaType(mt string) string {
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		return parsed
	}

	return strings.ToLower(strings.TrimSpace(mt))
}

// RegisterEncoder registers an encoder with the default registry.
func RegisterEncoder(name Type, encoder Encoder) {
	defaultRegistry.RegisterEncoder(name, encoder)
}

// RegisterDecoder registers a decoder with the default registry.
func RegisterDecoder(name Type, decoder Decoder) {
	defaultRegistry.RegisterDecoder(name, decoder)
}

// GetEncoder returns an encoder from the default registry.
func GetEncoder(name Type) (Encoder, error) {
	return defaultRegistry.GetEncoder(name)
}

// GetDecoder returns a decoder from the default registry.
func GetDecoder(name Type) (Decoder, error) {
	return defaultRegistry.GetDecoder(name)
}
