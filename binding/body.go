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

package binding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"

	"rivaas.dev/outcome/codec"
)

// Body decodes the request body into a new T.
//
// Errors:
//   - [ErrRequestBodyNil], [ErrEmptyBody]: nothing to decode
//   - [ErrUnsupportedContentType]: no codec for the Content-Type
//   - [ErrBodyTooLarge]: body exceeds the configured limit
//   - [BindError]: the codec rejected the body
//   - *validation.Error: with [WithValidator], the value is invalid
func Body[T any](r *http.Request, opts ...Option) (T, error) {
	var out T
	err := BodyTo(r, &out, opts...)

	return out, err
}

// BodyTo decodes the request body into out, which must be a non-nil pointer.
func BodyTo(r *http.Request, out any, opts ...Option) error {
	if rv := reflect.ValueOf(out); rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrOutMustBePointer
	}
	if r.Body == nil || r.Body == http.NoBody {
		return ErrRequestBodyNil
	}

	cfg := applyOptions(opts)

	name, err := cfg.contentType(r)
	if err != nil {
		return err
	}
	decoder, err := cfg.registry.GetDecoder(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedContentType, err)
	}

	body, err := cfg.read(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if cfg.allowEmpty {
			return nil
		}

		return ErrEmptyBody
	}

	if name == codec.TypeJSON && cfg.strictJSON {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		err = dec.Decode(out)
	} else {
		err = decoder.Decode(body, out)
	}
	if err != nil {
		return &BindError{Source: string(name), Reason: decodeReason(err), Err: err}
	}

	if cfg.validator != nil {
		return cfg.validator.Validate(out)
	}

	return nil
}

func (c *config) contentType(r *http.Request) (codec.Type, error) {
	header := r.Header.Get("Content-Type")
	if header == "" {
		return c.defaultType, nil
	}

	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, header)
	}
	name, err := c.registry.ForMediaType(mediaType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, mediaType)
	}

	return name, nil
}

func (c *config) read(r *http.Request) ([]byte, error) {
	reader := io.Reader(r.Body)
	if c.maxBodySize > 0 {
		reader = http.MaxBytesReader(nil, r.Body, c.maxBodySize)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}

		return nil, fmt.Errorf("read request body: %w", err)
	}

	return body, nil
}

// decodeReason turns common encoding/json errors into short messages.
func decodeReason(err error) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed body at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Sprintf("%s: must be %s", typeErr.Field, typeErr.Type)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "malformed body"
	default:
		return err.Error()
	}
}
