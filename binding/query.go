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
	"fmt"
	"net/http"

	"github.com/go-viper/mapstructure/v2"
)

// Query decodes the URL query of r into a new T. Fields are matched by
// the `query` tag. Single values fill scalar fields, repeated keys fill
// slices, and strings are converted to the field type.
func Query[T any](r *http.Request, opts ...Option) (T, error) {
	var out T
	err := QueryTo(r, &out, opts...)

	return out, err
}

// QueryTo decodes the URL query of r into out.
func QueryTo(r *http.Request, out any, opts ...Option) error {
	cfg := applyOptions(opts)

	values := r.URL.Query()
	input := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 1 {
			input[key] = vals[0]
			continue
		}
		input[key] = vals
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          cfg.tagName,
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutMustBePointer, err)
	}
	if err := decoder.Decode(input); err != nil {
		return &BindError{Source: "query", Reason: err.Error(), Err: err}
	}

	if cfg.validator != nil {
		return cfg.validator.Validate(out)
	}

	return nil
}
