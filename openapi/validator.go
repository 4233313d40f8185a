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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var (
	// ErrUndocumented is returned for a response the document does not
	// describe.
	ErrUndocumented = errors.New("response not documented")

	// ErrResponseMismatch is returned when a body does not match its schema.
	ErrResponseMismatch = errors.New("response does not match schema")
)

type responseSchema struct {
	schema *jsonschema.Schema
}

// Validator checks response bodies against a [Document]. Only JSON bodies
// are checked.
type Validator struct {
	responses map[string]responseSchema
}

// NewValidator compiles the JSON response schemas of doc.
func NewValidator(doc *Document) (*Validator, error) {
	defs := map[string]*Schema{}
	if doc.Components != nil && doc.Components.Schemas != nil {
		defs = doc.Components.Schemas
	}

	compiler := jsonschema.NewCompiler()
	v := &Validator{responses: make(map[string]responseSchema)}
	n := 0

	for path, item := range doc.Paths {
		for method, op := range item {
			for status, resp := range op.Responses {
				code, err := strconv.Atoi(status)
				if err != nil {
					continue
				}
				key := responseKey(method, path, code)

				schema := jsonSchemaOf(resp)
				if schema == nil {
					v.responses[key] = responseSchema{}
					continue
				}

				n++
				url := fmt.Sprintf("https://rivaas.dev/outcome/openapi/response-%d.json", n)
				compiled, err := compileStandalone(compiler, url, schema, defs)
				if err != nil {
					return nil, fmt.Errorf("compile %s: %w", key, err)
				}
				v.responses[key] = responseSchema{schema: compiled}
			}
		}
	}

	return v, nil
}

// ValidateResponse checks body, the response to method on the documented
// path (e.g. "/weatherforecast/{id}"), against the schema for status.
func (v *Validator) ValidateResponse(method, path string, status int, body []byte) error {
	key := responseKey(method, path, status)
	rs, ok := v.responses[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUndocumented, key)
	}

	if rs.schema == nil {
		if len(bytes.TrimSpace(body)) > 0 {
			return fmt.Errorf("%w: %s: unexpected body", ErrResponseMismatch, key)
		}
		return nil
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrResponseMismatch, key, err)
	}
	if err := rs.schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrResponseMismatch, key, err)
	}

	return nil
}

func responseKey(method, path string, status int) string {
	return strings.ToUpper(method) + " " + path + " " + strconv.Itoa(status)
}

// jsonSchemaOf returns the schema of the first JSON media type, or nil.
func jsonSchemaOf(resp *Response) *Schema {
	for _, mt := range []string{mediaTypeJSON, mediaTypeProblem} {
		if m, ok := resp.Content[mt]; ok && m.Schema != nil {
			return m.Schema
		}
	}

	return nil
}

// compileStandalone compiles schema as its own resource, with the
// component schemas moved under $defs.
func compileStandalone(c *jsonschema.Compiler, url string, schema *Schema, defs map[string]*Schema) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(map[string]any{
		"$defs": defs,
		"allOf": []*Schema{schema},
	})
	if err != nil {
		return nil, err
	}
	raw = bytes.ReplaceAll(raw, []byte(`"`+componentsPrefix), []byte(`"#/$defs/`))

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}

	return c.Compile(url)
}
