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
	"encoding"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const componentsPrefix = "#/components/schemas/"

// Schema is a JSON Schema 2020-12 object, as used by OpenAPI 3.1.
type Schema struct {
	Ref                  string             `json:"$ref,omitempty"`
	Type                 string             `json:"type,omitempty"`
	Format               string             `json:"format,omitempty"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`
	AnyOf                []*Schema          `json:"anyOf,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty"`
	ExclusiveMinimum     *float64           `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum     *float64           `json:"exclusiveMaximum,omitempty"`
	MinLength            *int               `json:"minLength,omitempty"`
	MaxLength            *int               `json:"maxLength,omitempty"`
	Pattern              string             `json:"pattern,omitempty"`
}

// nullable allows null in addition to s.
func nullable(s *Schema) *Schema {
	return &Schema{AnyOf: []*Schema{s, {Type: "null"}}}
}

var (
	timeType          = reflect.TypeFor[time.Time]()
	durationType      = reflect.TypeFor[time.Duration]()
	uuidType          = reflect.TypeFor[uuid.UUID]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// generator turns Go types into schemas. Named structs become components
// and are referenced.
type generator struct {
	schemas map[string]*Schema
	seen    map[reflect.Type]bool
}

func newGenerator() *generator {
	return &generator{
		schemas: make(map[string]*Schema),
		seen:    make(map[reflect.Type]bool),
	}
}

func (g *generator) generate(t reflect.Type) *Schema {
	if t == nil {
		return &Schema{}
	}

	switch t {
	case timeType:
		return &Schema{Type: "string", Format: "date-time"}
	case durationType:
		return &Schema{Type: "integer", Format: "int64", Description: "nanoseconds"}
	case uuidType:
		return &Schema{Type: "string", Format: "uuid"}
	}

	if t.Kind() == reflect.Pointer {
		return nullable(g.generate(t.Elem()))
	}
	if t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType) {
		return &Schema{Type: "string"}
	}
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return &Schema{Type: "string", Format: "byte"}
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return &Schema{Type: "integer", Format: "int32"}
	case reflect.Int64, reflect.Uint64:
		return &Schema{Type: "integer", Format: "int64"}
	case reflect.Float32:
		return &Schema{Type: "number", Format: "float"}
	case reflect.Float64:
		return &Schema{Type: "number", Format: "double"}
	case reflect.Slice:
		// encoding/json writes a nil slice as null.
		return nullable(&Schema{Type: "array", Items: g.generate(t.Elem())})
	case reflect.Array:
		return &Schema{Type: "array", Items: g.generate(t.Elem())}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return &Schema{Type: "object"}
		}
		return &Schema{Type: "object", AdditionalProperties: g.generate(t.Elem())}
	case reflect.Struct:
		return g.structSchema(t)
	default:
		return &Schema{}
	}
}

func (g *generator) structSchema(t reflect.Type) *Schema {
	name := schemaName(t)
	if name != "" {
		if _, ok := g.schemas[name]; ok || g.seen[t] {
			return &Schema{Ref: componentsPrefix + name}
		}
	}

	g.seen[t] = true
	defer delete(g.seen, t)

	s := &Schema{Type: "object", Properties: map[string]*Schema{}}
	walkFields(t, func(f reflect.StructField) {
		jsonTag := f.Tag.Get("json")
		if !f.IsExported() || jsonTag == "-" {
			return
		}

		fieldName := parseJSONName(jsonTag, f.Name)
		fs := g.generate(f.Type)
		if doc := f.Tag.Get("doc"); doc != "" {
			fs.Description = doc
		}
		applyValidationConstraints(fs, f.Tag.Get("validate"))

		s.Properties[fieldName] = fs
		if isFieldRequired(f) && !strings.Contains(jsonTag, "omitempty") {
			s.Required = append(s.Required, fieldName)
		}
	})

	if name == "" {
		return s
	}
	g.schemas[name] = s

	return &Schema{Ref: componentsPrefix + name}
}

func applyValidationConstraints(s *Schema, tag string) {
	if tag == "" {
		return
	}

	isString := s.Type == "string"
	for part := range strings.SplitSeq(tag, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "email":
			s.Format = "email"
		case "url", "http_url":
			s.Format = "uri"
		case "uuid", "uuid4":
			s.Format = "uuid"
		case "datetime":
			if value == time.DateOnly {
				s.Format = "date"
			}
		case "min", "gte":
			setLower(s, value, isString, false)
		case "max", "lte":
			setUpper(s, value, isString, false)
		case "gt":
			setLower(s, value, isString, true)
		case "lt":
			setUpper(s, value, isString, true)
		case "len":
			setLower(s, value, isString, false)
			setUpper(s, value, isString, false)
		case "oneof":
			vals := strings.Fields(value)
			s.Enum = make([]any, 0, len(vals))
			for _, v := range vals {
				s.Enum = append(s.Enum, v)
			}
		}
	}
}

func setLower(s *Schema, value string, isString, exclusive bool) {
	x, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return
	}
	switch {
	case isString:
		n := int(x)
		if exclusive {
			n++
		}
		s.MinLength = &n
	case exclusive:
		s.ExclusiveMinimum = &x
	default:
		s.Minimum = &x
	}
}

func setUpper(s *Schema, value string, isString, exclusive bool) {
	x, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return
	}
	switch {
	case isString:
		n := int(x)
		if exclusive {
			n--
		}
		s.MaxLength = &n
	case exclusive:
		s.ExclusiveMaximum = &x
	default:
		s.Maximum = &x
	}
}

// walkFields visits struct fields, flattening embedded structs.
func walkFields(t reflect.Type, fn func(reflect.StructField)) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous && f.Tag.Get("json") == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				walkFields(ft, fn)
				continue
			}
		}
		fn(f)
	}
}

// schemaName is "pkg.Type", or "" for unnamed types. Instantiated
// generics keep only the last path element of each type argument:
// "envelope.Envelope_weather.Forecast", or
// "envelope.Envelope_Listweather.Forecast" for a slice argument.
func schemaName(t reflect.Type) string {
	name := t.Name()
	if name == "" {
		return ""
	}
	if base, args, ok := strings.Cut(name, "["); ok {
		var b strings.Builder
		b.WriteString(base)
		for arg := range strings.SplitSeq(strings.TrimSuffix(args, "]"), ",") {
			elem := strings.TrimLeft(arg, "[]*")
			b.WriteByte('_')
			b.WriteString(strings.Repeat("List", strings.Count(arg[:len(arg)-len(elem)], "[]")))
			b.WriteString(elem[strings.LastIndex(elem, "/")+1:])
		}
		name = b.String()
	}

	pkgPath := t.PkgPath()
	if pkgPath == "" {
		return name
	}
	pkgName := pkgPath[strings.LastIndex(pkgPath, "/")+1:]
	if pkgName == "" || pkgName == name {
		return name
	}

	return pkgName + "." + name
}

func parseJSONName(tag, fallback string) string {
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}

	return fallback
}

func isFieldRequired(f reflect.StructField) bool {
	if f.Type.Kind() == reflect.Pointer {
		return false
	}

	for part := range strings.SplitSeq(f.Tag.Get("validate"), ",") {
		if strings.TrimSpace(part) == "required" {
			return true
		}
	}

	return false
}
