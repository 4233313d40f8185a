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

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validatable is implemented by types with checks beyond struct tags.
// Validate runs only when the tag checks pass.
type Validatable interface {
	Validate() error
}

// Option configures a [Validator].
type Option func(*Validator)

// WithFieldNameTag names fields in error paths by the given struct tag.
// Defaults to "json"; untagged fields use the Go field name.
func WithFieldNameTag(tag string) Option {
	return func(v *Validator) { v.nameTag = tag }
}

// WithMaxErrors caps the number of reported field errors. Zero means no cap.
func WithMaxErrors(n int) Option {
	return func(v *Validator) { v.maxErrors = n }
}

// WithCustomTag registers an additional validation tag.
func WithCustomTag(name string, fn validator.Func) Option {
	return func(v *Validator) {
		v.customTags = append(v.customTags, customTag{name: name, fn: fn})
	}
}

type customTag struct {
	name string
	fn   validator.Func
}

// Validator validates structs. It is safe for concurrent use.
type Validator struct {
	nameTag    string
	maxErrors  int
	customTags []customTag

	tags *validator.Validate
}

// New creates a [Validator].
func New(opts ...Option) (*Validator, error) {
	v := &Validator{nameTag: "json"}
	for _, opt := range opts {
		opt(v)
	}

	v.tags = validator.New(validator.WithRequiredStructEnabled())
	v.tags.RegisterTagNameFunc(v.fieldName)
	for _, ct := range v.customTags {
		if err := v.tags.RegisterValidation(ct.name, ct.fn); err != nil {
			return nil, fmt.Errorf("register custom tag %q: %w", ct.name, err)
		}
	}

	return v, nil
}

// MustNew creates a [Validator] or panics.
func MustNew(opts ...Option) *Validator {
	v, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("validation.MustNew: %v", err))
	}

	return v
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// Validate validates v with a shared default [Validator].
func Validate(v any) error {
	defaultOnce.Do(func() { defaultValidator = MustNew() })

	return defaultValidator.Validate(v)
}

// Validate checks val's struct tags, then its [Validatable] method. Failures
// are returned as *[Error]. Non-struct values only run [Validatable].
func (v *Validator) Validate(val any) error {
	if val == nil {
		return ErrNilValue
	}

	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ErrNilValue
		}
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Struct {
		if err := v.tags.Struct(val); err != nil {
			return v.convert(err)
		}
	}

	if custom, ok := val.(Validatable); ok {
		if err := custom.Validate(); err != nil {
			var out Error
			out.AddError(err)

			return &out
		}
	}

	return nil
}

func (v *Validator) convert(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Fields: []FieldError{{Code: "tag_error", Message: err.Error()}}}
	}

	var out Error
	for _, e := range verrs {
		if v.maxErrors > 0 && len(out.Fields) >= v.maxErrors {
			out.Truncated = true
			break
		}
		out.Add(fieldPath(e.Namespace()), "tag."+e.Tag(), tagMessage(e), map[string]any{
			"tag":   e.Tag(),
			"param": e.Param(),
		})
	}

	return &out
}

func (v *Validator) fieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get(v.nameTag), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

// fieldPath drops the root struct name and turns indexes into segments:
// "Request.items[2].price" becomes "items.2.price".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}

	return strings.NewReplacer("[", ".", "]", "").Replace(namespace)
}

func tagMessage(e validator.FieldError) string {
	isString := e.Kind() == reflect.String

	switch e.Tag() {
	case "required", "required_with", "required_without":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "hostname_port":
		return "must be host:port"
	case "min", "gte":
		if isString {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	case "datetime":
		return fmt.Sprintf("must be a date in layout %s", e.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}
