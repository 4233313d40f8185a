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

package outcome

import (
	"fmt"
	"net/http"
)

// Kind is the discriminator of an [Outcome]. It selects the response-shaping
// rule applied by [Translate].
type Kind uint8

const (
	// KindUnknown is the zero Kind. It is never produced by a factory and is
	// translated with the default rule.
	KindUnknown Kind = iota
	KindSuccess
	KindCreated
	KindNoContent
	KindFailure
	KindNotFound
	KindValidation
	KindConflict
	KindUnauthorized
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindSuccess:      "success",
	KindCreated:      "created",
	KindNoContent:    "no_content",
	KindFailure:      "failure",
	KindNotFound:     "not_found",
	KindValidation:   "validation",
	KindConflict:     "conflict",
	KindUnauthorized: "unauthorized",
}

// Kinds returns every valid Kind in declaration order, excluding [KindUnknown].
func Kinds() []Kind {
	return []Kind{
		KindSuccess,
		KindCreated,
		KindNoContent,
		KindFailure,
		KindNotFound,
		KindValidation,
		KindConflict,
		KindUnauthorized,
	}
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the eight outcome kinds.
func (k Kind) Valid() bool {
	return k >= KindSuccess && k <= KindUnauthorized
}

// IsSuccess reports whether k is a success kind.
func (k Kind) IsSuccess() bool {
	return k == KindSuccess || k == KindCreated || k == KindNoContent
}

// IsFailure reports whether k is a failure kind.
func (k Kind) IsFailure() bool {
	return k >= KindFailure && k <= KindUnauthorized
}

// DefaultStatus returns the HTTP status code [Translate] uses for k when no
// override applies.
func (k Kind) DefaultStatus() int {
	switch k {
	case KindCreated:
		return http.StatusCreated
	case KindNoContent:
		return http.StatusNoContent
	case KindFailure:
		return http.StatusInternalServerError
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusOK
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: kind %d", ErrInvalidArgument, uint8(k))
	}

	return []byte(kindNames[k]), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed

	return nil
}

// ParseKind returns the Kind with the given name, as produced by [Kind.String].
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}

	return KindUnknown, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, name)
}
