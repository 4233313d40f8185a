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
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cast"
)

var (
	// ErrRouteNotFound is returned for an unknown route name.
	ErrRouteNotFound = errors.New("route not found")

	// ErrDuplicateRoute is returned when a route name is registered twice.
	ErrDuplicateRoute = errors.New("duplicate route name")

	// ErrInvalidPattern is returned for malformed patterns.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrMissingParam is returned when a path parameter has no value.
	ErrMissingParam = errors.New("missing required parameter")
)

type segment struct {
	static bool
	rest   bool // "{name...}" parameter; slashes are kept
	value  string
}

// reversePattern is a parsed route path used to build URLs.
type reversePattern struct {
	segments []segment
	trailing bool
}

func parsePattern(path string) (*reversePattern, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, path)
	}

	p := &reversePattern{trailing: len(path) > 1 && strings.HasSuffix(path, "/")}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		switch {
		case part == "":
			continue
		case part == "{$}":
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w: {$} must be last in %q", ErrInvalidPattern, path)
			}
			p.trailing = true
		case strings.HasPrefix(part, ":"):
			if len(part) == 1 {
				return nil, fmt.Errorf("%w: empty parameter name in %q", ErrInvalidPattern, path)
			}
			p.segments = append(p.segments, segment{value: part[1:]})
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := part[1 : len(part)-1]
			name, rest := strings.CutSuffix(name, "...")
			if name == "" {
				return nil, fmt.Errorf("%w: empty parameter name in %q", ErrInvalidPattern, path)
			}
			if rest && i != len(parts)-1 {
				return nil, fmt.Errorf("%w: {%s...} must be last in %q", ErrInvalidPattern, name, path)
			}
			p.segments = append(p.segments, segment{value: name, rest: rest})
		default:
			p.segments = append(p.segments, segment{static: true, value: part})
		}
	}

	return p, nil
}

// params returns the parameter names in path order.
func (p *reversePattern) params() []string {
	var out []string
	for _, s := range p.segments {
		if !s.static {
			out = append(out, s.value)
		}
	}

	return out
}

// build fills the pattern from values. Values not used by the path are
// encoded as the query string.
func (p *reversePattern) build(values map[string]any) (string, error) {
	used := make(map[string]struct{}, len(p.segments))

	var buf strings.Builder
	for _, seg := range p.segments {
		buf.WriteByte('/')
		if seg.static {
			buf.WriteString(seg.value)
			continue
		}

		raw, ok := values[seg.value]
		if !ok || raw == nil {
			return "", fmt.Errorf("%w: %s", ErrMissingParam, seg.value)
		}
		val, err := cast.ToStringE(raw)
		if err != nil {
			return "", fmt.Errorf("parameter %s: %w", seg.value, err)
		}
		if val == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingParam, seg.value)
		}
		used[seg.value] = struct{}{}

		if seg.rest {
			escaped := strings.Split(val, "/")
			for i := range escaped {
				escaped[i] = url.PathEscape(escaped[i])
			}
			buf.WriteString(strings.Join(escaped, "/"))
		} else {
			buf.WriteString(url.PathEscape(val))
		}
	}
	if buf.Len() == 0 || p.trailing {
		buf.WriteByte('/')
	}

	query := url.Values{}
	for k, v := range values {
		if _, ok := used[k]; ok || v == nil {
			continue
		}
		if err := addQuery(query, k, v); err != nil {
			return "", err
		}
	}
	if len(query) > 0 {
		buf.WriteByte('?')
		buf.WriteString(query.Encode())
	}

	return buf.String(), nil
}

func addQuery(q url.Values, key string, v any) error {
	switch vals := v.(type) {
	case []string:
		for _, s := range vals {
			q.Add(key, s)
		}
	case []any:
		for _, item := range vals {
			s, err := cast.ToStringE(item)
			if err != nil {
				return fmt.Errorf("query value %s: %w", key, err)
			}
			q.Add(key, s)
		}
	case []int:
		for _, n := range vals {
			q.Add(key, cast.ToString(n))
		}
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return fmt.Errorf("query value %s: %w", key, err)
		}
		q.Add(key, s)
	}

	return nil
}
