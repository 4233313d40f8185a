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

package metrics

import (
	"fmt"
	"regexp"
	"strings"
)

// pathFilter decides which request paths are left out of request metrics.
type pathFilter struct {
	paths    map[string]bool
	prefixes []string
	patterns []*regexp.Regexp
}

func newPathFilter() *pathFilter {
	return &pathFilter{paths: make(map[string]bool)}
}

func (pf *pathFilter) shouldExclude(path string) bool {
	if pf == nil {
		return false
	}
	if pf.paths[path] {
		return true
	}
	for _, prefix := range pf.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, pattern := range pf.patterns {
		if pattern.MatchString(path) {
			return true
		}
	}

	return false
}

// MiddlewareOption configures [Recorder.Middleware].
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	filter *pathFilter
	errs   []error
}

// WithExcludePaths skips requests whose path equals one of paths.
func WithExcludePaths(paths ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		for _, p := range paths {
			c.filter.paths[p] = true
		}
	}
}

// WithExcludePrefixes skips requests whose path starts with one of prefixes,
// such as "/debug/".
func WithExcludePrefixes(prefixes ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.filter.prefixes = append(c.filter.prefixes, prefixes...)
	}
}

// WithExcludePatterns skips requests whose path matches one of the regular
// expressions. An invalid expression makes [Recorder.Middleware] panic.
func WithExcludePatterns(patterns ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		for _, pattern := range patterns {
			compiled, err := regexp.Compile(pattern)
			if err != nil {
				c.errs = append(c.errs, fmt.Errorf("invalid regex pattern for path exclusion %q: %w", pattern, err))
				continue
			}
			c.filter.patterns = append(c.filter.patterns, compiled)
		}
	}
}
