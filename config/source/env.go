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

package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"rivaas.dev/outcome/codec"
)

// OSEnvVar loads environment variables starting with a prefix. The prefix
// is stripped and the rest of the name is split on "_" into nested keys:
// with prefix "OUTCOMED_", OUTCOMED_SERVER_ADDR becomes server.addr.
type OSEnvVar struct {
	prefix  string
	environ func() []string
	decoder codec.Decoder
}

// NewOSEnvVar creates an environment source for prefix.
func NewOSEnvVar(prefix string) *OSEnvVar {
	return &OSEnvVar{prefix: prefix, environ: os.Environ, decoder: codec.EnvVarCodec{}}
}

// NewEnvList is like [NewOSEnvVar] but reads KEY=value pairs from list
// instead of the process environment.
func NewEnvList(prefix string, list []string) *OSEnvVar {
	return &OSEnvVar{
		prefix:  prefix,
		environ: func() []string { return list },
		decoder: codec.EnvVarCodec{},
	}
}

// Load implements config.Source.
func (e *OSEnvVar) Load(context.Context) (map[string]any, error) {
	var lines []string
	for _, kv := range e.environ() {
		if rest, ok := strings.CutPrefix(kv, e.prefix); ok {
			lines = append(lines, rest)
		}
	}

	var values map[string]any
	if err := e.decoder.Decode([]byte(strings.Join(lines, "\n")), &values); err != nil {
		return nil, fmt.Errorf("failed to decode environment variables: %w", err)
	}

	return values, nil
}
