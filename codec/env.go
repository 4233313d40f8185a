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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// TypeEnvVar is the environment variable codec type.
const TypeEnvVar Type = "env_var"

// ErrEncodeUnsupported is returned by codecs that only decode.
var ErrEncodeUnsupported = errors.New("encoding not supported")

func init() {
	RegisterEncoder(TypeEnvVar, EnvVarCodec{})
	RegisterDecoder(TypeEnvVar, EnvVarCodec{})
}

// EnvVarCodec decodes KEY=value lines into a nested map. Keys are
// lower-cased and split on "_": SERVER_READ_TIMEOUT=5s becomes
// {"server": {"read": {"timeout": "5s"}}}. Doubled underscores keep an
// underscore inside a segment: API__KEY=x becomes {"api_key": "x"}.
type EnvVarCodec struct{}

// Encode always fails; environment variables are read-only.
func (EnvVarCodec) Encode(_ any) ([]byte, error) {
	return nil, fmt.Errorf("env_var: %w", ErrEncodeUnsupported)
}

// Decode implements [Decoder]. v must be a *map[string]any.
func (EnvVarCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("env_var: expected *map[string]any, got %T", v)
	}

	conf := make(map[string]any)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}

		parts := splitEnvKey(key)
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				// A scalar at this path is replaced by the nested map.
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("env_var: %w", err)
	}

	*ptr = conf

	return nil
}

func splitEnvKey(key string) []string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, "__", "\x00")

	var parts []string
	for _, p := range strings.Split(key, "_") {
		if p = strings.ReplaceAll(p, "\x00", "_"); p != "" {
			parts = append(parts, p)
		}
	}

	return parts
}
