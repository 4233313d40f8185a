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
	"errors"
	"fmt"
	"io/fs"
	"os"

	"rivaas.dev/outcome/codec"
)

// File loads configuration from a file path or from in-memory content.
type File struct {
	path     string
	data     []byte
	optional bool
	decoder  codec.Decoder
}

// NewFile creates a source reading path on every Load.
func NewFile(path string, decoder codec.Decoder) *File {
	return &File{path: path, decoder: decoder}
}

// NewOptionalFile is like [NewFile] but a missing file yields no values
// instead of an error.
func NewOptionalFile(path string, decoder codec.Decoder) *File {
	return &File{path: path, decoder: decoder, optional: true}
}

// NewFileContent creates a source decoding data.
func NewFileContent(data []byte, decoder codec.Decoder) *File {
	return &File{data: data, decoder: decoder}
}

// Load implements config.Source.
func (f *File) Load(context.Context) (map[string]any, error) {
	data := f.data
	if f.path != "" {
		var err error
		data, err = os.ReadFile(f.path)
		if err != nil {
			if f.optional && errors.Is(err, fs.ErrNotExist) {
				return map[string]any{}, nil
			}

			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	var values map[string]any
	if err := f.decoder.Decode(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode file: %w", err)
	}

	return values, nil
}
