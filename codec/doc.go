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

// Package codec encodes and decodes values in the formats used for
// configuration files and response bodies.
//
// Built-in codecs register themselves with the default registry:
//
//	Type      Media type              Library
//	json      application/json        encoding/json
//	yaml      application/yaml        github.com/goccy/go-yaml
//	toml      application/toml        github.com/BurntSushi/toml
//	msgpack   application/msgpack     github.com/vmihailenco/msgpack/v5
//	env_var   (none)                  decode only
//
// Struct fields are named by their json tags in every format, so one set of
// tags serves all encodings.
//
//	enc, err := codec.GetEncoder(codec.TypeYAML)
//	data, err := enc.Encode(body)
package codec
