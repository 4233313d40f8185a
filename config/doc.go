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

// Package config loads service settings from layered sources into a struct.
//
// Sources are loaded in the order they are given and merged with later
// sources overriding earlier ones. Keys are case-insensitive. The merged map
// is decoded into the bound struct using "config" struct tags, "default" tags
// fill zero fields, and "validate" tags are checked last:
//
//	type Settings struct {
//		Addr     string        `config:"addr" default:":8080" validate:"hostname_port"`
//		Timeout  time.Duration `config:"timeout" default:"5s"`
//	}
//
//	var s Settings
//	cfg := config.MustNew(
//		config.WithOptionalFile("outcomed.yaml"),
//		config.WithEnv("OUTCOMED_"),
//		config.WithBinding(&s),
//	)
//	if err := cfg.Load(ctx); err != nil { ... }
//
// File formats are detected from the extension (.json, .yaml, .yml, .toml).
package config
