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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name"`
	Days  int      `json:"days"`
	Tags  []string `json:"tags,omitempty"`
	Empty string   `json:"-"`
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	for _, typ := range []Type{TypeJSON, TypeYAML, TypeTOML, TypeMsgPack, TypeEnvVar} {
		_, err := GetEncoder(typ)
		require.NoError(t, err, typ)
		_, err = GetDecoder(typ)
		require.NoError(t, err, typ)
	}

	_, err := GetEncoder("xml")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "xml")

	_, err = GetDecoder("xml")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_MediaTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mediaType string
		want      Type
	}{
		{"application/json", TypeJSON},
		{"application/json; charset=utf-8", TypeJSON},
		{"Application/YAML", TypeYAML},
		{"application/x-yaml", TypeYAML},
		{"application/toml", TypeTOML},
		{"application/x-msgpack", TypeMsgPack},
	}
	for _, tt := range tests {
		got, err := Default().ForMediaType(tt.mediaType)
		require.NoError(t, err, tt.mediaType)
		assert.Equal(t, tt.want, got, tt.mediaType)
	}

	_, err := Default().ForMediaType("text/html")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "application/yaml", Default().MediaType(TypeYAML))
	assert.Empty(t, Default().MediaType(TypeEnvVar))
	assert.Subset(t, Default().MediaTypes(), []string{"application/json", "application/yaml", "application/msgpack"})
}

func TestRegistry_Isolated(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterEncoder("json", JSONCodec{})
	r.RegisterMediaType("json", "application/json")

	assert.Equal(t, []string{"application/json"}, r.MediaTypes())
	_, err := r.GetDecoder("json")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestForExtension(t *testing.T) {
	t.Parallel()

	for ext, want := range map[string]Type{".json": TypeJSON, "yml": TypeYAML, ".YAML": TypeYAML, ".toml": TypeTOML} {
		got, err := ForExtension(ext)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ForExtension(".ini")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCodecs_UseJSONFieldNames(t *testing.T) {
	t.Parallel()

	in := sample{Name: "Oslo", Days: 3, Tags: []string{"cold"}, Empty: "hidden"}

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		data, err := YAMLCodec{}.Encode(in)
		require.NoError(t, err)
		assert.Contains(t, string(data), "name: Oslo")
		assert.NotContains(t, string(data), "hidden")

		var out sample
		require.NoError(t, YAMLCodec{}.Decode(data, &out))
		assert.Equal(t, "Oslo", out.Name)
		assert.Equal(t, 3, out.Days)
	})

	t.Run("msgpack", func(t *testing.T) {
		t.Parallel()

		data, err := MsgPackCodec{}.Encode(in)
		require.NoError(t, err)

		var generic map[string]any
		require.NoError(t, MsgPackCodec{}.Decode(data, &generic))
		assert.Equal(t, "Oslo", generic["name"])
		assert.NotContains(t, generic, "Empty")

		var out sample
		require.NoError(t, MsgPackCodec{}.Decode(data, &out))
		assert.Equal(t, []string{"cold"}, out.Tags)
	})

	t.Run("toml", func(t *testing.T) {
		t.Parallel()

		var out map[string]any
		require.NoError(t, TOMLCodec{}.Decode([]byte("[server]\naddr = \":8080\"\n"), &out))
		assert.Equal(t, map[string]any{"addr": ":8080"}, out["server"])
	})
}
