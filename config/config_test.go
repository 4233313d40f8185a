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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/outcome/codec"
	"rivaas.dev/outcome/config/source"
	"rivaas.dev/outcome/validation"
)

type testSettings struct {
	Server struct {
		Addr        string        `config:"addr" default:":8080" validate:"required"`
		ReadTimeout time.Duration `config:"read_timeout" default:"5s"`
	} `config:"server"`
	Log struct {
		Level string `config:"level" default:"info" validate:"oneof=debug info warn error"`
	} `config:"log"`
	Origins []string `config:"origins"`
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	var s testSettings
	cfg := MustNew(WithBinding(&s))
	require.NoError(t, cfg.Load(context.Background()))

	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, 5*time.Second, s.Server.ReadTimeout)
	assert.Equal(t, "info", s.Log.Level)
	assert.Empty(t, s.Origins)
}

func TestLoad_LayeredSources(t *testing.T) {
	t.Parallel()

	yamlContent := []byte(`
server:
  addr: ":9000"
  read_timeout: 1s
log:
  level: debug
origins: "https://a.example,https://b.example"
`)

	var s testSettings
	cfg := MustNew(
		WithContent(yamlContent, codec.TypeYAML),
		WithSource(source.NewEnvList("APP_", []string{
			"APP_SERVER_ADDR=:9100",
			"APP_LOG_LEVEL=warn",
		})),
		WithBinding(&s),
	)
	require.NoError(t, cfg.Load(context.Background()))

	assert.Equal(t, ":9100", s.Server.Addr)
	assert.Equal(t, time.Second, s.Server.ReadTimeout)
	assert.Equal(t, "warn", s.Log.Level)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.Origins)

	assert.Equal(t, ":9100", cfg.String("server.addr"))
	assert.Equal(t, time.Second, cfg.Duration("SERVER.READ_TIMEOUT"))
	assert.Equal(t, "fallback", cfg.StringOr("server.missing", "fallback"))
	assert.Nil(t, cfg.Get("server.addr.deeper"))
	assert.Contains(t, cfg.Values(), "log")
}

func TestLoad_CaseInsensitiveKeys(t *testing.T) {
	t.Parallel()

	var s testSettings
	cfg := MustNew(
		WithContent([]byte(`{"Server":{"ADDR":":1234"},"LOG":{"Level":"error"}}`), codec.TypeJSON),
		WithContent([]byte("[server]\nread_timeout = \"250ms\"\n"), codec.TypeTOML),
		WithBinding(&s),
	)
	require.NoError(t, cfg.Load(context.Background()))

	assert.Equal(t, ":1234", s.Server.Addr)
	assert.Equal(t, 250*time.Millisecond, s.Server.ReadTimeout)
	assert.Equal(t, "error", s.Log.Level)
	assert.Zero(t, cfg.Int("nothing"))
}

func TestLoad_ValidationFailureKeepsPreviousBinding(t *testing.T) {
	t.Parallel()

	var s testSettings
	s.Log.Level = "debug"

	cfg := MustNew(
		WithContent([]byte(`{"log":{"level":"verbose"}}`), codec.TypeJSON),
		WithBinding(&s),
	)
	err := cfg.Load(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, validation.ErrValidation)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "binding", cerr.Source)
	assert.Equal(t, "validate", cerr.Operation)
	assert.Contains(t, err.Error(), "log.level: must be one of [debug info warn error]")

	assert.Equal(t, "debug", s.Log.Level)
	assert.Empty(t, s.Server.Addr)
}

func TestLoad_Files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "outcomed.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o600))

	var s testSettings
	cfg := MustNew(
		WithFile(path),
		WithOptionalFile(filepath.Join(dir, "absent.yaml")),
		WithBinding(&s),
	)
	require.NoError(t, cfg.Load(context.Background()))
	assert.Equal(t, "debug", s.Log.Level)

	cfg = MustNew(WithFile(filepath.Join(dir, "absent.yaml")))
	err := cfg.Load(context.Background())
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "source[0]", cerr.Source)
	assert.Equal(t, "load", cerr.Operation)
}

func TestNew_OptionErrors(t *testing.T) {
	t.Parallel()

	var s testSettings

	tests := []struct {
		name string
		opt  Option
	}{
		{name: "binding not a pointer", opt: WithBinding(s)},
		{name: "binding nil pointer", opt: WithBinding((*testSettings)(nil))},
		{name: "unknown extension", opt: WithFile("settings.ini")},
		{name: "unknown codec", opt: WithContent(nil, "xml")},
		{name: "nil source", opt: WithSource(nil)},
		{name: "empty tag", opt: WithTag("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := New(tt.opt)
			require.Error(t, err)
			assert.Nil(t, cfg)
		})
	}

	assert.Panics(t, func() { MustNew(WithSource(nil)) })
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := MustNew(WithContent([]byte(`{}`), codec.TypeJSON))
	require.True(t, errors.Is(cfg.Load(ctx), context.Canceled))
}

type rangeSettings struct {
	Min int `config:"min"`
	Max int `config:"max"`
}

func (r rangeSettings) Validate() error {
	if r.Max < r.Min {
		return errors.New("max must not be below min")
	}

	return nil
}

func TestLoad_ValidatableBinding(t *testing.T) {
	t.Parallel()

	var r rangeSettings
	cfg := MustNew(WithContent([]byte(`{"min": "5", "max": 2}`), codec.TypeJSON), WithBinding(&r))
	require.ErrorContains(t, cfg.Load(context.Background()), "max must not be below min")
}
