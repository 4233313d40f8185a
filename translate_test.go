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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	t.Parallel()

	u := user{ID: 7, Name: "grace"}

	tests := []struct {
		name         string
		outcome      Outcome[user]
		wantStatus   int
		wantBody     any
		wantLocation *Reference
	}{
		{
			name:       "success",
			outcome:    Success(u),
			wantStatus: http.StatusOK,
			wantBody:   u,
		},
		{
			name:       "success with override",
			outcome:    SuccessStatus(u, http.StatusAccepted),
			wantStatus: http.StatusAccepted,
			wantBody:   u,
		},
		{
			name:         "created",
			outcome:      Must(Created(u, "GetUser", map[string]any{"id": 7})),
			wantStatus:   http.StatusCreated,
			wantBody:     u,
			wantLocation: &Reference{Action: "GetUser", RouteValues: map[string]any{"id": 7}},
		},
		{
			name:       "created without route falls back to plain 201",
			outcome:    Must(New[user](KindCreated, WithValue(u))),
			wantStatus: http.StatusCreated,
			wantBody:   u,
		},
		{
			name:       "no content",
			outcome:    NoContent[user](),
			wantStatus: http.StatusNoContent,
			wantBody:   nil,
		},
		{
			name:       "failure",
			outcome:    Must(Failure[user](KindFailure, "db down", "retry later")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   ErrorList{Errors: []string{"db down", "retry later"}},
		},
		{
			name:       "not found",
			outcome:    NotFound[user]("user 7 not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   []string{"user 7 not found"},
		},
		{
			name:       "conflict",
			outcome:    Conflict[user]("name taken"),
			wantStatus: http.StatusConflict,
			wantBody:   []string{"name taken"},
		},
		{
			name:       "unauthorized echoes the payload",
			outcome:    Unauthorized[user]("no token"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   user{},
		},
		{
			name:       "zero outcome uses the default row",
			outcome:    Outcome[user]{},
			wantStatus: http.StatusOK,
			wantBody:   user{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := Translate(tt.outcome)

			assert.Equal(t, tt.outcome.Kind(), resp.Kind)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantBody, resp.Body)
			assert.Equal(t, tt.wantLocation, resp.Location)
		})
	}
}

func TestTranslate_ValidationBodyIsPayloadNotErrors(t *testing.T) {
	t.Parallel()

	o := ValidationError[[]string]("field required")
	resp := Translate(o)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Equal(t, []string(nil), resp.Body, "validation responses echo the (zero) payload")
	assert.NotEqual(t, []string{"field required"}, resp.Body)
	assert.Equal(t, []string{"field required"}, o.Errors(), "messages stay available on the outcome")
}

// The override is honored for Success only; every other kind keeps its fixed
// status even when built with WithStatus.
func TestTranslate_OverrideOnlyForSuccess(t *testing.T) {
	t.Parallel()

	const override = http.StatusTeapot

	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			var opts []Option
			opts = append(opts, WithStatus(override))
			if kind.IsFailure() {
				opts = append(opts, WithErrors("x"))
			}

			o, err := New[string](kind, opts...)
			require.NoError(t, err)

			resp := Translate(o)
			if kind == KindSuccess {
				assert.Equal(t, override, resp.Status)
				return
			}
			assert.Equal(t, kind.DefaultStatus(), resp.Status)
		})
	}
}

func TestTranslate_NoContentIgnoresOtherFields(t *testing.T) {
	t.Parallel()

	o, err := New[string](KindNoContent, WithValue("ignored"), WithStatus(http.StatusOK))
	require.NoError(t, err)

	resp := Translate(o)
	assert.Equal(t, http.StatusNoContent, resp.Status)
	assert.Nil(t, resp.Body)
	assert.Nil(t, resp.Location)

	v, ok := o.Value()
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestTranslate_Idempotent(t *testing.T) {
	t.Parallel()

	outcomes := []Outcome[user]{
		Success(user{ID: 1}),
		Must(Created(user{ID: 2}, "GetUser", map[string]any{"id": 2})),
		Must(Failure[user](KindFailure, "boom")),
		NotFound[user](""),
	}

	for _, o := range outcomes {
		assert.Equal(t, Translate(o), Translate(o), o.String())
	}
}

func TestTranslate_ResponseDoesNotAliasOutcome(t *testing.T) {
	t.Parallel()

	o := Conflict[user]("taken")
	resp := Translate(o)

	body, ok := resp.Body.([]string)
	require.True(t, ok)
	body[0] = "mutated"

	assert.Equal(t, []string{"taken"}, o.Errors())
	assert.Equal(t, []string{"taken"}, Translate(o).Body)
}
