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
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	ID   int
	Name string
}

func TestSuccess(t *testing.T) {
	t.Parallel()

	o := Success(user{ID: 1, Name: "ada"})

	assert.Equal(t, KindSuccess, o.Kind())
	assert.True(t, o.IsSuccess())
	assert.Nil(t, o.Errors())
	assert.NoError(t, o.Err())

	v, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, user{ID: 1, Name: "ada"}, v)

	_, hasStatus := o.StatusCode()
	assert.False(t, hasStatus)
}

func TestSuccessStatus(t *testing.T) {
	t.Parallel()

	o := SuccessStatus("accepted", http.StatusAccepted)

	status, ok := o.StatusCode()
	require.True(t, ok)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, KindSuccess, o.Kind())
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	o := NoContent[user]()

	assert.Equal(t, KindNoContent, o.Kind())
	assert.True(t, o.IsSuccess())

	v, ok := o.Value()
	assert.False(t, ok)
	assert.Equal(t, user{}, v)
}

func TestCreated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		action      string
		routeValues map[string]any
		wantErr     error
	}{
		{
			name:        "valid",
			action:      "GetUser",
			routeValues: map[string]any{"id": 1},
		},
		{
			name:        "empty route values are allowed",
			action:      "ListUsers",
			routeValues: map[string]any{},
		},
		{
			name:        "blank action",
			action:      "   ",
			routeValues: map[string]any{"id": 1},
			wantErr:     ErrInvalidArgument,
		},
		{
			name:        "empty action",
			routeValues: map[string]any{"id": 1},
			wantErr:     ErrInvalidArgument,
		},
		{
			name:    "nil route values",
			action:  "GetUser",
			wantErr: ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o, err := Created(user{ID: 1}, tt.action, tt.routeValues)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, KindUnknown, o.Kind())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, KindCreated, o.Kind())
			assert.Equal(t, tt.action, o.ActionName())
			assert.Equal(t, tt.routeValues, o.RouteValues())
		})
	}
}

func TestCreated_CopiesRouteValues(t *testing.T) {
	t.Parallel()

	values := map[string]any{"id": 1}
	o := Must(Created(user{ID: 1}, "GetUser", values))

	values["id"] = 2
	assert.Equal(t, 1, o.RouteValues()["id"], "outcome must not observe caller mutations")

	got := o.RouteValues()
	got["id"] = 3
	assert.Equal(t, 1, o.RouteValues()["id"], "accessor must return a copy")
}

func TestFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    Kind
		errs    []string
		wantErr error
	}{
		{name: "failure", kind: KindFailure, errs: []string{"boom"}},
		{name: "not found", kind: KindNotFound, errs: []string{"x"}},
		{name: "validation", kind: KindValidation, errs: []string{"a", "b"}},
		{name: "conflict", kind: KindConflict, errs: []string{"dup"}},
		{name: "unauthorized", kind: KindUnauthorized, errs: []string{"no"}},
		{name: "success kind", kind: KindSuccess, errs: []string{"x"}, wantErr: ErrInvalidArgument},
		{name: "created kind", kind: KindCreated, errs: []string{"x"}, wantErr: ErrInvalidArgument},
		{name: "no content kind", kind: KindNoContent, errs: []string{"x"}, wantErr: ErrInvalidArgument},
		{name: "unknown kind", kind: KindUnknown, errs: []string{"x"}, wantErr: ErrInvalidArgument},
		{name: "out of range kind", kind: Kind(42), errs: []string{"x"}, wantErr: ErrInvalidArgument},
		{name: "no messages", kind: KindNotFound, wantErr: ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o, err := Failure[user](tt.kind, tt.errs...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.kind, o.Kind())
			assert.False(t, o.IsSuccess())
			assert.Equal(t, tt.errs, o.Errors())

			_, ok := o.Value()
			assert.False(t, ok)
		})
	}
}

func TestFailure_CopiesErrors(t *testing.T) {
	t.Parallel()

	errs := []string{"first"}
	o := Must(Failure[user](KindConflict, errs...))

	errs[0] = "changed"
	assert.Equal(t, []string{"first"}, o.Errors())

	got := o.Errors()
	got[0] = "changed again"
	assert.Equal(t, []string{"first"}, o.Errors())
}

func TestConvenienceFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		build    func() Outcome[user]
		wantKind Kind
		wantErrs []string
	}{
		{
			name:     "not found",
			build:    func() Outcome[user] { return NotFound[user]("user 7 not found") },
			wantKind: KindNotFound,
			wantErrs: []string{"user 7 not found"},
		},
		{
			name:     "not found default",
			build:    func() Outcome[user] { return NotFound[user]("") },
			wantKind: KindNotFound,
			wantErrs: []string{DefaultNotFoundMessage},
		},
		{
			name:     "unauthorized default",
			build:    func() Outcome[user] { return Unauthorized[user](" ") },
			wantKind: KindUnauthorized,
			wantErrs: []string{DefaultUnauthorizedMessage},
		},
		{
			name:     "conflict",
			build:    func() Outcome[user] { return Conflict[user]("name taken") },
			wantKind: KindConflict,
			wantErrs: []string{"name taken"},
		},
		{
			name:     "conflict default",
			build:    func() Outcome[user] { return Conflict[user]("") },
			wantKind: KindConflict,
			wantErrs: []string{DefaultConflictMessage},
		},
		{
			name:     "validation",
			build:    func() Outcome[user] { return ValidationError[user]("name: is required", "age: must be at least 0") },
			wantKind: KindValidation,
			wantErrs: []string{"name: is required", "age: must be at least 0"},
		},
		{
			name:     "validation default",
			build:    func() Outcome[user] { return ValidationError[user]() },
			wantKind: KindValidation,
			wantErrs: []string{DefaultValidationMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o := tt.build()
			assert.Equal(t, tt.wantKind, o.Kind())
			assert.False(t, o.IsSuccess())
			assert.Equal(t, tt.wantErrs, o.Errors())
		})
	}
}

func TestNew_Invariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    Kind
		opts    []Option
		wantErr error
	}{
		{
			name:    "success with errors",
			kind:    KindSuccess,
			opts:    []Option{WithValue(user{ID: 1}), WithErrors("unexpected")},
			wantErr: ErrInvalidState,
		},
		{
			name:    "created with errors",
			kind:    KindCreated,
			opts:    []Option{WithErrors("unexpected")},
			wantErr: ErrInvalidState,
		},
		{
			name:    "not found with value",
			kind:    KindNotFound,
			opts:    []Option{WithErrors("x"), WithValue(user{ID: 1})},
			wantErr: ErrInvalidState,
		},
		{
			name:    "failure with pointer value",
			kind:    KindFailure,
			opts:    []Option{WithErrors("x"), WithValue(&user{ID: 1})},
			wantErr: ErrInvalidState,
		},
		{
			name:    "not found without errors",
			kind:    KindNotFound,
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "validation with empty error list",
			kind:    KindValidation,
			opts:    []Option{WithErrors()},
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "unknown kind",
			kind:    KindUnknown,
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "value of wrong type",
			kind:    KindSuccess,
			opts:    []Option{WithValue("not a user")},
			wantErr: ErrInvalidArgument,
		},
		{
			name: "failure with nil value",
			kind: KindNotFound,
			opts: []Option{WithErrors("x"), WithValue(nil)},
		},
		{
			name: "success with empty error list",
			kind: KindSuccess,
			opts: []Option{WithValue(user{ID: 1}), WithErrors()},
		},
		{
			name: "created without route",
			kind: KindCreated,
			opts: []Option{WithValue(user{ID: 1})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o, err := New[user](tt.kind, tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, Outcome[user]{}, o)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.kind, o.Kind())
		})
	}
}

func TestNew_RouteIgnoredOutsideCreated(t *testing.T) {
	t.Parallel()

	o, err := New[user](KindSuccess, WithValue(user{ID: 1}), WithRoute("GetUser", map[string]any{"id": 1}))
	require.NoError(t, err)

	assert.Empty(t, o.ActionName())
	assert.Nil(t, o.RouteValues())
}

func TestMust(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		Must(Created(user{}, "", nil))
	})

	assert.NotPanics(t, func() {
		o := Must(Created(user{}, "GetUser", map[string]any{"id": 1}))
		assert.Equal(t, KindCreated, o.Kind())
	})
}

func TestOutcome_Err(t *testing.T) {
	t.Parallel()

	o := NotFound[user]("user 7 not found")

	err := o.Err()
	require.Error(t, err)
	assert.Equal(t, "user 7 not found", err.Error())
	assert.ErrorIs(t, err, &Error{Kind: KindNotFound})
	assert.NotErrorIs(t, err, &Error{Kind: KindConflict})

	var oerr *Error
	require.True(t, errors.As(err, &oerr))
	assert.Equal(t, http.StatusNotFound, oerr.HTTPStatus())
	assert.Equal(t, "not_found", oerr.Code())
	assert.Equal(t, []string{"user 7 not found"}, oerr.Details())
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "success", Success(1).String())
	assert.Equal(t, "validation: a; b", ValidationError[int]("a", "b").String())
}
