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

// Package validation checks structs against go-playground/validator tags
// and reports failures as field errors whose messages can feed a validation
// outcome directly:
//
//	if err := validation.Validate(&req); err != nil {
//		var verr *validation.Error
//		if errors.As(err, &verr) {
//			return outcome.ValidationError[Forecast](verr.Messages()...)
//		}
//	}
//
// Field paths use json tag names by default. Types may also implement
// [Validatable]; its Validate method runs after the tag checks pass.
package validation
