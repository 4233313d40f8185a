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

package render

import (
	"strconv"
	"strings"
)

// acceptSpec is one media range of an Accept header.
type acceptSpec struct {
	value   string
	quality float64
}

// parseAccept splits an Accept header into media ranges. Ranges without a
// value are dropped; a missing or malformed q parameter counts as 1.
func parseAccept(header string) []acceptSpec {
	if strings.TrimSpace(header) == "" {
		return nil
	}

	parts := strings.Split(header, ",")
	specs := make([]acceptSpec, 0, len(parts))
	for _, part := range parts {
		if spec := parseAcceptPart(part); spec.value != "" {
			specs = append(specs, spec)
		}
	}

	return specs
}

func parseAcceptPart(part string) acceptSpec {
	spec := acceptSpec{quality: 1}

	value, params, _ := strings.Cut(part, ";")
	spec.value = strings.ToLower(strings.TrimSpace(value))

	for params != "" {
		var param string
		param, params, _ = strings.Cut(params, ";")

		key, val, ok := strings.Cut(param, "=")
		if !ok || strings.TrimSpace(key) != "q" {
			continue
		}
		val = strings.Trim(strings.TrimSpace(val), `"`)
		if q := parseQuality(val); q >= 0 {
			spec.quality = float64(q) / 1000
		} else if q, err := strconv.ParseFloat(val, 64); err == nil && q >= 0 && q <= 1 {
			spec.quality = q
		}
	}

	return spec
}

// parseQuality parses a q-value into thousandths ("0.85" -> 850).
// It returns -1 for anything outside the RFC 9110 qvalue grammar.
func parseQuality(s string) int {
	if len(s) == 0 || len(s) > 5 {
		return -1
	}

	switch s[0] {
	case '1':
		if len(s) == 1 {
			return 1000
		}
		if len(s) < 3 || s[1] != '.' {
			return -1
		}
		for i := 2; i < len(s); i++ {
			if s[i] != '0' {
				return -1
			}
		}

		return 1000

	case '0':
		if len(s) == 1 {
			return 0
		}
		if len(s) < 3 || s[1] != '.' {
			return -1
		}
		result, multiplier := 0, 100
		for i := 2; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return -1
			}
			result += int(s[i]-'0') * multiplier
			multiplier /= 10
		}

		return result

	default:
		return -1
	}
}

// matchMediaType returns the quality spec assigns to offer and how specific
// the match is: 3 exact, 2 subtype wildcard, 1 full wildcard, 0 none.
func matchMediaType(offer string, spec acceptSpec) (float64, int) {
	offerType, offerSubtype := splitMediaType(offer)
	specType, specSubtype := splitMediaType(spec.value)

	switch {
	case specType == "*" && specSubtype == "*":
		return spec.quality, 1
	case specType == offerType && specSubtype == "*":
		return spec.quality, 2
	case specType == offerType && specSubtype == offerSubtype:
		return spec.quality, 3
	default:
		return 0, 0
	}
}

func splitMediaType(mediaType string) (string, string) {
	mediaType, _, _ = strings.Cut(mediaType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))

	typ, sub, ok := strings.Cut(mediaType, "/")
	if !ok {
		return typ, "*"
	}

	return typ, sub
}
