// Copyright 2025 Kiokun Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package folding implements canonical key folding for dictionary headwords.
//
// Two headwords unify if and only if their folded forms are identical
// strings, so every component that derives a match key must fold through
// this package. The fold is NFC normalization followed by Unicode case
// folding; Han text passes through unchanged.
package folding

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key returns the canonical match-key form of s.
func Key(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	// Caser values are stateful, so a fresh chain is built per call.
	out, _, err := transform.String(transform.Chain(norm.NFC, cases.Fold()), s)
	if err != nil {
		// The fold transforms are total over valid UTF-8. Invalid input is
		// kept verbatim rather than dropped so the word still gets a key.
		return s
	}
	return out
}

// IsKana reports whether s contains any hiragana or katakana.
func IsKana(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana) {
			return true
		}
	}
	return false
}
