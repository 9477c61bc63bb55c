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

package folding_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Kimeiga/kiokun-data/internal/folding"
)

func TestKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "han passthrough",
			input:    "學生",
			expected: "學生",
		},
		{
			name:     "kana passthrough",
			input:    "がくせい",
			expected: "がくせい",
		},
		{
			name:     "latin case fold",
			input:    "OK",
			expected: "ok",
		},
		{
			name:     "surrounding whitespace",
			input:    " 學生\n",
			expected: "學生",
		},
		{
			name: "nfc normalization",
			// U+304B U+3099 (か + combining dakuten) composes to U+304C.
			input:    "が",
			expected: "が",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := folding.Key(test.input)
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Fatalf("Key (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestKey_idempotent(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"學生", "がくせい", "ＡＢＣ", "Straße"} {
		once := folding.Key(s)
		twice := folding.Key(once)
		if once != twice {
			t.Errorf("Key(%q) not idempotent: %q != %q", s, once, twice)
		}
	}
}

func TestIsKana(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bool
	}{
		{"がくせい", true},
		{"カタカナ", true},
		{"学生", false},
		{"abc", false},
		{"お茶", true},
		{"", false},
	}

	for _, test := range tests {
		if got := folding.IsKana(test.input); got != test.expected {
			t.Errorf("IsKana(%q) = %v, expected %v", test.input, got, test.expected)
		}
	}
}
