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

package corpus_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Kimeiga/kiokun-data/corpus"
	"github.com/Kimeiga/kiokun-data/internal/testutil"
)

func TestLoadChinese(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string

		expected        []*corpus.ChineseEntry
		expectedSkipped int
	}{
		{
			name: "single entry",
			data: `{"simp":"学生","trad":"學生","gloss":"student","items":[{"source":"cedict","pinyin":"xué shēng","definitions":["student"]}]}` + "\n",
			expected: []*corpus.ChineseEntry{
				{
					Simplified:  "学生",
					Traditional: "學生",
					Gloss:       "student",
					Items: []corpus.ChineseItem{
						{
							Source:      "cedict",
							Pinyin:      "xué shēng",
							Definitions: []string{"student"},
						},
					},
				},
			},
		},
		{
			name: "malformed line skipped",
			data: strings.Join([]string{
				`{"simp":"好","trad":"好"}`,
				`{"simp":"broken`,
				`{"simp":"茶","trad":"茶"}`,
			}, "\n"),
			expected: []*corpus.ChineseEntry{
				{Simplified: "好", Traditional: "好"},
				{Simplified: "茶", Traditional: "茶"},
			},
			expectedSkipped: 1,
		},
		{
			name: "blank lines ignored",
			data: "\n" + `{"simp":"的","trad":"的"}` + "\n\n",
			expected: []*corpus.ChineseEntry{
				{Simplified: "的", Traditional: "的"},
			},
		},
		{
			name:            "record with no spelling skipped",
			data:            `{"gloss":"orphan"}` + "\n",
			expected:        nil,
			expectedSkipped: 1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			c, err := corpus.LoadChinese(strings.NewReader(test.data), testutil.DiscardLogger())
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(test.expected, c.Entries); diff != "" {
				t.Fatalf("entries (-want, +got):\n%s", diff)
			}
			if got := c.Skipped; got != test.expectedSkipped {
				t.Fatalf("skipped: expected %d, got %d", test.expectedSkipped, got)
			}
		})
	}
}

func TestChineseCorpus_BySpelling(t *testing.T) {
	t.Parallel()

	data := strings.Join([]string{
		`{"simp":"学生","trad":"學生","gloss":"student"}`,
		`{"simp":"学生","trad":"學生","gloss":"pupil"}`,
		`{"simp":"好","trad":"好"}`,
	}, "\n")

	c, err := corpus.LoadChinese(strings.NewReader(data), testutil.DiscardLogger())
	if err != nil {
		t.Fatal(err)
	}

	// Homographs are preserved in insertion order under both spellings.
	for _, spelling := range []string{"学生", "學生"} {
		got := c.BySpelling(spelling)
		if len(got) != 2 {
			t.Fatalf("BySpelling(%q): expected 2 entries, got %d", spelling, len(got))
		}
		if got[0].Gloss != "student" || got[1].Gloss != "pupil" {
			t.Errorf("BySpelling(%q) order: got %q, %q", spelling, got[0].Gloss, got[1].Gloss)
		}
	}

	if got := c.BySpelling("珈琲"); got != nil {
		t.Errorf("BySpelling(missing): expected nil, got %v", got)
	}
}

func TestChineseEntry_HasFrequency(t *testing.T) {
	t.Parallel()

	level := 1
	tests := []struct {
		name     string
		entry    corpus.ChineseEntry
		expected bool
	}{
		{
			name:     "no statistics",
			entry:    corpus.ChineseEntry{},
			expected: false,
		},
		{
			name:     "empty statistics",
			entry:    corpus.ChineseEntry{Statistics: &corpus.ChineseStatistics{}},
			expected: false,
		},
		{
			name:     "hsk level",
			entry:    corpus.ChineseEntry{Statistics: &corpus.ChineseStatistics{HSKLevel: &level}},
			expected: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if got := test.entry.HasFrequency(); got != test.expected {
				t.Fatalf("HasFrequency: expected %v, got %v", test.expected, got)
			}
		})
	}
}
