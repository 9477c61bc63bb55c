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

package corpus

// SpellingIndex maps every distinct spelling variant to its owning entries.
// Homographs are preserved in insertion order, not collapsed to the first
// entry seen.
type SpellingIndex[E any] struct {
	entries map[string][]E
}

// NewSpellingIndex returns an empty index.
func NewSpellingIndex[E any]() *SpellingIndex[E] {
	return &SpellingIndex[E]{
		entries: map[string][]E{},
	}
}

// Add records e as an owner of the given spelling. Empty spellings are
// ignored.
func (ix *SpellingIndex[E]) Add(spelling string, e E) {
	if spelling == "" {
		return
	}
	ix.entries[spelling] = append(ix.entries[spelling], e)
}

// Lookup returns all entries owning the spelling, in insertion order.
func (ix *SpellingIndex[E]) Lookup(spelling string) []E {
	return ix.entries[spelling]
}

// Len returns the number of distinct spellings in the index.
func (ix *SpellingIndex[E]) Len() int {
	return len(ix.entries)
}
