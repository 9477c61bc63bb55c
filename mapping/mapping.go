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

// Package mapping builds and maintains the kanji to Traditional-Chinese
// character mapping used as the cross-script matching key.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Mapping maps Japanese kanji spellings (word- or character-granularity) to
// their Traditional-Chinese renderings. A Mapping is immutable: merge
// operations construct a new Mapping so that trusted entries can never be
// overwritten in place.
type Mapping struct {
	m map[string]string
}

// New returns a Mapping holding a copy of m.
func New(m map[string]string) Mapping {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Mapping{m: cp}
}

// Lookup returns the Traditional-Chinese rendering for a kanji spelling.
func (m Mapping) Lookup(kanji string) (string, bool) {
	v, ok := m.m[kanji]
	return v, ok
}

// Len returns the number of entries.
func (m Mapping) Len() int {
	return len(m.m)
}

// Keys returns all kanji keys in lexicographic order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m.m))
	for k := range m.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new Mapping containing every entry of m plus entries of n
// whose keys are absent from m. Existing entries always win; merge is
// additive only, so for any key in m the merged value equals m's value.
func (m Mapping) Merge(n Mapping) Mapping {
	merged := make(map[string]string, len(m.m)+n.Len())
	for k, v := range m.m {
		merged[k] = v
	}
	for k, v := range n.m {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return Mapping{m: merged}
}

// Load reads a mapping file (a JSON object of kanji to traditional form).
func Load(path string) (Mapping, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("reading mapping: %w", err)
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return Mapping{}, fmt.Errorf("parsing mapping %q: %w", path, err)
	}
	return Mapping{m: m}, nil
}

// WriteFile persists the mapping as a JSON object with sorted keys. The
// write is atomic: content goes to a temporary file first and is renamed
// into place, so a failed build never leaves a partial mapping behind.
func (m Mapping) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating mapping dir: %w", err)
	}

	// encoding/json writes object keys in sorted order, which keeps
	// successive generations diffable.
	b, err := json.MarshalIndent(m.m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding mapping: %w", err)
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp mapping: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing mapping: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing mapping: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing mapping: %w", err)
	}
	return nil
}
