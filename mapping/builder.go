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

package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/Kimeiga/kiokun-data/internal/folding"
)

// Build converts every kanji form in a single oracle batch and keeps only
// the conversions that changed their input. Identity mappings are omitted:
// absence from the map is the "no-op" signal, which keeps the map small.
func Build(ctx context.Context, oracle Oracle, kanji []string) (Mapping, error) {
	inputs := dedupe(kanji)
	if len(inputs) == 0 {
		return New(nil), nil
	}

	outputs, err := oracle.Convert(ctx, inputs)
	if err != nil {
		return Mapping{}, fmt.Errorf("converting %d kanji forms: %w", len(inputs), err)
	}
	if len(outputs) != len(inputs) {
		return Mapping{}, fmt.Errorf("%w: %d inputs, %d outputs", ErrOracleContract, len(inputs), len(outputs))
	}

	m := make(map[string]string, len(inputs))
	for i, in := range inputs {
		if out := outputs[i]; out != in && out != "" {
			m[in] = out
		}
	}
	return Mapping{m: m}, nil
}

// Update builds a character-level mapping for kanji and merges it into the
// mapping file at path, adding only previously-absent keys. On any failure
// the existing file is left byte-identical; nothing partial is ever
// written.
func Update(ctx context.Context, oracle Oracle, kanji []string, path string, logger *slog.Logger) (Mapping, error) {
	built, err := Build(ctx, oracle, kanji)
	if err != nil {
		return Mapping{}, err
	}

	existing := New(nil)
	if _, statErr := os.Stat(path); statErr == nil {
		existing, err = Load(path)
		if err != nil {
			return Mapping{}, err
		}
	}

	merged := existing.Merge(built)
	if err := merged.WriteFile(path); err != nil {
		return Mapping{}, err
	}

	logger.Info("updated mapping",
		"path", path,
		"converted", built.Len(),
		"existing", existing.Len(),
		"total", merged.Len())
	return merged, nil
}

// dedupe folds, deduplicates, and sorts the kanji batch. Sorting makes the
// oracle batch, and therefore the resulting file, deterministic across runs.
func dedupe(kanji []string) []string {
	seen := make(map[string]struct{}, len(kanji))
	var out []string
	for _, k := range kanji {
		k = folding.Key(k)
		if k == "" || folding.IsKana(k) {
			// Kana spellings need no script conversion.
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
