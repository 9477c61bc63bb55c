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

// Package unify merges Chinese and Japanese corpus entries that denote
// the same word into a single record per match key.
//
// The match key is the Chinese traditional form when one exists, the
// Traditional-Chinese rendering of a Japanese kanji spelling when the
// character mapping knows one, and the raw spelling otherwise. Two
// entries merge iff their keys are identical strings after folding.
package unify

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Kimeiga/kiokun-data/corpus"
	"github.com/Kimeiga/kiokun-data/internal/folding"
	"github.com/Kimeiga/kiokun-data/mapping"
)

var (
	// ErrDuplicateKey indicates that two unified entries were produced
	// for the same match key. This signals a unifier bug and must halt
	// the run.
	ErrDuplicateKey = errors.New("duplicate match key")

	// ErrEmptyEntry indicates a unified entry with neither a Chinese
	// nor a Japanese entry present.
	ErrEmptyEntry = errors.New("unified entry has no source entries")
)

// Metadata describes how an entry was assembled.
type Metadata struct {
	// IsUnified is true iff both a Chinese and a Japanese entry are
	// present.
	IsUnified bool `json:"is_unified"`

	// ChineseCount is the total number of Chinese candidates that
	// matched the key, including those not selected as primary.
	ChineseCount int `json:"chinese_count"`

	// JapaneseCount is the total number of Japanese candidates that
	// matched the key.
	JapaneseCount int `json:"japanese_count"`
}

// Entry is one unified dictionary record. At most one Chinese and one
// Japanese entry are carried as primary; additional same-key matches
// are reflected in the metadata counts only.
type Entry struct {
	Word     string                `json:"word"`
	Chinese  *corpus.ChineseEntry  `json:"chinese_entry,omitempty"`
	Japanese *corpus.JapaneseEntry `json:"japanese_entry,omitempty"`
	Metadata Metadata              `json:"metadata"`
}

// ChineseKey returns the match key for a Chinese entry: the folded
// traditional form, or the simplified form when no traditional form is
// recorded.
func ChineseKey(e *corpus.ChineseEntry) string {
	if e.Traditional != "" {
		return folding.Key(e.Traditional)
	}
	return folding.Key(e.Simplified)
}

// JapaneseKey returns the match key for a Japanese entry. The first
// kanji spelling is rendered to Traditional Chinese through the
// character mapping, falling back to the raw spelling when unmapped.
// Kana-only entries key on their first kana reading; entries with no
// spellings at all get a synthetic per-ID key so they are never
// dropped.
//
// The mapping is keyed by folded spellings, so the spelling is folded
// before lookup.
func JapaneseKey(e *corpus.JapaneseEntry, m mapping.Mapping) string {
	if len(e.Kanji) > 0 {
		spelling := folding.Key(e.Kanji[0].Text)
		if trad, ok := m.Lookup(spelling); ok {
			return folding.Key(trad)
		}
		return spelling
	}
	if len(e.Kana) > 0 {
		return folding.Key(e.Kana[0].Text)
	}
	return "jp:" + e.ID
}

// Unifier merges the two corpora. The zero value is not usable; use
// New.
type Unifier struct {
	mapping mapping.Mapping
	logger  *slog.Logger
}

// New returns a Unifier that renders Japanese spellings through m.
func New(m mapping.Mapping, logger *slog.Logger) *Unifier {
	return &Unifier{
		mapping: m,
		logger:  logger,
	}
}

// Unify produces exactly one Entry per distinct match key present in
// either corpus, sorted lexicographically by key. Candidates are
// resolved through each corpus's spelling index; candidate order
// within a key follows corpus input order, and ties on the primary
// selection criteria keep the first-seen candidate.
func (u *Unifier) Unify(zh *corpus.ChineseCorpus, ja *corpus.JapaneseCorpus) ([]*Entry, error) {
	zhSpellings := map[string][]string{}
	zhPos := map[*corpus.ChineseEntry]int{}
	for i, e := range zh.Entries {
		key := ChineseKey(e)
		if key == "" {
			u.logger.Warn("chinese entry has no spelling", "id", e.ID)
			continue
		}
		zhPos[e] = i
		sp := e.Traditional
		if sp == "" {
			sp = e.Simplified
		}
		zhSpellings[key] = appendSpelling(zhSpellings[key], sp)
	}

	jaSpellings := map[string][]string{}
	// Entries with no indexable spelling cannot be reached through the
	// index and are carried directly.
	jaDirect := map[string][]*corpus.JapaneseEntry{}
	jaPos := map[*corpus.JapaneseEntry]int{}
	for i, e := range ja.Entries {
		key := JapaneseKey(e, u.mapping)
		jaPos[e] = i
		var sp string
		switch {
		case len(e.Kanji) > 0:
			sp = e.Kanji[0].Text
		case len(e.Kana) > 0:
			sp = e.Kana[0].Text
		}
		if sp == "" {
			jaDirect[key] = append(jaDirect[key], e)
			continue
		}
		jaSpellings[key] = appendSpelling(jaSpellings[key], sp)
	}

	keySet := map[string]bool{}
	for key := range zhSpellings {
		keySet[key] = true
	}
	for key := range jaSpellings {
		keySet[key] = true
	}
	for key := range jaDirect {
		keySet[key] = true
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]*Entry, 0, len(keys))
	for i, key := range keys {
		if i > 0 && key == keys[i-1] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}

		zhs := u.chineseCandidates(zh, key, zhSpellings[key], zhPos)
		jas := u.japaneseCandidates(ja, key, jaSpellings[key], jaDirect[key], jaPos)
		if len(zhs) == 0 && len(jas) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyEntry, key)
		}

		e := &Entry{
			Word:     key,
			Chinese:  primaryChinese(zhs),
			Japanese: primaryJapanese(jas),
			Metadata: Metadata{
				IsUnified:     len(zhs) > 0 && len(jas) > 0,
				ChineseCount:  len(zhs),
				JapaneseCount: len(jas),
			},
		}
		if len(zhs) > 1 || len(jas) > 1 {
			u.logger.Debug("extra candidates dropped",
				"key", key,
				"chinese", len(zhs),
				"japanese", len(jas))
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// chineseCandidates resolves a key's Chinese candidates through the
// corpus spelling index, dropping homographs whose own key differs,
// and restores corpus input order.
func (u *Unifier) chineseCandidates(zh *corpus.ChineseCorpus, key string, spellings []string, pos map[*corpus.ChineseEntry]int) []*corpus.ChineseEntry {
	var out []*corpus.ChineseEntry
	seen := map[*corpus.ChineseEntry]bool{}
	for _, sp := range spellings {
		for _, c := range zh.BySpelling(sp) {
			if seen[c] || ChineseKey(c) != key {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return pos[out[i]] < pos[out[j]] })
	return out
}

// japaneseCandidates is the Japanese counterpart. Spelling-less
// entries join their key directly.
func (u *Unifier) japaneseCandidates(ja *corpus.JapaneseCorpus, key string, spellings []string, direct []*corpus.JapaneseEntry, pos map[*corpus.JapaneseEntry]int) []*corpus.JapaneseEntry {
	out := append([]*corpus.JapaneseEntry(nil), direct...)
	seen := map[*corpus.JapaneseEntry]bool{}
	for _, e := range direct {
		seen[e] = true
	}
	for _, sp := range spellings {
		for _, e := range ja.BySpelling(sp) {
			if seen[e] || JapaneseKey(e, u.mapping) != key {
				continue
			}
			seen[e] = true
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return pos[out[i]] < pos[out[j]] })
	return out
}

func appendSpelling(spellings []string, sp string) []string {
	for _, s := range spellings {
		if s == sp {
			return spellings
		}
	}
	return append(spellings, sp)
}

// primaryChinese prefers entries carrying frequency statistics; the
// first candidate in input order wins a tie.
func primaryChinese(candidates []*corpus.ChineseEntry) *corpus.ChineseEntry {
	if len(candidates) == 0 {
		return nil
	}
	for _, c := range candidates {
		if c.HasFrequency() {
			return c
		}
	}
	return candidates[0]
}

// primaryJapanese prefers entries with a common kanji or kana reading.
func primaryJapanese(candidates []*corpus.JapaneseEntry) *corpus.JapaneseEntry {
	if len(candidates) == 0 {
		return nil
	}
	for _, c := range candidates {
		if c.Common() {
			return c
		}
	}
	return candidates[0]
}
