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

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ErrJapaneseFormat indicates the Japanese dump is not the expected
// whole-document JSON form.
var ErrJapaneseFormat = errors.New("invalid japanese corpus format")

// JapaneseKanji is one kanji spelling of a Japanese word.
type JapaneseKanji struct {
	Text   string `json:"text"`
	Common bool   `json:"common,omitempty"`
}

// JapaneseKana is one kana reading of a Japanese word.
type JapaneseKana struct {
	Text           string   `json:"text"`
	Common         bool     `json:"common,omitempty"`
	AppliesToKanji []string `json:"appliesToKanji,omitempty"`
}

// JapaneseGloss is a single translation within a sense.
type JapaneseGloss struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

// JapaneseSense groups glosses sharing grammatical context.
type JapaneseSense struct {
	PartOfSpeech []string        `json:"partOfSpeech,omitempty"`
	Gloss        []JapaneseGloss `json:"gloss,omitempty"`
}

// JapaneseEntry is one word of the Japanese dump. Entries are immutable once
// loaded; identity is the source-assigned ID.
type JapaneseEntry struct {
	ID    string          `json:"id"`
	Kanji []JapaneseKanji `json:"kanji,omitempty"`
	Kana  []JapaneseKana  `json:"kana,omitempty"`
	Sense []JapaneseSense `json:"sense,omitempty"`
}

// Common reports whether any kanji or kana spelling is flagged common.
func (e *JapaneseEntry) Common() bool {
	for _, k := range e.Kanji {
		if k.Common {
			return true
		}
	}
	for _, k := range e.Kana {
		if k.Common {
			return true
		}
	}
	return false
}

// JapaneseCorpus is the loaded Japanese dictionary plus its spelling index.
type JapaneseCorpus struct {
	Entries []*JapaneseEntry

	// Skipped is the number of malformed records dropped during load.
	Skipped int

	index *SpellingIndex[*JapaneseEntry]
}

// BySpelling returns the entries owning a kanji or kana spelling, in input
// order. Corpora assembled directly rather than through a loader are
// indexed on first use.
func (c *JapaneseCorpus) BySpelling(spelling string) []*JapaneseEntry {
	if c.index == nil {
		c.index = NewSpellingIndex[*JapaneseEntry]()
		for _, e := range c.Entries {
			c.indexEntry(e)
		}
	}
	return c.index.Lookup(spelling)
}

func (c *JapaneseCorpus) indexEntry(e *JapaneseEntry) {
	for _, k := range e.Kanji {
		c.index.Add(k.Text, e)
	}
	for _, k := range e.Kana {
		c.index.Add(k.Text, e)
	}
}

// LoadJapaneseFile loads a Japanese dictionary dump from a JSON file.
func LoadJapaneseFile(path string, logger *slog.Logger) (*JapaneseCorpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening japanese corpus: %w", err)
	}
	defer f.Close()
	c, err := LoadJapanese(f, logger)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return c, nil
}

// LoadJapanese reads a whole-document JSON Japanese dump of the form
// {"words": [...]}. Each word is decoded individually so that one
// structurally bad record is logged and skipped without aborting the load.
func LoadJapanese(r io.Reader, logger *slog.Logger) (*JapaneseCorpus, error) {
	var doc struct {
		Words []json.RawMessage `json:"words"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJapaneseFormat, err)
	}

	c := &JapaneseCorpus{
		index: NewSpellingIndex[*JapaneseEntry](),
	}

	for i, raw := range doc.Words {
		var e JapaneseEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			c.Skipped++
			logger.Warn("skipping malformed japanese record",
				"record", i,
				"err", err)
			continue
		}
		if e.ID == "" {
			c.Skipped++
			logger.Warn("skipping japanese record with no id", "record", i)
			continue
		}

		c.Entries = append(c.Entries, &e)
		c.indexEntry(&e)
	}

	logger.Info("loaded japanese corpus",
		"words", len(c.Entries),
		"spellings", c.index.Len(),
		"skipped", c.Skipped)
	return c, nil
}
