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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// SimpTrad marks which script forms a definition item applies to.
type SimpTrad string

const (
	SimplifiedOnly  = SimpTrad("simplified")
	TraditionalOnly = SimpTrad("traditional")
	BothForms       = SimpTrad("both")
)

// ChineseItem is one sourced pronunciation/definition group within a
// Chinese entry.
type ChineseItem struct {
	Source      string   `json:"source,omitempty"`
	Pinyin      string   `json:"pinyin,omitempty"`
	Definitions []string `json:"definitions,omitempty"`
	SimpTrad    SimpTrad `json:"simpTrad,omitempty"`
}

// ChineseStatistics carries frequency signals for a Chinese entry.
type ChineseStatistics struct {
	HSKLevel  *int `json:"hskLevel,omitempty"`
	Frequency *int `json:"frequency,omitempty"`
}

// ChineseEntry is one record of the Chinese word dump. Entries are immutable
// once loaded; identity is the (simplified, traditional) pair.
type ChineseEntry struct {
	ID          string             `json:"id,omitempty"`
	Simplified  string             `json:"simp"`
	Traditional string             `json:"trad"`
	Gloss       string             `json:"gloss,omitempty"`
	Items       []ChineseItem      `json:"items,omitempty"`
	Statistics  *ChineseStatistics `json:"statistics,omitempty"`
}

// HasFrequency reports whether the entry carries any frequency signal.
func (e *ChineseEntry) HasFrequency() bool {
	return e.Statistics != nil && (e.Statistics.HSKLevel != nil || e.Statistics.Frequency != nil)
}

// ChineseCorpus is the loaded Chinese dictionary plus its spelling index.
type ChineseCorpus struct {
	Entries []*ChineseEntry

	// Skipped is the number of malformed records dropped during load.
	Skipped int

	index *SpellingIndex[*ChineseEntry]
}

// BySpelling returns the entries owning a simplified or traditional
// spelling, in input order. Corpora assembled directly rather than
// through a loader are indexed on first use.
func (c *ChineseCorpus) BySpelling(spelling string) []*ChineseEntry {
	if c.index == nil {
		c.index = NewSpellingIndex[*ChineseEntry]()
		for _, e := range c.Entries {
			c.indexEntry(e)
		}
	}
	return c.index.Lookup(spelling)
}

func (c *ChineseCorpus) indexEntry(e *ChineseEntry) {
	c.index.Add(e.Simplified, e)
	if e.Traditional != e.Simplified {
		c.index.Add(e.Traditional, e)
	}
}

// LoadChineseFile loads a Chinese dictionary dump from a JSONL file.
func LoadChineseFile(path string, logger *slog.Logger) (*ChineseCorpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chinese corpus: %w", err)
	}
	defer f.Close()
	c, err := LoadChinese(f, logger)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return c, nil
}

// LoadChinese reads a line-delimited JSON Chinese dictionary dump. Malformed
// lines are logged and skipped; one corrupt record never aborts the load.
func LoadChinese(r io.Reader, logger *slog.Logger) (*ChineseCorpus, error) {
	c := &ChineseCorpus{
		index: NewSpellingIndex[*ChineseEntry](),
	}

	s := bufio.NewScanner(r)
	// Dump lines routinely exceed bufio's default token size.
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNum := 0
	for s.Scan() {
		lineNum++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}

		var e ChineseEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			c.Skipped++
			logger.Warn("skipping malformed chinese record",
				"line", lineNum,
				"err", err)
			continue
		}
		if e.Simplified == "" && e.Traditional == "" {
			c.Skipped++
			logger.Warn("skipping chinese record with no spelling", "line", lineNum)
			continue
		}

		c.Entries = append(c.Entries, &e)
		c.indexEntry(&e)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading chinese corpus: %w", err)
	}

	logger.Info("loaded chinese corpus",
		"entries", len(c.Entries),
		"spellings", c.index.Len(),
		"skipped", c.Skipped)
	return c, nil
}
