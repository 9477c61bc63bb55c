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

// Package searchindex projects unified entries into flat rows for
// bulk load into a relational search table.
package searchindex

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/k3a/html2text"

	"github.com/Kimeiga/kiokun-data/unify"
)

// Language identifies which side of a unified entry a row came from.
type Language string

const (
	Chinese  = Language("chinese")
	Japanese = Language("japanese")
)

// Row is one searchable definition. Many rows share a word, one per
// definition and language combination. Rows are append-only output;
// none is ever updated in place.
type Row struct {
	Word          string
	Language      Language
	Definition    string
	Pronunciation string
	IsCommon      bool
}

// Flatten emits the rows for one unified entry, Chinese side first.
// Chinese rows never set IsCommon since the source carries no common
// flag on spellings; Japanese rows set it when any kanji or kana
// variant of the entry is flagged common.
func Flatten(e *unify.Entry) []Row {
	var rows []Row

	if zh := e.Chinese; zh != nil {
		for _, item := range zh.Items {
			for _, def := range item.Definitions {
				rows = append(rows, Row{
					Word:          e.Word,
					Language:      Chinese,
					Definition:    sanitize(def),
					Pronunciation: item.Pinyin,
				})
			}
		}
	}

	if ja := e.Japanese; ja != nil {
		pronunciation := ""
		if len(ja.Kana) > 0 {
			pronunciation = ja.Kana[0].Text
		}
		common := ja.Common()

		for _, sense := range ja.Sense {
			for _, gloss := range sense.Gloss {
				rows = append(rows, Row{
					Word:          e.Word,
					Language:      Japanese,
					Definition:    sanitize(gloss.Text),
					Pronunciation: pronunciation,
					IsCommon:      common,
				})
			}
		}
	}

	return rows
}

// FlattenAll emits the rows for every entry in order.
func FlattenAll(entries []*unify.Entry) []Row {
	var rows []Row
	for _, e := range entries {
		rows = append(rows, Flatten(e)...)
	}
	return rows
}

// sanitize strips HTML markup that leaks into glosses from upstream
// dictionary sources.
func sanitize(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	return html2text.HTML2Text(s)
}

// WriteCSV writes rows with a header line, quoting any field that
// embeds a delimiter or quote. The boolean column is written as 0/1
// for the bulk importer.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"word", "language", "definition", "pronunciation", "is_common"}); err != nil {
		return fmt.Errorf("writing search index header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.Word, string(r.Language), r.Definition, r.Pronunciation, boolColumn(r.IsCommon)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing search index row for %q: %w", r.Word, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing search index: %w", err)
	}
	return nil
}

func boolColumn(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
