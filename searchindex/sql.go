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

package searchindex

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TableName is the search table the generated statements load.
const TableName = "dictionary_search"

// SQLBatchSize is the number of rows per generated INSERT statement.
// Large multi-row inserts keep the bulk import fast without tripping
// statement size limits.
const SQLBatchSize = 500

// WriteSQL writes rows as batched INSERT statements. Embedded single
// quotes are doubled; no other escaping is needed for the values
// emitted here.
func WriteSQL(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	for start := 0; start < len(rows); start += SQLBatchSize {
		end := start + SQLBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := writeBatch(bw, rows[start:end]); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing search index sql: %w", err)
	}
	return nil
}

func writeBatch(w io.Writer, rows []Row) error {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(TableName)
	b.WriteString(" (word, language, definition, pronunciation, is_common) VALUES\n")
	for i, r := range rows {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "('%s', '%s', '%s', '%s', %s)",
			escapeSQL(r.Word),
			escapeSQL(string(r.Language)),
			escapeSQL(r.Definition),
			escapeSQL(r.Pronunciation),
			boolColumn(r.IsCommon))
	}
	b.WriteString(";\n\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing search index sql: %w", err)
	}
	return nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
