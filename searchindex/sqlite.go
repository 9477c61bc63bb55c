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
	"context"
	"database/sql"
	"fmt"

	// Pure Go sqlite driver.
	_ "modernc.org/sqlite"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS ` + TableName + ` (
	word TEXT NOT NULL,
	language TEXT NOT NULL,
	definition TEXT NOT NULL,
	pronunciation TEXT NOT NULL,
	is_common INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_dictionary_search_word ON ` + TableName + ` (word);`

// LoadSQLite bulk-loads rows into a local sqlite database for
// inspection without a bulk importer. The table is created when
// missing; rows are inserted in one transaction so a failed load
// leaves the table unchanged.
func LoadSQLite(ctx context.Context, path string, rows []Row) (retErr error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening sqlite database %q: %w", path, err)
	}
	defer func() {
		if err := db.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("closing sqlite database: %w", err)
		}
	}()

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("creating search table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO "+TableName+" (word, language, definition, pronunciation, is_common) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Word, string(r.Language), r.Definition, r.Pronunciation, r.IsCommon); err != nil {
			return fmt.Errorf("inserting row for %q: %w", r.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}
