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

// Package testutil provides corpus fixtures and other test helpers.
package testutil

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// DiscardLogger returns a logger that drops all records.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WriteFile writes a test file under dir, creating parents as needed.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ChineseJSONL renders records as a line-delimited Chinese corpus document.
func ChineseJSONL(t *testing.T, records ...any) string {
	t.Helper()

	var doc []byte
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		doc = append(doc, b...)
		doc = append(doc, '\n')
	}
	return string(doc)
}

// JapaneseJSON renders records as a whole-document Japanese corpus document.
func JapaneseJSON(t *testing.T, records ...any) string {
	t.Helper()

	b, err := json.Marshal(map[string]any{"words": records})
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// FakeOracle is a conversion oracle backed by a fixed table. Inputs missing
// from the table convert to themselves. When Lines is non-nil the oracle
// returns exactly those lines regardless of input, which lets tests violate
// the line-per-input contract.
type FakeOracle struct {
	Table map[string]string
	Lines []string
	Err   error

	// Calls counts Convert invocations, to assert batching.
	Calls int
}

// Convert implements mapping.Oracle.
func (o *FakeOracle) Convert(_ context.Context, inputs []string) ([]string, error) {
	o.Calls++
	if o.Err != nil {
		return nil, o.Err
	}
	if o.Lines != nil {
		return o.Lines, nil
	}
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if v, ok := o.Table[in]; ok {
			out = append(out, v)
		} else {
			out = append(out, in)
		}
	}
	return out, nil
}
