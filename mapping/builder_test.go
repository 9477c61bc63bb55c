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

package mapping_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Kimeiga/kiokun-data/internal/testutil"
	"github.com/Kimeiga/kiokun-data/mapping"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	oracle := &testutil.FakeOracle{
		Table: map[string]string{
			"学生": "學生",
			"地図": "地圖",
		},
	}

	// "好" converts to itself and must be omitted; "がくせい" is kana and
	// must not even reach the oracle; duplicates collapse.
	m, err := mapping.Build(context.Background(), oracle, []string{"学生", "地図", "好", "がくせい", "学生"})
	if err != nil {
		t.Fatal(err)
	}

	if oracle.Calls != 1 {
		t.Fatalf("expected a single batch conversion, got %d calls", oracle.Calls)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 mappings, got %d: %v", m.Len(), m.Keys())
	}
	if v, _ := m.Lookup("学生"); v != "學生" {
		t.Errorf("学生: got %q", v)
	}
	if _, ok := m.Lookup("好"); ok {
		t.Error("identity mapping was not omitted")
	}
}

func TestBuild_emptyBatch(t *testing.T) {
	t.Parallel()

	oracle := &testutil.FakeOracle{}
	m, err := mapping.Build(context.Background(), oracle, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty mapping, got %d entries", m.Len())
	}
	if oracle.Calls != 0 {
		t.Fatalf("oracle called for empty batch")
	}
}

func TestBuild_contractViolation(t *testing.T) {
	t.Parallel()

	// 2 inputs, 1 output line.
	oracle := &testutil.FakeOracle{Lines: []string{"學生"}}
	_, err := mapping.Build(context.Background(), oracle, []string{"学生", "地図"})
	if !errors.Is(err, mapping.ErrOracleContract) {
		t.Fatalf("expected ErrOracleContract, got %v", err)
	}
}

func TestUpdate_mergesWithoutOverwriting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "j2c_mapping.json")

	// Hand-curated prior generation.
	prior := mapping.New(map[string]string{"学生": "curated"})
	if err := prior.WriteFile(path); err != nil {
		t.Fatal(err)
	}

	oracle := &testutil.FakeOracle{
		Table: map[string]string{
			"学生": "學生",
			"地図": "地圖",
		},
	}

	merged, err := mapping.Update(context.Background(), oracle, []string{"学生", "地図"}, path, testutil.DiscardLogger())
	if err != nil {
		t.Fatal(err)
	}

	// The regenerated value for an existing key must not clobber it.
	if v, _ := merged.Lookup("学生"); v != "curated" {
		t.Errorf("existing entry overwritten: got %q", v)
	}
	if v, _ := merged.Lookup("地図"); v != "地圖" {
		t.Errorf("new entry missing: got %q", v)
	}

	reloaded, err := mapping.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := reloaded.Lookup("学生"); v != "curated" {
		t.Errorf("persisted entry overwritten: got %q", v)
	}
}

func TestUpdate_contractViolationLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "j2c_mapping.json")

	prior := mapping.New(map[string]string{"学生": "學生"})
	if err := prior.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// 99 lines for a 100-line batch.
	inputs := make([]string, 100)
	lines := make([]string, 99)
	for i := range inputs {
		inputs[i] = string(rune('一' + i))
	}
	for i := range lines {
		lines[i] = inputs[i]
	}
	oracle := &testutil.FakeOracle{Lines: lines}

	_, err = mapping.Update(context.Background(), oracle, inputs, path, testutil.DiscardLogger())
	if !errors.Is(err, mapping.ErrOracleContract) {
		t.Fatalf("expected ErrOracleContract, got %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatal("mapping file modified by failed update")
	}
}

func TestExecOracle_Convert(t *testing.T) {
	t.Parallel()

	// cat returns its input verbatim: one line out per line in.
	oracle := &mapping.ExecOracle{Command: "cat"}
	out, err := oracle.Convert(context.Background(), []string{"学生", "地図"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != "学生" || out[1] != "地図" {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestExecOracle_Convert_failure(t *testing.T) {
	t.Parallel()

	oracle := &mapping.ExecOracle{Command: "false"}
	if _, err := oracle.Convert(context.Background(), []string{"学生"}); err == nil {
		t.Fatal("expected error from failing converter")
	}
}
