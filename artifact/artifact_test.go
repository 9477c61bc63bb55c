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

package artifact_test

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Kimeiga/kiokun-data/artifact"
	"github.com/Kimeiga/kiokun-data/corpus"
	"github.com/Kimeiga/kiokun-data/unify"
)

func entry(word string) *unify.Entry {
	return &unify.Entry{
		Word: word,
		Chinese: &corpus.ChineseEntry{
			Simplified:  word,
			Traditional: word,
			Gloss:       "test gloss",
		},
		Metadata: unify.Metadata{ChineseCount: 1},
	}
}

func TestFilename(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		word string
		want string
	}{
		{
			word: "學生",
			want: "學生.json",
		},
		{
			word: "好",
			want: "好.json",
		},
		{
			// Slash would change the path.
			word: "a/b",
			want: "a_b.json",
		},
		{
			word: "a:b*c?",
			want: "a_b_c_.json",
		},
		{
			word: "tab\there",
			want: "tab_here.json",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.word, func(t *testing.T) {
			t.Parallel()

			if got := artifact.Filename(tc.word); got != tc.want {
				t.Errorf("Filename(%q): got %q, want %q", tc.word, got, tc.want)
			}
		})
	}
}

func TestMarshal_rawDeflate(t *testing.T) {
	t.Parallel()

	b, err := artifact.Marshal(entry("學生"))
	if err != nil {
		t.Fatal(err)
	}

	// The stream must inflate as raw deflate.
	fr := flate.NewReader(bytes.NewReader(b))
	if _, err := io.ReadAll(fr); err != nil {
		t.Fatalf("not a raw deflate stream: %v", err)
	}

	// And must not carry a gzip container.
	if _, err := gzip.NewReader(bytes.NewReader(b)); err == nil {
		t.Fatal("stream unexpectedly gzip-wrapped")
	}
}

func TestMarshal_deterministic(t *testing.T) {
	t.Parallel()

	a, err := artifact.Marshal(entry("學生"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := artifact.Marshal(entry("學生"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("identical entries compressed to different bytes")
	}
}

func TestWriteRead_roundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := entry("學生")

	if _, err := artifact.Write(dir, want); err != nil {
		t.Fatal(err)
	}
	got, err := artifact.Read(dir, "學生")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip (-want, +got):\n%s", diff)
	}
}

func TestWriteAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entries := []*unify.Entry{
		entry("學生"),
		entry("好"),
		entry("地圖"),
		entry("abc"),
	}

	if err := artifact.WriteAll(dir, entries, 2); err != nil {
		t.Fatal(err)
	}

	for _, e := range entries {
		if _, err := os.Stat(filepath.Join(dir, artifact.Filename(e.Word))); err != nil {
			t.Errorf("missing artifact for %q: %v", e.Word, err)
		}
	}

	if err := artifact.VerifySample(dir, entries, 1); err != nil {
		t.Errorf("VerifySample: %v", err)
	}
}

func TestVerifySample_detectsCorruption(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entries := []*unify.Entry{entry("學生")}
	if err := artifact.WriteAll(dir, entries, 1); err != nil {
		t.Fatal(err)
	}

	// Overwrite with a different entry's artifact.
	if _, err := artifact.Write(dir, &unify.Entry{Word: "學生", Metadata: unify.Metadata{JapaneseCount: 9}}); err != nil {
		t.Fatal(err)
	}

	if err := artifact.VerifySample(dir, entries, 1); err == nil {
		t.Fatal("corruption not detected")
	}
}

func TestMarker(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if artifact.IsComplete(dir) {
		t.Fatal("empty directory reported complete")
	}

	m := artifact.NewMarker(100, 40)
	if err := artifact.WriteMarker(dir, m); err != nil {
		t.Fatal(err)
	}

	if !artifact.IsComplete(dir) {
		t.Fatal("marked directory not reported complete")
	}

	got, err := artifact.ReadMarker(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got.BuildID != m.BuildID || got.Entries != 100 || got.Unified != 40 {
		t.Errorf("marker round trip mismatch: %+v", got)
	}
}
