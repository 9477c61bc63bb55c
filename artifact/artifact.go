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

// Package artifact writes unified entries as individually addressable
// compressed files, one per word, and bundles whole shards into
// dictzip packs with a binary index for random access.
//
// Each artifact is the entry's JSON serialization in a raw deflate
// stream. The consuming reader decompresses with raw inflate, so the
// variant is pinned here: headerless deflate, never zlib or gzip
// wrapped.
package artifact

import (
	"bytes"
	"compress/flate"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Kimeiga/kiokun-data/unify"
)

// Suffix is appended to the word to form the artifact filename.
const Suffix = ".json"

// ErrRoundTrip indicates that a written artifact did not decompress
// back to the entry that produced it.
var ErrRoundTrip = errors.New("artifact round-trip mismatch")

// Filename returns the artifact filename for a word. The word itself
// is the filename, UTF-8 and percent-free; only characters that are
// unsafe in a path component are replaced.
func Filename(word string) string {
	var b strings.Builder
	for _, r := range word {
		if r < 0x20 || r == 0x7f || r == '/' || r == '\\' || r == ':' || r == '*' ||
			r == '?' || r == '"' || r == '<' || r == '>' || r == '|' {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String() + Suffix
}

// Marshal serializes an entry and compresses it as a raw deflate
// stream. The compression level is fixed so identical inputs always
// produce identical bytes.
func Marshal(e *unify.Entry) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("serializing entry %q: %w", e.Word, err)
	}

	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("compressing entry %q: %w", e.Word, err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("compressing entry %q: %w", e.Word, err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("compressing entry %q: %w", e.Word, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal inflates a raw deflate artifact back into an entry.
func Unmarshal(b []byte) (*unify.Entry, error) {
	fr := flate.NewReader(bytes.NewReader(b))
	defer fr.Close()

	data, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("decompressing artifact: %w", err)
	}

	var e unify.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parsing artifact: %w", err)
	}
	return &e, nil
}

// Write persists one entry under dir and returns the compressed size.
func Write(dir string, e *unify.Entry) (int64, error) {
	b, err := Marshal(e)
	if err != nil {
		return 0, err
	}
	path := filepath.Join(dir, Filename(e.Word))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return 0, fmt.Errorf("writing artifact %q: %w", path, err)
	}
	return int64(len(b)), nil
}

// Read loads the artifact for a word from dir.
func Read(dir, word string) (*unify.Entry, error) {
	path := filepath.Join(dir, Filename(word))
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact %q: %w", path, err)
	}
	return Unmarshal(b)
}

// WriteAll writes every entry under dir using parallel workers. The
// entry set is partitioned by index so no two workers touch the same
// entry, and the output is independent of worker scheduling since each
// file's bytes depend only on its own entry.
func WriteAll(dir string, entries []*unify.Entry, workers int) error {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := w; i < len(entries); i += workers {
				if _, err := Write(dir, entries[i]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// VerifySample reads back every n-th entry's artifact and checks that
// it decompresses and re-parses to the entry that produced it.
// Structural equality is checked over the canonical serialization.
func VerifySample(dir string, entries []*unify.Entry, n int) error {
	if n < 1 {
		n = 1
	}
	for i := 0; i < len(entries); i += n {
		want := entries[i]
		got, err := Read(dir, want.Word)
		if err != nil {
			return err
		}

		wantJSON, err := json.Marshal(want)
		if err != nil {
			return fmt.Errorf("serializing entry %q: %w", want.Word, err)
		}
		gotJSON, err := json.Marshal(got)
		if err != nil {
			return fmt.Errorf("serializing entry %q: %w", got.Word, err)
		}
		if !bytes.Equal(wantJSON, gotJSON) {
			return fmt.Errorf("%w: %q", ErrRoundTrip, want.Word)
		}
	}
	return nil
}
