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

package artifact

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ianlewis/go-dictzip"

	"github.com/Kimeiga/kiokun-data/internal/index"
	"github.com/Kimeiga/kiokun-data/unify"
)

// ErrPackTooLarge indicates that a shard's concatenated data exceeds
// the 32-bit offset space of the pack index.
var ErrPackTooLarge = errors.New("pack exceeds 32-bit offset space")

// Pack bundles every artifact in dir into a single dictzip archive
// plus a binary index, both named after base. The dictzip container
// supports random access, so one pack replaces hundreds of thousands
// of small files without losing per-word lookup.
//
// Artifacts are concatenated in word order. Each index entry records
// the word's offset and size within the uncompressed stream.
func Pack(dir, base string) ([]*PackEntry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading shard directory %q: %w", dir, err)
	}

	var words []string
	for _, de := range dirents {
		name := de.Name()
		if de.IsDir() || name[0] == '.' || !strings.HasSuffix(name, Suffix) {
			continue
		}
		words = append(words, strings.TrimSuffix(name, Suffix))
	}
	sort.Strings(words)

	f, err := os.Create(base + ".dict.dz")
	if err != nil {
		return nil, fmt.Errorf("creating pack %q: %w", base+".dict.dz", err)
	}
	defer f.Close()

	z, err := dictzip.NewWriter(f)
	if err != nil {
		return nil, fmt.Errorf("creating pack %q: %w", base+".dict.dz", err)
	}

	var entries []*PackEntry
	var offset uint64
	for _, word := range words {
		b, err := os.ReadFile(filepath.Join(dir, word+Suffix))
		if err != nil {
			return nil, fmt.Errorf("packing %q: %w", word, err)
		}
		if offset+uint64(len(b)) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: %q", ErrPackTooLarge, base)
		}
		if _, err := z.Write(b); err != nil {
			return nil, fmt.Errorf("packing %q: %w", word, err)
		}
		entries = append(entries, &PackEntry{
			Word:   word,
			Offset: uint32(offset),
			Size:   uint32(len(b)),
		})
		offset += uint64(len(b))
	}
	if err := z.Close(); err != nil {
		return nil, fmt.Errorf("closing pack %q: %w", base+".dict.dz", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing pack %q: %w", base+".dict.dz", err)
	}

	idxFile, err := os.Create(base + ".idx")
	if err != nil {
		return nil, fmt.Errorf("creating pack index %q: %w", base+".idx", err)
	}
	defer idxFile.Close()
	if err := WriteIndex(idxFile, entries); err != nil {
		return nil, err
	}
	if err := idxFile.Close(); err != nil {
		return nil, fmt.Errorf("closing pack index %q: %w", base+".idx", err)
	}

	return entries, nil
}

// PackReader reads individual artifacts back out of a shard pack.
type PackReader struct {
	f   *os.File
	z   *dictzip.Reader
	idx *index.Index[*PackEntry]
}

// OpenPack opens the pack and index named after base.
func OpenPack(base string) (*PackReader, error) {
	idxFile, err := os.Open(base + ".idx")
	if err != nil {
		return nil, fmt.Errorf("opening pack index: %w", err)
	}
	defer idxFile.Close()

	entries, err := ReadIndex(idxFile)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(base + ".dict.dz")
	if err != nil {
		return nil, fmt.Errorf("opening pack: %w", err)
	}
	z, err := dictzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening pack: %w", err)
	}

	return &PackReader{
		f:   f,
		z:   z,
		idx: index.NewIndex(entries, strings.Compare),
	}, nil
}

// Read returns the entry stored for word, or os.ErrNotExist if the
// pack does not contain it.
//
// Index words are recovered from artifact file names, so the word is
// sanitized the same way Filename sanitizes it before searching.
func (r *PackReader) Read(word string) (*unify.Entry, error) {
	matches := r.idx.Search(strings.TrimSuffix(Filename(word), Suffix))
	if len(matches) == 0 {
		return nil, fmt.Errorf("word %q: %w", word, os.ErrNotExist)
	}
	e := matches[0]

	b := make([]byte, e.Size)
	if _, err := r.z.ReadAt(b, int64(e.Offset)); err != nil {
		return nil, fmt.Errorf("reading %q from pack: %w", word, err)
	}
	return Unmarshal(b)
}

// Close closes the underlying pack file.
func (r *PackReader) Close() error {
	if err := r.f.Close(); err != nil {
		return fmt.Errorf("closing pack: %w", err)
	}
	return nil
}
