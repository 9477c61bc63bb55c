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
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// PackEntry locates one word's data inside a shard pack. Entries are
// serialized as the null-terminated word followed by big-endian 32-bit
// offset and size fields.
type PackEntry struct {
	Word   string
	Offset uint32
	Size   uint32
}

// String returns the entry's word, which is the sort key for the pack
// index.
func (e *PackEntry) String() string {
	return e.Word
}

// WriteIndex serializes the pack index. Entries must already be sorted
// by word.
func WriteIndex(w io.Writer, entries []*PackEntry) error {
	bw := bufio.NewWriter(w)
	var field [4]byte
	for _, e := range entries {
		if _, err := bw.WriteString(e.Word); err != nil {
			return fmt.Errorf("writing pack index: %w", err)
		}
		if err := bw.WriteByte(0); err != nil {
			return fmt.Errorf("writing pack index: %w", err)
		}
		binary.BigEndian.PutUint32(field[:], e.Offset)
		if _, err := bw.Write(field[:]); err != nil {
			return fmt.Errorf("writing pack index: %w", err)
		}
		binary.BigEndian.PutUint32(field[:], e.Size)
		if _, err := bw.Write(field[:]); err != nil {
			return fmt.Errorf("writing pack index: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing pack index: %w", err)
	}
	return nil
}

// IndexScanner scans pack index entries from start to end.
type IndexScanner struct {
	s *bufio.Scanner
}

// NewIndexScanner returns a scanner over a serialized pack index.
func NewIndexScanner(r io.Reader) *IndexScanner {
	s := bufio.NewScanner(bufio.NewReader(r))
	s.Split(splitIndexEntry)
	return &IndexScanner{s: s}
}

// Scan advances to the next index entry. It returns false at the end
// of the index or on error.
func (s *IndexScanner) Scan() bool {
	return s.s.Scan()
}

// Err returns the first error encountered while scanning.
func (s *IndexScanner) Err() error {
	//nolint:wrapcheck // error should not be wrapped
	return s.s.Err()
}

// Entry returns the current index entry.
func (s *IndexScanner) Entry() *PackEntry {
	var e PackEntry
	b := s.s.Bytes()
	if i := bytes.IndexByte(b, 0); i >= 0 {
		e.Word = string(b[:i])
		e.Offset = binary.BigEndian.Uint32(b[i+1:])
		e.Size = binary.BigEndian.Uint32(b[i+5:])
	}
	return &e
}

// splitIndexEntry splits one null-terminated word plus its two 32-bit
// fields out of the index stream.
func splitIndexEntry(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 && len(data) >= i+9 {
		return i + 9, data[:i+9], nil
	}
	if atEOF {
		return 0, nil, fmt.Errorf("truncated pack index entry")
	}
	return 0, nil, nil
}

// ReadIndex loads a full pack index into memory.
func ReadIndex(r io.Reader) ([]*PackEntry, error) {
	var entries []*PackEntry
	s := NewIndexScanner(r)
	for s.Scan() {
		entries = append(entries, s.Entry())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading pack index: %w", err)
	}
	return entries, nil
}
