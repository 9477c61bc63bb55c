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

// Package shard classifies unified words into four disjoint partitions
// by Han-character count so each partition can be stored and deployed
// independently.
package shard

import (
	"errors"
	"fmt"
)

// Shard is one of the four word partitions.
type Shard int

const (
	// NonHan holds words containing no Han characters at all: kana-only
	// words, Latin loanwords, and synthetic keys.
	NonHan Shard = iota

	// Han1 holds words with exactly one Han character.
	Han1

	// Han2 holds words with exactly two Han characters.
	Han2

	// Han3Plus holds words with three or more Han characters.
	Han3Plus
)

// All lists every shard in its canonical order.
var All = []Shard{NonHan, Han1, Han2, Han3Plus}

// ErrCountMismatch indicates that the per-shard counts do not sum to
// the input size. It signals a partitioning bug and must halt the run.
var ErrCountMismatch = errors.New("shard counts do not sum to input size")

// String returns the shard's directory name.
func (s Shard) String() string {
	switch s {
	case NonHan:
		return "non-han"
	case Han1:
		return "han-1char"
	case Han2:
		return "han-2char"
	case Han3Plus:
		return "han-3plus"
	}
	return fmt.Sprintf("shard(%d)", int(s))
}

// hanRanges covers CJK Unified Ideographs plus Extensions A through G.
// Kana, punctuation, and radicals are deliberately outside these
// ranges.
var hanRanges = [][2]rune{
	{0x4E00, 0x9FFF},   // CJK Unified Ideographs
	{0x3400, 0x4DBF},   // Extension A
	{0x20000, 0x2A6DF}, // Extension B
	{0x2A700, 0x2B73F}, // Extension C
	{0x2B740, 0x2B81F}, // Extension D
	{0x2B820, 0x2CEAF}, // Extension E
	{0x2CEB0, 0x2EBEF}, // Extension F
	{0x30000, 0x3134F}, // Extension G
}

func isHan(r rune) bool {
	for _, rg := range hanRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// HanCount returns the number of Han codepoints in word.
func HanCount(word string) int {
	n := 0
	for _, r := range word {
		if isHan(r) {
			n++
		}
	}
	return n
}

// Of returns the shard a word belongs to.
func Of(word string) Shard {
	switch n := HanCount(word); {
	case n == 0:
		return NonHan
	case n == 1:
		return Han1
	case n == 2:
		return Han2
	default:
		return Han3Plus
	}
}

// Partition splits words into the four shards, preserving input order
// within each shard, and verifies that every word landed in exactly
// one shard.
func Partition(words []string) (map[Shard][]string, error) {
	parts := map[Shard][]string{}
	for _, w := range words {
		s := Of(w)
		parts[s] = append(parts[s], w)
	}

	total := 0
	for _, s := range All {
		total += len(parts[s])
	}
	if total != len(words) {
		return nil, fmt.Errorf("%w: %d sharded, %d input", ErrCountMismatch, total, len(words))
	}
	return parts, nil
}
