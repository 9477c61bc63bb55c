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

package kiokun

import (
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"

	"github.com/Kimeiga/kiokun-data/shard"
	"github.com/Kimeiga/kiokun-data/unify"
)

// Stats summarizes one unification run.
type Stats struct {
	// Total is the number of unified entries, one per match key.
	Total int

	// Unified counts entries with both languages present.
	Unified int

	// ChineseOnly and JapaneseOnly count single-language entries.
	ChineseOnly  int
	JapaneseOnly int

	// Dropped counts extra same-key candidates not selected as
	// primary.
	Dropped int

	// Shards holds the entry count per shard.
	Shards map[shard.Shard]int

	// Sample holds the first few unified keys, for spot checks.
	Sample []string
}

// sampleSize bounds the number of unified keys kept in Sample.
const sampleSize = 5

// Collect computes the statistics for a unified entry set.
func Collect(entries []*unify.Entry) *Stats {
	s := &Stats{
		Shards: map[shard.Shard]int{},
	}
	for _, e := range entries {
		s.Total++
		switch {
		case e.Metadata.IsUnified:
			s.Unified++
			if len(s.Sample) < sampleSize {
				s.Sample = append(s.Sample, e.Word)
			}
		case e.Chinese != nil:
			s.ChineseOnly++
		default:
			s.JapaneseOnly++
		}
		s.Dropped += extra(e.Metadata.ChineseCount) + extra(e.Metadata.JapaneseCount)
		s.Shards[shard.Of(e.Word)]++
	}
	return s
}

func extra(n int) int {
	if n > 1 {
		return n - 1
	}
	return 0
}

// UnificationRate returns the fraction of entries with both languages
// present.
func (s *Stats) UnificationRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Unified) / float64(s.Total)
}

// Render writes a human-readable summary table.
func (s *Stats) Render(w io.Writer) {
	tbl := table.New("Category", "Entries")
	tbl.WithWriter(w)
	tbl.AddRow("unified", s.Unified)
	tbl.AddRow("chinese only", s.ChineseOnly)
	tbl.AddRow("japanese only", s.JapaneseOnly)
	tbl.AddRow("total", s.Total)
	tbl.Print()

	fmt.Fprintf(w, "\nunification rate: %.1f%%, dropped candidates: %d\n",
		s.UnificationRate()*100, s.Dropped)
	if len(s.Sample) > 0 {
		fmt.Fprintf(w, "sample unified keys: %s\n", strings.Join(s.Sample, ", "))
	}
	fmt.Fprintln(w)

	dist := table.New("Shard", "Entries")
	dist.WithWriter(w)
	for _, sh := range shard.All {
		dist.AddRow(sh.String(), s.Shards[sh])
	}
	dist.Print()
}
