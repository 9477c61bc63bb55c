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

// Package kiokun builds a merged Chinese/Japanese dictionary corpus.
//
// The pipeline consumes two dictionary dumps plus a kanji-to-Traditional
// character mapping and produces:
//  1. One compressed artifact per unified word, addressable by the word
//     itself, for static per-key lookup.
//  2. Four shard directories partitioned by Han-character count, each
//     optionally bundled into a dictzip pack with a binary index.
//  3. A flat search-index table (CSV, batched SQL, or sqlite) with one
//     row per definition.
//
// Entries from the two sources unify when they share a match key: the
// Chinese traditional form, or the Traditional rendering of a Japanese
// kanji spelling obtained through the character mapping.
package kiokun
