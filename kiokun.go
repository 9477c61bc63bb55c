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
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/Kimeiga/kiokun-data/artifact"
	"github.com/Kimeiga/kiokun-data/corpus"
	"github.com/Kimeiga/kiokun-data/internal/config"
	"github.com/Kimeiga/kiokun-data/mapping"
	"github.com/Kimeiga/kiokun-data/searchindex"
	"github.com/Kimeiga/kiokun-data/shard"
	"github.com/Kimeiga/kiokun-data/unify"
)

var (
	// ErrLocked indicates that another build holds the output lock.
	ErrLocked = errors.New("another build is in progress")

	// ErrIncomplete indicates an operation that needs a completed
	// build was pointed at a directory without a completion marker.
	ErrIncomplete = errors.New("artifact directory has no completion marker")
)

// lockName is the build lock filename under the artifact directory's
// parent.
const lockName = ".kiokun.lock"

// Pipeline runs the dictionary build stages against one configuration.
type Pipeline struct {
	cfg    config.Config
	logger *slog.Logger
}

// New returns a Pipeline using the given configuration and logger.
func New(cfg config.Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: logger,
	}
}

// Build runs the full pipeline: load inputs, unify, compress
// artifacts, flatten the search index, and write the completion
// marker. A failed build leaves no marker, so its partial output is
// never mistaken for a valid corpus.
func (p *Pipeline) Build(ctx context.Context) (*Stats, error) {
	unlock, err := p.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	m, err := p.loadMapping()
	if err != nil {
		return nil, err
	}

	entries, err := p.unifyCorpora(m)
	if err != nil {
		return nil, err
	}
	stats := Collect(entries)

	if err := os.MkdirAll(p.cfg.Outputs.ArtifactDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Everything downstream of the unifier only reads the entry set,
	// so the stages run in parallel.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			//nolint:wrapcheck // context error should not be wrapped
			return err
		}
		return artifact.WriteAll(p.cfg.Outputs.ArtifactDir, entries, p.cfg.Workers)
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			//nolint:wrapcheck // context error should not be wrapped
			return err
		}
		return p.writeSearchIndex(entries)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := artifact.VerifySample(p.cfg.Outputs.ArtifactDir, entries, p.cfg.VerifyInterval); err != nil {
		return nil, err
	}

	marker := artifact.NewMarker(stats.Total, stats.Unified)
	if err := artifact.WriteMarker(p.cfg.Outputs.ArtifactDir, marker); err != nil {
		return nil, err
	}

	p.logger.Info("build complete",
		"build_id", marker.BuildID,
		"entries", stats.Total,
		"unified", stats.Unified)
	return stats, nil
}

// UpdateMapping regenerates the character mapping from the Japanese
// corpus's kanji spellings and merges it into the existing mapping
// file. Existing entries are never overwritten.
func (p *Pipeline) UpdateMapping(ctx context.Context) error {
	ja, err := corpus.LoadJapaneseFile(p.cfg.Inputs.JapaneseDictionary, p.logger)
	if err != nil {
		return err
	}

	var spellings []string
	for _, e := range ja.Entries {
		for _, k := range e.Kanji {
			spellings = append(spellings, k.Text)
		}
	}

	oracle := &mapping.ExecOracle{
		Command: p.cfg.Oracle.Command,
		Args:    p.cfg.Oracle.Args,
	}
	m, err := mapping.Update(ctx, oracle, spellings, p.cfg.Inputs.CharacterMapping, p.logger)
	if err != nil {
		return err
	}

	p.logger.Info("character mapping updated",
		"path", p.cfg.Inputs.CharacterMapping,
		"entries", m.Len())
	return nil
}

// Shard copies the built artifacts into the four Han-count shard
// directories. The unsharded artifact set stays intact.
func (p *Pipeline) Shard() (map[shard.Shard]shard.DirStats, error) {
	if !artifact.IsComplete(p.cfg.Outputs.ArtifactDir) {
		return nil, fmt.Errorf("%w: %q", ErrIncomplete, p.cfg.Outputs.ArtifactDir)
	}
	return shard.Separate(p.cfg.Outputs.ArtifactDir, p.cfg.Outputs.ShardRoot, p.logger)
}

// PackShards bundles each shard directory into a dictzip pack plus a
// binary index, named after the shard.
func (p *Pipeline) PackShards() error {
	for _, s := range shard.All {
		dir := filepath.Join(p.cfg.Outputs.ShardRoot, s.String())
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("shard directory %q missing, run the shard stage first", dir)
		}

		idx, err := artifact.Pack(dir, filepath.Join(p.cfg.Outputs.ShardRoot, s.String()))
		if err != nil {
			return err
		}
		p.logger.Info("shard packed", "shard", s.String(), "words", len(idx))
	}
	return nil
}

// LoadSearchIndex bulk-loads the flattened rows into the configured
// sqlite database.
func (p *Pipeline) LoadSearchIndex(ctx context.Context) error {
	if p.cfg.Outputs.SQLiteDB == "" {
		return errors.New("outputs.sqlite_db must be set to load the search index")
	}

	m, err := p.loadMapping()
	if err != nil {
		return err
	}
	entries, err := p.unifyCorpora(m)
	if err != nil {
		return err
	}

	rows := searchindex.FlattenAll(entries)
	if err := searchindex.LoadSQLite(ctx, p.cfg.Outputs.SQLiteDB, rows); err != nil {
		return err
	}
	p.logger.Info("search index loaded", "path", p.cfg.Outputs.SQLiteDB, "rows", len(rows))
	return nil
}

func (p *Pipeline) lock() (func(), error) {
	dir := filepath.Dir(p.cfg.Outputs.ArtifactDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	fl := flock.New(filepath.Join(dir, lockName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring build lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			p.logger.Warn("releasing build lock", "error", err)
		}
	}, nil
}

// loadMapping reads the character mapping. A missing file yields an
// empty mapping: Japanese keys then fall back to raw spellings.
func (p *Pipeline) loadMapping() (mapping.Mapping, error) {
	m, err := mapping.Load(p.cfg.Inputs.CharacterMapping)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("character mapping missing, using raw spellings",
				"path", p.cfg.Inputs.CharacterMapping)
			return mapping.New(nil), nil
		}
		return mapping.Mapping{}, err
	}
	return m, nil
}

func (p *Pipeline) unifyCorpora(m mapping.Mapping) ([]*unify.Entry, error) {
	zh, err := corpus.LoadChineseFile(p.cfg.Inputs.ChineseDictionary, p.logger)
	if err != nil {
		return nil, err
	}
	p.logger.Info("chinese corpus loaded", "entries", len(zh.Entries), "skipped", zh.Skipped)

	ja, err := corpus.LoadJapaneseFile(p.cfg.Inputs.JapaneseDictionary, p.logger)
	if err != nil {
		return nil, err
	}
	p.logger.Info("japanese corpus loaded", "entries", len(ja.Entries), "skipped", ja.Skipped)

	entries, err := unify.New(m, p.logger).Unify(zh, ja)
	if err != nil {
		return nil, err
	}
	p.logger.Info("corpora unified", "entries", len(entries))
	return entries, nil
}

func (p *Pipeline) writeSearchIndex(entries []*unify.Entry) (retErr error) {
	rows := searchindex.FlattenAll(entries)

	if path := p.cfg.Outputs.SearchIndexCSV; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating search index %q: %w", path, err)
		}
		defer closeFile(f, &retErr)
		if err := searchindex.WriteCSV(f, rows); err != nil {
			return err
		}
	}

	if path := p.cfg.Outputs.SearchIndexSQL; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating search index %q: %w", path, err)
		}
		defer closeFile(f, &retErr)
		if err := searchindex.WriteSQL(f, rows); err != nil {
			return err
		}
	}

	p.logger.Info("search index written", "rows", len(rows))
	return nil
}

func closeFile(f *os.File, retErr *error) {
	if err := f.Close(); err != nil && *retErr == nil {
		*retErr = fmt.Errorf("closing %q: %w", f.Name(), err)
	}
}
