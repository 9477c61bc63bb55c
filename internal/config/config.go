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

// Package config holds pipeline configuration loaded from a TOML
// file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Inputs locates the source corpora and the character mapping.
type Inputs struct {
	ChineseDictionary  string `toml:"chinese_dictionary"`
	JapaneseDictionary string `toml:"japanese_dictionary"`
	CharacterMapping   string `toml:"character_mapping"`
}

// Oracle configures the external script conversion command.
type Oracle struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Outputs locates everything the pipeline writes.
type Outputs struct {
	ArtifactDir    string `toml:"artifact_dir"`
	ShardRoot      string `toml:"shard_root"`
	SearchIndexCSV string `toml:"search_index_csv"`
	SearchIndexSQL string `toml:"search_index_sql"`
	SQLiteDB       string `toml:"sqlite_db"`
}

// Logging configures the structured logger.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full pipeline configuration.
type Config struct {
	Inputs  Inputs  `toml:"inputs"`
	Oracle  Oracle  `toml:"oracle"`
	Outputs Outputs `toml:"outputs"`
	Logging Logging `toml:"logging"`

	// Workers is the parallel worker count for the compression stage.
	// Zero means one worker per CPU.
	Workers int `toml:"workers"`

	// VerifyInterval selects every n-th artifact for round-trip
	// verification after a build.
	VerifyInterval int `toml:"verify_interval"`
}

const (
	defaultOracleCommand  = "opencc"
	defaultArtifactDir    = "output_dictionary"
	defaultShardRoot      = "output_shards"
	defaultSearchIndexCSV = "output_search_index.csv"
	defaultSearchIndexSQL = "output_search_index.sql"
	defaultMappingPath    = "j2c_mapping.json"
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultVerifyInterval = 1000
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Inputs: Inputs{
			CharacterMapping: defaultMappingPath,
		},
		Oracle: Oracle{
			Command: defaultOracleCommand,
			Args:    []string{"-c", "jp2t"},
		},
		Outputs: Outputs{
			ArtifactDir:    defaultArtifactDir,
			ShardRoot:      defaultShardRoot,
			SearchIndexCSV: defaultSearchIndexCSV,
			SearchIndexSQL: defaultSearchIndexSQL,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		VerifyInterval: defaultVerifyInterval,
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Inputs.ChineseDictionary == "" {
		return errors.New("inputs.chinese_dictionary must be set")
	}
	if c.Inputs.JapaneseDictionary == "" {
		return errors.New("inputs.japanese_dictionary must be set")
	}
	if c.Inputs.CharacterMapping == "" {
		return errors.New("inputs.character_mapping must be set")
	}
	if c.Oracle.Command == "" {
		return errors.New("oracle.command must be set")
	}
	if c.Outputs.ArtifactDir == "" {
		return errors.New("outputs.artifact_dir must be set")
	}
	if c.Outputs.ShardRoot == "" {
		return errors.New("outputs.shard_root must be set")
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.VerifyInterval < 0 {
		return errors.New("verify_interval must not be negative")
	}
	return nil
}

// Load reads a TOML config file, starting from defaults. A missing
// file leaves the defaults intact.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}
