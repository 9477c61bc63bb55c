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

package shard

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// DirStats summarizes one shard directory after separation.
type DirStats struct {
	Files int
	Bytes int64
}

// Separate copies each artifact file under srcDir into the shard
// subdirectory of dstRoot matching its word. Files are copied, not
// moved, so the unsharded set stays intact for verification.
//
// File names are partitioned whole; the extension contributes no Han
// characters, so every file shards exactly as its word does. Partition
// verifies that no file is lost or double-counted.
func Separate(srcDir, dstRoot string, logger *slog.Logger) (map[Shard]DirStats, error) {
	names, err := listFiles(srcDir)
	if err != nil {
		return nil, err
	}

	parts, err := Partition(names)
	if err != nil {
		return nil, err
	}

	stats := map[Shard]DirStats{}
	for _, s := range All {
		dir := filepath.Join(dstRoot, s.String())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating shard directory: %w", err)
		}

		st := stats[s]
		for _, name := range parts[s] {
			n, err := copyFile(filepath.Join(srcDir, name), filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			st.Files++
			st.Bytes += n
		}
		stats[s] = st
		logger.Info("shard populated", "shard", s.String(), "files", st.Files, "bytes", st.Bytes)
	}

	return stats, nil
}

func listFiles(dir string) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading artifact directory %q: %w", dir, err)
	}
	var names []string
	for _, de := range dirents {
		if de.IsDir() || de.Name()[0] == '.' {
			// Completion markers and other dotfiles are not artifacts.
			continue
		}
		names = append(names, de.Name())
	}
	return names, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("copying %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("copying to %q: %w", dst, err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return 0, fmt.Errorf("copying %q: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("copying to %q: %w", dst, err)
	}
	return n, nil
}
