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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// MarkerName is the completion marker filename. A directory without it
// holds the partial output of a failed or interrupted run and must not
// be served.
const MarkerName = ".build-complete.json"

// Marker records a completed build. It lives beside the artifacts, not
// among them, so it never participates in sharding or verification.
type Marker struct {
	BuildID   string    `json:"build_id"`
	Entries   int       `json:"entries"`
	Unified   int       `json:"unified"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMarker returns a marker for a finished build with a fresh build
// ID.
func NewMarker(entries, unified int) *Marker {
	return &Marker{
		BuildID:   uuid.New().String(),
		Entries:   entries,
		Unified:   unified,
		CreatedAt: time.Now().UTC(),
	}
}

// WriteMarker persists the marker under dir.
func WriteMarker(dir string, m *Marker) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing completion marker: %w", err)
	}
	path := filepath.Join(dir, MarkerName)
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing completion marker %q: %w", path, err)
	}
	return nil
}

// ReadMarker loads the completion marker from dir.
func ReadMarker(dir string) (*Marker, error) {
	path := filepath.Join(dir, MarkerName)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading completion marker %q: %w", path, err)
	}
	var m Marker
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parsing completion marker %q: %w", path, err)
	}
	return &m, nil
}

// IsComplete reports whether dir holds the output of a completed
// build.
func IsComplete(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, MarkerName))
	return err == nil
}
