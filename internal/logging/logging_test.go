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

package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Kimeiga/kiokun-data/internal/logging"
)

func TestNew_json(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Options{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("loading corpus", "path", "chinese.jsonl")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if record["msg"] != "loading corpus" {
		t.Errorf("msg: got %v", record["msg"])
	}
}

func TestNew_levelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Options{Level: "warn"})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info record passed a warn-level logger")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn record missing")
	}
}

func TestNew_badOptions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := logging.New(&buf, logging.Options{Level: "loud"}); err == nil {
		t.Error("unsupported level accepted")
	}
	if _, err := logging.New(&buf, logging.Options{Format: "xml"}); err == nil {
		t.Error("unsupported format accepted")
	}
}
