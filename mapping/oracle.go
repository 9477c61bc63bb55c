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

package mapping

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrOracleContract indicates the conversion oracle broke its one output
// line per input line contract. This is fatal for the batch, not a
// retryable transient: the oracle's positional re-association is the only
// way outputs map back to inputs.
var ErrOracleContract = errors.New("oracle output line count mismatch")

// Oracle converts a batch of Japanese strings to best-effort
// Traditional-Chinese renderings, preserving order.
type Oracle interface {
	Convert(ctx context.Context, inputs []string) ([]string, error)
}

// ExecOracle shells out to an external script converter (such as
// "opencc -c jp2t"), writing the batch newline-joined on standard input and
// reading exactly one output line per input line.
type ExecOracle struct {
	// Command is the converter executable.
	Command string

	// Args are passed verbatim, typically the conversion mode flag.
	Args []string
}

// Convert implements Oracle. The whole batch goes through a single process
// invocation; a non-zero exit or a line-count mismatch fails the batch.
func (o *ExecOracle) Convert(ctx context.Context, inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	cmd := exec.CommandContext(ctx, o.Command, o.Args...)
	cmd.Stdin = strings.NewReader(strings.Join(inputs, "\n") + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running %s: %w: %s", o.Command, err, strings.TrimSpace(stderr.String()))
	}

	out := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	if len(out) != len(inputs) {
		return nil, fmt.Errorf("%w: sent %d lines, got %d", ErrOracleContract, len(inputs), len(out))
	}
	return out, nil
}
