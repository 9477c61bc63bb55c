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

package main

import (
	"github.com/urfave/cli/v2"

	kiokun "github.com/Kimeiga/kiokun-data"
)

var indexCommand = &cli.Command{
	Name:  "load-index",
	Usage: "Bulk-load the flattened search rows into a sqlite database.",
	Action: func(c *cli.Context) error {
		cfg, logger, err := setup(c)
		if err != nil {
			return err
		}
		return kiokun.New(cfg, logger).LoadSearchIndex(c.Context)
	},
}
