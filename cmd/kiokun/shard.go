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
	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	kiokun "github.com/Kimeiga/kiokun-data"
	"github.com/Kimeiga/kiokun-data/shard"
)

var shardCommand = &cli.Command{
	Name:  "shard",
	Usage: "Copy built artifacts into the four Han-count shard directories.",
	Action: func(c *cli.Context) error {
		cfg, logger, err := setup(c)
		if err != nil {
			return err
		}

		stats, err := kiokun.New(cfg, logger).Shard()
		if err != nil {
			return err
		}

		tbl := table.New("Shard", "Files", "Bytes")
		tbl.WithWriter(c.App.Writer)
		for _, s := range shard.All {
			tbl.AddRow(s.String(), stats[s].Files, stats[s].Bytes)
		}
		tbl.Print()
		return nil
	},
}

var packCommand = &cli.Command{
	Name:  "pack",
	Usage: "Bundle each shard directory into a dictzip pack with an index.",
	Action: func(c *cli.Context) error {
		cfg, logger, err := setup(c)
		if err != nil {
			return err
		}
		return kiokun.New(cfg, logger).PackShards()
	},
}
