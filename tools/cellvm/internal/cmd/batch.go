// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iotexproject/iotex-cellvm/config"
	"github.com/iotexproject/iotex-cellvm/pkg/log"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [# program-file]...",
	Short: "Executes programs concurrently",
	Long: `Executes programs concurrently, one engine per program, with at most engine.workers of them
running at a time. Results are printed in the order of the arguments.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		programs := make([]program, len(args))
		for i, path := range args {
			text, err := readProgram(path)
			if err != nil {
				return err
			}
			programs[i] = program{name: path, text: text}
		}
		results, tally, err := runBatch(cmd.Context(), _cfg, programs)
		if err != nil {
			return err
		}
		return printBatch(cmd.OutOrStdout(), _batchOutput, results, tally)
	},
}

var _batchOutput string

type program struct {
	name string
	text string
}

// batchTally counts the outcomes of a batch
type batchTally struct {
	halted atomic.Uint64
	failed atomic.Uint64
	gas    atomic.Uint64
}

func runBatch(ctx context.Context, cfg config.Config, programs []program) ([]*result, *batchTally, error) {
	var (
		tally   batchTally
		results = make([]*result, len(programs))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Engine.Workers)
	for i, p := range programs {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := runProgram(cfg, p.name, p.text)
			if err != nil {
				return err
			}
			if res.failed() {
				tally.failed.Inc()
			} else {
				tally.halted.Inc()
			}
			tally.gas.Add(res.GasUsed)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	log.L().Debug("batch finished",
		zap.Int("programs", len(programs)),
		zap.Uint64("halted", tally.halted.Load()),
		zap.Uint64("failed", tally.failed.Load()))
	return results, &tally, nil
}

func printBatch(w io.Writer, output string, results []*result, tally *batchTally) error {
	for _, res := range results {
		if err := printResult(w, output, res); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, tally.String()+"\n"); err != nil {
		return err
	}
	if n := tally.failed.Load(); n > 0 {
		return errors.Errorf("%d of %d programs failed", n, len(results))
	}
	return nil
}

func (t *batchTally) String() string {
	return fmt.Sprintf("halted: %d, failed: %d, gas: %d", t.halted.Load(), t.failed.Load(), t.gas.Load())
}

func init() {
	batchCmd.Flags().StringVarP(&_batchOutput, "output", "o", _outputText, "output format: text, yaml or table")
	rootCmd.AddCommand(batchCmd)
}
