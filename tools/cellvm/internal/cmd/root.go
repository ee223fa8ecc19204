// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-cellvm/config"
	"github.com/iotexproject/iotex-cellvm/pkg/log"
	"github.com/iotexproject/iotex-cellvm/pkg/probe"
)

var (
	_configPaths []string
	_cfg         = config.Default
	_probeSvr    *probe.Server
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               "cellvm [command] [flags]",
	Short:             "Command-line interface for the cell virtual machine",
	Long:              "cellvm assembles, runs and disassembles cell vm programs, and generates and uses P-256 keys.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&_configPaths, "config-path", nil,
		"config files, a later file overrides an earlier one")
	// finalizers run after failed commands too
	cobra.OnFinalize(func() {
		if err := teardown(); err != nil {
			log.L().Warn("Failed to stop probe server.", zap.Error(err))
		}
	})
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.New(_configPaths)
	if err != nil {
		return err
	}
	if err := log.InitLoggers(cfg.Log, cfg.SubLogs); err != nil {
		return errors.Wrap(err, "failed to init loggers")
	}
	_cfg = cfg
	if !cfg.Metrics.Enabled {
		return nil
	}
	_probeSvr = probe.New(cfg.Metrics.Address)
	if err := _probeSvr.Start(cmd.Context()); err != nil {
		return err
	}
	_probeSvr.Ready()
	log.L().Info("Serving metrics.", zap.String("address", _probeSvr.Addr()))
	return nil
}

func teardown() error {
	if _probeSvr == nil {
		return nil
	}
	_probeSvr.NotReady()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return _probeSvr.Stop(ctx)
}
