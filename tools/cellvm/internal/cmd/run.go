// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [# program-file]",
	Short: "Assembles and executes a program",
	Long: `Assembles and executes a program with the capabilities, gas limit and parameters of the config.
The final stack is printed top first, together with the exit code.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readProgram(args[0])
		if err != nil {
			return err
		}
		res, err := runProgram(_cfg, args[0], text)
		if err != nil {
			return err
		}
		if err := printResult(cmd.OutOrStdout(), _output, res); err != nil {
			return err
		}
		if res.failed() {
			return errors.Errorf("%s failed", args[0])
		}
		return nil
	},
}

var _output string

func init() {
	runCmd.Flags().StringVarP(&_output, "output", "o", _outputText, "output format: text, yaml or table")
	rootCmd.AddCommand(runCmd)
}
