// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/iotexproject/iotex-cellvm/vm"
)

// disasmCmd represents the disasm command
var disasmCmd = &cobra.Command{
	Use:   "disasm [# program-file]",
	Short: "Assembles a program and lists the encoded instructions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readProgram(args[0])
		if err != nil {
			return err
		}
		return disassemble(cmd.OutOrStdout(), text)
	},
}

func disassemble(w io.Writer, text string) error {
	code, err := vm.Assemble(text)
	if err != nil {
		return err
	}
	lines, err := vm.Disassemble(code)
	tbl := table.New("offset", "bits", "instruction").WithWriter(w)
	for _, l := range lines {
		tbl.AddRow(l.Offset, l.Bits, l.Text)
	}
	tbl.Print()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d instructions, %d bits, %d refs\n", len(lines), code.BitLen(), code.RefsCount())
	return nil
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}
