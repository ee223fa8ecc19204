// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// cellvm assembles, runs and disassembles cell vm programs and manages P-256 keys for the signature
// instructions.
// To use, run "make build" and "./bin/cellvm --help"
package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/iotexproject/iotex-cellvm/tools/cellvm/internal/cmd"
)

func main() {
	cmd.Execute()
}
