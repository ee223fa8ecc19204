// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"github.com/iotexproject/iotex-cellvm/exception"
)

const (
	// DefaultGasLimit is the gas limit of engines set up without one
	DefaultGasLimit uint64 = 1000000

	basicGasPrice uint64 = 10
)

// instructionGas is the basic price plus one unit per bit of the encoding
func instructionGas(ins *instruction) uint64 {
	return basicGasPrice + uint64(ins.bits)
}

func (e *Engine) useGas(amount uint64) error {
	if e.gasLimit-e.gasUsed < amount {
		return exception.Newf(exception.OutOfGas, "%d gas required, %d left", amount, e.gasLimit-e.gasUsed)
	}
	e.gasUsed += amount
	return nil
}
