// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	_executionMtc = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iotex_cellvm_execution",
		Help: "cell vm execution results.",
	}, []string{"result"})
	_opcodeMtc = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iotex_cellvm_opcode",
		Help: "cell vm executed instructions.",
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(_executionMtc)
	prometheus.MustRegister(_opcodeMtc)
}
