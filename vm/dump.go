// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DumpCtrls renders the control registers, one "cN: item" line per set register, and logs them at debug
// level. The verbose form also carries the current continuation, the stack and the gas counters. The dump
// never changes the engine and may be taken at any time.
func (e *Engine) DumpCtrls(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.ctrls.String())
	if verbose {
		fmt.Fprintf(&sb, "\ncc: %s\nstack:%s\nstatus: %s, steps: %d, gas: %d/%d",
			e.cc, e.stack, e.status, e.steps, e.gasUsed, e.gasLimit)
	}
	dump := sb.String()
	e.logger.Debug("control registers", zap.Bool("verbose", verbose), zap.String("dump", dump))
	return dump
}
