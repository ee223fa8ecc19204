// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package stack

import (
	"fmt"

	"github.com/iotexproject/iotex-cellvm/cell"
)

// ContinuationKind distinguishes executable code from terminal continuations
type ContinuationKind int

const (
	// Ordinary continuations run code
	Ordinary ContinuationKind = iota
	// Quit continuations terminate execution with an exit code
	Quit
)

// Continuation pairs a code cursor with the registers it runs under
type Continuation struct {
	Kind     ContinuationKind
	Code     *cell.Slice
	Ctrls    *SaveList
	ExitCode int
}

// NewOrdinaryContinuation creates a continuation running code with an empty save list
func NewOrdinaryContinuation(code *cell.Slice) *Continuation {
	return &Continuation{
		Kind:  Ordinary,
		Code:  code,
		Ctrls: NewSaveList(),
	}
}

// NewQuitContinuation creates a continuation terminating with exitCode
func NewQuitContinuation(exitCode int) *Continuation {
	return &Continuation{
		Kind:     Quit,
		Ctrls:    NewSaveList(),
		ExitCode: exitCode,
	}
}

// Copy returns a continuation with an independent cursor and save list
func (c *Continuation) Copy() *Continuation {
	nc := *c
	if c.Code != nil {
		nc.Code = c.Code.Copy()
	}
	if c.Ctrls != nil {
		nc.Ctrls = c.Ctrls.Clone()
	}
	return &nc
}

func (c *Continuation) String() string {
	if c.Kind == Quit {
		return fmt.Sprintf("Cont{quit %d}", c.ExitCode)
	}
	return fmt.Sprintf("Cont{%s}", c.Code)
}
