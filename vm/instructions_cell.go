// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"github.com/iotexproject/iotex-cellvm/cell"
	"github.com/iotexproject/iotex-cellvm/exception"
	"github.com/iotexproject/iotex-cellvm/stack"
)

func opPushRef(e *Engine, ins *instruction) error {
	return e.stack.Push(stack.NewCell(ins.ref))
}

func opPushRefSlice(e *Engine, ins *instruction) error {
	return e.stack.Push(stack.NewSlice(ins.ref.BeginParse()))
}

func opPushRefCont(e *Engine, ins *instruction) error {
	return e.stack.Push(stack.NewContinuation(stack.NewOrdinaryContinuation(ins.ref.BeginParse())))
}

func opPushSlice(e *Engine, ins *instruction) error {
	return e.stack.Push(stack.NewSlice(ins.data))
}

// topSlice returns a private copy of the slice on top of the stack without popping it
func (e *Engine) topSlice() (*cell.Slice, error) {
	it, err := e.stack.Get(0)
	if err != nil {
		return nil, err
	}
	return stack.AsSlice(it)
}

// replaceTop pops the top item and pushes items in order
func (e *Engine) replaceTop(items ...stack.Item) error {
	if err := e.stack.Drop(1); err != nil {
		return err
	}
	for _, it := range items {
		if err := e.stack.Push(it); err != nil {
			return err
		}
	}
	return nil
}

func opCtos(e *Engine, _ *instruction) error {
	it, err := e.stack.Get(0)
	if err != nil {
		return err
	}
	c, err := stack.AsCell(it)
	if err != nil {
		return err
	}
	return e.replaceTop(stack.NewSlice(c.BeginParse()))
}

func opEnds(e *Engine, _ *instruction) error {
	s, err := e.topSlice()
	if err != nil {
		return err
	}
	if !s.IsEmpty() {
		return exception.Newf(exception.CellUnderflow, "slice is not empty: %d bits and %d references left",
			s.BitsLeft(), s.RefsLeft())
	}
	return e.stack.Drop(1)
}

func opLdu(e *Engine, ins *instruction) error {
	s, err := e.topSlice()
	if err != nil {
		return err
	}
	v, err := s.LoadBigUint(ins.arg)
	if err != nil {
		return err
	}
	x, err := stack.NewInteger(v)
	if err != nil {
		return err
	}
	return e.replaceTop(x, stack.NewSlice(s))
}

func opLdref(e *Engine, _ *instruction) error {
	s, err := e.topSlice()
	if err != nil {
		return err
	}
	c, err := s.LoadRef()
	if err != nil {
		return err
	}
	return e.replaceTop(stack.NewCell(c), stack.NewSlice(s))
}

func opLdslice(e *Engine, ins *instruction) error {
	s, err := e.topSlice()
	if err != nil {
		return err
	}
	sub, err := s.LoadSlice(ins.arg, 0)
	if err != nil {
		return err
	}
	return e.replaceTop(stack.NewSlice(sub), stack.NewSlice(s))
}

func opSbits(e *Engine, _ *instruction) error {
	s, err := e.topSlice()
	if err != nil {
		return err
	}
	return e.replaceTop(stack.Int(int64(s.BitsLeft())))
}
