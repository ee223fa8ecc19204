// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"github.com/iotexproject/iotex-cellvm/exception"
	"github.com/iotexproject/iotex-cellvm/stack"
)

func opNop(*Engine, *instruction) error {
	return nil
}

func opSwap(e *Engine, _ *instruction) error {
	return e.stack.Swap(0, 1)
}

func opXchg(e *Engine, ins *instruction) error {
	return e.stack.Swap(0, ins.arg)
}

func opPush(e *Engine, ins *instruction) error {
	it, err := e.stack.Get(ins.arg)
	if err != nil {
		return err
	}
	return e.stack.Push(it)
}

// opPop moves s0 into s(i) and drops the old top
func opPop(e *Engine, ins *instruction) error {
	if err := e.stack.Swap(0, ins.arg); err != nil {
		return err
	}
	return e.stack.Drop(1)
}

func opPushNull(e *Engine, _ *instruction) error {
	return e.stack.Push(stack.Null{})
}

func opPushInt(e *Engine, ins *instruction) error {
	it, err := stack.NewInteger(ins.num)
	if err != nil {
		return err
	}
	return e.stack.Push(it)
}

func opTuple(e *Engine, ins *instruction) error {
	items := make([]stack.Item, ins.arg)
	for i := range items {
		// s(n-1) becomes the first element
		it, err := e.stack.Get(ins.arg - 1 - i)
		if err != nil {
			return err
		}
		items[i] = it
	}
	if err := e.stack.Drop(ins.arg); err != nil {
		return err
	}
	return e.stack.Push(stack.NewTuple(items...))
}

func opIndex(e *Engine, ins *instruction) error {
	it, err := e.stack.Get(0)
	if err != nil {
		return err
	}
	t, err := stack.AsTuple(it)
	if err != nil {
		return err
	}
	if ins.arg >= t.Len() {
		return exception.Newf(exception.RangeCheck, "index %d out of tuple of length %d", ins.arg, t.Len())
	}
	if err := e.stack.Drop(1); err != nil {
		return err
	}
	return e.stack.Push(t.At(ins.arg))
}

func opTlen(e *Engine, _ *instruction) error {
	it, err := e.stack.Get(0)
	if err != nil {
		return err
	}
	t, err := stack.AsTuple(it)
	if err != nil {
		return err
	}
	if err := e.stack.Drop(1); err != nil {
		return err
	}
	return e.stack.Push(stack.Int(int64(t.Len())))
}
