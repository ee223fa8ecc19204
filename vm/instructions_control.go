// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"github.com/iotexproject/iotex-cellvm/stack"
)

func (e *Engine) popContinuation() (*stack.Continuation, error) {
	it, err := e.stack.Get(0)
	if err != nil {
		return nil, err
	}
	cont, err := stack.AsContinuation(it)
	if err != nil {
		return nil, err
	}
	if err := e.stack.Drop(1); err != nil {
		return nil, err
	}
	return cont, nil
}

func opExecute(e *Engine, _ *instruction) error {
	cont, err := e.popContinuation()
	if err != nil {
		return err
	}
	return e.call(cont)
}

func opJmpx(e *Engine, _ *instruction) error {
	cont, err := e.popContinuation()
	if err != nil {
		return err
	}
	e.jump(cont)
	return nil
}

func opRet(e *Engine, _ *instruction) error {
	return e.ret()
}

// opPushCtr pushes c(i), or null when the register is unset
func opPushCtr(e *Engine, ins *instruction) error {
	it, ok := e.ctrls.Get(ins.arg)
	if !ok {
		it = stack.Null{}
	}
	return e.stack.Push(it)
}

func opPopCtr(e *Engine, ins *instruction) error {
	it, err := e.stack.Get(0)
	if err != nil {
		return err
	}
	if err := e.ctrls.Put(ins.arg, it); err != nil {
		return err
	}
	return e.stack.Drop(1)
}

func opGetParam(e *Engine, ins *instruction) error {
	it, err := e.ctrls.Param(ins.arg)
	if err != nil {
		return err
	}
	return e.stack.Push(it)
}
