// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package stack

import (
	"fmt"
	"strings"

	"github.com/iotexproject/iotex-cellvm/exception"
)

const (
	// NumRegisters is the number of control registers c0..c15
	NumRegisters = 16
	// ParamsRegister is the register holding the configuration parameter tuple
	ParamsRegister = 7
)

// SaveList is the bank of control registers. A register is either unset or holds an item.
type SaveList struct {
	regs [NumRegisters]Item
}

// NewSaveList creates an empty save list
func NewSaveList() *SaveList {
	return &SaveList{}
}

func checkIndex(i int) error {
	if i < 0 || i >= NumRegisters {
		return exception.Newf(exception.RangeCheck, "control register index %d out of range", i)
	}
	return nil
}

// checkRegisterType enforces the variants registers are reserved for: c0-c3 hold continuations,
// c4-c5 hold cells and c7 holds a tuple.
func checkRegisterType(i int, it Item) error {
	var want Kind
	switch {
	case i <= 3:
		want = KindContinuation
	case i == 4 || i == 5:
		want = KindCell
	case i == ParamsRegister:
		want = KindTuple
	default:
		return nil
	}
	if it.Kind() != want {
		return exception.TypeMismatch(want.String(), it.Kind().String())
	}
	return nil
}

// Put stores it into register i. A nil item clears the register.
func (l *SaveList) Put(i int, it Item) error {
	if err := checkIndex(i); err != nil {
		return err
	}
	if it == nil {
		l.regs[i] = nil
		return nil
	}
	if err := checkRegisterType(i, it); err != nil {
		return err
	}
	l.regs[i] = it
	return nil
}

// Define stores it into register i only if the register is unset. It reports whether the item was stored.
func (l *SaveList) Define(i int, it Item) (bool, error) {
	if err := checkIndex(i); err != nil {
		return false, err
	}
	if l.regs[i] != nil {
		return false, nil
	}
	return true, l.Put(i, it)
}

// Get returns the content of register i
func (l *SaveList) Get(i int) (Item, bool) {
	if checkIndex(i) != nil || l.regs[i] == nil {
		return nil, false
	}
	return l.regs[i], true
}

// IsEmpty reports whether no register is set
func (l *SaveList) IsEmpty() bool {
	for _, it := range l.regs {
		if it != nil {
			return false
		}
	}
	return true
}

// Clone returns an independent save list. Items are shared since they are immutable.
func (l *SaveList) Clone() *SaveList {
	nl := *l
	return &nl
}

// Restore copies every set register of from into l, overriding current values
func (l *SaveList) Restore(from *SaveList) {
	if from == nil {
		return
	}
	for i, it := range from.regs {
		if it != nil {
			l.regs[i] = it
		}
	}
}

// Param returns configuration parameter n, read from the first element of the c7 tuple. Parameters past
// the end of a shorter tuple are Null.
func (l *SaveList) Param(n int) (Item, error) {
	c7, ok := l.Get(ParamsRegister)
	if !ok {
		return nil, exception.Newf(exception.TypeCheck, "cannot access parameter %d: c7 is not set", n)
	}
	outer, err := AsTuple(c7)
	if err != nil {
		return nil, err
	}
	if outer.Len() == 0 {
		return nil, exception.Newf(exception.TypeCheck, "cannot access parameter %d: c7 is an empty tuple", n)
	}
	params, err := AsTuple(outer.At(0))
	if err != nil {
		return nil, err
	}
	return params.At(n), nil
}

// String renders every set register as "cN: item", one per line
func (l *SaveList) String() string {
	var sb strings.Builder
	for i, it := range l.regs {
		if it == nil {
			continue
		}
		fmt.Fprintf(&sb, "c%d: %s\n", i, it)
	}
	return strings.TrimRight(sb.String(), "\n")
}
