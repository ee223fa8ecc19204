// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-cellvm/cell"
	"github.com/iotexproject/iotex-cellvm/exception"
	"github.com/iotexproject/iotex-cellvm/stack"
)

const (
	// maxInlineSliceBits is the longest slice PUSHSLICE can carry, leaving room for the completion tag
	maxInlineSliceBits = 8*15 + 4 - 1
	// maxLongIntLen is the largest length field of PUSHINTLONG
	maxLongIntLen = 31
)

// CodeBuilder builds a code cell instruction by instruction. Code must fit into a single cell.
type CodeBuilder interface {
	// AddOp adds an instruction without immediates
	AddOp(op OpCode) error
	// AddNibbleOp adds an instruction carrying arg in the low nibble of its prefix
	AddNibbleOp(base OpCode, arg int) error
	// AddLengthOp adds an instruction followed by an 8-bit length n-1
	AddLengthOp(op OpCode, n int) error
	// PushInt adds the shortest PUSHINT encoding of v
	PushInt(v *big.Int) error
	// PushSlice adds a PUSHSLICE carrying the remaining bits of s inline
	PushSlice(s *cell.Slice) error
	// PushRef adds a PUSHREF of c
	PushRef(c *cell.Cell) error
	// PushRefSlice adds a PUSHREFSLICE of c
	PushRefSlice(c *cell.Cell) error
	// PushRefCont adds a PUSHREFCONT of c
	PushRefCont(c *cell.Cell) error
	// Build returns the code cell, or the first error any add reported
	Build() (*cell.Cell, error)
	// Reset resets all internal states of the builder.
	Reset()
}

type codeBuilder struct {
	b   *cell.Builder
	err error
}

// NewCodeBuilder creates a CodeBuilder
func NewCodeBuilder() CodeBuilder {
	return &codeBuilder{b: cell.NewBuilder()}
}

// apply runs store on a copy of the builder and keeps the result only if every store succeeded, so a
// failed add never leaves half an instruction behind
func (cb *codeBuilder) apply(store func(b *cell.Builder) error) error {
	nb := cb.b.Copy()
	if err := store(nb); err != nil {
		if cb.err == nil {
			cb.err = err
		}
		return err
	}
	cb.b = nb
	return nil
}

func storeOp(b *cell.Builder, op OpCode) error {
	return b.StoreUint(uint64(op), op.Width())
}

func (cb *codeBuilder) AddOp(op OpCode) error {
	return cb.apply(func(b *cell.Builder) error {
		return storeOp(b, op)
	})
}

func (cb *codeBuilder) AddNibbleOp(base OpCode, arg int) error {
	return cb.apply(func(b *cell.Builder) error {
		if arg < 0 || arg > 0xF {
			return exception.Newf(exception.RangeCheck, "argument %d does not fit a nibble", arg)
		}
		return storeOp(b, base&^0xF|OpCode(arg))
	})
}

func (cb *codeBuilder) AddLengthOp(op OpCode, n int) error {
	return cb.apply(func(b *cell.Builder) error {
		if n < 1 || n > 256 {
			return exception.Newf(exception.RangeCheck, "length %d out of range 1..256", n)
		}
		if err := storeOp(b, op); err != nil {
			return err
		}
		return b.StoreUint(uint64(n-1), 8)
	})
}

func (cb *codeBuilder) PushInt(v *big.Int) error {
	return cb.apply(func(b *cell.Builder) error {
		if _, err := stack.NewInteger(v); err != nil {
			return err
		}
		switch {
		case v.IsInt64() && v.Int64() >= -5 && v.Int64() <= 10:
			return storeOp(b, PUSHINTTINY|OpCode(v.Int64()&0xF))
		case v.IsInt64() && v.Int64() >= -128 && v.Int64() < 128:
			if err := storeOp(b, PUSHINT8); err != nil {
				return err
			}
			return b.StoreInt(v.Int64(), 8)
		case v.IsInt64() && v.Int64() >= -32768 && v.Int64() < 32768:
			if err := storeOp(b, PUSHINT16); err != nil {
				return err
			}
			return b.StoreInt(v.Int64(), 16)
		}
		l := longIntLen(v)
		if err := storeOp(b, PUSHINTLONG); err != nil {
			return err
		}
		if err := b.StoreUint(uint64(l), 5); err != nil {
			return err
		}
		return b.StoreBigInt(v, 8*l+19)
	})
}

// longIntLen returns the smallest l such that v fits into 8l+19 bits as a two's complement integer
func longIntLen(v *big.Int) int {
	// two's complement width: magnitude bits plus the sign bit
	width := v.BitLen() + 1
	if v.Sign() < 0 {
		width = new(big.Int).Add(v, big.NewInt(1)).BitLen() + 1
	}
	l := 0
	for 8*l+19 < width && l < maxLongIntLen {
		l++
	}
	return l
}

func (cb *codeBuilder) PushSlice(s *cell.Slice) error {
	return cb.apply(func(b *cell.Builder) error {
		if s.RefsLeft() > 0 {
			return errors.New("inline slices cannot carry references")
		}
		n := s.BitsLeft()
		if n > maxInlineSliceBits {
			return exception.Newf(exception.CellOverflow, "%d bits do not fit an inline slice", n)
		}
		// smallest x with 8x+4 > n, leaving room for the completion tag
		x := 0
		for 8*x+4 <= n {
			x++
		}
		if err := storeOp(b, PUSHSLICE); err != nil {
			return err
		}
		if err := b.StoreUint(uint64(x), 4); err != nil {
			return err
		}
		if err := b.StoreSlice(s); err != nil {
			return err
		}
		if err := b.StoreBit(true); err != nil {
			return err
		}
		pad := 8*x + 4 - n - 1
		return b.StoreBits(make([]byte, (pad+7)/8), pad)
	})
}

func (cb *codeBuilder) pushRef(op OpCode, c *cell.Cell) error {
	return cb.apply(func(b *cell.Builder) error {
		if err := storeOp(b, op); err != nil {
			return err
		}
		return b.StoreRef(c)
	})
}

func (cb *codeBuilder) PushRef(c *cell.Cell) error {
	return cb.pushRef(PUSHREF, c)
}

func (cb *codeBuilder) PushRefSlice(c *cell.Cell) error {
	return cb.pushRef(PUSHREFSLICE, c)
}

func (cb *codeBuilder) PushRefCont(c *cell.Cell) error {
	return cb.pushRef(PUSHREFCONT, c)
}

func (cb *codeBuilder) Build() (*cell.Cell, error) {
	if cb.err != nil {
		return nil, cb.err
	}
	return cb.b.EndCell(), nil
}

func (cb *codeBuilder) Reset() {
	cb.b = cell.NewBuilder()
	cb.err = nil
}
