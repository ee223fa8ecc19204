// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cell

import (
	"math/big"

	"github.com/iotexproject/iotex-cellvm/exception"
)

// Builder is a cell under construction. Storing into a builder never changes the cells it references.
type Builder struct {
	data   []byte
	bitLen int
	refs   []*Cell
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BitLen returns the number of bits stored so far
func (b *Builder) BitLen() int {
	return b.bitLen
}

// RefsCount returns the number of references stored so far
func (b *Builder) RefsCount() int {
	return len(b.refs)
}

// BitsLeft returns how many bits can still be stored
func (b *Builder) BitsLeft() int {
	return MaxBits - b.bitLen
}

// RefsLeft returns how many references can still be stored
func (b *Builder) RefsLeft() int {
	return MaxRefs - len(b.refs)
}

// Copy returns an independent copy of the builder
func (b *Builder) Copy() *Builder {
	nb := &Builder{
		data:   make([]byte, len(b.data)),
		bitLen: b.bitLen,
		refs:   make([]*Cell, len(b.refs)),
	}
	copy(nb.data, b.data)
	copy(nb.refs, b.refs)
	return nb
}

func (b *Builder) ensureBits(n int) error {
	if n < 0 {
		return exception.Newf(exception.RangeCheck, "negative bit count %d", n)
	}
	if b.bitLen+n > MaxBits {
		return exception.Newf(exception.CellOverflow, "cannot store %d bits, %d left", n, b.BitsLeft())
	}
	return nil
}

func (b *Builder) appendBit(bit bool) {
	if b.bitLen%8 == 0 {
		b.data = append(b.data, 0)
	}
	if bit {
		b.data[b.bitLen/8] |= 0x80 >> uint(b.bitLen%8)
	}
	b.bitLen++
}

// StoreBit stores a single bit
func (b *Builder) StoreBit(bit bool) error {
	if err := b.ensureBits(1); err != nil {
		return err
	}
	b.appendBit(bit)
	return nil
}

// StoreUint stores v as an n-bit unsigned big-endian integer, n <= 64
func (b *Builder) StoreUint(v uint64, n int) error {
	if n < 0 || n > 64 {
		return exception.Newf(exception.RangeCheck, "invalid bit width %d", n)
	}
	if n < 64 && v>>uint(n) != 0 {
		return exception.Newf(exception.RangeCheck, "%d does not fit in %d bits", v, n)
	}
	if err := b.ensureBits(n); err != nil {
		return err
	}
	for i := n - 1; i >= 0; i-- {
		b.appendBit(v>>uint(i)&1 == 1)
	}
	return nil
}

// StoreInt stores v as an n-bit two's complement integer, n <= 64
func (b *Builder) StoreInt(v int64, n int) error {
	if n <= 0 || n > 64 {
		return exception.Newf(exception.RangeCheck, "invalid bit width %d", n)
	}
	if n < 64 {
		limit := int64(1) << uint(n-1)
		if v < -limit || v >= limit {
			return exception.Newf(exception.RangeCheck, "%d does not fit in %d signed bits", v, n)
		}
	}
	return b.StoreUint(uint64(v)&(^uint64(0)>>uint(64-n)), n)
}

// StoreBigUint stores a non-negative big integer in n bits
func (b *Builder) StoreBigUint(v *big.Int, n int) error {
	if v.Sign() < 0 || v.BitLen() > n {
		return exception.Newf(exception.RangeCheck, "%s does not fit in %d unsigned bits", v, n)
	}
	if err := b.ensureBits(n); err != nil {
		return err
	}
	for i := n - 1; i >= 0; i-- {
		b.appendBit(v.Bit(i) == 1)
	}
	return nil
}

// StoreBigInt stores a big integer in n bits using two's complement
func (b *Builder) StoreBigInt(v *big.Int, n int) error {
	if n <= 0 {
		return exception.Newf(exception.RangeCheck, "invalid bit width %d", n)
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(n-1))
	if v.Cmp(limit) >= 0 || v.Cmp(new(big.Int).Neg(limit)) < 0 {
		return exception.Newf(exception.RangeCheck, "%s does not fit in %d signed bits", v, n)
	}
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, new(big.Int).Lsh(big.NewInt(1), uint(n)))
	}
	return b.StoreBigUint(u, n)
}

// StoreBits stores the first n bits of data, most significant bit first
func (b *Builder) StoreBits(data []byte, n int) error {
	if n > len(data)*8 {
		return exception.Newf(exception.RangeCheck, "%d bits requested from %d bytes", n, len(data))
	}
	if err := b.ensureBits(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		b.appendBit(bitAt(data, i))
	}
	return nil
}

// StoreBytes stores p as whole bytes
func (b *Builder) StoreBytes(p []byte) error {
	return b.StoreBits(p, len(p)*8)
}

// StoreRef stores a reference to c
func (b *Builder) StoreRef(c *Cell) error {
	if c == nil {
		return exception.New(exception.TypeCheck, "nil cell reference")
	}
	if len(b.refs) >= MaxRefs {
		return exception.New(exception.CellOverflow, "no free references left")
	}
	b.refs = append(b.refs, c)
	return nil
}

// StoreSlice stores the remaining bits and references of s. s itself is not advanced.
func (b *Builder) StoreSlice(s *Slice) error {
	if err := b.ensureBits(s.BitsLeft()); err != nil {
		return err
	}
	if len(b.refs)+s.RefsLeft() > MaxRefs {
		return exception.New(exception.CellOverflow, "no free references left")
	}
	for i := s.bitPos; i < s.bitEnd; i++ {
		b.appendBit(bitAt(s.cell.data, i))
	}
	b.refs = append(b.refs, s.cell.refs[s.refPos:s.refEnd]...)
	return nil
}

// StoreBuilder appends the content of another builder
func (b *Builder) StoreBuilder(o *Builder) error {
	if err := b.ensureBits(o.bitLen); err != nil {
		return err
	}
	if len(b.refs)+len(o.refs) > MaxRefs {
		return exception.New(exception.CellOverflow, "no free references left")
	}
	for i := 0; i < o.bitLen; i++ {
		b.appendBit(bitAt(o.data, i))
	}
	b.refs = append(b.refs, o.refs...)
	return nil
}

// EndCell finalizes the builder content into an immutable cell. The builder may be reused afterwards
// without affecting the returned cell.
func (b *Builder) EndCell() *Cell {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	refs := make([]*Cell, len(b.refs))
	copy(refs, b.refs)
	return newCell(data, b.bitLen, refs)
}

// String renders the builder data in fift notation
func (b *Builder) String() string {
	return FormatBits(b.data, 0, b.bitLen)
}
