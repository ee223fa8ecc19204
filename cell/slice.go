// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cell

import (
	"math/big"

	"github.com/iotexproject/iotex-cellvm/exception"
)

// Slice is a read cursor over the data bits and references of a cell. Both cursors only move forward and
// never pass the end of the window the slice was created with. A failed read leaves the slice untouched.
type Slice struct {
	cell           *Cell
	bitPos, bitEnd int
	refPos, refEnd int
}

// Cell returns the cell the slice reads from
func (s *Slice) Cell() *Cell {
	return s.cell
}

// BitsLeft returns the number of unread data bits
func (s *Slice) BitsLeft() int {
	return s.bitEnd - s.bitPos
}

// RefsLeft returns the number of unread references
func (s *Slice) RefsLeft() int {
	return s.refEnd - s.refPos
}

// IsEmpty reports whether neither bits nor references are left
func (s *Slice) IsEmpty() bool {
	return s.BitsLeft() == 0 && s.RefsLeft() == 0
}

// Copy returns an independent cursor over the same window
func (s *Slice) Copy() *Slice {
	ns := *s
	return &ns
}

func (s *Slice) ensureBits(n int) error {
	if n < 0 {
		return exception.Newf(exception.RangeCheck, "negative bit count %d", n)
	}
	if n > s.BitsLeft() {
		return exception.Newf(exception.CellUnderflow, "%d bits requested, %d left", n, s.BitsLeft())
	}
	return nil
}

func (s *Slice) ensureRefs(n int) error {
	if n < 0 {
		return exception.Newf(exception.RangeCheck, "negative reference count %d", n)
	}
	if n > s.RefsLeft() {
		return exception.Newf(exception.CellUnderflow, "%d references requested, %d left", n, s.RefsLeft())
	}
	return nil
}

// SkipBits advances the bit cursor by n
func (s *Slice) SkipBits(n int) error {
	if err := s.ensureBits(n); err != nil {
		return err
	}
	s.bitPos += n
	return nil
}

// PreloadUint reads an n-bit unsigned integer without advancing, n <= 64
func (s *Slice) PreloadUint(n int) (uint64, error) {
	if n > 64 {
		return 0, exception.Newf(exception.RangeCheck, "invalid bit width %d", n)
	}
	if err := s.ensureBits(n); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < n; i++ {
		v <<= 1
		if bitAt(s.cell.data, s.bitPos+i) {
			v |= 1
		}
	}
	return v, nil
}

// LoadUint reads an n-bit unsigned integer, n <= 64
func (s *Slice) LoadUint(n int) (uint64, error) {
	v, err := s.PreloadUint(n)
	if err != nil {
		return 0, err
	}
	s.bitPos += n
	return v, nil
}

// LoadInt reads an n-bit two's complement integer, 0 < n <= 64
func (s *Slice) LoadInt(n int) (int64, error) {
	if n == 0 {
		return 0, exception.New(exception.RangeCheck, "invalid bit width 0")
	}
	v, err := s.LoadUint(n)
	if err != nil {
		return 0, err
	}
	if n < 64 && v>>uint(n-1)&1 == 1 {
		v |= ^uint64(0) << uint(n)
	}
	return int64(v), nil
}

// LoadBigUint reads an n-bit unsigned integer of arbitrary width
func (s *Slice) LoadBigUint(n int) (*big.Int, error) {
	if err := s.ensureBits(n); err != nil {
		return nil, err
	}
	v := new(big.Int)
	for i := 0; i < n; i++ {
		v.Lsh(v, 1)
		if bitAt(s.cell.data, s.bitPos+i) {
			v.SetBit(v, 0, 1)
		}
	}
	s.bitPos += n
	return v, nil
}

// LoadBigInt reads an n-bit two's complement integer of arbitrary width
func (s *Slice) LoadBigInt(n int) (*big.Int, error) {
	if n == 0 {
		return nil, exception.New(exception.RangeCheck, "invalid bit width 0")
	}
	v, err := s.LoadBigUint(n)
	if err != nil {
		return nil, err
	}
	if v.Bit(n-1) == 1 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(n)))
	}
	return v, nil
}

// LoadBits reads n bits and returns them packed, most significant bit first
func (s *Slice) LoadBits(n int) ([]byte, error) {
	if err := s.ensureBits(n); err != nil {
		return nil, err
	}
	out := make([]byte, (n+7)/8)
	for i := 0; i < n; i++ {
		if bitAt(s.cell.data, s.bitPos+i) {
			out[i/8] |= 0x80 >> uint(i%8)
		}
	}
	s.bitPos += n
	return out, nil
}

// LoadBytes reads n whole bytes
func (s *Slice) LoadBytes(n int) ([]byte, error) {
	return s.LoadBits(n * 8)
}

// PreloadRef returns the next reference without advancing
func (s *Slice) PreloadRef() (*Cell, error) {
	if err := s.ensureRefs(1); err != nil {
		return nil, err
	}
	return s.cell.refs[s.refPos], nil
}

// LoadRef reads the next reference
func (s *Slice) LoadRef() (*Cell, error) {
	c, err := s.PreloadRef()
	if err != nil {
		return nil, err
	}
	s.refPos++
	return c, nil
}

// LoadSlice cuts the next bits and refs off the slice and returns them as a slice over the same cell
func (s *Slice) LoadSlice(bits, refs int) (*Slice, error) {
	if err := s.ensureBits(bits); err != nil {
		return nil, err
	}
	if err := s.ensureRefs(refs); err != nil {
		return nil, err
	}
	sub := &Slice{
		cell:   s.cell,
		bitPos: s.bitPos,
		bitEnd: s.bitPos + bits,
		refPos: s.refPos,
		refEnd: s.refPos + refs,
	}
	s.bitPos += bits
	s.refPos += refs
	return sub, nil
}

// RemoveTrailing drops the completion tag: the trailing zero bits and the one bit before them. A slice
// without any set bit becomes empty.
func (s *Slice) RemoveTrailing() {
	for s.bitEnd > s.bitPos {
		s.bitEnd--
		if bitAt(s.cell.data, s.bitEnd) {
			return
		}
	}
}

// ToCell copies the remaining bits and references into a new cell
func (s *Slice) ToCell() *Cell {
	b := NewBuilder()
	// the remaining window always fits into a single builder
	_ = b.StoreSlice(s)
	return b.EndCell()
}

// Equal reports whether both slices have the same remaining content
func (s *Slice) Equal(other *Slice) bool {
	if s.BitsLeft() != other.BitsLeft() || s.RefsLeft() != other.RefsLeft() {
		return false
	}
	for i := 0; i < s.BitsLeft(); i++ {
		if bitAt(s.cell.data, s.bitPos+i) != bitAt(other.cell.data, other.bitPos+i) {
			return false
		}
	}
	for i := 0; i < s.RefsLeft(); i++ {
		if !s.cell.refs[s.refPos+i].Equal(other.cell.refs[other.refPos+i]) {
			return false
		}
	}
	return true
}

// String renders the remaining bits in fift notation
func (s *Slice) String() string {
	return FormatBits(s.cell.data, s.bitPos, s.BitsLeft())
}
