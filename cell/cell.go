// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cell

import (
	"encoding/binary"
	"strings"

	"github.com/iotexproject/go-pkgs/hash"

	"github.com/iotexproject/iotex-cellvm/exception"
)

const (
	// MaxBits is the maximum number of data bits a cell can hold
	MaxBits = 1023
	// MaxRefs is the maximum number of references a cell can hold
	MaxRefs = 4
)

// Cell is an immutable node of the code and data graph. A cell holds up to MaxBits data bits and up to
// MaxRefs references to child cells. Cells are only created by Builder.EndCell and are safe to share
// between slices, stacks and engines running on different goroutines.
type Cell struct {
	data   []byte
	bitLen int
	refs   []*Cell
	depth  uint16
	hash   hash.Hash256
}

// Empty returns a cell without data and references
func Empty() *Cell {
	return NewBuilder().EndCell()
}

func newCell(data []byte, bitLen int, refs []*Cell) *Cell {
	c := &Cell{
		data:   data,
		bitLen: bitLen,
		refs:   refs,
	}
	for _, ref := range refs {
		if ref.depth+1 > c.depth {
			c.depth = ref.depth + 1
		}
	}
	c.hash = hash.Hash256b(c.representation())
	return c
}

// representation serializes the cell into the byte form its hash is computed over: two descriptor
// bytes, the data padded with a completion tag, then depth and hash of each child.
func (c *Cell) representation() []byte {
	buf := make([]byte, 0, 2+len(c.data)+len(c.refs)*(2+len(hash.Hash256{})))
	buf = append(buf, byte(len(c.refs)), byte(c.bitLen/8+(c.bitLen+7)/8))
	buf = append(buf, paddedData(c.data, c.bitLen)...)
	for _, ref := range c.refs {
		buf = binary.BigEndian.AppendUint16(buf, ref.depth)
	}
	for _, ref := range c.refs {
		buf = append(buf, ref.hash[:]...)
	}
	return buf
}

// Hash returns the content address of the cell
func (c *Cell) Hash() hash.Hash256 {
	return c.hash
}

// Depth returns the length of the longest reference chain below the cell
func (c *Cell) Depth() uint16 {
	return c.depth
}

// BitLen returns the number of data bits
func (c *Cell) BitLen() int {
	return c.bitLen
}

// RefsCount returns the number of references
func (c *Cell) RefsCount() int {
	return len(c.refs)
}

// Ref returns the i-th reference
func (c *Cell) Ref(i int) (*Cell, error) {
	if i < 0 || i >= len(c.refs) {
		return nil, exception.Newf(exception.CellUnderflow, "reference %d of %d", i, len(c.refs))
	}
	return c.refs[i], nil
}

// Data returns a copy of the packed data bits, most significant bit first
func (c *Cell) Data() []byte {
	data := make([]byte, len(c.data))
	copy(data, c.data)
	return data
}

// BeginParse returns a slice positioned at the beginning of the cell
func (c *Cell) BeginParse() *Slice {
	return &Slice{
		cell:   c,
		bitEnd: c.bitLen,
		refEnd: len(c.refs),
	}
}

// Equal reports whether two cells have the same content
func (c *Cell) Equal(other *Cell) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.hash == other.hash
}

// String renders the cell data in fift notation followed by its references, one per indented line
func (c *Cell) String() string {
	var sb strings.Builder
	c.dump(&sb, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func (c *Cell) dump(sb *strings.Builder, indent int) {
	sb.WriteString(strings.Repeat(" ", indent))
	sb.WriteString(FormatBits(c.data, 0, c.bitLen))
	sb.WriteByte('\n')
	for _, ref := range c.refs {
		ref.dump(sb, indent+1)
	}
}

func paddedData(data []byte, bitLen int) []byte {
	n := (bitLen + 7) / 8
	padded := make([]byte, n)
	copy(padded, data[:n])
	if rem := bitLen % 8; rem != 0 {
		padded[n-1] &= ^byte(0xff >> rem)
		padded[n-1] |= 0x80 >> rem
	}
	return padded
}

func bitAt(data []byte, i int) bool {
	return data[i/8]>>(7-uint(i%8))&1 == 1
}
