// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cell

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-cellvm/exception"
)

func TestBuilderAndSlice(t *testing.T) {
	require := require.New(t)

	child := NewBuilder()
	require.NoError(child.StoreUint(0xbeef, 16))
	childCell := child.EndCell()

	b := NewBuilder()
	require.NoError(b.StoreUint(5, 3))
	require.NoError(b.StoreInt(-2, 8))
	require.NoError(b.StoreBigUint(big.NewInt(1000), 100))
	require.NoError(b.StoreBytes([]byte{0xca, 0xfe}))
	require.NoError(b.StoreRef(childCell))
	c := b.EndCell()
	require.Equal(3+8+100+16, c.BitLen())
	require.Equal(1, c.RefsCount())
	require.Equal(uint16(1), c.Depth())

	s := c.BeginParse()
	v, err := s.LoadUint(3)
	require.NoError(err)
	require.Equal(uint64(5), v)
	i, err := s.LoadInt(8)
	require.NoError(err)
	require.Equal(int64(-2), i)
	bi, err := s.LoadBigUint(100)
	require.NoError(err)
	require.Equal(int64(1000), bi.Int64())
	p, err := s.LoadBytes(2)
	require.NoError(err)
	require.Equal([]byte{0xca, 0xfe}, p)
	ref, err := s.LoadRef()
	require.NoError(err)
	require.True(ref.Equal(childCell))
	require.True(s.IsEmpty())

	// mutating the builder after EndCell leaves the cell intact
	require.NoError(b.StoreUint(1, 1))
	require.Equal(3+8+100+16, c.BitLen())
}

func TestSliceUnderflow(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	require.NoError(b.StoreUint(0xff, 8))
	s := b.EndCell().BeginParse()

	_, err := s.LoadUint(9)
	require.True(exception.HasCode(err, exception.CellUnderflow))
	require.Contains(err.Error(), "cell underflow")
	// failed reads do not move the cursor
	require.Equal(8, s.BitsLeft())

	_, err = s.LoadRef()
	require.True(exception.HasCode(err, exception.CellUnderflow))

	sub, err := s.LoadSlice(4, 0)
	require.NoError(err)
	require.Equal(4, sub.BitsLeft())
	require.Equal(4, s.BitsLeft())
	_, err = sub.LoadBits(5)
	require.True(exception.HasCode(err, exception.CellUnderflow))
}

func TestBuilderOverflow(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	require.NoError(b.StoreBits(make([]byte, 128), MaxBits))
	err := b.StoreBit(true)
	require.True(exception.HasCode(err, exception.CellOverflow))

	for i := 0; i < MaxRefs; i++ {
		require.NoError(b.StoreRef(Empty()))
	}
	require.True(exception.HasCode(b.StoreRef(Empty()), exception.CellOverflow))

	require.True(exception.HasCode(NewBuilder().StoreUint(4, 2), exception.RangeCheck))
	require.True(exception.HasCode(NewBuilder().StoreInt(128, 8), exception.RangeCheck))
	require.True(exception.HasCode(NewBuilder().StoreBigInt(big.NewInt(-129), 8), exception.RangeCheck))
}

func TestSignedBigInt(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	require.NoError(b.StoreBigInt(big.NewInt(-12345), 257))
	s := b.EndCell().BeginParse()
	v, err := s.LoadBigInt(257)
	require.NoError(err)
	require.Equal(int64(-12345), v.Int64())
}

func TestCellHash(t *testing.T) {
	require := require.New(t)

	build := func(bits string) *Cell {
		s, err := ParseSlice(bits)
		require.NoError(err)
		return s.ToCell()
	}
	a, b := build("x{ABCD}"), build("x{ABCD}")
	require.Equal(a.Hash(), b.Hash())
	require.True(a.Equal(b))
	require.NotEqual(a.Hash(), build("x{ABCE}").Hash())
	// completion tag makes 7 bits and 8 bits distinct
	require.NotEqual(build("b{0000000}").Hash(), build("b{00000000}").Hash())

	parent := NewBuilder()
	require.NoError(parent.StoreRef(a))
	withA := parent.EndCell()
	parent = NewBuilder()
	require.NoError(parent.StoreRef(build("x{ABCE}")))
	require.NotEqual(withA.Hash(), parent.EndCell().Hash())
}

func TestFift(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		in   string
		bits int
		out  string
	}{
		{"x{}", 0, "x{}"},
		{"x{A5}", 8, "x{A5}"},
		{"x{a5}", 8, "x{A5}"},
		{"x{A_}", 2, "x{A_}"},
		{"x{4_}", 1, "x{4_}"},
		{"b{101}", 3, "x{B_}"},
		{"b{1010}", 4, "x{A}"},
	}
	for _, tt := range tests {
		s, err := ParseSlice(tt.in)
		require.NoError(err, tt.in)
		require.Equal(tt.bits, s.BitsLeft(), tt.in)
		require.Equal(tt.out, s.String(), tt.in)
	}

	for _, bad := range []string{"", "x{", "y{00}", "x{G}", "b{2}"} {
		_, err := ParseSlice(bad)
		require.Error(err, bad)
	}
}

func TestRemoveTrailing(t *testing.T) {
	require := require.New(t)

	s, err := ParseSlice("b{10110000}")
	require.NoError(err)
	s.RemoveTrailing()
	require.Equal(3, s.BitsLeft())

	s, err = ParseSlice("b{0000}")
	require.NoError(err)
	s.RemoveTrailing()
	require.Equal(0, s.BitsLeft())
}
