// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

// OpCode is an instruction prefix. Prefixes above 0xFF take two bytes of code, a nibble-argument
// prefix is the base value with the low four bits cleared.
type OpCode uint16

// stack manipulation
const (
	NOP  OpCode = 0x00
	SWAP OpCode = 0x01
	XCHG OpCode = 0x00 // XCHG s(i), i in 2..15
	PUSH OpCode = 0x20 // PUSH s(i)
	DUP  OpCode = 0x20
	OVER OpCode = 0x21
	POP  OpCode = 0x30 // POP s(i)
	DROP OpCode = 0x30
)

// constants
const (
	PUSHNULL     OpCode = 0x6D
	PUSHINTTINY  OpCode = 0x70 // 7i, -5 <= x <= 10
	PUSHINT8     OpCode = 0x80
	PUSHINT16    OpCode = 0x81
	PUSHINTLONG  OpCode = 0x82
	PUSHREF      OpCode = 0x88
	PUSHREFSLICE OpCode = 0x89
	PUSHREFCONT  OpCode = 0x8A
	PUSHSLICE    OpCode = 0x8B
)

// tuples
const (
	TUPLE OpCode = 0x6F00
	INDEX OpCode = 0x6F10
	TLEN  OpCode = 0x6F88
)

// cell parsing
const (
	CTOS    OpCode = 0xD0
	ENDS    OpCode = 0xD1
	LDU     OpCode = 0xD3
	LDREF   OpCode = 0xD4
	LDSLICE OpCode = 0xD6
	SBITS   OpCode = 0xD749
)

// control flow and registers
const (
	EXECUTE OpCode = 0xD8
	JMPX    OpCode = 0xD9
	RET     OpCode = 0xDB30
	PUSHCTR OpCode = 0xED40
	POPCTR  OpCode = 0xED50
)

// extended instructions, gated by capabilities
const (
	GETPARAM      OpCode = 0xF820
	HASHCU        OpCode = 0xF900
	HASHSU        OpCode = 0xF901
	SHA256U       OpCode = 0xF902
	P256_CHKSIGNU OpCode = 0xF914
	P256_CHKSIGNS OpCode = 0xF915
)

// Width returns the prefix length in bits
func (op OpCode) Width() int {
	if op > 0xFF {
		return 16
	}
	return 8
}

// operandKind describes the immediate following a prefix
type operandKind int

const (
	operandNone operandKind = iota
	// low nibble of the prefix, printed as s(i)
	operandStackReg
	// low nibble of the prefix, not printed (DUP, OVER, DROP)
	operandImplicitReg
	// low nibble of the prefix, printed as c(i)
	operandCtrlReg
	// low nibble of the prefix, printed as a number
	operandNibble
	// next 8 bits plus one
	operandLength
	// low nibble of the prefix as a value in -5..10
	operandTinyInt
	operandInt8
	operandInt16
	// 5-bit length l, then an 8l+19 bit value
	operandLongInt
	// next reference of the code
	operandRef
	// 4-bit length x, then 8x+4 bits of data ending with a completion tag
	operandSlice
)
