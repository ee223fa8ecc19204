// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"fmt"
	"math/big"

	"github.com/iotexproject/iotex-cellvm/cell"
	"github.com/iotexproject/iotex-cellvm/exception"
)

type (
	executionFunc func(e *Engine, ins *instruction) error
	// stackFunc returns the number of operands an instruction needs
	stackFunc func(ins *instruction) int
)

type operation struct {
	name         string
	code         OpCode
	operand      operandKind
	execute      executionFunc
	minStack     stackFunc
	requiredCaps Capabilities
}

// instruction is a decoded operation together with its immediates
type instruction struct {
	op     *operation
	opcode OpCode
	arg    int
	num    *big.Int
	ref    *cell.Cell
	data   *cell.Slice
	// length of the encoding in bits, references excluded
	bits int
}

func (ins *instruction) String() string {
	switch ins.op.operand {
	case operandStackReg:
		return fmt.Sprintf("%s s%d", ins.op.name, ins.arg)
	case operandCtrlReg:
		return fmt.Sprintf("%s c%d", ins.op.name, ins.arg)
	case operandNibble, operandLength:
		return fmt.Sprintf("%s %d", ins.op.name, ins.arg)
	case operandTinyInt, operandInt8, operandInt16, operandLongInt:
		return fmt.Sprintf("%s %s", ins.op.name, ins.num)
	case operandRef:
		return fmt.Sprintf("%s %s", ins.op.name, ins.ref.BeginParse())
	case operandSlice:
		return fmt.Sprintf("%s %s", ins.op.name, ins.data)
	default:
		return ins.op.name
	}
}

func fixed(n int) stackFunc {
	return func(*instruction) int { return n }
}

// argPlus returns a stackFunc requiring the immediate plus n operands
func argPlus(n int) stackFunc {
	return func(ins *instruction) int { return ins.arg + n }
}

// JumpTable maps opcode prefixes to operations. One-byte prefixes live in short, two-byte prefixes in the
// page of their first byte.
type JumpTable struct {
	short [256]*operation
	long  [256]*[256]*operation
	names map[string]*operation
}

func (jt *JumpTable) set(code OpCode, op *operation) {
	if code.Width() == 8 {
		if jt.long[code] != nil {
			panic(fmt.Sprintf("prefix %02x is already a page", uint16(code)))
		}
		jt.short[code] = op
		return
	}
	first := byte(code >> 8)
	if jt.short[first] != nil {
		panic(fmt.Sprintf("prefix %02x is already an operation", first))
	}
	if jt.long[first] == nil {
		jt.long[first] = new([256]*operation)
	}
	jt.long[first][byte(code)] = op
}

// setRange registers op for n consecutive prefixes starting at op.code
func (jt *JumpTable) setRange(n int, op *operation) {
	for i := 0; i < n; i++ {
		jt.set(op.code+OpCode(i), op)
	}
	jt.names[op.name] = op
}

func (jt *JumpTable) add(op *operation) {
	jt.setRange(1, op)
}

// lookup finds the operation registered under name
func (jt *JumpTable) lookup(name string) (*operation, bool) {
	op, ok := jt.names[name]
	return op, ok
}

// decode reads one instruction from code. On failure code may have been partially consumed, so callers
// decode from a copy of the code cursor.
func (jt *JumpTable) decode(code *cell.Slice) (*instruction, error) {
	start := code.BitsLeft()
	first, err := code.LoadUint(8)
	if err != nil {
		return nil, exception.Newf(exception.InvalidOpcode, "truncated opcode: %d bits left", start)
	}
	opcode := OpCode(first)
	op := jt.short[first]
	if op == nil && jt.long[first] != nil {
		second, err := code.LoadUint(8)
		if err != nil {
			return nil, exception.Newf(exception.InvalidOpcode, "truncated opcode %02X", first)
		}
		opcode = opcode<<8 | OpCode(second)
		op = jt.long[first][second]
	}
	if op == nil {
		return nil, exception.Newf(exception.InvalidOpcode, "unknown opcode %X", uint16(opcode))
	}
	ins := &instruction{op: op, opcode: opcode}
	if err := decodeOperand(ins, code); err != nil {
		return nil, exception.Newf(exception.InvalidOpcode, "truncated immediate of %s: %v", op.name, err)
	}
	ins.bits = start - code.BitsLeft()
	return ins, nil
}

func decodeOperand(ins *instruction, code *cell.Slice) error {
	switch ins.op.operand {
	case operandStackReg, operandImplicitReg, operandCtrlReg, operandNibble:
		ins.arg = int(ins.opcode & 0xF)
	case operandLength:
		v, err := code.LoadUint(8)
		if err != nil {
			return err
		}
		ins.arg = int(v) + 1
	case operandTinyInt:
		v := int64(ins.opcode & 0xF)
		if v > 10 {
			v -= 16
		}
		ins.num = big.NewInt(v)
	case operandInt8, operandInt16:
		n := 8
		if ins.op.operand == operandInt16 {
			n = 16
		}
		v, err := code.LoadInt(n)
		if err != nil {
			return err
		}
		ins.num = big.NewInt(v)
	case operandLongInt:
		l, err := code.LoadUint(5)
		if err != nil {
			return err
		}
		v, err := code.LoadBigInt(8*int(l) + 19)
		if err != nil {
			return err
		}
		ins.num = v
	case operandRef:
		ref, err := code.LoadRef()
		if err != nil {
			return err
		}
		ins.ref = ref
	case operandSlice:
		x, err := code.LoadUint(4)
		if err != nil {
			return err
		}
		data, err := code.LoadSlice(8*int(x)+4, 0)
		if err != nil {
			return err
		}
		data.RemoveTrailing()
		ins.data = data
	}
	return nil
}

// newInstructionSet returns the instruction set of the cell vm
func newInstructionSet() *JumpTable {
	jt := &JumpTable{names: make(map[string]*operation)}

	jt.add(&operation{name: "NOP", code: NOP, execute: opNop, minStack: fixed(0)})
	jt.add(&operation{name: "SWAP", code: SWAP, execute: opSwap, minStack: fixed(2)})
	jt.setRange(14, &operation{name: "XCHG", code: XCHG + 2, operand: operandStackReg, execute: opXchg, minStack: argPlus(1)})
	jt.add(&operation{name: "DUP", code: DUP, operand: operandImplicitReg, execute: opPush, minStack: argPlus(1)})
	jt.add(&operation{name: "OVER", code: OVER, operand: operandImplicitReg, execute: opPush, minStack: argPlus(1)})
	jt.setRange(14, &operation{name: "PUSH", code: PUSH + 2, operand: operandStackReg, execute: opPush, minStack: argPlus(1)})
	jt.add(&operation{name: "DROP", code: DROP, operand: operandImplicitReg, execute: opPop, minStack: argPlus(1)})
	jt.setRange(15, &operation{name: "POP", code: POP + 1, operand: operandStackReg, execute: opPop, minStack: argPlus(1)})

	jt.add(&operation{name: "PUSHNULL", code: PUSHNULL, execute: opPushNull, minStack: fixed(0)})
	jt.setRange(16, &operation{name: "PUSHINT", code: PUSHINTTINY, operand: operandTinyInt, execute: opPushInt, minStack: fixed(0)})
	jt.add(&operation{name: "PUSHINT", code: PUSHINT8, operand: operandInt8, execute: opPushInt, minStack: fixed(0)})
	jt.add(&operation{name: "PUSHINT", code: PUSHINT16, operand: operandInt16, execute: opPushInt, minStack: fixed(0)})
	jt.add(&operation{name: "PUSHINT", code: PUSHINTLONG, operand: operandLongInt, execute: opPushInt, minStack: fixed(0)})
	jt.add(&operation{name: "PUSHREF", code: PUSHREF, operand: operandRef, execute: opPushRef, minStack: fixed(0)})
	jt.add(&operation{name: "PUSHREFSLICE", code: PUSHREFSLICE, operand: operandRef, execute: opPushRefSlice, minStack: fixed(0)})
	jt.add(&operation{name: "PUSHREFCONT", code: PUSHREFCONT, operand: operandRef, execute: opPushRefCont, minStack: fixed(0)})
	jt.add(&operation{name: "PUSHSLICE", code: PUSHSLICE, operand: operandSlice, execute: opPushSlice, minStack: fixed(0)})

	jt.setRange(16, &operation{name: "TUPLE", code: TUPLE, operand: operandNibble, execute: opTuple, minStack: argPlus(0), requiredCaps: CapTupleOps})
	jt.setRange(16, &operation{name: "INDEX", code: INDEX, operand: operandNibble, execute: opIndex, minStack: fixed(1), requiredCaps: CapTupleOps})
	jt.add(&operation{name: "TLEN", code: TLEN, execute: opTlen, minStack: fixed(1), requiredCaps: CapTupleOps})

	jt.add(&operation{name: "CTOS", code: CTOS, execute: opCtos, minStack: fixed(1)})
	jt.add(&operation{name: "ENDS", code: ENDS, execute: opEnds, minStack: fixed(1)})
	jt.add(&operation{name: "LDU", code: LDU, operand: operandLength, execute: opLdu, minStack: fixed(1)})
	jt.add(&operation{name: "LDREF", code: LDREF, execute: opLdref, minStack: fixed(1)})
	jt.add(&operation{name: "LDSLICE", code: LDSLICE, operand: operandLength, execute: opLdslice, minStack: fixed(1)})
	jt.add(&operation{name: "SBITS", code: SBITS, execute: opSbits, minStack: fixed(1)})

	jt.add(&operation{name: "EXECUTE", code: EXECUTE, execute: opExecute, minStack: fixed(1)})
	jt.add(&operation{name: "JMPX", code: JMPX, execute: opJmpx, minStack: fixed(1)})
	jt.add(&operation{name: "RET", code: RET, execute: opRet, minStack: fixed(0)})
	jt.setRange(16, &operation{name: "PUSHCTR", code: PUSHCTR, operand: operandCtrlReg, execute: opPushCtr, minStack: fixed(0)})
	jt.setRange(16, &operation{name: "POPCTR", code: POPCTR, operand: operandCtrlReg, execute: opPopCtr, minStack: fixed(1)})

	jt.setRange(16, &operation{name: "GETPARAM", code: GETPARAM, operand: operandNibble, execute: opGetParam, minStack: fixed(0), requiredCaps: CapConfigParams})
	jt.add(&operation{name: "HASHCU", code: HASHCU, execute: opHashCU, minStack: fixed(1), requiredCaps: CapHashOps})
	jt.add(&operation{name: "HASHSU", code: HASHSU, execute: opHashSU, minStack: fixed(1), requiredCaps: CapHashOps})
	jt.add(&operation{name: "SHA256U", code: SHA256U, execute: opSha256U, minStack: fixed(1), requiredCaps: CapHashOps})
	jt.add(&operation{name: "P256_CHKSIGNU", code: P256_CHKSIGNU, execute: opP256ChkSignU, minStack: fixed(3), requiredCaps: CapP256Signatures})
	jt.add(&operation{name: "P256_CHKSIGNS", code: P256_CHKSIGNS, execute: opP256ChkSignS, minStack: fixed(3), requiredCaps: CapP256Signatures})

	return jt
}

var _instructionSet = newInstructionSet()
