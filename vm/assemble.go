// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-cellvm/cell"
)

var _aliases = map[string]string{
	"CHKSIGNS": "P256_CHKSIGNS",
	"CHKSIGNU": "P256_CHKSIGNU",
}

// Line is one disassembled instruction
type Line struct {
	// Offset is the bit position of the instruction in its cell
	Offset int
	Bits   int
	Text   string
}

func (l Line) String() string {
	return fmt.Sprintf("%4d: %s", l.Offset, l.Text)
}

// Assemble translates whitespace separated assembly into a code cell. Instructions take at most one
// operand: a register (s3, c7), a number, or a bit string in fift notation for slices and references.
// Everything after "//" up to the end of a line is ignored.
func Assemble(text string) (*cell.Cell, error) {
	tokens := tokenize(text)
	cb := NewCodeBuilder()
	for i := 0; i < len(tokens); i++ {
		name := strings.ToUpper(tokens[i])
		if alias, ok := _aliases[name]; ok {
			name = alias
		}
		op, ok := _instructionSet.lookup(name)
		if !ok {
			return nil, errors.Errorf("unknown instruction %s", tokens[i])
		}
		var operand string
		if takesOperand(op.operand) {
			if i+1 >= len(tokens) {
				return nil, errors.Errorf("missing operand of %s", name)
			}
			i++
			operand = tokens[i]
		}
		if err := assembleOne(cb, op, operand); err != nil {
			return nil, errors.Wrapf(err, "failed to assemble %s %s", name, operand)
		}
	}
	return cb.Build()
}

func tokenize(text string) []string {
	var tokens []string
	for _, line := range strings.Split(text, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	return tokens
}

func takesOperand(k operandKind) bool {
	return k != operandNone && k != operandImplicitReg
}

func assembleOne(cb CodeBuilder, op *operation, operand string) error {
	switch op.operand {
	case operandNone, operandImplicitReg:
		return cb.AddOp(op.code)
	case operandStackReg:
		n, err := parseRegister(operand, 's')
		if err != nil {
			return err
		}
		return cb.AddNibbleOp(op.code, n)
	case operandCtrlReg:
		n, err := parseRegister(operand, 'c')
		if err != nil {
			return err
		}
		return cb.AddNibbleOp(op.code, n)
	case operandNibble:
		n, err := strconv.Atoi(operand)
		if err != nil {
			return errors.Wrapf(err, "invalid number %s", operand)
		}
		return cb.AddNibbleOp(op.code, n)
	case operandLength:
		n, err := strconv.Atoi(operand)
		if err != nil {
			return errors.Wrapf(err, "invalid number %s", operand)
		}
		return cb.AddLengthOp(op.code, n)
	case operandTinyInt, operandInt8, operandInt16, operandLongInt:
		v, ok := new(big.Int).SetString(operand, 0)
		if !ok {
			return errors.Errorf("invalid integer %s", operand)
		}
		return cb.PushInt(v)
	case operandRef:
		c, err := parseCell(operand)
		if err != nil {
			return err
		}
		switch op.code {
		case PUSHREFSLICE:
			return cb.PushRefSlice(c)
		case PUSHREFCONT:
			return cb.PushRefCont(c)
		default:
			return cb.PushRef(c)
		}
	case operandSlice:
		s, err := cell.ParseSlice(operand)
		if err != nil {
			return err
		}
		return cb.PushSlice(s)
	}
	return errors.Errorf("unsupported operand of %s", op.name)
}

func parseRegister(s string, prefix byte) (int, error) {
	if len(s) < 2 || (s[0] != prefix && s[0] != prefix-'a'+'A') {
		return 0, errors.Errorf("invalid register %s, expecting %c(i)", s, prefix)
	}
	n, err := strconv.Atoi(strings.Trim(s[1:], "()"))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid register %s", s)
	}
	return n, nil
}

func parseCell(s string) (*cell.Cell, error) {
	data, n, err := cell.ParseBits(s)
	if err != nil {
		return nil, err
	}
	b := cell.NewBuilder()
	if err := b.StoreBits(data, n); err != nil {
		return nil, err
	}
	return b.EndCell(), nil
}

// Disassemble decodes every instruction of a code cell. The lines decoded before an undecodable
// instruction are returned together with the error.
func Disassemble(c *cell.Cell) ([]Line, error) {
	code := c.BeginParse()
	var lines []Line
	for code.BitsLeft() > 0 {
		offset := c.BitLen() - code.BitsLeft()
		ins, err := _instructionSet.decode(code)
		if err != nil {
			return lines, errors.Wrapf(err, "failed to decode instruction at bit %d", offset)
		}
		lines = append(lines, Line{Offset: offset, Bits: ins.bits, Text: ins.String()})
	}
	return lines, nil
}
