// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-cellvm/cell"
	"github.com/iotexproject/iotex-cellvm/exception"
	"github.com/iotexproject/iotex-cellvm/stack"
)

func testParams() []stack.Item {
	return []stack.Item{
		stack.Int(0x76ef1ea),
		stack.Int(0),
		stack.Int(0),
		stack.Int(0),
		stack.Int(0),
		stack.Int(0),
		stack.Int(0),
		stack.NewTuple(stack.Int(1000000000), stack.Null{}),
		stack.Null{},
		stack.Null{},
		stack.Null{},
		stack.Int(0),
	}
}

func testCtrls(t *testing.T) *stack.SaveList {
	ctrls := stack.NewSaveList()
	require.NoError(t, ctrls.Put(stack.ParamsRegister, stack.NewTuple(stack.NewTuple(testParams()...))))
	return ctrls
}

func mustAssemble(t *testing.T, text string) *cell.Cell {
	code, err := Assemble(text)
	require.NoError(t, err)
	return code
}

func newTestEngine(t *testing.T, caps Capabilities, text string) *Engine {
	code := mustAssemble(t, text)
	return WithCapabilities(caps).SetupWithLibraries(code.BeginParse(), testCtrls(t), nil, nil, nil)
}

// fift renders bytes as an x{...} bit string
func fift(b []byte) string {
	return "x{" + strings.ToUpper(hex.EncodeToString(b)) + "}"
}

func topBool(t *testing.T, e *Engine) bool {
	it, err := e.Stack().Get(0)
	require.NoError(t, err)
	b, err := stack.AsBool(it)
	require.NoError(t, err)
	return b
}

func topInt(t *testing.T, e *Engine) *big.Int {
	it, err := e.Stack().Get(0)
	require.NoError(t, err)
	v, err := stack.AsInteger(it)
	require.NoError(t, err)
	return v
}

func TestExecute(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t, DefaultCapabilities, "PUSHINT 1 PUSHINT 2")
	require.Equal(StatusReady, e.Status())
	require.NoError(e.Execute())
	require.Equal(StatusHalted, e.Status())
	require.Equal(0, e.ExitCode())
	require.Equal(uint64(2), e.Steps())
	require.Equal(2, e.Stack().Depth())
	require.Equal(int64(2), topInt(t, e).Int64())
	// both instructions are 8 bits long
	require.Equal(2*(basicGasPrice+8), e.GasUsed())

	err := e.Execute()
	require.True(exception.HasCode(err, exception.Fatal))
	require.Contains(err.Error(), "engine already executed")

	failed := newTestEngine(t, DefaultCapabilities, "DROP")
	err = failed.Execute()
	require.True(exception.HasCode(err, exception.StackUnderflow))
	require.Equal(StatusFailed, failed.Status())
	require.Equal(err, failed.Err())
	require.Equal(err, failed.Execute())
}

func TestSetupDefaults(t *testing.T) {
	require := require.New(t)

	lib := cell.NewBuilder()
	require.NoError(lib.StoreUint(0xBEEF, 16))
	libCell := lib.EndCell()
	page := cell.Empty()
	limit := uint64(500)

	e := WithCapabilities(0).SetupWithLibraries(nil, nil, []*cell.Cell{libCell}, &limit, []*cell.Cell{page})
	require.Equal(Capabilities(0), e.Capabilities())
	require.Equal(limit, e.GasLimit())
	found, ok := e.Library(libCell.Hash())
	require.True(ok)
	require.True(found.Equal(libCell))
	_, ok = e.Library(page.Hash())
	require.False(ok)
	require.Len(e.CodePages(), 1)

	c0, ok := e.Ctrls().Get(0)
	require.True(ok)
	require.Equal("Cont{quit 0}", c0.String())
	c1, ok := e.Ctrls().Get(1)
	require.True(ok)
	require.Equal("Cont{quit 1}", c1.String())

	// empty code returns right away
	require.NoError(e.Execute())
	require.Zero(e.Steps())

	// the save list passed in is not modified by the engine
	ctrls := testCtrls(t)
	e = WithCapabilities(DefaultCapabilities).SetupWithLibraries(mustAssemble(t, "PUSHNULL POPCTR c4").BeginParse(), ctrls, nil, nil, nil)
	require.Error(e.Execute())
	_, ok = ctrls.Get(0)
	require.False(ok)
}

func TestGas(t *testing.T) {
	require := require.New(t)

	code := mustAssemble(t, "PUSHINT 1 PUSHINT 2 PUSHINT 3")
	limit := 2 * (basicGasPrice + 8)
	e := WithCapabilities(DefaultCapabilities).SetupWithLibraries(code.BeginParse(), nil, nil, &limit, nil)
	err := e.Execute()
	require.True(exception.HasCode(err, exception.OutOfGas))
	// the instruction running out of gas is not applied
	require.Equal(2, e.Stack().Depth())
	require.Equal(limit, e.GasUsed())
	require.Equal(uint64(2), e.Steps())
}

func TestDumpCtrls(t *testing.T) {
	require := require.New(t)

	priv, pub := genKey(t)
	program := chkSignSProgram(t, []byte("dump"), priv, pub)

	plain := newTestEngine(t, DefaultCapabilities, program)
	require.NoError(plain.Execute())

	dumped := newTestEngine(t, DefaultCapabilities, program)
	before := dumped.DumpCtrls(false)
	require.Contains(before, "c0: Cont{quit 0}")
	require.Contains(before, "c7: ")
	require.NotContains(before, "stack:")
	verbose := dumped.DumpCtrls(true)
	require.Contains(verbose, "status: ready")
	require.NoError(dumped.Execute())
	require.Equal(before, dumped.DumpCtrls(false))
	require.Contains(dumped.DumpCtrls(true), "status: halted")

	require.Equal(plain.Stack().String(), dumped.Stack().String())
	require.Equal(topBool(t, plain), topBool(t, dumped))

	failed := newTestEngine(t, DefaultCapabilities, "SWAP")
	require.Error(failed.Execute())
	require.Contains(failed.DumpCtrls(true), "status: failed")
}

func TestCapabilities(t *testing.T) {
	require := require.New(t)

	require.True(DefaultCapabilities.Has(CapHashOps | CapP256Signatures | CapConfigParams | CapTupleOps))
	require.False(Capabilities(0x2).Has(CapP256Signatures))
	require.Equal("0x24[p256,tuple]", (CapP256Signatures | CapTupleOps).String())

	priv, pub := genKey(t)
	program := chkSignSProgram(t, []byte("gated"), priv, pub)
	for _, caps := range []Capabilities{0, DefaultCapabilities &^ CapP256Signatures} {
		e := newTestEngine(t, caps, program)
		err := e.Execute()
		require.True(exception.HasCode(err, exception.InvalidOpcode), err)
		// operands of the rejected instruction are still there
		require.Equal(3, e.Stack().Depth())
		top, err := e.Stack().Get(0)
		require.NoError(err)
		require.Equal(stack.KindSlice, top.Kind())
	}

	e := newTestEngine(t, DefaultCapabilities&^CapConfigParams, "GETPARAM 0")
	require.True(exception.HasCode(e.Execute(), exception.InvalidOpcode))
	e = newTestEngine(t, DefaultCapabilities&^CapTupleOps, "PUSHINT 1 TUPLE 1")
	require.True(exception.HasCode(e.Execute(), exception.InvalidOpcode))
	require.Equal(1, e.Stack().Depth())
	e = newTestEngine(t, DefaultCapabilities&^CapHashOps, "PUSHREF x{AB} HASHCU")
	require.True(exception.HasCode(e.Execute(), exception.InvalidOpcode))

	// capabilities are checked before operand counts
	e = newTestEngine(t, 0, "P256_CHKSIGNS")
	require.True(exception.HasCode(e.Execute(), exception.InvalidOpcode))
	e = newTestEngine(t, DefaultCapabilities, "P256_CHKSIGNS")
	require.True(exception.HasCode(e.Execute(), exception.StackUnderflow))
}

func TestInvalidOpcode(t *testing.T) {
	require := require.New(t)

	for _, code := range []string{"x{FF}", "x{F9FF}", "x{F9}", "x{8}", "x{80}"} {
		s, err := cell.ParseSlice(code)
		require.NoError(err)
		e := WithCapabilities(DefaultCapabilities).SetupWithLibraries(s, nil, nil, nil, nil)
		err = e.Execute()
		require.True(exception.HasCode(err, exception.InvalidOpcode), fmt.Sprintf("%s: %v", code, err))
		require.Zero(e.Steps())
	}
}
