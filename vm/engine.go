// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"github.com/iotexproject/go-pkgs/hash"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-cellvm/cell"
	"github.com/iotexproject/iotex-cellvm/ecc"
	"github.com/iotexproject/iotex-cellvm/exception"
	"github.com/iotexproject/iotex-cellvm/pkg/log"
	"github.com/iotexproject/iotex-cellvm/stack"
)

// Status is the lifecycle state of an engine
type Status int

const (
	// StatusReady means the engine is set up and Execute has not been called
	StatusReady Status = iota
	// StatusRunning means instructions are being executed
	StatusRunning
	// StatusHalted means execution terminated normally
	StatusHalted
	// StatusFailed means execution stopped at an exception
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusHalted:
		return "halted"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EngineBuilder collects the settings an engine is created with
type EngineBuilder struct {
	caps     Capabilities
	verifier ecc.Verifier
	stack    *stack.Stack
}

// WithCapabilities starts building an engine accepting the instruction groups in caps
func WithCapabilities(caps Capabilities) *EngineBuilder {
	return &EngineBuilder{
		caps:     caps,
		verifier: ecc.P256{},
	}
}

// WithVerifier replaces the P-256 implementation used by the signature instructions
func (b *EngineBuilder) WithVerifier(v ecc.Verifier) *EngineBuilder {
	b.verifier = v
	return b
}

// WithStack sets the initial data stack
func (b *EngineBuilder) WithStack(st *stack.Stack) *EngineBuilder {
	b.stack = st
	return b
}

// SetupWithLibraries creates an engine running code. A nil ctrls starts with an empty save list, a nil
// gasLimit uses DefaultGasLimit. Library cells are addressed by their hash.
func (b *EngineBuilder) SetupWithLibraries(
	code *cell.Slice,
	ctrls *stack.SaveList,
	libraries []*cell.Cell,
	gasLimit *uint64,
	extraCodePages []*cell.Cell,
) *Engine {
	if ctrls == nil {
		ctrls = stack.NewSaveList()
	} else {
		ctrls = ctrls.Clone()
	}
	// c0 and c1 are continuations by construction, Define cannot fail on them
	_, _ = ctrls.Define(0, stack.NewContinuation(stack.NewQuitContinuation(0)))
	_, _ = ctrls.Define(1, stack.NewContinuation(stack.NewQuitContinuation(1)))

	st := b.stack
	if st == nil {
		st = stack.New()
	}
	limit := DefaultGasLimit
	if gasLimit != nil {
		limit = *gasLimit
	}
	libs := make(map[hash.Hash256]*cell.Cell, len(libraries))
	for _, lib := range libraries {
		libs[lib.Hash()] = lib
	}
	pages := make([]*cell.Cell, len(extraCodePages))
	copy(pages, extraCodePages)
	if code == nil {
		code = cell.Empty().BeginParse()
	}

	return &Engine{
		caps:      b.caps,
		jt:        _instructionSet,
		verifier:  b.verifier,
		cc:        stack.NewOrdinaryContinuation(code.Copy()),
		ctrls:     ctrls,
		stack:     st,
		libraries: libs,
		codePages: pages,
		gasLimit:  limit,
		logger:    log.Logger("vm"),
	}
}

// Engine executes one continuation to completion. It is single-use and must not be shared between
// goroutines; the cells it reads may be.
type Engine struct {
	caps      Capabilities
	jt        *JumpTable
	verifier  ecc.Verifier
	cc        *stack.Continuation
	ctrls     *stack.SaveList
	stack     *stack.Stack
	libraries map[hash.Hash256]*cell.Cell
	codePages []*cell.Cell
	gasLimit  uint64
	gasUsed   uint64
	steps     uint64
	status    Status
	err       error
	exitCode  int
	logger    *zap.Logger
}

// Capabilities returns the capability mask of the engine
func (e *Engine) Capabilities() Capabilities {
	return e.caps
}

// Stack returns the data stack
func (e *Engine) Stack() *stack.Stack {
	return e.stack
}

// Ctrls returns the control registers
func (e *Engine) Ctrls() *stack.SaveList {
	return e.ctrls
}

// Status returns the lifecycle state
func (e *Engine) Status() Status {
	return e.status
}

// Err returns the exception execution failed with
func (e *Engine) Err() error {
	return e.err
}

// ExitCode returns the code of the quit continuation execution ended in
func (e *Engine) ExitCode() int {
	return e.exitCode
}

// Steps returns the number of executed instructions
func (e *Engine) Steps() uint64 {
	return e.steps
}

// GasUsed returns the gas consumed so far
func (e *Engine) GasUsed() uint64 {
	return e.gasUsed
}

// GasLimit returns the gas limit
func (e *Engine) GasLimit() uint64 {
	return e.gasLimit
}

// Library returns the library cell with hash h
func (e *Engine) Library(h hash.Hash256) (*cell.Cell, bool) {
	lib, ok := e.libraries[h]
	return lib, ok
}

// CodePages returns the extra code pages supplied at setup
func (e *Engine) CodePages() []*cell.Cell {
	return e.codePages
}

// Execute runs the code until it quits or an exception is raised. An engine executes once: later calls
// return the exception of the failed run, or a fatal error after a successful one.
func (e *Engine) Execute() error {
	switch e.status {
	case StatusHalted:
		return exception.New(exception.Fatal, "engine already executed")
	case StatusFailed:
		return e.err
	case StatusRunning:
		return exception.New(exception.Fatal, "engine is running")
	}
	e.status = StatusRunning
	e.logger.Debug("execution started",
		zap.Stringer("capabilities", e.caps),
		zap.Uint64("gasLimit", e.gasLimit),
		zap.Int("depth", e.stack.Depth()))

	if err := e.run(); err != nil {
		e.status = StatusFailed
		e.err = err
		code, _ := exception.CodeOf(err)
		_executionMtc.WithLabelValues("failed_" + code.String()).Inc()
		e.logger.Debug("execution failed",
			zap.Uint64("steps", e.steps),
			zap.Uint64("gasUsed", e.gasUsed),
			zap.Error(err))
		return err
	}
	e.status = StatusHalted
	_executionMtc.WithLabelValues("halted").Inc()
	e.logger.Debug("execution halted",
		zap.Int("exitCode", e.exitCode),
		zap.Uint64("steps", e.steps),
		zap.Uint64("gasUsed", e.gasUsed))
	return nil
}

func (e *Engine) run() error {
	for {
		if e.cc.Kind == stack.Quit {
			e.exitCode = e.cc.ExitCode
			return nil
		}
		if e.cc.Code.BitsLeft() == 0 {
			if err := e.ret(); err != nil {
				return err
			}
			continue
		}
		if err := e.step(); err != nil {
			return err
		}
	}
}

// step decodes and runs the next instruction. Every check happens on a copy of the code cursor, so a
// rejected instruction leaves the stack, the registers and the cursor untouched.
func (e *Engine) step() error {
	code := e.cc.Code.Copy()
	ins, err := e.jt.decode(code)
	if err != nil {
		return err
	}
	op := ins.op
	if !e.caps.Has(op.requiredCaps) {
		return exception.Newf(exception.InvalidOpcode, "%s requires capabilities %s, engine has %s",
			op.name, op.requiredCaps, e.caps)
	}
	if err := e.stack.Require(op.minStack(ins)); err != nil {
		return err
	}
	if err := e.useGas(instructionGas(ins)); err != nil {
		return err
	}
	e.cc.Code = code
	e.steps++
	_opcodeMtc.WithLabelValues(op.name).Inc()
	if ce := e.logger.Check(zap.DebugLevel, "execute"); ce != nil {
		ce.Write(zap.Uint64("step", e.steps), zap.Stringer("instruction", ins))
	}
	return op.execute(e, ins)
}

// jump switches to cont, installing the registers it saved
func (e *Engine) jump(cont *stack.Continuation) {
	next := cont.Copy()
	e.ctrls.Restore(next.Ctrls)
	next.Ctrls = stack.NewSaveList()
	e.cc = next
}

// call runs cont with c0 set to the remainder of the current continuation. The return continuation saves
// the current c0, which is restored by the RET leaving cont.
func (e *Engine) call(cont *stack.Continuation) error {
	ret := stack.NewOrdinaryContinuation(e.cc.Code)
	if c0, ok := e.ctrls.Get(0); ok {
		if err := ret.Ctrls.Put(0, c0); err != nil {
			return err
		}
	}
	if err := e.ctrls.Put(0, stack.NewContinuation(ret)); err != nil {
		return err
	}
	e.jump(cont)
	return nil
}

// ret jumps to c0, resetting c0 to the normal quit continuation first
func (e *Engine) ret() error {
	it, ok := e.ctrls.Get(0)
	if !ok {
		return exception.New(exception.TypeCheck, "c0 is not set")
	}
	cont, err := stack.AsContinuation(it)
	if err != nil {
		return err
	}
	if err := e.ctrls.Put(0, stack.NewContinuation(stack.NewQuitContinuation(0))); err != nil {
		return err
	}
	e.jump(cont)
	return nil
}
