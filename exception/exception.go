// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package exception

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode identifies a kind of vm exception.
type ErrorCode int

// These constants are used to identify a specific Exception. The numeric values are kept
// stable since they are surfaced as exit codes.
const (
	// Internal is returned if internal consistency checks fail.
	Internal ErrorCode = 0
	// StackUnderflow means an operation requires more operands than are present.
	StackUnderflow ErrorCode = 2
	// StackOverflow means the stack depth limit is exceeded.
	StackOverflow ErrorCode = 3
	// IntegerOverflow means an integer does not fit in 257 bits.
	IntegerOverflow ErrorCode = 4
	// RangeCheck means a value or an index is out of the accepted range.
	RangeCheck ErrorCode = 5
	// InvalidOpcode means an opcode is unknown or not enabled by capabilities.
	InvalidOpcode ErrorCode = 6
	// TypeCheck means an operand has an unexpected variant.
	TypeCheck ErrorCode = 7
	// CellOverflow means a builder cannot hold more bits or references.
	CellOverflow ErrorCode = 8
	// CellUnderflow means a slice read exceeds the remaining data.
	CellUnderflow ErrorCode = 9
	// OutOfGas means the gas limit is exhausted.
	OutOfGas ErrorCode = 13
	// Fatal is returned for engine misuse.
	Fatal ErrorCode = 14
	// InvalidSignatureLength means a signature slice has a wrong bit length.
	InvalidSignatureLength ErrorCode = 32
	// InvalidPublicKey means a public key does not decode to a curve point.
	InvalidPublicKey ErrorCode = 33
)

var _codeNames = map[ErrorCode]string{
	Internal:               "internal error",
	StackUnderflow:         "stack underflow",
	StackOverflow:          "stack overflow",
	IntegerOverflow:        "integer overflow",
	RangeCheck:             "range check error",
	InvalidOpcode:          "invalid opcode",
	TypeCheck:              "type check error",
	CellOverflow:           "cell overflow",
	CellUnderflow:          "cell underflow",
	OutOfGas:               "out of gas",
	Fatal:                  "fatal error",
	InvalidSignatureLength: "Invalid signature length",
	InvalidPublicKey:       "invalid public key",
}

func (c ErrorCode) String() string {
	if name, ok := _codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("unknown exception %d", int(c))
}

// Exception defines the struct of a vm exception
type Exception struct {
	Code ErrorCode
	Desc string
}

func (e *Exception) Error() string {
	if e.Desc == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Desc
}

// Is reports whether target is an exception with the same code, so that
// errors.Is(err, exception.New(exception.CellUnderflow, "")) works on wrapped errors.
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates an exception with the given code and description
func New(c ErrorCode, desc string) *Exception {
	return &Exception{Code: c, Desc: desc}
}

// Newf creates an exception with a formatted description
func Newf(c ErrorCode, format string, args ...interface{}) *Exception {
	return &Exception{Code: c, Desc: fmt.Sprintf(format, args...)}
}

// TypeMismatch creates a type check exception naming the expected and the found variant
func TypeMismatch(expected, found string) *Exception {
	return Newf(TypeCheck, "item is not %s (found %s)", withArticle(expected), found)
}

// CodeOf extracts the exception code from err. ok is false if err does not carry an exception.
func CodeOf(err error) (code ErrorCode, ok bool) {
	var e *Exception
	if errors.As(err, &e) {
		return e.Code, true
	}
	return Internal, false
}

// HasCode reports whether err carries an exception with code c
func HasCode(err error, c ErrorCode) bool {
	code, ok := CodeOf(err)
	return ok && code == c
}

func withArticle(noun string) string {
	if noun == "" {
		return noun
	}
	switch noun[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an " + noun
	}
	return "a " + noun
}
