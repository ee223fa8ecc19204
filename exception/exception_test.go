// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package exception

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestException(t *testing.T) {
	require := require.New(t)

	e := New(CellUnderflow, "")
	require.Equal("cell underflow", e.Error())

	e = Newf(RangeCheck, "register index %d", 16)
	require.Equal("range check error: register index 16", e.Error())

	require.Contains(TypeMismatch("slice", "integer").Error(), "is not a slice")
	require.Contains(TypeMismatch("integer", "slice").Error(), "item is not an integer")
	require.Equal("unknown exception 99", ErrorCode(99).String())
}

func TestCodeOf(t *testing.T) {
	require := require.New(t)

	err := errors.Wrap(New(InvalidPublicKey, "cannot decode public key into EcPoint"), "P256_CHKSIGNS")
	code, ok := CodeOf(err)
	require.True(ok)
	require.Equal(InvalidPublicKey, code)
	require.True(HasCode(err, InvalidPublicKey))
	require.False(HasCode(err, TypeCheck))
	require.True(errors.Is(err, New(InvalidPublicKey, "")))
	require.False(errors.Is(err, New(CellUnderflow, "")))
	require.Contains(err.Error(), "cannot decode public key into EcPoint")

	_, ok = CodeOf(errors.New("plain"))
	require.False(ok)
}
