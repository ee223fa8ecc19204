// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iotexproject/iotex-cellvm/ecc"
	"github.com/iotexproject/iotex-cellvm/exception"
	"github.com/iotexproject/iotex-cellvm/stack"
	"github.com/iotexproject/iotex-cellvm/test/mock/mock_ecc"
)

func genKey(t *testing.T) (*ecdsa.PrivateKey, []byte) {
	priv, err := ecc.GenerateKey()
	require.NoError(t, err)
	return priv, ecc.MarshalCompressed(&priv.PublicKey)
}

// genEvenKey returns a key whose point has an even Y, so its X coordinate alone encodes it
func genEvenKey(t *testing.T) *ecdsa.PrivateKey {
	for {
		priv, pub := genKey(t)
		if pub[0] == 0x02 {
			return priv
		}
	}
}

func sign(t *testing.T, priv *ecdsa.PrivateKey, msg []byte) []byte {
	sig, err := ecc.Sign(priv, msg)
	require.NoError(t, err)
	return sig
}

// invalidKey is a compressed encoding whose X coordinate exceeds the field prime
func invalidKey() []byte {
	return append([]byte{0x02}, bytes.Repeat([]byte{0xFF}, 32)...)
}

func chkSignSProgram(t *testing.T, msg []byte, priv *ecdsa.PrivateKey, pub []byte) string {
	return fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS",
		fift(msg), fift(pub), fift(sign(t, priv, msg)))
}

func TestP256ChkSignS(t *testing.T) {
	priv, pub := genKey(t)
	_, otherPub := genKey(t)
	msg := []byte("cell vm signature over a slice")
	sig := sign(t, priv, msg)
	uncompressed := elliptic.Marshal(elliptic.P256(), priv.PublicKey.X, priv.PublicKey.Y)

	tests := []struct {
		name    string
		program string
		result  bool
		code    exception.ErrorCode
		errMsg  string
	}{
		{
			name:    "valid signature",
			program: chkSignSProgram(t, msg, priv, pub),
			result:  true,
		},
		{
			name:    "valid signature with uncompressed key",
			program: fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s PUSHREFSLICE %s CHKSIGNS", fift(msg), fift(uncompressed), fift(sig)),
			result:  true,
		},
		{
			name:    "empty message",
			program: chkSignSProgram(t, nil, priv, pub),
			result:  true,
		},
		{
			name:    "wrong public key",
			program: fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS", fift(msg), fift(otherPub), fift(sig)),
			result:  false,
		},
		{
			name:    "wrong message",
			program: fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS", fift([]byte("another")), fift(pub), fift(sig)),
			result:  false,
		},
		{
			name:    "invalid public key",
			program: fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS", fift(msg), fift(invalidKey()), fift(sig)),
			code:    exception.InvalidPublicKey,
			errMsg:  "cannot decode public key into EcPoint",
		},
		{
			name:    "negative integer public key",
			program: fmt.Sprintf("PUSHREFSLICE %s PUSHINT -1 PUSHREFSLICE %s P256_CHKSIGNS", fift(msg), fift(sig)),
			code:    exception.InvalidPublicKey,
			errMsg:  "cannot decode public key into EcPoint",
		},
		{
			name:    "signature of 66 bytes",
			program: fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS", fift(msg), fift(pub), fift(append(sig, 0, 0))),
			code:    exception.InvalidSignatureLength,
			errMsg:  "Invalid signature length",
		},
		{
			name:    "signature length is checked before the key",
			program: fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS", fift(msg), fift(invalidKey()), fift(sig[:63])),
			code:    exception.InvalidSignatureLength,
			errMsg:  "Invalid signature length",
		},
		{
			name: "signature underflow",
			// the signature is cut from a slice shorter than requested
			program: fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s PUSHREFSLICE %s LDSLICE 256", fift(msg), fift(pub), fift(sig[:30])),
			code:    exception.CellUnderflow,
			errMsg:  "cell underflow",
		},
		{
			name:    "message is not whole bytes",
			program: fmt.Sprintf("PUSHSLICE x{ABC} PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS", fift(pub), fift(sig)),
			code:    exception.CellUnderflow,
			errMsg:  "cell underflow",
		},
		{
			name:    "message is an integer",
			program: fmt.Sprintf("PUSHINT 7 PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS", fift(pub), fift(sig)),
			code:    exception.TypeCheck,
			errMsg:  "is not a slice",
		},
		{
			name:    "message type is checked before the public key",
			program: fmt.Sprintf("PUSHINT 7 PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS", fift(invalidKey()), fift(sig)),
			code:    exception.TypeCheck,
			errMsg:  "is not a slice",
		},
		{
			name:    "signature is an integer",
			program: fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s PUSHINT 7 P256_CHKSIGNS", fift(msg), fift(pub)),
			code:    exception.TypeCheck,
			errMsg:  "is not a slice",
		},
		{
			name:    "public key is a cell",
			program: fmt.Sprintf("PUSHREFSLICE %s PUSHREF %s PUSHREFSLICE %s P256_CHKSIGNS", fift(msg), fift(pub), fift(sig)),
			code:    exception.TypeCheck,
			errMsg:  "is not a slice or integer",
		},
		{
			name:    "missing operand",
			program: fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS", fift(pub), fift(sig)),
			code:    exception.StackUnderflow,
			errMsg:  "stack underflow",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			e := newTestEngine(t, DefaultCapabilities, tt.program)
			e.DumpCtrls(false)
			err := e.Execute()
			if tt.errMsg != "" {
				require.Error(err)
				require.True(exception.HasCode(err, tt.code), err)
				require.Contains(err.Error(), tt.errMsg)
				return
			}
			require.NoError(err)
			require.Equal(1, e.Stack().Depth())
			if !tt.result && _skipSignatureCheck {
				t.Skip("signatures are not verified in this build")
			}
			require.Equal(tt.result, topBool(t, e))
		})
	}
}

func TestP256ChkSignU(t *testing.T) {
	priv := genEvenKey(t)
	pub := ecc.MarshalCompressed(&priv.PublicKey)
	_, otherPub := genKey(t)
	digest := sha256.Sum256([]byte("cell vm signature over a hash"))
	hash := new(big.Int).SetBytes(digest[:])
	sig := sign(t, priv, digest[:])

	tests := []struct {
		name    string
		program string
		result  bool
		code    exception.ErrorCode
		errMsg  string
	}{
		{
			name:    "valid signature",
			program: fmt.Sprintf("PUSHINT %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNU", hash, fift(pub), fift(sig)),
			result:  true,
		},
		{
			name:    "integer public key",
			program: fmt.Sprintf("PUSHINT %s PUSHINT %s PUSHREFSLICE %s CHKSIGNU", hash, priv.PublicKey.X, fift(sig)),
			result:  true,
		},
		{
			name:    "wrong public key",
			program: fmt.Sprintf("PUSHINT %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNU", hash, fift(otherPub), fift(sig)),
			result:  false,
		},
		{
			name:    "wrong hash",
			program: fmt.Sprintf("PUSHINT 12345 PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNU", fift(pub), fift(sig)),
			result:  false,
		},
		{
			name:    "invalid public key",
			program: fmt.Sprintf("PUSHINT %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNU", hash, fift(invalidKey()), fift(sig)),
			code:    exception.InvalidPublicKey,
			errMsg:  "cannot decode public key into EcPoint",
		},
		{
			name:    "public key of a partial byte",
			program: fmt.Sprintf("PUSHINT %s PUSHSLICE x{ABC} PUSHREFSLICE %s P256_CHKSIGNU", hash, fift(sig)),
			code:    exception.InvalidPublicKey,
			errMsg:  "cannot decode public key into EcPoint",
		},
		{
			name:    "signature of 66 bytes",
			program: fmt.Sprintf("PUSHINT %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNU", hash, fift(pub), fift(append(sig, 0, 0))),
			code:    exception.InvalidSignatureLength,
			errMsg:  "Invalid signature length",
		},
		{
			name:    "signature underflow",
			program: fmt.Sprintf("PUSHINT %s PUSHREFSLICE %s PUSHREFSLICE %s LDSLICE 256", hash, fift(pub), fift(sig[:16])),
			code:    exception.CellUnderflow,
			errMsg:  "cell underflow",
		},
		{
			name:    "message is a slice",
			program: fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNU", fift(digest[:]), fift(pub), fift(sig)),
			code:    exception.TypeCheck,
			errMsg:  "item is not an integer",
		},
		{
			name:    "negative hash",
			program: fmt.Sprintf("PUSHINT -1 PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNU", fift(pub), fift(sig)),
			code:    exception.RangeCheck,
			errMsg:  "range check error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			e := newTestEngine(t, DefaultCapabilities, tt.program)
			e.DumpCtrls(true)
			err := e.Execute()
			if tt.errMsg != "" {
				require.Error(err)
				require.True(exception.HasCode(err, tt.code), err)
				require.Contains(err.Error(), tt.errMsg)
				// no operand is consumed by a rejected check
				require.Equal(3, e.Stack().Depth())
				return
			}
			require.NoError(err)
			require.Equal(1, e.Stack().Depth())
			if !tt.result && _skipSignatureCheck {
				t.Skip("signatures are not verified in this build")
			}
			require.Equal(tt.result, topBool(t, e))
		})
	}
}

func TestChkSignWithVerifier(t *testing.T) {
	if _skipSignatureCheck {
		t.Skip("signatures are not verified in this build")
	}
	require := require.New(t)
	ctrl := gomock.NewController(t)

	priv, pub := genKey(t)
	msg := []byte("mocked")
	sig := sign(t, priv, msg)
	v := mock_ecc.NewMockVerifier(ctrl)
	v.EXPECT().DecodePoint(pub).Return(&priv.PublicKey, nil).Times(1)
	v.EXPECT().Verify(&priv.PublicKey, msg, sig[:32], sig[32:]).Return(true).Times(1)

	code := mustAssemble(t, fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS", fift(msg), fift(pub), fift(sig)))
	e := WithCapabilities(DefaultCapabilities).WithVerifier(v).SetupWithLibraries(code.BeginParse(), testCtrls(t), nil, nil, nil)
	require.NoError(e.Execute())
	require.True(topBool(t, e))

	// a malformed signature never reaches the verifier
	code = mustAssemble(t, fmt.Sprintf("PUSHREFSLICE %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS", fift(msg), fift(pub), fift(sig[:10])))
	e = WithCapabilities(DefaultCapabilities).WithVerifier(v).SetupWithLibraries(code.BeginParse(), testCtrls(t), nil, nil, nil)
	require.True(exception.HasCode(e.Execute(), exception.InvalidSignatureLength))

	// neither does a message of the wrong type
	code = mustAssemble(t, fmt.Sprintf("PUSHINT 1 PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNS", fift(pub), fift(sig)))
	e = WithCapabilities(DefaultCapabilities).WithVerifier(v).SetupWithLibraries(code.BeginParse(), testCtrls(t), nil, nil, nil)
	require.True(exception.HasCode(e.Execute(), exception.TypeCheck))
}

func TestChkSignParams(t *testing.T) {
	priv := genEvenKey(t)
	pub := ecc.MarshalCompressed(&priv.PublicKey)
	msg := []byte("signature checks read c7")
	digest := sha256.Sum256(msg)
	programs := map[string]string{
		"P256_CHKSIGNS": chkSignSProgram(t, msg, priv, pub),
		"P256_CHKSIGNU": fmt.Sprintf("PUSHINT %s PUSHREFSLICE %s PUSHREFSLICE %s P256_CHKSIGNU",
			new(big.Int).SetBytes(digest[:]), fift(pub), fift(sign(t, priv, digest[:]))),
	}
	ctrls := []struct {
		name   string
		params stack.Item
		errMsg string
	}{
		{"c7 unset", nil, "c7 is not set"},
		{"c7 empty", stack.NewTuple(), "c7 is an empty tuple"},
		{"c7 without parameter tuple", stack.NewTuple(stack.Int(1)), "is not a tuple"},
	}
	for op, program := range programs {
		for _, c := range ctrls {
			t.Run(op+" "+c.name, func(t *testing.T) {
				require := require.New(t)
				saved := stack.NewSaveList()
				if c.params != nil {
					require.NoError(saved.Put(stack.ParamsRegister, c.params))
				}
				code := mustAssemble(t, program)
				e := WithCapabilities(DefaultCapabilities).SetupWithLibraries(code.BeginParse(), saved, nil, nil, nil)
				err := e.Execute()
				require.Error(err)
				require.True(exception.HasCode(err, exception.TypeCheck), err)
				require.Contains(err.Error(), c.errMsg)
				require.Equal(3, e.Stack().Depth())
			})
		}
	}

	// a valid parameter tuple lets the same programs run
	for _, program := range programs {
		e := newTestEngine(t, DefaultCapabilities, program)
		require.NoError(t, e.Execute())
		require.True(t, topBool(t, e))
	}
}
