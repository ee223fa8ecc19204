// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"crypto/ecdsa"
	"crypto/sha256"

	"github.com/holiman/uint256"

	"github.com/iotexproject/iotex-cellvm/ecc"
	"github.com/iotexproject/iotex-cellvm/exception"
	"github.com/iotexproject/iotex-cellvm/stack"
)

// signatureBits is the length of a raw r||s P-256 signature
const signatureBits = ecc.SignatureLength * 8

// compressedEvenPrefix is the SEC1 prefix of a compressed point with even Y
const compressedEvenPrefix = 0x02

func hashToInteger(h [32]byte) (*stack.Integer, error) {
	return stack.NewInteger(new(uint256.Int).SetBytes32(h[:]).ToBig())
}

func opHashCU(e *Engine, _ *instruction) error {
	it, err := e.stack.Get(0)
	if err != nil {
		return err
	}
	c, err := stack.AsCell(it)
	if err != nil {
		return err
	}
	x, err := hashToInteger(c.Hash())
	if err != nil {
		return err
	}
	return e.replaceTop(x)
}

func opHashSU(e *Engine, _ *instruction) error {
	s, err := e.topSlice()
	if err != nil {
		return err
	}
	x, err := hashToInteger(s.ToCell().Hash())
	if err != nil {
		return err
	}
	return e.replaceTop(x)
}

func opSha256U(e *Engine, _ *instruction) error {
	s, err := e.topSlice()
	if err != nil {
		return err
	}
	data, err := wholeBytes(s.BitsLeft(), s.LoadBytes)
	if err != nil {
		return err
	}
	x, err := hashToInteger(sha256.Sum256(data))
	if err != nil {
		return err
	}
	return e.replaceTop(x)
}

// wholeBytes loads every remaining bit as bytes. A trailing partial byte reads past the end of the data
// and fails with a cell underflow.
func wholeBytes(bits int, load func(n int) ([]byte, error)) ([]byte, error) {
	return load((bits + 7) / 8)
}

// signatureCheck is a fully validated signature instruction, ready to be verified
type signatureCheck struct {
	r, s []byte
	pub  *ecdsa.PublicKey
	msg  []byte
}

// messageFunc validates the message operand and returns the bytes to verify
type messageFunc func(it stack.Item) ([]byte, error)

// checkSignatureArgs validates the operands of a signature instruction: the signature on top, the public
// key below it and the message below the key. Nothing is popped, so a failed check leaves the stack as it
// was. c7 must hold a non-empty parameter tuple. Failures are reported in a fixed order: parameters,
// types, signature length, public key, message.
func (e *Engine) checkSignatureArgs(msgKind stack.Kind, message messageFunc) (*signatureCheck, error) {
	if _, err := e.ctrls.Param(0); err != nil {
		return nil, err
	}
	sigIt, err := e.stack.Get(0)
	if err != nil {
		return nil, err
	}
	keyIt, err := e.stack.Get(1)
	if err != nil {
		return nil, err
	}
	msgIt, err := e.stack.Get(2)
	if err != nil {
		return nil, err
	}

	sig, err := stack.AsSlice(sigIt)
	if err != nil {
		return nil, err
	}
	if k := keyIt.Kind(); k != stack.KindSlice && k != stack.KindInteger {
		return nil, exception.TypeMismatch("slice or integer", k.String())
	}
	if k := msgIt.Kind(); k != msgKind {
		return nil, exception.TypeMismatch(msgKind.String(), k.String())
	}

	if sig.BitsLeft() != signatureBits {
		return nil, exception.Newf(exception.InvalidSignatureLength, "expected %d bits, got %d",
			signatureBits, sig.BitsLeft())
	}
	raw, err := sig.LoadBytes(ecc.SignatureLength)
	if err != nil {
		return nil, err
	}
	r, s, err := ecc.SplitSignature(raw)
	if err != nil {
		return nil, exception.New(exception.InvalidSignatureLength, err.Error())
	}

	pub, err := e.decodePublicKey(keyIt)
	if err != nil {
		return nil, err
	}

	msg, err := message(msgIt)
	if err != nil {
		return nil, err
	}
	return &signatureCheck{r: r, s: s, pub: pub, msg: msg}, nil
}

// decodePublicKey decodes a slice holding a SEC1 point, or an integer holding the X coordinate of the
// point with even Y
func (e *Engine) decodePublicKey(it stack.Item) (*ecdsa.PublicKey, error) {
	var encoded []byte
	switch key := it.(type) {
	case *stack.SliceItem:
		s, err := stack.AsSlice(key)
		if err != nil {
			return nil, err
		}
		if s.BitsLeft()%8 != 0 {
			return nil, exception.Newf(exception.InvalidPublicKey,
				"cannot decode public key into EcPoint: %d bits is not a whole number of bytes", s.BitsLeft())
		}
		if encoded, err = s.LoadBytes(s.BitsLeft() / 8); err != nil {
			return nil, err
		}
	default:
		v, err := stack.AsInteger(key)
		if err != nil {
			return nil, err
		}
		x, overflow := uint256.FromBig(v)
		if v.Sign() < 0 || overflow {
			return nil, exception.New(exception.InvalidPublicKey,
				"cannot decode public key into EcPoint: integer key out of range")
		}
		b := x.Bytes32()
		encoded = append([]byte{compressedEvenPrefix}, b[:]...)
	}
	pub, err := e.verifier.DecodePoint(encoded)
	if err != nil {
		return nil, exception.Newf(exception.InvalidPublicKey, "cannot decode public key into EcPoint: %v", err)
	}
	return pub, nil
}

func sliceMessage(it stack.Item) ([]byte, error) {
	s, err := stack.AsSlice(it)
	if err != nil {
		return nil, err
	}
	return wholeBytes(s.BitsLeft(), s.LoadBytes)
}

func integerMessage(it stack.Item) ([]byte, error) {
	v, err := stack.AsInteger(it)
	if err != nil {
		return nil, err
	}
	if v.Sign() < 0 || v.BitLen() > 256 {
		return nil, exception.Newf(exception.RangeCheck, "message hash %s is not a 256-bit unsigned integer", v)
	}
	x, _ := uint256.FromBig(v)
	b := x.Bytes32()
	return b[:], nil
}

func (e *Engine) checkSignature(msgKind stack.Kind, message messageFunc) error {
	check, err := e.checkSignatureArgs(msgKind, message)
	if err != nil {
		return err
	}
	if err := e.stack.Drop(3); err != nil {
		return err
	}
	ok := _skipSignatureCheck || e.verifier.Verify(check.pub, check.msg, check.r, check.s)
	return e.stack.Push(stack.Bool(ok))
}

// opP256ChkSignS checks a P-256 signature over the data bits of a slice
func opP256ChkSignS(e *Engine, _ *instruction) error {
	return e.checkSignature(stack.KindSlice, sliceMessage)
}

// opP256ChkSignU checks a P-256 signature over a 256-bit hash given as an integer
func opP256ChkSignU(e *Engine, _ *instruction) error {
	return e.checkSignature(stack.KindInteger, integerMessage)
}
