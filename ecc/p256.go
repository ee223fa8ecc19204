// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package ecc

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"math/big"

	"github.com/pkg/errors"
)

const (
	// CompressedKeyLength is the length of a SEC1 compressed P-256 point
	CompressedKeyLength = 33
	// UncompressedKeyLength is the length of a SEC1 uncompressed P-256 point
	UncompressedKeyLength = 65
	// SignatureLength is the length of a raw r||s signature
	SignatureLength = 64
	// PrivateKeyLength is the length of a private key scalar
	PrivateKeyLength = 32
)

var (
	// ErrInvalidPoint indicates the encoded bytes are not a point on the curve
	ErrInvalidPoint = errors.New("invalid curve point")
	// ErrInvalidPrivateKey indicates a private key scalar that is not in [1, n)
	ErrInvalidPrivateKey = errors.New("invalid private key")
	// ErrInvalidSignature indicates a signature of a wrong length
	ErrInvalidSignature = errors.New("invalid signature")
)

// Verifier is the elliptic-curve capability consumed by the signature opcodes
type Verifier interface {
	// DecodePoint decodes an encoded public key into a curve point
	DecodePoint([]byte) (*ecdsa.PublicKey, error)
	// Verify checks the signature (r, s) of msg against pub
	Verify(pub *ecdsa.PublicKey, msg []byte, r, s []byte) bool
}

// P256 implements Verifier over NIST P-256 with SHA-256 message digests
type P256 struct{}

var _ Verifier = P256{}

// DecodePoint accepts SEC1 compressed and uncompressed encodings
func (P256) DecodePoint(b []byte) (*ecdsa.PublicKey, error) {
	curve := elliptic.P256()
	var x, y *big.Int
	switch len(b) {
	case CompressedKeyLength:
		x, y = elliptic.UnmarshalCompressed(curve, b)
	case UncompressedKeyLength:
		x, y = elliptic.Unmarshal(curve, b)
	default:
		return nil, errors.Wrapf(ErrInvalidPoint, "unexpected encoding length %d", len(b))
	}
	if x == nil {
		return nil, errors.Wrapf(ErrInvalidPoint, "%x is not on the curve", b)
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

// Verify hashes msg with SHA-256 and checks the signature
func (P256) Verify(pub *ecdsa.PublicKey, msg []byte, r, s []byte) bool {
	if pub == nil {
		return false
	}
	digest := sha256.Sum256(msg)
	return ecdsa.Verify(pub, digest[:], new(big.Int).SetBytes(r), new(big.Int).SetBytes(s))
}

// GenerateKey creates a random P-256 key pair
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// Sign signs the SHA-256 digest of msg and returns the 64-byte r||s encoding
func Sign(priv *ecdsa.PrivateKey, msg []byte) ([]byte, error) {
	digest := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign message")
	}
	sig := make([]byte, SignatureLength)
	r.FillBytes(sig[:SignatureLength/2])
	s.FillBytes(sig[SignatureLength/2:])
	return sig, nil
}

// SplitSignature splits a 64-byte signature into its r and s halves
func SplitSignature(sig []byte) (r, s []byte, err error) {
	if len(sig) != SignatureLength {
		return nil, nil, errors.Wrapf(ErrInvalidSignature, "length %d", len(sig))
	}
	return sig[:SignatureLength/2], sig[SignatureLength/2:], nil
}

// MarshalCompressed encodes a public key as a SEC1 compressed point
func MarshalCompressed(pub *ecdsa.PublicKey) []byte {
	return elliptic.MarshalCompressed(pub.Curve, pub.X, pub.Y)
}

// PrivateKeyBytes returns the 32-byte big-endian scalar of a private key
func PrivateKeyBytes(priv *ecdsa.PrivateKey) []byte {
	return priv.D.FillBytes(make([]byte, PrivateKeyLength))
}

// BytesToPrivateKey decodes a 32-byte big-endian scalar into a private key
func BytesToPrivateKey(b []byte) (*ecdsa.PrivateKey, error) {
	if len(b) != PrivateKeyLength {
		return nil, errors.Wrapf(ErrInvalidPrivateKey, "length %d", len(b))
	}
	curve := elliptic.P256()
	d := new(big.Int).SetBytes(b)
	if d.Sign() == 0 || d.Cmp(curve.Params().N) >= 0 {
		return nil, errors.Wrap(ErrInvalidPrivateKey, "scalar out of range")
	}
	priv := &ecdsa.PrivateKey{D: d}
	priv.PublicKey.Curve = curve
	priv.PublicKey.X, priv.PublicKey.Y = curve.ScalarBaseMult(b)
	return priv, nil
}
