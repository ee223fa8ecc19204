// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vm

import (
	"fmt"
	"strings"
)

// Capabilities is the bit mask of extended instruction groups an engine accepts
type Capabilities uint64

// Capability bits
const (
	// CapHashOps enables HASHCU, HASHSU and SHA256U
	CapHashOps Capabilities = 0x2
	// CapP256Signatures enables P256_CHKSIGNU and P256_CHKSIGNS
	CapP256Signatures Capabilities = 0x4
	// CapConfigParams enables GETPARAM
	CapConfigParams Capabilities = 0x8
	// CapTupleOps enables TUPLE, INDEX and TLEN
	CapTupleOps Capabilities = 0x20

	// DefaultCapabilities is the mask used by networks running the full instruction set
	DefaultCapabilities Capabilities = 0x572e
)

var _capNames = []struct {
	c    Capabilities
	name string
}{
	{CapHashOps, "hash"},
	{CapP256Signatures, "p256"},
	{CapConfigParams, "params"},
	{CapTupleOps, "tuple"},
}

// Has reports whether every bit of required is set
func (c Capabilities) Has(required Capabilities) bool {
	return c&required == required
}

func (c Capabilities) String() string {
	var names []string
	for _, n := range _capNames {
		if c.Has(n.c) {
			names = append(names, n.name)
		}
	}
	return fmt.Sprintf("0x%x[%s]", uint64(c), strings.Join(names, ","))
}
