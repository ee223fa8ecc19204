// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cell

import (
	"strings"

	"github.com/pkg/errors"
)

const _hexDigits = "0123456789ABCDEF"

// FormatBits renders n bits of data starting at offset in fift hex notation, e.g. x{A5_}. A bit string
// whose length is not a multiple of four is padded with a completion tag and marked with '_'.
func FormatBits(data []byte, offset, n int) string {
	var sb strings.Builder
	sb.WriteString("x{")
	full := n / 4 * 4
	for i := 0; i < full; i += 4 {
		var nibble byte
		for j := 0; j < 4; j++ {
			nibble <<= 1
			if bitAt(data, offset+i+j) {
				nibble |= 1
			}
		}
		sb.WriteByte(_hexDigits[nibble])
	}
	if rem := n - full; rem > 0 {
		var nibble byte
		for j := 0; j < 4; j++ {
			nibble <<= 1
			switch {
			case j < rem && bitAt(data, offset+full+j):
				nibble |= 1
			case j == rem:
				nibble |= 1
			}
		}
		sb.WriteByte(_hexDigits[nibble])
		sb.WriteByte('_')
	}
	sb.WriteByte('}')
	return sb.String()
}

// ParseBits parses a bit string written as x{hex} (with an optional trailing '_' completion tag) or
// b{binary}. It returns the packed bits and their count.
func ParseBits(s string) ([]byte, int, error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || s[1] != '{' || s[len(s)-1] != '}' {
		return nil, 0, errors.Errorf("malformed bit string %q", s)
	}
	body := s[2 : len(s)-1]
	b := NewBuilder()
	switch s[0] {
	case 'x':
		tagged := strings.HasSuffix(body, "_")
		body = strings.TrimSuffix(body, "_")
		for _, r := range body {
			idx := strings.IndexRune(_hexDigits, toUpper(r))
			if idx < 0 {
				return nil, 0, errors.Errorf("invalid hex digit %q in %q", r, s)
			}
			if err := b.StoreUint(uint64(idx), 4); err != nil {
				return nil, 0, errors.Wrapf(err, "bit string %q is too long", s)
			}
		}
		if tagged {
			sl := b.EndCell().BeginParse()
			sl.RemoveTrailing()
			data, err := sl.LoadBits(sl.BitsLeft())
			return data, sl.bitEnd, err
		}
	case 'b':
		for _, r := range body {
			if r != '0' && r != '1' {
				return nil, 0, errors.Errorf("invalid binary digit %q in %q", r, s)
			}
			if err := b.StoreBit(r == '1'); err != nil {
				return nil, 0, errors.Wrapf(err, "bit string %q is too long", s)
			}
		}
	default:
		return nil, 0, errors.Errorf("unknown bit string prefix %q", s[0])
	}
	return b.data, b.bitLen, nil
}

// ParseSlice parses a fift bit string into a slice over a fresh cell
func ParseSlice(s string) (*Slice, error) {
	data, n, err := ParseBits(s)
	if err != nil {
		return nil, err
	}
	b := NewBuilder()
	if err := b.StoreBits(data, n); err != nil {
		return nil, err
	}
	return b.EndCell().BeginParse(), nil
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'f' {
		return r - 'a' + 'A'
	}
	return r
}
