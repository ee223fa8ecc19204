// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package stack

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/iotexproject/iotex-cellvm/cell"
	"github.com/iotexproject/iotex-cellvm/exception"
)

// Kind is the variant tag of a stack item
type Kind int

// Item variants
const (
	KindNull Kind = iota
	KindInteger
	KindCell
	KindSlice
	KindBuilder
	KindContinuation
	KindTuple
)

// IntegerBits is the width of vm integers including the sign bit
const IntegerBits = 257

var (
	_maxInteger = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), IntegerBits-1), big.NewInt(1))
	_minInteger = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), IntegerBits-1))

	_kindNames = [...]string{
		KindNull:         "null",
		KindInteger:      "integer",
		KindCell:         "cell",
		KindSlice:        "slice",
		KindBuilder:      "builder",
		KindContinuation: "continuation",
		KindTuple:        "tuple",
	}
)

func (k Kind) String() string {
	if int(k) < len(_kindNames) {
		return _kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type (
	// Item is a value on the data stack or in a control register. The set of variants is closed.
	Item interface {
		Kind() Kind
		String() string
		sealed()
	}

	// Null is the absent value
	Null struct{}

	// Integer is a signed integer of at most IntegerBits bits
	Integer struct {
		v *big.Int
	}

	// CellItem wraps a shared immutable cell
	CellItem struct {
		c *cell.Cell
	}

	// SliceItem wraps a slice. The wrapped cursor is never advanced; readers receive a copy.
	SliceItem struct {
		s *cell.Slice
	}

	// BuilderItem wraps a builder. Readers receive a copy, so stores never leak into other stack entries.
	BuilderItem struct {
		b *cell.Builder
	}

	// ContinuationItem wraps a continuation
	ContinuationItem struct {
		c *Continuation
	}

	// Tuple is an ordered sequence of independently typed items
	Tuple struct {
		items []Item
	}
)

var (
	_ Item = Null{}
	_ Item = (*Integer)(nil)
	_ Item = (*CellItem)(nil)
	_ Item = (*SliceItem)(nil)
	_ Item = (*BuilderItem)(nil)
	_ Item = (*ContinuationItem)(nil)
	_ Item = (*Tuple)(nil)
)

// NewInteger creates an integer item, failing with an integer overflow if v exceeds IntegerBits bits
func NewInteger(v *big.Int) (*Integer, error) {
	if v.Cmp(_maxInteger) > 0 || v.Cmp(_minInteger) < 0 {
		return nil, exception.New(exception.IntegerOverflow, "integer does not fit in 257 bits")
	}
	return &Integer{v: new(big.Int).Set(v)}, nil
}

// Int creates an integer item from an int64
func Int(v int64) *Integer {
	return &Integer{v: big.NewInt(v)}
}

// Uint creates an integer item from a uint64
func Uint(v uint64) *Integer {
	return &Integer{v: new(big.Int).SetUint64(v)}
}

// Bool creates the canonical boolean integer: -1 for true, 0 for false
func Bool(b bool) *Integer {
	if b {
		return Int(-1)
	}
	return Int(0)
}

// NewCell wraps a cell
func NewCell(c *cell.Cell) *CellItem {
	return &CellItem{c: c}
}

// NewSlice wraps a copy of s
func NewSlice(s *cell.Slice) *SliceItem {
	return &SliceItem{s: s.Copy()}
}

// NewBuilder wraps a copy of b
func NewBuilder(b *cell.Builder) *BuilderItem {
	return &BuilderItem{b: b.Copy()}
}

// NewContinuation wraps a continuation
func NewContinuation(c *Continuation) *ContinuationItem {
	return &ContinuationItem{c: c}
}

// NewTuple creates a tuple of the given items
func NewTuple(items ...Item) *Tuple {
	t := &Tuple{items: make([]Item, len(items))}
	for i, it := range items {
		if it == nil {
			it = Null{}
		}
		t.items[i] = it
	}
	return t
}

// Kind implements Item
func (Null) Kind() Kind { return KindNull }

// Kind implements Item
func (*Integer) Kind() Kind { return KindInteger }

// Kind implements Item
func (*CellItem) Kind() Kind { return KindCell }

// Kind implements Item
func (*SliceItem) Kind() Kind { return KindSlice }

// Kind implements Item
func (*BuilderItem) Kind() Kind { return KindBuilder }

// Kind implements Item
func (*ContinuationItem) Kind() Kind { return KindContinuation }

// Kind implements Item
func (*Tuple) Kind() Kind { return KindTuple }

func (Null) sealed()              {}
func (*Integer) sealed()          {}
func (*CellItem) sealed()         {}
func (*SliceItem) sealed()        {}
func (*BuilderItem) sealed()      {}
func (*ContinuationItem) sealed() {}
func (*Tuple) sealed()            {}

func (Null) String() string { return "(null)" }

func (i *Integer) String() string { return i.v.String() }

func (c *CellItem) String() string {
	h := c.c.Hash()
	return "C{" + strings.ToUpper(hex.EncodeToString(h[:8])) + "}"
}

func (s *SliceItem) String() string { return "CS{" + s.s.String() + "}" }

func (b *BuilderItem) String() string { return "BC{" + b.b.String() + "}" }

func (c *ContinuationItem) String() string { return c.c.String() }

func (t *Tuple) String() string {
	parts := make([]string, len(t.items))
	for i, it := range t.items {
		parts[i] = it.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Len returns the number of tuple elements
func (t *Tuple) Len() int {
	return len(t.items)
}

// At returns the i-th element, or Null when i is past the end
func (t *Tuple) At(i int) Item {
	if i < 0 || i >= len(t.items) {
		return Null{}
	}
	return t.items[i]
}

// Items returns a copy of the tuple elements
func (t *Tuple) Items() []Item {
	items := make([]Item, len(t.items))
	copy(items, t.items)
	return items
}

// AsInteger narrows it to an integer
func AsInteger(it Item) (*big.Int, error) {
	if i, ok := it.(*Integer); ok {
		return new(big.Int).Set(i.v), nil
	}
	return nil, exception.TypeMismatch(KindInteger.String(), kindOf(it))
}

// AsBool narrows it to a boolean. Only integers qualify: zero is false, anything else is true.
func AsBool(it Item) (bool, error) {
	i, ok := it.(*Integer)
	if !ok {
		return false, exception.TypeMismatch(KindInteger.String(), kindOf(it))
	}
	return i.v.Sign() != 0, nil
}

// AsCell narrows it to a cell
func AsCell(it Item) (*cell.Cell, error) {
	if c, ok := it.(*CellItem); ok {
		return c.c, nil
	}
	return nil, exception.TypeMismatch(KindCell.String(), kindOf(it))
}

// AsSlice narrows it to a slice. The returned cursor is a private copy.
func AsSlice(it Item) (*cell.Slice, error) {
	if s, ok := it.(*SliceItem); ok {
		return s.s.Copy(), nil
	}
	return nil, exception.TypeMismatch(KindSlice.String(), kindOf(it))
}

// AsBuilder narrows it to a builder. The returned builder is a private copy.
func AsBuilder(it Item) (*cell.Builder, error) {
	if b, ok := it.(*BuilderItem); ok {
		return b.b.Copy(), nil
	}
	return nil, exception.TypeMismatch(KindBuilder.String(), kindOf(it))
}

// AsContinuation narrows it to a continuation
func AsContinuation(it Item) (*Continuation, error) {
	if c, ok := it.(*ContinuationItem); ok {
		return c.c, nil
	}
	return nil, exception.TypeMismatch(KindContinuation.String(), kindOf(it))
}

// AsTuple narrows it to a tuple
func AsTuple(it Item) (*Tuple, error) {
	if t, ok := it.(*Tuple); ok {
		return t, nil
	}
	return nil, exception.TypeMismatch(KindTuple.String(), kindOf(it))
}

// CompareIntegers compares two items. Ordering is only defined for integers.
func CompareIntegers(a, b Item) (int, error) {
	x, err := AsInteger(a)
	if err != nil {
		return 0, err
	}
	y, err := AsInteger(b)
	if err != nil {
		return 0, err
	}
	return x.Cmp(y), nil
}

func kindOf(it Item) string {
	if it == nil {
		return KindNull.String()
	}
	return it.Kind().String()
}
