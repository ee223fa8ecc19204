// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package stack

import (
	"strings"

	"github.com/iotexproject/iotex-cellvm/exception"
)

// MaxDepth is the maximum number of items the data stack can hold
const MaxDepth = 255 * 256

// Stack is the data stack. Index 0 always refers to the top item.
type Stack struct {
	items []Item
}

// New creates a stack holding items, the last one on top
func New(items ...Item) *Stack {
	st := &Stack{items: make([]Item, 0, len(items))}
	for _, it := range items {
		if it == nil {
			it = Null{}
		}
		st.items = append(st.items, it)
	}
	return st
}

// Depth returns the number of items on the stack
func (st *Stack) Depth() int {
	return len(st.items)
}

// Require fails with a stack underflow unless at least n items are present
func (st *Stack) Require(n int) error {
	if len(st.items) < n {
		return exception.Newf(exception.StackUnderflow, "%d items required, %d present", n, len(st.items))
	}
	return nil
}

// Push puts it on top of the stack
func (st *Stack) Push(it Item) error {
	if len(st.items) >= MaxDepth {
		return exception.Newf(exception.StackOverflow, "depth limit %d reached", MaxDepth)
	}
	if it == nil {
		it = Null{}
	}
	st.items = append(st.items, it)
	return nil
}

// Pop removes and returns the top item
func (st *Stack) Pop() (Item, error) {
	if err := st.Require(1); err != nil {
		return nil, err
	}
	it := st.items[len(st.items)-1]
	st.items[len(st.items)-1] = nil
	st.items = st.items[:len(st.items)-1]
	return it, nil
}

// Get returns the item at depth n without removing it
func (st *Stack) Get(n int) (Item, error) {
	if n < 0 {
		return nil, exception.Newf(exception.RangeCheck, "negative stack index %d", n)
	}
	if err := st.Require(n + 1); err != nil {
		return nil, err
	}
	return st.items[len(st.items)-1-n], nil
}

// Swap exchanges the items at depth i and j
func (st *Stack) Swap(i, j int) error {
	if i < 0 || j < 0 {
		return exception.Newf(exception.RangeCheck, "negative stack index %d/%d", i, j)
	}
	n := i
	if j > n {
		n = j
	}
	if err := st.Require(n + 1); err != nil {
		return err
	}
	top := len(st.items) - 1
	st.items[top-i], st.items[top-j] = st.items[top-j], st.items[top-i]
	return nil
}

// Drop removes n items from the top
func (st *Stack) Drop(n int) error {
	if err := st.Require(n); err != nil {
		return err
	}
	for i := len(st.items) - n; i < len(st.items); i++ {
		st.items[i] = nil
	}
	st.items = st.items[:len(st.items)-n]
	return nil
}

// Items returns a copy of the stack content, bottom first
func (st *Stack) Items() []Item {
	items := make([]Item, len(st.items))
	copy(items, st.items)
	return items
}

// String renders the stack bottom first, the way it is written in assembly listings
func (st *Stack) String() string {
	parts := make([]string, len(st.items))
	for i, it := range st.items {
		parts[i] = it.String()
	}
	return " " + strings.Join(parts, " ")
}
