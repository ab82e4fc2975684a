// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aig

import "fmt"

// ID identifies a node in a Manager.
type ID uint32

// Edge is a possibly complemented reference to a node.
type Edge uint32

const (
	// False is the constant 0 edge.
	False Edge = 0
	// True is the constant 1 edge.
	True Edge = 1
	// NoEdge is the null edge.
	NoEdge Edge = ^Edge(0)
	// NoID is the null ID.
	NoID ID = ^ID(0)
)

// MkEdge returns the edge to id, complemented if c.
func MkEdge(id ID, c bool) Edge {
	e := Edge(id) << 1
	if c {
		e |= 1
	}
	return e
}

// ID returns the node e points to.
func (e Edge) ID() ID {
	return ID(e >> 1)
}

// IsCompl returns whether e is complemented.
func (e Edge) IsCompl() bool {
	return e&1 == 1
}

// Not returns the complement of e.
func (e Edge) Not() Edge {
	return e ^ 1
}

// NotCond returns the complement of e if c, e otherwise.
func (e Edge) NotCond(c bool) Edge {
	if c {
		return e ^ 1
	}
	return e
}

// Regular returns the uncomplemented version of e.
func (e Edge) Regular() Edge {
	return e &^ 1
}

// IsConst returns whether e is True or False.
func (e Edge) IsConst() bool {
	return e < 2
}

func (e Edge) String() string {
	switch e {
	case False:
		return "F"
	case True:
		return "T"
	case NoEdge:
		return "-"
	}
	if e.IsCompl() {
		return fmt.Sprintf("!n%d", e.ID())
	}
	return fmt.Sprintf("n%d", e.ID())
}

// Kind is the kind of a node.
type Kind uint8

const (
	KindConst Kind = iota
	KindPi
	KindLatch
	KindAnd
	KindDead
)

func (k Kind) String() string {
	switch k {
	case KindConst:
		return "const"
	case KindPi:
		return "pi"
	case KindLatch:
		return "latch"
	case KindAnd:
		return "and"
	case KindDead:
		return "dead"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}
