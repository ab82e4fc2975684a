// Copyright 2018 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aiger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/go-air/aigo/aig"
)

// writer maps the nodes of the manager to aiger literals which match the
// binary packing requirements: the constant, then inputs, then latches,
// then the ands in the cones of the outputs and properties, each and
// after its fanins.
type writer struct {
	a    *T
	w    *bufio.Writer
	lits []uint // by ID
	ands []aig.ID
}

func (a *T) write(w io.Writer, binary bool) error {
	if err := a.check(); err != nil {
		return err
	}
	m := a.M
	wr := &writer{a: a, w: bufio.NewWriter(w), lits: make([]uint, m.Len())}
	wr.number()
	hdr := &header{
		Binary:     binary,
		In:         uint(m.NumPis()),
		Latch:      uint(m.NumLatches()),
		Out:        uint(a.Outputs),
		And:        uint(len(wr.ands)),
		Bad:        uint(len(a.Bad)),
		Constraint: uint(len(a.Constraints)),
		Justice:    uint(len(a.Justice)),
		Fair:       uint(len(a.Fair))}
	hdr.Max = hdr.In + hdr.Latch + hdr.And
	hdr.write(wr.w)
	if !binary {
		for _, id := range m.Pis() {
			wr.line(wr.lits[id])
		}
	}
	for _, id := range m.Latches() {
		lit := wr.lits[id]
		if !binary {
			wr.num(lit)
			wr.w.WriteByte(' ')
		}
		wr.num(wr.lit(m.Next(id)))
		switch m.Init(id) {
		case aig.True:
			wr.w.WriteString(" 1")
		case aig.NoEdge:
			wr.w.WriteByte(' ')
			wr.num(lit)
		}
		wr.w.WriteByte('\n')
	}
	for i := 0; i < a.Outputs; i++ {
		wr.line(wr.lit(m.Po(i)))
	}
	wr.pos(a.Bad)
	wr.pos(a.Constraints)
	for _, js := range a.Justice {
		wr.line(uint(len(js)))
	}
	for _, js := range a.Justice {
		wr.pos(js)
	}
	wr.pos(a.Fair)
	if binary {
		if err := wr.binaryAnds(); err != nil {
			return err
		}
	} else {
		wr.asciiAnds()
	}
	wr.symtab()
	if len(a.Comments) > 0 {
		wr.w.WriteString("c\n")
		for _, c := range a.Comments {
			wr.w.WriteString(c)
			wr.w.WriteByte('\n')
		}
	}
	return wr.w.Flush()
}

func (wr *writer) number() {
	a, m := wr.a, wr.a.M
	next := uint(2)
	for _, id := range m.Pis() {
		wr.lits[id] = next
		next += 2
	}
	for _, id := range m.Latches() {
		wr.lits[id] = next
		next += 2
	}
	d := newDfs(m, func(id aig.ID) {
		wr.lits[id] = next
		next += 2
		wr.ands = append(wr.ands, id)
	})
	for i := 0; i < a.Outputs; i++ {
		d.post(m.Po(i))
	}
	for _, id := range m.Latches() {
		d.post(m.Next(id))
	}
	for i := a.Outputs; i < m.NumPos(); i++ {
		d.post(m.Po(i))
	}
}

// lit returns the aiger literal of e.  Unset latch next states are false.
func (wr *writer) lit(e aig.Edge) uint {
	if e == aig.NoEdge {
		return 0
	}
	u := wr.lits[e.ID()]
	if e.IsCompl() {
		u |= 1
	}
	return u
}

func (wr *writer) num(u uint) {
	wr.w.WriteString(strconv.FormatUint(uint64(u), 10))
}

func (wr *writer) line(u uint) {
	wr.num(u)
	wr.w.WriteByte('\n')
}

func (wr *writer) pos(idxs []int) {
	for _, i := range idxs {
		wr.line(wr.lit(wr.a.M.Po(i)))
	}
}

// fanins returns the aiger literals of the fanins of id, larger first.
func (wr *writer) fanins(id aig.ID) (uint, uint) {
	a, b := wr.a.M.Fanins(id)
	r0, r1 := wr.lit(a), wr.lit(b)
	if r0 < r1 {
		r0, r1 = r1, r0
	}
	return r0, r1
}

func (wr *writer) asciiAnds() {
	for _, id := range wr.ands {
		r0, r1 := wr.fanins(id)
		wr.num(wr.lits[id])
		wr.w.WriteByte(' ')
		wr.num(r0)
		wr.w.WriteByte(' ')
		wr.line(r1)
	}
}

func (wr *writer) binaryAnds() error {
	for _, id := range wr.ands {
		lhs := wr.lits[id]
		r0, r1 := wr.fanins(id)
		if lhs <= r0 {
			panic(fmt.Sprintf("aiger: and %d numbered %d before fanin %d", id, lhs, r0))
		}
		if err := write7(wr.w, lhs-r0); err != nil {
			return err
		}
		if err := write7(wr.w, r0-r1); err != nil {
			return err
		}
	}
	return nil
}

func (wr *writer) symtab() {
	a, m := wr.a, wr.a.M
	sym := func(k byte, i int, nm string) {
		if nm == "" {
			return
		}
		wr.w.WriteByte(k)
		wr.num(uint(i))
		wr.w.WriteByte(' ')
		wr.w.WriteString(nm)
		wr.w.WriteByte('\n')
	}
	for i, id := range m.Pis() {
		sym('i', i, m.Name(id))
	}
	for i, id := range m.Latches() {
		sym('l', i, m.Name(id))
	}
	for i := 0; i < a.Outputs; i++ {
		sym('o', i, m.PoName(i))
	}
	for i, po := range a.Bad {
		sym('b', i, m.PoName(po))
	}
	for i, po := range a.Constraints {
		sym('c', i, m.PoName(po))
	}
	for i, js := range a.Justice {
		if len(js) > 0 {
			sym('j', i, m.PoName(js[0]))
		}
	}
	for i, po := range a.Fair {
		sym('f', i, m.PoName(po))
	}
}
