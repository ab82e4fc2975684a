// Copyright 2018 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aiger

import (
	"bufio"
	"io"
	"sort"

	"github.com/go-air/aigo/aig"
)

// data for ascii aiger ands, kept to verify comb loops and multiple defs
// before building the gates.
type aigAnd struct {
	children [2]uint
	defined  bool
	dfsColor uint8
}

// reader keeps the on-disk literals of the combinational outputs and
// properties until all ands have been built, since the aiger literals
// only map to edges once the ands are translated.
type reader struct {
	*T
	hdr         *header
	latches     []aig.Edge
	latchNexts  []uint
	outputs     []uint
	bad         []uint
	constraints []uint
	justice     [][]uint
	fair        []uint
	varMap      []aig.Edge // by aiger variable, NoEdge if undefined
	ands        []aigAnd
	symbols     map[byte]map[int]string
}

func newReader(hdr *header) *reader {
	rdr := &reader{
		T:       &T{M: aig.NewCap(int(hdr.Max) + 1)},
		hdr:     hdr,
		varMap:  make([]aig.Edge, hdr.Max+1),
		symbols: make(map[byte]map[int]string)}
	for i := range rdr.varMap {
		rdr.varMap[i] = aig.NoEdge
	}
	rdr.varMap[0] = aig.False
	return rdr
}

func (rdr *reader) read(br *bufio.Reader) error {
	hdr := rdr.hdr
	if hdr.Binary {
		for i := uint(0); i < hdr.In; i++ {
			rdr.varMap[i+1] = rdr.M.Pi()
		}
	} else if err := rdr.readAsciiInputs(br); err != nil {
		return err
	}
	if err := rdr.readLatches(br); err != nil {
		return err
	}
	var err error
	if rdr.outputs, err = rdr.readLits(br, hdr.Out); err != nil {
		return err
	}
	if rdr.bad, err = rdr.readLits(br, hdr.Bad); err != nil {
		return err
	}
	if rdr.constraints, err = rdr.readLits(br, hdr.Constraint); err != nil {
		return err
	}
	if err := rdr.readJustice(br); err != nil {
		return err
	}
	if rdr.fair, err = rdr.readLits(br, hdr.Fair); err != nil {
		return err
	}
	if hdr.Binary {
		err = rdr.readBinaryAnds(br)
	} else {
		err = rdr.readAsciiAnds(br)
	}
	if err != nil {
		return err
	}
	if err := rdr.readSymsAndComments(br); err != nil {
		return err
	}
	return rdr.commit()
}

func (rdr *reader) define(u uint, e aig.Edge) error {
	if u > rdr.hdr.Max*2+1 {
		return ErrLitOOB
	}
	if rdr.varMap[u>>1] != aig.NoEdge {
		return ErrMultiplyDefined
	}
	rdr.varMap[u>>1] = e
	return nil
}

func (rdr *reader) litFor(u uint) aig.Edge {
	e := rdr.varMap[u>>1]
	if e == aig.NoEdge {
		return aig.NoEdge
	}
	return e.NotCond(u&1 != 0)
}

func (rdr *reader) readAsciiInputs(r *bufio.Reader) error {
	for i := uint(0); i < rdr.hdr.In; i++ {
		in, err := readUint(r)
		if err != nil {
			return err
		}
		if in&1 != 0 {
			return ErrSignedInput
		}
		if in == 0 {
			return ErrMultiplyDefined
		}
		if err := rdr.define(in, rdr.M.Pi()); err != nil {
			return err
		}
		if err := readNL(r); err != nil {
			return err
		}
	}
	return nil
}

// each latch may optionally contain reset info on each latch line.
// Version 1.9 allows it, previous versions just zero latches initially.
func (rdr *reader) readLatches(r *bufio.Reader) error {
	hdr := rdr.hdr
	for i := uint(0); i < hdr.Latch; i++ {
		id := (hdr.In + i + 1) * 2
		if !hdr.Binary {
			latch, err := readUint(r)
			if err != nil {
				return err
			}
			if latch&1 != 0 {
				return ErrSignedLatch
			}
			if latch == 0 {
				return ErrMultiplyDefined
			}
			if err := readSpace(r); err != nil {
				return err
			}
			id = latch
		}
		m := rdr.M.Latch(aig.False)
		if err := rdr.define(id, m); err != nil {
			return err
		}
		rdr.latches = append(rdr.latches, m)
		nxt, err := readUint(r)
		if err != nil {
			return err
		}
		if nxt > hdr.Max*2+1 {
			return ErrLitOOB
		}
		rdr.latchNexts = append(rdr.latchNexts, nxt)
		b, e := r.ReadByte()
		if e == io.EOF {
			return ErrPrematureEOF
		}
		if e != nil {
			return e
		}
		if b == '\r' {
			r.UnreadByte()
			b = '\n'
			if err := readNL(r); err != nil {
				return err
			}
		}
		if b == '\n' {
			continue
		}
		if b != ' ' {
			return ErrUnexpectedChar
		}
		ini, err := readUint(r)
		if err != nil {
			return err
		}
		switch ini {
		case 0:
		case 1:
			rdr.M.SetInit(m.ID(), aig.True)
		case id:
			rdr.M.SetInit(m.ID(), aig.NoEdge)
		default:
			return ErrInvalidLatchInit
		}
		if err := readNL(r); err != nil {
			return err
		}
	}
	return nil
}

func (rdr *reader) readLits(r *bufio.Reader, count uint) ([]uint, error) {
	res := make([]uint, 0, count)
	for i := uint(0); i < count; i++ {
		v, err := readUint(r)
		if err != nil {
			return nil, err
		}
		if v > 2*rdr.hdr.Max+1 {
			return nil, ErrLitOOB
		}
		res = append(res, v)
		if err := readNL(r); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (rdr *reader) readJustice(r *bufio.Reader) error {
	counts, err := rdr.readLits(r, rdr.hdr.Justice)
	if err != nil {
		return err
	}
	for _, c := range counts {
		js, err := rdr.readLits(r, c)
		if err != nil {
			return err
		}
		rdr.justice = append(rdr.justice, js)
	}
	return nil
}

func (rdr *reader) readBinaryAnds(r *bufio.Reader) error {
	hdr := rdr.hdr
	id := (hdr.In + hdr.Latch + 1) * 2 // inputs, latches and constant
	for i := uint(0); i < hdr.And; i++ {
		delta0, err := read7(r)
		if err != nil {
			return err
		}
		if delta0 == 0 || delta0 > id {
			return ErrBadDeltaEncoding
		}
		c0 := id - delta0
		delta1, err := read7(r)
		if err != nil {
			return err
		}
		if delta1 > c0 {
			return ErrBadDeltaEncoding
		}
		c1 := c0 - delta1
		rdr.varMap[id>>1] = rdr.M.Build(rdr.litFor(c1), rdr.litFor(c0))
		id += 2
	}
	return nil
}

func (rdr *reader) readAsciiAnds(r *bufio.Reader) error {
	hdr := rdr.hdr
	rdr.ands = make([]aigAnd, hdr.Max+1)
	for i := uint(0); i < hdr.And; i++ {
		var lits [3]uint
		for j := range lits {
			if j > 0 {
				if err := readSpace(r); err != nil {
					return err
				}
			}
			u, err := readUint(r)
			if err != nil {
				return err
			}
			if u > hdr.Max*2+1 {
				return ErrLitOOB
			}
			lits[j] = u
		}
		if err := readNL(r); err != nil {
			return err
		}
		g := lits[0]
		if g&1 != 0 {
			return ErrSignedAnd
		}
		aa := &rdr.ands[g>>1]
		if aa.defined || rdr.varMap[g>>1] != aig.NoEdge {
			return ErrMultiplyDefined
		}
		aa.defined = true
		aa.children = [2]uint{lits[1], lits[2]}
	}
	for i := range rdr.ands {
		if rdr.ands[i].defined {
			if err := rdr.mapAnd(uint(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// mapAnd builds the and gate of aiger variable v after its children.
func (rdr *reader) mapAnd(v uint) error {
	ag := &rdr.ands[v]
	switch ag.dfsColor {
	case 1:
		return ErrCombLoop
	case 2:
		return nil
	}
	ag.dfsColor = 1
	var es [2]aig.Edge
	for i, c := range ag.children {
		if rdr.ands[c>>1].defined {
			if err := rdr.mapAnd(c >> 1); err != nil {
				return err
			}
		}
		es[i] = rdr.litFor(c)
		if es[i] == aig.NoEdge {
			return ErrUndefinedLit
		}
	}
	rdr.varMap[v] = rdr.M.Build(es[0], es[1])
	ag.dfsColor = 2
	return nil
}

func (rdr *reader) readSymsAndComments(r *bufio.Reader) error {
	for {
		b, e := r.ReadByte()
		if e == io.EOF {
			return nil
		}
		if e != nil {
			return e
		}
		switch b {
		case 'i', 'l', 'o', 'b', 'c', 'j', 'f':
		default:
			continue
		}
		// symtab must precede comments
		if b == 'c' {
			bn, e := r.ReadByte()
			if e == io.EOF {
				return nil
			}
			if e != nil {
				return e
			}
			if bn == '\n' || bn == '\r' {
				if bn == '\r' {
					readNL(r)
				}
				return rdr.readComments(r)
			}
			// if anything, it's a constraint symtab entry, not a comment.
			r.UnreadByte()
		}
		index, err := readUint(r)
		if err != nil {
			return err
		}
		if err := readSpace(r); err != nil {
			return err
		}
		nm, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if rdr.symbols[b] == nil {
			rdr.symbols[b] = make(map[int]string)
		}
		rdr.symbols[b][int(index)] = trimNL(nm)
		if err == io.EOF {
			return nil
		}
	}
}

func (rdr *reader) readComments(r *bufio.Reader) error {
	for {
		comment, err := r.ReadString('\n')
		if len(comment) > 0 {
			rdr.Comments = append(rdr.Comments, trimNL(comment))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func trimNL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// once everything is read, the aiger literal to edge mapping is complete
// and the latches, outputs and properties are connected.
func (rdr *reader) commit() error {
	m := rdr.M
	for i, u := range rdr.latchNexts {
		n := rdr.litFor(u)
		if n == aig.NoEdge {
			return ErrUndefinedLit
		}
		m.SetNext(rdr.latches[i], n)
	}
	add := func(us []uint) ([]int, error) {
		idxs := make([]int, len(us))
		for i, u := range us {
			e := rdr.litFor(u)
			if e == aig.NoEdge {
				return nil, ErrUndefinedLit
			}
			idxs[i] = m.AddPo(e)
		}
		return idxs, nil
	}
	if _, err := add(rdr.outputs); err != nil {
		return err
	}
	rdr.Outputs = len(rdr.outputs)
	var err error
	if rdr.Bad, err = add(rdr.bad); err != nil {
		return err
	}
	if rdr.Constraints, err = add(rdr.constraints); err != nil {
		return err
	}
	for _, js := range rdr.justice {
		idxs, err := add(js)
		if err != nil {
			return err
		}
		rdr.Justice = append(rdr.Justice, idxs)
	}
	if rdr.Fair, err = add(rdr.fair); err != nil {
		return err
	}
	return rdr.nameAll()
}

// nameAll applies the symbol table.
func (rdr *reader) nameAll() error {
	m := rdr.M
	for _, k := range []byte{'i', 'l', 'o', 'b', 'c', 'j', 'f'} {
		idxs := make([]int, 0, len(rdr.symbols[k]))
		for i := range rdr.symbols[k] {
			idxs = append(idxs, i)
		}
		sort.Ints(idxs)
		for _, i := range idxs {
			nm := rdr.symbols[k][i]
			var err error
			switch k {
			case 'i':
				err = rdr.NameInput(i, nm)
			case 'l':
				err = rdr.NameLatch(i, nm)
			case 'o':
				err = rdr.NameOutput(i, nm)
			default:
				var po int
				po, err = rdr.propertyOutput(k, i)
				if err == nil {
					m.SetPoName(po, nm)
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// propertyOutput returns the primary output of the index'th property of
// kind k, where justice properties are named by their first output.
func (a *T) propertyOutput(k byte, index int) (int, error) {
	var idxs []int
	switch k {
	case 'b':
		idxs = a.Bad
	case 'c':
		idxs = a.Constraints
	case 'f':
		idxs = a.Fair
	case 'j':
		if index >= 0 && index < len(a.Justice) && len(a.Justice[index]) > 0 {
			return a.Justice[index][0], nil
		}
		return 0, ErrInvalidIndex
	}
	if index < 0 || index >= len(idxs) {
		return 0, ErrInvalidIndex
	}
	return idxs[index], nil
}
