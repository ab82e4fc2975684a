// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package blif

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-air/aigo/aig"
)

// table is a .names definition.
type table struct {
	line  int
	ins   []string
	cubes []string
	onset bool
	color uint8
	edge  aig.Edge
}

type latch struct {
	line    int
	in, out string
	init    aig.Edge
}

type parser struct {
	name    string
	inputs  []string
	outputs []string
	latches []latch
	tables  map[string]*table
	cur     *table
	m       *aig.Manager
	sigs    map[string]aig.Edge
}

// Read reads the first model of a blif file.
func Read(r io.Reader) (*Model, error) {
	p := &parser{tables: make(map[string]*table)}
	if err := p.parse(r); err != nil {
		return nil, err
	}
	if err := p.build(); err != nil {
		return nil, err
	}
	return &Model{Name: p.name, M: p.m}, nil
}

func (p *parser) errorf(err error, line int, format string, args ...interface{}) error {
	return fmt.Errorf("%w: line %d: %s", err, line, fmt.Sprintf(format, args...))
}

func (p *parser) parse(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<24)
	ln, start := 0, 0
	var acc strings.Builder
	for sc.Scan() {
		ln++
		s := sc.Text()
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimRight(s, " \t\r")
		if acc.Len() == 0 {
			start = ln
		}
		if strings.HasSuffix(s, "\\") {
			acc.WriteString(s[:len(s)-1])
			acc.WriteByte(' ')
			continue
		}
		acc.WriteString(s)
		done, err := p.line(start, acc.String())
		acc.Reset()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if acc.Len() > 0 {
		if _, err := p.line(start, acc.String()); err != nil {
			return err
		}
	}
	return nil
}

// line processes one logical line and tells whether the model ended.
func (p *parser) line(ln int, s string) (bool, error) {
	fs := strings.Fields(s)
	if len(fs) == 0 {
		return false, nil
	}
	if !strings.HasPrefix(fs[0], ".") {
		if p.cur == nil {
			return false, p.errorf(ErrSyntax, ln, "cube outside of .names")
		}
		return false, p.cube(ln, fs)
	}
	p.cur = nil
	switch fs[0] {
	case ".model":
		if len(fs) > 1 {
			p.name = fs[1]
		}
	case ".inputs":
		p.inputs = append(p.inputs, fs[1:]...)
	case ".outputs":
		p.outputs = append(p.outputs, fs[1:]...)
	case ".latch":
		return false, p.latch(ln, fs[1:])
	case ".names":
		if len(fs) < 2 {
			return false, p.errorf(ErrSyntax, ln, ".names without output")
		}
		out := fs[len(fs)-1]
		if _, ok := p.tables[out]; ok {
			return false, p.errorf(ErrRedefined, ln, "%s", out)
		}
		p.cur = &table{line: ln, ins: fs[1 : len(fs)-1], onset: true, edge: aig.NoEdge}
		p.tables[out] = p.cur
	case ".end":
		return true, nil
	default:
		return false, p.errorf(ErrUnsupported, ln, "%s", fs[0])
	}
	return false, nil
}

func (p *parser) latch(ln int, fs []string) error {
	if len(fs) < 2 {
		return p.errorf(ErrSyntax, ln, ".latch needs input and output")
	}
	l := latch{line: ln, in: fs[0], out: fs[1], init: aig.NoEdge}
	var ini string
	switch len(fs) {
	case 2:
	case 3:
		ini = fs[2]
	case 5:
		ini = fs[4]
	default:
		return p.errorf(ErrSyntax, ln, ".latch with %d fields", len(fs))
	}
	switch ini {
	case "0":
		l.init = aig.False
	case "1":
		l.init = aig.True
	case "", "2", "3":
	default:
		return p.errorf(ErrSyntax, ln, "latch init %q", ini)
	}
	p.latches = append(p.latches, l)
	return nil
}

func (p *parser) cube(ln int, fs []string) error {
	t := p.cur
	var in, out string
	switch {
	case len(t.ins) == 0 && len(fs) == 1:
		out = fs[0]
	case len(fs) == 2:
		in, out = fs[0], fs[1]
	default:
		return p.errorf(ErrSyntax, ln, "bad cube %q", strings.Join(fs, " "))
	}
	if len(in) != len(t.ins) || strings.Trim(in, "01-") != "" {
		return p.errorf(ErrSyntax, ln, "bad cube %q for %d inputs", in, len(t.ins))
	}
	var onset bool
	switch out {
	case "1":
		onset = true
	case "0":
	default:
		return p.errorf(ErrSyntax, ln, "bad cube output %q", out)
	}
	if len(t.cubes) > 0 && onset != t.onset {
		return p.errorf(ErrUnsupported, ln, "mixed on-set and off-set cubes")
	}
	t.onset = onset
	t.cubes = append(t.cubes, in)
	return nil
}

// build creates the manager.  All inputs and latches are created first so
// that the tables can be built in any order.
func (p *parser) build() error {
	m := aig.NewCap(len(p.inputs) + len(p.latches) + len(p.tables) + 1)
	p.m = m
	p.sigs = make(map[string]aig.Edge)
	def := func(nm string, e aig.Edge, ln int) error {
		if _, ok := p.sigs[nm]; ok {
			return p.errorf(ErrRedefined, ln, "%s", nm)
		}
		if _, ok := p.tables[nm]; ok {
			return p.errorf(ErrRedefined, ln, "%s", nm)
		}
		p.sigs[nm] = e
		m.SetName(e.ID(), nm)
		return nil
	}
	for _, nm := range p.inputs {
		if err := def(nm, m.Pi(), 0); err != nil {
			return err
		}
	}
	lats := make([]aig.Edge, len(p.latches))
	for i, l := range p.latches {
		lats[i] = m.Latch(l.init)
		if err := def(l.out, lats[i], l.line); err != nil {
			return err
		}
	}
	for i, l := range p.latches {
		e, err := p.signal(l.in, l.line)
		if err != nil {
			return err
		}
		m.SetNext(lats[i], e)
	}
	for _, nm := range p.outputs {
		e, err := p.signal(nm, 0)
		if err != nil {
			return err
		}
		m.SetPoName(m.AddPo(e), nm)
	}
	return nil
}

// signal returns the edge of nm, building its table if needed.
func (p *parser) signal(nm string, ln int) (aig.Edge, error) {
	if e, ok := p.sigs[nm]; ok {
		return e, nil
	}
	t, ok := p.tables[nm]
	if !ok {
		return aig.NoEdge, p.errorf(ErrUndefined, ln, "%s", nm)
	}
	switch t.color {
	case 1:
		return aig.NoEdge, p.errorf(ErrCombLoop, t.line, "through %s", nm)
	case 2:
		return t.edge, nil
	}
	t.color = 1
	ins := make([]aig.Edge, len(t.ins))
	for i, in := range t.ins {
		e, err := p.signal(in, t.line)
		if err != nil {
			return aig.NoEdge, err
		}
		ins[i] = e
	}
	m := p.m
	sop := aig.False
	for _, c := range t.cubes {
		cube := aig.True
		for i := 0; i < len(c); i++ {
			switch c[i] {
			case '1':
				cube = m.Build(cube, ins[i])
			case '0':
				cube = m.Build(cube, ins[i].Not())
			}
		}
		sop = m.Or(sop, cube)
	}
	t.edge = sop.NotCond(!t.onset)
	t.color = 2
	return t.edge, nil
}
