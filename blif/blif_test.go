// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package blif

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/cec"
	"github.com/go-air/aigo/gen"
	"github.com/go-air/aigo/internal/aigtest"
)

var example = `# a full adder and a toggle
.model fa
.inputs a b \
  cin
.outputs sum cout q
.latch qn q 0
.names a b cin sum
100 1
010 1
001 1
111 1
.names a b cin cout
11- 1
1-1 1
-11 1
.names q qn
1 0
.end
`

func TestRead(t *testing.T) {
	mod, err := Read(strings.NewReader(example))
	if err != nil {
		t.Fatal(err)
	}
	if mod.Name != "fa" {
		t.Errorf("model %q", mod.Name)
	}
	m := mod.M
	if m.NumPis() != 3 || m.NumPos() != 3 || m.NumLatches() != 1 {
		t.Fatalf("read %s", m.Stats())
	}
	if m.Name(m.Pis()[2]) != "cin" || m.PoName(1) != "cout" {
		t.Errorf("names %q %q", m.Name(m.Pis()[2]), m.PoName(1))
	}
	for i := 0; i < 8; i++ {
		a, b, c := i&1 != 0, i&2 != 0, i&4 != 0
		q := i%3 == 0
		out := m.Eval([]bool{a, b, c, q})
		n := 0
		for _, v := range []bool{a, b, c} {
			if v {
				n++
			}
		}
		if out[0] != (n%2 == 1) || out[1] != (n >= 2) {
			t.Errorf("%t %t %t: sum %t cout %t", a, b, c, out[0], out[1])
		}
		if out[2] != q || out[3] == q {
			t.Errorf("latch %t: output %t next %t", q, out[2], out[3])
		}
	}
	if err := m.Check(); err != nil {
		t.Error(err)
	}
}

func TestReadErrors(t *testing.T) {
	for _, tc := range []struct {
		in  string
		err error
	}{
		{".model x\n.inputs a\n.outputs y\n.end\n", ErrUndefined},
		{".model x\n.outputs y\n.names z y\n1 1\n.names y z\n1 1\n.end\n", ErrCombLoop},
		{".model x\n.inputs a\n.outputs y\n.names a y\n1 1\n0 0\n.end\n", ErrUnsupported},
		{".model x\n.inputs a\n.outputs y\n.names a y\n11 1\n.end\n", ErrSyntax},
		{".model x\n.inputs a\n.outputs a\n.names a\n1\n.end\n", ErrRedefined},
		{".model x\n.subckt foo a=b\n.end\n", ErrUnsupported},
		{".model x\n1 1\n", ErrSyntax},
		{".model x\n.latch a b 5\n", ErrSyntax},
	} {
		_, err := Read(strings.NewReader(tc.in))
		if !errors.Is(err, tc.err) {
			t.Errorf("%q: got %v expected %v", tc.in, err, tc.err)
		}
	}
}

func TestConstants(t *testing.T) {
	in := ".model c\n.outputs zero one nzero\n.names zero\n.names one\n1\n.names nzero\n0\n.end\n"
	mod, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	m := mod.M
	if m.Po(0) != aig.False || m.Po(1) != aig.True || m.Po(2) != aig.False {
		t.Errorf("constants %s %s %s", m.Po(0), m.Po(1), m.Po(2))
	}
	var buf bytes.Buffer
	if err := Write(&buf, m, "c"); err != nil {
		t.Fatal(err)
	}
	back, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if back.M.Po(i) != m.Po(i) {
			t.Errorf("output %d: %s", i, back.M.Po(i))
		}
	}
}

func TestWriteRead(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for trial := 0; trial < 10; trial++ {
		m := gen.RandSeq(rnd, 12, 3, 80, 10)
		m.SetInit(m.Latches()[1], aig.True)
		m.SetInit(m.Latches()[2], aig.NoEdge)
		m.SetName(m.Pis()[0], "clk_en")
		m.SetPoName(0, "result")
		var buf bytes.Buffer
		if err := Write(&buf, m, "rand"); err != nil {
			t.Fatal(err)
		}
		mod, err := Read(&buf)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		b := mod.M
		if err := b.Check(); err != nil {
			t.Fatal(err)
		}
		res, err := cec.Check(m, b, cec.DefaultParams())
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != cec.Equivalent {
			t.Errorf("trial %d: %s", trial, res)
		}
		if f := aigtest.RunDiff(m, b, aigtest.RandTrace(rnd, m, 20)); f >= 0 {
			t.Errorf("trial %d: outputs differ at frame %d", trial, f)
		}
		for i, id := range m.Latches() {
			if b.Init(b.Latches()[i]) != m.Init(id) {
				t.Errorf("trial %d: latch %d init", trial, i)
			}
		}
		if b.Name(b.Pis()[0]) != "clk_en" || b.PoName(0) != "result" {
			t.Errorf("trial %d: names lost", trial)
		}
		if b.NumAnds() > m.NumAnds() {
			t.Errorf("trial %d: %d ands read, %d written", trial, b.NumAnds(), m.NumAnds())
		}
	}
}
