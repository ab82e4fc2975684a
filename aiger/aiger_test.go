// Copyright 2018 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aiger

import (
	"bufio"
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

// note this is 1.9 version, trailing zero property counts are left out
var expectedOutput1 = `aag 3 1 1 2 1
2
4 6
4
5
6 4 2
`
var expectedOutput2 = "aig 3 1 1 2 1\n6\n4\n5\n\x02\x02"

func makeExample() *T {
	m := aig.New()
	in := m.Pi()
	l := m.Latch(aig.False)
	m.SetNext(l, aig.False)
	a := m.Build(in, l)
	m.SetNext(l, a)
	m.AddPo(l)
	m.AddPo(l.Not())
	return MakeFor(m)
}

func TestWriteAscii(t *testing.T) {
	a := makeExample()
	var buf bytes.Buffer
	if err := a.WriteAscii(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != expectedOutput1 {
		t.Errorf("unexpected output: %s\nvs\n%s", buf.String(), expectedOutput1)
	}
}

func TestWriteBinary(t *testing.T) {
	a := makeExample()
	var buf bytes.Buffer
	if err := a.WriteBinary(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != expectedOutput2 {
		t.Errorf("unexpected output got %q vs %q", buf.String(), expectedOutput2)
	}
}

var binaryExample = "aig 3 1 1 2 1 0 0 2 0\n6 1\n4\n5\n2\n1\n4\n5\n4\n\x02\x02" +
	"i0 first-input\nj1 live\nc\naiger file version 1.9\nsecond line\n"

func TestReadBinary(t *testing.T) {
	a, err := Read(strings.NewReader(binaryExample))
	if err != nil {
		t.Fatal(err)
	}
	m := a.M
	if m.NumPis() != 1 || m.NumLatches() != 1 || m.NumAnds() != 1 {
		t.Fatalf("read %s", m.Stats())
	}
	if a.Outputs != 2 || m.NumPos() != 5 {
		t.Errorf("%d outputs, %d primary outputs", a.Outputs, m.NumPos())
	}
	if len(a.Justice) != 2 || len(a.Justice[0]) != 2 || len(a.Justice[1]) != 1 {
		t.Fatalf("justice %v", a.Justice)
	}
	l := m.Latches()[0]
	if m.Init(l) != aig.True {
		t.Errorf("latch init %s", m.Init(l))
	}
	if m.Po(a.Justice[0][1]) != aig.MkEdge(l, true) {
		t.Errorf("justice literal %s", m.Po(a.Justice[0][1]))
	}
	if nm := m.Name(m.Pis()[0]); nm != "first-input" {
		t.Errorf("input name %q", nm)
	}
	if nm := m.PoName(a.Justice[1][0]); nm != "live" {
		t.Errorf("justice name %q", nm)
	}
	if len(a.Comments) != 2 || a.Comments[1] != "second line" {
		t.Errorf("comments %q", a.Comments)
	}
	if err := m.Check(); err != nil {
		t.Error(err)
	}
}

// ands are out of order, the latch has an unknown initial value.
var asciiExample = `aag 7 2 1 2 3
2
4
6 13 6
14
11
10 8 6
12 6 3
8 2 4
14 12 9
o1 out
`

func TestReadAscii(t *testing.T) {
	a, err := Read(strings.NewReader(asciiExample))
	if err != nil {
		t.Fatal(err)
	}
	m := aig.New()
	x, y := m.Pi(), m.Pi()
	l := m.Latch(aig.NoEdge)
	g8 := m.Build(x, y)
	g10 := m.Build(g8, l)
	g12 := m.Build(l, x.Not())
	g14 := m.Build(g12, g8.Not())
	m.SetNext(l, g12.Not())
	m.AddPo(g14)
	m.AddPo(g10.Not())
	res, err := cec.CheckBdd(a.M, m, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != cec.Equivalent {
		t.Errorf("%s", res)
	}
	if a.M.Init(a.M.Latches()[0]) != aig.NoEdge {
		t.Errorf("latch init %s", a.M.Init(a.M.Latches()[0]))
	}
	if a.M.PoName(1) != "out" {
		t.Errorf("output name %q", a.M.PoName(1))
	}
}

func TestReadErrors(t *testing.T) {
	for _, tc := range []struct {
		in  string
		err error
	}{
		{"agg 1 0 0 0 0\n", ErrBadHeader},
		{"aag 1 0 0\n", ErrBadHeader},
		{"aig 1 0 0 0 0\n", ErrBadHeader},
		{"aag 1 1 0 0 0\n", ErrPrematureEOF},
		{"aag 1 1 0 0 0\n3\n", ErrSignedInput},
		{"aag 1 0 0 1 0\n4\n", ErrLitOOB},
		{"aag 1 0 0 1 0\n2\n", ErrUndefinedLit},
		{"aag 2 0 0 1 1\n4\n4 4 4\n", ErrCombLoop},
		{"aag 3 1 0 0 2\n2\n4 2 2\n4 3 3\n", ErrMultiplyDefined},
		{"aag 2 1 1 0 0\n2\n4 2 3\n", ErrInvalidLatchInit},
		{"aag 2 1 1 0 0\n2\n5 2\n", ErrSignedLatch},
		{"aag 2 1 0 0 1\n2\n5 2 2\n", ErrSignedAnd},
		{"aig 2 1 0 1 1\n4\n\x00\x00", ErrBadDeltaEncoding},
	} {
		_, err := Read(strings.NewReader(tc.in))
		if !errors.Is(err, tc.err) {
			t.Errorf("%q: got %v expected %v", tc.in, err, tc.err)
		}
	}
	if _, err := ReadBinary(strings.NewReader(expectedOutput1)); !errors.Is(err, ErrBinaryMismatch) {
		t.Errorf("binary mismatch: %v", err)
	}
}

func TestVarint(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	vals := []uint{0, 1, 127, 128, 16383, 16384, 1 << 40}
	for _, v := range vals {
		if err := write7(w, v); err != nil {
			t.Fatal(err)
		}
	}
	w.Flush()
	if buf.Bytes()[0] != 0 {
		t.Errorf("0 not coded as a single zero byte")
	}
	r := bufio.NewReader(&buf)
	for _, v := range vals {
		u, err := read7(r)
		if err != nil {
			t.Fatal(err)
		}
		if u != v {
			t.Errorf("read %d expected %d", u, v)
		}
	}
}

func TestWriteRead(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for trial := 0; trial < 10; trial++ {
		m := gen.RandSeq(rnd, 5, 4, 60, 3)
		m.SetInit(m.Latches()[1], aig.True)
		m.SetInit(m.Latches()[2], aig.NoEdge)
		a := MakeFor(m)
		a.NameInput(0, "in0")
		a.NameLatch(3, "state")
		a.NameOutput(2, "o2")
		lat := aig.MkEdge(m.Latches()[0], false)
		a.AddBad(lat)
		a.AddConstraint(lat.Not())
		a.AddJustice(lat, m.Po(0))
		a.AddFair(m.Po(1))
		a.Comments = []string{"trial"}
		for _, binary := range []bool{false, true} {
			var buf bytes.Buffer
			var err error
			if binary {
				err = a.WriteBinary(&buf)
			} else {
				err = a.WriteAscii(&buf)
			}
			if err != nil {
				t.Fatal(err)
			}
			b, err := Read(&buf)
			if err != nil {
				t.Fatalf("trial %d binary %t: %v", trial, binary, err)
			}
			if err := b.M.Check(); err != nil {
				t.Fatal(err)
			}
			res, err := cec.Check(m, b.M, cec.DefaultParams())
			if err != nil {
				t.Fatal(err)
			}
			if res.Status != cec.Equivalent {
				t.Errorf("trial %d binary %t: %s", trial, binary, res)
			}
			if f := aigtest.RunDiff(m, b.M, aigtest.RandTrace(rnd, m, 20)); f >= 0 {
				t.Errorf("trial %d binary %t: outputs differ at frame %d", trial, binary, f)
			}
			if b.Outputs != 3 || len(b.Bad) != 1 || len(b.Constraints) != 1 ||
				len(b.Justice) != 1 || len(b.Justice[0]) != 2 || len(b.Fair) != 1 {
				t.Errorf("trial %d binary %t: properties %+v", trial, binary, b)
			}
			for i, id := range m.Latches() {
				if b.M.Init(b.M.Latches()[i]) != m.Init(id) {
					t.Errorf("trial %d: latch %d init", trial, i)
				}
			}
			if b.M.Name(b.M.Pis()[0]) != "in0" || b.M.Name(b.M.Latches()[3]) != "state" ||
				b.M.PoName(2) != "o2" {
				t.Errorf("trial %d binary %t: names lost", trial, binary)
			}
			if len(b.Comments) != 1 || b.Comments[0] != "trial" {
				t.Errorf("comments %q", b.Comments)
			}
		}
	}
}
