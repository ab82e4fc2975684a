// Copyright 2018 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aiger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-air/aigo/aig"
)

// Errors related to IO and formatting
var (
	ErrPrematureEOF     = errors.New("aiger: premature EOF")
	ErrUnexpectedChar   = errors.New("aiger: unexpected char")
	ErrBadHeader        = errors.New("aiger: bad header")
	ErrBinaryMismatch   = errors.New("aiger: binary mismatch")
	ErrInvalidLatchInit = errors.New("aiger: invalid latch init value")
	ErrLitOOB           = errors.New("aiger: literal out of bounds")
	ErrBadDeltaEncoding = errors.New("aiger: bad delta encoding")
	ErrInvalidIndex     = errors.New("aiger: invalid symbol index")
	ErrInvalidName      = errors.New("aiger: invalid symbol name")
	ErrSignedInput      = errors.New("aiger: input is negated")
	ErrSignedLatch      = errors.New("aiger: latch is negated")
	ErrSignedAnd        = errors.New("aiger: and gate def is negated")
	ErrCombLoop         = errors.New("aiger: combinational logic has a loop")
	ErrMultiplyDefined  = errors.New("aiger: literal multiply defined")
	ErrUndefinedLit     = errors.New("aiger: literal not defined")
)

// T contains the information read from or written to disk in aiger
// format version 1.9.
//
// All properties are primary outputs of M: the first Outputs primary
// outputs are the aiger outputs, and Bad, Constraints, Justice and Fair
// hold indices of primary outputs.  Input, latch and output names are the
// names of M.
type T struct {
	M           *aig.Manager
	Outputs     int
	Bad         []int   // bad state properties
	Constraints []int   // invariant constraints
	Justice     [][]int // justice properties
	Fair        []int   // fairness constraints
	Comments    []string
}

// MakeFor makes an aiger object for m in which every primary output is
// an aiger output.  m is the backing store, no copy is made.
func MakeFor(m *aig.Manager) *T {
	return &T{M: m, Outputs: m.NumPos()}
}

// AddBad adds a bad state property and returns its index.
func (a *T) AddBad(e aig.Edge) int {
	a.Bad = append(a.Bad, a.M.AddPo(e))
	return len(a.Bad) - 1
}

// AddConstraint adds an invariant constraint and returns its index.
func (a *T) AddConstraint(e aig.Edge) int {
	a.Constraints = append(a.Constraints, a.M.AddPo(e))
	return len(a.Constraints) - 1
}

// AddJustice adds a justice property given by its fairness edges and
// returns its index.
func (a *T) AddJustice(es ...aig.Edge) int {
	js := make([]int, len(es))
	for i, e := range es {
		js[i] = a.M.AddPo(e)
	}
	a.Justice = append(a.Justice, js)
	return len(a.Justice) - 1
}

// AddFair adds a fairness constraint and returns its index.
func (a *T) AddFair(e aig.Edge) int {
	a.Fair = append(a.Fair, a.M.AddPo(e))
	return len(a.Fair) - 1
}

// NameInput names the index'th input.  It returns a non-nil error if
// index is out of bounds or nm contains a new line.
func (a *T) NameInput(index int, nm string) error {
	if index < 0 || index >= a.M.NumPis() {
		return ErrInvalidIndex
	}
	if strings.Contains(nm, "\n") {
		return ErrInvalidName
	}
	a.M.SetName(a.M.Pis()[index], nm)
	return nil
}

// NameLatch names the index'th latch.  It returns a non-nil error if
// index is out of bounds or nm contains a new line.
func (a *T) NameLatch(index int, nm string) error {
	if index < 0 || index >= a.M.NumLatches() {
		return ErrInvalidIndex
	}
	if strings.Contains(nm, "\n") {
		return ErrInvalidName
	}
	a.M.SetName(a.M.Latches()[index], nm)
	return nil
}

// NameOutput names the index'th output.  It returns a non-nil error if
// index is out of bounds or nm contains a new line.
func (a *T) NameOutput(index int, nm string) error {
	if index < 0 || index >= a.Outputs {
		return ErrInvalidIndex
	}
	if strings.Contains(nm, "\n") {
		return ErrInvalidName
	}
	a.M.SetPoName(index, nm)
	return nil
}

// Read reads an ascii or binary aiger file, as indicated by its header.
func Read(r io.Reader) (*T, error) {
	br := bufio.NewReader(r)
	tok, err := br.Peek(3)
	if err != nil {
		if err == io.EOF {
			return nil, ErrPrematureEOF
		}
		return nil, err
	}
	if string(tok) == "aig" {
		return ReadBinary(br)
	}
	return ReadAscii(br)
}

// ReadAscii reads an ascii coded aiger file (version 1.9).  ReadAscii
// returns a possibly nil aiger object paired with a possibly nil error.
// If the aiger object is nil, the error is non-nil and indicates the
// underlying problem.
func ReadAscii(r io.Reader) (*T, error) {
	return read(r, false)
}

// ReadBinary reads a binary aiger file (version 1.9).  See ReadAscii.
func ReadBinary(r io.Reader) (*T, error) {
	return read(r, true)
}

func read(r io.Reader, binary bool) (*T, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	hdr, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if hdr.Binary != binary {
		return nil, ErrBinaryMismatch
	}
	rdr := newReader(hdr)
	if err := rdr.read(br); err != nil {
		return nil, err
	}
	return rdr.T, nil
}

// WriteAscii writes an ascii version of aiger format for the object a to
// the writer w.  WriteAscii returns a non-nil error if there was an io
// error while writing.
func (a *T) WriteAscii(w io.Writer) error {
	return a.write(w, false)
}

// WriteBinary writes a in binary aiger format (version 1.9) to the writer
// w.  WriteBinary returns an error if there was an io error while writing.
func (a *T) WriteBinary(w io.Writer) error {
	return a.write(w, true)
}

func (a *T) check() error {
	n := a.M.NumPos()
	if a.Outputs < 0 || a.Outputs > n {
		return fmt.Errorf("%w: %d outputs of %d", ErrInvalidIndex, a.Outputs, n)
	}
	idxs := append(append(append([]int(nil), a.Bad...), a.Constraints...), a.Fair...)
	for _, js := range a.Justice {
		idxs = append(idxs, js...)
	}
	for _, i := range idxs {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: property output %d of %d", ErrInvalidIndex, i, n)
		}
	}
	return nil
}
