// Copyright 2018 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aiger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// header for aiger v 1.9
type header struct {
	Binary     bool
	Max        uint
	In         uint
	Latch      uint
	Out        uint
	And        uint
	Bad        uint
	Constraint uint
	Justice    uint
	Fair       uint
}

// write the header, leaving out trailing zero property counts so that
// files without properties are also version 1 files.
func (h *header) write(w *bufio.Writer) {
	if h.Binary {
		w.WriteString("aig")
	} else {
		w.WriteString("aag")
	}
	counts := []uint{h.Max, h.In, h.Latch, h.Out, h.And, h.Bad, h.Constraint, h.Justice, h.Fair}
	n := len(counts)
	for n > 5 && counts[n-1] == 0 {
		n--
	}
	for _, c := range counts[:n] {
		w.WriteByte(' ')
		w.WriteString(strconv.FormatUint(uint64(c), 10))
	}
	w.WriteByte('\n')
}

// read the header, possibly allowing version 1 style aiger files (without
// B,C,J,F)
func readHeader(r *bufio.Reader) (*header, error) {
	result := &header{}
	buf := make([]byte, 0, 3)
	buf, err := readNonWS(r, buf)
	if err != nil {
		return nil, err
	}
	switch string(buf) {
	case "aag":
		result.Binary = false
	case "aig":
		result.Binary = true
	default:
		return nil, ErrBadHeader
	}
	wantSpace := true
	i := 0
	var counts [9]uint
	for {
		if !wantSpace {
			if i > 8 {
				return nil, ErrBadHeader
			}
			counts[i], err = readUint(r)
			i++
			if err != nil {
				return nil, err
			}
			wantSpace = true
			continue
		}
		b, e := r.ReadByte()
		if e == io.EOF {
			return nil, ErrPrematureEOF
		}
		if e != nil {
			return nil, e
		}
		if b == '\r' {
			continue
		}
		if b == '\n' {
			if i < 5 {
				return nil, ErrBadHeader
			}
			break
		}
		if b != ' ' {
			return nil, ErrBadHeader
		}
		wantSpace = false
	}
	result.Max = counts[0]
	result.In = counts[1]
	result.Latch = counts[2]
	result.Out = counts[3]
	result.And = counts[4]
	result.Bad = counts[5]
	result.Constraint = counts[6]
	result.Justice = counts[7]
	result.Fair = counts[8]
	if result.Max < result.In+result.Latch+result.And && !result.Binary {
		// ascii files may leave variables unused but not overflow
		return nil, fmt.Errorf("%w: M=%d < I+L+A=%d", ErrBadHeader, result.Max, result.In+result.Latch+result.And)
	}
	if result.Binary && result.Max != result.In+result.Latch+result.And {
		return nil, fmt.Errorf("%w: M=%d != I+L+A=%d", ErrBadHeader, result.Max, result.In+result.Latch+result.And)
	}
	return result, nil
}

// reads a new line character and returns nil unless there was no new
// line character.  A preceding carriage return is skipped.
func readNL(r *bufio.Reader) error {
	b, e := r.ReadByte()
	if e == io.EOF {
		return ErrPrematureEOF
	}
	if e != nil {
		return e
	}
	if b == '\r' {
		return readNL(r)
	}
	if b == '\n' {
		return nil
	}
	return ErrUnexpectedChar
}

// reads a space character
func readSpace(r *bufio.Reader) error {
	b, e := r.ReadByte()
	if e == io.EOF {
		return ErrPrematureEOF
	}
	if e != nil {
		return e
	}
	if b != ' ' {
		return ErrUnexpectedChar
	}
	return nil
}

// reads non-white space and puts the result in buf
func readNonWS(r *bufio.Reader, buf []byte) ([]byte, error) {
	buf = buf[:0]
	for {
		b, e := r.ReadByte()
		if e == io.EOF {
			break
		}
		if e != nil {
			return buf, e
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			r.UnreadByte()
			break
		}
		buf = append(buf, b)
	}
	return buf, nil
}

// reads a uint
func readUint(r *bufio.Reader) (uint, error) {
	var result uint
	first := true
	for {
		b, e := r.ReadByte()
		if e == io.EOF {
			if first {
				return 0, ErrPrematureEOF
			}
			break
		}
		if e != nil {
			return 0, e
		}
		if b >= '0' && b <= '9' {
			result *= 10
			result += uint(b - '0')
			first = false
			continue
		}
		r.UnreadByte()
		break
	}
	if first {
		return 0, ErrUnexpectedChar
	}
	return result, nil
}

// for binary aiger coding of and deltas, 0 is coded as a single byte
func write7(w *bufio.Writer, val uint) error {
	for {
		b := byte(val & 0x7f)
		val >>= 7
		if val != 0 {
			b |= 0x80
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
		if val == 0 {
			return nil
		}
	}
}

// for binary aiger coding of and deltas
func read7(r *bufio.Reader) (uint, error) {
	var result uint
	for i := 0; ; i++ {
		b, e := r.ReadByte()
		if e == io.EOF {
			return 0, ErrPrematureEOF
		}
		if e != nil {
			return 0, e
		}
		if i > 9 {
			return 0, ErrBadDeltaEncoding
		}
		result |= (uint(b) & 0x7f) << uint(7*i)
		if b&0x80 == 0 {
			return result, nil
		}
	}
}
