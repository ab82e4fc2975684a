// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

// Luby generates the Luby restart sequence 1 1 2 1 1 2 4 ...
type Luby struct {
	u, v uint
}

// NewLuby creates a new Luby sequence.
func NewLuby() *Luby {
	return &Luby{u: 1, v: 1}
}

// Next returns the next element of the sequence.
func (l *Luby) Next() uint {
	r := l.v
	if l.u&-l.u == l.v {
		l.u++
		l.v = 1
	} else {
		l.v <<= 1
	}
	return r
}
