// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package tt implements truth tables of Boolean functions over a small
// number of variables.
//
// A truth table over n variables is a T with Words(n) 64 bit words.  Bit
// k of the table is the value of the function under the assignment whose
// i'th variable is bit i of k.  For n < 6, the table occupies the low
// 1<<n bits of its single word and is replicated to fill it, so that
// tables over fewer variables are also valid tables over more variables
// with the same word count.
package tt

import (
	"fmt"
	"math/bits"
	"strings"
)

// T is a truth table.
type T []uint64

var elems = [6]uint64{
	0xAAAAAAAAAAAAAAAA,
	0xCCCCCCCCCCCCCCCC,
	0xF0F0F0F0F0F0F0F0,
	0xFF00FF00FF00FF00,
	0xFFFF0000FFFF0000,
	0xFFFFFFFF00000000}

// Words returns the number of words of a table over n variables.
func Words(n int) int {
	if n <= 6 {
		return 1
	}
	return 1 << uint(n-6)
}

// New returns the constant 0 table over n variables.
func New(n int) T {
	return make(T, Words(n))
}

// Const returns the constant table over n variables with value v.
func Const(n int, v bool) T {
	t := New(n)
	if v {
		for i := range t {
			t[i] = ^uint64(0)
		}
	}
	return t
}

// Var returns the table of the i'th variable over n variables.
func Var(n, i int) T {
	t := New(n)
	if i < 6 {
		for k := range t {
			t[k] = elems[i]
		}
		return t
	}
	step := 1 << uint(i-6)
	for k := range t {
		if k&step != 0 {
			t[k] = ^uint64(0)
		}
	}
	return t
}

// Copy returns a copy of t.
func (t T) Copy() T {
	return append(T(nil), t...)
}

// And sets dst to a and b.
func And(dst, a, b T) T {
	for i := range dst {
		dst[i] = a[i] & b[i]
	}
	return dst
}

// AndCompl sets dst to a and b with complemented operands as indicated.
func AndCompl(dst, a, b T, ca, cb bool) T {
	var ma, mb uint64
	if ca {
		ma = ^uint64(0)
	}
	if cb {
		mb = ^uint64(0)
	}
	for i := range dst {
		dst[i] = (a[i] ^ ma) & (b[i] ^ mb)
	}
	return dst
}

// Or sets dst to a or b.
func Or(dst, a, b T) T {
	for i := range dst {
		dst[i] = a[i] | b[i]
	}
	return dst
}

// Xor sets dst to a xor b.
func Xor(dst, a, b T) T {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
	return dst
}

// Sharp sets dst to a and not b.
func Sharp(dst, a, b T) T {
	for i := range dst {
		dst[i] = a[i] &^ b[i]
	}
	return dst
}

// Not sets dst to not a.
func Not(dst, a T) T {
	for i := range dst {
		dst[i] = ^a[i]
	}
	return dst
}

// Equal returns whether t and u are the same table.
func (t T) Equal(u T) bool {
	if len(t) != len(u) {
		return false
	}
	for i := range t {
		if t[i] != u[i] {
			return false
		}
	}
	return true
}

// EqualCompl returns whether t is the complement of u.
func (t T) EqualCompl(u T) bool {
	if len(t) != len(u) {
		return false
	}
	for i := range t {
		if t[i] != ^u[i] {
			return false
		}
	}
	return true
}

// Implies returns whether every minterm of t is a minterm of u.
func (t T) Implies(u T) bool {
	for i := range t {
		if t[i]&^u[i] != 0 {
			return false
		}
	}
	return true
}

// IsConst0 returns whether t is constant 0.
func (t T) IsConst0() bool {
	for _, w := range t {
		if w != 0 {
			return false
		}
	}
	return true
}

// IsConst1 returns whether t is constant 1.
func (t T) IsConst1() bool {
	for _, w := range t {
		if w != ^uint64(0) {
			return false
		}
	}
	return true
}

// Bit returns the value of t at minterm k.
func (t T) Bit(k int) bool {
	return t[k>>6]&(1<<uint(k&63)) != 0
}

// SetBit sets minterm k of t to 1.  The caller is responsible for keeping
// tables over fewer than 6 variables replicated.
func (t T) SetBit(k int) {
	t[k>>6] |= 1 << uint(k&63)
}

// Ones returns the number of minterms of t, as a table over n variables.
func (t T) Ones(n int) int {
	if n < 6 {
		return bits.OnesCount64(t[0] & (1<<(1<<uint(n)) - 1))
	}
	c := 0
	for _, w := range t {
		c += bits.OnesCount64(w)
	}
	return c
}

// Cofactor0 returns the table of t with variable i set to 0.  The result
// does not depend on variable i.
func (t T) Cofactor0(i int) T {
	r := make(T, len(t))
	if i < 6 {
		s := uint(1) << uint(i)
		for k, w := range t {
			w &^= elems[i]
			r[k] = w | w<<s
		}
		return r
	}
	step := 1 << uint(i-6)
	for k := 0; k < len(t); k += 2 * step {
		for j := 0; j < step; j++ {
			r[k+j] = t[k+j]
			r[k+step+j] = t[k+j]
		}
	}
	return r
}

// Cofactor1 returns the table of t with variable i set to 1.  The result
// does not depend on variable i.
func (t T) Cofactor1(i int) T {
	r := make(T, len(t))
	if i < 6 {
		s := uint(1) << uint(i)
		for k, w := range t {
			w &= elems[i]
			r[k] = w | w>>s
		}
		return r
	}
	step := 1 << uint(i-6)
	for k := 0; k < len(t); k += 2 * step {
		for j := 0; j < step; j++ {
			r[k+j] = t[k+step+j]
			r[k+step+j] = t[k+step+j]
		}
	}
	return r
}

// HasVar returns whether t depends on variable i.
func (t T) HasVar(i int) bool {
	if i < 6 {
		s := uint(1) << uint(i)
		for _, w := range t {
			if (w>>s)&^elems[i] != w&^elems[i] {
				return true
			}
		}
		return false
	}
	step := 1 << uint(i-6)
	for k := 0; k < len(t); k += 2 * step {
		for j := 0; j < step; j++ {
			if t[k+j] != t[k+step+j] {
				return true
			}
		}
	}
	return false
}

// Support returns the set of variables among the first n which t depends
// on, as a bit mask.
func (t T) Support(n int) uint32 {
	var s uint32
	for i := 0; i < n; i++ {
		if t.HasVar(i) {
			s |= 1 << uint(i)
		}
	}
	return s
}

var swapMasks = [5][3]uint64{
	{0x9999999999999999, 0x2222222222222222, 0x4444444444444444},
	{0xC3C3C3C3C3C3C3C3, 0x0C0C0C0C0C0C0C0C, 0x3030303030303030},
	{0xF00FF00FF00FF00F, 0x00F000F000F000F0, 0x0F000F000F000F00},
	{0xFF0000FFFF0000FF, 0x0000FF000000FF00, 0x00FF000000FF0000},
	{0xFFFF00000000FFFF, 0x00000000FFFF0000, 0x0000FFFF00000000}}

// SwapAdjacent exchanges variables i and i+1 of t in place.
func (t T) SwapAdjacent(i int) {
	switch {
	case i < 5:
		s := uint(1) << uint(i)
		pm := &swapMasks[i]
		for k, w := range t {
			t[k] = w&pm[0] | (w&pm[1])<<s | (w&pm[2])>>s
		}
	case i == 5:
		for k := 0; k+1 < len(t); k += 2 {
			w0, w1 := t[k], t[k+1]
			t[k] = w0&0x00000000FFFFFFFF | w1<<32
			t[k+1] = w1&0xFFFFFFFF00000000 | w0>>32
		}
	default:
		step := 1 << uint(i-6)
		for k := 0; k < len(t); k += 4 * step {
			for j := 0; j < step; j++ {
				a, b := k+step+j, k+2*step+j
				t[a], t[b] = t[b], t[a]
			}
		}
	}
}

// Swap exchanges variables i and j of t in place.
func (t T) Swap(i, j int) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	for k := i; k < j; k++ {
		t.SwapAdjacent(k)
	}
	for k := j - 2; k >= i; k-- {
		t.SwapAdjacent(k)
	}
}

// Stretch returns a table over n variables in which variable k of t,
// a table over len(pos) variables, becomes variable pos[k].  pos must be
// strictly increasing and pos[len(pos)-1] < n.
func Stretch(t T, n int, pos []int) T {
	r := New(n)
	for k := range r {
		r[k] = t[k%len(t)]
	}
	for k := len(pos) - 1; k >= 0; k-- {
		for j := k; j < pos[k]; j++ {
			r.SwapAdjacent(j)
		}
	}
	return r
}

// Shrink is the inverse of Stretch: it returns a table over len(pos)
// variables in which variable pos[k] of t becomes variable k.  t must
// not depend on variables outside pos.
func Shrink(t T, pos []int) T {
	r := t.Copy()
	for k := range pos {
		for j := pos[k]; j > k; j-- {
			r.SwapAdjacent(j - 1)
		}
	}
	w := Words(len(pos))
	r = r[:w]
	if n := len(pos); n < 6 {
		r[0] = replicate(r[0], n)
	}
	return r
}

func replicate(w uint64, n int) uint64 {
	for s := uint(1) << uint(n); s < 64; s <<= 1 {
		w = w&(1<<s-1) | (w&(1<<s-1))<<s
	}
	return w
}

// FromUint16 returns a table over n >= 4 variables from the low 16 bits
// representation of a 4 variable function.
func FromUint16(n int, f uint16) T {
	w := replicate(uint64(f), 4)
	t := New(n)
	for k := range t {
		t[k] = w
	}
	return t
}

// Uint16 returns the 4 variable function of t, which must not depend on
// variables above 3.
func (t T) Uint16() uint16 {
	return uint16(t[0])
}

func (t T) String() string {
	var sb strings.Builder
	for i := len(t) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%016x", t[i])
	}
	return sb.String()
}
