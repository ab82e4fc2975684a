// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"math/rand"

	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"
)

// Rand3Cnf generates a random 3cnf with
// n variables and m clauses.
func Rand3Cnf(dst inter.Adder, rng *rand.Rand, n, m int) {
	ms := make([]z.Lit, 3)
	for i := 0; i < m; i++ {
		for j := 0; j < 3; j++ {
			ms[j] = z.Lit(rng.Intn(2*n) + 2)
			for j == 1 && ms[0].Var() == ms[1].Var() {
				ms[j] = z.Lit(rng.Intn(2*n) + 2)
			}
			for j == 2 && (ms[0].Var() == ms[2].Var() || ms[1].Var() == ms[2].Var()) {
				ms[j] = z.Lit(rng.Intn(2*n) + 2)
			}
		}
		dst.Add(ms[0])
		dst.Add(ms[1])
		dst.Add(ms[2])
		dst.Add(z.LitNull)
	}
}

// HardRand3Cnf generates a random 3cnf
// with n variables near the phase transition.
func HardRand3Cnf(dst inter.Adder, rng *rand.Rand, n int) {
	Rand3Cnf(dst, rng, n, 4*n+n/4)
}

// PartVar returns a variable if element i is in partition k
// for a set of n elements.
func PartVar(i, k, n int) z.Lit {
	return z.Var(k*n + i + 1).Pos()
}

// Php generates a pigeon hole problem asking
// whether or not P pigeons can be placed
// in H holes with 1 pigeon per hole.
func Php(dst inter.Adder, P, H int) {
	for i := 0; i < P; i++ {
		for j := 0; j < H; j++ {
			dst.Add(PartVar(i, j, P))
		}
		dst.Add(0)
	}
	for i := 0; i < P; i++ {
		for j := 0; j < i; j++ {
			for h := 0; h < H; h++ {
				dst.Add(PartVar(i, h, P).Not())
				dst.Add(PartVar(j, h, P).Not())
				dst.Add(0)
			}
		}
	}
}
