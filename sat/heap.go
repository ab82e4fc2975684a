// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import "github.com/go-air/gini/z"

// varHeap is a binary max heap of variables ordered by activity.
type varHeap struct {
	vs  []z.Var
	pos []int // pos[v] is the index of v in vs or -1
	act *[]float64
}

func (h *varHeap) less(a, b z.Var) bool {
	act := *h.act
	return act[a] > act[b]
}

func (h *varHeap) grow(v z.Var) {
	for len(h.pos) <= int(v) {
		h.pos = append(h.pos, -1)
	}
}

func (h *varHeap) has(v z.Var) bool {
	return int(v) < len(h.pos) && h.pos[v] >= 0
}

func (h *varHeap) empty() bool {
	return len(h.vs) == 0
}

func (h *varHeap) push(v z.Var) {
	h.grow(v)
	if h.pos[v] >= 0 {
		return
	}
	h.pos[v] = len(h.vs)
	h.vs = append(h.vs, v)
	h.up(len(h.vs) - 1)
}

func (h *varHeap) pop() z.Var {
	v := h.vs[0]
	last := h.vs[len(h.vs)-1]
	h.vs = h.vs[:len(h.vs)-1]
	h.pos[v] = -1
	if len(h.vs) > 0 {
		h.vs[0] = last
		h.pos[last] = 0
		h.down(0)
	}
	return v
}

// bumped restores heap order after the activity of v increased.
func (h *varHeap) bumped(v z.Var) {
	if h.has(v) {
		h.up(h.pos[v])
	}
}

func (h *varHeap) up(i int) {
	v := h.vs[i]
	for i > 0 {
		p := (i - 1) / 2
		if !h.less(v, h.vs[p]) {
			break
		}
		h.vs[i] = h.vs[p]
		h.pos[h.vs[i]] = i
		i = p
	}
	h.vs[i] = v
	h.pos[v] = i
}

func (h *varHeap) down(i int) {
	v := h.vs[i]
	n := len(h.vs)
	for {
		c := 2*i + 1
		if c >= n {
			break
		}
		if c+1 < n && h.less(h.vs[c+1], h.vs[c]) {
			c++
		}
		if !h.less(h.vs[c], v) {
			break
		}
		h.vs[i] = h.vs[c]
		h.pos[h.vs[i]] = i
		i = c
	}
	h.vs[i] = v
	h.pos[v] = i
}
