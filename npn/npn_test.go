// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package npn

import (
	"fmt"
	"testing"
)

func TestClasses(t *testing.T) {
	if n := len(Classes()); n != 222 {
		t.Errorf("expected 222 classes got %d", n)
	}
}

func TestCanon(t *testing.T) {
	for f := 0; f < 1<<16; f++ {
		c, tr := Canon(uint16(f))
		if g := Apply(c, tr); g != uint16(f) {
			t.Fatalf("%04x: canon %04x by %s gives %04x", f, c, tr, g)
		}
		if c > uint16(f) {
			t.Fatalf("%04x: canon %04x not minimal", f, c)
		}
	}
}

func TestCanonInvariant(t *testing.T) {
	trs := Transforms()
	for _, f := range []uint16{0x8000, 0x6996, 0xCAFE, 0x0180, 0x1234} {
		c, _ := Canon(f)
		for i := 0; i < len(trs); i += 37 {
			if d, _ := Canon(Apply(f, trs[i])); d != c {
				t.Errorf("%04x: class not closed under %s", f, trs[i])
			}
		}
	}
}

func TestApplyIdentity(t *testing.T) {
	if Apply(0xCAFE, Identity) != 0xCAFE {
		t.Errorf("identity")
	}
	tr := Identity
	tr.Out = true
	if Apply(0xCAFE, tr) != ^uint16(0xCAFE) {
		t.Errorf("output negation")
	}
}

func ExampleCanon() {
	// and of 4 inputs and nor of 4 inputs are in one class
	a, _ := Canon(0x8000)
	b, _ := Canon(0x0001)
	fmt.Printf("%04x %04x\n", a, b)
	// Output: 0001 0001
}
