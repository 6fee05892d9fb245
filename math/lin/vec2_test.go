// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import (
	"math"
	"testing"
)

func TestV2AddSub(t *testing.T) {
	a, b := Vec2(1, 2), Vec2(3, -1)
	if s := a.Add(b); !Aeq(s.X, 4) || !Aeq(s.Y, 1) {
		t.Errorf("Add got %v", s)
	}
	if d := a.Sub(b); !Aeq(d.X, -2) || !Aeq(d.Y, 3) {
		t.Errorf("Sub got %v", d)
	}
}

func TestV2DotCross(t *testing.T) {
	a, b := Vec2(1, 0), Vec2(0, 1)
	if !Aeq(a.Dot(b), 0) {
		t.Error("Dot of perpendicular vectors should be 0")
	}
	if !Aeq(a.Cross(b), 1) {
		t.Error("Cross of X-hat, Y-hat should be 1")
	}
}

func TestV2Unit(t *testing.T) {
	v := Vec2(3, 4).Unit()
	if !Aeq(v.Len(), 1) {
		t.Errorf("Expected unit length, got %f", v.Len())
	}
	if z := (V2{}).Unit(); !z.AeqZ() {
		t.Error("Unit of the zero vector should stay zero")
	}
}

func TestV2Perp(t *testing.T) {
	n := Vec2(1, 0)
	tn := n.Perp()
	if !Aeq(n.Dot(tn), 0) {
		t.Error("Perp should be orthogonal to the source vector")
	}
}

func TestCrossScalar(t *testing.T) {
	r := Vec2(1, 0)
	v := CrossScalar(2, r)
	if !Aeq(v.X, 0) || !Aeq(v.Y, 2) {
		t.Errorf("CrossScalar got %v", v)
	}
}

func TestRot2(t *testing.T) {
	v := Rot2(Vec2(1, 0), math.Pi/2)
	if !Aeq(v.X, 0) || !Aeq(v.Y, 1) {
		t.Errorf("Rot2 by 90deg got %v", v)
	}
}

func TestSegPointDist(t *testing.T) {
	a, b := Vec2(0, 0), Vec2(1, 0)
	d, c := SegPointDist(a, b, Vec2(0.5, 1))
	if !Aeq(d, 1) || !Aeq(c.X, 0.5) || !Aeq(c.Y, 0) {
		t.Errorf("SegPointDist got dist=%f closest=%v", d, c)
	}
	// closest point clamped to the endpoint when p projects outside the segment.
	d2, c2 := SegPointDist(a, b, Vec2(-1, 0))
	if !Aeq(d2, 1) || !Aeq(c2.X, 0) || !Aeq(c2.Y, 0) {
		t.Errorf("SegPointDist clamp got dist=%f closest=%v", d2, c2)
	}
}

func TestWrap(t *testing.T) {
	if w := Wrap(6, 5); !Aeq(w, -4) {
		t.Errorf("Wrap(6,5) got %f", w)
	}
	if w := Wrap(-6, 5); !Aeq(w, 4) {
		t.Errorf("Wrap(-6,5) got %f", w)
	}
	if w := Wrap(3, 5); !Aeq(w, 3) {
		t.Errorf("Wrap(3,5) should be unchanged, got %f", w)
	}
}
