// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/mechyard/crowdsolve/material"
	"github.com/mechyard/crowdsolve/math/lin"
)

func testTable(t *testing.T) *material.Table {
	t.Helper()
	tbl, err := material.NewTable(
		[]material.Intrinsic{{ID: "skin", Young: 1e6, Shear: 4e5}},
		[]material.Binary{{ID1: "skin", ID2: "skin", GammaN: 10, GammaT: 5, Mu: 0.3}},
	)
	if err != nil {
		t.Fatalf("unexpected error building material table: %v", err)
	}
	return tbl
}

func TestValidateRejectsUnknownDiskMaterial(t *testing.T) {
	s := &Scene{
		Materials: testTable(t),
		Agents: []AgentDef{
			{ID: "a1", Disks: []DiskDef{{ID: "d0", Radius: 0.2, MaterialID: "concrete"}}},
		},
	}
	if err := s.Validate(); err == nil {
		t.Fatal("expected an error for an agent disk referencing an undeclared material")
	}
}

func TestValidateAllowsEmptyWallMaterial(t *testing.T) {
	s := &Scene{
		Materials: testTable(t),
		Walls: []Wall{
			{ID: "w1", Corners: []lin.V2{lin.Vec2(0, 0), lin.Vec2(1, 0)}, MaterialID: ""},
		},
		Agents: []AgentDef{
			{ID: "a1", Disks: []DiskDef{{ID: "d0", Radius: 0.2, MaterialID: "skin"}}},
		},
	}
	if err := s.Validate(); err != nil {
		t.Errorf("expected a wall with no material id to validate, got %v", err)
	}
}

func TestValidateRejectsShortWall(t *testing.T) {
	s := &Scene{
		Materials: testTable(t),
		Walls:     []Wall{{ID: "w1", Corners: []lin.V2{lin.Vec2(0, 0)}, MaterialID: ""}},
	}
	if err := s.Validate(); err == nil {
		t.Fatal("expected an error for a wall with fewer than 2 corners")
	}
}

func TestWallSegments(t *testing.T) {
	w := Wall{ID: "w1", Corners: []lin.V2{lin.Vec2(0, 0), lin.Vec2(1, 0), lin.Vec2(1, 1)}}
	segs := w.Segments()
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments for 3 corners, got %d", len(segs))
	}
	if segs[0].Index != 0 || segs[1].Index != 1 {
		t.Errorf("unexpected segment indices: %+v", segs)
	}
	if segs[1].A != w.Corners[1] || segs[1].B != w.Corners[2] {
		t.Errorf("unexpected segment endpoints: %+v", segs[1])
	}
}

func TestAgentByID(t *testing.T) {
	s := &Scene{Agents: []AgentDef{{ID: "a1"}, {ID: "a2"}}}
	if _, ok := s.AgentByID("a2"); !ok {
		t.Error("expected to find agent a2")
	}
	if _, ok := s.AgentByID("missing"); ok {
		t.Error("expected not to find an undeclared agent id")
	}
}
