// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package xmlio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mechyard/crowdsolve/journal"
	"github.com/mechyard/crowdsolve/math/lin"
	"github.com/mechyard/crowdsolve/physics"
	"github.com/mechyard/crowdsolve/scene"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadMaterialsDerivesAndChecksPairs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Materials.xml", `<Materials>
  <Intrinsic>
    <Material Id="skin" YoungModulus="1e6" ShearModulus="4e5"/>
    <Material Id="concrete" YoungModulus="2e7" ShearModulus="9e6"/>
  </Intrinsic>
  <Binary>
    <Contact Id1="skin" Id2="skin" GammaNormal="1.3e4" GammaTangential="0" KineticFriction="0.5"/>
    <Contact Id1="concrete" Id2="concrete" GammaNormal="1e4" GammaTangential="0" KineticFriction="0.4"/>
    <Contact Id1="skin" Id2="concrete" GammaNormal="1.1e4" GammaTangential="0" KineticFriction="0.45"/>
  </Binary>
</Materials>`)

	tbl, err := LoadMaterials(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, ok := tbl.Pair("skin", "concrete")
	if !ok {
		t.Fatal("expected skin/concrete pair to be present")
	}
	if p.Mu != 0.45 {
		t.Errorf("expected Mu=0.45, got %v", p.Mu)
	}
}

func TestLoadMaterialsMissingPairFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Materials.xml", `<Materials>
  <Intrinsic>
    <Material Id="skin" YoungModulus="1e6" ShearModulus="4e5"/>
    <Material Id="concrete" YoungModulus="2e7" ShearModulus="9e6"/>
  </Intrinsic>
  <Binary>
    <Contact Id1="skin" Id2="skin" GammaNormal="1.3e4" GammaTangential="0" KineticFriction="0.5"/>
    <Contact Id1="concrete" Id2="concrete" GammaNormal="1e4" GammaTangential="0" KineticFriction="0.4"/>
  </Binary>
</Materials>`)

	_, err := LoadMaterials(path)
	if err == nil {
		t.Fatal("expected a MissingPairError for the undeclared skin/concrete pair")
	}
	var missing *MissingPairError
	if !asMissingPair(err, &missing) {
		t.Errorf("expected a *MissingPairError, got %T: %v", err, err)
	}
}

func asMissingPair(err error, target **MissingPairError) bool {
	if e, ok := err.(*MissingPairError); ok {
		*target = e
		return true
	}
	return false
}

func TestLoadGeometryParsesWallsAndDimensions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Geometry.xml", `<Geometry>
  <Dimensions Lx="10" Ly="6"/>
  <Wall Id="w1" MaterialId="concrete">
    <Corner Coordinates="0,0"/>
    <Corner Coordinates="10,0"/>
  </Wall>
  <Wall>
    <Corner Coordinates="0,6"/>
    <Corner Coordinates="10,6"/>
  </Wall>
</Geometry>`)

	lx, ly, walls, err := LoadGeometry(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lx != 10 || ly != 6 {
		t.Errorf("expected Lx=10 Ly=6, got %v %v", lx, ly)
	}
	if len(walls) != 2 {
		t.Fatalf("expected 2 walls, got %d", len(walls))
	}
	if walls[0].MaterialID != "concrete" {
		t.Errorf("expected first wall material concrete, got %q", walls[0].MaterialID)
	}
	if walls[1].MaterialID != "" {
		t.Errorf("expected second wall to have no material, got %q", walls[1].MaterialID)
	}
	if walls[0].Corners[1] != lin.Vec2(10, 0) {
		t.Errorf("unexpected corner parse: %v", walls[0].Corners[1])
	}
}

func TestLoadAgentsRejectsMissingShapeMaterial(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Agents.xml", `<Agents>
  <Agent Id="p1" Mass="80" MomentOfInertia="1" FloorDamping="2" AngularDamping="2">
    <Shape Id="d0" Radius="0.2" Position="0,0"/>
  </Agent>
</Agents>`)

	_, err := LoadAgents(path)
	if err == nil {
		t.Fatal("expected a SchemaError for a Shape missing MaterialId")
	}
}

func buildTestWorld(t *testing.T) *physics.World {
	t.Helper()
	tbl, err := LoadMaterials(writeFile(t, t.TempDir(), "m.xml", `<Materials>
  <Intrinsic><Material Id="skin" YoungModulus="1e6" ShearModulus="4e5"/></Intrinsic>
  <Binary><Contact Id1="skin" Id2="skin" GammaNormal="1e4" GammaTangential="0" KineticFriction="0.3"/></Binary>
</Materials>`))
	if err != nil {
		t.Fatalf("materials: %v", err)
	}
	sc := &scene.Scene{
		Lx: 10, Ly: 10, Materials: tbl,
		Agents: []scene.AgentDef{
			{ID: "p1", Mass: 80, Inertia: 1, Disks: []scene.DiskDef{{ID: "d0", Radius: 0.2, MaterialID: "skin"}}},
		},
	}
	return physics.NewWorld(sc, journal.New(), 0.1, 1e-5, nil)
}

func TestLoadAgentDynamicsAppliesKinematicsAndDriving(t *testing.T) {
	w := buildTestWorld(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "AgentDynamics.xml", `<Agents>
  <Agent Id="p1">
    <Kinematics Position="1,2" Velocity="0.5,-0.5" Theta="0.1" Omega="0.2"/>
    <Dynamics Fp="80,0" Mp="0"/>
  </Agent>
</Agents>`)

	if err := LoadAgentDynamics(path, w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := w.Agents["p1"]
	if a.Pos != lin.Vec2(1, 2) || a.Vel != lin.Vec2(0.5, -0.5) {
		t.Errorf("unexpected kinematics: pos=%v vel=%v", a.Pos, a.Vel)
	}
	// FloorDampInv defaults to 0, so DesiredVel should be the zero vector.
	if a.DesiredVel != (lin.V2{}) {
		t.Errorf("expected zero DesiredVel with FloorDampInv=0, got %v", a.DesiredVel)
	}
}

func TestLoadAgentDynamicsUnknownAgentFails(t *testing.T) {
	w := buildTestWorld(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "AgentDynamics.xml", `<Agents>
  <Agent Id="ghost">
    <Kinematics Position="0,0" Velocity="0,0" Theta="0" Omega="0"/>
  </Agent>
</Agents>`)

	if err := LoadAgentDynamics(path, w); err == nil {
		t.Fatal("expected a ReferenceError for an undeclared agent id")
	}
}

func TestSaveThenLoadInteractionsRoundTrip(t *testing.T) {
	j := journal.New()
	e := j.Pair(journal.PairKey{AgentI: "a", AgentJ: "b", DiskI: "d0", DiskJ: "d0"})
	e.Xi = lin.Vec2(0.01, -0.02)
	e.Fn = lin.Vec2(1, 2)
	e.Ft = lin.Vec2(3, 4)
	e.MarkTouched()

	we := j.Wall(journal.WallKey{Agent: "a", Disk: "d0", Wall: "w1", Segment: 2})
	we.Xi = lin.Vec2(0.1, 0.1)
	we.MarkTouched()

	dir := t.TempDir()
	path := filepath.Join(dir, "AgentInteractions.xml")
	if err := SaveInteractions(path, j); err != nil {
		t.Fatalf("save: %v", err)
	}

	j2 := journal.New()
	if err := LoadInteractions(path, j2); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := j2.Pair(journal.PairKey{AgentI: "a", AgentJ: "b", DiskI: "d0", DiskJ: "d0"})
	if got.Xi != e.Xi || got.Fn != e.Fn || got.Ft != e.Ft {
		t.Errorf("pair round trip mismatch: got %+v", got)
	}
	gotWall := j2.Wall(journal.WallKey{Agent: "a", Disk: "d0", Wall: "w1", Segment: 2})
	if gotWall.Xi != we.Xi {
		t.Errorf("wall round trip mismatch: got %+v", gotWall)
	}
}

func TestSaveAgentDynamicsWritesPostStepState(t *testing.T) {
	w := buildTestWorld(t)
	w.Agents["p1"].Pos = lin.Vec2(3, 4)
	w.Agents["p1"].Vel = lin.Vec2(1, 0)

	dir := t.TempDir()
	path := filepath.Join(dir, "AgentDynamics.xml")
	if err := SaveAgentDynamics(path, w); err != nil {
		t.Fatalf("save: %v", err)
	}

	w2 := buildTestWorld(t)
	if err := LoadAgentDynamics(path, w2); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if w2.Agents["p1"].Pos != lin.Vec2(3, 4) {
		t.Errorf("expected reloaded position (3,4), got %v", w2.Agents["p1"].Pos)
	}
}
