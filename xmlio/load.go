// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package xmlio

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mechyard/crowdsolve/journal"
	"github.com/mechyard/crowdsolve/material"
	"github.com/mechyard/crowdsolve/math/lin"
	"github.com/mechyard/crowdsolve/physics"
	"github.com/mechyard/crowdsolve/scene"
)

// Paths is the ordered set of document paths the entry point takes:
// Parameters absolute, the rest resolved against the Static/Dynamic
// directories Parameters declares.
type Paths struct {
	Parameters     string
	Materials      string
	Geometry       string
	Agents         string
	AgentDynamics  string
	AgentInteractions string // optional; empty means "<cwd>/AgentInteractions.xml"
}

// TimeConfig holds the macro/mechanical step durations read from
// Parameters.
type TimeConfig struct {
	DT     float64
	DTMech float64
}

func decode(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return &DocumentLoadError{Path: path, Err: err}
	}
	defer f.Close()
	if err := xml.NewDecoder(f).Decode(v); err != nil {
		return &DocumentLoadError{Path: path, Err: err}
	}
	return nil
}

// LoadParameters reads the Parameters document and resolves the Static and
// Dynamic document paths against its Directories element.
func LoadParameters(path string, materialsFile, geometryFile, agentsFile, dynamicsFile string) (TimeConfig, Paths, error) {
	var doc parametersDoc
	if err := decode(path, &doc); err != nil {
		return TimeConfig{}, Paths{}, err
	}
	if doc.Directories.Static == "" || doc.Directories.Dynamic == "" {
		return TimeConfig{}, Paths{}, &SchemaError{Path: path, Detail: "Directories must declare Static and Dynamic"}
	}
	dt, err := parseFloat(path, "TimeStep", doc.Times.TimeStep)
	if err != nil {
		return TimeConfig{}, Paths{}, err
	}
	dtMech, err := parseFloat(path, "TimeStepMechanical", doc.Times.TimeStepMechanical)
	if err != nil {
		return TimeConfig{}, Paths{}, err
	}
	if dt <= 0 || dtMech <= 0 {
		return TimeConfig{}, Paths{}, &SchemaError{Path: path, Detail: "TimeStep and TimeStepMechanical must be positive"}
	}
	if dtMech > dt {
		return TimeConfig{}, Paths{}, &SchemaError{Path: path, Detail: "TimeStepMechanical must not exceed TimeStep"}
	}

	paths := Paths{
		Parameters:    path,
		Materials:     filepath.Join(doc.Directories.Static, materialsFile),
		Geometry:      filepath.Join(doc.Directories.Static, geometryFile),
		Agents:        filepath.Join(doc.Directories.Static, agentsFile),
		AgentDynamics: filepath.Join(doc.Directories.Dynamic, dynamicsFile),
	}
	return TimeConfig{DT: dt, DTMech: dtMech}, paths, nil
}

// LoadMaterials reads the Materials document and builds a material.Table,
// validating that every unordered pair of declared materials, self-pairs
// included, has a Binary/Contact entry (a MissingPairError otherwise).
func LoadMaterials(path string) (*material.Table, error) {
	var doc materialsDoc
	if err := decode(path, &doc); err != nil {
		return nil, err
	}

	intrinsics := make([]material.Intrinsic, 0, len(doc.Intrinsic.Materials))
	for _, m := range doc.Intrinsic.Materials {
		if m.Id == "" {
			return nil, &SchemaError{Path: path, Detail: "Material missing Id"}
		}
		young, err := parseFloat(path, "YoungModulus", m.YoungModulus)
		if err != nil {
			return nil, err
		}
		shear, err := parseFloat(path, "ShearModulus", m.ShearModulus)
		if err != nil {
			return nil, err
		}
		intrinsics = append(intrinsics, material.Intrinsic{ID: m.Id, Young: young, Shear: shear})
	}

	binaries := make([]material.Binary, 0, len(doc.Binary.Contacts))
	seen := make(map[[2]string]bool, len(doc.Binary.Contacts))
	for _, c := range doc.Binary.Contacts {
		if c.Id1 == "" || c.Id2 == "" {
			return nil, &SchemaError{Path: path, Detail: "Contact missing Id1/Id2"}
		}
		gn, err := parseFloat(path, "GammaNormal", c.GammaNormal)
		if err != nil {
			return nil, err
		}
		gt, err := parseFloat(path, "GammaTangential", c.GammaTangential)
		if err != nil {
			return nil, err
		}
		mu, err := parseFloat(path, "KineticFriction", c.KineticFriction)
		if err != nil {
			return nil, err
		}
		binaries = append(binaries, material.Binary{ID1: c.Id1, ID2: c.Id2, GammaN: gn, GammaT: gt, Mu: mu})
		seen[unordered(c.Id1, c.Id2)] = true
	}

	tbl, err := material.NewTable(intrinsics, binaries)
	if err != nil {
		return nil, &ReferenceError{Path: path, Detail: err.Error()}
	}

	ids := tbl.IDs()
	for i, a := range ids {
		for _, b := range ids[i:] {
			if !seen[unordered(a, b)] {
				return nil, &MissingPairError{Path: path, A: a, B: b}
			}
		}
	}
	return tbl, nil
}

func unordered(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// LoadGeometry reads the Geometry document into the domain size and wall
// list. Material references are left unvalidated here; scene.Scene.Validate
// performs the cross-document check once materials and agents are both
// loaded.
func LoadGeometry(path string) (lx, ly float64, walls []scene.Wall, err error) {
	var doc geometryDoc
	if err = decode(path, &doc); err != nil {
		return 0, 0, nil, err
	}
	if lx, err = parseFloat(path, "Lx", doc.Dimensions.Lx); err != nil {
		return 0, 0, nil, err
	}
	if ly, err = parseFloat(path, "Ly", doc.Dimensions.Ly); err != nil {
		return 0, 0, nil, err
	}
	for wi, w := range doc.Walls {
		if len(w.Corners) < 2 {
			return 0, 0, nil, &SchemaError{Path: path, Detail: fmt.Sprintf("wall #%d has fewer than 2 corners", wi)}
		}
		corners := make([]lin.V2, len(w.Corners))
		for ci, c := range w.Corners {
			p, err := parsePair(path, "Coordinates", c.Coordinates)
			if err != nil {
				return 0, 0, nil, err
			}
			corners[ci] = p
		}
		id := w.Id
		if id == "" {
			id = fmt.Sprintf("wall-%d", wi)
		}
		walls = append(walls, scene.Wall{ID: id, MaterialID: w.MaterialId, Corners: corners})
	}
	return lx, ly, walls, nil
}

// LoadAgents reads the Agents document into a slice of immutable agent
// templates.
func LoadAgents(path string) ([]scene.AgentDef, error) {
	var doc agentsDoc
	if err := decode(path, &doc); err != nil {
		return nil, err
	}
	defs := make([]scene.AgentDef, 0, len(doc.Agents))
	for _, a := range doc.Agents {
		if a.Id == "" {
			return nil, &SchemaError{Path: path, Detail: "Agent missing Id"}
		}
		if len(a.Shapes) == 0 {
			return nil, &SchemaError{Path: path, Detail: fmt.Sprintf("agent %q has no Shape children", a.Id)}
		}
		mass, err := parseFloat(path, "Mass", a.Mass)
		if err != nil {
			return nil, err
		}
		inertia, err := parseFloat(path, "MomentOfInertia", a.MomentOfInertia)
		if err != nil {
			return nil, err
		}
		floorDamp, err := parseFloat(path, "FloorDamping", a.FloorDamping)
		if err != nil {
			return nil, err
		}
		angDamp, err := parseFloat(path, "AngularDamping", a.AngularDamping)
		if err != nil {
			return nil, err
		}
		disks := make([]scene.DiskDef, 0, len(a.Shapes))
		for _, sh := range a.Shapes {
			if sh.Id == "" {
				return nil, &SchemaError{Path: path, Detail: fmt.Sprintf("agent %q has a Shape with no Id", a.Id)}
			}
			radius, err := parseFloat(path, "Radius", sh.Radius)
			if err != nil {
				return nil, err
			}
			if sh.MaterialId == "" {
				return nil, &SchemaError{Path: path, Detail: fmt.Sprintf("agent %q shape %q missing MaterialId", a.Id, sh.Id)}
			}
			pos, err := parsePair(path, "Position", sh.Position)
			if err != nil {
				return nil, err
			}
			disks = append(disks, scene.DiskDef{ID: sh.Id, Radius: radius, MaterialID: sh.MaterialId, Offset: pos})
		}
		defs = append(defs, scene.AgentDef{
			ID: a.Id, Mass: mass, Inertia: inertia,
			FloorDampInv: floorDamp, AngularDampInv: angDamp,
			Disks: disks,
		})
	}
	return defs, nil
}

// LoadAgentDynamics reads the AgentDynamics input document and applies its
// kinematics and driving force/torque to the matching agents of an
// already-built World. Every referenced agent id must exist in w.Agents.
func LoadAgentDynamics(path string, w *physics.World) error {
	var doc agentDynamicsDoc
	if err := decode(path, &doc); err != nil {
		return err
	}
	for _, ag := range doc.Agents {
		a, ok := w.Agents[ag.Id]
		if !ok {
			return &ReferenceError{Path: path, Detail: fmt.Sprintf("agent %q not declared in Agents document", ag.Id)}
		}
		pos, err := parsePair(path, "Position", ag.Kinematics.Position)
		if err != nil {
			return err
		}
		vel, err := parsePair(path, "Velocity", ag.Kinematics.Velocity)
		if err != nil {
			return err
		}
		theta, err := parseFloat(path, "Theta", ag.Kinematics.Theta)
		if err != nil {
			return err
		}
		omega, err := parseFloat(path, "Omega", ag.Kinematics.Omega)
		if err != nil {
			return err
		}
		a.Pos, a.Vel, a.Theta, a.Omega = pos, vel, theta, omega

		var fp lin.V2
		var mp float64
		if ag.Dynamics != nil {
			fp, err = parsePair(path, "Fp", ag.Dynamics.Fp)
			if err != nil {
				return err
			}
			mp, err = parseFloat(path, "Mp", ag.Dynamics.Mp)
			if err != nil {
				return err
			}
		}
		a.SetDriving(fp, mp)
	}
	return nil
}

// LoadInteractions reads a previously-written AgentInteractions document
// and seeds the journal for a warm start. A missing file is reported as a
// *DocumentLoadError wrapping the os.Open error; run.Step treats that case as
// an empty journal and calls this only on a warm start.
func LoadInteractions(path string, j *journal.Journal) error {
	var doc interactionsDoc
	if err := decode(path, &doc); err != nil {
		return err
	}
	for _, ag := range doc.Agents {
		for _, child := range ag.Agents {
			for _, in := range child.Interactions {
				xi, err := parsePair(path, "TangentialRelativeDisplacement", in.Xi)
				if err != nil {
					return err
				}
				fn, err := parsePair(path, "Fn", in.Fn)
				if err != nil {
					return err
				}
				ft, err := parsePair(path, "Ft", in.Ft)
				if err != nil {
					return err
				}
				j.Seed(journal.PairKey{
					AgentI: ag.Id, AgentJ: child.Id,
					DiskI: in.ParentShape, DiskJ: in.ChildShape,
				}, journal.Entry{Xi: xi, Fn: fn, Ft: ft})
			}
		}
		for _, wall := range ag.Walls {
			for _, in := range wall.Interactions {
				xi, err := parsePair(path, "TangentialRelativeDisplacement", in.Xi)
				if err != nil {
					return err
				}
				fn, err := parsePair(path, "Fn", in.Fn)
				if err != nil {
					return err
				}
				ft, err := parsePair(path, "Ft", in.Ft)
				if err != nil {
					return err
				}
				segment := 0
				if in.CornerId != nil {
					segment = *in.CornerId
				}
				j.SeedWall(journal.WallKey{
					Agent: ag.Id, Disk: in.ShapeId,
					Wall: in.WallId, Segment: segment,
				}, journal.Entry{Xi: xi, Fn: fn, Ft: ft})
			}
		}
	}
	return nil
}
