// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package scene holds the immutable geometry and material tables that
// describe a crowd simulation: the domain size, wall polylines, and the
// rigid-disk agent templates. None of the data here is mutated after load;
// per-step kinematic state lives in package physics.
package scene

import (
	"fmt"

	"github.com/mechyard/crowdsolve/material"
	"github.com/mechyard/crowdsolve/math/lin"
)

// DiskDef is the immutable geometry of one disk of an agent: its radius,
// its material, and its fixed offset from the owning agent's center of
// mass in the agent's body frame.
type DiskDef struct {
	ID         string
	Radius     float64
	Offset     lin.V2
	MaterialID string
}

// AgentDef is the immutable template for an agent: its inertial
// properties and its ordered list of disks (left-shoulder to
// right-shoulder, per spec.md §6). Kinematic state is not part of this
// type; see physics.Agent.
type AgentDef struct {
	ID             string
	Mass           float64
	Inertia        float64
	FloorDampInv   float64 // τ_t⁻¹
	AngularDampInv float64 // τ_r⁻¹
	Disks          []DiskDef
}

// Wall is an immutable polyline of ordered corners sharing one material.
// Consecutive corners form the wall's segments.
type Wall struct {
	ID         string
	Corners    []lin.V2
	MaterialID string
}

// Segment is one [a,b] span of a wall's polyline, identified by its index
// (the corner index of its first endpoint, per spec.md §6's CornerId).
type Segment struct {
	Index int
	A, B  lin.V2
}

// Segments returns every consecutive-corner segment of the wall.
func (w Wall) Segments() []Segment {
	segs := make([]Segment, 0, len(w.Corners)-1)
	for i := 0; i < len(w.Corners)-1; i++ {
		segs = append(segs, Segment{Index: i, A: w.Corners[i], B: w.Corners[i+1]})
	}
	return segs
}

// Scene is the immutable, load-once description of a simulation: its
// domain size, wall polylines, agent templates, and material registry.
type Scene struct {
	Lx, Ly    float64
	Walls     []Wall
	Agents    []AgentDef
	Materials *material.Table
}

// Validate checks the cross-referential invariants spec.md §4.1 requires:
// every wall has at least 2 corners, every agent has at least one disk, and
// every material id referenced by a disk, or by a wall that names one, must
// be declared. Completeness of the material pair table is not checked here;
// xmlio.LoadMaterials checks it when the Materials document is read.
func (s *Scene) Validate() error {
	if s.Materials == nil {
		return fmt.Errorf("scene: no material table loaded")
	}
	for _, w := range s.Walls {
		if len(w.Corners) < 2 {
			return fmt.Errorf("scene: wall %q has fewer than 2 corners", w.ID)
		}
		if w.MaterialID != "" && !s.Materials.Has(w.MaterialID) {
			return fmt.Errorf("scene: wall %q references unknown material %q", w.ID, w.MaterialID)
		}
	}
	for _, a := range s.Agents {
		if len(a.Disks) == 0 {
			return fmt.Errorf("scene: agent %q has no disks", a.ID)
		}
		for _, d := range a.Disks {
			if !s.Materials.Has(d.MaterialID) {
				return fmt.Errorf("scene: agent %q disk %q references unknown material %q", a.ID, d.ID, d.MaterialID)
			}
		}
	}
	return nil
}

// AgentByID returns the agent template with the given id, if any.
func (s *Scene) AgentByID(id string) (AgentDef, bool) {
	for _, a := range s.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentDef{}, false
}
