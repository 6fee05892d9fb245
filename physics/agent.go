// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/mechyard/crowdsolve/math/lin"
	"github.com/mechyard/crowdsolve/scene"
)

// Agent is a rigid body made of one or more disks, mutated once per macro
// step by the contact solver or the passive integrator. Its immutable
// geometry (mass, inertia, disk layout) lives in its Def field (a scene.AgentDef);
// everything else here is per-step kinematic state.
type Agent struct {
	Def scene.AgentDef

	// Current state.
	Pos   lin.V2
	Theta float64
	Vel   lin.V2
	Omega float64

	// Driving targets, read fresh from the AgentDynamics document each
	// macro step.
	DesiredVel   lin.V2
	DesiredOmega float64

	// Theta0 is derived once at creation: the rotation applied to a disk's
	// body-frame offset is (Theta - Theta0), not Theta itself, per
	// spec.md §3's invariant.
	Theta0 float64

	// BoundRadius is the conservative radius of the smallest disk
	// covering every one of the agent's disks about its center of mass,
	// used only for coarse pruning.
	BoundRadius float64

	// Neighbor sets, rebuilt at the start of every macro step and stale
	// thereafter.
	WallNeighbors  []WallNeighbor
	AgentNeighbors []string
}

// WallNeighbor names one wall segment within reach of an agent.
type WallNeighbor struct {
	WallID  string
	Segment int
}

// NewAgent builds an Agent from its immutable template. Theta0 is derived
// from the unit normal to the left-shoulder -> right-shoulder vector of the
// initial disk layout (the first and last disks in Def.Disks, per the
// ordering spec.md §6 mandates), and BoundRadius from the disk layout.
func NewAgent(def scene.AgentDef) *Agent {
	a := &Agent{Def: def}
	a.Theta0 = shoulderHeading(def)
	a.Theta = a.Theta0
	a.BoundRadius = boundingRadius(def)
	return a
}

// shoulderHeading derives θ0: the heading implied by the initial body-frame
// disk layout, taken as the angle of the unit normal to the vector from the
// left-shoulder disk (first in the list) to the right-shoulder disk (last).
// A single-disk agent has no shoulder vector and gets θ0=0.
func shoulderHeading(def scene.AgentDef) float64 {
	if len(def.Disks) < 2 {
		return 0
	}
	left := def.Disks[0].Offset
	right := def.Disks[len(def.Disks)-1].Offset
	shoulder := right.Sub(left)
	if shoulder.AeqZ() {
		return 0
	}
	normal := shoulder.Perp()
	return math.Atan2(normal.Y, normal.X)
}

// boundingRadius returns max_i(|offset_i| + radius_i) over the agent's disks.
func boundingRadius(def scene.AgentDef) float64 {
	r := 0.0
	for _, d := range def.Disks {
		if cand := d.Offset.Len() + d.Radius; cand > r {
			r = cand
		}
	}
	return r
}

// DiskCenter returns the absolute world position of disk index i, computed
// from the agent's current Pos and Theta. Disk absolute centers are always
// derived this way, never cached, so they are automatically correct after
// every sub-step's rotation update.
func (a *Agent) DiskCenter(i int) lin.V2 {
	offset := a.Def.Disks[i].Offset
	return a.Pos.Add(lin.Rot2(offset, a.Theta-a.Theta0))
}

// VelocityAt returns the linear velocity of the agent at a point p
// (absolute world coordinates), accounting for rotation: v + ω×(p-center).
func (a *Agent) VelocityAt(p lin.V2) lin.V2 {
	r := p.Sub(a.Pos)
	return a.Vel.Add(lin.CrossScalar(a.Omega, r))
}

// DesiredGap returns the squared deviation of current from desired
// velocity/omega, compared against the spec.md §4.3 activity threshold
// (1e-4) by the caller.
func (a *Agent) DesiredGap() float64 {
	dv := a.Vel.Sub(a.DesiredVel)
	dw := a.Omega - a.DesiredOmega
	return dv.LenSqr() + dw*dw
}

// SetDriving installs this macro step's driving force/torque, read from the
// AgentDynamics document's Fp/Mp fields. DesiredVel and DesiredOmega are not
// read directly from any document: they are the steady state a relaxation
// force would drive the body toward, v* = Fp/(m·τ_t⁻¹), so that the single
// relaxation term used by both the contact solver's Step 5 and the passive
// integrator reduces, for an otherwise isolated agent, to Newton's law
// under the original constant driving force.
func (a *Agent) SetDriving(fp lin.V2, mp float64) {
	if a.Def.FloorDampInv > 0 {
		a.DesiredVel = fp.Scale(1 / (a.Def.Mass * a.Def.FloorDampInv))
	} else {
		a.DesiredVel = lin.V2{}
	}
	if a.Def.AngularDampInv > 0 {
		a.DesiredOmega = mp / (a.Def.Inertia * a.Def.AngularDampInv)
	} else {
		a.DesiredOmega = 0
	}
}
