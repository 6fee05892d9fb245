// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"github.com/mechyard/crowdsolve/journal"
	"github.com/mechyard/crowdsolve/material"
	"github.com/mechyard/crowdsolve/math/lin"
)

// contact.go is the mechanical sub-step loop: disk-disk and disk-wall
// contact detection, the viscoelastic normal/tangential force model with
// Coulomb clipping, and semi-implicit Euler integration of the active
// agent subset. Grounded on the accumulate-then-integrate shape of the
// original rigid-body solver.go/contact.go pair, replacing their
// GJK/EPA-driven manifold with closed-form circle geometry.

// accum holds the force and torque accumulated on one agent during a
// single sub-step, reset every sub-step.
type accum struct {
	force  lin.V2
	torque float64
}

// runContactSolver advances every agent named in active through
// subSteps() mechanical sub-steps, resolving contacts and integrating.
// Agents not in active are left untouched here; passiveIntegrate handles
// them separately.
func (w *World) runContactSolver(active map[string]bool) {
	steps := w.subSteps()
	for s := 0; s < steps; s++ {
		w.subStep(active)
	}
}

func (w *World) subStep(active map[string]bool) {
	accums := make(map[string]*accum, len(active))
	for id := range active {
		accums[id] = &accum{}
	}

	for id := range active {
		a := w.Agents[id]
		for _, wn := range a.WallNeighbors {
			w.resolveWallContact(a, wn, accums[id])
		}
	}

	for id := range active {
		a := w.Agents[id]
		for _, otherID := range a.AgentNeighbors {
			if otherID <= id {
				continue
			}
			if !active[otherID] {
				// One-hop closure guarantees activated neighbors of an active
				// agent are active too, but guard anyway: a neighbor list built
				// before closure could in principle contain an inactive id.
				continue
			}
			b := w.Agents[otherID]
			w.resolveAgentContact(a, b, accums[id], accums[otherID])
		}
	}

	for id := range active {
		w.integrateActive(w.Agents[id], accums[id])
	}
}

// resolveAgentContact tests every disk pair between two agents for overlap
// and, for each overlapping pair, computes and accumulates the contact
// force on both agents (equal and opposite, per Newton's third law).
func (w *World) resolveAgentContact(a, b *Agent, fa, fb *accum) {
	for i := range a.Def.Disks {
		ci := a.DiskCenter(i)
		ri := a.Def.Disks[i].Radius
		for j := range b.Def.Disks {
			cj := b.DiskCenter(j)
			rj := b.Def.Disks[j].Radius

			delta := ci.Sub(cj)
			dist := delta.Len()
			overlap := ri + rj - dist
			if overlap <= 0 {
				continue
			}

			normal := delta.Unit() // points from b's disk toward a's disk
			if normal.AeqZ() {
				continue // exactly coincident centers: no well-defined normal
			}

			key := journal.PairKey{
				AgentI: a.Def.ID, AgentJ: b.Def.ID,
				DiskI: a.Def.Disks[i].ID, DiskJ: b.Def.Disks[j].ID,
			}
			entry := w.Journal.Pair(key)

			params, ok := w.Scene.Materials.Pair(a.Def.Disks[i].MaterialID, b.Def.Disks[j].MaterialID)
			if !ok {
				continue
			}

			fn, ft := w.contactForce(params, entry, normal, overlap, a.VelocityAt(ci), b.VelocityAt(cj))
			entry.Fn, entry.Ft = fn, ft
			entry.MarkTouched()

			total := fn.Add(ft)
			fa.force = fa.force.Add(total)
			fa.torque += ci.Sub(a.Pos).Cross(total)
			fb.force = fb.force.Sub(total)
			fb.torque -= cj.Sub(b.Pos).Cross(total)
		}
	}
}

// resolveWallContact tests every disk of an agent against one wall
// segment it neighbors, accumulating the contact force on the agent.
func (w *World) resolveWallContact(a *Agent, wn WallNeighbor, fa *accum) {
	wall := w.wallByID(wn.WallID)
	if wall.MaterialID == "" {
		return // geometry-only wall: never generates contact force
	}
	seg := wall.Segments()[wn.Segment]

	for i := range a.Def.Disks {
		ci := a.DiskCenter(i)
		ri := a.Def.Disks[i].Radius

		dist, closest := lin.SegPointDist(seg.A, seg.B, ci)
		overlap := ri - dist
		if overlap <= 0 {
			continue
		}

		normal := ci.Sub(closest).Unit()
		if normal.AeqZ() {
			continue
		}

		key := journal.WallKey{
			Agent: a.Def.ID, Disk: a.Def.Disks[i].ID,
			Wall: wall.ID, Segment: seg.Index,
		}
		entry := w.Journal.Wall(key)

		params, ok := w.Scene.Materials.Pair(a.Def.Disks[i].MaterialID, wall.MaterialID)
		if !ok {
			continue
		}

		// The wall itself never moves.
		fn, ft := w.contactForce(params, entry, normal, overlap, a.VelocityAt(ci), lin.V2{})
		entry.Fn, entry.Ft = fn, ft
		entry.MarkTouched()

		total := fn.Add(ft)
		fa.force = fa.force.Add(total)
		fa.torque += ci.Sub(a.Pos).Cross(total)
	}
}

// contactForce computes the normal and tangential force for one contact
// given its material parameters and the persisted journal entry, updating
// the entry's accumulated tangential displacement ξ in place. normal
// points away from the surface generating the force, toward the disk
// whose velocity is va; vb is the velocity of the other side of the
// contact (zero for a wall).
func (w *World) contactForce(p material.ContactParams, entry *journal.Entry, normal lin.V2, overlap float64, va, vb lin.V2) (fn, ft lin.V2) {
	relVel := va.Sub(vb)
	vn := relVel.Dot(normal)
	fnMag := p.KN*overlap - p.GammaN*vn
	if fnMag < 0 {
		fnMag = 0
	}
	fn = normal.Scale(fnMag)

	tangent := normal.Perp()
	vt := relVel.Dot(tangent)
	xiT := entry.Xi.Dot(tangent) + vt*w.DTMech

	ftMag := -p.KT*xiT - p.GammaT*vt
	limit := p.Mu * fnMag
	if ftMag > limit {
		ftMag = limit
		if p.KT > 0 {
			entry.Xi = tangent.Scale(-ftMag / p.KT)
		}
	} else if ftMag < -limit {
		ftMag = -limit
		if p.KT > 0 {
			entry.Xi = tangent.Scale(-ftMag / p.KT)
		}
	} else {
		entry.Xi = tangent.Scale(xiT)
	}
	ft = tangent.Scale(ftMag)
	return fn, ft
}

// integrateActive advances one active agent by one mechanical sub-step
// using semi-implicit (symplectic) Euler: velocities are updated from the
// accumulated force/torque first, then position/orientation from the new
// velocities.
func (w *World) integrateActive(a *Agent, f *accum) {
	linAccel := f.force.Scale(1 / a.Def.Mass)
	angAccel := f.torque / a.Def.Inertia

	driveLin := a.DesiredVel.Sub(a.Vel).Scale(a.Def.FloorDampInv)
	driveAng := (a.DesiredOmega - a.Omega) * a.Def.AngularDampInv

	a.Vel = a.Vel.Add(linAccel.Add(driveLin).Scale(w.DTMech))
	a.Omega += (angAccel + driveAng) * w.DTMech

	a.Pos = a.Pos.Add(a.Vel.Scale(w.DTMech))
	a.Theta += a.Omega * w.DTMech
}
