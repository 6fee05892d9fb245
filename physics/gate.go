// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/mechyard/crowdsolve/math/lin"
	"github.com/mechyard/crowdsolve/scene"
)

// gate.go implements the activity gate from spec.md §4.3: neighbor
// construction by distance threshold, followed by an overlap-prediction
// probe that decides which agents must enter the expensive contact solver
// this macro step versus which can be advanced analytically.
//
// Ported in spirit from broad.go's bounding-sphere pruning in the original
// 3D engine (entities_distance <= bounding radii + slack), generalized
// here to a two-tier wall/agent reach and an explicit one-hop activity
// closure the 3D version did not need.

// buildNeighbors clears and rebuilds every agent's wall and agent neighbor
// lists using the critical-reach distances derived from MaxAgentSpeed and
// the macro step dt.
func (w *World) buildNeighbors() {
	dWall := w.DT * MaxAgentSpeed
	dAgent := 2 * dWall

	for _, id := range w.Order {
		a := w.Agents[id]
		a.WallNeighbors = a.WallNeighbors[:0]
		a.AgentNeighbors = a.AgentNeighbors[:0]

		for _, wall := range w.Scene.Walls {
			for _, seg := range wall.Segments() {
				dist, _ := lin.SegPointDist(seg.A, seg.B, a.Pos)
				if dist < dWall {
					a.WallNeighbors = append(a.WallNeighbors, WallNeighbor{WallID: wall.ID, Segment: seg.Index})
				}
			}
		}
	}

	for i, idA := range w.Order {
		a := w.Agents[idA]
		for _, idB := range w.Order[i+1:] {
			b := w.Agents[idB]
			if w.wrappedDistance(a.Pos, b.Pos) < dAgent {
				a.AgentNeighbors = append(a.AgentNeighbors, idB)
				b.AgentNeighbors = append(b.AgentNeighbors, idA)
			}
		}
	}
}

// wrappedDistance is the coarse, toroidal pruning distance spec.md §3
// reserves for neighbor construction only: each axis is wrapped by half
// the domain length. Contact geometry itself never uses this.
func (w *World) wrappedDistance(a, b lin.V2) float64 {
	dx := lin.Wrap(a.X-b.X, w.Scene.Lx/2)
	dy := lin.Wrap(a.Y-b.Y, w.Scene.Ly/2)
	return math.Hypot(dx, dy)
}

// probeActivity tentatively advances every agent by its desired velocity
// over dt, checks for predicted overlaps and large desired-velocity gaps,
// and propagates activity one hop through the agent-neighbor graph. The
// tentative advance is never written back to any Agent field.
func (w *World) probeActivity() map[string]bool {
	// Only position is advanced tentatively: orientation does not enter
	// the bounding-sphere probe, since BoundRadius already covers every
	// disk regardless of current heading.
	tentative := make(map[string]lin.V2, len(w.Agents))
	for _, id := range w.Order {
		a := w.Agents[id]
		tentative[id] = a.Pos.Add(a.DesiredVel.Scale(w.DT))
	}

	active := make(map[string]bool, len(w.Agents))

	for _, id := range w.Order {
		a := w.Agents[id]
		if a.DesiredGap() > 1e-4 {
			active[id] = true
		}
	}

	for _, id := range w.Order {
		a := w.Agents[id]
		tPos := tentative[id]

		for _, wn := range a.WallNeighbors {
			wall := w.wallByID(wn.WallID)
			seg := wall.Segments()[wn.Segment]
			mid := seg.A.Add(seg.B).Scale(0.5)
			if a.BoundRadius > tPos.Sub(mid).Len() {
				active[id] = true
			}
		}

		for _, otherID := range a.AgentNeighbors {
			if otherID <= id {
				continue // unordered pair already tested from the other side
			}
			b := w.Agents[otherID]
			tOther := tentative[otherID]
			reach := a.BoundRadius + b.BoundRadius + OverlapSlack
			if reach > tPos.Sub(tOther).Len() {
				active[id] = true
				active[otherID] = true
			}
		}
	}

	// One-hop closure: propagate to every agent-neighbor of a flagged agent.
	closure := make(map[string]bool, len(active))
	for id := range active {
		closure[id] = true
	}
	for id := range active {
		for _, nb := range w.Agents[id].AgentNeighbors {
			closure[nb] = true
		}
	}
	return closure
}

func (w *World) wallByID(id string) scene.Wall {
	for _, wall := range w.Scene.Walls {
		if wall.ID == id {
			return wall
		}
	}
	return scene.Wall{}
}
