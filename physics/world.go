// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package physics is the mechanical-layer contact solver: it advances
// every agent's position, orientation, and angular velocity by one macro
// time step, resolving disk-disk and disk-wall contacts with viscoelastic
// normal response, tangential friction, and history-dependent tangential
// displacement.
//
// Package physics was ported from the 3D rigid-body engine of the same
// name in the vu (virtual universe) project; this version trades the
// original's GJK/EPA narrow phase and XPBD solver for the closed-form
// circle-circle and circle-segment contact geometry and explicit
// spring-dashpot force model spec.md describes, since disks and wall
// segments need neither a general convex narrow phase nor a constraint
// solver.
package physics

import (
	"log/slog"
	"math"
	"sort"

	"github.com/mechyard/crowdsolve/journal"
	"github.com/mechyard/crowdsolve/scene"
)

// Tuning constants from spec.md §4.3. MaxAgentSpeed bounds the reachable
// distance used for neighbor pruning; OverlapSlack is the tuned (not
// derived) margin added to the overlap-prediction probe's agent-agent
// bounding-sphere test. Both are exported so a caller embedding the solver
// can report them; as constants they are fixed at compile time and match
// the source this was distilled from.
const (
	MaxAgentSpeed = 7.0 // m/s
	OverlapSlack  = 0.1 // m
)

// World is one simulation session: the immutable scene, the agents'
// mutable kinematic state, and the persistent interaction journal. A
// caller owns a World for the lifetime of a warm-started run and calls
// Step once per macro step.
type World struct {
	Scene   *scene.Scene
	Agents  map[string]*Agent
	Order   []string // agent ids, sorted once, for deterministic iteration
	Journal *journal.Journal
	DT      float64 // macro step dt
	DTMech  float64 // mechanical sub-step dt_mech

	Log *slog.Logger
}

// NewWorld builds a World from a loaded Scene and interaction journal. The
// journal may be empty (cold start) or pre-seeded from a prior run's
// AgentInteractions document (warm start).
func NewWorld(sc *scene.Scene, j *journal.Journal, dt, dtMech float64, log *slog.Logger) *World {
	if log == nil {
		log = slog.Default()
	}
	w := &World{
		Scene:   sc,
		Agents:  make(map[string]*Agent, len(sc.Agents)),
		Journal: j,
		DT:      dt,
		DTMech:  dtMech,
		Log:     log,
	}
	for _, def := range sc.Agents {
		w.Agents[def.ID] = NewAgent(def)
	}
	w.Order = make([]string, 0, len(w.Agents))
	for id := range w.Agents {
		w.Order = append(w.Order, id)
	}
	sort.Strings(w.Order)
	return w
}

// subSteps returns ⌈dt/dt_mech⌉, the number of mechanical sub-steps the
// contact solver runs for one macro step.
func (w *World) subSteps() int {
	return int(math.Ceil(w.DT/w.DTMech - 1e-12))
}

// Step advances every agent by one macro time step: it rebuilds neighbor
// lists, runs the overlap-prediction probe to find the active subset, runs
// the contact solver on that subset for ⌈dt/dt_mech⌉ sub-steps (skipped
// entirely if the active subset is empty), advances every other agent
// analytically, and finally drops any journal entry that saw no contact
// this macro step.
func (w *World) Step() {
	w.buildNeighbors()
	active := w.probeActivity()

	if len(active) > 0 {
		w.runContactSolver(active)
	}
	w.passiveIntegrate(active)
	w.Journal.Cleanup()

	w.Log.Debug("macro step complete",
		slog.Int("active_agents", len(active)),
		slog.Int("sub_steps", w.subSteps()),
		slog.Int("journal_entries", w.Journal.Len()),
	)
}
